// Package config loads run options from a config file, CODEBASETEXT_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codebasetext/pkg/combine"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyIgnorePatterns  = "ignorePatterns"
	KeyMaxFileSizeMB   = "maxFileSizeMB"
	KeyOutputFileName  = "outputFileName"
	KeyWorkers         = "workers"
	KeyBinaryDetection = "binaryDetection"
	KeyUseGitignore    = "useGitignore"
	KeyDebug           = "debug"
	KeyTokens          = "tokens"
	KeyTokenModel      = "tokenModel"
)

const (
	// FileName is the project-local config file looked up in the evaluation root.
	FileName = ".codebasetext.yaml"
	// EnvPrefix prefixes environment overrides, e.g. CODEBASETEXT_MAXFILESIZEMB.
	EnvPrefix = "CODEBASETEXT"

	globalDirName  = "codebasetext"
	globalFileName = "config.yaml"

	DefaultTokenModel = "gpt-4o"
)

// Source is a viper-backed combine.ConfigSource.
type Source struct {
	v *viper.Viper
}

// New returns a Source holding only defaults and environment overrides.
func New() *Source {
	v := viper.New()
	v.SetDefault(KeyIgnorePatterns, []string{})
	v.SetDefault(KeyMaxFileSizeMB, combine.DefaultMaxFileSizeMB)
	v.SetDefault(KeyOutputFileName, combine.DefaultOutputFileName)
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyBinaryDetection, string(combine.BinaryHeuristic))
	v.SetDefault(KeyUseGitignore, true)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyTokens, false)
	v.SetDefault(KeyTokenModel, DefaultTokenModel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &Source{v: v}
}

// Load reads the config file. An explicit path must exist; otherwise
// FileName in evaluationRoot is tried, then the global config under the
// user's config directory. It returns the file used, or "" when none was found.
func (s *Source) Load(evaluationRoot, explicitPath string) (string, error) {
	if explicitPath != "" {
		s.v.SetConfigFile(explicitPath)
		if err := s.v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("read configuration from %s: %w", explicitPath, err)
		}
		return s.v.ConfigFileUsed(), nil
	}

	for _, candidate := range s.searchPaths(evaluationRoot) {
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("stat configuration %s: %w", candidate, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("configuration path %s is a directory", candidate)
		}
		s.v.SetConfigFile(candidate)
		if err := s.v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("read configuration from %s: %w", candidate, err)
		}
		return candidate, nil
	}
	return "", nil
}

func (s *Source) searchPaths(evaluationRoot string) []string {
	var candidates []string
	if evaluationRoot != "" {
		candidates = append(candidates, filepath.Join(evaluationRoot, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", globalDirName, globalFileName))
	}
	return candidates
}

// BindFlags binds each key to the flag of the same kebab-case name when fs
// defines it. Flags only win when set on the command line.
func (s *Source) BindFlags(fs *pflag.FlagSet) error {
	bindings := map[string]string{
		KeyIgnorePatterns:  "ignore",
		KeyMaxFileSizeMB:   "max-size-mb",
		KeyOutputFileName:  "output-name",
		KeyWorkers:         "workers",
		KeyBinaryDetection: "binary-detection",
		KeyDebug:           "debug",
		KeyTokens:          "tokens",
		KeyTokenModel:      "token-model",
	}
	for key, name := range bindings {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := s.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Set overrides a key for the lifetime of the Source.
func (s *Source) Set(key string, value any) {
	s.v.Set(key, value)
}

// Options implements combine.ConfigSource.
func (s *Source) Options() (combine.Options, error) {
	opts := combine.Options{
		IgnorePatterns:   s.ignorePatterns(),
		MaxFileSizeMB:    s.v.GetFloat64(KeyMaxFileSizeMB),
		OutputFileName:   s.v.GetString(KeyOutputFileName),
		Workers:          s.v.GetInt(KeyWorkers),
		BinaryDetection:  combine.BinaryMode(strings.ToLower(strings.TrimSpace(s.v.GetString(KeyBinaryDetection)))),
		DisableGitignore: !s.v.GetBool(KeyUseGitignore),
	}
	if err := opts.Validate(); err != nil {
		return combine.Options{}, fmt.Errorf("invalid %s: %w", KeyBinaryDetection, err)
	}
	return opts, nil
}

// ignorePatterns accepts a YAML list or a comma-separated string, the form
// environment variables arrive in.
func (s *Source) ignorePatterns() []string {
	var patterns []string
	for _, raw := range s.v.GetStringSlice(KeyIgnorePatterns) {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

// Debug reports whether debug logging was requested.
func (s *Source) Debug() bool { return s.v.GetBool(KeyDebug) }

// Tokens reports whether a token estimate was requested.
func (s *Source) Tokens() bool { return s.v.GetBool(KeyTokens) }

// TokenModel names the model whose encoding is used for token estimates.
func (s *Source) TokenModel() string { return s.v.GetString(KeyTokenModel) }

// OutputFileName is the file name used when saving into the evaluation root.
func (s *Source) OutputFileName() string {
	if name := s.v.GetString(KeyOutputFileName); name != "" {
		return name
	}
	return combine.DefaultOutputFileName
}
