// File: pkg/combine/config.go
package combine

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
)

// Defaults applied when an option is left at its zero value.
const (
	DefaultMaxFileSizeMB  = 5.0
	DefaultOutputFileName = "codebase-output.txt"
	BytesPerMB            = 1024 * 1024
)

// BinaryMode selects how file content is classified as binary.
type BinaryMode string

const (
	// BinaryHeuristic omits content when more than 30% of it is non-ASCII and
	// decoding produced a replacement character.
	BinaryHeuristic BinaryMode = "heuristic"
	// BinaryStrict omits content containing a NUL byte or invalid UTF-8.
	BinaryStrict BinaryMode = "strict"
)

// Options holds the configuration options for one snapshot run.
type Options struct {
	IgnorePatterns   []string   // Custom exclusion patterns, evaluated before .gitignore.
	MaxFileSizeMB    float64    // Files larger than this many MiB are reported as oversized.
	OutputFileName   string     // Saved snapshot name; never selected from the evaluation root.
	Workers          int        // Concurrent stat/read workers; <= 0 means one per CPU.
	BinaryDetection  BinaryMode // Content classification mode.
	DisableGitignore bool       // Skip reading .gitignore from the evaluation root.
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.MaxFileSizeMB <= 0 {
		o.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if o.OutputFileName == "" {
		o.OutputFileName = DefaultOutputFileName
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.BinaryDetection == "" {
		o.BinaryDetection = BinaryHeuristic
	}
	return o
}

// Validate reports options that cannot be applied.
func (o Options) Validate() error {
	switch o.BinaryDetection {
	case "", BinaryHeuristic, BinaryStrict:
	default:
		return fmt.Errorf("unknown binary detection mode %q (want %q or %q)", o.BinaryDetection, BinaryHeuristic, BinaryStrict)
	}
	return nil
}

// MaxFileSizeBytes is the inclusive byte cap derived from MaxFileSizeMB.
func (o Options) MaxFileSizeBytes() int64 {
	return int64(o.MaxFileSizeMB * BytesPerMB)
}

// FileSystemProvider is the filesystem capability the pipeline runs against.
type FileSystemProvider interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	Walk(root string, fn filepath.WalkFunc) error
	// ReadIgnoreFile returns the ignore file stored in root; found is false
	// when there is none.
	ReadIgnoreFile(root string) (content []byte, found bool, err error)
}

// ConfigSource supplies Options for a run.
type ConfigSource interface {
	Options() (Options, error)
}

// ProgressSink receives advisory progress updates.
type ProgressSink interface {
	Report(percent int, message string)
}

// StaticConfig is a ConfigSource returning fixed options.
type StaticConfig Options

// Options implements ConfigSource.
func (s StaticConfig) Options() (Options, error) {
	return Options(s), nil
}

type nopProgress struct{}

func (nopProgress) Report(int, string) {}
