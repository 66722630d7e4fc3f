// File: cmd/generate.go
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"codebasetext/pkg/combine"
	"codebasetext/pkg/config"
	"codebasetext/pkg/fsys"
	"codebasetext/pkg/logging"
	"codebasetext/pkg/paths"
	"codebasetext/pkg/progress"
	"codebasetext/pkg/tokens"
	"codebasetext/pkg/version"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Flag names shared by the root and generate commands.
const (
	flagRoot            = "root"
	flagConfig          = "config"
	flagIgnore          = "ignore"
	flagMaxSizeMB       = "max-size-mb"
	flagWorkers         = "workers"
	flagBinaryDetection = "binary-detection"
	flagNoGitignore     = "no-gitignore"
	flagOutput          = "output"
	flagOutputName      = "output-name"
	flagSave            = "save"
	flagClipboard       = "clipboard"
	flagTokens          = "tokens"
	flagTokenModel      = "token-model"
	flagDebug           = "debug"
	flagQuiet           = "quiet"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Generate a text snapshot of a file or directory",
		Long: `Generate a text snapshot of path (default: the current directory).

The evaluation root, against which ignore rules are matched, is --root when
given, otherwise the enclosing git worktree, otherwise the target itself.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}
	addGenerateFlags(generateCmd)
	return generateCmd
}

func addGenerateFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(flagRoot, "", "Evaluation root for ignore rules (default: enclosing git worktree)")
	flags.String(flagConfig, "", "Config file (default: <root>/"+config.FileName+" or ~/.config/codebasetext/config.yaml)")
	flags.StringSlice(flagIgnore, nil, "Additional ignore patterns in .gitignore syntax (repeatable or comma-separated)")
	flags.Float64(flagMaxSizeMB, combine.DefaultMaxFileSizeMB, "Skip files larger than this many megabytes")
	flags.Int(flagWorkers, 0, "Concurrent file readers (default: number of CPUs)")
	flags.String(flagBinaryDetection, string(combine.BinaryHeuristic), "Binary detection mode: heuristic or strict")
	flags.Bool(flagNoGitignore, false, "Do not read .gitignore from the evaluation root")
	flags.StringP(flagOutput, "o", "", "Write the snapshot to this file instead of stdout")
	flags.String(flagOutputName, combine.DefaultOutputFileName, "File name used by --save")
	flags.Bool(flagSave, false, "Save the snapshot into the evaluation root")
	flags.BoolP(flagClipboard, "c", false, "Copy the snapshot to the clipboard")
	flags.Bool(flagTokens, false, "Print an estimated token count to stderr")
	flags.String(flagTokenModel, config.DefaultTokenModel, "Model whose tokenizer is used for --tokens")
	flags.Bool(flagDebug, false, "Enable debug logging")
	flags.BoolP(flagQuiet, "q", false, "Only log errors and hide progress")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("%w: %w", combine.ErrUnresolvableTarget, err)
	}

	evalRoot, _ := flags.GetString(flagRoot)
	if evalRoot == "" {
		evalRoot, err = paths.DiscoverEvaluationRoot(target)
		if err != nil {
			return fmt.Errorf("%w: %w", combine.ErrUnresolvableTarget, err)
		}
	}

	cfg := config.New()
	if err := cfg.BindFlags(flags); err != nil {
		return err
	}
	if flags.Changed(flagNoGitignore) {
		noGitignore, _ := flags.GetBool(flagNoGitignore)
		cfg.Set(config.KeyUseGitignore, !noGitignore)
	}
	configPath, _ := flags.GetString(flagConfig)
	usedConfig, err := cfg.Load(evalRoot, configPath)
	if err != nil {
		return err
	}

	quiet, _ := flags.GetBool(flagQuiet)
	if err := logging.Setup(cfg.Debug(), quiet, version.AppName, version.Version); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger := logging.Logger
	if usedConfig != "" {
		logger.Debug("Using config file", zap.String("path", usedConfig))
	}

	var sink progress.Sink = quietSink{}
	if !quiet {
		sink = progress.Auto(os.Stderr, logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := combine.NewGenerator(fsys.NewOS(), cfg,
		combine.WithProgress(sink),
		combine.WithLogger(logger))
	doc, err := gen.Generate(ctx, combine.Request{EvaluationRoot: evalRoot, Target: target})
	sink.Finish()

	switch {
	case errors.Is(err, combine.ErrEmptySelection):
		logger.Warn("No files found to include after applying ignore rules.")
		return nil
	case err != nil && (doc == nil || !doc.Cancelled):
		return err
	}

	if writeErr := writeOutputs(cmd, doc, evalRoot, cfg.OutputFileName(), logger); writeErr != nil {
		return writeErr
	}
	if err != nil {
		return fmt.Errorf("snapshot cancelled after partial output: %w", err)
	}

	if cfg.Tokens() {
		reportTokens(cmd, doc, cfg.TokenModel(), logger)
	}
	logger.Info("Codebase text generated",
		zap.Int("filesIncluded", doc.IncludedCount()),
		zap.String("evaluationRoot", evalRoot))
	return nil
}

// writeOutputs sends the document to every requested destination, or to
// stdout when none was requested.
func writeOutputs(cmd *cobra.Command, doc *combine.Document, evalRoot, outputName string, logger *zap.Logger) error {
	flags := cmd.Flags()
	outputPath, _ := flags.GetString(flagOutput)
	save, _ := flags.GetBool(flagSave)
	toClipboard, _ := flags.GetBool(flagClipboard)

	if outputPath != "" {
		if err := combine.WriteDocument(outputPath, doc, logger); err != nil {
			return err
		}
		logger.Info("Output saved", zap.String("path", outputPath))
	}
	if save {
		savePath := filepath.Join(evalRoot, outputName)
		if err := combine.WriteDocument(savePath, doc, logger); err != nil {
			return err
		}
		logger.Info("Output saved", zap.String("path", savePath))
	}
	if toClipboard {
		if err := writeClipboard(doc.Text); err != nil {
			logger.Error("Error writing to clipboard", zap.Error(err))
			if outputPath == "" && !save {
				_, writeErr := fmt.Fprint(cmd.OutOrStdout(), doc.Text)
				return writeErr
			}
			return nil
		}
		logger.Info("Output copied to clipboard")
	}

	if outputPath == "" && !save && !toClipboard {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), doc.Text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func reportTokens(cmd *cobra.Command, doc *combine.Document, model string, logger *zap.Logger) {
	counter, err := tokens.NewCounter(model, logger)
	if err != nil {
		logger.Warn("Token estimate unavailable", zap.Error(err))
		return
	}
	count := counter.Count(doc.Text)
	logger.Debug("Estimated tokens", zap.String("model", counter.Model()), zap.Int("tokens", count))
	fmt.Fprintf(cmd.ErrOrStderr(), "Estimated tokens (%s): %d\n", counter.Model(), count)
}

type quietSink struct{ progress.Nop }

func (quietSink) Finish() {}
