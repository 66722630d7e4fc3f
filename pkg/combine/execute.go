// File: pkg/combine/execute.go
package combine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"codebasetext/pkg/ignore"
	"codebasetext/pkg/paths"

	"go.uber.org/zap"
)

// Generate runs one snapshot of req. ErrUnresolvableTarget and
// ErrEmptySelection are the only run-fatal outcomes; per-file failures end up
// in the summary. When ctx is cancelled during serialization the partial
// document is returned with Cancelled set, together with ctx.Err().
func (g *Generator) Generate(ctx context.Context, req Request) (*Document, error) {
	startTime := time.Now()

	opts, err := g.config.Options()
	if err != nil {
		return nil, fmt.Errorf("failed to load options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	if strings.TrimSpace(req.EvaluationRoot) == "" {
		return nil, fmt.Errorf("%w: no evaluation root", ErrUnresolvableTarget)
	}
	evalRoot, err := filepath.Abs(req.EvaluationRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvableTarget, err)
	}

	g.progress.Report(0, "Reading ignore rules...")
	rules := g.compileRules(evalRoot, opts)

	roots, err := paths.Resolve(g.fs, evalRoot, req.Target)
	if err != nil {
		g.logger.Error("Failed to resolve target", zap.String("target", req.Target), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnresolvableTarget, err)
	}
	g.logger.Info("Starting snapshot",
		zap.String("evaluationRoot", roots.EvaluationRoot),
		zap.String("displayRoot", roots.DisplayRoot),
		zap.Stringer("mode", roots.Mode))

	doc := &Document{Roots: roots}
	if err := g.selectFiles(ctx, doc, rules, opts); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			doc.Cancelled = true
			return doc, ctxErr
		}
		if errors.Is(err, ErrEmptySelection) {
			g.logger.Warn("No files found to include after applying ignore rules",
				zap.Int("ignored", len(doc.Selection.Ignored)),
				zap.Int("oversized", len(doc.Selection.Oversized)))
			return doc, err
		}
		return nil, fmt.Errorf("failed to select files: %w", err)
	}

	g.progress.Report(50, "Generating structure...")
	var sb strings.Builder
	if roots.Mode == paths.ModeSingleFile {
		sb.WriteString(renderSelectedFile(doc.Selection.Included[0].EvalPath))
	} else {
		displayPaths := make([]string, len(doc.Selection.Included))
		for i, entry := range doc.Selection.Included {
			displayPaths[i] = entry.DisplayPath
		}
		sb.WriteString(renderStructure(roots.DisplayLabel(), displayPaths))
	}

	g.progress.Report(60, "Reading file contents...")
	serialized, cancelErr := g.serialize(ctx, doc, &sb, opts)
	if cancelErr != nil {
		doc.Text = sb.String()
		g.logger.Warn("Snapshot cancelled",
			zap.Int("serialized", serialized),
			zap.Int("included", doc.IncludedCount()),
			zap.Error(cancelErr))
		return doc, cancelErr
	}

	summarySkips := append(selectionSkips(doc.Selection), doc.Skipped...)
	sb.WriteString(renderSummary(opts.MaxFileSizeMB, doc.Selection.Oversized, summarySkips))
	doc.Text = sb.String()

	g.progress.Report(100, "Done")
	g.logger.Info("Snapshot generated",
		zap.Int("included", doc.IncludedCount()),
		zap.Int("skipped", len(summarySkips)+len(doc.Selection.Oversized)),
		zap.Int("bytes", len(doc.Text)),
		zap.Duration("elapsed", time.Since(startTime)))
	return doc, nil
}

// compileRules builds the rule set from custom patterns followed by the
// evaluation root's .gitignore. A missing or unreadable ignore file leaves
// only the custom patterns.
func (g *Generator) compileRules(evalRoot string, opts Options) *ignore.RuleSet {
	var fileLines []string
	if !opts.DisableGitignore {
		content, found, err := g.fs.ReadIgnoreFile(evalRoot)
		switch {
		case err != nil:
			g.logger.Warn("Failed to read ignore file", zap.String("root", evalRoot), zap.Error(err))
		case found:
			fileLines = ignore.ParseIgnoreFile(content)
		}
	}
	rules := ignore.Compile(g.logger, opts.IgnorePatterns, fileLines)
	g.logger.Debug("Compiled ignore rules",
		zap.Int("custom", len(opts.IgnorePatterns)),
		zap.Int("fromIgnoreFile", len(fileLines)),
		zap.Int("total", rules.Len()))
	return rules
}

func (g *Generator) selectFiles(ctx context.Context, doc *Document, rules *ignore.RuleSet, opts Options) error {
	s := newSelector(g.fs, rules, doc.Roots, opts.OutputFileName, g.logger)
	defer func() { doc.Selection = s.result }()

	g.progress.Report(10, "Finding files...")
	candidates, err := s.collect(ctx)
	if err != nil {
		return err
	}

	g.progress.Report(30, "Filtering files...")
	if err := s.filter(ctx, candidates, opts.MaxFileSizeBytes(), opts.Workers); err != nil {
		return err
	}
	if len(s.result.Included) == 0 {
		return ErrEmptySelection
	}
	g.logger.Debug("Selected files",
		zap.Int("included", len(s.result.Included)),
		zap.Int("ignored", len(s.result.Ignored)),
		zap.Int("oversized", len(s.result.Oversized)),
		zap.Int("errored", len(s.result.Errored)))
	return nil
}

// serialize appends every included file's block to sb in traversal order.
// Blocks are emitted as soon as the ordered prefix is complete; ctx is
// checked before each one. It returns the number of blocks written.
func (g *Generator) serialize(ctx context.Context, doc *Document, sb *strings.Builder, opts Options) (int, error) {
	entries := doc.Selection.Included
	headerPaths := make([]string, len(entries))
	for i, entry := range entries {
		headerPaths[i] = entry.DisplayPath
		if doc.Roots.Mode == paths.ModeSingleFile {
			headerPaths[i] = entry.EvalPath
		}
	}

	total := len(entries)
	slots := make([]*FileContent, total)
	next := 0
	stopped := false

	results := ProcessFilesConcurrently(ctx, g.fs, entries, headerPaths, opts.Workers, opts.BinaryDetection, g.logger)
	for content := range results {
		slots[content.Index] = &content
		for !stopped && next < total && slots[next] != nil {
			if ctx.Err() != nil {
				stopped = true
				break
			}
			g.progress.Report(60+40*next/total, "Reading: "+headerPaths[next])
			sb.WriteString(slots[next].Block)
			if skip := slots[next].Skip; skip != nil {
				doc.Skipped = append(doc.Skipped, *skip)
			}
			slots[next] = nil
			next++
		}
	}

	if next < total {
		doc.Cancelled = true
		if err := ctx.Err(); err != nil {
			return next, err
		}
		return next, context.Canceled
	}
	return next, nil
}
