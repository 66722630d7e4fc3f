// File: pkg/combine/traversal.go
package combine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codebasetext/pkg/ignore"
	"codebasetext/pkg/paths"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// candidate is a path that survived ignore matching and still needs a stat.
type candidate struct {
	entry FileEntry
	seq   int
}

// selector walks the target and partitions what it finds.
type selector struct {
	fs     FileSystemProvider
	rules  *ignore.RuleSet
	roots  paths.RootPair
	logger *zap.Logger

	// outputName is the evaluation-relative path of a saved snapshot.
	outputName string

	seq    int
	result SelectionResult
}

func newSelector(fsys FileSystemProvider, rules *ignore.RuleSet, roots paths.RootPair, outputName string, logger *zap.Logger) *selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rules == nil {
		rules = ignore.New(logger)
	}
	return &selector{fs: fsys, rules: rules, roots: roots, outputName: filepath.ToSlash(outputName), logger: logger}
}

// SelectFiles walks roots.Target, applies rules and the size cap from opts,
// and partitions every candidate. Included entries keep traversal order.
func SelectFiles(ctx context.Context, fsys FileSystemProvider, rules *ignore.RuleSet, roots paths.RootPair, opts Options, logger *zap.Logger) (SelectionResult, error) {
	opts = opts.WithDefaults()
	s := newSelector(fsys, rules, roots, opts.OutputFileName, logger)
	candidates, err := s.collect(ctx)
	if err != nil {
		return s.result, err
	}
	if err := s.filter(ctx, candidates, opts.MaxFileSizeBytes(), opts.Workers); err != nil {
		return s.result, err
	}
	if len(s.result.Included) == 0 {
		return s.result, ErrEmptySelection
	}
	return s.result, nil
}

// collect gathers candidates in lexical walk order, recording ignored paths
// and walk errors as it goes. Git metadata directories and a previously saved
// snapshot are never candidates. Files under an ignored directory are
// recorded as ignored one by one without being matched again.
func (s *selector) collect(ctx context.Context) ([]candidate, error) {
	if s.roots.Mode == paths.ModeSingleFile {
		return s.collectSingle()
	}

	var candidates []candidate
	root := s.roots.DisplayRoot
	ignoredDir := ""
	s.logger.Debug("Starting file traversal", zap.String("displayRoot", root), zap.String("evaluationRoot", s.roots.EvaluationRoot))

	err := s.fs.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			if walkErr != nil {
				return fmt.Errorf("walk %s: %w", root, walkErr)
			}
			return nil
		}
		if filepath.Base(path) == git.GitDirName {
			s.logger.Debug("Skipping git metadata", zap.String("path", path))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		evalPath, displayPath, err := s.relPaths(path)
		if err != nil {
			s.logger.Warn("Failed to relativize path", zap.String("path", path), zap.Error(err))
			return nil
		}

		isDir := info != nil && info.IsDir()
		if ignoredDir != "" && (path == ignoredDir || strings.HasPrefix(path, ignoredDir+string(filepath.Separator))) {
			if walkErr != nil {
				s.logger.Debug("Error accessing ignored path", zap.String("path", path), zap.Error(walkErr))
				return nil
			}
			if !isDir {
				s.addSkip(&s.result.Ignored, displayPath, ReasonIgnored, nil)
			}
			return nil
		}
		ignoredDir = ""

		if walkErr != nil {
			s.logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(walkErr))
			s.addSkip(&s.result.Errored, displayPath, ReasonStatError, walkErr)
			return nil
		}

		if ignored, rule := s.rules.Match(evalPath, isDir); ignored {
			if isDir {
				s.logger.Debug("Skipping ignored directory", zap.String("path", evalPath), zap.String("rule", rule.Line))
				ignoredDir = path
				return nil
			}
			s.logger.Debug("Skipping ignored file", zap.String("path", evalPath), zap.String("rule", rule.Line))
			s.addSkip(&s.result.Ignored, displayPath, ReasonIgnored, nil)
			return nil
		}
		if isDir {
			return nil
		}
		if s.outputName != "" && evalPath == s.outputName {
			s.logger.Debug("Skipping saved snapshot", zap.String("path", evalPath))
			return nil
		}

		candidates = append(candidates, candidate{
			entry: FileEntry{AbsPath: path, EvalPath: evalPath, DisplayPath: displayPath},
			seq:   s.next(),
		})
		return nil
	})
	if err != nil {
		s.logger.Error("Error during file traversal", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("Completed file traversal",
		zap.Int("candidates", len(candidates)),
		zap.Int("ignored", len(s.result.Ignored)),
		zap.Int("errored", len(s.result.Errored)))
	return candidates, nil
}

func (s *selector) collectSingle() ([]candidate, error) {
	path := s.roots.Target
	evalPath, err := s.roots.EvalRel(path)
	if err != nil {
		return nil, fmt.Errorf("relativize %s: %w", path, err)
	}
	if ignored, rule := s.rules.Match(evalPath, false); ignored {
		s.logger.Debug("Selected file is ignored", zap.String("path", evalPath), zap.String("rule", rule.Line))
		s.addSkip(&s.result.Ignored, evalPath, ReasonIgnored, nil)
		return nil, nil
	}
	return []candidate{{
		entry: FileEntry{AbsPath: path, EvalPath: evalPath, DisplayPath: evalPath},
		seq:   s.next(),
	}}, nil
}

// filter stats candidates in parallel and partitions them by the results.
// Stats land in index slots so the partition follows traversal order.
func (s *selector) filter(ctx context.Context, candidates []candidate, maxBytes int64, workers int) error {
	type statResult struct {
		info os.FileInfo
		err  error
	}
	slots := make([]statResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := s.fs.Stat(c.entry.AbsPath)
			slots[i] = statResult{info: info, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, c := range candidates {
		res := slots[i]
		switch {
		case res.err != nil:
			s.logger.Warn("Could not stat file", zap.String("path", c.entry.EvalPath), zap.Error(res.err))
			s.result.Errored = append(s.result.Errored, Skip{Path: c.entry.DisplayPath, Reason: ReasonStatError, Detail: res.err.Error(), seq: c.seq})
		case !res.info.Mode().IsRegular():
			s.logger.Debug("Skipping non-regular file", zap.String("path", c.entry.EvalPath), zap.Stringer("mode", res.info.Mode()))
		case res.info.Size() > maxBytes:
			s.logger.Debug("Skipping file due to size limit", zap.String("path", c.entry.EvalPath), zap.Int64("sizeBytes", res.info.Size()), zap.Int64("maxBytes", maxBytes))
			s.result.Oversized = append(s.result.Oversized, Oversize{Path: c.entry.DisplayPath, Size: res.info.Size(), SizeMB: FormatSizeMB(res.info.Size())})
		default:
			entry := c.entry
			entry.Size = res.info.Size()
			s.result.Included = append(s.result.Included, entry)
		}
	}

	sort.SliceStable(s.result.Errored, func(i, j int) bool {
		return s.result.Errored[i].seq < s.result.Errored[j].seq
	})
	return nil
}

func (s *selector) relPaths(path string) (evalPath, displayPath string, err error) {
	if evalPath, err = s.roots.EvalRel(path); err != nil {
		return "", "", err
	}
	if displayPath, err = s.roots.DisplayRel(path); err != nil {
		return "", "", err
	}
	return evalPath, displayPath, nil
}

func (s *selector) addSkip(list *[]Skip, path string, reason SkipReason, cause error) {
	skip := Skip{Path: path, Reason: reason, seq: s.next()}
	if cause != nil {
		skip.Detail = cause.Error()
	}
	*list = append(*list, skip)
}

func (s *selector) next() int {
	s.seq++
	return s.seq
}
