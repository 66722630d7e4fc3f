// Package paths implements the dual-root addressing used by the snapshot
// pipeline: ignore rules are evaluated against paths relative to the
// evaluation root while everything shown to the reader is relative to the
// display root.
package paths

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Mode selects how the target is traversed.
type Mode int

const (
	// ModeDirectory walks the target directory recursively.
	ModeDirectory Mode = iota
	// ModeSingleFile selects exactly the target file.
	ModeSingleFile
)

func (m Mode) String() string {
	switch m {
	case ModeDirectory:
		return "directory"
	case ModeSingleFile:
		return "single-file"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

var (
	// ErrMissingRoot is returned when no evaluation root was supplied.
	ErrMissingRoot = errors.New("no evaluation root")
	// ErrOutsideRoot is returned when the target lies outside the evaluation root.
	ErrOutsideRoot = errors.New("target is outside the evaluation root")
)

// Stater is the filesystem capability Resolve needs.
type Stater interface {
	Stat(path string) (fs.FileInfo, error)
}

// RootPair fixes both roots for one invocation.
type RootPair struct {
	EvaluationRoot string // Absolute; basis for ignore matching and ignore-file lookup.
	DisplayRoot    string // Absolute; basis for rendered paths.
	Target         string // Absolute path that was selected.
	Mode           Mode
}

// Resolve stats target and derives the RootPair. A regular file target puts
// the pair in single-file mode with the file's parent as display root; a
// directory target becomes the display root itself.
func Resolve(stater Stater, evaluationRoot, target string) (RootPair, error) {
	if strings.TrimSpace(evaluationRoot) == "" {
		return RootPair{}, ErrMissingRoot
	}
	if strings.TrimSpace(target) == "" {
		target = evaluationRoot
	}

	absRoot, err := filepath.Abs(evaluationRoot)
	if err != nil {
		return RootPair{}, fmt.Errorf("resolve evaluation root %s: %w", evaluationRoot, err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return RootPair{}, fmt.Errorf("resolve target %s: %w", target, err)
	}

	if rel, relErr := Rel(absRoot, absTarget); relErr != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return RootPair{}, fmt.Errorf("%w: %s not under %s", ErrOutsideRoot, absTarget, absRoot)
	}

	info, err := stater.Stat(absTarget)
	if err != nil {
		return RootPair{}, fmt.Errorf("stat target %s: %w", absTarget, err)
	}

	pair := RootPair{
		EvaluationRoot: absRoot,
		Target:         absTarget,
	}
	switch {
	case info.IsDir():
		pair.Mode = ModeDirectory
		pair.DisplayRoot = absTarget
	case info.Mode().IsRegular():
		pair.Mode = ModeSingleFile
		pair.DisplayRoot = filepath.Dir(absTarget)
	default:
		return RootPair{}, fmt.Errorf("target %s is neither a file nor a directory", absTarget)
	}
	return pair, nil
}

// EvalRel returns path relative to the evaluation root in slash form.
func (r RootPair) EvalRel(path string) (string, error) {
	return Rel(r.EvaluationRoot, path)
}

// DisplayRel returns path relative to the display root in slash form.
func (r RootPair) DisplayRel(path string) (string, error) {
	return Rel(r.DisplayRoot, path)
}

// DisplayLabel names the display root relative to the evaluation root, or "."
// when they coincide.
func (r RootPair) DisplayLabel() string {
	rel, err := Rel(r.EvaluationRoot, r.DisplayRoot)
	if err != nil {
		return Normalize(r.DisplayRoot)
	}
	return rel
}

// Rel is filepath.Rel with the result normalized to forward slashes.
func Rel(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return Normalize(rel), nil
}

// Normalize converts OS-specific separators to forward slashes and strips a
// leading "./".
func Normalize(path string) string {
	path = filepath.ToSlash(path)
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	if path == "" {
		return "."
	}
	return path
}
