package combine

import (
	"errors"
	"fmt"

	"codebasetext/pkg/paths"
)

// Run-fatal conditions. Everything else is contained per file.
var (
	// ErrUnresolvableTarget means no project root or start path could be resolved.
	ErrUnresolvableTarget = errors.New("unresolvable target")
	// ErrEmptySelection means every candidate was excluded by rules or size.
	ErrEmptySelection = errors.New("no files found to include after applying ignore rules")
)

// SkipReason explains why a path is absent from, or placeholdered in, the output.
type SkipReason string

const (
	ReasonIgnored      SkipReason = "ignored"
	ReasonStatError    SkipReason = "stat error"
	ReasonReadError    SkipReason = "read error"
	ReasonLikelyBinary SkipReason = "likely binary"
)

// FileEntry is a file selected for the snapshot.
type FileEntry struct {
	AbsPath     string // Absolute location.
	EvalPath    string // Relative to the evaluation root, slash-separated.
	DisplayPath string // Relative to the display root, slash-separated.
	Size        int64  // Size in bytes at selection time.
}

// Skip records a path that was left out or replaced by a placeholder.
type Skip struct {
	Path   string
	Reason SkipReason
	Detail string

	seq int // Traversal position, used to order the summary.
}

// SummaryLine renders the skip the way the trailing summary lists it.
func (s Skip) SummaryLine() string {
	if s.Reason == ReasonIgnored {
		return s.Path
	}
	return fmt.Sprintf("%s (%s)", s.Path, s.Reason)
}

// Oversize records a file that exceeded the size cap.
type Oversize struct {
	Path   string
	Size   int64
	SizeMB string // Rounded to two decimals, e.g. "1.00 MB".
}

// SummaryLine renders the oversized file for the trailing summary.
func (o Oversize) SummaryLine() string {
	return fmt.Sprintf("%s (%s)", o.Path, o.SizeMB)
}

// SelectionResult partitions the candidates seen by the selector.
type SelectionResult struct {
	Included  []FileEntry // Traversal order.
	Ignored   []Skip
	Oversized []Oversize
	Errored   []Skip
}

// Request names what to snapshot.
type Request struct {
	EvaluationRoot string // Required; ignore rules and .gitignore are anchored here.
	Target         string // File or directory; defaults to EvaluationRoot.
}

// Document is the result of one run.
type Document struct {
	Text      string
	Roots     paths.RootPair
	Selection SelectionResult
	Skipped   []Skip // Placeholdered during serialization, in traversal order.
	Cancelled bool   // Serialization stopped early; Text holds the prefix assembled so far.
}

// IncludedCount is the number of files with a content block in Text.
func (d *Document) IncludedCount() int {
	return len(d.Selection.Included)
}

// FormatSizeMB formats a byte count as megabytes with two decimals.
func FormatSizeMB(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/BytesPerMB)
}
