// Package ignore compiles gitignore-style exclusion patterns into an ordered
// rule set. Rules are evaluated in insertion order and the last matching rule
// wins, so a later "!pattern" can re-include a path excluded earlier. A path
// whose ancestor directory is excluded stays excluded no matter what follows.
package ignore

import (
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Sources recorded on compiled rules.
const (
	SourceCustom    = "custom"
	SourceGitIgnore = ".gitignore"
)

// Rule is one compiled exclusion pattern.
type Rule struct {
	Pattern  *regexp.Regexp // Compiled expression matched against slash-separated relative paths.
	Negate   bool           // Pattern started with '!'.
	DirOnly  bool           // Pattern ended with '/'.
	Anchored bool           // Pattern is relative to the evaluation root rather than any directory level.
	Line     string         // Original pattern text.
	Source   string         // Where the pattern came from.
	LineNo   int            // Position within its source (1-based).
}

// RuleSet is an ordered collection of rules.
type RuleSet struct {
	rules  []*Rule
	logger *zap.Logger
}

// New returns an empty RuleSet. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleSet{logger: logger}
}

// Compile builds a RuleSet from custom patterns followed by ignore-file lines.
// Ignore-file rules come last so they can override custom rules.
func Compile(logger *zap.Logger, custom []string, ignoreFile []string) *RuleSet {
	rs := New(logger)
	rs.AddLines(SourceCustom, custom...)
	rs.AddLines(SourceGitIgnore, ignoreFile...)
	return rs
}

// AddLines compiles lines and appends them after the existing rules. Blank
// lines and comments are skipped; patterns that fail to compile are logged and
// dropped.
func (rs *RuleSet) AddLines(source string, lines ...string) {
	for i, line := range lines {
		rule, err := parsePatternLine(line)
		if err != nil {
			rs.logger.Warn("Skipping invalid ignore pattern",
				zap.String("source", source),
				zap.Int("lineNo", i+1),
				zap.String("pattern", line),
				zap.Error(err))
			continue
		}
		if rule == nil {
			continue
		}
		rule.Source = source
		rule.LineNo = i + 1
		rs.rules = append(rs.rules, rule)
		rs.logger.Debug("Compiled ignore pattern",
			zap.String("source", source),
			zap.Int("lineNo", rule.LineNo),
			zap.String("pattern", rule.Line),
			zap.Bool("negate", rule.Negate),
			zap.Bool("dirOnly", rule.DirOnly),
			zap.Bool("anchored", rule.Anchored))
	}
}

// Len returns the number of compiled rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Rules returns a copy of the compiled rules in evaluation order.
func (rs *RuleSet) Rules() []*Rule {
	out := make([]*Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Ignores reports whether the file at path (relative to the evaluation root)
// is excluded.
func (rs *RuleSet) Ignores(path string) bool {
	ignored, _ := rs.Match(path, false)
	return ignored
}

// Match reports whether path is excluded and returns the deciding rule, if
// any. Ancestor directories are checked first; an excluded ancestor decides
// the outcome.
func (rs *RuleSet) Match(path string, isDir bool) (bool, *Rule) {
	normalized := normalizePath(path)
	if normalized == "" || len(rs.rules) == 0 {
		return false, nil
	}

	segments := strings.Split(normalized, "/")
	for i := 1; i < len(segments); i++ {
		parent := strings.Join(segments[:i], "/")
		if ignored, rule := rs.matchOne(parent, true); ignored {
			return true, rule
		}
	}
	return rs.matchOne(normalized, isDir)
}

// matchOne applies last-match-wins evaluation to a single path.
func (rs *RuleSet) matchOne(path string, isDir bool) (bool, *Rule) {
	matched := false
	var decidedBy *Rule
	for _, rule := range rs.rules {
		if rule.DirOnly && !isDir {
			continue
		}
		if rule.Pattern.MatchString(path) {
			matched = !rule.Negate
			decidedBy = rule
		}
	}
	return matched, decidedBy
}

// ParseIgnoreFile splits ignore-file content into pattern lines, dropping blank
// lines and lines that start with '#'.
func ParseIgnoreFile(content []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// normalizePath converts path to the slash-separated, unrooted form rules are
// matched against.
func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	path = strings.Trim(path, "/")
	if path == "." {
		return ""
	}
	return path
}
