package ignore

import (
	"reflect"
	"strings"
	"testing"

	gitignore "github.com/sabhiram/go-gitignore"
)

func TestRuleSetMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		want     bool
	}{
		{"extension matches at root", []string{"*.log"}, "b.log", false, true},
		{"extension matches nested", []string{"*.log"}, "src/b.log", false, true},
		{"extension leaves others", []string{"*.log"}, "a.txt", false, false},
		{"dir pattern excludes children", []string{"build/"}, "build/x.txt", false, true},
		{"dir pattern excludes nested dir children", []string{"build/"}, "src/build/out.o", false, true},
		{"dir pattern skips sibling", []string{"build/"}, "src/y.txt", false, false},
		{"dir pattern skips file of same name", []string{"build/"}, "build", false, false},
		{"dir pattern matches directory", []string{"build/"}, "build", true, true},
		{"leading slash anchors", []string{"/root.txt"}, "root.txt", false, true},
		{"leading slash does not float", []string{"/root.txt"}, "sub/root.txt", false, false},
		{"inner slash anchors", []string{"docs/*.md"}, "docs/a.md", false, true},
		{"inner slash does not float", []string{"docs/*.md"}, "x/docs/a.md", false, false},
		{"star stays in segment", []string{"docs/*.md"}, "docs/sub/a.md", false, false},
		{"leading double star at root", []string{"**/tmp"}, "tmp", false, true},
		{"leading double star deep", []string{"**/tmp"}, "a/b/tmp", false, true},
		{"leading double star ancestor", []string{"**/tmp"}, "a/tmp/x.go", false, true},
		{"trailing double star", []string{"logs/**"}, "logs/a/b.txt", false, true},
		{"trailing double star not the dir itself", []string{"logs/**"}, "logs", false, false},
		{"middle double star zero dirs", []string{"a/**/b.txt"}, "a/b.txt", false, true},
		{"middle double star many dirs", []string{"a/**/b.txt"}, "a/x/y/b.txt", false, true},
		{"middle double star anchored", []string{"a/**/b.txt"}, "c/a/b.txt", false, false},
		{"question mark single char", []string{"file?.txt"}, "file1.txt", false, true},
		{"question mark not two chars", []string{"file?.txt"}, "file10.txt", false, false},
		{"bracket class", []string{"[ab].go"}, "a.go", false, true},
		{"bracket class miss", []string{"[ab].go"}, "c.go", false, false},
		{"negated bracket class", []string{"[!ab].go"}, "c.go", false, true},
		{"negated bracket class miss", []string{"[!ab].go"}, "a.go", false, false},
		{"negation re-includes", []string{"*.log", "!keep.log"}, "keep.log", false, false},
		{"negation leaves others", []string{"*.log", "!keep.log"}, "x.log", false, true},
		{"later rule wins over negation", []string{"!keep.log", "*.log"}, "keep.log", false, true},
		{"negation cannot escape excluded dir", []string{"build/", "!build/keep.txt"}, "build/keep.txt", false, true},
		{"escaped hash", []string{`\#notes`}, "#notes", false, true},
		{"escaped bang", []string{`\!important`}, "!important", false, true},
		{"comments and blanks compile to nothing", []string{"# *.go", "   "}, "main.go", false, false},
		{"dot slash prefix", []string{"*.log"}, "./a.log", false, true},
		{"dots are literal", []string{"a.go"}, "abgo", false, false},
		{"empty path", []string{"*"}, "", false, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rs := New(nil)
			rs.AddLines(SourceCustom, tt.patterns...)
			got, _ := rs.Match(tt.path, tt.isDir)
			if got != tt.want {
				t.Errorf("Match(%q, %v) with %q = %v, want %v", tt.path, tt.isDir, tt.patterns, got, tt.want)
			}
		})
	}
}

func TestIgnoresScenarios(t *testing.T) {
	t.Parallel()

	custom := Compile(nil, []string{"*.log"}, nil)
	if custom.Ignores("a.txt") {
		t.Error("a.txt should be included")
	}
	if !custom.Ignores("b.log") {
		t.Error("b.log should be ignored")
	}

	fromFile := Compile(nil, nil, ParseIgnoreFile([]byte("build/\n")))
	if !fromFile.Ignores("build/x.txt") {
		t.Error("build/x.txt should be ignored")
	}
	if fromFile.Ignores("src/y.txt") {
		t.Error("src/y.txt should be included")
	}
}

func TestCompileOrdersCustomBeforeIgnoreFile(t *testing.T) {
	t.Parallel()

	reincluded := Compile(nil, []string{"*.log"}, []string{"!keep.log"})
	if reincluded.Ignores("keep.log") {
		t.Error("ignore-file negation should override a custom pattern")
	}

	overridden := Compile(nil, []string{"!keep.log"}, []string{"*.log"})
	if !overridden.Ignores("keep.log") {
		t.Error("custom negation must not override a later ignore-file pattern")
	}

	rules := reincluded.Rules()
	if len(rules) != 2 || rules[0].Source != SourceCustom || rules[1].Source != SourceGitIgnore {
		t.Fatalf("unexpected rule order: %+v", rules)
	}
}

func TestMatchReturnsDecidingRule(t *testing.T) {
	t.Parallel()

	rs := Compile(nil, []string{"vendor/", "*.tmp"}, nil)
	ignored, rule := rs.Match("vendor/lib/a.go", false)
	if !ignored || rule == nil || rule.Line != "vendor/" {
		t.Fatalf("got ignored=%v rule=%+v, want vendor/ rule", ignored, rule)
	}
	if !rule.DirOnly {
		t.Error("vendor/ should be directory-only")
	}
}

func TestInvalidPatternIsSkipped(t *testing.T) {
	t.Parallel()

	rs := New(nil)
	rs.AddLines(SourceCustom, "[z-a].go", "*.log")
	if rs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", rs.Len())
	}
	if !rs.Ignores("x.log") {
		t.Error("valid pattern after an invalid one should still apply")
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Parallel()

	content := "# build output\n\nbuild/\r\n*.log\n   \n!keep.log\n"
	got := ParseIgnoreFile([]byte(content))
	want := []string{"build/", "*.log", "!keep.log"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseIgnoreFile() = %q, want %q", got, want)
	}

	if lines := ParseIgnoreFile(nil); len(lines) != 0 {
		t.Errorf("empty content should yield no lines, got %q", lines)
	}
}

// TestMatchesReferenceImplementation compares every ordering of up to three
// patterns from a pool against go-gitignore. The pool avoids constructs where
// that library deviates from git (the '?' wildcard, unanchored inner slashes,
// and negations under an excluded directory).
func TestMatchesReferenceImplementation(t *testing.T) {
	t.Parallel()

	pool := []string{"*.log", "build/", "/root.txt", "**/tmp", "!keep.log", "*.txt", "!notes.txt"}
	paths := []string{
		"a.log", "keep.log", "src/keep.log", "src/a.log",
		"root.txt", "src/root.txt", "notes.txt", "src/notes.txt",
		"build/out.bin", "src/build/out.bin", "tmp/x.go", "src/tmp", "main.go",
	}

	var check func(chosen []string, used []bool)
	check = func(chosen []string, used []bool) {
		if len(chosen) > 0 {
			ours := Compile(nil, chosen, nil)
			reference := gitignore.CompileIgnoreLines(chosen...)
			for _, p := range paths {
				if got, want := ours.Ignores(p), reference.MatchesPath(p); got != want {
					t.Errorf("patterns %q path %q: got %v, reference %v", strings.Join(chosen, " "), p, got, want)
				}
			}
		}
		if len(chosen) == 3 {
			return
		}
		for i, pattern := range pool {
			if used[i] {
				continue
			}
			used[i] = true
			check(append(append([]string(nil), chosen...), pattern), used)
			used[i] = false
		}
	}
	check(nil, make([]bool, len(pool)))
}
