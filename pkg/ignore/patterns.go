package ignore

import (
	"regexp"
	"strings"
)

// parsePatternLine turns one pattern line into a Rule. It returns nil, nil for
// blank lines and comments.
func parsePatternLine(line string) (*Rule, error) {
	trimmedLine := strings.TrimSpace(line)

	// Ignore empty lines and comments.
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
		return nil, nil
	}

	rule := &Rule{Line: trimmedLine}

	if strings.HasPrefix(trimmedLine, "!") {
		rule.Negate = true
		trimmedLine = trimmedLine[1:]
	}

	// A backslash keeps a literal leading '#' or '!'.
	if strings.HasPrefix(trimmedLine, `\#`) || strings.HasPrefix(trimmedLine, `\!`) {
		trimmedLine = trimmedLine[1:]
	}

	if strings.HasSuffix(trimmedLine, "/") {
		rule.DirOnly = true
		trimmedLine = strings.TrimRight(trimmedLine, "/")
	}

	if strings.HasPrefix(trimmedLine, "/") {
		rule.Anchored = true
		trimmedLine = strings.TrimLeft(trimmedLine, "/")
	} else if strings.Contains(trimmedLine, "/") {
		rule.Anchored = true
	}

	if trimmedLine == "" {
		return nil, nil
	}

	expr := globToRegex(trimmedLine)
	if rule.Anchored {
		expr = "^" + expr + "$"
	} else {
		expr = "^(?:.*/)?" + expr + "$"
	}

	compiled, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	rule.Pattern = compiled
	return rule, nil
}

// globToRegex converts a gitignore glob into an unanchored regular expression
// body. '*' and '?' stay inside one path segment, "**" spans segments when it
// forms a whole segment, and bracket expressions pass through.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); {
		c := glob[i]
		switch {
		case c == '*' && strings.HasPrefix(glob[i:], "**"):
			atSegmentStart := i == 0 || glob[i-1] == '/'
			rest := glob[i+2:]
			switch {
			case atSegmentStart && strings.HasPrefix(rest, "/"):
				b.WriteString("(?:.*/)?")
				i += 3
			case atSegmentStart && rest == "":
				b.WriteString(".*")
				i += 2
			default:
				b.WriteString("[^/]*")
				i += 2
			}
		case c == '*':
			b.WriteString("[^/]*")
			i++
		case c == '?':
			b.WriteString("[^/]")
			i++
		case c == '[':
			end := classEnd(glob, i)
			if end < 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			class := glob[i+1 : end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + strings.ReplaceAll(class, `\`, `\\`) + "]")
			i = end + 1
		case c == '\\' && i+1 < len(glob):
			b.WriteString(regexp.QuoteMeta(glob[i+1 : i+2]))
			i += 2
		default:
			b.WriteString(regexp.QuoteMeta(glob[i : i+1]))
			i++
		}
	}
	return b.String()
}

// classEnd returns the index of the ']' closing the bracket expression that
// opens at start, or -1 when it is unterminated.
func classEnd(glob string, start int) int {
	j := start + 1
	if j < len(glob) && (glob[j] == '!' || glob[j] == '^') {
		j++
	}
	if j < len(glob) && glob[j] == ']' {
		j++
	}
	for ; j < len(glob); j++ {
		if glob[j] == ']' {
			return j
		}
	}
	return -1
}
