package scan

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Decision is the outcome of matching one path against a pattern list.
type Decision int

const (
	// DecisionNone means no pattern matched; the matcher abstains.
	DecisionNone Decision = iota
	// DecisionExcluded means the last matching pattern excludes the path.
	DecisionExcluded
	// DecisionIncluded means the last matching pattern is a negation that
	// re-includes the path.
	DecisionIncluded
)

// compiledPattern is one gitignore line compiled for matching.
//
// selfRE matches the path itself, subtreeRE matches anything strictly beneath
// it. Splitting the two keeps directory-only patterns ("build/") from matching
// a regular file named "build" while still excluding everything under the
// directory.
type compiledPattern struct {
	selfRE    *regexp.Regexp
	subtreeRE *regexp.Regexp
	negate    bool
	dirOnly   bool
	source    string
}

// Matcher evaluates an ordered gitignore-style pattern list. The last pattern
// that matches a path decides; a path matching nothing is not excluded.
type Matcher struct {
	patterns []compiledPattern
}

// CompilePatterns compiles an ordered list of gitignore-style pattern lines.
// Blank lines and comments are skipped. A malformed pattern (unterminated
// bracket expression) returns a *PatternError.
func CompilePatterns(lines []string) (*Matcher, error) {
	matcher := &Matcher{}
	for _, line := range lines {
		compiled, ok, err := compilePatternLine(line)
		if err != nil {
			return nil, err
		}
		if ok {
			matcher.patterns = append(matcher.patterns, compiled)
		}
	}
	return matcher, nil
}

// Match evaluates relPath against the pattern list. relPath must be
// slash-separated and relative to the scan root; isDir tells the matcher
// whether the path names a directory.
func (m *Matcher) Match(relPath string, isDir bool) Decision {
	candidate := strings.TrimPrefix(filepath.ToSlash(relPath), "./")
	if candidate == "" || candidate == "." {
		return DecisionNone
	}

	decision := DecisionNone
	for i := range m.patterns {
		p := &m.patterns[i]
		if !p.matches(candidate, isDir) {
			continue
		}
		if p.negate {
			decision = DecisionIncluded
		} else {
			decision = DecisionExcluded
		}
	}
	return decision
}

// Excluded reports whether the pattern list excludes relPath.
func (m *Matcher) Excluded(relPath string, isDir bool) bool {
	return m.Match(relPath, isDir) == DecisionExcluded
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int { return len(m.patterns) }

func (p *compiledPattern) matches(candidate string, isDir bool) bool {
	if p.subtreeRE.MatchString(candidate) {
		return true
	}
	if p.dirOnly && !isDir {
		return false
	}
	return p.selfRE.MatchString(candidate)
}

// compilePatternLine parses and compiles one pattern line. The boolean result
// is false for blank lines and comments.
func compilePatternLine(line string) (compiledPattern, bool, error) {
	original := line
	line = strings.TrimRight(line, "\r")
	line = trimTrailingSpaces(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return compiledPattern{}, false, nil
	}
	if strings.HasPrefix(line, `\#`) {
		line = line[1:]
	}

	negate := false
	if strings.HasPrefix(line, "!") {
		negate = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\!`) {
		line = line[1:]
	}
	if line == "" {
		return compiledPattern{}, false, nil
	}

	dirOnly := strings.HasSuffix(line, "/")
	line = strings.TrimSuffix(line, "/")

	// A slash anywhere except the trailing position anchors the pattern to
	// the root; a bare name matches at any depth.
	anchored := strings.HasPrefix(line, "/") || strings.Contains(line, "/")
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return compiledPattern{}, false, nil
	}

	body, err := globToRegex(line, original)
	if err != nil {
		return compiledPattern{}, false, err
	}

	prefix := `^(?:.*/)?`
	if anchored {
		prefix = `^`
	}

	selfRE, compileErr := regexp.Compile(prefix + body + `$`)
	if compileErr != nil {
		return compiledPattern{}, false, &PatternError{Pattern: original, Reason: compileErr.Error()}
	}
	subtreeRE, compileErr := regexp.Compile(prefix + body + `/.*$`)
	if compileErr != nil {
		return compiledPattern{}, false, &PatternError{Pattern: original, Reason: compileErr.Error()}
	}

	return compiledPattern{
		selfRE:    selfRE,
		subtreeRE: subtreeRE,
		negate:    negate,
		dirOnly:   dirOnly,
		source:    original,
	}, true, nil
}

// globToRegex converts a gitignore glob (already stripped of anchors and
// negation) into a regular-expression body.
func globToRegex(pattern, original string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				// "**/" may match zero directories; a bare "**" spans
				// separators.
				if i+2 < len(pattern) && pattern[i+2] == '/' && (i == 0 || pattern[i-1] == '/') {
					b.WriteString(`(?:[^/]+/)*`)
					i += 2
				} else {
					b.WriteString(`.*`)
					i++
				}
			} else {
				b.WriteString(`[^/]*`)
			}
		case '?':
			b.WriteString(`[^/]`)
		case '[':
			end := bracketEnd(pattern, i)
			if end < 0 {
				return "", &PatternError{Pattern: original, Reason: "unterminated bracket expression"}
			}
			b.WriteString(bracketToRegex(pattern[i : end+1]))
			i = end
		case '.', '+', '(', ')', '|', '^', '$', '{', '}', '\\', ']':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// bracketEnd finds the index of the closing bracket of a character class
// starting at index start, or -1 when the class is unterminated. A leading
// "!"/"^" and a literal "]" right after it are part of the class.
func bracketEnd(pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for ; i < len(pattern); i++ {
		if pattern[i] == ']' {
			return i
		}
	}
	return -1
}

// bracketToRegex rewrites a glob character class as a regexp class,
// translating gitignore's "[!x]" negation to "[^x]".
func bracketToRegex(class string) string {
	inner := class[1 : len(class)-1]
	if strings.HasPrefix(inner, "!") {
		inner = "^" + inner[1:]
	} else if strings.HasPrefix(inner, "^") {
		inner = `\^` + inner[1:]
	}
	return "[" + inner + "]"
}

// trimTrailingSpaces removes unescaped trailing whitespace, per gitignore
// rules.
func trimTrailingSpaces(s string) string {
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		if len(s) >= 2 && s[len(s)-2] == '\\' {
			return s[:len(s)-2] + s[len(s)-1:]
		}
		s = s[:len(s)-1]
	}
	return s
}
