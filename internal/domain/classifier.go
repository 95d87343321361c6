package domain

import (
	"regexp"
	"strings"
)

// funcDeclPattern matches `name() {`, `name ()`, `function name {`, and the
// combined forms, each on a line of its own.
var funcDeclPattern = regexp.MustCompile(
	`^(function\s+[A-Za-z_][A-Za-z0-9_]*(\s*\(\s*\))?|[A-Za-z_][A-Za-z0-9_]*\s*\(\s*\))\s*\{?\s*$`,
)

// bareKeywords are block delimiters that carry no executable statement when
// they stand alone on a line.
var bareKeywords = map[string]bool{
	"}":    true,
	"fi":   true,
	"done": true,
	"esac": true,
	"then": true,
	"else": true,
}

// IsExecutableLine classifies one physical source line. Blank lines,
// comments (including the shebang), function declaration lines, and bare
// block delimiters are non-executable; everything else counts, including
// lines that open flow control (`if`, `while`, `for`). The heuristic is
// line-based and can misclassify statements continued across lines; that
// accuracy bound is accepted rather than corrected.
func IsExecutableLine(line string) bool {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, "#") {
		return false
	}

	if bareKeywords[trimmed] {
		return false
	}

	if funcDeclPattern.MatchString(trimmed) {
		return false
	}

	return true
}

// ExecutableLines returns the 1-based line numbers of every executable line
// in the given source text.
func ExecutableLines(src []byte) []int {
	var lines []int

	for i, line := range strings.Split(string(src), "\n") {
		if IsExecutableLine(line) {
			lines = append(lines, i+1)
		}
	}

	return lines
}
