package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExecutableLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		executable bool
	}{
		{"blank", "", false},
		{"whitespace only", "   \t ", false},
		{"comment", "# a comment", false},
		{"indented comment", "    # note", false},
		{"shebang", "#!/usr/bin/env bash", false},
		{"closing brace", "}", false},
		{"indented closing brace", "  }", false},
		{"fi", "fi", false},
		{"done", "done", false},
		{"esac", "esac", false},
		{"then", "then", false},
		{"else", "else", false},
		{"function decl posix", "my_func() {", false},
		{"function decl keyword", "function my_func {", false},
		{"function decl keyword parens", "function my_func() {", false},
		{"function decl no brace", "my_func()", false},
		{"assignment", "x=1", true},
		{"command", "echo hello", true},
		{"if opener", "if [[ -f x ]]; then", true},
		{"while opener", "while read -r line; do", true},
		{"for opener", "for f in *.sh; do", true},
		{"case opener", "case $x in", true},
		{"return statement", "return 1", true},
		{"call with braces in args", "printf '{}'", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.executable, IsExecutableLine(tt.line))
		})
	}
}

func TestExecutableLines(t *testing.T) {
	src := []byte(`#!/usr/bin/env bash
# helper library

greet() {
  echo "hello $1"
}

if [[ -n "$DEBUG" ]]; then
  set -x
fi
`)

	assert.Equal(t, []int{5, 8, 9}, ExecutableLines(src))
}

func TestExecutableLinesEmptySource(t *testing.T) {
	assert.Empty(t, ExecutableLines(nil))
	assert.Empty(t, ExecutableLines([]byte("\n\n# only comments\n")))
}
