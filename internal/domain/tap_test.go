package domain

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

func passingResult(name string) m.ExecutionResult {
	return m.ExecutionResult{
		Case:    m.TestCase{File: "/suite/calc_test.sh", Name: name},
		Outcome: m.OutcomePassed,
	}
}

func TestTapWriterAllPassing(t *testing.T) {
	var buf bytes.Buffer

	tap := NewTapWriter(&buf)
	tap.WriteHeader(3)
	tap.WriteResult(passingResult("test_one"))
	tap.WriteResult(passingResult("test_two"))
	tap.WriteResult(passingResult("test_three"))

	assert.Equal(t,
		"TAP version 13\n"+
			"1..3\n"+
			"ok 1 - test_one\n"+
			"ok 2 - test_two\n"+
			"ok 3 - test_three\n",
		buf.String())
}

func TestTapWriterFailureDiagnostic(t *testing.T) {
	var buf bytes.Buffer

	tap := NewTapWriter(&buf)
	tap.WriteHeader(1)
	tap.WriteResult(m.ExecutionResult{
		Case:     m.TestCase{File: "/suite/calc_test.sh", Name: "test_sub"},
		Outcome:  m.OutcomeFailed,
		Output:   "FAILURE: values differ\nExpected: 'a'\nActual:   'b'\n",
		ExitCode: 1,
		Duration: 12 * time.Millisecond,
	})

	assert.Equal(t,
		"TAP version 13\n"+
			"1..1\n"+
			"not ok 1 - test_sub\n"+
			"  ---\n"+
			"  message: 'FAILURE: values differ\n"+
			"    Expected: ''a''\n"+
			"    Actual:   ''b'''\n"+
			"  severity: fail\n"+
			"  file: /suite/calc_test.sh\n"+
			"  procedure: test_sub\n"+
			"  duration_ms: 12\n"+
			"  ...\n",
		buf.String())
}

func TestTapWriterStripsANSIFromDiagnostics(t *testing.T) {
	var buf bytes.Buffer

	tap := NewTapWriter(&buf)
	tap.WriteHeader(1)
	tap.WriteResult(m.ExecutionResult{
		Case:    m.TestCase{File: "x_test.sh", Name: "test_color"},
		Outcome: m.OutcomeFailed,
		Output:  "\x1b[31mred alert\x1b[0m",
	})

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestTapWriterDirectives(t *testing.T) {
	var buf bytes.Buffer

	tap := NewTapWriter(&buf)
	tap.WriteHeader(3)
	tap.WriteResult(m.ExecutionResult{
		Case: m.TestCase{
			Name:      "test_db",
			Directive: m.Directive{Kind: m.DirectiveSkip, Reason: "needs a database"},
		},
		Outcome: m.OutcomeSkipped,
	})
	tap.WriteResult(m.ExecutionResult{
		Case: m.TestCase{
			Name:      "test_flaky",
			Directive: m.Directive{Kind: m.DirectiveTodo, Reason: "flaky on ci"},
		},
		Outcome: m.OutcomeExpectedFail,
	})
	tap.WriteResult(m.ExecutionResult{
		Case: m.TestCase{
			Name:      "test_fixed",
			Directive: m.Directive{Kind: m.DirectiveTodo},
		},
		Outcome: m.OutcomeUnexpectedPass,
	})

	assert.Equal(t,
		"TAP version 13\n"+
			"1..3\n"+
			"ok 1 - test_db # SKIP needs a database\n"+
			"not ok 2 - test_flaky # TODO flaky on ci\n"+
			"ok 3 - test_fixed # TODO\n",
		buf.String())
}

func TestTapWriterExpectedFailHasNoDiagnosticBlock(t *testing.T) {
	var buf bytes.Buffer

	tap := NewTapWriter(&buf)
	tap.WriteHeader(1)
	tap.WriteResult(m.ExecutionResult{
		Case: m.TestCase{
			Name:      "test_flaky",
			Directive: m.Directive{Kind: m.DirectiveTodo, Reason: "known"},
		},
		Outcome: m.OutcomeExpectedFail,
		Output:  "FAILURE: anything",
	})

	assert.NotContains(t, buf.String(), "---")
}

func TestTapWriterComment(t *testing.T) {
	var buf bytes.Buffer

	tap := NewTapWriter(&buf)
	tap.WriteComment("running suite calc")

	assert.Equal(t, "# running suite calc\n", buf.String())
}
