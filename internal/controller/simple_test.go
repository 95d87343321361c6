package controller

import (
	"bytes"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

// newCaptureUI returns a SimpleUI writing to the returned buffer. Assertions
// strip ANSI styling so they hold with and without a color terminal.
func newCaptureUI() (*SimpleUI, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	return NewSimpleUI(cmd), &out
}

func plain(out *bytes.Buffer) string {
	return stripansi.Strip(out.String())
}

func TestDisplayNoTests(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplayNoTests()

	assert.Equal(t, "no tests found\n", plain(out))
}

func TestDisplayPlan(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplayPlan(m.ExecutionPlan{Cases: []m.TestCase{
		{File: "calc_test.sh", Name: "test_add"},
		{File: "calc_test.sh", Name: "test_db", Directive: m.Directive{Kind: m.DirectiveSkip}},
		{File: "io_test.sh", Name: "test_read", Directive: m.Directive{Kind: m.DirectiveTodo}},
	}})

	text := plain(out)
	assert.Contains(t, text, "test_add")
	assert.Contains(t, text, "skip")
	assert.Contains(t, text, "todo")
	assert.Contains(t, text, "Total Files 2")
	assert.Contains(t, text, "3")
}

func TestDisplayResult(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplayResult(m.ExecutionResult{
		Case:     m.TestCase{Name: "test_add"},
		Outcome:  m.OutcomePassed,
		Duration: 12 * time.Millisecond,
	})

	assert.Contains(t, plain(out), "PASS test_add (12ms)")
}

func TestDisplayResultShowsFailureOutput(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplayResult(m.ExecutionResult{
		Case:    m.TestCase{Name: "test_sub"},
		Outcome: m.OutcomeFailed,
		Output:  "Expected: 1\nActual:   0",
	})

	text := plain(out)
	assert.Contains(t, text, "FAIL test_sub")
	assert.Contains(t, text, "Expected: 1")
	assert.Contains(t, text, "Actual:   0")
}

func TestStatusMarkers(t *testing.T) {
	assert.Equal(t, "PASS", stripansi.Strip(statusMarker(m.OutcomePassed)))
	assert.Equal(t, "FAIL", stripansi.Strip(statusMarker(m.OutcomeFailed)))
	assert.Equal(t, "SKIP", stripansi.Strip(statusMarker(m.OutcomeSkipped)))
	assert.Equal(t, "TODO", stripansi.Strip(statusMarker(m.OutcomeExpectedFail)))
	assert.Equal(t, "TODO!", stripansi.Strip(statusMarker(m.OutcomeUnexpectedPass)))
}

func TestDisplayCoverage(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplayCoverage([]m.CoverageStats{
		{File: "calc.sh", Executable: 10, Covered: 7, Percent: 70},
	}, 70)

	text := plain(out)
	assert.Contains(t, text, "calc.sh")
	assert.Contains(t, text, "70.0%")
	assert.Contains(t, text, "70%")
}

func TestDisplayCoverageUnavailable(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplayCoverageUnavailable("sh")

	assert.Contains(t, plain(out), "coverage is not available for sh")
}

func TestDisplaySummary(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplaySummary(m.RunStats{Total: 4, Passed: 2, Failed: 1, Skip: 1}, 1500*time.Millisecond)

	text := plain(out)
	assert.Contains(t, text, "4 tests, 2 passed, 1 failed, 1 skipped, 0 todo (1.5s)")
	assert.Contains(t, text, "FAILED")
}

func TestDisplaySummarySuccess(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplaySummary(m.RunStats{Total: 2, Passed: 2}, time.Second)

	assert.Contains(t, plain(out), "OK")
}

func TestDisplayDiagnostic(t *testing.T) {
	ui, out := newCaptureUI()

	ui.DisplayDiagnostic("broken_test.sh", assert.AnError)

	text := plain(out)
	assert.Contains(t, text, "WARNING:")
	assert.Contains(t, text, "broken_test.sh")
}
