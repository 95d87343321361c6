package domain

import (
	"fmt"
	"io"
	"strings"

	"github.com/acarl005/stripansi"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

// TapWriter emits the line-oriented protocol stream consumed by downstream
// harnesses. Sequence numbers are 1-based, strictly increasing, and follow
// plan order; callers must feed results in that order.
type TapWriter struct {
	w   io.Writer
	seq int
}

// NewTapWriter wraps w with a protocol emitter.
func NewTapWriter(w io.Writer) *TapWriter {
	return &TapWriter{w: w}
}

// WriteHeader emits the version line and the plan declaring the total count.
// Must be called once, before any result.
func (t *TapWriter) WriteHeader(total int) {
	fmt.Fprintf(t.w, "TAP version 13\n")
	fmt.Fprintf(t.w, "1..%d\n", total)
}

// WriteComment emits a free-form comment line, ignored by consumers.
func (t *TapWriter) WriteComment(text string) {
	fmt.Fprintf(t.w, "# %s\n", stripansi.Strip(text))
}

// WriteResult emits one ok / not ok line for a completed test, plus a
// diagnostic block after an undirected failure.
func (t *TapWriter) WriteResult(res m.ExecutionResult) {
	t.seq++

	line := "ok"
	if res.Outcome == m.OutcomeFailed || res.Outcome == m.OutcomeExpectedFail {
		line = "not ok"
	}

	fmt.Fprintf(t.w, "%s %d - %s%s\n", line, t.seq, res.Case.Name, directiveSuffix(res.Case.Directive))

	if res.Outcome == m.OutcomeFailed {
		t.writeDiagnostic(res)
	}
}

func directiveSuffix(d m.Directive) string {
	switch d.Kind {
	case m.DirectiveSkip:
		return suffixWithReason("SKIP", d.Reason)
	case m.DirectiveTodo:
		return suffixWithReason("TODO", d.Reason)
	case m.DirectiveNone:
		return ""
	}

	return ""
}

func suffixWithReason(tag, reason string) string {
	if reason == "" {
		return " # " + tag
	}

	return " # " + tag + " " + reason
}

// writeDiagnostic emits the block-scalar diagnostic that follows an
// undirected failure: message, severity marker, source location, and the
// duration in whole milliseconds, between open/close markers.
func (t *TapWriter) writeDiagnostic(res m.ExecutionResult) {
	fmt.Fprintf(t.w, "  ---\n")
	fmt.Fprintf(t.w, "  message: '%s'\n", tapEscape(res.Output))
	fmt.Fprintf(t.w, "  severity: fail\n")
	fmt.Fprintf(t.w, "  file: %s\n", res.Case.File)
	fmt.Fprintf(t.w, "  procedure: %s\n", res.Case.Name)
	fmt.Fprintf(t.w, "  duration_ms: %d\n", res.Duration.Milliseconds())
	fmt.Fprintf(t.w, "  ...\n")
}

// tapEscape strips ANSI styling, doubles single quotes per block-scalar
// escaping, and indents continuation lines to stay inside the block.
func tapEscape(text string) string {
	cleaned := stripansi.Strip(strings.TrimRight(text, "\n"))
	cleaned = strings.ReplaceAll(cleaned, "'", "''")

	return strings.ReplaceAll(cleaned, "\n", "\n    ")
}
