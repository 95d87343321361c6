package domain

import (
	_ "embed"
	"fmt"
	"strings"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

// preludeSource is the shell harness sourced into every test process. It
// carries the assertion primitives, the substitution registry, and the trace
// hook.
//
//go:embed prelude.sh
var preludeSource string

// preludeFileName is the name of the prelude inside the run directory.
const preludeFileName = "harness.sh"

// driverConfig describes one generated driver script.
type driverConfig struct {
	PreludePath  m.Path
	TestFile     m.Path
	Function     string
	TraceFile    m.Path
	TraceEnabled bool
}

// renderDriver produces the tiny script that wires one test invocation:
// source the prelude, arm tracing when requested, source the test file, then
// hand control to harness_run.
func renderDriver(cfg driverConfig) string {
	var b strings.Builder

	b.WriteString("#!/usr/bin/env bash\n")
	b.WriteString("__SHSPEC_DRIVER=\"${BASH_SOURCE[0]}\"\n")

	if cfg.TraceEnabled {
		fmt.Fprintf(&b, "__SHSPEC_TRACE_FILE=%s\n", shellQuote(string(cfg.TraceFile)))
	}

	fmt.Fprintf(&b, "source %s\n", shellQuote(string(cfg.PreludePath)))

	if cfg.TraceEnabled {
		b.WriteString("__shspec_trace_on\n")
	}

	fmt.Fprintf(&b, "source %s\n", shellQuote(string(cfg.TestFile)))
	fmt.Fprintf(&b, "harness_run %s\n", shellQuote(cfg.Function))

	return b.String()
}

// shellQuote wraps s in single quotes, escaping embedded single quotes so the
// result is safe to splice into generated shell source.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
