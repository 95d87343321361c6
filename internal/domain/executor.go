package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/southpawriter02/shell-spec/internal/adapter"
	m "github.com/southpawriter02/shell-spec/internal/model"
)

const driverFilePerm = 0o700

// Executor runs one planned test case in a fresh, disposable shell process
// and derives its terminal outcome. Results are immutable once returned.
type Executor interface {
	Execute(ctx context.Context, tc m.TestCase) (m.ExecutionResult, error)
}

type executor struct {
	fs     adapter.ScriptFSAdapter
	shell  adapter.ShellRunnerAdapter
	runDir m.Path
	trace  bool
	seq    int
}

// NewExecutor prepares an executor for one run. The harness prelude is
// written once into runDir; per-test driver scripts and trace files are
// created next to it. runDir is expected to be an ephemeral directory the
// caller removes when the run ends.
func NewExecutor(fs adapter.ScriptFSAdapter, shell adapter.ShellRunnerAdapter, runDir m.Path, trace bool) (Executor, error) {
	preludePath := fs.JoinPath(string(runDir), preludeFileName)
	if err := fs.WriteFile(preludePath, []byte(preludeSource), driverFilePerm); err != nil {
		return nil, fmt.Errorf("failed to write harness prelude: %w", err)
	}

	return &executor{
		fs:     fs,
		shell:  shell,
		runDir: runDir,
		trace:  trace && shell.SupportsTracing(),
	}, nil
}

// Execute runs tc to completion. Isolation comes from the process boundary:
// nothing a test declares, mocks, or traces can outlive its own shell.
func (e *executor) Execute(ctx context.Context, tc m.TestCase) (m.ExecutionResult, error) {
	if tc.Directive.Kind == m.DirectiveSkip {
		// Skip short-circuits before any process is spawned.
		return m.ExecutionResult{Case: tc, Outcome: m.OutcomeSkipped}, nil
	}

	e.seq++

	cfg := driverConfig{
		PreludePath:  e.fs.JoinPath(string(e.runDir), preludeFileName),
		TestFile:     tc.File,
		Function:     tc.Name,
		TraceEnabled: e.trace,
	}

	if e.trace {
		cfg.TraceFile = e.fs.JoinPath(string(e.runDir), fmt.Sprintf("trace-%04d.log", e.seq))
	}

	driverPath := e.fs.JoinPath(string(e.runDir), fmt.Sprintf("driver-%04d.sh", e.seq))
	if err := e.fs.WriteFile(driverPath, []byte(renderDriver(cfg)), driverFilePerm); err != nil {
		return m.ExecutionResult{}, fmt.Errorf("failed to write driver for %s: %w", tc.Name, err)
	}

	workDir := filepath.Dir(string(tc.File))

	start := time.Now()

	output, exitCode, err := e.shell.RunScript(ctx, workDir, string(driverPath))

	duration := time.Since(start)

	if err != nil {
		return m.ExecutionResult{}, fmt.Errorf("failed to run %s: %w", tc.Name, err)
	}

	slog.Debug("test finished", "test", tc.Name, "exit", exitCode, "duration", duration)

	return m.ExecutionResult{
		Case:      tc,
		Outcome:   outcomeFor(tc.Directive, exitCode),
		Output:    output,
		ExitCode:  exitCode,
		Duration:  duration,
		TraceFile: cfg.TraceFile,
	}, nil
}

// outcomeFor derives the terminal state. A non-zero exit is the only failure
// condition the engine recognizes; assertion failures and crashes are not
// distinguished. A todo directive remaps both endpoints.
func outcomeFor(directive m.Directive, exitCode int) m.Outcome {
	failed := exitCode != 0

	if directive.Kind == m.DirectiveTodo {
		if failed {
			return m.OutcomeExpectedFail
		}

		return m.OutcomeUnexpectedPass
	}

	if failed {
		return m.OutcomeFailed
	}

	return m.OutcomePassed
}
