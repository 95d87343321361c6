package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"time"
)

// DefaultTestTimeout bounds a single test process. The engine itself has no
// per-test cancellation; a hung test would otherwise stall the whole run.
const DefaultTestTimeout = 60 * time.Second

// ShellRunnerAdapter abstracts spawning the shell interpreter for one test.
type ShellRunnerAdapter interface {
	// RunScript executes scriptPath with the configured shell in workDir and
	// returns the combined stdout/stderr, the process exit code, and any
	// error spawning the process. A non-zero exit is not an error.
	RunScript(ctx context.Context, workDir, scriptPath string) (output string, exitCode int, err error)

	// SupportsTracing reports whether the configured shell offers the
	// line-execution hook needed for coverage.
	SupportsTracing() bool

	// Shell returns the interpreter binary in use.
	Shell() string
}

// LocalShellRunnerAdapter provides a concrete implementation using os/exec.
type LocalShellRunnerAdapter struct {
	shell   string
	timeout time.Duration
}

// NewLocalShellRunnerAdapter constructs a LocalShellRunnerAdapter for the
// given interpreter binary. An empty shell falls back to bash, a zero timeout
// to DefaultTestTimeout.
func NewLocalShellRunnerAdapter(shell string, timeout time.Duration) *LocalShellRunnerAdapter {
	if shell == "" {
		shell = "bash"
	}

	if timeout <= 0 {
		timeout = DefaultTestTimeout
	}

	return &LocalShellRunnerAdapter{shell: shell, timeout: timeout}
}

// RunScript executes one generated driver script in its own shell process.
func (a *LocalShellRunnerAdapter) RunScript(ctx context.Context, workDir, scriptPath string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.shell, scriptPath)
	cmd.Dir = workDir

	var combined bytes.Buffer

	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return combined.String(), exitErr.ExitCode(), nil
		}

		return combined.String(), -1, err
	}

	return combined.String(), 0, nil
}

// SupportsTracing reports whether the line-execution hook is available.
// Only bash exposes the DEBUG trap plus functrace combination the trace
// collector relies on; other shells decline gracefully.
func (a *LocalShellRunnerAdapter) SupportsTracing() bool {
	return filepath.Base(a.shell) == "bash"
}

// Shell returns the interpreter binary in use.
func (a *LocalShellRunnerAdapter) Shell() string {
	return a.shell
}

// Timeout returns the per-test timeout in effect.
func (a *LocalShellRunnerAdapter) Timeout() time.Duration {
	return a.timeout
}
