package adapter

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportsTracing(t *testing.T) {
	assert.True(t, NewLocalShellRunnerAdapter("bash", 0).SupportsTracing())
	assert.True(t, NewLocalShellRunnerAdapter("/usr/bin/bash", 0).SupportsTracing())
	assert.False(t, NewLocalShellRunnerAdapter("sh", 0).SupportsTracing())
	assert.False(t, NewLocalShellRunnerAdapter("zsh", 0).SupportsTracing())
}

func TestShellDefaultsToBash(t *testing.T) {
	adapter := NewLocalShellRunnerAdapter("", 0)
	assert.Equal(t, "bash", adapter.Shell())
}

func TestTimeoutDefaults(t *testing.T) {
	assert.Equal(t, DefaultTestTimeout, NewLocalShellRunnerAdapter("bash", 0).Timeout())
	assert.Equal(t, 5*time.Second, NewLocalShellRunnerAdapter("bash", 5*time.Second).Timeout())
}

func writeRunnerScript(t *testing.T, content string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o700))

	return dir, path
}

func TestRunScript(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not installed")
	}

	adapter := NewLocalShellRunnerAdapter("bash", 0)

	t.Run("captures combined output", func(t *testing.T) {
		dir, path := writeRunnerScript(t, "echo out\necho err >&2\n")

		output, code, err := adapter.RunScript(context.Background(), dir, path)
		require.NoError(t, err)
		assert.Zero(t, code)
		assert.Equal(t, "out\nerr\n", output)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		dir, path := writeRunnerScript(t, "exit 7\n")

		_, code, err := adapter.RunScript(context.Background(), dir, path)
		require.NoError(t, err)
		assert.Equal(t, 7, code)
	})

	t.Run("runs in the given working directory", func(t *testing.T) {
		dir, path := writeRunnerScript(t, "pwd\n")

		output, _, err := adapter.RunScript(context.Background(), dir, path)
		require.NoError(t, err)
		assert.Contains(t, output, filepath.Base(dir))
	})

	t.Run("timeout kills a hung script", func(t *testing.T) {
		quick := NewLocalShellRunnerAdapter("bash", 100*time.Millisecond)
		dir, path := writeRunnerScript(t, "sleep 10\n")

		_, code, err := quick.RunScript(context.Background(), dir, path)
		require.NoError(t, err)
		assert.NotZero(t, code)
	})
}

func TestRunScriptMissingShell(t *testing.T) {
	adapter := NewLocalShellRunnerAdapter("definitely-not-a-shell", 0)

	_, code, err := adapter.RunScript(context.Background(), t.TempDir(), "script.sh")
	require.Error(t, err)
	assert.Equal(t, -1, code)
}
