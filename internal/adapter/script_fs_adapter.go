// Package adapter contains infrastructure adapters for the shspec CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

// ScriptFSAdapter abstracts filesystem-specific operations the domain layer
// relies on when discovering and running shell test suites. It hides direct
// `os` access so planner and executor logic can be tested without a disk.
type ScriptFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation limits itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish files from directories.
	FileInfo(path m.Path) (os.FileInfo, error)

	// CreateTempDir creates a uniquely-named ephemeral directory for one run.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// Abs resolves a path to its absolute form.
	Abs(path m.Path) (m.Path, error)

	// MatchBase reports whether the base name of path matches the glob
	// pattern, and surfaces malformed patterns as errors.
	MatchBase(pattern string, path m.Path) (bool, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type into the domain.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalScriptFSAdapter is the concrete implementation backed by the local
// filesystem.
type LocalScriptFSAdapter struct{}

// NewLocalScriptFSAdapter constructs a LocalScriptFSAdapter ready to be wired
// into the workflow.
func NewLocalScriptFSAdapter() *LocalScriptFSAdapter {
	return &LocalScriptFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalScriptFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalScriptFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalScriptFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalScriptFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// CreateTempDir creates a temporary directory for one harness run.
func (a *LocalScriptFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalScriptFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// Abs resolves a path to its absolute form.
func (a *LocalScriptFSAdapter) Abs(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// MatchBase matches the base name of path against a glob pattern.
func (a *LocalScriptFSAdapter) MatchBase(pattern string, path m.Path) (bool, error) {
	ok, err := filepath.Match(pattern, filepath.Base(string(path)))
	if err != nil {
		return false, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	return ok, nil
}

// JoinPath joins path elements into a single path.
func (a *LocalScriptFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
