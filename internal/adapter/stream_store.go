package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

const (
	latestRunFile = "latest.yaml"
	storeDirPerm  = 0o750
	storeFilePerm = 0o600
)

// StreamStore persists run summaries (result stream plus coverage) so that
// external collaborators and later commands can consume them.
type StreamStore interface {
	SaveRun(dir m.Path, run m.RunSummary) error
	LoadLatestRun(dir m.Path) (m.RunSummary, error)
}

// LocalStreamStore stores run summaries as YAML files in the reports
// directory: one file per run plus a latest.yaml snapshot.
type LocalStreamStore struct{}

// NewLocalStreamStore constructs a LocalStreamStore.
func NewLocalStreamStore() *LocalStreamStore {
	return &LocalStreamStore{}
}

// SaveRun writes the run summary to run-<id>.yaml and refreshes latest.yaml.
func (s *LocalStreamStore) SaveRun(dir m.Path, run m.RunSummary) error {
	if err := os.MkdirAll(string(dir), storeDirPerm); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	runPath := filepath.Join(string(dir), fmt.Sprintf("run-%s.yaml", run.ID))
	if err := os.WriteFile(runPath, data, storeFilePerm); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}

	latestPath := filepath.Join(string(dir), latestRunFile)
	if err := os.WriteFile(latestPath, data, storeFilePerm); err != nil {
		return fmt.Errorf("failed to write latest run summary: %w", err)
	}

	return nil
}

// LoadLatestRun reads back the most recently saved run summary.
func (s *LocalStreamStore) LoadLatestRun(dir m.Path) (m.RunSummary, error) {
	data, err := os.ReadFile(filepath.Join(string(dir), latestRunFile))
	if err != nil {
		return m.RunSummary{}, fmt.Errorf("failed to read latest run summary: %w", err)
	}

	var run m.RunSummary
	if err := yaml.Unmarshal(data, &run); err != nil {
		return m.RunSummary{}, fmt.Errorf("failed to decode latest run summary: %w", err)
	}

	return run, nil
}
