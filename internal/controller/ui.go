// Package controller provides output adapters for displaying harness results.
package controller

import (
	"time"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

// UI defines the interface for presenting discovery and run progress.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplayNoTests reports an empty plan; this is a success, not an error.
	DisplayNoTests()

	// DisplayPlan renders the discovered tests per file with directives.
	DisplayPlan(plan m.ExecutionPlan)

	// DisplayRunStart announces the number of tests about to run.
	DisplayRunStart(total int)

	// DisplayResult renders one completed test.
	DisplayResult(res m.ExecutionResult)

	// DisplayDiagnostic reports a file skipped during discovery.
	DisplayDiagnostic(path m.Path, err error)

	// DisplayCoverage renders per-file coverage statistics.
	DisplayCoverage(stats []m.CoverageStats, aggregate int)

	// DisplayCoverageUnavailable reports that the configured shell has no
	// line-execution hook.
	DisplayCoverageUnavailable(shell string)

	// DisplaySummary renders the final counts for a run.
	DisplaySummary(stats m.RunStats, elapsed time.Duration)
}
