package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/google/uuid"

	"github.com/southpawriter02/shell-spec/internal/adapter"
	"github.com/southpawriter02/shell-spec/internal/controller"
	m "github.com/southpawriter02/shell-spec/internal/model"
	pkg "github.com/southpawriter02/shell-spec/pkg"
)

// ErrRunFailed marks a run with at least one terminal failure; the CLI maps
// it to a non-zero exit status.
var ErrRunFailed = errors.New("test run failed")

// ErrNoRunData marks a query against a reports directory with no saved run.
var ErrNoRunData = errors.New("no saved run data")

// RunArgs configures one full harness run.
type RunArgs struct {
	Paths       []m.Path
	Pattern     string
	Prefix      string
	Exclude     []string
	Tap         io.Writer // nil disables protocol emission
	Coverage    bool
	MinCoverage int
	Reports     m.Path // empty disables result-stream persistence
}

// ListArgs configures a discovery-only pass.
type ListArgs struct {
	Paths   []m.Path
	Pattern string
	Prefix  string
	Exclude []string
}

// CoverageArgs queries saved coverage data.
type CoverageArgs struct {
	Reports m.Path
	File    m.Path
}

// Workflow is the high-level engine surface the CLI drives.
type Workflow interface {
	// Run discovers, executes, and reports one full pass.
	Run(ctx context.Context, args RunArgs) error

	// List discovers tests and displays the plan without running anything.
	List(args ListArgs) error

	// View redisplays the most recently persisted run.
	View(reports m.Path) error

	// CoverageQuery returns the saved stats for one file.
	CoverageQuery(args CoverageArgs) (m.CoverageStats, error)

	// CoverageCheck compares the saved aggregate percentage to a minimum.
	CoverageCheck(reports m.Path, minimum int) (int, error)
}

type workflow struct {
	fs    adapter.ScriptFSAdapter
	shell adapter.ShellRunnerAdapter
	store adapter.StreamStore
	ui    controller.UI
}

// NewWorkflow constructs the engine from its collaborators.
func NewWorkflow(
	fs adapter.ScriptFSAdapter,
	shell adapter.ShellRunnerAdapter,
	store adapter.StreamStore,
	ui controller.UI,
) Workflow {
	return &workflow{fs: fs, shell: shell, store: store, ui: ui}
}

func (w *workflow) planner() Planner {
	return NewPlanner(w.fs, func(path m.Path, err error) {
		w.ui.DisplayDiagnostic(path, err)
	})
}

// Run executes the full pipeline: plan, run each case in isolation, emit
// protocol and console output, persist the result stream, and report the
// overall status.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	plan, err := w.planner().Plan(PlanArgs{
		Paths:   args.Paths,
		Pattern: args.Pattern,
		Prefix:  args.Prefix,
		Exclude: args.Exclude,
	})
	if err != nil {
		return err
	}

	if plan.Total() == 0 {
		w.ui.DisplayNoTests()
		return nil
	}

	traceWanted := args.Coverage
	if traceWanted && !w.shell.SupportsTracing() {
		w.ui.DisplayCoverageUnavailable(w.shell.Shell())

		traceWanted = false
	}

	runDir, err := w.fs.CreateTempDir("shspec-run-*")
	if err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	// Ephemeral state goes even when the run aborts.
	defer func() {
		if err := w.fs.RemoveAll(runDir); err != nil {
			slog.Warn("failed to remove run directory", "path", runDir, "error", err)
		}
	}()

	executor, err := NewExecutor(w.fs, w.shell, runDir, traceWanted)
	if err != nil {
		return err
	}

	w.ui.DisplayRunStart(plan.Total())

	var tap *TapWriter
	if args.Tap != nil {
		tap = NewTapWriter(args.Tap)
		tap.WriteHeader(plan.Total())
	}

	started := time.Now()

	var (
		stats   m.RunStats
		results []m.ExecutionResult
		records []m.StreamRecord
	)

	for _, tc := range plan.Cases {
		res, err := executor.Execute(ctx, tc)
		if err != nil {
			return err
		}

		stats.Count(res)
		results = append(results, res)
		records = append(records, streamRecordFor(res))

		w.ui.DisplayResult(res)

		if tap != nil {
			tap.WriteResult(res)
		}
	}

	summary := m.RunSummary{
		ID:        uuid.NewString(),
		StartedAt: started,
		Records:   records,
	}

	var thresholdErr error

	if traceWanted {
		summary.Coverage, thresholdErr = w.reportCoverage(results, plan.Files(), args.MinCoverage)
	}

	if args.Reports != "" {
		if err := w.store.SaveRun(args.Reports, summary); err != nil {
			return err
		}
	}

	w.ui.DisplaySummary(stats, time.Since(started))

	if !stats.Success() {
		return ErrRunFailed
	}

	return thresholdErr
}

func (w *workflow) reportCoverage(results []m.ExecutionResult, planFiles []m.Path, minimum int) ([]m.CoverageStats, error) {
	spill, err := pkg.NewFileSpill[m.TraceRecord]()
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = spill.Close()
	}()

	if err := MergeTraces(w.fs, spill, results); err != nil {
		return nil, err
	}

	stats, err := BuildCoverage(w.fs, spill, planFiles)
	if err != nil {
		return nil, err
	}

	w.ui.DisplayCoverage(stats, AggregatePercent(stats))

	if minimum > 0 {
		if _, err := CheckCoverageThreshold(stats, minimum); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// List displays the plan without executing anything.
func (w *workflow) List(args ListArgs) error {
	plan, err := w.planner().Plan(PlanArgs{
		Paths:   args.Paths,
		Pattern: args.Pattern,
		Prefix:  args.Prefix,
		Exclude: args.Exclude,
	})
	if err != nil {
		return err
	}

	if plan.Total() == 0 {
		w.ui.DisplayNoTests()
		return nil
	}

	w.ui.DisplayPlan(plan)

	return nil
}

// View redisplays the latest persisted run summary.
func (w *workflow) View(reports m.Path) error {
	run, err := w.store.LoadLatestRun(reports)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoRunData, err)
	}

	var stats m.RunStats

	for _, record := range run.Records {
		res := m.ExecutionResult{
			Case:     m.TestCase{File: m.Path(record.File), Name: record.Test},
			Outcome:  outcomeForStatus(record.Status),
			Output:   record.Message,
			Duration: time.Duration(record.DurationMS) * time.Millisecond,
		}

		stats.Count(res)
		w.ui.DisplayResult(res)
	}

	if len(run.Coverage) > 0 {
		w.ui.DisplayCoverage(run.Coverage, AggregatePercent(run.Coverage))
	}

	w.ui.DisplaySummary(stats, 0)

	return nil
}

// CoverageQuery returns the saved stats for one file from the latest run.
func (w *workflow) CoverageQuery(args CoverageArgs) (m.CoverageStats, error) {
	run, err := w.store.LoadLatestRun(args.Reports)
	if err != nil {
		return m.CoverageStats{}, fmt.Errorf("%w: %v", ErrNoRunData, err)
	}

	abs, err := w.fs.Abs(args.File)
	if err != nil {
		return m.CoverageStats{}, err
	}

	// Suffix matches must start at a path element so "calc.sh" never picks
	// up an unrelated "localc.sh".
	suffix := string(filepath.Separator) + string(args.File)

	for _, stat := range run.Coverage {
		if stat.File == string(abs) || strings.HasSuffix(stat.File, suffix) {
			return stat, nil
		}
	}

	return m.CoverageStats{}, fmt.Errorf("no coverage data for %s", args.File)
}

// CoverageCheck compares the saved aggregate percentage to a minimum.
func (w *workflow) CoverageCheck(reports m.Path, minimum int) (int, error) {
	run, err := w.store.LoadLatestRun(reports)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoRunData, err)
	}

	return CheckCoverageThreshold(run.Coverage, minimum)
}

func streamRecordFor(res m.ExecutionResult) m.StreamRecord {
	message := ""

	switch res.Outcome {
	case m.OutcomeFailed:
		message = stripansi.Strip(res.Output)
	case m.OutcomeSkipped, m.OutcomeExpectedFail, m.OutcomeUnexpectedPass:
		message = res.Case.Directive.Reason
	case m.OutcomePassed:
	}

	return m.StreamRecord{
		File:       string(res.Case.File),
		Test:       res.Case.Name,
		Status:     res.Outcome.Status(),
		Message:    message,
		DurationMS: res.Duration.Milliseconds(),
	}
}

// outcomeForStatus maps a persisted stream status back to an outcome. The
// stream collapses ExpectedFail and UnexpectedPass into one TODO status, so
// a replayed view shows an unexpected pass as an expected failure; the
// distinction exists only during the live run.
func outcomeForStatus(status m.Status) m.Outcome {
	switch status {
	case m.StatusFail:
		return m.OutcomeFailed
	case m.StatusSkip:
		return m.OutcomeSkipped
	case m.StatusTodo:
		return m.OutcomeExpectedFail
	case m.StatusPass:
		return m.OutcomePassed
	}

	return m.OutcomePassed
}
