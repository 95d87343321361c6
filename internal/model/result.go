package model

import "time"

// Outcome is the terminal state of one executed test case.
type Outcome int

const (
	// OutcomePassed indicates the test function exited zero.
	OutcomePassed Outcome = iota
	// OutcomeFailed indicates the test function exited non-zero.
	OutcomeFailed
	// OutcomeSkipped indicates the test was never invoked due to a skip directive.
	OutcomeSkipped
	// OutcomeExpectedFail indicates a todo-directed test that failed, as anticipated.
	OutcomeExpectedFail
	// OutcomeUnexpectedPass indicates a todo-directed test that succeeded.
	OutcomeUnexpectedPass
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeExpectedFail:
		return "expected failure"
	case OutcomeUnexpectedPass:
		return "unexpected pass"
	}

	return "unknown"
}

// Passing reports whether the outcome counts toward overall run success.
// Skipped and both todo remappings count as passing; only a plain failure
// does not.
func (o Outcome) Passing() bool {
	return o != OutcomeFailed
}

// Status is the coarse state exposed on the result stream.
type Status string

// Stream status values.
const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
	StatusTodo Status = "TODO"
)

// Status maps the fine-grained outcome onto the stream status.
func (o Outcome) Status() Status {
	switch o {
	case OutcomeFailed:
		return StatusFail
	case OutcomeSkipped:
		return StatusSkip
	case OutcomeExpectedFail, OutcomeUnexpectedPass:
		return StatusTodo
	case OutcomePassed:
		return StatusPass
	}

	return StatusPass
}

// ExecutionResult is the immutable outcome of running one test case.
type ExecutionResult struct {
	Case     TestCase
	Outcome  Outcome
	Output   string // combined stdout+stderr of the test process
	ExitCode int
	Duration time.Duration
	// TraceFile is the raw per-test trace record, empty when tracing was off.
	TraceFile Path
}

// RunStats aggregates outcome counts for a completed run.
type RunStats struct {
	Total  int
	Passed int
	Failed int
	Skip   int
	Todo   int
}

// Count folds one result into the stats.
func (s *RunStats) Count(res ExecutionResult) {
	s.Total++

	switch res.Outcome {
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
		s.Skip++
	case OutcomeExpectedFail, OutcomeUnexpectedPass:
		s.Todo++
	case OutcomePassed:
		s.Passed++
	}
}

// Success reports whether the run as a whole counts as passing.
func (s RunStats) Success() bool {
	return s.Failed == 0
}

// StreamRecord is one result-stream entry consumed by external reporting
// collaborators. All text fields are ANSI-stripped before storage.
type StreamRecord struct {
	File       string `yaml:"file"`
	Test       string `yaml:"test"`
	Status     Status `yaml:"status"`
	Message    string `yaml:"message,omitempty"`
	DurationMS int64  `yaml:"duration_ms"`
}

// RunSummary is the persisted record of one harness run.
type RunSummary struct {
	ID        string          `yaml:"id"`
	StartedAt time.Time       `yaml:"started_at"`
	Records   []StreamRecord  `yaml:"records"`
	Coverage  []CoverageStats `yaml:"coverage,omitempty"`
}
