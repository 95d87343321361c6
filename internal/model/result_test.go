package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutcomePassing(t *testing.T) {
	assert.True(t, OutcomePassed.Passing())
	assert.True(t, OutcomeSkipped.Passing())
	assert.True(t, OutcomeExpectedFail.Passing())
	assert.True(t, OutcomeUnexpectedPass.Passing())
	assert.False(t, OutcomeFailed.Passing())
}

func TestOutcomeStatus(t *testing.T) {
	assert.Equal(t, StatusPass, OutcomePassed.Status())
	assert.Equal(t, StatusFail, OutcomeFailed.Status())
	assert.Equal(t, StatusSkip, OutcomeSkipped.Status())
	assert.Equal(t, StatusTodo, OutcomeExpectedFail.Status())
	assert.Equal(t, StatusTodo, OutcomeUnexpectedPass.Status())
}

func TestRunStatsCount(t *testing.T) {
	var stats RunStats

	for _, outcome := range []Outcome{
		OutcomePassed, OutcomePassed, OutcomeFailed,
		OutcomeSkipped, OutcomeExpectedFail, OutcomeUnexpectedPass,
	} {
		stats.Count(ExecutionResult{Outcome: outcome})
	}

	assert.Equal(t, RunStats{Total: 6, Passed: 2, Failed: 1, Skip: 1, Todo: 2}, stats)
	assert.False(t, stats.Success())
}

func TestRunStatsSuccessIgnoresDirectedOutcomes(t *testing.T) {
	var stats RunStats

	stats.Count(ExecutionResult{Outcome: OutcomeSkipped})
	stats.Count(ExecutionResult{Outcome: OutcomeExpectedFail})
	stats.Count(ExecutionResult{Outcome: OutcomeUnexpectedPass})

	assert.True(t, stats.Success())
}

func TestExecutionPlanAccessors(t *testing.T) {
	plan := ExecutionPlan{Cases: []TestCase{
		{File: "a_test.sh", Name: "test_one"},
		{File: "a_test.sh", Name: "test_two"},
		{File: "b_test.sh", Name: "test_three"},
	}}

	assert.Equal(t, 3, plan.Total())
	assert.Equal(t, []Path{"a_test.sh", "b_test.sh"}, plan.Files())
}

func TestDirectiveKindString(t *testing.T) {
	assert.Equal(t, "none", DirectiveNone.String())
	assert.Equal(t, "skip", DirectiveSkip.String())
	assert.Equal(t, "todo", DirectiveTodo.String())
}

func TestExecutionResultCarriesDuration(t *testing.T) {
	res := ExecutionResult{Duration: 1500 * time.Millisecond}
	assert.Equal(t, int64(1500), res.Duration.Milliseconds())
}
