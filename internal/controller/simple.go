package controller

import (
	"bytes"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/southpawriter02/shell-spec/internal/model"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	todoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayNoTests reports an empty plan.
func (s *SimpleUI) DisplayNoTests() {
	s.printf("no tests found\n")
}

// DisplayPlan renders the discovered tests grouped per file.
func (s *SimpleUI) DisplayPlan(plan m.ExecutionPlan) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Test", "Directive"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, tc := range plan.Cases {
		directive := ""
		if tc.Directive.Kind != m.DirectiveNone {
			directive = tc.Directive.Kind.String()
		}

		table.Append([]string{string(tc.File), tc.Name, directive})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(plan.Files())),
		fmt.Sprintf("%d", plan.Total()),
		"",
	})

	table.Render()

	s.printf("\n%s", tableBuffer.String())
}

// DisplayRunStart announces how many tests are about to run.
func (s *SimpleUI) DisplayRunStart(total int) {
	s.printf("Running %d test(s)\n", total)
}

// DisplayResult renders one completed test with a colored status marker.
func (s *SimpleUI) DisplayResult(res m.ExecutionResult) {
	s.printf("%s %s (%s)\n", statusMarker(res.Outcome), res.Case.Name, res.Duration.Round(time.Millisecond))

	if res.Outcome == m.OutcomeFailed && res.Output != "" {
		s.printf("%s\n", res.Output)
	}
}

// DisplayDiagnostic reports a file skipped during discovery.
func (s *SimpleUI) DisplayDiagnostic(path m.Path, err error) {
	s.printf("%s cannot load %s: %v\n", failStyle.Render("WARNING:"), path, err)
}

// DisplayCoverage renders per-file coverage statistics.
func (s *SimpleUI) DisplayCoverage(stats []m.CoverageStats, aggregate int) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Executable", "Covered", "Percent"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, stat := range stats {
		table.Append([]string{
			stat.File,
			fmt.Sprintf("%d", stat.Executable),
			fmt.Sprintf("%d", stat.Covered),
			fmt.Sprintf("%.1f%%", stat.Percent),
		})
	}

	table.SetFooter([]string{"Total", "", "", fmt.Sprintf("%d%%", aggregate)})
	table.Render()

	s.printf("\n%s", tableBuffer.String())
}

// DisplayCoverageUnavailable reports a missing line-execution hook.
func (s *SimpleUI) DisplayCoverageUnavailable(shell string) {
	s.printf("coverage is not available for %s (no line-execution hook); continuing without it\n", shell)
}

// DisplaySummary renders the final counts.
func (s *SimpleUI) DisplaySummary(stats m.RunStats, elapsed time.Duration) {
	s.printf("\n%d tests, %d passed, %d failed, %d skipped, %d todo (%s)\n",
		stats.Total, stats.Passed, stats.Failed, stats.Skip, stats.Todo,
		elapsed.Round(time.Millisecond))

	if stats.Success() {
		s.printf("%s\n", passStyle.Render("OK"))
	} else {
		s.printf("%s\n", failStyle.Render("FAILED"))
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func statusMarker(outcome m.Outcome) string {
	switch outcome {
	case m.OutcomePassed:
		return passStyle.Render("PASS")
	case m.OutcomeFailed:
		return failStyle.Render("FAIL")
	case m.OutcomeSkipped:
		return skipStyle.Render("SKIP")
	case m.OutcomeExpectedFail:
		return todoStyle.Render("TODO")
	case m.OutcomeUnexpectedPass:
		return todoStyle.Render("TODO!")
	}

	return "????"
}
