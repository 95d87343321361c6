package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunStartedMsg tells the watch view a run is in progress.
type RunStartedMsg struct{}

// RunFinishedMsg carries the captured output of one completed run.
type RunFinishedMsg struct {
	Output string
	Err    error
}

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true)
	watchHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// WatchTUI is the live view for watch mode: a spinner while a run is in
// flight, the last run's output otherwise.
type WatchTUI struct {
	program *tea.Program
}

// NewWatchTUI creates the watch view writing to output.
func NewWatchTUI(output io.Writer, watched []string) *WatchTUI {
	model := newWatchModel(watched)

	return &WatchTUI{
		program: tea.NewProgram(model, tea.WithOutput(output)),
	}
}

// Run blocks until the user quits the view.
func (t *WatchTUI) Run() error {
	_, err := t.program.Run()

	return err
}

// Send forwards a message to the running view.
func (t *WatchTUI) Send(msg tea.Msg) {
	t.program.Send(msg)
}

// Quit asks the view to stop.
func (t *WatchTUI) Quit() {
	t.program.Quit()
}

type watchModel struct {
	spinner    spinner.Model
	watched    []string
	running    bool
	runCount   int
	lastOutput string
	lastErr    error
}

func newWatchModel(watched []string) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return watchModel{spinner: s, watched: watched}
}

func (w watchModel) Init() tea.Cmd {
	return w.spinner.Tick
}

func (w watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return w, tea.Quit
		}

	case RunStartedMsg:
		w.running = true

		return w, w.spinner.Tick

	case RunFinishedMsg:
		w.running = false
		w.runCount++
		w.lastOutput = msg.Output
		w.lastErr = msg.Err

		return w, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)

		return w, cmd
	}

	return w, nil
}

func (w watchModel) View() string {
	var b strings.Builder

	b.WriteString(watchTitleStyle.Render("shspec watch"))
	fmt.Fprintf(&b, ": %s\n\n", strings.Join(w.watched, ", "))

	if w.running {
		fmt.Fprintf(&b, "%s running tests...\n", w.spinner.View())
	} else if w.runCount == 0 {
		b.WriteString("waiting for changes\n")
	} else {
		b.WriteString(w.lastOutput)

		if w.lastErr != nil {
			fmt.Fprintf(&b, "\n%s\n", failStyle.Render(w.lastErr.Error()))
		}
	}

	b.WriteString(watchHintStyle.Render("\npress q to quit\n"))

	return b.String()
}
