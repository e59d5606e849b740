package wizard

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bloop/internal/adapter/tui/theme"
	"bloop/internal/adapter/tui/uxerror"
)

// TaskModel shows the state of one async hook call (connect, scan) with a
// spinner while it runs and a humanized error when it fails.
type TaskModel struct {
	Spinner spinner.Model
	Label   string // e.g. "Connecting to GitHub"
	Running bool
	Done    bool
	Err     error
}

// NewTask creates an idle task display.
func NewTask(label string) TaskModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	return TaskModel{Spinner: s, Label: label}
}

// Start marks the task running and returns the spinner's first tick.
func (m *TaskModel) Start() tea.Cmd {
	m.Running = true
	m.Done = false
	m.Err = nil
	return m.Spinner.Tick
}

// Finish records the task outcome.
func (m *TaskModel) Finish(err error) {
	m.Running = false
	m.Done = err == nil
	m.Err = err
}

// Reset clears the task state.
func (m *TaskModel) Reset() {
	m.Running = false
	m.Done = false
	m.Err = nil
}

// Update advances the spinner while the task runs.
func (m TaskModel) Update(msg tea.Msg) (TaskModel, tea.Cmd) {
	if !m.Running {
		return m, nil
	}
	var cmd tea.Cmd
	m.Spinner, cmd = m.Spinner.Update(msg)
	return m, cmd
}

// View renders the task state; idle renders nothing.
func (m TaskModel) View() string {
	switch {
	case m.Running:
		return m.Spinner.View() + " " + m.Label + theme.SymbolEllipsis
	case m.Err != nil:
		return uxerror.Humanize(m.Err).View()
	case m.Done:
		return theme.TextSuccess.Render(theme.SymbolSuccess + " " + m.Label + " done")
	}
	return ""
}
