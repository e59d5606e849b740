// Package wizard provides the form, progress and selection widgets the
// onboarding steps are built from.
package wizard

import (
	"fmt"
	"strings"

	"bloop/internal/adapter/tui/theme"
)

// StepIndicatorModel displays progress as "Step 3/7: Connect GitHub", a
// row of markers and a progress bar. Skipped steps keep a pending marker.
type StepIndicatorModel struct {
	Labels  []string
	Current int
	visited map[int]bool
	width   int
}

// NewStepIndicator creates a step indicator for the given step labels.
func NewStepIndicator(labels []string) StepIndicatorModel {
	return StepIndicatorModel{Labels: labels, visited: map[int]bool{}}
}

// SetWidth sets the rendering width.
func (m *StepIndicatorModel) SetWidth(w int) {
	m.width = w
}

// SetCurrent sets the active step index; out-of-range values are ignored.
func (m *StepIndicatorModel) SetCurrent(i int) {
	if i < 0 || i >= len(m.Labels) {
		return
	}
	if m.visited == nil {
		m.visited = map[int]bool{}
	}
	m.visited[m.Current] = true
	m.Current = i
}

// Visited reports whether step i was shown before.
func (m StepIndicatorModel) Visited(i int) bool { return m.visited[i] }

// View renders the indicator.
func (m StepIndicatorModel) View() string {
	if len(m.Labels) == 0 || m.width < 20 {
		return ""
	}

	header := theme.WizardStepActive.Render(
		fmt.Sprintf("Step %d/%d: %s", m.Current+1, len(m.Labels), m.Labels[m.Current]),
	)

	markers := make([]string, len(m.Labels))
	for i := range m.Labels {
		switch {
		case i == m.Current:
			markers[i] = theme.WizardStepActive.Render(theme.SymbolInfo)
		case i < m.Current && m.visited[i]:
			markers[i] = theme.WizardStepDone.Render(theme.SymbolSuccess)
		default:
			markers[i] = theme.WizardStepPending.Render(theme.SymbolUnchecked)
		}
	}

	barWidth := m.width - 10 // leave room for percentage
	if barWidth < 10 {
		barWidth = 10
	}
	pct := float64(m.Current) / float64(len(m.Labels)-1)
	if len(m.Labels) == 1 {
		pct = 1
	}
	filled := theme.Clamp(int(pct*float64(barWidth)), 0, barWidth)

	bar := theme.ProgressFull.Render(strings.Repeat("█", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))
	pctStr := theme.TextMuted.Render(fmt.Sprintf(" %d%%", int(pct*100)))

	return header + "\n" + strings.Join(markers, " ") + "\n" + bar + pctStr
}
