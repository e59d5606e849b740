package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bloop/internal/adapter/tui/theme"
)

// KeyHint represents a single keybinding hint shown in the status bar.
type KeyHint struct {
	Key  string // e.g. "Enter"
	Desc string // e.g. "Continue"
}

// StatusBarModel renders the wizard's bottom line: key hints on the left,
// session and step on the right.
type StatusBarModel struct {
	Hints   []KeyHint
	Session string
	Step    string
	Extra   string // transient status, e.g. "Scanning…"
	width   int
}

// NewStatusBar creates a status bar with the given hints.
func NewStatusBar(hints ...KeyHint) StatusBarModel {
	return StatusBarModel{Hints: hints}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line.
func (m StatusBarModel) View() string {
	var hints []string
	for _, h := range m.Hints {
		hints = append(hints, theme.StatusKey.Render(h.Key)+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	var parts []string
	if m.Extra != "" {
		parts = append(parts, theme.TextInfo.Render(m.Extra))
	}
	if m.Step != "" {
		parts = append(parts, m.Step)
	}
	if m.Session != "" {
		parts = append(parts, theme.Dim.Render(shortID(m.Session)))
	}
	right := theme.TextMuted.Render(strings.Join(parts, " "+theme.SymbolBullet+" "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// shortID keeps the random tail of a ULID, which is what differs between
// runs started in the same millisecond.
func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
