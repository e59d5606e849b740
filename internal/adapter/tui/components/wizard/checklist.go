package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"bloop/internal/adapter/tui/theme"
)

// ChecklistSubmitMsg is sent when the user confirms a checklist.
type ChecklistSubmitMsg struct {
	Key      string
	Selected []string
}

// ChecklistModel is a multi-select list: up/down move, space toggles,
// "a" toggles all, enter confirms.
type ChecklistModel struct {
	Key      string
	Title    string
	Items    []string
	cursor   int
	selected map[int]bool
	height   int
	offset   int
}

// NewChecklist creates a checklist over items with nothing selected.
func NewChecklist(key, title string, items []string) ChecklistModel {
	return ChecklistModel{
		Key:      key,
		Title:    title,
		Items:    items,
		selected: map[int]bool{},
		height:   10,
	}
}

// SetHeight sets how many items are visible at once, keeping the cursor
// inside the visible window.
func (m *ChecklistModel) SetHeight(h int) {
	if h > 0 {
		m.height = h
		m.scroll()
	}
}

// Select marks the named items as selected.
func (m *ChecklistModel) Select(names ...string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for i, item := range m.Items {
		if want[item] {
			m.selected[i] = true
		}
	}
}

// Cursor returns the highlighted index.
func (m ChecklistModel) Cursor() int { return m.cursor }

// Selected returns the selected items in list order.
func (m ChecklistModel) Selected() []string {
	var out []string
	for i, item := range m.Items {
		if m.selected[i] {
			out = append(out, item)
		}
	}
	return out
}

// Update handles navigation and selection keys.
func (m ChecklistModel) Update(msg tea.Msg) (ChecklistModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || (len(m.Items) == 0 && keyMsg.Type != tea.KeyEnter) {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.Items)-1 {
			m.cursor++
		}
	case " ", "x":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := len(m.Selected()) < len(m.Items)
		for i := range m.Items {
			m.selected[i] = all
		}
	case "enter":
		key, selected := m.Key, m.Selected()
		return m, func() tea.Msg {
			return ChecklistSubmitMsg{Key: key, Selected: selected}
		}
	}

	m.scroll()
	return m, nil
}

func (m *ChecklistModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// View renders the visible window of the list.
func (m ChecklistModel) View() string {
	var sb strings.Builder
	if m.Title != "" {
		sb.WriteString(theme.Bold.Render(m.Title))
		sb.WriteString("\n")
	}
	if len(m.Items) == 0 {
		sb.WriteString(theme.TextMuted.Render("  (nothing to select)"))
		return sb.String()
	}

	end := min(m.offset+m.height, len(m.Items))
	for i := m.offset; i < end; i++ {
		pointer := "  "
		if i == m.cursor {
			pointer = theme.ChecklistCursor.Render(theme.SymbolCursor) + " "
		}
		box := theme.SymbolUnchecked
		label := m.Items[i]
		if m.selected[i] {
			box = theme.SymbolChecked
			label = theme.ChecklistSelected.Render(label)
		}
		sb.WriteString(pointer + box + " " + label + "\n")
	}
	if len(m.Items) > m.height {
		sb.WriteString(theme.TextMuted.Render(
			fmt.Sprintf("  %d/%d selected", len(m.Selected()), len(m.Items))))
	}
	return strings.TrimRight(sb.String(), "\n")
}
