package wizard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bloop/internal/adapter/tui/theme"
)

// FieldSubmitMsg is sent when a form field value is submitted.
type FieldSubmitMsg struct {
	Key   string
	Value string
}

// FormFieldModel wraps a textinput for wizard forms (text, secret, confirm).
type FormFieldModel struct {
	Input       textinput.Model
	Key         string // identifies the field in FieldSubmitMsg
	Label       string
	Description string
	IsSecret    bool
	IsConfirm   bool // y/n field
	DefaultYes  bool
	ErrMsg      string
	// Validate, when set, runs on submit; a non-empty result blocks it.
	Validate func(string) string
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.Width = width
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	return ti
}

// NewTextField creates a text input field.
func NewTextField(key, label, placeholder string) FormFieldModel {
	return FormFieldModel{Input: newInput(placeholder, 50), Key: key, Label: label}
}

// NewSecretField creates a secret (password) input field.
func NewSecretField(key, label, placeholder string) FormFieldModel {
	ti := newInput(placeholder, 50)
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return FormFieldModel{Input: ti, Key: key, Label: label, IsSecret: true}
}

// NewConfirmField creates a yes/no confirmation field.
func NewConfirmField(key, label string, defaultYes bool) FormFieldModel {
	placeholder := "y/N"
	if defaultYes {
		placeholder = "Y/n"
	}
	ti := newInput(placeholder, 10)
	ti.CharLimit = 3
	return FormFieldModel{Input: ti, Key: key, Label: label, IsConfirm: true, DefaultYes: defaultYes}
}

// SetValue replaces the input content.
func (m *FormFieldModel) SetValue(v string) {
	m.Input.SetValue(v)
	m.Input.CursorEnd()
}

// Focus gives the field keyboard focus.
func (m *FormFieldModel) Focus() tea.Cmd { return m.Input.Focus() }

// Blur removes keyboard focus.
func (m *FormFieldModel) Blur() { m.Input.Blur() }

// SetError displays a validation error message.
func (m *FormFieldModel) SetError(msg string) {
	m.ErrMsg = msg
}

// ClearError clears the validation error.
func (m *FormFieldModel) ClearError() {
	m.ErrMsg = ""
}

// Value returns the current input value.
func (m FormFieldModel) Value() string {
	return strings.TrimSpace(m.Input.Value())
}

// ConfirmValue interprets the input as a boolean, falling back to the
// field's default when empty.
func (m FormFieldModel) ConfirmValue() bool {
	v := strings.ToLower(m.Value())
	if v == "" {
		return m.DefaultYes
	}
	return v == "y" || v == "yes"
}

// Update handles input events. Enter validates and emits FieldSubmitMsg.
func (m FormFieldModel) Update(msg tea.Msg) (FormFieldModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		value := m.Value()
		if m.Validate != nil {
			if problem := m.Validate(value); problem != "" {
				m.ErrMsg = problem
				return m, nil
			}
		}
		m.ErrMsg = ""
		key := m.Key
		return m, func() tea.Msg {
			return FieldSubmitMsg{Key: key, Value: value}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// View renders the form field.
func (m FormFieldModel) View() string {
	parts := []string{theme.Bold.Render(m.Label)}
	if m.Description != "" {
		parts = append(parts, theme.TextMuted.Render(m.Description))
	}
	parts = append(parts, m.Input.View())
	if m.ErrMsg != "" {
		parts = append(parts, theme.TextError.Render(theme.SymbolError+" "+m.ErrMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
