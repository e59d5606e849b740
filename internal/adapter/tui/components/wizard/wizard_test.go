package wizard

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloop/internal/domain"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeInto(f FormFieldModel, s string) FormFieldModel {
	for _, r := range s {
		f, _ = f.Update(runes(string(r)))
	}
	return f
}

func TestFormFieldSubmit(t *testing.T) {
	f := NewTextField("name", "Your name", "Ada")
	f = typeInto(f, " Ada ")

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, FieldSubmitMsg{Key: "name", Value: "Ada"}, cmd())
	assert.Empty(t, f.ErrMsg)
}

func TestFormFieldValidateBlocksSubmit(t *testing.T) {
	f := NewTextField("email", "Email", "")
	f.Validate = func(v string) string {
		if !strings.Contains(v, "@") {
			return "enter an email address"
		}
		return ""
	}
	f = typeInto(f, "nope")

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "enter an email address", f.ErrMsg)
	assert.Contains(t, f.View(), "enter an email address")

	f = typeInto(f, "@x.io")
	f, cmd = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, f.ErrMsg)
}

func TestConfirmField(t *testing.T) {
	yes := NewConfirmField("c", "Continue?", true)
	assert.True(t, yes.ConfirmValue())
	assert.Contains(t, yes.View(), "Y/n")

	no := NewConfirmField("c", "Continue?", false)
	assert.False(t, no.ConfirmValue())
	no = typeInto(no, "y")
	assert.True(t, no.ConfirmValue())

	yes.SetValue("no")
	assert.False(t, yes.ConfirmValue())
}

func TestSecretFieldMasksInput(t *testing.T) {
	f := NewSecretField("token", "Token", "")
	f = typeInto(f, "ghp_secret")
	assert.True(t, f.IsSecret)
	assert.Equal(t, "ghp_secret", f.Value())
	assert.NotContains(t, f.View(), "ghp_secret")
}

func TestFormFieldFocus(t *testing.T) {
	f := NewTextField("a", "A", "")
	assert.True(t, f.Input.Focused())
	f.Blur()
	assert.False(t, f.Input.Focused())
	f.Focus()
	assert.True(t, f.Input.Focused())
}

func TestStepIndicator(t *testing.T) {
	si := NewStepIndicator([]string{"Profile", "Features", "Remote", "Done"})
	assert.Empty(t, si.View(), "zero width renders nothing")

	si.SetWidth(60)
	assert.Contains(t, si.View(), "Step 1/4: Profile")
	assert.Contains(t, si.View(), " 0%")

	si.SetCurrent(2)
	assert.True(t, si.Visited(0))
	assert.False(t, si.Visited(1))
	assert.Contains(t, si.View(), "Step 3/4: Remote")

	si.SetCurrent(9)
	assert.Equal(t, 2, si.Current)

	si.SetCurrent(3)
	assert.Contains(t, si.View(), "100%")
}

func TestChecklist(t *testing.T) {
	cl := NewChecklist("repos", "Pick repos", []string{"a/one", "b/two", "c/three"})

	cl, _ = cl.Update(tea.KeyMsg{Type: tea.KeySpace})
	cl, _ = cl.Update(tea.KeyMsg{Type: tea.KeyDown})
	cl, _ = cl.Update(tea.KeyMsg{Type: tea.KeyDown})
	cl, _ = cl.Update(runes("x"))
	cl, _ = cl.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, cl.Cursor(), "cursor stops at the last item")
	assert.Equal(t, []string{"a/one", "c/three"}, cl.Selected())

	cl, cmd := cl.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ChecklistSubmitMsg{Key: "repos", Selected: []string{"a/one", "c/three"}}, cmd())
}

func TestChecklistToggleAll(t *testing.T) {
	cl := NewChecklist("k", "", []string{"a", "b"})
	cl, _ = cl.Update(runes("a"))
	assert.Equal(t, []string{"a", "b"}, cl.Selected())
	cl, _ = cl.Update(runes("a"))
	assert.Empty(t, cl.Selected())
}

func TestChecklistPreselectAndScroll(t *testing.T) {
	cl := NewChecklist("k", "", []string{"a", "b", "c", "d"})
	cl.SetHeight(2)
	cl.Select("c", "missing")
	assert.Equal(t, []string{"c"}, cl.Selected())

	for i := 0; i < 3; i++ {
		cl, _ = cl.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	view := cl.View()
	assert.Contains(t, view, "d")
	assert.NotContains(t, view, " a\n")
	assert.Contains(t, view, "1/4 selected")
}

func TestChecklistShrinkKeepsCursorVisible(t *testing.T) {
	cl := NewChecklist("k", "", []string{"alpha", "bravo", "charlie", "delta", "echo"})
	for i := 0; i < 4; i++ {
		cl, _ = cl.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, 4, cl.Cursor())

	cl.SetHeight(2)
	view := cl.View()
	assert.Contains(t, view, "echo")
	assert.Contains(t, view, "delta")
	assert.NotContains(t, view, "charlie")

	cl.SetHeight(0)
	assert.Equal(t, view, cl.View(), "non-positive height is ignored")
}

func TestChecklistEmpty(t *testing.T) {
	cl := NewChecklist("k", "Repos", nil)
	assert.Contains(t, cl.View(), "nothing to select")

	_, cmd := cl.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ChecklistSubmitMsg{Key: "k"}, cmd())
}

func TestTask(t *testing.T) {
	task := NewTask("Scanning")
	assert.Empty(t, task.View())

	cmd := task.Start()
	assert.NotNil(t, cmd)
	assert.Contains(t, task.View(), "Scanning")

	task.Finish(domain.ErrNoRepositories)
	assert.False(t, task.Running)
	assert.Contains(t, task.View(), "No Repositories Found")

	task.Start()
	task.Finish(nil)
	assert.True(t, task.Done)
	assert.Contains(t, task.View(), "Scanning done")

	task.Reset()
	assert.Empty(t, task.View())

	_, cmd = task.Update(errors.New("not a tick"))
	assert.Nil(t, cmd)
}
