package onboarding

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"bloop/internal/adapter/tui/components/wizard"
	"bloop/internal/adapter/tui/theme"
	"bloop/internal/domain"
	"bloop/internal/usecase/onboarding"
)

// dataFormView collects name, email and the telemetry opt-in. Esc walks
// back through the fields.
type dataFormView struct {
	env    *env
	fields []wizard.FormFieldModel
	focus  int
}

func (v *dataFormView) Enter(s *onboarding.Session) tea.Cmd {
	name := wizard.NewTextField("name", "What should we call you?", "Ada Lovelace")
	name.Validate = required("Name")
	name.SetValue(s.Profile.Name)

	email := wizard.NewTextField("email", "Email", "ada@example.com")
	email.Validate = required("Email")
	email.SetValue(s.Profile.Email)

	telemetry := wizard.NewConfirmField("telemetry", "Share anonymous usage data?", s.Profile.Telemetry)
	telemetry.Description = "Crash reports and feature counts. No code leaves your machine."

	v.fields = []wizard.FormFieldModel{name, email, telemetry}
	return v.focusField(0)
}

func (v *dataFormView) focusField(i int) tea.Cmd {
	if i < 0 || i >= len(v.fields) {
		return nil
	}
	for j := range v.fields {
		v.fields[j].Blur()
	}
	v.focus = i
	return v.fields[i].Focus()
}

func (v *dataFormView) Update(msg tea.Msg, s *onboarding.Session) (domain.Transition, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if v.focus > 0 {
				return domain.StayPut(), v.focusField(v.focus - 1)
			}
			return onboarding.BackFrom(domain.StepDataForm, s.Capabilities()), nil
		}
	case wizard.FieldSubmitMsg:
		switch msg.Key {
		case "name":
			s.Profile.Name = msg.Value
		case "email":
			s.Profile.Email = msg.Value
		case "telemetry":
			s.Profile.Telemetry = v.fields[v.focus].ConfirmValue()
			return onboarding.NextFrom(domain.StepDataForm, s.SkipFeatures || s.Profile.FeaturesSeen), nil
		}
		return domain.StayPut(), v.focusField(v.focus + 1)
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return domain.StayPut(), cmd
}

func (v *dataFormView) View() string {
	parts := []string{theme.Bold.Render("Tell us about yourself"), ""}
	for i, f := range v.fields {
		if i > v.focus {
			break
		}
		parts = append(parts, f.View(), "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

const featuresTour = `# What bloop does

- **Natural language search** across every repository you index.
- **Code navigation**: jump to definitions and references from results.
- **Conversations** about your code, grounded in the files they cite.

Indexing runs locally. Remote repositories are only synced when you
connect an account in the next steps.
`

// featuresView shows the feature tour once.
type featuresView struct {
	env   *env
	body  string
	width int
}

func (v *featuresView) Enter(*onboarding.Session) tea.Cmd {
	v.body = ""
	return nil
}

func (v *featuresView) Update(msg tea.Msg, s *onboarding.Session) (domain.Transition, tea.Cmd) {
	switch {
	case isKey(msg, tea.KeyEnter):
		s.Profile.FeaturesSeen = true
		return onboarding.NextFrom(domain.StepFeatures, false), nil
	case isKey(msg, tea.KeyEsc):
		return onboarding.BackFrom(domain.StepFeatures, s.Capabilities()), nil
	}
	return domain.StayPut(), nil
}

func (v *featuresView) View() string {
	width := theme.Clamp(v.env.width-4, 20, theme.MaxContentWidth)
	if v.body == "" || v.width != width {
		v.body = renderMarkdown(featuresTour, width)
		v.width = width
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.TrimRight(v.body, "\n"),
		"",
		theme.TextInfo.Render("Press Enter to continue"),
	)
}

func renderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// remoteServicesView asks whether remote services should be enabled.
// Either answer moves on; GITHUB_CONNECT offers its own skip.
type remoteServicesView struct {
	env   *env
	field wizard.FormFieldModel
}

func (v *remoteServicesView) Enter(s *onboarding.Session) tea.Cmd {
	v.field = wizard.NewConfirmField("remote_services", "Enable remote services?", true)
	v.field.Description = "Sync GitHub repositories and share search across machines."
	return v.field.Focus()
}

func (v *remoteServicesView) Update(msg tea.Msg, s *onboarding.Session) (domain.Transition, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return onboarding.BackFrom(domain.StepRemoteServices, s.Capabilities()), nil
		}
	case wizard.FieldSubmitMsg:
		s.Profile.RemoteServices = v.field.ConfirmValue()
		return onboarding.NextFrom(domain.StepRemoteServices, false), nil
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return domain.StayPut(), cmd
}

func (v *remoteServicesView) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Bold.Render("Remote services"),
		"",
		v.field.View(),
	)
}
