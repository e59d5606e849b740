package onboarding

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bloop/internal/adapter/tui/components/wizard"
	"bloop/internal/adapter/tui/theme"
	"bloop/internal/adapter/tui/uxerror"
	"bloop/internal/domain"
	"bloop/internal/usecase/onboarding"
)

// githubConnectView links the remote account with a pasted token. An empty
// submit declines and skips repository selection.
type githubConnectView struct {
	env   *env
	field wizard.FormFieldModel
	task  wizard.TaskModel
}

func (v *githubConnectView) Enter(s *onboarding.Session) tea.Cmd {
	v.field = wizard.NewSecretField("token", "GitHub access token", "ghp_...")
	v.field.Description = "Leave empty to skip. Create one at https://github.com/settings/tokens"
	v.task = wizard.NewTask("Connecting to GitHub")
	if s.Capabilities().RemoteAccountConnected {
		v.field.Blur()
		return nil
	}
	return v.field.Focus()
}

func (v *githubConnectView) Update(msg tea.Msg, s *onboarding.Session) (domain.Transition, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.task.Running {
			return domain.StayPut(), nil
		}
		switch msg.Type {
		case tea.KeyEsc:
			return onboarding.BackFrom(domain.StepGithubConnect, s.Capabilities()), nil
		case tea.KeyRunes, tea.KeyBackspace:
			v.field.ClearError()
		case tea.KeyEnter:
			if s.Capabilities().RemoteAccountConnected {
				return onboarding.NextFrom(domain.StepGithubConnect, false), nil
			}
		}

	case wizard.FieldSubmitMsg:
		if msg.Value == "" {
			return onboarding.NextFrom(domain.StepGithubConnect, true), nil
		}
		v.field.Blur()
		return domain.StayPut(), tea.Batch(
			v.task.Start(),
			connectCmd(v.env.ctx, v.env.timeout, s.Remote, msg.Value),
		)

	case ConnectResultMsg:
		v.task.Finish(msg.Err)
		if msg.Err != nil {
			v.env.logger.Warn("remote connect failed", "session", s.ID,
				"code", domain.ErrorCodeOf(msg.Err), "error", msg.Err)
			fe := uxerror.Humanize(msg.Err)
			v.task.Reset()
			v.field.SetValue("")
			v.field.SetError(fe.Title + ": " + fe.Message)
			return domain.StayPut(), v.field.Focus()
		}
		s.Token = msg.Token
		s.Profile.RemoteAccount = msg.Account
		v.env.publish(domain.EventRemoteConnected, s.ID, domain.RemoteLink{Provider: "github", Account: msg.Account})
		return onboarding.NextFrom(domain.StepGithubConnect, false), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.task, cmd = v.task.Update(msg)
		return domain.StayPut(), cmd
	}

	if s.Capabilities().RemoteAccountConnected {
		return domain.StayPut(), nil
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return domain.StayPut(), cmd
}

func (v *githubConnectView) View() string {
	parts := []string{theme.Bold.Render("Connect GitHub"), ""}
	if v.task.Done {
		parts = append(parts, v.task.View(), "", theme.TextInfo.Render("Press Enter to continue"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	parts = append(parts, v.field.View())
	if task := v.task.View(); task != "" {
		parts = append(parts, "", task)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// githubReposView picks which remote repositories to index. Back skips the
// connect step.
type githubReposView struct {
	env    *env
	task   wizard.TaskModel
	list   wizard.ChecklistModel
	loaded bool
}

func (v *githubReposView) Enter(s *onboarding.Session) tea.Cmd {
	v.task = wizard.NewTask("Fetching repositories")
	v.loaded = false
	return tea.Batch(v.task.Start(), reposCmd(v.env.ctx, v.env.timeout, s.Remote))
}

func (v *githubReposView) resize() { v.list.SetHeight(v.env.listHeight()) }

func (v *githubReposView) Update(msg tea.Msg, s *onboarding.Session) (domain.Transition, tea.Cmd) {
	switch msg := msg.(type) {
	case ReposResultMsg:
		v.task.Finish(msg.Err)
		if msg.Err != nil {
			v.env.logger.Warn("remote repos fetch failed", "session", s.ID,
				"code", domain.ErrorCodeOf(msg.Err), "error", msg.Err)
		} else {
			v.list = wizard.NewChecklist("remote_repos", "Repositories to index", msg.Repos)
			v.list.SetHeight(v.env.listHeight())
			v.list.Select(s.Profile.RemoteRepos...)
			v.loaded = true
		}
		return domain.StayPut(), nil

	case wizard.ChecklistSubmitMsg:
		s.Profile.RemoteRepos = msg.Selected
		return onboarding.NextFrom(domain.StepGithubReposSelect, false), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.task, cmd = v.task.Update(msg)
		return domain.StayPut(), cmd

	case tea.KeyMsg:
		if v.task.Running {
			return domain.StayPut(), nil
		}
		if msg.Type == tea.KeyEsc {
			return onboarding.BackFrom(domain.StepGithubReposSelect, s.Capabilities()), nil
		}
		if !v.loaded {
			if msg.Type == tea.KeyEnter {
				return onboarding.NextFrom(domain.StepGithubReposSelect, false), nil
			}
			return domain.StayPut(), nil
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return domain.StayPut(), cmd
	}
	return domain.StayPut(), nil
}

func (v *githubReposView) View() string {
	parts := []string{theme.Bold.Render("GitHub repositories"), ""}
	switch {
	case v.loaded:
		parts = append(parts, v.list.View(), "",
			theme.TextMuted.Render("Space to toggle, a for all, Enter to confirm"))
	case v.task.Err != nil:
		parts = append(parts, v.task.View(), "",
			theme.TextInfo.Render("Press Enter to continue without remote repositories"))
	default:
		parts = append(parts, v.task.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
