package onboarding

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bloop/internal/adapter/tui/components/wizard"
	"bloop/internal/adapter/tui/theme"
	"bloop/internal/domain"
	"bloop/internal/usecase/onboarding"
)

// folderSelectView asks for the folder to index. Its back edge depends on
// whether a remote account is connected.
type folderSelectView struct {
	env   *env
	field wizard.FormFieldModel
}

func (v *folderSelectView) Enter(s *onboarding.Session) tea.Cmd {
	v.field = wizard.NewTextField("folder", "Folder to index", "~/code")
	v.field.Description = "bloop looks for git repositories below this folder."
	v.field.Validate = required("Folder")
	v.field.SetValue(s.Profile.IndexFolder)
	return v.field.Focus()
}

func (v *folderSelectView) Update(msg tea.Msg, s *onboarding.Session) (domain.Transition, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return onboarding.BackFrom(domain.StepFolderSelect, s.Capabilities()), nil
		}
	case wizard.FieldSubmitMsg:
		s.Profile.IndexFolder = msg.Value
		return onboarding.NextFrom(domain.StepFolderSelect, false), nil
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return domain.StayPut(), cmd
}

func (v *folderSelectView) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Bold.Render("Local folder"),
		"",
		v.field.View(),
	)
}

// localReposView scans the chosen folder and picks repositories from it.
type localReposView struct {
	env    *env
	task   wizard.TaskModel
	list   wizard.ChecklistModel
	loaded bool
}

func (v *localReposView) Enter(s *onboarding.Session) tea.Cmd {
	v.task = wizard.NewTask("Scanning " + s.Profile.IndexFolder)
	v.loaded = false
	return tea.Batch(v.task.Start(), scanCmd(v.env.ctx, v.env.timeout, s.Scanner, s.Profile.IndexFolder))
}

func (v *localReposView) resize() { v.list.SetHeight(v.env.listHeight()) }

func (v *localReposView) Update(msg tea.Msg, s *onboarding.Session) (domain.Transition, tea.Cmd) {
	switch msg := msg.(type) {
	case ScanResultMsg:
		v.task.Finish(msg.Err)
		if msg.Err != nil {
			v.env.logger.Info("local scan failed", "session", s.ID, "folder", msg.Folder,
				"code", domain.ErrorCodeOf(msg.Err), "error", msg.Err)
			return domain.StayPut(), nil
		}
		paths := make([]string, len(msg.Repos))
		for i, r := range msg.Repos {
			paths[i] = r.Path
		}
		v.list = wizard.NewChecklist("local_repos", "Repositories to index", paths)
		v.list.SetHeight(v.env.listHeight())
		if len(s.Profile.LocalRepos) > 0 {
			v.list.Select(s.Profile.LocalRepos...)
		} else {
			v.list.Select(paths...)
		}
		v.loaded = true
		v.env.publish(domain.EventLocalRepoScanned, s.ID, domain.RepoScan{Folder: msg.Folder, Count: len(paths)})
		return domain.StayPut(), nil

	case wizard.ChecklistSubmitMsg:
		s.Profile.LocalRepos = msg.Selected
		return onboarding.NextFrom(domain.StepLocalReposSelect, false), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.task, cmd = v.task.Update(msg)
		return domain.StayPut(), cmd

	case tea.KeyMsg:
		if v.task.Running {
			return domain.StayPut(), nil
		}
		if msg.Type == tea.KeyEsc {
			return onboarding.BackFrom(domain.StepLocalReposSelect, s.Capabilities()), nil
		}
		if !v.loaded {
			if msg.Type == tea.KeyEnter {
				s.Profile.LocalRepos = nil
				return onboarding.NextFrom(domain.StepLocalReposSelect, false), nil
			}
			return domain.StayPut(), nil
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return domain.StayPut(), cmd
	}
	return domain.StayPut(), nil
}

func (v *localReposView) View() string {
	parts := []string{theme.Bold.Render("Local repositories"), ""}
	switch {
	case v.loaded:
		parts = append(parts, v.list.View(), "",
			theme.TextMuted.Render("Space to toggle, a for all, Enter to finish"))
	case v.task.Err != nil:
		parts = append(parts, v.task.View(), "",
			theme.TextInfo.Render("Esc to pick another folder, Enter to finish without local repositories"))
	default:
		parts = append(parts, v.task.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// selfServeView is the single collapsed step of self-serve deployments.
type selfServeView struct {
	env *env
}

func (v *selfServeView) Enter(*onboarding.Session) tea.Cmd { return nil }

func (v *selfServeView) Update(msg tea.Msg, _ *onboarding.Session) (domain.Transition, tea.Cmd) {
	if isKey(msg, tea.KeyEnter) {
		return onboarding.NextFrom(domain.StepSelfServe, false), nil
	}
	return domain.StayPut(), nil
}

func (v *selfServeView) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Bold.Render("Welcome to bloop"),
		"",
		"This deployment is managed by your organisation.",
		"Repositories and accounts are configured for you.",
		"",
		theme.TextInfo.Render("Press Enter to get started"),
	)
}
