package onboarding

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bloop/internal/domain"
	"bloop/internal/usecase/onboarding"
)

// StepView renders one onboarding step. A view never moves the cursor: it
// hands the host a Transition and the sequencer applies it.
type StepView interface {
	// Enter is called when the view becomes current.
	Enter(s *onboarding.Session) tea.Cmd
	// Update handles a message and returns the requested transition.
	Update(msg tea.Msg, s *onboarding.Session) (domain.Transition, tea.Cmd)
	View() string
}

// env is what the step views share with the host.
type env struct {
	ctx     context.Context
	timeout time.Duration
	events  domain.EventPublisher
	logger  *slog.Logger
	width   int
	height  int
}

// Rows a checklist screen spends outside the list itself.
const (
	listChrome        = 14
	minListHeight     = 3
	defaultListHeight = 10
)

// listHeight is how many checklist rows fit the terminal.
func (e *env) listHeight() int {
	if e.height <= 0 {
		return defaultListHeight
	}
	return max(e.height-listChrome, minListHeight)
}

// resizer is implemented by views whose layout follows the terminal size.
type resizer interface {
	resize()
}

func (e *env) publish(t domain.EventType, sessionID string, payload any) {
	if e.events != nil {
		e.events.Publish(e.ctx, domain.NewEvent(t, sessionID, payload))
	}
}

// stepLabels names the ordered path for the step indicator. FINISHED has
// no screen of its own.
var stepLabels = []string{
	"Profile",
	"Features",
	"Remote services",
	"Connect GitHub",
	"GitHub repositories",
	"Folder",
	"Local repositories",
}

// newView returns the view for step, or nil when the step renders nothing.
func newView(step domain.Step, e *env) StepView {
	switch step {
	case domain.StepDataForm:
		return &dataFormView{env: e}
	case domain.StepFeatures:
		return &featuresView{env: e}
	case domain.StepRemoteServices:
		return &remoteServicesView{env: e}
	case domain.StepGithubConnect:
		return &githubConnectView{env: e}
	case domain.StepGithubReposSelect:
		return &githubReposView{env: e}
	case domain.StepFolderSelect:
		return &folderSelectView{env: e}
	case domain.StepLocalReposSelect:
		return &localReposView{env: e}
	case domain.StepSelfServe:
		return &selfServeView{env: e}
	}
	return nil
}

func isKey(msg tea.Msg, t tea.KeyType) bool {
	k, ok := msg.(tea.KeyMsg)
	return ok && k.Type == t
}

func required(field string) func(string) string {
	return func(v string) string {
		if v == "" {
			return field + " is required"
		}
		return ""
	}
}
