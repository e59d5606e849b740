// Package onboarding hosts the first-run wizard in Bubble Tea. The model
// resolves the current step on every cursor move and delegates input to
// that step's view.
package onboarding

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bloop/internal/adapter/tui/components"
	"bloop/internal/adapter/tui/components/wizard"
	"bloop/internal/adapter/tui/theme"
	"bloop/internal/domain"
	"bloop/internal/usecase/onboarding"
)

const defaultHookTimeout = 15 * time.Second

// Options configures the wizard model.
type Options struct {
	Session     *onboarding.Session
	Events      domain.EventPublisher
	Logger      *slog.Logger
	ClampCursor bool
	HookTimeout time.Duration
	// OnFinish runs once when onboarding completes, before the program quits.
	OnFinish func()
}

// runState is shared by every copy of the model.
type runState struct {
	once      sync.Once
	onFinish  func()
	finished  bool
	cancelled bool
}

func (r *runState) finish() {
	r.once.Do(func() {
		r.finished = true
		if r.onFinish != nil {
			r.onFinish()
		}
	})
}

// Model is the root Bubble Tea model for onboarding.
type Model struct {
	session *onboarding.Session
	seq     *onboarding.Sequencer
	env     *env
	state   *runState

	view     StepView
	viewStep domain.Step
	steps    wizard.StepIndicatorModel

	width int
}

// New creates the wizard model positioned at the first step.
func New(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HookTimeout <= 0 {
		opts.HookTimeout = defaultHookTimeout
	}
	state := &runState{onFinish: opts.OnFinish}
	e := &env{
		ctx:     ctx,
		timeout: opts.HookTimeout,
		events:  opts.Events,
		logger:  opts.Logger,
	}
	seq := opts.Session.NewSequencer(onboarding.Options{
		OnFinish:    state.finish,
		ClampCursor: opts.ClampCursor,
		Logger:      opts.Logger,
		Events:      opts.Events,
	})

	m := Model{
		session:  opts.Session,
		seq:      seq,
		env:      e,
		state:    state,
		viewStep: domain.StepNone,
		steps:    wizard.NewStepIndicator(stepLabels),
	}
	m.resolve()
	return m
}

// Session returns the session the wizard fills in.
func (m Model) Session() *onboarding.Session { return m.session }

// Sequencer returns the wizard's sequencer.
func (m Model) Sequencer() *onboarding.Sequencer { return m.seq }

// Finished reports whether onboarding completed.
func (m Model) Finished() bool { return m.state.finished }

// Cancelled reports whether the user quit before completing.
func (m Model) Cancelled() bool { return m.state.cancelled }

// Init announces the run and enters the first step.
func (m Model) Init() tea.Cmd {
	m.env.publish(domain.EventOnboardingStarted, m.session.ID, m.session.Capabilities())
	if m.view == nil {
		return nil
	}
	return m.view.Enter(m.session)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.env.width = msg.Width
		m.env.height = msg.Height
		m.steps.SetWidth(m.width - 4)
		if r, ok := m.view.(resizer); ok {
			r.resize()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.cancel()
		}
	}

	if m.view == nil || m.state.finished || m.state.cancelled {
		return m, nil
	}
	t, cmd := m.view.Update(msg, m.session)

	// A link changes the capability flags under the current cursor.
	if res, ok := msg.(ConnectResultMsg); ok && res.Err == nil {
		m.seq.Recheck(m.env.ctx)
	}

	if t.IsStay() {
		if m.state.finished {
			return m, tea.Quit
		}
		return m, cmd
	}
	return m.apply(t, cmd)
}

func (m Model) apply(t domain.Transition, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if err := m.seq.Apply(m.env.ctx, t); err != nil {
		m.env.logger.Error("transition rejected", "session", m.session.ID, "transition", t.String(),
			"code", domain.ErrorCodeOf(err), "error", err)
		return m, cmd
	}
	if m.state.finished {
		m.view = nil
		return m, tea.Quit
	}
	if m.resolve() && m.view != nil {
		return m, tea.Batch(cmd, m.view.Enter(m.session))
	}
	return m, cmd
}

// resolve swaps in the view for the step under the cursor. It reports
// whether the view changed.
func (m *Model) resolve() bool {
	step, ok := m.seq.Current()
	if ok && step == m.viewStep && m.view != nil {
		return false
	}
	m.viewStep = step
	if !ok {
		m.view = nil
		return true
	}
	m.view = newView(step, m.env)
	if step.Valid() {
		m.steps.SetCurrent(step.Index())
	}
	return true
}

func (m Model) cancel() (tea.Model, tea.Cmd) {
	if !m.state.finished && !m.state.cancelled {
		m.state.cancelled = true
		m.env.publish(domain.EventOnboardingCancelled, m.session.ID, domain.StepChange{
			From: m.seq.Cursor(),
			To:   m.seq.Cursor(),
			Step: m.viewStep.String(),
		})
		m.env.logger.Info("onboarding cancelled", "session", m.session.ID, "step", m.viewStep.String())
	}
	return m, tea.Quit
}

// View renders the current step. Cursors that resolve to no step, and
// FINISHED, render nothing.
func (m Model) View() string {
	if m.view == nil || m.state.finished {
		return ""
	}
	if m.width == 0 {
		return "  Initializing..."
	}

	title := theme.WizardTitle.Render("bloop setup")
	var header string
	if m.viewStep.Valid() {
		header = m.steps.View()
	}

	sb := components.NewStatusBar(
		components.KeyHint{Key: "Enter", Desc: "Continue"},
		components.KeyHint{Key: "Esc", Desc: "Back"},
		components.KeyHint{Key: "Ctrl+C", Desc: "Quit"},
	)
	sb.Session = m.session.ID
	sb.Step = m.viewStep.String()
	sb.SetWidth(m.width)

	content := lipgloss.NewStyle().
		Width(theme.Clamp(m.width-4, 20, theme.MaxContentWidth)).
		Render(m.view.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		header,
		"",
		content,
		"",
		sb.View(),
	)
}
