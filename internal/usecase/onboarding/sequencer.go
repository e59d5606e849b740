package onboarding

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"bloop/internal/domain"
	"bloop/internal/infra/tracer"
)

// Change describes one cursor mutation, delivered to observers.
type Change struct {
	From       int
	To         int
	Step       domain.Step
	Resolved   bool
	Transition domain.Transition
}

// Options configures a Sequencer.
type Options struct {
	// Capabilities is consulted on every resolution and completion check.
	Capabilities func() domain.Capabilities
	// OnFinish is called once, when the cursor first reaches the terminal
	// position for the current capabilities.
	OnFinish func()
	// ClampCursor keeps the cursor within [0, terminal] instead of letting
	// it run off either end of the path.
	ClampCursor bool
	SessionID   string
	Logger      *slog.Logger
	Events      domain.EventPublisher
}

type observer struct {
	id uint64
	fn func(Change)
}

// Sequencer owns the onboarding cursor. It is driven from a single UI
// event loop and is not safe for concurrent use.
type Sequencer struct {
	opts      Options
	cursor    int
	finished  bool
	observers []observer
	nextID    uint64
}

// New creates a Sequencer positioned at DATA_FORM.
func New(opts Options) *Sequencer {
	if opts.Capabilities == nil {
		opts.Capabilities = func() domain.Capabilities { return domain.Capabilities{} }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Sequencer{opts: opts, cursor: domain.StepDataForm.Index()}
}

// Cursor returns the current cursor value.
func (s *Sequencer) Cursor() int { return s.cursor }

// Capabilities returns the capability flags as currently reported.
func (s *Sequencer) Capabilities() domain.Capabilities { return s.opts.Capabilities() }

// Current resolves the cursor against the current capabilities.
func (s *Sequencer) Current() (domain.Step, bool) {
	return Resolve(s.cursor, s.opts.Capabilities())
}

// Finished reports whether the completion signal has fired.
func (s *Sequencer) Finished() bool { return s.finished }

// Advance moves the cursor by +skip. skip is applied as given.
func (s *Sequencer) Advance(ctx context.Context, skip int) {
	s.move(ctx, domain.Transition{Direction: domain.Forward, Skip: skip})
}

// Retreat moves the cursor by -skip. skip is applied as given.
func (s *Sequencer) Retreat(ctx context.Context, skip int) {
	s.move(ctx, domain.Transition{Direction: domain.Backward, Skip: skip})
}

// Apply executes a transition returned by a step view. Forward and
// backward requests must move at least one position.
func (s *Sequencer) Apply(ctx context.Context, t domain.Transition) error {
	if !t.Valid() {
		return domain.NewDomainError("Sequencer.Apply", domain.ErrInvalidTransition,
			fmt.Sprintf("direction %d skip %d", int(t.Direction), t.Skip))
	}
	if t.IsStay() {
		return nil
	}
	s.move(ctx, t)
	return nil
}

// Observe registers fn to be called synchronously after every cursor
// mutation, in registration order. It returns an unsubscribe function.
func (s *Sequencer) Observe(fn func(Change)) func() {
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Recheck re-runs the completion check without moving the cursor. Hosts
// call it when a capability flag changes under a standing cursor.
func (s *Sequencer) Recheck(ctx context.Context) {
	s.checkCompletion(ctx)
}

func (s *Sequencer) move(ctx context.Context, t domain.Transition) {
	ctx, span := tracer.StartSpan(ctx, "onboarding.transition",
		trace.WithAttributes(
			tracer.StringAttr("onboarding.session_id", s.opts.SessionID),
			tracer.StringAttr("onboarding.direction", t.Direction.String()),
			tracer.IntAttr("onboarding.skip", t.Skip),
		))
	defer span.End()

	caps := s.opts.Capabilities()
	from := s.cursor
	to := from + t.Delta()
	if s.opts.ClampCursor {
		to = clamp(to, 0, TerminalCursor(caps))
	}
	s.cursor = to

	step, ok := Resolve(to, caps)
	span.SetAttributes(
		tracer.IntAttr("onboarding.from", from),
		tracer.IntAttr("onboarding.to", to),
		tracer.StringAttr("onboarding.step", step.String()),
		tracer.BoolAttr("onboarding.resolved", ok),
	)

	change := Change{From: from, To: to, Step: step, Resolved: ok, Transition: t}
	for _, o := range append([]observer(nil), s.observers...) {
		o.fn(change)
	}

	eventType := domain.EventStepChanged
	if ok {
		s.opts.Logger.Debug("onboarding step changed",
			"session", s.opts.SessionID, "from", from, "to", to, "step", step.String())
	} else {
		eventType = domain.EventStepUnresolved
		s.opts.Logger.Warn("onboarding cursor resolves to no step",
			"session", s.opts.SessionID, "from", from, "cursor", to)
	}
	s.publish(ctx, domain.NewEvent(eventType, s.opts.SessionID, domain.StepChange{
		From:      from,
		To:        to,
		Step:      step.String(),
		Direction: t.Direction.String(),
		Skip:      t.Skip,
	}))

	s.checkCompletion(ctx)
	tracer.SetOK(span)
}

func (s *Sequencer) checkCompletion(ctx context.Context) {
	if s.finished || !IsTerminal(s.cursor, s.opts.Capabilities()) {
		return
	}
	s.finished = true
	s.opts.Logger.Info("onboarding finished", "session", s.opts.SessionID, "cursor", s.cursor)
	s.publish(ctx, domain.NewEvent(domain.EventOnboardingFinished, s.opts.SessionID, nil))
	if s.opts.OnFinish != nil {
		s.opts.OnFinish()
	}
}

func (s *Sequencer) publish(ctx context.Context, e domain.Event) {
	if s.opts.Events != nil {
		s.opts.Events.Publish(ctx, e)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
