package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"bloop/internal/domain"
)

// Journal keeps the events of one run in arrival order.
type Journal struct {
	mu     sync.Mutex
	events []domain.Event
}

// Handle is a domain.EventHandler that appends to the journal.
func (j *Journal) Handle(_ context.Context, e domain.Event) {
	j.mu.Lock()
	j.events = append(j.events, e)
	j.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (j *Journal) Events() []domain.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.Event(nil), j.events...)
}

// Count returns how many events of type t were recorded.
func (j *Journal) Count(t domain.EventType) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, e := range j.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// LogHandler returns a handler that writes every event to logger at debug
// level, with finish and cancel at info.
func LogHandler(logger *slog.Logger) domain.EventHandler {
	return func(ctx context.Context, e domain.Event) {
		level := slog.LevelDebug
		switch e.Type {
		case domain.EventOnboardingFinished, domain.EventOnboardingCancelled, domain.EventOnboardingStarted:
			level = slog.LevelInfo
		case domain.EventStepUnresolved:
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "event",
			"type", string(e.Type),
			"session", e.SessionID,
			"payload", string(e.Payload),
		)
	}
}
