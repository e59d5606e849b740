package domain

import (
	"context"
	"encoding/json"
	"time"
)

// EventType identifies the kind of event being published.
type EventType string

const (
	EventOnboardingStarted   EventType = "onboarding.started"
	EventStepChanged         EventType = "onboarding.step.changed"
	EventStepUnresolved      EventType = "onboarding.step.unresolved"
	EventOnboardingFinished  EventType = "onboarding.finished"
	EventOnboardingCancelled EventType = "onboarding.cancelled"

	EventRemoteConnected  EventType = "remote.connected"
	EventLocalRepoScanned EventType = "localrepo.scanned"
)

// Event is the envelope published on the event bus.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"session_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// EventHandler processes an event.
type EventHandler func(ctx context.Context, event Event)

// EventPublisher is the publishing side of the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// StepChange is the payload of step.changed and step.unresolved events.
type StepChange struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	Step      string `json:"step"`
	Direction string `json:"direction"`
	Skip      int    `json:"skip"`
}

// NewEvent builds an Event with a JSON-encoded payload. A payload that
// cannot be encoded is dropped.
func NewEvent(t EventType, sessionID string, payload any) Event {
	e := Event{Type: t, Timestamp: time.Now(), SessionID: sessionID}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			e.Payload = data
		}
	}
	return e
}

// RemoteLink is the payload of remote.connected events.
type RemoteLink struct {
	Provider string `json:"provider"`
	Account  string `json:"account"`
}

// RepoScan is the payload of localrepo.scanned events.
type RepoScan struct {
	Folder string `json:"folder"`
	Count  int    `json:"count"`
}
