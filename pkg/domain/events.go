package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateEnter   EventType = "state_enter"
	EventStateLeave   EventType = "state_leave"
	EventStepFault    EventType = "step_fault"
	EventReasonerCall EventType = "reasoner_call"
	EventChat         EventType = "chat"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// StateEvent represents entry into or exit from a state.
type StateEvent struct {
	EventBase
	State StateKind `json:"state"`
	// Peer is the state on the other side of the transition.
	Peer StateKind `json:"peer,omitempty"`
}

// FaultEvent is emitted when a step fails and the fault boundary recovers it.
type FaultEvent struct {
	EventBase
	State StateKind `json:"state"`
	Err   error     `json:"-"`
	Panic bool      `json:"panic,omitempty"`
}

// ReasonerEvent describes one round-trip to the reasoner.
type ReasonerEvent struct {
	EventBase
	Topic    Topic         `json:"topic,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// ChatEvent carries the chat payload extracted from a reasoner response.
type ChatEvent struct {
	EventBase
	Message string `json:"message"`
}

// LifecycleHooks defines callbacks for agent observability.
type LifecycleHooks struct {
	OnStateEnter   func(context.Context, *StateEvent)
	OnStateLeave   func(context.Context, *StateEvent)
	OnStepFault    func(context.Context, *FaultEvent)
	OnReasonerCall func(context.Context, *ReasonerEvent)
	OnChat         func(context.Context, *ChatEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStateEnter:   chain(h.OnStateEnter, other.OnStateEnter),
		OnStateLeave:   chain(h.OnStateLeave, other.OnStateLeave),
		OnStepFault:    chain(h.OnStepFault, other.OnStepFault),
		OnReasonerCall: chain(h.OnReasonerCall, other.OnReasonerCall),
		OnChat:         chain(h.OnChat, other.OnChat),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
