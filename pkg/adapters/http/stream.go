package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/pkg/domain"
)

// Event is one lifecycle event, already encoded for the wire.
type Event struct {
	Type domain.EventType
	Data string
}

// StreamManager fans lifecycle events out to the active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager. A nil logger discards.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan Event]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new listener. The returned func unregisters it and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast delivers ev to every listener. Slow listeners lose the event.
func (sm *StreamManager) Broadcast(ev Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("SSE client buffer full, dropping event", "type", ev.Type)
		}
	}
}

// Hooks returns lifecycle hooks broadcasting every event as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) { sm.publish(e.Type, e) },
		OnStateLeave: func(_ context.Context, e *domain.StateEvent) { sm.publish(e.Type, e) },
		OnStepFault: func(_ context.Context, e *domain.FaultEvent) {
			sm.publish(e.Type, struct {
				*domain.FaultEvent
				Error string `json:"error,omitempty"`
			}{e, errString(e.Err)})
		},
		OnReasonerCall: func(_ context.Context, e *domain.ReasonerEvent) {
			sm.publish(e.Type, struct {
				*domain.ReasonerEvent
				Error string `json:"error,omitempty"`
			}{e, errString(e.Err)})
		},
		OnChat: func(_ context.Context, e *domain.ChatEvent) { sm.publish(e.Type, e) },
	}
}

func (sm *StreamManager) publish(t domain.EventType, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Warn("event encode failed", "type", t, "err", err)
		return
	}
	sm.Broadcast(Event{Type: t, Data: string(data)})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
