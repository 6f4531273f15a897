package ports

import (
	"context"

	"github.com/aretw0/spire/pkg/domain"
)

// Reasoner is the external decision-making service.
type Reasoner interface {
	// Generate sends prompt after history and returns the raw response text.
	Generate(ctx context.Context, prompt string, history []domain.Message) (string, error)
}

// ChatSink receives the chat payload extracted from reasoner responses.
type ChatSink interface {
	Say(ctx context.Context, message string) error
}
