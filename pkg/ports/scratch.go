package ports

import "context"

// ScratchStore backs the session's shared scratch space.
// Values must survive a JSON round-trip.
type ScratchStore interface {
	Put(ctx context.Context, key string, value any) error

	// Get returns domain.ErrScratchMiss if key has no value.
	Get(ctx context.Context, key string) (any, error)

	Delete(ctx context.Context, key string) error

	// Keys lists stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)
}
