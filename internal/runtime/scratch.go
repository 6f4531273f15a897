package runtime

import (
	"context"
	"errors"

	"github.com/aretw0/spire/pkg/domain"
)

// SetShared stores a value that must survive state changes. Last write wins.
func (s *Session) SetShared(ctx context.Context, key string, value any) {
	if err := s.ports.Scratch.Put(ctx, key, value); err != nil {
		s.logger.Warn("scratch write failed", "key", key, "err", err)
	}
}

// Shared returns the value under key, or def when it is missing or unreadable.
func (s *Session) Shared(ctx context.Context, key string, def any) any {
	value, err := s.ports.Scratch.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrScratchMiss) {
			s.logger.Warn("scratch read failed", "key", key, "err", err)
		}
		return def
	}
	return value
}

// Lookup returns the value under key with the store error, domain.ErrScratchMiss when absent.
func (s *Session) Lookup(ctx context.Context, key string) (any, error) {
	return s.ports.Scratch.Get(ctx, key)
}

// SharedKeys lists the keys currently in the scratch space.
func (s *Session) SharedKeys(ctx context.Context) ([]string, error) {
	return s.ports.Scratch.Keys(ctx)
}
