package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/spire/pkg/domain"
)

// Store implements ports.ScratchStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]any
	mu   sync.RWMutex
}

// NewStore creates a new in-memory scratch store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]any),
	}
}

// Put stores value under key. Last write wins.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Get returns the value under key or domain.ErrScratchMiss.
func (s *Store) Get(ctx context.Context, key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, domain.ErrScratchMiss
	}
	return value, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
