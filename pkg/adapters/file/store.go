package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/spire/pkg/domain"
)

// DefaultDir is where scratch entries live when no directory is given.
var DefaultDir = filepath.Join(".spire", "scratch")

const ext = ".json"

// Store implements ports.ScratchStore on the local filesystem, one JSON file per key.
// Entries survive agent restarts.
type Store struct {
	BasePath string

	mu sync.Mutex
}

// New creates a Store under basePath, or DefaultDir when empty.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.BasePath, url.PathEscape(key)+ext)
}

// Put writes value atomically: a synced temp file in the same directory is renamed over the
// entry.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	if key == "" {
		return errors.New("scratch key cannot be empty")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure scratch directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.path(key)
	if err := os.Rename(tmpPath, dest); err != nil {
		// Windows refuses to rename over an existing file.
		if rmErr := os.Remove(dest); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return fmt.Errorf("failed to replace %q: %w", key, err)
		}
		if err := os.Rename(tmpPath, dest); err != nil {
			return fmt.Errorf("failed to replace %q: %w", key, err)
		}
	}
	return nil
}

// Get returns the decoded value under key or domain.ErrScratchMiss.
func (s *Store) Get(ctx context.Context, key string) (any, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path(key))
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrScratchMiss
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %q: %w", key, err)
	}
	return value, nil
}

// Delete removes the entry. A missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in lexical order. A missing directory holds no keys.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	entries, err := os.ReadDir(s.BasePath)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list scratch directory: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "tmp-") || filepath.Ext(name) != ext {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
