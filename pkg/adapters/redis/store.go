package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aretw0/spire/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the adapters.
const DefaultPrefix = "spire:"

// farFuture is the index score of entries without expiration (2100-01-01).
const farFuture = 4102444800

// Store implements ports.ScratchStore using Redis.
// Values are stored as JSON; an index ZSET tracks keys and their expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of scratch entries. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key namespace.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis scratch store connected to address.
func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(NewClient(address, password, db), opts...)
}

// NewClient opens a go-redis client. Shared by the store and the chat sink.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// NewFromClient creates a scratch store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(key string) string {
	return s.prefix + "scratch:" + key
}

func (s *Store) indexKey() string {
	return s.prefix + "scratch-index"
}

// Put stores value as JSON under key. Last write wins.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal scratch value %q: %w", key, err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(key), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: key})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save scratch value to redis: %w", err)
	}
	return nil
}

// Get returns the decoded value under key or domain.ErrScratchMiss.
func (s *Store) Get(ctx context.Context, key string) (any, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrScratchMiss
		}
		return nil, fmt.Errorf("failed to get scratch value from redis: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(val), &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scratch value %q: %w", key, err)
	}
	return value, nil
}

// Delete removes key and its index entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(key))
	pipe.ZRem(ctx, s.indexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

// Keys prunes expired index entries and returns the live keys in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired scratch keys: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scratch keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
