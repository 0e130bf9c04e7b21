// Package store implements the collection store contract shared by every
// domain module: fetch/create/update/remove against the remote API with a
// locally cached copy of the last-known collection. Instances are dependency
// injected; there are no package-level singletons.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// Source is the remote API surface a store drives. T is the entity type and
// P the create/update payload type.
type Source[T, P any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, payload P) (T, error)
	Update(ctx context.Context, id int64, payload P) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Result is what every mutating operation returns. Err carries a
// human-readable message; structured error codes are not modelled.
type Result[T any] struct {
	OK     bool
	Entity T
	Err    string
}

// Store caches the last fetched collection and re-fetches it after every
// successful mutation. Consistency with the server always wins over latency;
// there is no client-side merge.
type Store[T, P any] struct {
	source Source[T, P]
	cache  *redis.Client
	key    string
	ttl    time.Duration

	mu      sync.RWMutex
	items   []T
	loading bool
	err     string
}

// New constructs a store. cache may be nil; the redis snapshot only lets a
// freshly started process render the previous collection while revalidating.
func New[T, P any](source Source[T, P], cache *redis.Client, key string, ttl time.Duration) *Store[T, P] {
	return &Store[T, P]{source: source, cache: cache, key: key, ttl: ttl}
}

// FetchAll retrieves the full collection from the remote API and replaces the
// cached copy. On failure the previous copy is kept and Err is set.
func (s *Store[T, P]) FetchAll(ctx context.Context) ([]T, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	items, err := s.source.List(ctx)
	if err != nil {
		s.setErr(shared.UserSafeMessage(err))
		return nil, err
	}

	s.mu.Lock()
	s.items = items
	s.err = ""
	s.mu.Unlock()

	s.snapshot(ctx, items)
	return items, nil
}

// Get fetches a single entity by ID, bypassing the collection cache.
func (s *Store[T, P]) Get(ctx context.Context, id int64) (T, error) {
	return s.source.Get(ctx, id)
}

// Items returns the last fetched collection.
func (s *Store[T, P]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Loading reports whether a fetch is in flight.
func (s *Store[T, P]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failed fetch, empty when healthy.
func (s *Store[T, P]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Create sends a create payload. On success the collection is re-fetched
// exactly once before returning.
func (s *Store[T, P]) Create(ctx context.Context, payload P) Result[T] {
	entity, err := s.source.Create(ctx, payload)
	if err != nil {
		return Result[T]{Err: shared.UserSafeMessage(err)}
	}
	_, _ = s.FetchAll(ctx)
	return Result[T]{OK: true, Entity: entity}
}

// Update sends a full update. Same re-fetch contract as Create.
func (s *Store[T, P]) Update(ctx context.Context, id int64, payload P) Result[T] {
	entity, err := s.source.Update(ctx, id, payload)
	if err != nil {
		return Result[T]{Err: shared.UserSafeMessage(err)}
	}
	_, _ = s.FetchAll(ctx)
	return Result[T]{OK: true, Entity: entity}
}

// Remove deletes an entity. Same re-fetch contract as Create.
func (s *Store[T, P]) Remove(ctx context.Context, id int64) Result[T] {
	if err := s.source.Delete(ctx, id); err != nil {
		return Result[T]{Err: shared.UserSafeMessage(err)}
	}
	_, _ = s.FetchAll(ctx)
	return Result[T]{OK: true}
}

// Warm loads the redis snapshot into memory without hitting the remote API.
// Returns false when no snapshot exists.
func (s *Store[T, P]) Warm(ctx context.Context) bool {
	if s.cache == nil || s.key == "" {
		return false
	}
	data, err := s.cache.Get(ctx, s.redisKey()).Bytes()
	if err != nil {
		return false
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return false
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return true
}

func (s *Store[T, P]) snapshot(ctx context.Context, items []T) {
	if s.cache == nil || s.key == "" {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	// Best effort; a cold cache only costs one extra remote fetch.
	if err := s.cache.Set(ctx, s.redisKey(), data, s.ttl).Err(); err != nil && !errors.Is(err, context.Canceled) {
		return
	}
}

func (s *Store[T, P]) redisKey() string {
	return "collection:" + s.key
}

func (s *Store[T, P]) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store[T, P]) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}
