package cache

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed keys in process memory. Scheduler
// runs on other instances will not see them.
type InMemoryIdempotencyStore struct {
	keys *ttlMap
}

// NewInMemoryIdempotencyStore creates a store that sweeps expired keys every five minutes
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{keys: newTTLMap(5 * time.Minute)}
}

// MarkProcessed records key and reports whether it was not already recorded
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return s.keys.setIfAbsent(key, "1", ttl), nil
}

// IsProcessed reports whether key is recorded and unexpired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	_, ok := s.keys.get(key)
	return ok, nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.keys.delete(key)
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.keys.close()
	return nil
}

// Size returns the number of stored keys, expired ones included until swept
func (s *InMemoryIdempotencyStore) Size() int {
	return s.keys.size()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
