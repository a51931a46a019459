package shared

import (
	"context"
	"time"
)

// IdempotencyStore records keys that were already acted on: event IDs,
// scheduler run dates and notification dedupe keys
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl. It reports false when the key was
	// already claimed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Release drops a claim so the key can be marked again
	Release(ctx context.Context, key string) error
	Close() error
}

// IdempotencyConfig controls duplicate suppression of event handlers
type IdempotencyConfig struct {
	Enabled bool
	// TTL is how long a processed key is remembered
	TTL time.Duration
}

// DefaultIdempotencyConfig remembers keys for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{Enabled: true, TTL: 24 * time.Hour}
}
