package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultRatePrefix namespaces cached exchange rates in redis
const DefaultRatePrefix = "fintrack:rate:"

// missingRate marks a pair the store has no rate for
const missingRate = "-"

// RateCache stores looked-up rates keyed by pair. A hit may carry the
// missing marker, meaning the pair is known to have no stored rate.
type RateCache interface {
	Get(ctx context.Context, pair string) (value string, hit bool, err error)
	Set(ctx context.Context, pair, value string, ttl time.Duration) error
	Flush(ctx context.Context) error
}

// RedisRateCache keeps rates in redis string keys
type RedisRateCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRateCache creates a redis-backed rate cache
func NewRedisRateCache(client redis.UniversalClient, prefix string) *RedisRateCache {
	if prefix == "" {
		prefix = DefaultRatePrefix
	}
	return &RedisRateCache{client: client, prefix: prefix}
}

// Get reads one pair
func (c *RedisRateCache) Get(ctx context.Context, pair string) (string, bool, error) {
	v, err := c.client.Get(ctx, c.prefix+pair).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cached rate %s: %w", pair, err)
	}
	return v, true, nil
}

// Set writes one pair with a TTL
func (c *RedisRateCache) Set(ctx context.Context, pair, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+pair, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache rate %s: %w", pair, err)
	}
	return nil
}

// Flush removes every cached pair
func (c *RedisRateCache) Flush(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan cached rates: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("flush cached rates: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// InMemoryRateCache is the single-instance rate cache
type InMemoryRateCache struct {
	entries *ttlMap
}

// NewInMemoryRateCache creates an in-process rate cache
func NewInMemoryRateCache() *InMemoryRateCache {
	return &InMemoryRateCache{entries: newTTLMap(time.Minute)}
}

// Get reads one pair
func (c *InMemoryRateCache) Get(_ context.Context, pair string) (string, bool, error) {
	v, ok := c.entries.get(pair)
	return v, ok, nil
}

// Set writes one pair with a TTL
func (c *InMemoryRateCache) Set(_ context.Context, pair, value string, ttl time.Duration) error {
	c.entries.set(pair, value, ttl)
	return nil
}

// Flush removes every cached pair
func (c *InMemoryRateCache) Flush(context.Context) error {
	c.entries.deletePrefix("")
	return nil
}

// Close stops the sweeper
func (c *InMemoryRateCache) Close() error {
	c.entries.close()
	return nil
}

// CachedRateProvider serves FindRate from a cache in front of the rate store.
// Cache failures are logged and the store is read directly.
type CachedRateProvider struct {
	next   exchangerate.RateProvider
	cache  RateCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRateProvider wraps next with cache
func NewCachedRateProvider(next exchangerate.RateProvider, cache RateCache, ttl time.Duration, logger *zap.Logger) *CachedRateProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedRateProvider{next: next, cache: cache, ttl: ttl, logger: logger}
}

// FindRate returns the stored rate of the directed pair
func (p *CachedRateProvider) FindRate(ctx context.Context, from, to valueobject.Currency) (decimal.Decimal, bool, error) {
	pair := exchangerate.PairKey(from, to)

	value, hit, err := p.cache.Get(ctx, pair)
	if err != nil {
		p.logger.Warn("rate cache read failed", zap.String("pair", pair), zap.Error(err))
	} else if hit {
		if value == missingRate {
			return decimal.Zero, false, nil
		}
		if rate, perr := decimal.NewFromString(value); perr == nil {
			return rate, true, nil
		}
		p.logger.Warn("discarding malformed cached rate", zap.String("pair", pair), zap.String("value", value))
	}

	rate, found, err := p.next.FindRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, false, err
	}
	value = missingRate
	if found {
		value = rate.String()
	}
	if err := p.cache.Set(ctx, pair, value, p.ttl); err != nil {
		p.logger.Warn("rate cache write failed", zap.String("pair", pair), zap.Error(err))
	}
	return rate, found, nil
}

// Invalidate drops every cached rate; call it after rates change
func (p *CachedRateProvider) Invalidate(ctx context.Context) error {
	return p.cache.Flush(ctx)
}

var _ exchangerate.RateProvider = (*CachedRateProvider)(nil)
