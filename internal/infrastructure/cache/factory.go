package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the redis-backed stores when redis is configured and
// reachable, and in-memory ones otherwise
type Factory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                redis.UniversalClient
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable redis degrades to
// in-memory stores instead of failing startup. Default true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithClient uses an existing client instead of dialing one
func WithClient(client redis.UniversalClient) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect dials redis once. It returns a nil client, and no error, when redis
// is not configured or unreachable with fallback allowed.
func (f *Factory) Connect(ctx context.Context) (redis.UniversalClient, error) {
	if f.client != nil {
		return f.client, nil
	}
	if f.cfg.Addr() == "" {
		f.logger.Info("redis not configured, using in-memory cache and idempotency stores")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     f.cfg.Addr(),
		Password: f.cfg.Password,
		DB:       f.cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("redis unavailable, falling back to in-memory stores; "+
			"scheduled runs may repeat across instances",
			zap.String("addr", f.cfg.Addr()),
			zap.Error(err),
		)
		return nil, nil
	}
	f.logger.Info("connected to redis", zap.String("addr", f.cfg.Addr()))
	f.client = client
	return client, nil
}

// IdempotencyStore returns the redis store when connected, else an in-memory one
func (f *Factory) IdempotencyStore() shared.IdempotencyStore {
	if f.client != nil {
		return NewRedisIdempotencyStore(f.client, DefaultIdempotencyPrefix)
	}
	return NewInMemoryIdempotencyStore()
}

// RateCache returns the redis cache when connected, else an in-memory one
func (f *Factory) RateCache() RateCache {
	if f.client != nil {
		return NewRedisRateCache(f.client, DefaultRatePrefix)
	}
	return NewInMemoryRateCache()
}

// Close closes the redis client if the factory dialed one
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
