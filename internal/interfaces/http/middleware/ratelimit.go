package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/fintrack/backend/internal/infrastructure/logger"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRateLimitPrefix namespaces rate limit counters in Redis
const DefaultRateLimitPrefix = "fintrack:ratelimit:"

// Limiter counts requests per key inside a fixed window
type Limiter interface {
	// Allow records one request for key and reports whether it fits the
	// window, along with the requests left.
	Allow(ctx context.Context, key string) (remaining int, allowed bool, err error)
	Limit() int
	Window() time.Duration
}

// RateLimiter is an in-memory fixed-window limiter. Expired windows are
// swept lazily while holding the lock, so there is no background goroutine.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	count     int
	lastReset time.Time
}

// NewRateLimiter creates a new in-memory rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Limit returns the requests allowed per window
func (rl *RateLimiter) Limit() int { return rl.limit }

// Window returns the window length
func (rl *RateLimiter) Window() time.Duration { return rl.window }

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(_ context.Context, key string) (int, bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	c, exists := rl.clients[key]
	if !exists || now.Sub(c.lastReset) >= rl.window {
		c = &client{lastReset: now}
		rl.clients[key] = c
	}
	if c.count >= rl.limit {
		return 0, false, nil
	}
	c.count++
	return rl.limit - c.count, true, nil
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window*2 {
		return
	}
	for key, c := range rl.clients {
		if now.Sub(c.lastReset) >= rl.window {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// RedisRateLimiter shares counters across server instances. The first
// request of a window creates the counter and sets its expiry.
type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a Redis-backed limiter
func NewRedisRateLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) *RedisRateLimiter {
	if prefix == "" {
		prefix = DefaultRateLimitPrefix
	}
	return &RedisRateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Limit returns the requests allowed per window
func (rl *RedisRateLimiter) Limit() int { return rl.limit }

// Window returns the window length
func (rl *RedisRateLimiter) Window() time.Duration { return rl.window }

// Allow increments the counter for key
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (int, bool, error) {
	redisKey := rl.prefix + key
	n, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, false, err
	}
	if n == 1 {
		if err := rl.client.PExpire(ctx, redisKey, rl.window).Err(); err != nil {
			return 0, false, err
		}
	}
	if n > int64(rl.limit) {
		return 0, false, nil
	}
	return rl.limit - int(n), true, nil
}

// KeyFunc derives the rate limit key for a request
type KeyFunc func(c *gin.Context) string

// ClientIPKey keys requests by scope and client IP
func ClientIPKey(scope string) KeyFunc {
	return func(c *gin.Context) string {
		return scope + ":" + c.ClientIP()
	}
}

// RateLimit returns a rate limiting middleware. Limiter failures let the
// request through.
func RateLimit(limiter Limiter, keyFunc KeyFunc) gin.HandlerFunc {
	if keyFunc == nil {
		keyFunc = ClientIPKey("global")
	}
	limit := strconv.Itoa(limiter.Limit())
	retryAfter := strconv.Itoa(max(1, int(limiter.Window().Seconds())))

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		remaining, allowed, err := limiter.Allow(ctx, keyFunc(c))
		if err != nil {
			logger.L(ctx).Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.Header("Retry-After", retryAfter)
			abortWithError(c, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
