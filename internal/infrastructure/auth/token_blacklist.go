package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultBlacklistPrefix namespaces revocation keys in redis
const DefaultBlacklistPrefix = "fintrack:revoked:"

// TokenBlacklist revokes JWTs before they expire. Single tokens are revoked
// by JTI on logout and refresh; RevokeUser cuts off every token a user holds
// after a password change.
type TokenBlacklist interface {
	// Revoke blocks jti for ttl, normally the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	// IssuedBeforeRevocation compares at second precision, so tokens from the
	// revoking second itself survive
	IssuedBeforeRevocation(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// RedisTokenBlacklist shares revocations between instances
type RedisTokenBlacklist struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisTokenBlacklist uses DefaultBlacklistPrefix when prefix is empty
func NewRedisTokenBlacklist(client redis.UniversalClient, prefix string) *RedisTokenBlacklist {
	if prefix == "" {
		prefix = DefaultBlacklistPrefix
	}
	return &RedisTokenBlacklist{client: client, prefix: prefix, now: time.Now}
}

func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.prefix+"jti:"+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.prefix+"user:"+userID, b.now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IssuedBeforeRevocation(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	revokedAt, err := b.client.Get(ctx, b.prefix+"user:"+userID).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check user revocation: %w", err)
	}
	return issuedAt.Unix() < revokedAt, nil
}

// InMemoryTokenBlacklist serves a single instance without redis
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	expires map[string]time.Time // jti -> end of revocation
	users   map[string]int64     // userID -> unix second of revocation
	now     func() time.Time
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		expires: map[string]time.Time{},
		users:   map[string]int64{},
		now:     time.Now,
	}
}

func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	b.expires[jti] = b.now().Add(ttl)
	b.mu.Unlock()
	return nil
}

// IsRevoked evicts the entry once its revocation has lapsed
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.expires[jti]
	if !ok {
		return false, nil
	}
	if !b.now().Before(until) {
		delete(b.expires, jti)
		return false, nil
	}
	return true, nil
}

func (b *InMemoryTokenBlacklist) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	b.users[userID] = b.now().Unix()
	b.mu.Unlock()
	return nil
}

func (b *InMemoryTokenBlacklist) IssuedBeforeRevocation(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	revokedAt, ok := b.users[userID]
	return ok && issuedAt.Unix() < revokedAt, nil
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
)
