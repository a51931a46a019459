package cache

import (
	"context"
	"testing"

	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory(t *testing.T) {
	t.Run("no redis configured gives in-memory stores", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{})
		client, err := f.Connect(context.Background())
		require.NoError(t, err)
		assert.Nil(t, client)

		store := f.IdempotencyStore()
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		assert.IsType(t, &InMemoryRateCache{}, f.RateCache())
	})

	t.Run("injected client gives redis stores", func(t *testing.T) {
		client, _ := redismock.NewClientMock()
		f := NewFactory(config.RedisConfig{Host: "cache", Port: 6379}, WithClient(client))
		got, err := f.Connect(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)

		assert.IsType(t, &RedisIdempotencyStore{}, f.IdempotencyStore())
		assert.IsType(t, &RedisRateCache{}, f.RateCache())
	})
}
