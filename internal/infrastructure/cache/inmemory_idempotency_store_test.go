package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	t.Run("first mark wins", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "renewal:2024-06-15", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "renewal:2024-06-15", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)

		processed, err := store.IsProcessed(ctx, "renewal:2024-06-15")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired keys can be marked again", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "short", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "short")
		require.NoError(t, err)
		assert.False(t, processed)

		isNew, err = store.MarkProcessed(ctx, "short", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("exactly one concurrent caller wins", func(t *testing.T) {
		var wins int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := store.MarkProcessed(ctx, "contended", time.Hour); ok {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins)
	})

	t.Run("released keys can be claimed again", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "cron:renewals:2024-06-15", time.Hour)
		require.NoError(t, err)
		require.True(t, isNew)

		require.NoError(t, store.Release(ctx, "cron:renewals:2024-06-15"))
		isNew, err = store.MarkProcessed(ctx, "cron:renewals:2024-06-15", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		s := NewInMemoryIdempotencyStore()
		assert.NoError(t, s.Close())
		assert.NoError(t, s.Close())
	})
}

func TestTTLMap_Sweep(t *testing.T) {
	m := newTTLMap(time.Hour)
	defer m.close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	m.set("a", "1", time.Minute)
	m.set("b", "2", time.Hour)

	now = now.Add(2 * time.Minute)
	m.sweep()

	assert.Equal(t, 1, m.size())
	_, ok := m.get("a")
	assert.False(t, ok)
	v, ok := m.get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}
