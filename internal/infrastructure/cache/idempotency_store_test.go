package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idempotencyStores(t *testing.T) map[string]shared.IdempotencyStore {
	t.Helper()
	client, _ := setupTestRedis(t)
	inMemory := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = inMemory.Close() })

	return map[string]shared.IdempotencyStore{
		"redis":     NewRedisIdempotencyStore(client, ""),
		"in-memory": inMemory,
	}
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	ctx := context.Background()

	for name, store := range idempotencyStores(t) {
		t.Run(name, func(t *testing.T) {
			result, reserved, err := store.Reserve(ctx, "k1", time.Hour)
			require.NoError(t, err)
			assert.True(t, reserved)
			assert.Empty(t, result)

			// in progress
			result, reserved, err = store.Reserve(ctx, "k1", time.Hour)
			require.NoError(t, err)
			assert.False(t, reserved)
			assert.Empty(t, result)

			require.NoError(t, store.Complete(ctx, "k1", "order-42", time.Hour))
			result, reserved, err = store.Reserve(ctx, "k1", time.Hour)
			require.NoError(t, err)
			assert.False(t, reserved)
			assert.Equal(t, "order-42", result)

			// keys are independent
			_, reserved, err = store.Reserve(ctx, "k2", time.Hour)
			require.NoError(t, err)
			assert.True(t, reserved)
		})
	}
}

func TestIdempotencyStore_Release(t *testing.T) {
	ctx := context.Background()

	for name, store := range idempotencyStores(t) {
		t.Run(name, func(t *testing.T) {
			_, reserved, err := store.Reserve(ctx, "retry", time.Hour)
			require.NoError(t, err)
			require.True(t, reserved)

			require.NoError(t, store.Release(ctx, "retry"))
			require.NoError(t, store.Release(ctx, "never-reserved"))

			_, reserved, err = store.Reserve(ctx, "retry", time.Hour)
			require.NoError(t, err)
			assert.True(t, reserved)
		})
	}
}

func TestIdempotencyStore_SingleWinner(t *testing.T) {
	ctx := context.Background()

	for name, store := range idempotencyStores(t) {
		t.Run(name, func(t *testing.T) {
			var winners atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, reserved, err := store.Reserve(ctx, "race", time.Hour)
					if err == nil && reserved {
						winners.Add(1)
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(1), winners.Load())
		})
	}
}

func TestRedisIdempotencyStore_TTL(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	store := NewRedisIdempotencyStore(client, "test:")

	_, _, err := store.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	require.NoError(t, store.Complete(ctx, "k", "done", 24*time.Hour))
	assert.Equal(t, 24*time.Hour, mr.TTL("test:k"))

	mr.FastForward(25 * time.Hour)
	_, reserved, err := store.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	_, reserved, err := store.Reserve(ctx, "short", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, reserved)

	time.Sleep(20 * time.Millisecond)
	_, reserved, err = store.Reserve(ctx, "short", time.Hour)
	require.NoError(t, err)
	assert.True(t, reserved)

	store.cleanup()
	assert.Equal(t, 1, store.Size())

	// safe to close twice
	require.NoError(t, store.Close())
}
