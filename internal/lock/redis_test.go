package lock

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedis connects to PONTO_TEST_REDIS_ADDR or skips.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("PONTO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PONTO_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedis_ExclusiveAndRelease(t *testing.T) {
	client := newTestRedis(t)
	l := NewRedis(client, time.Second, 50*time.Millisecond)
	ctx := context.Background()
	key := SessionKey(t.Name())

	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key)
	assert.ErrorIs(t, err, ErrLockBusy)

	release()

	again, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	again()
}

func TestRedis_ExpiredHolderCannotReleaseNewOwner(t *testing.T) {
	client := newTestRedis(t)
	l := NewRedis(client, 50*time.Millisecond, 500*time.Millisecond)
	ctx := context.Background()
	key := SessionKey(t.Name())

	stale, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	time.Sleep(80 * time.Millisecond)

	fresh, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	defer fresh()

	stale()
	exists, err := client.Exists(ctx, "ponto:lock:"+key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestRedis_ConcurrentReleaseIsSafe(t *testing.T) {
	client := newTestRedis(t)
	l := NewRedis(client, time.Second, 200*time.Millisecond)
	ctx := context.Background()
	key := SessionKey(t.Name())

	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release()
		}()
	}
	wg.Wait()

	next, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	defer next()

	// A late call from the first holder leaves the new owner in place.
	release()
	exists, err := client.Exists(ctx, "ponto:lock:"+key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}
