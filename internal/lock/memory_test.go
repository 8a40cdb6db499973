package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SerialisesSameKey(t *testing.T) {
	l := NewMemory()
	ctx := context.Background()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, SessionKey("s1"))
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Equal(t, 0, l.held(), "slots are dropped once nobody waits")
}

func TestMemory_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewMemory()
	ctx := context.Background()

	r1, err := l.Acquire(ctx, SessionKey("s1"))
	require.NoError(t, err)
	defer r1()

	ctx2, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	r2, err := l.Acquire(ctx2, SessionKey("s2"))
	require.NoError(t, err)
	r2()
}

func TestMemory_ContextEndsWait(t *testing.T) {
	l := NewMemory()

	release, err := l.Acquire(context.Background(), ActorKey("officer-1"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, ActorKey("officer-1"))
	assert.ErrorIs(t, err, ErrLockBusy)

	release()
	release() // second call is a no-op

	again, err := l.Acquire(context.Background(), ActorKey("officer-1"))
	require.NoError(t, err)
	again()
	assert.Equal(t, 0, l.held())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "session:abc", SessionKey("abc"))
	assert.Equal(t, "actor:abc", ActorKey("abc"))
}
