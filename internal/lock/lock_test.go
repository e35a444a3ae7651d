package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisLockWithClient(client, 30*time.Second), mr
}

func TestAcquireAndRelease(t *testing.T) {
	l, mr := newTestLock(t)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists(lockKey))

	release()
	assert.False(t, mr.Exists(lockKey))
}

func TestAcquireBlocksWhileHeld(t *testing.T) {
	l, _ := newTestLock(t)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, ErrNotAcquired)

	release()

	release2, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}

func TestReleaseIsOwnerChecked(t *testing.T) {
	l, mr := newTestLock(t)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	// Simulate expiry plus re-acquisition by another holder
	mr.Del(lockKey)
	require.NoError(t, mr.Set(lockKey, "other-owner"))

	release()
	val, err := mr.Get(lockKey)
	require.NoError(t, err)
	assert.Equal(t, "other-owner", val)
}

func TestNoopNeverBlocks(t *testing.T) {
	release, err := Noop{}.Acquire(context.Background())
	require.NoError(t, err)
	release()
}
