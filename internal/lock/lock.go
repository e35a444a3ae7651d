package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes the dataset's write paths. The refresh cycle and every
// checkout transaction run under the same lock so a checkout can never
// observe a half-wiped dataset.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

var ErrNotAcquired = errors.New("write lock not acquired")

const (
	lockKey       = "honeymart:write_lock"
	retryInterval = 100 * time.Millisecond
)

// owner-checked delete, so an expired-and-retaken lock is never released by
// the previous holder
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLock is a cross-process write lock (SET NX EX with an owner token).
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLock(redisURL string, ttl time.Duration) (*RedisLock, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisLock{client: client, ttl: ttl}, nil
}

// NewRedisLockWithClient wraps an existing client (shared pool, tests).
func NewRedisLockWithClient(client *redis.Client, ttl time.Duration) *RedisLock {
	return &RedisLock{client: client, ttl: ttl}
}

// Acquire blocks until the lock is held or ctx is done. The returned release
// func must be called exactly once.
func (l *RedisLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.New().String()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				l.client.Eval(context.Background(), releaseScript, []string{lockKey}, token)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrNotAcquired
		case <-time.After(retryInterval):
		}
	}
}

func (l *RedisLock) Close() error {
	return l.client.Close()
}

// Noop is a Locker that never blocks, for tests and single-writer setups.
type Noop struct{}

func (Noop) Acquire(ctx context.Context) (func(), error) {
	return func() {}, nil
}
