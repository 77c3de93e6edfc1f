package locks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLua deletes the lock key only when it still holds this owner's
// value, so a lock whose lease already expired and was re-acquired by
// another instance is never released by the stale owner.
var releaseLua = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Fallback lock tuning, applied when a configured value is missing or
// non-positive. A lease of zero would create a key with no TTL, and a
// holder that crashes before releasing it would block every future run.
const (
	DefaultExpiry    = 30 * time.Second
	DefaultWaitTime  = 5 * time.Second
	DefaultRetryTime = 1 * time.Second
)

// RedisFactory implements Factory on a single Redis instance using
// SET NX PX with an auto-expiring lease and a compare-and-delete release.
type RedisFactory struct {
	client    *redis.Client
	expiry    time.Duration
	waitTime  time.Duration
	retryTime time.Duration
}

// NewRedisFactory constructs a factory. expiry bounds how long a crashed
// holder can block others, waitTime bounds how long Acquire polls before
// giving up, retryTime is the polling interval. Non-positive values fall
// back to the defaults so every lease is guaranteed to expire.
func NewRedisFactory(client *redis.Client, expiry, waitTime, retryTime time.Duration) *RedisFactory {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if waitTime <= 0 {
		waitTime = DefaultWaitTime
	}
	if retryTime <= 0 {
		retryTime = DefaultRetryTime
	}
	return &RedisFactory{
		client:    client,
		expiry:    expiry,
		waitTime:  waitTime,
		retryTime: retryTime,
	}
}

// Acquire polls SET NX until the lock is obtained or the wait window
// elapses. Context cancellation aborts the wait and propagates.
func (f *RedisFactory) Acquire(ctx context.Context, resource string) (Lock, error) {
	owner := uuid.NewString()
	deadline := time.Now().Add(f.waitTime)

	for {
		ok, err := f.client.SetNX(ctx, resource, owner, f.expiry).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return &redisLock{client: f.client, resource: resource, owner: owner, acquired: true}, nil
		}
		if time.Now().After(deadline) {
			return &redisLock{}, nil
		}

		timer := time.NewTimer(f.retryTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

type redisLock struct {
	client   *redis.Client
	resource string
	owner    string
	acquired bool
}

func (l *redisLock) Acquired() bool { return l.acquired }

func (l *redisLock) Release(ctx context.Context) error {
	if !l.acquired {
		return nil
	}
	l.acquired = false
	err := releaseLua.Run(ctx, l.client, []string{l.resource}, l.owner).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
