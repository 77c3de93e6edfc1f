package locks

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestFactory(t *testing.T, expiry, wait, retry time.Duration) (*RedisFactory, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewRedisFactory(rdb, expiry, wait, retry), mr
}

func TestAcquire_Uncontended(t *testing.T) {
	f, mr := newTestFactory(t, 30*time.Second, 50*time.Millisecond, 10*time.Millisecond)
	ctx := context.Background()

	lock, err := f.Acquire(ctx, "global:cleanup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lock.Acquired() {
		t.Fatal("expected lock to be acquired")
	}
	if !mr.Exists("global:cleanup") {
		t.Fatal("expected lock key in redis")
	}
}

func TestAcquire_ContendedReturnsUnacquired(t *testing.T) {
	f, mr := newTestFactory(t, 30*time.Second, 50*time.Millisecond, 10*time.Millisecond)
	ctx := context.Background()

	// Another instance already holds the lock.
	mr.Set("global:cleanup", "other-owner")

	lock, err := f.Acquire(ctx, "global:cleanup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Acquired() {
		t.Fatal("expected contention, lock must not be acquired")
	}
	// Releasing an unacquired handle is a safe no-op.
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}
	if got, _ := mr.Get("global:cleanup"); got != "other-owner" {
		t.Fatalf("release of unacquired lock must not touch the key, got %q", got)
	}
}

func TestRelease_AllowsReacquisition(t *testing.T) {
	f, _ := newTestFactory(t, 30*time.Second, 50*time.Millisecond, 10*time.Millisecond)
	ctx := context.Background()

	lock, err := f.Acquire(ctx, "global:cleanup")
	if err != nil || !lock.Acquired() {
		t.Fatalf("first acquisition failed: %v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}

	second, err := f.Acquire(ctx, "global:cleanup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Acquired() {
		t.Fatal("expected reacquisition after release")
	}
}

func TestRelease_DoesNotDeleteForeignLease(t *testing.T) {
	f, mr := newTestFactory(t, 50*time.Millisecond, 20*time.Millisecond, 5*time.Millisecond)
	ctx := context.Background()

	lock, err := f.Acquire(ctx, "global:cleanup")
	if err != nil || !lock.Acquired() {
		t.Fatalf("acquisition failed: %v", err)
	}

	// The lease expires and another instance takes over before this
	// holder releases.
	mr.FastForward(time.Second)
	mr.Set("global:cleanup", "new-owner")

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}
	if got, _ := mr.Get("global:cleanup"); got != "new-owner" {
		t.Fatalf("stale owner must not release a foreign lease, got %q", got)
	}
}

func TestAcquire_LeaseExpiryUnblocksNextRun(t *testing.T) {
	f, mr := newTestFactory(t, 50*time.Millisecond, 20*time.Millisecond, 5*time.Millisecond)
	ctx := context.Background()

	first, err := f.Acquire(ctx, "global:cleanup")
	if err != nil || !first.Acquired() {
		t.Fatalf("acquisition failed: %v", err)
	}

	// Simulate a crashed holder: never released, lease expires.
	mr.FastForward(100 * time.Millisecond)

	second, err := f.Acquire(ctx, "global:cleanup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Acquired() {
		t.Fatal("expected acquisition after the stale lease expired")
	}
}

func TestNewRedisFactory_ZeroExpiryStillLeases(t *testing.T) {
	// A misconfigured zero lease must not produce a key without a TTL:
	// a crashed holder would then block cleanup forever.
	f, mr := newTestFactory(t, 0, 20*time.Millisecond, 5*time.Millisecond)
	ctx := context.Background()

	first, err := f.Acquire(ctx, "global:cleanup")
	if err != nil || !first.Acquired() {
		t.Fatalf("acquisition failed: %v", err)
	}
	if mr.TTL("global:cleanup") <= 0 {
		t.Fatal("expected the lock key to carry a lease")
	}

	// Crashed holder: never released. The fallback lease must expire.
	mr.FastForward(DefaultExpiry + time.Second)

	second, err := f.Acquire(ctx, "global:cleanup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Acquired() {
		t.Fatal("expected acquisition after the fallback lease expired")
	}
}

func TestAcquire_HonorsContextCancellation(t *testing.T) {
	f, mr := newTestFactory(t, 30*time.Second, time.Minute, 10*time.Millisecond)

	mr.Set("global:cleanup", "other-owner")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := f.Acquire(ctx, "global:cleanup")
	if err == nil {
		t.Fatal("expected context cancellation to abort the wait")
	}
}
