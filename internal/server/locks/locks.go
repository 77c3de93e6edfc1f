// Package locks provides cross-process mutual exclusion for background
// jobs that run on every server instance but must execute at most once at
// a time cluster-wide.
package locks

import "context"

// Factory creates named distributed locks.
type Factory interface {
	// Acquire tries to obtain the lock for resource within the factory's
	// bounded wait window. It does not return an error on contention:
	// the returned Lock reports the outcome through Acquired, and
	// callers must Release it on every exit path regardless.
	Acquire(ctx context.Context, resource string) (Lock, error)
}

// Lock is a lease-backed lock handle. A lock that was not acquired is
// still safe to Release (it is a no-op).
type Lock interface {
	// Acquired reports whether this handle holds the lock.
	Acquired() bool

	// Release frees the lock if this handle still owns it. The lease
	// expires on its own if the holder crashes before releasing.
	Release(ctx context.Context) error
}

// BuildResource joins a lock prefix and key into the canonical resource
// name, e.g. BuildResource("global", "cleanup") -> "global:cleanup".
func BuildResource(prefix, key string) string {
	return prefix + ":" + key
}

// GlobalPrefix namespaces locks that guard cluster-wide singleton work.
const GlobalPrefix = "global"
