// Package configs declares a durable key/value store for global runtime
// settings, such as the persisted cron expression of the token cleanup
// job.
package configs

import "context"

// Repository defines get/set operations on global configuration values.
type Repository interface {
	// Get returns the value stored under key, or common.ErrNotFound when
	// the key was never set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error
}
