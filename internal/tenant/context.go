// Package tenant propagates the active tenant identifier through a
// request's context. The authentication middleware attaches the value once
// per request from the caller's access-token claims; every tenant-scoped
// repository call reads it back. Because the value lives on the request
// context rather than in process-wide state, it can never leak across
// concurrent requests.
package tenant

import (
	"context"

	"github.com/google/uuid"
)

type tenantIDContextKey struct{}

// WithTenant returns a child context carrying tenantID. Attaching a tenant
// replaces any value set earlier on the same chain, so middleware always
// starts a request from a clean slate.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantIDContextKey{}, tenantID)
}

// FromContext returns the tenant attached to ctx. ok is false when the
// operation is not scoped to any tenant, e.g. tenant-creation flows that
// run before authentication.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantIDContextKey{}).(uuid.UUID)
	return id, ok
}
