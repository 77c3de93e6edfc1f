// Package common defines shared constants and sentinel errors used across
// the identity backend layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")

	// Multi-tenancy errors. Tenant-scoped repositories refuse to run
	// without a tenant attached to the context.
	ErrTenantRequired = errors.New("tenant required")

	// Token lifecycle errors. ErrInvalidRefreshToken covers every refresh
	// failure cause (unknown token, missing owner, expired) so callers
	// cannot probe which one occurred.
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)
