// Package users declares the read-side repository contract for account
// records. The token issuer uses it to populate access-token claims.
package users

import (
	"context"

	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/google/uuid"
)

// Repository defines user lookup operations.
type Repository interface {
	// GetByEmail returns the user with the given email, or
	// common.ErrNotFound when no such user exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetRoles returns the role names granted to userID. A user without
	// roles yields an empty slice, not an error.
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}
