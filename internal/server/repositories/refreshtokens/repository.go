// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/google/uuid"
)

// Repository defines operations for issuing, rotating, and revoking
// refresh tokens. All expiry instants are UTC.
type Repository interface {
	// Get looks up a refresh token by its opaque token string, including
	// the owning user. Implementations return common.ErrNotFound when the
	// token is absent.
	Get(ctx context.Context, token string) (*models.RefreshToken, error)

	// Create inserts a new refresh token row with a fresh generated id.
	Create(ctx context.Context, userID uuid.UUID, token string, expiresOnUtc time.Time) (*models.RefreshToken, error)

	// Update rewrites the token value and expiry of an existing row,
	// identified by internal id so concurrent rotations elsewhere cannot
	// redirect the write. Returns common.ErrNotFound if the id is gone.
	Update(ctx context.Context, tokenID uuid.UUID, token string, expiresOnUtc time.Time) (*models.RefreshToken, error)

	// Delete removes one row by internal id. Returns common.ErrNotFound
	// if the row no longer exists.
	Delete(ctx context.Context, tokenID uuid.UUID) error

	// DeleteByUser removes every refresh token owned by userID and
	// reports how many rows were deleted. Zero deletions is not an error.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// DeleteExpired removes all rows whose expiry is strictly before now
	// and reports the count. Safe to call concurrently.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
