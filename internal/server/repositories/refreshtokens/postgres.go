// Package refreshtokens provides a PostgreSQL-backed repository for the
// refresh tokens used in the authentication flow.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/dbx"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements CRUD operations for refresh tokens over
// dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the refresh token row for the given token string together
// with its owning user. If not found, it returns common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT rt.id, rt.user_id, rt.token, rt.expires_on_utc,
		       u.id, u.email, u.username, u.first_name, u.last_name,
		       u.is_invited, u.granted_permission, u.tenant_id
		FROM refresh_tokens rt
		INNER JOIN users u ON rt.user_id = u.id
		WHERE rt.token = $1
		LIMIT 1
	`
	refreshToken := &models.RefreshToken{User: &models.User{}}
	var tenantID uuid.NullUUID
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&refreshToken.ID, &refreshToken.UserID, &refreshToken.Token, &refreshToken.ExpiresOnUtc,
		&refreshToken.User.ID, &refreshToken.User.Email, &refreshToken.User.UserName,
		&refreshToken.User.FirstName, &refreshToken.User.LastName,
		&refreshToken.User.IsInvited, &refreshToken.User.GrantedPermission, &tenantID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if tenantID.Valid {
		refreshToken.User.TenantID = &tenantID.UUID
	}
	return refreshToken, nil
}

// Create inserts a new refresh token for userID with the given value and
// absolute expiry.
func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, token string, expiresOnUtc time.Time) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_on_utc)
		VALUES ($1, $2, $3, $4)
	`
	refreshToken := &models.RefreshToken{
		ID:           uuid.New(),
		UserID:       userID,
		Token:        token,
		ExpiresOnUtc: expiresOnUtc.UTC(),
	}
	if _, err := r.db.ExecContext(ctx, query,
		refreshToken.ID, refreshToken.UserID, refreshToken.Token, refreshToken.ExpiresOnUtc); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return refreshToken, nil
}

// Update rotates a refresh token in place: the row keeps its id while the
// token value and expiry are replaced. Returns common.ErrNotFound if the
// id no longer exists.
func (r *PostgresRepository) Update(ctx context.Context, tokenID uuid.UUID, token string, expiresOnUtc time.Time) (*models.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens
		SET token = $1, expires_on_utc = $2
		WHERE id = $3
		RETURNING user_id
	`
	refreshToken := &models.RefreshToken{
		ID:           tokenID,
		Token:        token,
		ExpiresOnUtc: expiresOnUtc.UTC(),
	}
	err := r.db.QueryRowContext(ctx, query, token, refreshToken.ExpiresOnUtc, tokenID).Scan(&refreshToken.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return refreshToken, nil
}

// Delete removes a refresh token by its internal id.
func (r *PostgresRepository) Delete(ctx context.Context, tokenID uuid.UUID) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, tokenID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if count < 1 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteByUser removes all refresh tokens owned by userID.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

// DeleteExpired removes every refresh token that expired before now.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE expires_on_utc < $1
	`
	res, err := r.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
