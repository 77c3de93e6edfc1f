// Package users provides a PostgreSQL-backed repository for account
// lookups.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/dbx"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements user lookups over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUserColumns = `
	SELECT id, email, username, first_name, last_name, password_hash,
	       is_invited, granted_permission, tenant_id, created_at
	FROM users
`

// GetByEmail returns the user with the given email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := selectUserColumns + `
		WHERE email = $1
		LIMIT 1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the user with the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := selectUserColumns + `
		WHERE id = $1
		LIMIT 1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetRoles returns the role names granted to userID.
func (r *PostgresRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
		ORDER BY role
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return roles, nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var tenantID uuid.NullUUID
	err := row.Scan(
		&user.ID, &user.Email, &user.UserName, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.IsInvited, &user.GrantedPermission, &tenantID, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if tenantID.Valid {
		user.TenantID = &tenantID.UUID
	}
	return user, nil
}
