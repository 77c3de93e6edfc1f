// Package configs provides a PostgreSQL-backed key/value store over the
// global_configs table.
package configs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/dbx"
)

// PostgresRepository implements the key/value contract over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the value stored under key.
func (r *PostgresRepository) Get(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value
		FROM global_configs
		WHERE key = $1
		LIMIT 1
	`
	var value string
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (r *PostgresRepository) Set(ctx context.Context, key string, value string) error {
	query := `
		INSERT INTO global_configs (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}
