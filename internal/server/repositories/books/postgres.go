// Package books provides a PostgreSQL-backed repository for tenant-owned
// books.
package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/dbx"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/dmitrijs2005/identitykeeper/internal/tenant"
	"github.com/google/uuid"
)

// PostgresRepository implements tenant-scoped CRUD for books over
// dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns one book of the current tenant by id.
func (r *PostgresRepository) Get(ctx context.Context, bookID uuid.UUID) (*models.Book, error) {
	tenantID, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, common.ErrTenantRequired
	}
	query := `
		SELECT id, tenant_id, owner_id, title, author, details, created_at
		FROM books
		WHERE tenant_id = $1 AND id = $2
		LIMIT 1
	`
	return scanBook(r.db.QueryRowContext(ctx, query, tenantID, bookID))
}

// List returns all books of the current tenant.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Book, error) {
	tenantID, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, common.ErrTenantRequired
	}
	query := `
		SELECT id, tenant_id, owner_id, title, author, details, created_at
		FROM books
		WHERE tenant_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Book{}
	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(&book.ID, &book.TenantID, &book.OwnerID,
			&book.Title, &book.Author, &book.Details, &book.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Create inserts a book under the current tenant.
func (r *PostgresRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	tenantID, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, common.ErrTenantRequired
	}
	query := `
		INSERT INTO books (id, tenant_id, owner_id, title, author, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	created := &models.Book{
		ID:       uuid.New(),
		TenantID: tenantID,
		OwnerID:  book.OwnerID,
		Title:    book.Title,
		Author:   book.Author,
		Details:  book.Details,
	}
	err := r.db.QueryRowContext(ctx, query,
		created.ID, created.TenantID, created.OwnerID,
		created.Title, created.Author, created.Details).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return created, nil
}

// Update rewrites the mutable fields of a book inside the current tenant.
func (r *PostgresRepository) Update(ctx context.Context, book *models.Book) (*models.Book, error) {
	tenantID, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, common.ErrTenantRequired
	}
	query := `
		UPDATE books
		SET title = $1, author = $2, details = $3
		WHERE tenant_id = $4 AND id = $5
		RETURNING id, tenant_id, owner_id, title, author, details, created_at
	`
	return scanBook(r.db.QueryRowContext(ctx, query,
		book.Title, book.Author, book.Details, tenantID, book.ID))
}

// Delete removes a book inside the current tenant.
func (r *PostgresRepository) Delete(ctx context.Context, bookID uuid.UUID) error {
	tenantID, ok := tenant.FromContext(ctx)
	if !ok {
		return common.ErrTenantRequired
	}
	query := `
		DELETE FROM books
		WHERE tenant_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, tenantID, bookID)
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

func scanBook(row *sql.Row) (*models.Book, error) {
	book := &models.Book{}
	err := row.Scan(&book.ID, &book.TenantID, &book.OwnerID,
		&book.Title, &book.Author, &book.Details, &book.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return book, nil
}
