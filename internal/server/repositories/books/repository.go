// Package books declares the repository contract for the tenant-owned
// book resource. Every operation is scoped to the tenant attached to the
// request context; calls without a tenant fail with
// common.ErrTenantRequired instead of silently matching nothing.
package books

import (
	"context"

	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/google/uuid"
)

// Repository defines tenant-scoped CRUD operations for books.
type Repository interface {
	// Get returns the book with the given id inside the current tenant,
	// or common.ErrNotFound. A book belonging to another tenant is
	// indistinguishable from a missing one.
	Get(ctx context.Context, bookID uuid.UUID) (*models.Book, error)

	// List returns all books of the current tenant.
	List(ctx context.Context) ([]*models.Book, error)

	// Create inserts a book under the current tenant with a fresh id.
	Create(ctx context.Context, book *models.Book) (*models.Book, error)

	// Update rewrites title, author, and details of a book inside the
	// current tenant. Returns common.ErrNotFound when the id does not
	// exist in this tenant.
	Update(ctx context.Context, book *models.Book) (*models.Book, error)

	// Delete removes a book inside the current tenant. Returns
	// common.ErrNotFound when absent.
	Delete(ctx context.Context, bookID uuid.UUID) error
}
