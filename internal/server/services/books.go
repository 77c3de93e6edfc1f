package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/identitykeeper/internal/logging"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BookService exposes the tenant-owned book resource. Tenant scoping
// happens in the repository, keyed off the tenant in ctx, so the service
// stays a thin pass-through.
type BookService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

// NewBookService constructs a BookService.
func NewBookService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *BookService {
	return &BookService{db: db, rm: rm, logger: logger}
}

func (s *BookService) Get(ctx context.Context, bookID uuid.UUID) (*models.Book, error) {
	return s.rm.Books(s.db).Get(ctx, bookID)
}

func (s *BookService) List(ctx context.Context) ([]*models.Book, error) {
	return s.rm.Books(s.db).List(ctx)
}

func (s *BookService) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	return s.rm.Books(s.db).Create(ctx, book)
}

func (s *BookService) Update(ctx context.Context, book *models.Book) (*models.Book, error) {
	return s.rm.Books(s.db).Update(ctx, book)
}

func (s *BookService) Delete(ctx context.Context, bookID uuid.UUID) error {
	return s.rm.Books(s.db).Delete(ctx, bookID)
}
