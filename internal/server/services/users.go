package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/logging"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService authenticates accounts against stored credentials.
type UserService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{db: db, rm: rm, logger: logger}
}

// Login verifies email/password and returns the account with its roles
// populated. An unknown email and a wrong password both yield
// common.ErrUnauthorized, so the caller cannot probe which emails exist.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	users := s.rm.Users(s.db)

	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrUnauthorized
	}

	roles, err := users.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading user roles: %w", err)
	}
	user.Roles = roles

	return user, nil
}
