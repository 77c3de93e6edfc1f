// Package http exposes the identity server over REST. It owns routing,
// the authentication middleware, and the translation of service errors
// into HTTP status codes.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/identitykeeper/internal/logging"
	"github.com/dmitrijs2005/identitykeeper/internal/server/config"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/dmitrijs2005/identitykeeper/internal/server/services"
	"github.com/google/uuid"
)

type userAuthenticator interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type tokenManager interface {
	Generate(ctx context.Context, user *models.User) (*services.BearerTokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*services.BearerTokenResponse, error)
	Revoke(ctx context.Context, userID uuid.UUID, refreshToken string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type bookStore interface {
	Get(ctx context.Context, bookID uuid.UUID) (*models.Book, error)
	List(ctx context.Context) ([]*models.Book, error)
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) (*models.Book, error)
	Delete(ctx context.Context, bookID uuid.UUID) error
}

type cleanupScheduler interface {
	Schedule(ctx context.Context, cronExpression string) (bool, error)
	Enqueue(ctx context.Context) (bool, error)
	Cancel(ctx context.Context) (bool, error)
}

// HTTPServer serves the REST API.
type HTTPServer struct {
	address string
	logger  logging.Logger

	users     userAuthenticator
	tokens    tokenManager
	books     bookStore
	scheduler cleanupScheduler

	jwtSecret []byte
	issuer    string
	audience  string
}

// NewHTTPServer wires the REST layer to the application services.
func NewHTTPServer(cfg *config.Config, l logging.Logger, users userAuthenticator, tokens tokenManager, books bookStore, scheduler cleanupScheduler) *HTTPServer {
	return &HTTPServer{
		address:   cfg.EndpointAddrHTTP,
		logger:    l.With("module", "http_server"),
		users:     users,
		tokens:    tokens,
		books:     books,
		scheduler: scheduler,
		jwtSecret: []byte(cfg.JwtSigningKey),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
	}
}

// Run starts serving and blocks until ctx is cancelled, then shuts the
// server down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
