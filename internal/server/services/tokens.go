// Package services implements the application logic of the identity
// server: token issuing and rotation, expired-token cleanup, and the
// scheduling of recurring maintenance jobs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/dbx"
	"github.com/dmitrijs2005/identitykeeper/internal/logging"
	"github.com/dmitrijs2005/identitykeeper/internal/server/auth"
	"github.com/dmitrijs2005/identitykeeper/internal/server/config"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Minimum token policy values. Configured values below these are raised
// silently so a misconfigured instance degrades to a safe policy instead
// of refusing to start.
const (
	MinAccessTokenExpirationMinutes = 5
	MinRefreshTokenExpirationDays   = 1
	MinRefreshTokenBytesLength      = 16
)

// BearerTokenResponse is the credential pair handed to a client after a
// successful login or refresh.
type BearerTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresOnUtc time.Time `json:"expires_on_utc"`
}

// TokenService issues access/refresh token pairs and rotates or revokes
// refresh tokens. Access tokens are stateless JWTs; refresh tokens are
// opaque random strings stored server-side.
type TokenService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	clock  common.Clock
	logger logging.Logger

	signingKey []byte
	issuer     string
	audience   string

	accessTokenExpirationMinutes int
	refreshTokenExpirationDays   int
	refreshTokenBytesLength      int
}

// NewTokenService constructs a TokenService from the runtime config,
// clamping token policy values up to the documented minimums.
func NewTokenService(db *sql.DB, rm repomanager.RepositoryManager, clock common.Clock, logger logging.Logger, cfg *config.Config) *TokenService {
	s := &TokenService{
		db:                           db,
		rm:                           rm,
		clock:                        clock,
		logger:                       logger,
		signingKey:                   []byte(cfg.JwtSigningKey),
		issuer:                       cfg.Issuer,
		audience:                     cfg.Audience,
		accessTokenExpirationMinutes: cfg.AccessTokenExpirationMinutes,
		refreshTokenExpirationDays:   cfg.RefreshTokenExpirationDays,
		refreshTokenBytesLength:      cfg.RefreshTokenBytesLength,
	}
	if s.accessTokenExpirationMinutes < MinAccessTokenExpirationMinutes {
		s.accessTokenExpirationMinutes = MinAccessTokenExpirationMinutes
	}
	if s.refreshTokenExpirationDays < MinRefreshTokenExpirationDays {
		s.refreshTokenExpirationDays = MinRefreshTokenExpirationDays
	}
	if s.refreshTokenBytesLength < MinRefreshTokenBytesLength {
		s.refreshTokenBytesLength = MinRefreshTokenBytesLength
	}
	return s
}

func (s *TokenService) accessTokenExpiry(now time.Time) time.Time {
	return now.Add(time.Duration(s.accessTokenExpirationMinutes) * time.Minute)
}

func (s *TokenService) refreshTokenExpiry(now time.Time) time.Time {
	return now.AddDate(0, 0, s.refreshTokenExpirationDays)
}

// Generate issues a fresh token pair for user: a new refresh token row is
// created and a signed access token is returned alongside it.
func (s *TokenService) Generate(ctx context.Context, user *models.User) (*BearerTokenResponse, error) {
	value, err := common.MakeRandBase64String(s.refreshTokenBytesLength)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	now := s.clock.Now()
	if _, err := s.rm.RefreshTokens(s.db).Create(ctx, user.ID, value, s.refreshTokenExpiry(now)); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return s.buildResponse(ctx, user, value, now)
}

// Refresh rotates the given refresh token and issues a new token pair.
// Every failure mode of an untrusted token (unknown, expired, or lost to
// a concurrent rotation) collapses into common.ErrInvalidRefreshToken so
// the response does not reveal which check failed.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*BearerTokenResponse, error) {
	var rotated *models.RefreshToken
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.RefreshTokens(tx)

		current, err := repo.Get(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidRefreshToken
			}
			return err
		}
		if current.User == nil {
			return common.ErrInvalidRefreshToken
		}

		now := s.clock.Now()
		if !current.ExpiresOnUtc.After(now) {
			return common.ErrInvalidRefreshToken
		}

		value, err := common.MakeRandBase64String(s.refreshTokenBytesLength)
		if err != nil {
			return fmt.Errorf("error generating refresh token: %w", err)
		}

		// Rotation rewrites the row in place, keyed by id. If the row
		// vanished between Get and Update the token was already rotated
		// or revoked elsewhere.
		rotated, err = repo.Update(ctx, current.ID, value, s.refreshTokenExpiry(now))
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidRefreshToken
			}
			return err
		}

		user = current.User
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, user, rotated.Token, s.clock.Now())
}

// Revoke deletes the refresh token identified by its value, but only if
// it belongs to userID. A token that does not exist or belongs to someone
// else is ignored without error.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	repo := s.rm.RefreshTokens(s.db)

	current, err := repo.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	if current.UserID != userID {
		return nil
	}

	if err := repo.Delete(ctx, current.ID); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// RevokeAll deletes every refresh token owned by userID and reports how
// many sessions were terminated.
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.rm.RefreshTokens(s.db).DeleteByUser(ctx, userID)
}

func (s *TokenService) buildResponse(ctx context.Context, user *models.User, refreshValue string, now time.Time) (*BearerTokenResponse, error) {
	roles := user.Roles
	if roles == nil {
		var err error
		roles, err = s.rm.Users(s.db).GetRoles(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading user roles: %w", err)
		}
	}

	expiresAt := s.accessTokenExpiry(now)
	accessToken, err := auth.GenerateToken(user, roles, s.signingKey, s.issuer, s.audience, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}

	return &BearerTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		ExpiresOnUtc: expiresAt.UTC(),
	}, nil
}
