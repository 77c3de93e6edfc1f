package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/logging"
	"github.com/dmitrijs2005/identitykeeper/internal/server/locks"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/repomanager"
)

// cleanupLockKey names the cluster-wide lock guarding cleanup runs.
const cleanupLockKey = "cleanup"

// CleanupService deletes expired refresh tokens. The job runs on every
// instance, so a distributed lock ensures only one run executes at a time
// cluster-wide.
type CleanupService struct {
	db          *sql.DB
	rm          repomanager.RepositoryManager
	lockFactory locks.Factory
	clock       common.Clock
	logger      logging.Logger
}

// NewCleanupService constructs a CleanupService.
func NewCleanupService(db *sql.DB, rm repomanager.RepositoryManager, lockFactory locks.Factory, clock common.Clock, logger logging.Logger) *CleanupService {
	return &CleanupService{db: db, rm: rm, lockFactory: lockFactory, clock: clock, logger: logger}
}

// InitiateCleanup acquires the global cleanup lock and deletes all
// refresh tokens that have expired as of now. When another instance holds
// the lock, it returns common.ErrConflict without doing any work.
func (s *CleanupService) InitiateCleanup(ctx context.Context) error {
	resource := locks.BuildResource(locks.GlobalPrefix, cleanupLockKey)

	lock, err := s.lockFactory.Acquire(ctx, resource)
	if err != nil {
		return fmt.Errorf("error acquiring lock %s: %w", resource, err)
	}
	if !lock.Acquired() {
		s.logger.Debug(ctx, "cleanup already running elsewhere, skipping", "resource", resource)
		return common.ErrConflict
	}
	defer func() {
		// Release even when ctx was cancelled mid-run; otherwise the
		// lease blocks other instances until it expires on its own.
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn(ctx, "error releasing cleanup lock", "resource", resource, "error", err)
		}
	}()

	count, err := s.rm.RefreshTokens(s.db).DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return fmt.Errorf("error deleting expired refresh tokens: %w", err)
	}
	if count > 0 {
		s.logger.Info(ctx, "expired refresh tokens removed", "count", count)
	}
	return nil
}
