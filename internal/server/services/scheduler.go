package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/logging"
	"github.com/dmitrijs2005/identitykeeper/internal/server/jobs"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/repomanager"
)

const (
	// cleanupJobID identifies the recurring cleanup registration.
	cleanupJobID = "token-cleanup"

	// cleanupCronConfigKey stores the active cron expression, so the
	// schedule survives restarts.
	cleanupCronConfigKey = "token_cleanup_job_cron"
)

// cleanupRunner is the piece of CleanupService the scheduler needs.
type cleanupRunner interface {
	InitiateCleanup(ctx context.Context) error
}

// SchedulerService manages the recurring cleanup job: scheduling it on a
// cron expression, firing one-off runs, and cancelling the schedule. The
// active cron expression is persisted so every instance re-registers it
// on startup.
type SchedulerService struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	registrar jobs.Registrar
	cleanup   cleanupRunner
	logger    logging.Logger
}

// NewSchedulerService constructs a SchedulerService.
func NewSchedulerService(db *sql.DB, rm repomanager.RepositoryManager, registrar jobs.Registrar, cleanup cleanupRunner, logger logging.Logger) *SchedulerService {
	return &SchedulerService{db: db, rm: rm, registrar: registrar, cleanup: cleanup, logger: logger}
}

// Schedule registers the recurring cleanup job. A non-empty
// cronExpression becomes the new persisted schedule; an empty one means
// "re-register whatever is persisted", which is what instances do on
// startup. It reports whether a job ended up scheduled.
func (s *SchedulerService) Schedule(ctx context.Context, cronExpression string) (bool, error) {
	configs := s.rm.Configs(s.db)

	if cronExpression == "" {
		persisted, err := configs.Get(ctx, cleanupCronConfigKey)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				s.logger.Warn(ctx, "no persisted cleanup schedule, job not registered")
				return false, nil
			}
			return false, fmt.Errorf("error loading cleanup schedule: %w", err)
		}
		cronExpression = persisted
	} else {
		if err := configs.Set(ctx, cleanupCronConfigKey, cronExpression); err != nil {
			return false, fmt.Errorf("error persisting cleanup schedule: %w", err)
		}
	}

	if err := s.registrar.AddOrUpdate(cleanupJobID, cronExpression, s.runCleanup); err != nil {
		return false, fmt.Errorf("error registering cleanup job: %w", err)
	}

	s.logger.Info(ctx, "cleanup job scheduled", "job", cleanupJobID, "cron", cronExpression)
	return true, nil
}

// Enqueue fires one immediate cleanup run, independent of the recurring
// schedule.
func (s *SchedulerService) Enqueue(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.registrar.Enqueue(s.runCleanup)
	return true, nil
}

// Cancel deregisters the recurring cleanup job on this instance.
func (s *SchedulerService) Cancel(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.registrar.RemoveIfExists(cleanupJobID)
	s.logger.Info(ctx, "cleanup job cancelled", "job", cleanupJobID)
	return true, nil
}

// runCleanup is the job body. Losing the distributed lock to another
// instance is the expected outcome on all but one instance, so
// common.ErrConflict is not treated as a failure.
func (s *SchedulerService) runCleanup(ctx context.Context) {
	err := s.cleanup.InitiateCleanup(ctx)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrConflict):
		s.logger.Debug(ctx, "cleanup run skipped", "job", cleanupJobID)
	default:
		s.logger.Error(ctx, "cleanup run failed", "job", cleanupJobID, "error", err)
	}
}
