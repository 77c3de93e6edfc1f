package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/identitykeeper/internal/dbx"
	"github.com/dmitrijs2005/identitykeeper/internal/logging"
	"github.com/dmitrijs2005/identitykeeper/internal/server/locks"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/books"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/configs"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/identitykeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l nopLogger) With(args ...any) logging.Logger                  { return l }

// fixedClock always reports the same instant.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type fakeRefreshTokenRepo struct {
	getFunc           func(ctx context.Context, token string) (*models.RefreshToken, error)
	createFunc        func(ctx context.Context, userID uuid.UUID, token string, expiresOnUtc time.Time) (*models.RefreshToken, error)
	updateFunc        func(ctx context.Context, tokenID uuid.UUID, token string, expiresOnUtc time.Time) (*models.RefreshToken, error)
	deleteFunc        func(ctx context.Context, tokenID uuid.UUID) error
	deleteByUserFunc  func(ctx context.Context, userID uuid.UUID) (int64, error)
	deleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (f *fakeRefreshTokenRepo) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	return f.getFunc(ctx, token)
}

func (f *fakeRefreshTokenRepo) Create(ctx context.Context, userID uuid.UUID, token string, expiresOnUtc time.Time) (*models.RefreshToken, error) {
	return f.createFunc(ctx, userID, token, expiresOnUtc)
}

func (f *fakeRefreshTokenRepo) Update(ctx context.Context, tokenID uuid.UUID, token string, expiresOnUtc time.Time) (*models.RefreshToken, error) {
	return f.updateFunc(ctx, tokenID, token, expiresOnUtc)
}

func (f *fakeRefreshTokenRepo) Delete(ctx context.Context, tokenID uuid.UUID) error {
	return f.deleteFunc(ctx, tokenID)
}

func (f *fakeRefreshTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.deleteByUserFunc(ctx, userID)
}

func (f *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return f.deleteExpiredFunc(ctx, now)
}

type fakeUsersRepo struct {
	getByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	getRolesFunc   func(ctx context.Context, userID uuid.UUID) ([]string, error)
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.getByEmailFunc(ctx, email)
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.getByIDFunc(ctx, id)
}

func (f *fakeUsersRepo) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f.getRolesFunc(ctx, userID)
}

type fakeConfigsRepo struct {
	getFunc func(ctx context.Context, key string) (string, error)
	setFunc func(ctx context.Context, key string, value string) error
}

func (f *fakeConfigsRepo) Get(ctx context.Context, key string) (string, error) {
	return f.getFunc(ctx, key)
}

func (f *fakeConfigsRepo) Set(ctx context.Context, key string, value string) error {
	return f.setFunc(ctx, key, value)
}

// fakeRepoManager returns the configured fakes regardless of the handle.
type fakeRepoManager struct {
	refreshTokens refreshtokens.Repository
	users         users.Repository
	books         books.Repository
	configs       configs.Repository
}

func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(db dbx.DBTX) users.Repository                  { return f.users }
func (f *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return f.refreshTokens
}
func (f *fakeRepoManager) Books(db dbx.DBTX) books.Repository     { return f.books }
func (f *fakeRepoManager) Configs(db dbx.DBTX) configs.Repository { return f.configs }

// fakeLock records Release calls.
type fakeLock struct {
	acquired  bool
	released  bool
	releaseFn func(ctx context.Context) error
}

func (l *fakeLock) Acquired() bool { return l.acquired }

func (l *fakeLock) Release(ctx context.Context) error {
	l.released = true
	if l.releaseFn != nil {
		return l.releaseFn(ctx)
	}
	return nil
}

type fakeLockFactory struct {
	lock     *fakeLock
	err      error
	resource string
}

func (f *fakeLockFactory) Acquire(ctx context.Context, resource string) (locks.Lock, error) {
	f.resource = resource
	if f.err != nil {
		return nil, f.err
	}
	return f.lock, nil
}

// fakeRegistrar records scheduling calls without running anything.
type fakeRegistrar struct {
	addedID   string
	addedCron string
	addedJob  func(ctx context.Context)
	addErr    error

	removedID string
	enqueued  []func(ctx context.Context)
}

func (f *fakeRegistrar) AddOrUpdate(jobID string, cronExpression string, job func(ctx context.Context)) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.addedID = jobID
	f.addedCron = cronExpression
	f.addedJob = job
	return nil
}

func (f *fakeRegistrar) RemoveIfExists(jobID string) {
	f.removedID = jobID
}

func (f *fakeRegistrar) Enqueue(job func(ctx context.Context)) {
	f.enqueued = append(f.enqueued, job)
}
