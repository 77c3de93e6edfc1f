package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/stretchr/testify/require"
)

func TestCleanupService_DeletesExpiredUnderLock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var deleteCutoff time.Time
	rtRepo := &fakeRefreshTokenRepo{
		deleteExpiredFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			deleteCutoff = cutoff
			return 2, nil
		},
	}
	lock := &fakeLock{acquired: true}
	factory := &fakeLockFactory{lock: lock}

	s := NewCleanupService(testDB(t), &fakeRepoManager{refreshTokens: rtRepo}, factory, &fixedClock{now: now}, nopLogger{})

	require.NoError(t, s.InitiateCleanup(context.Background()))
	require.Equal(t, "global:cleanup", factory.resource)
	require.Equal(t, now, deleteCutoff)
	require.True(t, lock.released, "lock must be released after the run")
}

func TestCleanupService_SkipsWhenLockHeldElsewhere(t *testing.T) {
	deleteCalled := false
	rtRepo := &fakeRefreshTokenRepo{
		deleteExpiredFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			deleteCalled = true
			return 0, nil
		},
	}
	factory := &fakeLockFactory{lock: &fakeLock{acquired: false}}

	s := NewCleanupService(testDB(t), &fakeRepoManager{refreshTokens: rtRepo}, factory, &fixedClock{now: time.Now()}, nopLogger{})

	err := s.InitiateCleanup(context.Background())
	require.ErrorIs(t, err, common.ErrConflict)
	require.False(t, deleteCalled, "no deletion without the lock")
}

func TestCleanupService_AcquireError(t *testing.T) {
	factory := &fakeLockFactory{err: errors.New("redis down")}

	s := NewCleanupService(testDB(t), &fakeRepoManager{}, factory, &fixedClock{now: time.Now()}, nopLogger{})

	require.Error(t, s.InitiateCleanup(context.Background()))
}

func TestCleanupService_ReleasesLockOnDeleteError(t *testing.T) {
	rtRepo := &fakeRefreshTokenRepo{
		deleteExpiredFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			return 0, errors.New("db error")
		},
	}
	lock := &fakeLock{acquired: true}
	factory := &fakeLockFactory{lock: lock}

	s := NewCleanupService(testDB(t), &fakeRepoManager{refreshTokens: rtRepo}, factory, &fixedClock{now: time.Now()}, nopLogger{})

	require.Error(t, s.InitiateCleanup(context.Background()))
	require.True(t, lock.released, "lock must be released on the error path")
}
