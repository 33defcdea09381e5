package usecase

import (
	"context"
	"fmt"
)

// KeyLocker serializes work on a natural key across processes.
// cache.Redis implements it.
type KeyLocker interface {
	TryLock(ctx context.Context, key string) (release func(), ok bool, err error)
}

func jobLockKey(jobID int64) string       { return fmt.Sprintf("talentmatch:lock:job:%d", jobID) }
func resumeLockKey(resumeID int64) string { return fmt.Sprintf("talentmatch:lock:resume:%d", resumeID) }
func matchLockKey(jobID, resumeID int64) string {
	return fmt.Sprintf("talentmatch:lock:match:%d:%d", jobID, resumeID)
}

// acquire takes key or fails with ErrInProgress when another caller holds it.
// A nil locker leaves same-key writers to the store's uniqueness constraint.
func acquire(ctx context.Context, locker KeyLocker, key string) (func(), error) {
	if locker == nil {
		return func() {}, nil
	}
	release, ok, err := locker.TryLock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %v", ErrInternal, key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInProgress, key)
	}
	if release == nil {
		release = func() {}
	}
	return release, nil
}
