package point

import (
	"context"
	"sync"
)

// LockRegistry hands out one mutual-exclusion lock per user id. Locks
// are created on first use via an atomic get-or-create and are never
// removed for the life of the process, so two concurrent callers can
// never end up with distinct locks for the same id.
//
// The lock is a buffered channel used as a binary semaphore. Waiters
// are woken in roughly arrival order; Go does not guarantee strict
// FIFO channel wakeup, so fairness is best effort.
type LockRegistry struct {
	locks sync.Map // int64 -> chan struct{} (cap 1)
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{}
}

// Acquire blocks until the user's lock is held or ctx is done. On
// success it returns the release func; the caller must invoke it on
// every exit path. A ctx deadline or cancellation while waiting maps
// to ErrLockWaitExceeded.
func (r *LockRegistry) Acquire(ctx context.Context, userID int64) (func(), error) {
	v, _ := r.locks.LoadOrStore(userID, make(chan struct{}, 1))
	sem := v.(chan struct{})

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ErrLockWaitExceeded
	}
}
