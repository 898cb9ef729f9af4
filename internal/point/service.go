package point

import (
	"context"
	"time"

	"pointledger/internal/logger"
	"pointledger/internal/metrics"
)

// TransactionPublisher receives every committed charge/use. Publishing
// is best effort and must never fail the operation itself.
type TransactionPublisher interface {
	PublishTransaction(ctx context.Context, userID, amount int64, txType TransactionType, balance int64) error
}

type Service interface {
	Get(ctx context.Context, userID int64) (UserPoint, error)
	GetHistory(ctx context.Context, userID int64) ([]PointHistory, error)
	Charge(ctx context.Context, userID, amount int64) (UserPoint, error)
	Use(ctx context.Context, userID, amount int64) (UserPoint, error)
}

type service struct {
	repo     Repository
	locks    *LockRegistry
	events   TransactionPublisher // nil when disabled
	lockWait time.Duration
}

// NewService wires the point service. events may be nil. lockWait
// bounds how long a charge/use waits for the user's lock; zero or
// negative means wait as long as the request context allows.
func NewService(repo Repository, events TransactionPublisher, lockWait time.Duration) Service {
	return &service{
		repo:     repo,
		locks:    NewLockRegistry(),
		events:   events,
		lockWait: lockWait,
	}
}

// Get reads through to the store. No user lock is taken: a balance
// read is a single consistent snapshot at the store boundary.
func (s *service) Get(ctx context.Context, userID int64) (UserPoint, error) {
	return s.repo.SelectByID(ctx, userID)
}

// GetHistory returns the user's transactions in commit order.
func (s *service) GetHistory(ctx context.Context, userID int64) ([]PointHistory, error) {
	return s.repo.SelectHistoryByUserID(ctx, userID)
}

func (s *service) Charge(ctx context.Context, userID, amount int64) (UserPoint, error) {
	up, err := s.mutate(ctx, userID, amount, TypeCharge)
	metrics.RecordCharge(statusLabel(err))
	if err == nil {
		s.publish(ctx, userID, amount, TypeCharge, up.Point)
	}
	return up, err
}

func (s *service) Use(ctx context.Context, userID, amount int64) (UserPoint, error) {
	up, err := s.mutate(ctx, userID, amount, TypeUse)
	metrics.RecordUse(statusLabel(err))
	if err == nil {
		s.publish(ctx, userID, amount, TypeUse, up.Point)
	}
	return up, err
}

// mutate runs one charge/use as a single critical section per user:
// lock, read, validate, append history, write balance. Validation must
// see the balance read under the lock; reading before acquisition
// would let two stale readers jointly overshoot MaxPoints or
// undershoot zero.
//
// History is appended before the balance commit. If the process dies
// between the two, the log carries a record with no matching balance
// change, which is preferable to a balance change with no record.
func (s *service) mutate(ctx context.Context, userID, amount int64, txType TransactionType) (UserPoint, error) {
	lockCtx := ctx
	if s.lockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockWait)
		defer cancel()
	}

	waitStart := time.Now()
	release, err := s.locks.Acquire(lockCtx, userID)
	metrics.ObserveLockWait(time.Since(waitStart).Seconds())
	if err != nil {
		return UserPoint{}, err
	}
	defer release()

	current, err := s.repo.SelectByID(ctx, userID)
	if err != nil {
		return UserPoint{}, err
	}

	if err := Validate(current.Point, amount, txType); err != nil {
		return UserPoint{}, err
	}

	newPoint := current.Point + amount
	if txType == TypeUse {
		newPoint = current.Point - amount
	}

	now := time.Now().UnixMilli()
	if err := s.repo.InsertHistory(ctx, userID, amount, txType, now); err != nil {
		return UserPoint{}, err
	}

	updated, err := s.repo.InsertOrUpdate(ctx, userID, newPoint)
	if err != nil {
		return UserPoint{}, err
	}

	metrics.SetBalance(userID, updated.Point)

	return updated, nil
}

// publish runs outside the user's critical section: the lock covers
// read, validate, append, write only, and a redis round-trip must not
// extend it.
func (s *service) publish(ctx context.Context, userID, amount int64, txType TransactionType, balance int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransaction(ctx, userID, amount, txType, balance); err != nil {
		logger.Errorf("failed to publish %s event for user %d: %v", txType, userID, err)
	}
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(KindOf(err))
}
