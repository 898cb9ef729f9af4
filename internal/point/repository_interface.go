package point

import "context"

// Repository is the storage contract for balances and the append-only
// history log. Implementations must treat an unknown user id as a
// zero-balance default, never an error.
type Repository interface {
	// SelectByID reads a user's current balance snapshot.
	SelectByID(ctx context.Context, userID int64) (UserPoint, error)
	// SelectHistoryByUserID returns the user's committed transactions
	// in insertion order; empty slice if none.
	SelectHistoryByUserID(ctx context.Context, userID int64) ([]PointHistory, error)
	// InsertOrUpdate upserts the balance and returns the written
	// record with a fresh timestamp.
	InsertOrUpdate(ctx context.Context, userID, points int64) (UserPoint, error)
	// InsertHistory appends one transaction record.
	InsertHistory(ctx context.Context, userID, amount int64, txType TransactionType, updateMillis int64) error
}
