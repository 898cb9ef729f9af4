package point

// MaxPoints is the upper bound on a user's balance.
const MaxPoints int64 = 10000

type TransactionType string

const (
	TypeCharge TransactionType = "CHARGE"
	TypeUse    TransactionType = "USE"
)

// UserPoint is a snapshot of a user's balance. Values are immutable;
// every balance change produces a new UserPoint.
type UserPoint struct {
	UserID       int64 `db:"user_id" json:"user_id"`
	Point        int64 `db:"point" json:"point"`
	UpdateMillis int64 `db:"update_millis" json:"update_millis"`
}

// EmptyUserPoint is the zero-balance default returned for ids that were
// never charged.
func EmptyUserPoint(userID, nowMillis int64) UserPoint {
	return UserPoint{UserID: userID, Point: 0, UpdateMillis: nowMillis}
}

// PointHistory is one committed charge or use. Records are append-only
// and never mutated.
type PointHistory struct {
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
	Amount       int64           `db:"amount" json:"amount"`
	Type         TransactionType `db:"type" json:"type"`
	UpdateMillis int64           `db:"update_millis" json:"update_millis"`
}
