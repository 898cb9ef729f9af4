package point

import "errors"

// Kind classifies a point operation failure. Business kinds map to a
// client error at the HTTP layer, KindLockTimeout is retryable, and
// KindInternal covers unexpected storage failures.
type Kind string

const (
	KindInvalidAmount       Kind = "invalid_amount"
	KindLimitExceeded       Kind = "limit_exceeded"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindLockTimeout         Kind = "lock_timeout"
	KindInternal            Kind = "internal"
)

// Error is the single error type the point domain returns.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrNoChargeAmount   = newError(KindInvalidAmount, "no amount to charge")
	ErrNoUseAmount      = newError(KindInvalidAmount, "no amount to use")
	ErrLimitExceeded    = newError(KindLimitExceeded, "cannot exceed 10,000 points")
	ErrNoPointsToUse    = newError(KindInsufficientBalance, "no points available to use")
	ErrBalanceTooLow    = newError(KindInsufficientBalance, "point balance is too low")
	ErrLockWaitExceeded = newError(KindLockTimeout, "timed out waiting for user lock")
)

// KindOf returns the kind of a point error, or KindInternal for any
// other error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// IsBusiness reports whether err is a caller-correctable validation
// failure rather than an internal or retryable one.
func IsBusiness(err error) bool {
	switch KindOf(err) {
	case KindInvalidAmount, KindLimitExceeded, KindInsufficientBalance:
		return true
	}
	return false
}
