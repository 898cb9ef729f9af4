package point

// Validate checks a proposed balance mutation against the current
// balance. It is pure: no locks, no side effects. Rules are evaluated
// in order and the first failing rule wins.
//
// The service always calls it with a balance read under the user's
// lock, so the value it validates cannot be raced past.
func Validate(currentPoint, amount int64, txType TransactionType) error {
	switch txType {
	case TypeCharge:
		if amount <= 0 {
			return ErrNoChargeAmount
		}
		// Compare against the remaining headroom instead of summing;
		// currentPoint+amount can wrap negative for huge amounts.
		if amount > MaxPoints-currentPoint {
			return ErrLimitExceeded
		}
	case TypeUse:
		if currentPoint <= 0 {
			return ErrNoPointsToUse
		}
		if currentPoint-amount < 0 {
			return ErrBalanceTooLow
		}
		if amount <= 0 {
			return ErrNoUseAmount
		}
	}
	return nil
}
