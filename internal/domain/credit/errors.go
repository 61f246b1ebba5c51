package credit

import "errors"

// Domain errors for credit metering.
var (
	ErrInvalidFeature       = errors.New("invalid feature kind")
	ErrInsufficientCredits  = errors.New("insufficient credits")
	ErrMissingAccount       = errors.New("account id is required")
	ErrInvalidAuthorization = errors.New("invalid credit authorization")

	// ErrLedgerUnavailable is returned when the store stayed contended
	// through every retry.
	ErrLedgerUnavailable = errors.New("ledger unavailable")

	// ErrLedgerInconsistency means settlement found no record for an
	// account that was authorized. It indicates a broken invariant.
	ErrLedgerInconsistency = errors.New("ledger inconsistency")
)
