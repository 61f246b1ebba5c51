package device

import "errors"

// Domain errors for device binding.
var (
	// ErrMissingIdentity is a client error: account or device id absent.
	ErrMissingIdentity = errors.New("missing account or device identity")
	ErrDeviceMismatch  = errors.New("account is bound to a different device")
	// ErrInvalidDevice rejects a device id longer than the ledger column allows.
	ErrInvalidDevice   = errors.New("device id exceeds 255 bytes")
)
