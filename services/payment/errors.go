package payment

import "errors"

var (
	// ErrNotCaptured means a refund was requested on a payment that was
	// never captured.
	ErrNotCaptured = errors.New("payment has not been captured")

	// ErrInvalidPercentage means a refund percentage outside [0, 100].
	ErrInvalidPercentage = errors.New("refund percentage must be between 0 and 100")

	// ErrIntentNotSucceeded means the gateway intent has not reached a
	// chargeable state yet.
	ErrIntentNotSucceeded = errors.New("payment intent has not succeeded")
)
