package meeting

import "errors"

var (
	// ErrSignature means the webhook signature did not verify. The event
	// is rejected without side effects; details are never echoed back.
	ErrSignature = errors.New("webhook signature verification failed")

	// ErrNotConfirmed means meeting creation was requested for a session
	// that is not in the confirmed state.
	ErrNotConfirmed = errors.New("session is not confirmed")
)
