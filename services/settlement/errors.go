package settlement

import "errors"

var (
	// ErrPayoutConflict means a payout operation targeted a payment whose
	// payout state does not allow it (frozen, already paid, denied, or
	// still inside the hold). Never a silent success.
	ErrPayoutConflict = errors.New("payout state does not allow this operation")

	// ErrDisputeWindowExpired means the dispute was raised after the
	// post-completion window closed.
	ErrDisputeWindowExpired = errors.New("dispute window has expired")

	// ErrSessionNotCompleted means a dispute was raised against a session
	// that has not completed.
	ErrSessionNotCompleted = errors.New("session is not completed")

	// ErrDisputeNotActive means resolution targeted an already-resolved
	// dispute.
	ErrDisputeNotActive = errors.New("dispute is not open or under review")
)
