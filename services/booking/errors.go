package booking

import "errors"

var (
	// ErrSlotUnavailable means the slot was already taken when the
	// reservation attempt ran. Booking is a race the client retries
	// against a different slot; there is no queueing.
	ErrSlotUnavailable = errors.New("timeslot is no longer available")

	// ErrAdvanceWindow means the slot starts sooner than the minimum
	// advance-booking window allows, measured at call time.
	ErrAdvanceWindow = errors.New("slot starts within the minimum advance-booking window")

	// ErrDurationMismatch means the requested duration is not offered or
	// does not match the slot.
	ErrDurationMismatch = errors.New("requested duration does not match the slot")

	// ErrBatchTooLarge means a slot-creation batch exceeded the cap.
	ErrBatchTooLarge = errors.New("too many timeslots in one batch")

	// ErrNotCancellable means the session is past the point of cancellation.
	ErrNotCancellable = errors.New("session can no longer be cancelled")
)
