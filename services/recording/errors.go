package recording

import "errors"

var (
	// ErrNotIngested means the session has no recording to process.
	ErrNotIngested = errors.New("no recording ingested for session")

	// ErrAttemptsExhausted means the pipeline hit its retry cap and now
	// waits for a manual retry.
	ErrAttemptsExhausted = errors.New("recording pipeline attempts exhausted")
)
