package models

import "time"

// SessionStatus is the lifecycle state of a mentorship session.
type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionConfirmed  SessionStatus = "confirmed"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// SessionEvent is something that may advance a session's lifecycle.
type SessionEvent string

const (
	EventPaymentConfirmed SessionEvent = "payment_confirmed"
	EventMeetingStarted   SessionEvent = "meeting_started"
	EventMeetingEnded     SessionEvent = "meeting_ended"
	EventCancelled        SessionEvent = "cancelled"
)

// sessionTransitions is the exhaustive transition table for the session
// state machine. Anything not listed here is an illegal transition and is
// rejected (logged, never applied), which keeps out-of-order or duplicate
// webhook deliveries from regressing a later state.
var sessionTransitions = map[SessionStatus]map[SessionEvent]SessionStatus{
	SessionPending: {
		EventPaymentConfirmed: SessionConfirmed,
		EventCancelled:        SessionCancelled,
	},
	SessionConfirmed: {
		EventMeetingStarted: SessionInProgress,
		// A confirmed session the mentee never joined is still ended by
		// the sweep, so meeting_ended is legal straight from confirmed.
		EventMeetingEnded: SessionCompleted,
		EventCancelled:    SessionCancelled,
	},
	SessionInProgress: {
		EventMeetingEnded: SessionCompleted,
	},
	// completed and cancelled are terminal.
}

// NextStatus returns the status a session in `from` moves to on `event`,
// or false when the transition is illegal.
func NextStatus(from SessionStatus, event SessionEvent) (SessionStatus, bool) {
	to, ok := sessionTransitions[from][event]
	return to, ok
}

// StatesAllowing returns every status from which event legally fires.
// Writers pass this as the guard list of the conditional update, so the
// transition table is the single place legality is defined.
func StatesAllowing(event SessionEvent) []SessionStatus {
	ordered := []SessionStatus{
		SessionPending, SessionConfirmed, SessionInProgress,
		SessionCompleted, SessionCancelled,
	}
	var from []SessionStatus
	for _, st := range ordered {
		if _, ok := sessionTransitions[st][event]; ok {
			from = append(from, st)
		}
	}
	return from
}

// RecordingState tracks the post-session pipeline progress, persisted on
// the session so each stage is independently retryable: a retry resumes
// from the first incomplete stage and never redoes a completed one.
type RecordingState struct {
	// Captured from the recording.completed webhook so the download stage
	// can re-run after a crash.
	DownloadURL   string `bson:"download_url,omitempty" json:"-"`
	DownloadToken string `bson:"download_token,omitempty" json:"-"`

	StorageKey  string     `bson:"storage_key,omitempty" json:"storageKey,omitempty"`
	AvailableAt *time.Time `bson:"available_at,omitempty" json:"availableAt,omitempty"`

	Transcript          string `bson:"transcript,omitempty" json:"transcript,omitempty"`
	TranscriptProcessed bool   `bson:"transcript_processed" json:"transcriptProcessed"`

	Summary string `bson:"summary,omitempty" json:"summary,omitempty"`

	Attempts      int        `bson:"attempts" json:"attempts"`
	LastAttemptAt *time.Time `bson:"last_attempt_at,omitempty" json:"lastAttemptAt,omitempty"`
	LastError     string     `bson:"last_error,omitempty" json:"lastError,omitempty"`

	// Set when ingestion is first enqueued; recording.completed and
	// recording.transcript_completed both trigger ingestion, so this is
	// what keeps the pipeline from running twice per session.
	IngestedAt *time.Time `bson:"ingested_at,omitempty" json:"-"`
}

// Session is the aggregate root of one booked mentorship engagement.
type Session struct {
	ID              string        `bson:"id" json:"id"`
	MenteeID        string        `bson:"mentee_id" json:"menteeId"`
	MentorID        string        `bson:"mentor_id" json:"mentorId"`
	SlotID          string        `bson:"slot_id" json:"slotId"`
	PaymentID       string        `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	DurationMinutes int           `bson:"duration_minutes" json:"durationMinutes"`
	ScheduledStart  time.Time     `bson:"scheduled_start" json:"scheduledStart"` // UTC
	ScheduledEnd    time.Time     `bson:"scheduled_end" json:"scheduledEnd"`     // UTC
	Status          SessionStatus `bson:"status" json:"status"`
	PriceCents      int64         `bson:"price_cents" json:"priceCents"`
	Currency        string        `bson:"currency" json:"currency"`

	// Populated once the provider meeting has been created.
	MeetingID       string `bson:"meeting_id,omitempty" json:"meetingId,omitempty"`
	MeetingJoinURL  string `bson:"meeting_join_url,omitempty" json:"meetingJoinUrl,omitempty"`
	MeetingPasscode string `bson:"meeting_passcode,omitempty" json:"-"`

	Recording RecordingState `bson:"recording" json:"recording"`

	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`

	CancelReason string     `bson:"cancel_reason,omitempty" json:"cancelReason,omitempty"`
	CancelledBy  string     `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
	CancelledAt  *time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
