// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"
	"errors"
	"time"

	"mentorhub/database"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no session matches the query.
var ErrNotFound = errors.New("session not found")

// SessionRepository is the session aggregate's storage contract. Status
// moves go through UpdateStatusGuarded so the from-state precondition sits
// inside the update filter; a stale or reordered caller matches nothing
// instead of regressing a later state.
type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByMeetingID(ctx context.Context, meetingID string) (*models.Session, error)
	Delete(ctx context.Context, id string) error

	// UpdateStatusGuarded sets status=to (plus extra fields) only when the
	// current status is one of from. Returns applied=false on no match.
	UpdateStatusGuarded(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus, extra bson.M) (applied bool, err error)

	// SetMeetingInfo persists provider meeting details only when none are
	// set yet, which is what makes createMeeting retry-safe.
	SetMeetingInfo(ctx context.Context, id, meetingID, joinURL, passcode string) (applied bool, err error)

	// MarkRecordingIngested stamps recording.ingested_at and the download
	// coordinates exactly once per session.
	MarkRecordingIngested(ctx context.Context, id, downloadURL, downloadToken string) (applied bool, err error)

	UpdateRecording(ctx context.Context, id string, set bson.M) error
	RecordRecordingFailure(ctx context.Context, id, stage string, failure error) error
	ResetRecording(ctx context.Context, id string) error

	// FindDueForEnd returns confirmed or in-progress sessions whose
	// scheduled end passed before cutoff, for the end-of-meeting sweep.
	FindDueForEnd(ctx context.Context, cutoff time.Time) ([]models.Session, error)
}

type mongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo constructs a new MongoDB SessionRepository.
func NewMongoSessionRepo() SessionRepository {
	db := database.DB()
	return &mongoSessionRepo{
		coll: db.Collection("sessions"),
	}
}
