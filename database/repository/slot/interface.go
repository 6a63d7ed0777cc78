// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"
	"time"

	"mentorhub/database"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no slot matches the query.
var ErrNotFound = errors.New("timeslot not found")

// ErrSlotBooked is returned when a delete targets a booked slot.
var ErrSlotBooked = errors.New("timeslot is booked")

// SlotRepository is the slot ledger's storage contract. Reserve is the
// only operation in the system requiring true mutual exclusion; it is a
// single conditional update, never an in-process lock, because multiple
// service instances run concurrently.
type SlotRepository interface {
	CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error)
	GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	GetAvailable(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error)
	DeleteByID(ctx context.Context, mentorID, slotID string) error

	// Reserve atomically flips booked from false to true and attaches the
	// session reference in the same write. Exactly one concurrent caller
	// wins; the rest get applied=false.
	Reserve(ctx context.Context, slotID, sessionID string) (applied bool, err error)

	// Release clears the booking. Idempotent: releasing a free slot is a
	// no-op, not an error.
	Release(ctx context.Context, slotID string) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.DB()
	return &mongoSlotRepo{
		coll: db.Collection("timeslots"),
	}
}
