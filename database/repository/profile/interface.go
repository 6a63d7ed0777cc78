package profileRepo

import (
	"context"
	"errors"

	"mentorhub/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no profile matches the query.
var ErrNotFound = errors.New("profile not found")

// ProfileRepository exposes the slice of account data this service needs:
// push tokens for notification delivery and mentor pricing for booking.
// Account management itself lives in another service; this collection is
// a read-mostly projection of it.
type ProfileRepository interface {
	FCMToken(ctx context.Context, userID string) (string, error)
	SessionPriceCents(ctx context.Context, mentorID string, durationMinutes int) (cents int64, currency string, err error)
}

type mongoProfileRepo struct {
	coll *mongo.Collection
}

// NewMongoProfileRepo constructs a new MongoDB ProfileRepository.
func NewMongoProfileRepo() ProfileRepository {
	db := database.DB()
	return &mongoProfileRepo{
		coll: db.Collection("profiles"),
	}
}
