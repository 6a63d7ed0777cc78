// File: database/repository/dispute/interface.go
package disputeRepo

import (
	"context"
	"errors"
	"time"

	"mentorhub/database"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no dispute matches the query.
var ErrNotFound = errors.New("dispute not found")

// DisputeRepository is the dispute's storage contract.
type DisputeRepository interface {
	Create(ctx context.Context, d *models.Dispute) error
	GetByID(ctx context.Context, id string) (*models.Dispute, error)

	// FindActiveByPaymentID returns an open or under-review dispute for
	// the payment, or ErrNotFound.
	FindActiveByPaymentID(ctx context.Context, paymentID string) (*models.Dispute, error)

	// Resolve closes the dispute only while it is still active.
	Resolve(ctx context.Context, id string, refundPercent int, resolvedBy string, resolvedAt time.Time) (applied bool, err error)
}

type mongoDisputeRepo struct {
	coll *mongo.Collection
}

// NewMongoDisputeRepo constructs a new MongoDB DisputeRepository.
func NewMongoDisputeRepo() DisputeRepository {
	db := database.DB()
	return &mongoDisputeRepo{
		coll: db.Collection("disputes"),
	}
}
