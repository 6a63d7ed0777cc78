// File: database/repository/payment/interface.go
package paymentRepo

import (
	"context"
	"errors"
	"time"

	"mentorhub/database"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no payment matches the query.
var ErrNotFound = errors.New("payment not found")

// PaymentRepository is the payment's storage contract. Like sessions, all
// state moves are guarded conditional updates so duplicate webhook
// deliveries and racing payout operations resolve to exactly one apply.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	Delete(ctx context.Context, id string) error

	SetIntentID(ctx context.Context, id, intentID string) error

	// MarkCaptured stamps the transaction id and the commission split in
	// one write, only while the payment is still pending or authorized.
	MarkCaptured(ctx context.Context, id, transactionID string, commissionCents, payoutCents int64, rate float64) (applied bool, err error)

	UpdateStatusGuarded(ctx context.Context, id string, from []models.PaymentStatus, to models.PaymentStatus, extra bson.M) (applied bool, err error)

	// UpdatePayoutGuarded moves payout status only from one of the given
	// states; applied=false means a conflicting state, never silence.
	UpdatePayoutGuarded(ctx context.Context, id string, from []models.PayoutStatus, to models.PayoutStatus, extra bson.M) (applied bool, err error)

	// FindReleasable returns held payments whose hold clock elapsed.
	FindReleasable(ctx context.Context, now time.Time) ([]models.Payment, error)
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new MongoDB PaymentRepository.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.DB()
	return &mongoPaymentRepo{
		coll: db.Collection("payments"),
	}
}
