// File: database/repository/dispute/crud.go
package disputeRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mentorhub/models"
)

func (r *mongoDisputeRepo) Create(ctx context.Context, d *models.Dispute) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	d.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to insert dispute: %w", err)
	}
	return nil
}

func (r *mongoDisputeRepo) GetByID(ctx context.Context, id string) (*models.Dispute, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d models.Dispute
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch dispute %s: %w", id, err)
	}
	return &d, nil
}

func (r *mongoDisputeRepo) FindActiveByPaymentID(ctx context.Context, paymentID string) (*models.Dispute, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"payment_id": paymentID,
		"status":     bson.M{"$in": bson.A{models.DisputeOpen, models.DisputeUnderReview}},
	}
	var d models.Dispute
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch active dispute for payment %s: %w", paymentID, err)
	}
	return &d, nil
}

func (r *mongoDisputeRepo) Resolve(ctx context.Context, id string, refundPercent int, resolvedBy string, resolvedAt time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": bson.A{models.DisputeOpen, models.DisputeUnderReview}},
	}
	update := bson.M{"$set": bson.M{
		"status":         models.DisputeResolved,
		"refund_percent": refundPercent,
		"resolved_by":    resolvedBy,
		"resolved_at":    resolvedAt.UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to resolve dispute %s: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}
