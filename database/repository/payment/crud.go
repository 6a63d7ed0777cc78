// File: database/repository/payment/crud.go
package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mentorhub/models"
)

func (r *mongoPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoPaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

func (r *mongoPaymentRepo) GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"intent_id": intentID})
}

func (r *mongoPaymentRepo) findOne(ctx context.Context, filter bson.M) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Payment
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return &p, nil
}

func (r *mongoPaymentRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", id, err)
	}
	return nil
}

func (r *mongoPaymentRepo) SetIntentID(ctx context.Context, id, intentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"intent_id": intentID, "updated_at": time.Now().UTC()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to set intent id on payment %s: %w", id, err)
	}
	return nil
}

func (r *mongoPaymentRepo) MarkCaptured(ctx context.Context, id, transactionID string, commissionCents, payoutCents int64, rate float64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": bson.A{models.PaymentPending, models.PaymentAuthorized}},
	}
	update := bson.M{"$set": bson.M{
		"status":           models.PaymentCaptured,
		"transaction_id":   transactionID,
		"commission_cents": commissionCents,
		"payout_cents":     payoutCents,
		"commission_rate":  rate,
		"updated_at":       time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment %s captured: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoPaymentRepo) UpdateStatusGuarded(ctx context.Context, id string, from []models.PaymentStatus, to models.PaymentStatus, extra bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updated_at": time.Now().UTC()}
	for k, v := range extra {
		set[k] = v
	}
	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update payment %s status: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoPaymentRepo) UpdatePayoutGuarded(ctx context.Context, id string, from []models.PayoutStatus, to models.PayoutStatus, extra bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"payout_status": to, "updated_at": time.Now().UTC()}
	for k, v := range extra {
		set[k] = v
	}
	filter := bson.M{"id": id, "payout_status": bson.M{"$in": from}}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update payment %s payout status: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoPaymentRepo) FindReleasable(ctx context.Context, now time.Time) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"payout_status":   models.PayoutHeld,
		"hold_release_at": bson.M{"$lte": now.UTC()},
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query releasable payments: %w", err)
	}
	defer cur.Close(ctx)

	var payments []models.Payment
	if err := cur.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}
