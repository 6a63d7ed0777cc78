package profileRepo

import (
	"context"
	"fmt"
	"time"

	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoProfileRepo) get(ctx context.Context, userID string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Profile
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	return &p, nil
}

func (r *mongoProfileRepo) FCMToken(ctx context.Context, userID string) (string, error) {
	p, err := r.get(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.FCMToken, nil
}

func (r *mongoProfileRepo) SessionPriceCents(ctx context.Context, mentorID string, durationMinutes int) (int64, string, error) {
	p, err := r.get(ctx, mentorID)
	if err != nil {
		return 0, "", err
	}

	var cents int64
	switch durationMinutes {
	case 30:
		cents = p.Price30Cents
	case 60:
		cents = p.Price60Cents
	default:
		return 0, "", fmt.Errorf("no price for %d-minute sessions", durationMinutes)
	}
	if cents <= 0 {
		return 0, "", fmt.Errorf("mentor %s has no price for %d-minute sessions", mentorID, durationMinutes)
	}

	currency := p.Currency
	if currency == "" {
		currency = "usd"
	}
	return cents, currency, nil
}
