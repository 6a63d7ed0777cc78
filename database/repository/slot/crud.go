// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mentorhub/models"
)

func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	docs := make([]interface{}, len(slots))
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		slot.StartTime = slot.StartTime.UTC()
		slot.Booked = false
		slot.SessionID = ""
		slot.CreatedAt = now
		docs[i] = slot
		ids[i] = slot.ID
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert timeslots: %w", err)
	}
	return ids, nil
}

func (r *mongoSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.TimeSlot
	if err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch timeslot %s: %w", slotID, err)
	}
	return &slot, nil
}

func (r *mongoSlotRepo) GetAvailable(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"mentor_id": mentorID,
		"booked":    false,
		"start_time": bson.M{
			"$gte": from.UTC(),
			"$lte": to.UTC(),
		},
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query available timeslots: %w", err)
	}
	defer cur.Close(ctx)

	var slots []models.TimeSlot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode timeslots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepo) DeleteByID(ctx context.Context, mentorID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Booked slots are never deleted out from under their session.
	filter := bson.M{"id": slotID, "mentor_id": mentorID, "booked": false}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete timeslot %s: %w", slotID, err)
	}
	if res.DeletedCount == 0 {
		// Distinguish a missing slot from one protected by a booking.
		if err := r.coll.FindOne(ctx, bson.M{"id": slotID, "mentor_id": mentorID}).Err(); err == nil {
			return ErrSlotBooked
		}
		return ErrNotFound
	}
	return nil
}
