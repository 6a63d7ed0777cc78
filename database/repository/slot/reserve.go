// File: database/repository/slot/reserve.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Reserve performs the compare-and-swap on the booked flag. The filter
// requires booked=false, so under concurrent attempts MongoDB serializes
// the document update and exactly one caller matches; every other caller
// sees MatchedCount == 0.
func (r *mongoSlotRepo) Reserve(ctx context.Context, slotID, sessionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "booked": false}
	update := bson.M{"$set": bson.M{
		"booked":     true,
		"session_id": sessionID,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to reserve timeslot %s: %w", slotID, err)
	}
	return res.MatchedCount == 1, nil
}

// Release frees a slot. The write is unconditional on the booked flag, so
// releasing an already-free slot simply matches and rewrites the same
// values, making the operation idempotent.
func (r *mongoSlotRepo) Release(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"booked":     false,
		"session_id": "",
	}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": slotID}, update); err != nil {
		return fmt.Errorf("failed to release timeslot %s: %w", slotID, err)
	}
	return nil
}
