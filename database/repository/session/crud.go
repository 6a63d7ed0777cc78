// File: database/repository/session/crud.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mentorhub/models"
)

func (r *mongoSessionRepo) Create(ctx context.Context, s *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *mongoSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoSessionRepo) GetByMeetingID(ctx context.Context, meetingID string) (*models.Session, error) {
	return r.findOne(ctx, bson.M{"meeting_id": meetingID})
}

func (r *mongoSessionRepo) findOne(ctx context.Context, filter bson.M) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Session
	if err := r.coll.FindOne(ctx, filter).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return &s, nil
}

func (r *mongoSessionRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (r *mongoSessionRepo) UpdateStatusGuarded(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus, extra bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		set[k] = v
	}
	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update session %s status: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoSessionRepo) SetMeetingInfo(ctx context.Context, id, meetingID, joinURL, passcode string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": id,
		"$or": bson.A{
			bson.M{"meeting_id": bson.M{"$exists": false}},
			bson.M{"meeting_id": ""},
		},
	}
	update := bson.M{"$set": bson.M{
		"meeting_id":       meetingID,
		"meeting_join_url": joinURL,
		"meeting_passcode": passcode,
		"updated_at":       time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set meeting info on session %s: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoSessionRepo) FindDueForEnd(ctx context.Context, cutoff time.Time) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":        bson.M{"$in": bson.A{models.SessionConfirmed, models.SessionInProgress}},
		"scheduled_end": bson.M{"$lte": cutoff.UTC()},
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions due for end: %w", err)
	}
	defer cur.Close(ctx)

	var sessions []models.Session
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}
