// File: database/repository/session/recording.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoSessionRepo) MarkRecordingIngested(ctx context.Context, id, downloadURL, downloadToken string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// recording.completed and recording.transcript_completed both land
	// here; the ingested_at guard is what makes the pair ingest once.
	filter := bson.M{
		"id": id,
		"$or": bson.A{
			bson.M{"recording.ingested_at": bson.M{"$exists": false}},
			bson.M{"recording.ingested_at": nil},
		},
	}
	update := bson.M{"$set": bson.M{
		"recording.ingested_at":    time.Now().UTC(),
		"recording.download_url":   downloadURL,
		"recording.download_token": downloadToken,
		"updated_at":               time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark recording ingested for session %s: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoSessionRepo) UpdateRecording(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	prefixed := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range set {
		prefixed["recording."+k] = v
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": prefixed}); err != nil {
		return fmt.Errorf("failed to update recording state for session %s: %w", id, err)
	}
	return nil
}

func (r *mongoSessionRepo) RecordRecordingFailure(ctx context.Context, id, stage string, failure error) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"recording.attempts": 1},
		"$set": bson.M{
			"recording.last_attempt_at": time.Now().UTC(),
			"recording.last_error":      fmt.Sprintf("%s: %v", stage, failure),
			"updated_at":                time.Now().UTC(),
		},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to record recording failure for session %s: %w", id, err)
	}
	return nil
}

// ResetRecording clears every stage marker so a manual retry re-runs the
// pipeline from the download stage regardless of prior partial progress.
// The download coordinates are kept; the attempt counter restarts so the
// retry gets a fresh allowance.
func (r *mongoSessionRepo) ResetRecording(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"recording.storage_key":          "",
		"recording.available_at":         nil,
		"recording.transcript":           "",
		"recording.transcript_processed": false,
		"recording.summary":              "",
		"recording.attempts":             0,
		"recording.last_error":           "",
		"updated_at":                     time.Now().UTC(),
	}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to reset recording state for session %s: %w", id, err)
	}
	return nil
}
