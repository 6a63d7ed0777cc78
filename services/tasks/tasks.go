package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types handled by the async worker.
const (
	TypeMeetingCreate   = "meeting:create"
	TypeRecordingIngest = "recording:ingest"
	TypeSessionSweep    = "session:sweep_end"
	TypePayoutRelease   = "settlement:release"
)

// SessionTaskPayload carries the session a task operates on.
type SessionTaskPayload struct {
	SessionID string `json:"sessionId"`
}

// Enqueuer hands work to the background worker. Services depend on this
// interface so tests can capture enqueued work in memory.
type Enqueuer interface {
	EnqueueMeetingCreate(ctx context.Context, sessionID string) error
	EnqueueRecordingIngest(ctx context.Context, sessionID string) error
}

// AsynqEnqueuer implements Enqueuer on top of an asynq client.
type AsynqEnqueuer struct {
	Client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{Client: client}
}

func (e *AsynqEnqueuer) enqueue(ctx context.Context, taskType, sessionID string, opts ...asynq.Option) error {
	payload, err := json.Marshal(SessionTaskPayload{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	if _, err := e.Client.EnqueueContext(ctx, asynq.NewTask(taskType, payload), opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			// The same task is already queued; nothing to add.
			return nil
		}
		return fmt.Errorf("failed to enqueue %s for session %s: %w", taskType, sessionID, err)
	}
	return nil
}

func (e *AsynqEnqueuer) EnqueueMeetingCreate(ctx context.Context, sessionID string) error {
	return e.enqueue(ctx, TypeMeetingCreate, sessionID)
}

// EnqueueRecordingIngest queues at most one ingest task per session at a
// time, so duplicate recording triggers collapse at the queue rather than
// racing each other through the pipeline.
func (e *AsynqEnqueuer) EnqueueRecordingIngest(ctx context.Context, sessionID string) error {
	return e.enqueue(ctx, TypeRecordingIngest, sessionID,
		asynq.TaskID(TypeRecordingIngest+":"+sessionID))
}
