package meeting

import (
	"context"
	"encoding/json"
	"fmt"

	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/models"
	"mentorhub/utils"

	"go.uber.org/zap"
)

// HandleWebhook verifies and dispatches a provider webhook delivery.
// Verification always runs first; a bad signature mutates nothing. The
// provider delivers at-least-once and possibly out of order, so every
// branch below is safe under duplication and reordering.
func (s *DefaultMeetingService) HandleWebhook(ctx context.Context, rawBody []byte, timestamp, signature string) (*WebhookResult, error) {
	if !utils.VerifyWebhookSignature(s.WebhookSecret, timestamp, rawBody, signature) {
		return nil, ErrSignature
	}

	var envelope models.MeetingWebhookEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse webhook body: %w", err)
	}

	switch models.ParseMeetingEvent(envelope.Event) {
	case models.MeetingEventURLValidation:
		// Answered with a keyed hash of the token, never business logic.
		return &WebhookResult{Challenge: &ChallengeResponse{
			PlainToken:     envelope.Payload.PlainToken,
			EncryptedToken: utils.HashValidationToken(s.WebhookSecret, envelope.Payload.PlainToken),
		}}, nil

	case models.MeetingEventStarted:
		return &WebhookResult{}, s.onMeetingStarted(ctx, envelope)

	case models.MeetingEventEnded:
		// Informational only: completion is driven by EndMeeting or the
		// sweep, never by this event.
		s.Logger.Info("meeting ended",
			zap.String("meeting", envelope.Payload.Object.ID),
			zap.Int("duration_minutes", envelope.Payload.Object.Duration))
		return &WebhookResult{}, nil

	case models.MeetingEventRecordingCompleted, models.MeetingEventTranscriptCompleted:
		return &WebhookResult{}, s.onRecordingReady(ctx, envelope)

	default:
		s.Logger.Info("unknown meeting event acknowledged",
			zap.String("event", envelope.Event))
		return &WebhookResult{}, nil
	}
}

func (s *DefaultMeetingService) onMeetingStarted(ctx context.Context, envelope models.MeetingWebhookEnvelope) error {
	meetingID := envelope.Payload.Object.ID
	session, err := s.Sessions.GetByMeetingID(ctx, meetingID)
	if err != nil {
		if err == sessionRepo.ErrNotFound {
			s.Logger.Warn("started event for unknown meeting", zap.String("meeting", meetingID))
			return nil
		}
		return err
	}

	// Only a confirmed session moves to in-progress. A started event
	// arriving after the session completed (out of order) matches
	// nothing and is dropped here with a log line, not an error: the
	// provider cannot act on error responses.
	applied, err := s.Sessions.UpdateStatusGuarded(ctx, session.ID,
		models.StatesAllowing(models.EventMeetingStarted), models.SessionInProgress, nil)
	if err != nil {
		return err
	}
	if !applied {
		s.Logger.Info("stale meeting.started ignored",
			zap.String("session", session.ID),
			zap.String("status", string(session.Status)))
		return nil
	}

	s.Logger.Info("session in progress", zap.String("session", session.ID))
	return nil
}

// onRecordingReady handles recording.completed and
// recording.transcript_completed, which are triggers for the same
// ingestion action. The ingested-at guard on the session persists the
// download coordinates once; queue-level task uniqueness collapses
// duplicate enqueues.
func (s *DefaultMeetingService) onRecordingReady(ctx context.Context, envelope models.MeetingWebhookEnvelope) error {
	object := envelope.Payload.Object
	session, err := s.Sessions.GetByMeetingID(ctx, object.ID)
	if err != nil {
		if err == sessionRepo.ErrNotFound {
			s.Logger.Warn("recording event for unknown meeting", zap.String("meeting", object.ID))
			return nil
		}
		return err
	}

	downloadURL := ""
	for _, f := range object.RecordingFiles {
		if f.FileType == "MP4" || downloadURL == "" {
			downloadURL = f.DownloadURL
		}
	}
	if downloadURL == "" {
		s.Logger.Warn("recording event without files", zap.String("session", session.ID))
		return nil
	}

	applied, err := s.Sessions.MarkRecordingIngested(ctx, session.ID, downloadURL, object.DownloadAccessToken)
	if err != nil {
		return err
	}
	if !applied {
		// Already ingested. Usually a plain duplicate, but if an earlier
		// delivery marked the session and then failed to enqueue, the
		// pipeline never started; fall through and re-enqueue while no
		// progress exists.
		rec := session.Recording
		if rec.StorageKey != "" || rec.TranscriptProcessed || rec.Attempts > 0 {
			s.Logger.Info("recording already processing, duplicate trigger ignored",
				zap.String("session", session.ID))
			return nil
		}
	}

	if err := s.Enqueuer.EnqueueRecordingIngest(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to enqueue recording ingestion: %w", err)
	}
	s.Logger.Info("recording ingestion enqueued", zap.String("session", session.ID))
	return nil
}
