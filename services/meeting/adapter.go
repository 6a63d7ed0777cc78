package meeting

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"mentorhub/models"
)

// CreateMeeting provisions the provider meeting for a confirmed session.
// Retry-safe: if the session already carries a meeting id this is a no-op,
// so a retry storm cannot produce duplicate meetings.
func (s *DefaultMeetingService) CreateMeeting(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	if session.MeetingID != "" {
		s.Logger.Info("meeting already exists, skipping creation",
			zap.String("session", sessionID),
			zap.String("meeting", session.MeetingID))
		return session, nil
	}
	if session.Status != models.SessionConfirmed {
		return nil, ErrNotConfirmed
	}

	topic := fmt.Sprintf("Mentorship session %s", session.ID)
	info, err := s.Provider.Create(ctx, topic, session.ScheduledStart, session.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	applied, err := s.Sessions.SetMeetingInfo(ctx, sessionID, info.ID, info.JoinURL, info.Passcode)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	if !applied {
		// A concurrent creation won; ours is an orphan on the provider
		// side, terminate it rather than leaving two live meetings.
		s.Logger.Warn("concurrent meeting creation detected, ending duplicate",
			zap.String("session", sessionID), zap.String("meeting", info.ID))
		if endErr := s.Provider.End(ctx, info.ID); endErr != nil {
			s.Logger.Error("failed to end duplicate meeting", zap.Error(endErr))
		}
	}

	return s.Sessions.GetByID(ctx, sessionID)
}

// EndMeeting terminates the provider meeting and marks the session
// completed. This, not the provider's meeting.ended webhook, is what
// starts the settlement hold clock: some providers never deliver an
// ended event.
func (s *DefaultMeetingService) EndMeeting(ctx context.Context, sessionID, reason string) (*models.Session, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("end meeting: %w", err)
	}

	now := time.Now().UTC()
	applied, err := s.Sessions.UpdateStatusGuarded(ctx, sessionID,
		models.StatesAllowing(models.EventMeetingEnded),
		models.SessionCompleted,
		bson.M{"completed_at": now})
	if err != nil {
		return nil, fmt.Errorf("end meeting: %w", err)
	}
	if !applied {
		// Already completed or cancelled; ending twice changes nothing.
		s.Logger.Info("end meeting skipped, session not active",
			zap.String("session", sessionID),
			zap.String("status", string(session.Status)))
		return session, nil
	}

	if session.MeetingID != "" {
		if err := s.Provider.End(ctx, session.MeetingID); err != nil {
			// The session is completed either way; the provider meeting
			// expires on its own.
			s.Logger.Warn("provider end-meeting call failed",
				zap.String("meeting", session.MeetingID), zap.Error(err))
		}
	}

	if err := s.Settlement.OnSessionCompleted(ctx, sessionID, now); err != nil {
		s.Logger.Error("failed to start settlement hold",
			zap.String("session", sessionID), zap.Error(err))
	}

	if s.Notifications != nil {
		s.Notifications.SessionCompleted(ctx, session.MenteeID, session.MentorID, sessionID)
	}

	s.Logger.Info("session completed",
		zap.String("session", sessionID),
		zap.String("reason", reason))

	return s.Sessions.GetByID(ctx, sessionID)
}

// SweepDueSessions ends every session that ran past its scheduled end by
// the grace period. Runs periodically from the worker.
func (s *DefaultMeetingService) SweepDueSessions(ctx context.Context) error {
	const grace = 5 * time.Minute

	due, err := s.Sessions.FindDueForEnd(ctx, time.Now().UTC().Add(-grace))
	if err != nil {
		return fmt.Errorf("sweep due sessions: %w", err)
	}
	for _, session := range due {
		if _, err := s.EndMeeting(ctx, session.ID, "scheduled sweep"); err != nil {
			s.Logger.Error("sweep failed to end session",
				zap.String("session", session.ID), zap.Error(err))
		}
	}
	return nil
}
