package notification

import (
	"context"
	"fmt"

	"mentorhub/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// TokenSource resolves a user's push token. Account management lives
// outside this service; this is the narrow contract it exposes to us.
type TokenSource interface {
	FCMToken(ctx context.Context, userID string) (string, error)
}

// NotificationService fans session lifecycle and settlement events out as
// push notices. Delivery failures are logged and swallowed; notification
// must never fail the flow that triggered it.
type NotificationService interface {
	SessionBooked(ctx context.Context, menteeID, mentorID, sessionID string)
	PaymentConfirmed(ctx context.Context, menteeID, sessionID string)
	SessionCompleted(ctx context.Context, menteeID, mentorID, sessionID string)
	PayoutReleased(ctx context.Context, mentorID, paymentID string)
	DisputeOpened(ctx context.Context, respondentID, disputeID string)
	DisputeResolved(ctx context.Context, complainantID, respondentID, disputeID string)
}

// DefaultNotificationService is the FCM-backed implementation.
type DefaultNotificationService struct {
	Tokens TokenSource
	Logger *zap.Logger
}

func NewDefaultNotificationService(tokens TokenSource, logger *zap.Logger) (*DefaultNotificationService, error) {
	if tokens == nil {
		return nil, fmt.Errorf("notification service initialization error: token source is nil")
	}
	return &DefaultNotificationService{Tokens: tokens, Logger: logger}, nil
}

func (s *DefaultNotificationService) push(ctx context.Context, userID, title, body string, data map[string]string) {
	token, err := s.Tokens.FCMToken(ctx, userID)
	if err != nil || token == "" {
		s.Logger.Debug("no push target", zap.String("user", userID), zap.Error(err))
		return
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		s.Logger.Warn("failed to send push notification",
			zap.String("user", userID), zap.Error(err))
	}
}
