package meeting

import (
	"context"
	"time"

	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/models"
	"mentorhub/services/notification"
	"mentorhub/services/settlement"
	"mentorhub/services/tasks"

	"go.uber.org/zap"
)

// MeetingInfo is what the video provider returns for a created meeting.
type MeetingInfo struct {
	ID       string
	JoinURL  string
	Passcode string
}

// Provider abstracts the video provider's REST API.
type Provider interface {
	Create(ctx context.Context, topic string, start time.Time, durationMinutes int) (*MeetingInfo, error)
	End(ctx context.Context, meetingID string) error
}

// WebhookResult is what a handled webhook returns to the HTTP layer. For
// an endpoint.url_validation event, Challenge is non-nil and must be the
// response body; everything else is acknowledged with an empty 200.
type WebhookResult struct {
	Challenge *ChallengeResponse
}

// ChallengeResponse answers a URL-validation challenge.
type ChallengeResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}

// MeetingService drives a session's meeting lifecycle from both internal
// calls and provider webhooks.
type MeetingService interface {
	CreateMeeting(ctx context.Context, sessionID string) (*models.Session, error)
	EndMeeting(ctx context.Context, sessionID, reason string) (*models.Session, error)
	HandleWebhook(ctx context.Context, rawBody []byte, timestamp, signature string) (*WebhookResult, error)
	SweepDueSessions(ctx context.Context) error
}

// DefaultMeetingService implements MeetingService.
type DefaultMeetingService struct {
	Sessions      sessionRepo.SessionRepository
	Provider      Provider
	Settlement    settlement.SettlementService
	Enqueuer      tasks.Enqueuer
	Notifications notification.NotificationService
	WebhookSecret string
	Logger        *zap.Logger
}
