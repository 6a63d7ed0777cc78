package payment

import (
	"context"

	paymentRepo "mentorhub/database/repository/payment"
	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/models"
	"mentorhub/services/notification"
	"mentorhub/services/tasks"
	"mentorhub/utils"

	"go.uber.org/zap"
)

// IntentInfo is the gateway's view of a payment intent.
type IntentInfo struct {
	ID            string
	Status        string
	TransactionID string
}

// Gateway abstracts the payment provider.
type Gateway interface {
	CreateIntent(ctx context.Context, p *models.Payment) (intentID, clientSecret string, err error)
	GetIntent(ctx context.Context, intentID string) (*IntentInfo, error)
	Refund(ctx context.Context, intentID string, amountCents int64) (refundID string, err error)
}

// PaymentService is the payment orchestrator. Confirming a payment is the
// sole path that moves a session from pending to confirmed.
type PaymentService interface {
	CreateIntent(ctx context.Context, sessionID string) (*models.Payment, string, error)
	Confirm(ctx context.Context, intentID string) (*models.Session, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
	Refund(ctx context.Context, paymentID string, percentage int) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
}

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	Payments      paymentRepo.PaymentRepository
	Sessions      sessionRepo.SessionRepository
	Gateway       Gateway
	Deduper       utils.EventDeduper
	Enqueuer      tasks.Enqueuer
	Notifications notification.NotificationService
	WebhookSecret string
	Logger        *zap.Logger
}
