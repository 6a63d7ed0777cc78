package settlement

import (
	"context"
	"time"

	disputeRepo "mentorhub/database/repository/dispute"
	paymentRepo "mentorhub/database/repository/payment"
	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/models"
	"mentorhub/services/notification"

	"go.uber.org/zap"
)

// Refunder is the slice of the payment orchestrator the settlement engine
// uses when a dispute resolves with a refund outcome.
type Refunder interface {
	Refund(ctx context.Context, paymentID string, percentage int) error
}

// SettlementService gates fund movement: commission split is stamped at
// capture, payouts sit behind a holding period, and an active dispute
// freezes release regardless of elapsed hold time.
type SettlementService interface {
	// OnSessionCompleted starts the hold clock for the session's payment.
	OnSessionCompleted(ctx context.Context, sessionID string, completedAt time.Time) error

	// ReleaseDuePayouts moves held payments whose hold elapsed, and which
	// have no active dispute, to released. Runs periodically.
	ReleaseDuePayouts(ctx context.Context) error

	RequestPayout(ctx context.Context, paymentID, mentorID string) (*models.Payment, error)
	ProcessPayout(ctx context.Context, paymentID string) (*models.Payment, error)
	CancelPayout(ctx context.Context, paymentID string) (*models.Payment, error)

	CreateDispute(ctx context.Context, sessionID, complainantID, reason string) (*models.Dispute, error)
	ResolveDispute(ctx context.Context, disputeID string, refundPercent int, resolvedBy string) (*models.Dispute, error)
}

// DefaultSettlementService implements SettlementService.
type DefaultSettlementService struct {
	Payments      paymentRepo.PaymentRepository
	Sessions      sessionRepo.SessionRepository
	Disputes      disputeRepo.DisputeRepository
	Refunder      Refunder
	Notifications notification.NotificationService
	Logger        *zap.Logger
}
