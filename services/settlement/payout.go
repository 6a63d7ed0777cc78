package settlement

import (
	"context"
	"fmt"
	"time"

	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// RequestPayout lets the mentor claim a released payout. Only the mentor
// on the payment may request it; any other payout state is a conflict.
func (s *DefaultSettlementService) RequestPayout(ctx context.Context, paymentID, mentorID string) (*models.Payment, error) {
	p, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.MentorID != mentorID {
		return nil, fmt.Errorf("payment %s does not belong to mentor %s", paymentID, mentorID)
	}

	applied, err := s.Payments.UpdatePayoutGuarded(ctx, paymentID,
		[]models.PayoutStatus{models.PayoutReleased},
		models.PayoutRequested, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to request payout: %w", err)
	}
	if !applied {
		return nil, ErrPayoutConflict
	}

	s.Logger.Info("payout requested",
		zap.String("payment", paymentID), zap.String("mentor", mentorID))
	return s.Payments.GetByID(ctx, paymentID)
}

// ProcessPayout settles a requested payout and stamps the paid-out time.
// Terminal: a paid payout never moves again.
func (s *DefaultSettlementService) ProcessPayout(ctx context.Context, paymentID string) (*models.Payment, error) {
	now := time.Now().UTC()
	applied, err := s.Payments.UpdatePayoutGuarded(ctx, paymentID,
		[]models.PayoutStatus{models.PayoutRequested},
		models.PayoutPaid,
		bson.M{"paid_out_at": now})
	if err != nil {
		return nil, fmt.Errorf("failed to process payout: %w", err)
	}
	if !applied {
		return nil, ErrPayoutConflict
	}

	p, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("payout paid",
		zap.String("payment", paymentID),
		zap.Int64("payoutCents", p.PayoutCents))
	return p, nil
}

// CancelPayout withdraws a pending request, returning the payout to
// released so it can be requested again later.
func (s *DefaultSettlementService) CancelPayout(ctx context.Context, paymentID string) (*models.Payment, error) {
	applied, err := s.Payments.UpdatePayoutGuarded(ctx, paymentID,
		[]models.PayoutStatus{models.PayoutRequested},
		models.PayoutReleased, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel payout request: %w", err)
	}
	if !applied {
		return nil, ErrPayoutConflict
	}

	s.Logger.Info("payout request cancelled", zap.String("payment", paymentID))
	return s.Payments.GetByID(ctx, paymentID)
}
