package payment

import (
	"context"
	"fmt"

	"mentorhub/config"
	paymentRepo "mentorhub/database/repository/payment"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// CreateIntent creates (or re-creates, idempotently) the gateway intent
// for the session's payment and returns the client secret the mentee's
// client needs to complete the charge.
func (s *DefaultPaymentService) CreateIntent(ctx context.Context, sessionID string) (*models.Payment, string, error) {
	p, err := s.Payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, "", fmt.Errorf("create intent: %w", err)
	}

	intentID, clientSecret, err := s.Gateway.CreateIntent(ctx, p)
	if err != nil {
		return nil, "", fmt.Errorf("create intent: %w", err)
	}
	if err := s.Payments.SetIntentID(ctx, p.ID, intentID); err != nil {
		return nil, "", fmt.Errorf("create intent: %w", err)
	}
	p.IntentID = intentID
	return p, clientSecret, nil
}

// Confirm reconciles the gateway intent and, when it has succeeded,
// captures the payment and confirms the session.
func (s *DefaultPaymentService) Confirm(ctx context.Context, intentID string) (*models.Session, error) {
	p, err := s.Payments.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}

	info, err := s.Gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	if info.Status != "succeeded" {
		return nil, ErrIntentNotSucceeded
	}

	if err := s.capture(ctx, p, info.TransactionID); err != nil {
		return nil, err
	}
	return s.Sessions.GetByID(ctx, p.SessionID)
}

// capture marks a payment captured, stamps the commission split at the
// current rate, and moves the session to confirmed. Both writes are
// guarded, so re-applying capture to an already-captured payment is a
// no-op rather than a double move.
func (s *DefaultPaymentService) capture(ctx context.Context, p *models.Payment, transactionID string) error {
	rules := config.Rules()
	commission, payout := models.SplitAmount(p.GrossCents, rules.CommissionRate)

	applied, err := s.Payments.MarkCaptured(ctx, p.ID, transactionID, commission, payout, rules.CommissionRate)
	if err != nil {
		return fmt.Errorf("capture payment %s: %w", p.ID, err)
	}
	if !applied {
		s.Logger.Info("payment already captured, skipping",
			zap.String("payment", p.ID))
		return nil
	}

	confirmed, err := s.Sessions.UpdateStatusGuarded(ctx, p.SessionID,
		models.StatesAllowing(models.EventPaymentConfirmed), models.SessionConfirmed, nil)
	if err != nil {
		return fmt.Errorf("confirm session %s: %w", p.SessionID, err)
	}
	if !confirmed {
		s.Logger.Warn("session not in pending state, confirmation skipped",
			zap.String("session", p.SessionID))
		return nil
	}

	s.Logger.Info("payment captured, session confirmed",
		zap.String("payment", p.ID),
		zap.String("session", p.SessionID),
		zap.Int64("gross_cents", p.GrossCents),
		zap.Int64("commission_cents", commission),
		zap.Int64("payout_cents", payout))

	if err := s.Enqueuer.EnqueueMeetingCreate(ctx, p.SessionID); err != nil {
		// The periodic sweep is not a fallback here; surface it loudly.
		s.Logger.Error("failed to enqueue meeting creation",
			zap.String("session", p.SessionID), zap.Error(err))
	}
	if s.Notifications != nil {
		s.Notifications.PaymentConfirmed(ctx, p.MenteeID, p.SessionID)
	}
	return nil
}

// Refund issues a percentage-based refund against the captured amount.
// A zero percentage is a recorded no-op (the <24h cancellation tier).
func (s *DefaultPaymentService) Refund(ctx context.Context, paymentID string, percentage int) error {
	if percentage < 0 || percentage > 100 {
		return ErrInvalidPercentage
	}
	if percentage == 0 {
		return nil
	}

	p, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}
	switch p.Status {
	case models.PaymentCaptured, models.PaymentPartiallyRefunded:
	case models.PaymentRefunded:
		// Terminal: replays of a full refund change nothing.
		return nil
	default:
		return ErrNotCaptured
	}

	refundCents := p.GrossCents * int64(percentage) / 100
	if remaining := p.GrossCents - p.RefundedCents; refundCents > remaining {
		refundCents = remaining
	}
	if refundCents == 0 {
		return nil
	}

	refundID, err := s.Gateway.Refund(ctx, p.IntentID, refundCents)
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}

	totalRefunded := p.RefundedCents + refundCents
	newStatus := models.PaymentPartiallyRefunded
	if totalRefunded >= p.GrossCents {
		newStatus = models.PaymentRefunded
	}

	// The split is restated over the unrefunded remainder at the rate
	// stamped at capture time.
	remaining := p.GrossCents - totalRefunded
	commission, payout := models.SplitAmount(remaining, p.CommissionRate)

	extra := bson.M{
		"refunded_cents":   totalRefunded,
		"commission_cents": commission,
		"payout_cents":     payout,
	}
	applied, err := s.Payments.UpdateStatusGuarded(ctx, p.ID,
		[]models.PaymentStatus{models.PaymentCaptured, models.PaymentPartiallyRefunded},
		newStatus, extra)
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}
	if !applied {
		s.Logger.Warn("refund recorded at gateway but payment state moved concurrently",
			zap.String("payment", p.ID), zap.String("refund", refundID))
		return nil
	}

	if newStatus == models.PaymentRefunded {
		// Nothing left to pay out.
		if _, err := s.Payments.UpdatePayoutGuarded(ctx, p.ID,
			[]models.PayoutStatus{models.PayoutPending, models.PayoutHeld, models.PayoutFrozen},
			models.PayoutDenied, nil); err != nil {
			return fmt.Errorf("refund: %w", err)
		}
	}

	s.Logger.Info("refund issued",
		zap.String("payment", p.ID),
		zap.String("refund", refundID),
		zap.Int("percentage", percentage),
		zap.Int64("refund_cents", refundCents))
	return nil
}

func (s *DefaultPaymentService) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	p, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		if err == paymentRepo.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}
