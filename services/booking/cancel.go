package booking

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"mentorhub/config"
	"mentorhub/models"
)

// RefundPercentage returns the refund tier for a cancellation happening
// `untilStart` before the session's scheduled start.
func RefundPercentage(rules config.BusinessRules, untilStart time.Duration) int {
	switch {
	case untilStart >= rules.FullRefundBefore:
		return 100
	case untilStart >= rules.HalfRefundBefore:
		return 50
	default:
		return 0
	}
}

// CancelSession cancels a pending or confirmed session, refunds per the
// cancellation tier, and releases the slot back to the ledger.
func (s *DefaultBookingService) CancelSession(ctx context.Context, sessionID, actor, reason string) (*models.Session, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cancel session: %w", err)
	}

	rules := config.Rules()
	pct := RefundPercentage(rules, time.Until(session.ScheduledStart))

	now := time.Now().UTC()
	applied, err := s.Sessions.UpdateStatusGuarded(ctx, sessionID,
		models.StatesAllowing(models.EventCancelled),
		models.SessionCancelled,
		bson.M{
			"cancel_reason": reason,
			"cancelled_by":  actor,
			"cancelled_at":  now,
		})
	if err != nil {
		return nil, fmt.Errorf("cancel session: %w", err)
	}
	if !applied {
		return nil, ErrNotCancellable
	}

	// Refund only applies once a payment has actually been captured; a
	// still-pending payment has nothing to give back.
	pay, err := s.Payments.GetBySessionID(ctx, sessionID)
	if err == nil && pct > 0 &&
		(pay.Status == models.PaymentCaptured || pay.Status == models.PaymentPartiallyRefunded) {
		if err := s.PaymentSvc.Refund(ctx, pay.ID, pct); err != nil {
			s.Logger.Error("cancellation refund failed",
				zap.String("session", sessionID),
				zap.String("payment", pay.ID),
				zap.Int("percentage", pct),
				zap.Error(err))
		}
	}

	if err := s.Slots.Release(ctx, session.SlotID); err != nil {
		s.Logger.Error("slot release on cancellation failed",
			zap.String("slot", session.SlotID), zap.Error(err))
	}

	s.Logger.Info("session cancelled",
		zap.String("session", sessionID),
		zap.String("actor", actor),
		zap.Int("refund_percentage", pct))

	session.Status = models.SessionCancelled
	session.CancelReason = reason
	session.CancelledBy = actor
	session.CancelledAt = &now
	return session, nil
}
