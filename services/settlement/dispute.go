package settlement

import (
	"context"
	"fmt"
	"time"

	"mentorhub/config"
	"mentorhub/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateDispute opens a dispute against a completed session and freezes
// the associated payout immediately, even mid-hold. The freeze is a
// guarded update racing against the release sweep; whichever side commits
// first determines whether the payout was frozen before or after release.
func (s *DefaultSettlementService) CreateDispute(ctx context.Context, sessionID, complainantID, reason string) (*models.Dispute, error) {
	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.SessionCompleted || sess.CompletedAt == nil {
		return nil, ErrSessionNotCompleted
	}

	now := time.Now().UTC()
	if now.After(sess.CompletedAt.Add(config.Rules().DisputeWindow)) {
		return nil, ErrDisputeWindowExpired
	}

	p, err := s.Payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment for session %s: %w", sessionID, err)
	}

	d := &models.Dispute{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		PaymentID:     p.ID,
		ComplainantID: complainantID,
		RespondentID:  sess.MentorID,
		Reason:        reason,
		Status:        models.DisputeOpen,
		CreatedAt:     now,
	}
	if err := s.Disputes.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create dispute: %w", err)
	}

	applied, err := s.Payments.UpdatePayoutGuarded(ctx, p.ID,
		[]models.PayoutStatus{models.PayoutPending, models.PayoutHeld, models.PayoutReleased, models.PayoutRequested},
		models.PayoutFrozen, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze payout for dispute %s: %w", d.ID, err)
	}
	if !applied {
		// Already paid, denied, or frozen by a concurrent dispute. The
		// dispute stands either way; resolution handles the money.
		s.Logger.Warn("dispute opened but payout not freezable",
			zap.String("dispute", d.ID),
			zap.String("payment", p.ID),
			zap.String("payoutStatus", string(p.PayoutStatus)))
	}

	s.Logger.Info("dispute opened",
		zap.String("dispute", d.ID),
		zap.String("session", sessionID),
		zap.String("complainant", complainantID))
	if s.Notifications != nil {
		s.Notifications.DisputeOpened(ctx, d.RespondentID, d.ID)
	}
	return d, nil
}

// ResolveDispute closes a dispute with a refund percentage. A nonzero
// percentage routes through the payment orchestrator, which restates the
// commission split over the unrefunded remainder; a full refund denies the
// payout there. Otherwise the payout thaws back to held so the normal
// release sweep picks it up.
func (s *DefaultSettlementService) ResolveDispute(ctx context.Context, disputeID string, refundPercent int, resolvedBy string) (*models.Dispute, error) {
	if refundPercent < 0 || refundPercent > 100 {
		return nil, fmt.Errorf("invalid refund percentage %d", refundPercent)
	}

	d, err := s.Disputes.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applied, err := s.Disputes.Resolve(ctx, disputeID, refundPercent, resolvedBy, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dispute: %w", err)
	}
	if !applied {
		return nil, ErrDisputeNotActive
	}

	if refundPercent > 0 {
		if err := s.Refunder.Refund(ctx, d.PaymentID, refundPercent); err != nil {
			return nil, fmt.Errorf("dispute %s resolved but refund failed: %w", disputeID, err)
		}
	}

	if refundPercent < 100 {
		// Thaw: back to held with the original clock, so an elapsed hold
		// releases on the next sweep.
		if _, err := s.Payments.UpdatePayoutGuarded(ctx, d.PaymentID,
			[]models.PayoutStatus{models.PayoutFrozen},
			models.PayoutHeld, nil); err != nil {
			s.Logger.Error("failed to thaw payout after dispute resolution",
				zap.String("dispute", disputeID),
				zap.String("payment", d.PaymentID), zap.Error(err))
		}
	}

	s.Logger.Info("dispute resolved",
		zap.String("dispute", disputeID),
		zap.Int("refundPercent", refundPercent),
		zap.String("resolvedBy", resolvedBy))
	if s.Notifications != nil {
		s.Notifications.DisputeResolved(ctx, d.ComplainantID, d.RespondentID, disputeID)
	}

	return s.Disputes.GetByID(ctx, disputeID)
}
