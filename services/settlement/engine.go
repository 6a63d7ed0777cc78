package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mentorhub/config"
	disputeRepo "mentorhub/database/repository/dispute"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// OnSessionCompleted arms the hold clock: the mentor's share stays held
// until completedAt plus the configured hold period. Idempotent: a payout
// already past pending matches nothing and the call is a no-op.
func (s *DefaultSettlementService) OnSessionCompleted(ctx context.Context, sessionID string, completedAt time.Time) error {
	p, err := s.Payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load payment for session %s: %w", sessionID, err)
	}

	releaseAt := completedAt.Add(config.Rules().PayoutHold)
	applied, err := s.Payments.UpdatePayoutGuarded(ctx, p.ID,
		[]models.PayoutStatus{models.PayoutPending},
		models.PayoutHeld,
		bson.M{"hold_release_at": releaseAt},
	)
	if err != nil {
		return fmt.Errorf("failed to start payout hold: %w", err)
	}
	if !applied {
		s.Logger.Debug("payout hold already armed or superseded",
			zap.String("payment", p.ID), zap.String("payoutStatus", string(p.PayoutStatus)))
		return nil
	}

	s.Logger.Info("payout hold started",
		zap.String("payment", p.ID),
		zap.String("session", sessionID),
		zap.Time("releaseAt", releaseAt))
	return nil
}

// ReleaseDuePayouts sweeps held payments whose hold elapsed and releases
// those without an active dispute. A dispute opened between the query and
// the release is caught by the guarded update in CreateDispute: whichever
// write lands first wins, the other matches nothing.
func (s *DefaultSettlementService) ReleaseDuePayouts(ctx context.Context) error {
	due, err := s.Payments.FindReleasable(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to query releasable payouts: %w", err)
	}

	for i := range due {
		p := &due[i]
		if _, err := s.Disputes.FindActiveByPaymentID(ctx, p.ID); err == nil {
			// Active dispute; freeze rather than release so the sweep
			// stops re-examining it.
			if _, ferr := s.Payments.UpdatePayoutGuarded(ctx, p.ID,
				[]models.PayoutStatus{models.PayoutHeld},
				models.PayoutFrozen, nil); ferr != nil {
				s.Logger.Error("failed to freeze disputed payout",
					zap.String("payment", p.ID), zap.Error(ferr))
			}
			continue
		} else if !errors.Is(err, disputeRepo.ErrNotFound) {
			s.Logger.Error("dispute lookup failed during release sweep",
				zap.String("payment", p.ID), zap.Error(err))
			continue
		}

		applied, err := s.Payments.UpdatePayoutGuarded(ctx, p.ID,
			[]models.PayoutStatus{models.PayoutHeld},
			models.PayoutReleased, nil)
		if err != nil {
			s.Logger.Error("failed to release payout",
				zap.String("payment", p.ID), zap.Error(err))
			continue
		}
		if !applied {
			continue
		}

		s.Logger.Info("payout released",
			zap.String("payment", p.ID),
			zap.Int64("payoutCents", p.PayoutCents))
		if s.Notifications != nil {
			s.Notifications.PayoutReleased(ctx, p.MentorID, p.ID)
		}
	}
	return nil
}
