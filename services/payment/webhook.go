package payment

import (
	"context"
	"encoding/json"
	"fmt"

	paymentRepo "mentorhub/database/repository/payment"
	"mentorhub/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// HandleWebhook verifies and applies a gateway webhook delivery. The
// signature check runs before anything else; an invalid signature mutates
// nothing. Verified events are deduplicated by their provider-assigned id
// and every state move below is additionally guarded by a terminal-state
// check, so at-least-once redelivery never double-captures.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.WebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	seen, err := s.Deduper.Seen(ctx, event.ID)
	if err != nil {
		// Dedup store outage: fall through to terminal-state checks.
		s.Logger.Warn("event dedup check failed, relying on state guards", zap.Error(err))
	} else if seen {
		s.Logger.Info("duplicate gateway event ignored", zap.String("event", event.ID))
		return nil
	}

	switch event.Type {
	case "payment_intent.succeeded":
		err = s.onIntentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		err = s.onIntentFailed(ctx, event)
	case "charge.refunded":
		// Refunds originate from our own Refund call; the confirmation
		// event is informational.
		s.Logger.Info("refund confirmed by gateway", zap.String("event", event.ID))
	default:
		s.Logger.Info("unhandled gateway event acknowledged",
			zap.String("event", event.ID),
			zap.String("type", string(event.Type)))
	}
	if err != nil {
		// Not marked seen: the provider's redelivery retries processing.
		return err
	}

	if merr := s.Deduper.MarkSeen(ctx, event.ID); merr != nil {
		// The state guards absorb the resulting duplicate processing.
		s.Logger.Warn("failed to record processed event id",
			zap.String("event", event.ID), zap.Error(merr))
	}
	return nil
}

func (s *DefaultPaymentService) onIntentSucceeded(ctx context.Context, event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("failed to parse payment_intent.succeeded payload: %w", err)
	}

	p, err := s.Payments.GetByIntentID(ctx, pi.ID)
	if err != nil {
		if err == paymentRepo.ErrNotFound {
			s.Logger.Warn("gateway event for unknown intent", zap.String("intent", pi.ID))
			return nil
		}
		return err
	}

	transactionID := ""
	if pi.LatestCharge != nil {
		transactionID = pi.LatestCharge.ID
	}
	return s.capture(ctx, p, transactionID)
}

func (s *DefaultPaymentService) onIntentFailed(ctx context.Context, event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("failed to parse payment_intent.payment_failed payload: %w", err)
	}

	p, err := s.Payments.GetByIntentID(ctx, pi.ID)
	if err != nil {
		if err == paymentRepo.ErrNotFound {
			s.Logger.Warn("gateway event for unknown intent", zap.String("intent", pi.ID))
			return nil
		}
		return err
	}

	applied, err := s.Payments.UpdateStatusGuarded(ctx, p.ID,
		[]models.PaymentStatus{models.PaymentPending, models.PaymentAuthorized},
		models.PaymentFailed, nil)
	if err != nil {
		return err
	}
	if !applied {
		s.Logger.Info("stale failure event ignored", zap.String("payment", p.ID))
	}
	return nil
}
