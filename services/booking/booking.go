package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mentorhub/config"
	"mentorhub/models"
)

// BookSession reserves the slot and creates the session and its payment
// placeholder. The reservation is the pivot of a saga spanning two
// resources without a shared transaction: any failure after the slot is
// won triggers a compensating release, as mandatory cleanup.
func (s *DefaultBookingService) BookSession(ctx context.Context, menteeID, mentorID, slotID string, durationMinutes int) (*models.Session, error) {
	rules := config.Rules()

	if !models.ValidDuration(durationMinutes) {
		return nil, ErrDurationMismatch
	}

	slot, err := s.Slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("book session: %w", err)
	}
	if slot.MentorID != mentorID || slot.DurationMinutes != durationMinutes {
		return nil, ErrDurationMismatch
	}

	// The advance window is measured against the slot's start at call
	// time, so a slot created close to "now" is simply unbookable.
	if time.Until(slot.StartTime) < rules.AdvanceWindow {
		return nil, ErrAdvanceWindow
	}

	priceCents, currency, err := s.Rates.SessionPriceCents(ctx, mentorID, durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("book session: failed to resolve price: %w", err)
	}

	sessionID := uuid.New().String()
	won, err := s.Slots.Reserve(ctx, slotID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("book session: %w", err)
	}
	if !won {
		return nil, ErrSlotUnavailable
	}

	session := &models.Session{
		ID:              sessionID,
		MenteeID:        menteeID,
		MentorID:        mentorID,
		SlotID:          slotID,
		DurationMinutes: durationMinutes,
		ScheduledStart:  slot.StartTime,
		ScheduledEnd:    slot.EndTime(),
		Status:          models.SessionPending,
		PriceCents:      priceCents,
		Currency:        currency,
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		s.compensate(slotID, sessionID, "")
		return nil, fmt.Errorf("book session: %w", err)
	}

	pay := &models.Payment{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		MenteeID:     menteeID,
		MentorID:     mentorID,
		GrossCents:   priceCents,
		Currency:     currency,
		Status:       models.PaymentPending,
		PayoutStatus: models.PayoutPending,
	}
	if err := s.Payments.Create(ctx, pay); err != nil {
		s.compensate(slotID, sessionID, sessionID)
		return nil, fmt.Errorf("book session: %w", err)
	}
	session.PaymentID = pay.ID

	if s.Notifications != nil {
		s.Notifications.SessionBooked(ctx, menteeID, mentorID, sessionID)
	}

	s.Logger.Info("session booked",
		zap.String("session", sessionID),
		zap.String("mentee", menteeID),
		zap.String("mentor", mentorID),
		zap.String("slot", slotID),
		zap.Int64("price_cents", priceCents))
	return session, nil
}

// compensate releases the reserved slot (and removes a half-created
// session) after a downstream failure. It runs on a fresh context so the
// cleanup survives cancellation of the request that triggered it.
func (s *DefaultBookingService) compensate(slotID, sessionID, createdSessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Slots.Release(ctx, slotID); err != nil {
		s.Logger.Error("compensating slot release failed",
			zap.String("slot", slotID),
			zap.String("session", sessionID),
			zap.Error(err))
	}
	if createdSessionID != "" {
		if err := s.Sessions.Delete(ctx, createdSessionID); err != nil {
			s.Logger.Error("compensating session delete failed",
				zap.String("session", createdSessionID), zap.Error(err))
		}
	}
}
