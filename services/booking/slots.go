package booking

import (
	"context"
	"fmt"
	"time"

	"mentorhub/config"
	"mentorhub/models"
)

// GetAvailableSlots lists a mentor's unbooked slots in the range, clamped
// to the query horizon.
func (s *DefaultBookingService) GetAvailableSlots(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error) {
	rules := config.Rules()

	now := time.Now().UTC()
	if from.Before(now) {
		from = now
	}
	if horizon := now.Add(rules.SlotHorizon); to.After(horizon) || to.IsZero() {
		to = horizon
	}

	slots, err := s.Slots.GetAvailable(ctx, mentorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get available slots: %w", err)
	}
	return slots, nil
}

// CreateTimeSlots batch-creates slots for a mentor.
func (s *DefaultBookingService) CreateTimeSlots(ctx context.Context, mentorID string, slots []models.TimeSlot) ([]string, error) {
	rules := config.Rules()

	if len(slots) == 0 {
		return nil, nil
	}
	if len(slots) > rules.SlotBatchLimit {
		return nil, ErrBatchTooLarge
	}
	for i := range slots {
		if !models.ValidDuration(slots[i].DurationMinutes) {
			return nil, ErrDurationMismatch
		}
		slots[i].MentorID = mentorID
	}

	ids, err := s.Slots.CreateMany(ctx, slots)
	if err != nil {
		return nil, fmt.Errorf("create timeslots: %w", err)
	}
	return ids, nil
}

// DeleteTimeSlot removes an unbooked slot.
func (s *DefaultBookingService) DeleteTimeSlot(ctx context.Context, mentorID, slotID string) error {
	if err := s.Slots.DeleteByID(ctx, mentorID, slotID); err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return nil
}
