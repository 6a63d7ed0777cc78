package booking

import (
	"context"
	"time"

	paymentRepo "mentorhub/database/repository/payment"
	sessionRepo "mentorhub/database/repository/session"
	slotRepo "mentorhub/database/repository/slot"
	"mentorhub/models"
	"mentorhub/services/notification"
	"mentorhub/services/payment"

	"go.uber.org/zap"
)

// RateSource resolves a mentor's session price. Mentor profiles are
// managed elsewhere; this is the narrow contract that layer exposes here.
type RateSource interface {
	SessionPriceCents(ctx context.Context, mentorID string, durationMinutes int) (cents int64, currency string, err error)
}

// BookingService creates sessions against held slots and owns the
// mentor-facing slot management operations.
type BookingService interface {
	BookSession(ctx context.Context, menteeID, mentorID, slotID string, durationMinutes int) (*models.Session, error)
	CancelSession(ctx context.Context, sessionID, actor, reason string) (*models.Session, error)
	GetAvailableSlots(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error)
	CreateTimeSlots(ctx context.Context, mentorID string, slots []models.TimeSlot) ([]string, error)
	DeleteTimeSlot(ctx context.Context, mentorID, slotID string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Slots         slotRepo.SlotRepository
	Sessions      sessionRepo.SessionRepository
	Payments      paymentRepo.PaymentRepository
	PaymentSvc    payment.PaymentService
	Rates         RateSource
	Notifications notification.NotificationService
	Logger        *zap.Logger
}
