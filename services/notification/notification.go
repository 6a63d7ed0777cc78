package notification

import "context"

func (s *DefaultNotificationService) SessionBooked(ctx context.Context, menteeID, mentorID, sessionID string) {
	data := map[string]string{"type": "session_booked", "sessionId": sessionID}
	s.push(ctx, menteeID, "Session booked", "Your mentorship session is reserved. Complete payment to confirm it.", data)
	s.push(ctx, mentorID, "New booking", "A mentee has booked one of your time slots.", data)
}

func (s *DefaultNotificationService) PaymentConfirmed(ctx context.Context, menteeID, sessionID string) {
	s.push(ctx, menteeID, "Session confirmed", "Payment received. Your session is confirmed and the meeting link is on its way.", map[string]string{
		"type":      "payment_confirmed",
		"sessionId": sessionID,
	})
}

func (s *DefaultNotificationService) SessionCompleted(ctx context.Context, menteeID, mentorID, sessionID string) {
	data := map[string]string{"type": "session_completed", "sessionId": sessionID}
	s.push(ctx, menteeID, "Session completed", "Thanks for attending! A recording summary will be available soon.", data)
	s.push(ctx, mentorID, "Session completed", "Your session has ended. Payout starts its holding period now.", data)
}

func (s *DefaultNotificationService) PayoutReleased(ctx context.Context, mentorID, paymentID string) {
	s.push(ctx, mentorID, "Payout released", "Your session earnings are now available for withdrawal.", map[string]string{
		"type":      "payout_released",
		"paymentId": paymentID,
	})
}

func (s *DefaultNotificationService) DisputeOpened(ctx context.Context, respondentID, disputeID string) {
	s.push(ctx, respondentID, "Dispute opened", "A dispute was raised on one of your sessions. Payout is on hold until it resolves.", map[string]string{
		"type":      "dispute_opened",
		"disputeId": disputeID,
	})
}

func (s *DefaultNotificationService) DisputeResolved(ctx context.Context, complainantID, respondentID, disputeID string) {
	data := map[string]string{"type": "dispute_resolved", "disputeId": disputeID}
	s.push(ctx, complainantID, "Dispute resolved", "Your dispute has been reviewed and resolved.", data)
	s.push(ctx, respondentID, "Dispute resolved", "The dispute on your session has been resolved.", data)
}
