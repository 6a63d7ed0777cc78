package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates every route handler so route registration
// takes one argument.
type HandlerBundle struct {
	// Booking and slot management.
	BookSession       gin.HandlerFunc
	CancelSession     gin.HandlerFunc
	GetAvailableSlots gin.HandlerFunc
	CreateTimeSlots   gin.HandlerFunc
	DeleteTimeSlot    gin.HandlerFunc

	// Payments.
	CreateIntent   gin.HandlerFunc
	ConfirmPayment gin.HandlerFunc
	RefundPayment  gin.HandlerFunc
	GetPayment     gin.HandlerFunc

	// Meeting lifecycle and recordings.
	EndMeeting         gin.HandlerFunc
	RetryTranscription gin.HandlerFunc

	// Settlement.
	RequestPayout  gin.HandlerFunc
	ProcessPayout  gin.HandlerFunc
	CancelPayout   gin.HandlerFunc
	CreateDispute  gin.HandlerFunc
	ResolveDispute gin.HandlerFunc

	// Webhooks.
	PaymentWebhook gin.HandlerFunc
	MeetingWebhook gin.HandlerFunc
}
