package handlers

import (
	"errors"
	"io"
	"net/http"

	"mentorhub/services/meeting"
	"mentorhub/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler terminates inbound webhooks from the payment gateway and
// the video provider. Both verify signatures over the raw body before any
// parsing, so the body is read here exactly once.
type WebhookHandler struct {
	PaymentSvc payment.PaymentService
	MeetingSvc meeting.MeetingService
	Logger     *zap.Logger
}

func NewWebhookHandler(paymentSvc payment.PaymentService, meetingSvc meeting.MeetingService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{PaymentSvc: paymentSvc, MeetingSvc: meetingSvc, Logger: logger}
}

// PaymentWebhook handles POST /webhooks/payment.
func (h *WebhookHandler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.PaymentSvc.HandleWebhook(c.Request.Context(), body, sig); err != nil {
		h.Logger.Warn("payment webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook rejected"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// MeetingWebhook handles POST /webhooks/meeting. A failed signature is a
// bare 401 with no detail; a url_validation event answers the challenge;
// everything else acknowledges with an empty 200 regardless of whether
// the event changed anything, so the provider never retries forever.
func (h *WebhookHandler) MeetingWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	timestamp := c.GetHeader("X-Timestamp")
	signature := c.GetHeader("X-Signature")

	result, err := h.MeetingSvc.HandleWebhook(c.Request.Context(), body, timestamp, signature)
	if err != nil {
		if errors.Is(err, meeting.ErrSignature) {
			c.Status(http.StatusUnauthorized)
			return
		}
		h.Logger.Error("meeting webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook processing failed"})
		return
	}

	if result != nil && result.Challenge != nil {
		c.JSON(http.StatusOK, result.Challenge)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
