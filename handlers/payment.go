package handlers

import (
	"errors"
	"net/http"

	paymentRepo "mentorhub/database/repository/payment"
	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/services/payment"
	"mentorhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes payment orchestration endpoints.
type PaymentHandler struct {
	PaymentSvc payment.PaymentService
	Logger     *zap.Logger
}

func NewPaymentHandler(svc payment.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{PaymentSvc: svc, Logger: logger}
}

// CreateIntent handles POST /api/payments/intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var body struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	p, clientSecret, err := h.PaymentSvc.CreateIntent(c.Request.Context(), body.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, sessionRepo.ErrNotFound), errors.Is(err, paymentRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "session not found", err.Error())
		default:
			h.Logger.Error("CreateIntent failed", zap.String("session", body.SessionID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to create payment intent", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment":      p,
		"clientSecret": clientSecret,
	})
}

// ConfirmPayment handles POST /api/payments/confirm. A direct confirmation
// path for clients that poll instead of waiting on the gateway webhook;
// both converge on the same guarded capture.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var body struct {
		IntentID string `json:"intentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.PaymentSvc.Confirm(c.Request.Context(), body.IntentID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrIntentNotSucceeded):
			utils.JSONError(c, http.StatusConflict, "payment not completed", err.Error())
		case errors.Is(err, paymentRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "payment not found", err.Error())
		default:
			h.Logger.Error("ConfirmPayment failed", zap.String("intent", body.IntentID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to confirm payment", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// RefundPayment handles POST /api/payments/:id/refund.
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	paymentID := c.Param("id")
	var body struct {
		Percentage int `json:"percentage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.PaymentSvc.Refund(c.Request.Context(), paymentID, body.Percentage); err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidPercentage):
			utils.JSONError(c, http.StatusBadRequest, "invalid percentage", err.Error())
		case errors.Is(err, payment.ErrNotCaptured):
			utils.JSONError(c, http.StatusConflict, "payment not refundable", err.Error())
		case errors.Is(err, paymentRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "payment not found", err.Error())
		default:
			h.Logger.Error("RefundPayment failed", zap.String("payment", paymentID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to refund payment", err.Error())
		}
		return
	}

	p, err := h.PaymentSvc.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "refund applied but failed to reload payment", err.Error())
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetPayment handles GET /api/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID := c.Param("id")
	p, err := h.PaymentSvc.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "payment not found", err.Error())
			return
		}
		h.Logger.Error("GetPayment failed", zap.String("payment", paymentID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch payment", err.Error())
		return
	}
	c.JSON(http.StatusOK, p)
}
