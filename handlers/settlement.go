package handlers

import (
	"errors"
	"net/http"

	disputeRepo "mentorhub/database/repository/dispute"
	paymentRepo "mentorhub/database/repository/payment"
	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/services/settlement"
	"mentorhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SettlementHandler exposes payout and dispute endpoints.
type SettlementHandler struct {
	SettlementSvc settlement.SettlementService
	Logger        *zap.Logger
}

func NewSettlementHandler(svc settlement.SettlementService, logger *zap.Logger) *SettlementHandler {
	return &SettlementHandler{SettlementSvc: svc, Logger: logger}
}

// RequestPayout handles POST /api/payouts/:id/request.
func (h *SettlementHandler) RequestPayout(c *gin.Context) {
	paymentID := c.Param("id")
	var body struct {
		MentorID string `json:"mentorId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	p, err := h.SettlementSvc.RequestPayout(c.Request.Context(), paymentID, body.MentorID)
	if err != nil {
		h.payoutError(c, paymentID, "RequestPayout", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ProcessPayout handles POST /api/payouts/:id/process.
func (h *SettlementHandler) ProcessPayout(c *gin.Context) {
	paymentID := c.Param("id")
	p, err := h.SettlementSvc.ProcessPayout(c.Request.Context(), paymentID)
	if err != nil {
		h.payoutError(c, paymentID, "ProcessPayout", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CancelPayout handles POST /api/payouts/:id/cancel.
func (h *SettlementHandler) CancelPayout(c *gin.Context) {
	paymentID := c.Param("id")
	p, err := h.SettlementSvc.CancelPayout(c.Request.Context(), paymentID)
	if err != nil {
		h.payoutError(c, paymentID, "CancelPayout", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *SettlementHandler) payoutError(c *gin.Context, paymentID, op string, err error) {
	switch {
	case errors.Is(err, settlement.ErrPayoutConflict):
		utils.JSONError(c, http.StatusConflict, "payout state conflict", err.Error())
	case errors.Is(err, paymentRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "payment not found", err.Error())
	default:
		h.Logger.Error(op+" failed", zap.String("payment", paymentID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "payout operation failed", err.Error())
	}
}

// CreateDispute handles POST /api/disputes.
func (h *SettlementHandler) CreateDispute(c *gin.Context) {
	var body struct {
		SessionID     string `json:"sessionId" binding:"required"`
		ComplainantID string `json:"complainantId" binding:"required"`
		Reason        string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	d, err := h.SettlementSvc.CreateDispute(c.Request.Context(), body.SessionID, body.ComplainantID, body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrSessionNotCompleted):
			utils.JSONError(c, http.StatusConflict, "session not completed", err.Error())
		case errors.Is(err, settlement.ErrDisputeWindowExpired):
			utils.JSONError(c, http.StatusUnprocessableEntity, "dispute window expired", err.Error())
		case errors.Is(err, sessionRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "session not found", err.Error())
		default:
			h.Logger.Error("CreateDispute failed", zap.String("session", body.SessionID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to create dispute", err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, d)
}

// ResolveDispute handles POST /api/disputes/:id/resolve.
func (h *SettlementHandler) ResolveDispute(c *gin.Context) {
	disputeID := c.Param("id")
	var body struct {
		RefundPercent int    `json:"refundPercent"`
		ResolvedBy    string `json:"resolvedBy" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	d, err := h.SettlementSvc.ResolveDispute(c.Request.Context(), disputeID, body.RefundPercent, body.ResolvedBy)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrDisputeNotActive):
			utils.JSONError(c, http.StatusConflict, "dispute already resolved", err.Error())
		case errors.Is(err, disputeRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "dispute not found", err.Error())
		default:
			h.Logger.Error("ResolveDispute failed", zap.String("dispute", disputeID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to resolve dispute", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, d)
}
