package handlers

import (
	"errors"
	"net/http"
	"time"

	slotRepo "mentorhub/database/repository/slot"
	"mentorhub/models"
	"mentorhub/services/booking"
	"mentorhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking and slot management endpoints.
type BookingHandler struct {
	BookingSvc booking.BookingService
	Logger     *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{BookingSvc: svc, Logger: logger}
}

// BookSession handles POST /api/sessions.
func (h *BookingHandler) BookSession(c *gin.Context) {
	var body struct {
		MenteeID        string `json:"menteeId" binding:"required"`
		MentorID        string `json:"mentorId" binding:"required"`
		SlotID          string `json:"slotId" binding:"required"`
		DurationMinutes int    `json:"durationMinutes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.BookingSvc.BookSession(c.Request.Context(), body.MenteeID, body.MentorID, body.SlotID, body.DurationMinutes)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotUnavailable):
			utils.JSONError(c, http.StatusConflict, "slot unavailable", err.Error())
		case errors.Is(err, booking.ErrAdvanceWindow), errors.Is(err, booking.ErrDurationMismatch):
			utils.JSONError(c, http.StatusUnprocessableEntity, "booking rejected", err.Error())
		case errors.Is(err, slotRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "slot not found", err.Error())
		default:
			h.Logger.Error("BookSession failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to book session", err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, session)
}

// CancelSession handles POST /api/sessions/:id/cancel.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("id")
	var body struct {
		Actor  string `json:"actor" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.BookingSvc.CancelSession(c.Request.Context(), sessionID, body.Actor, body.Reason)
	if err != nil {
		if errors.Is(err, booking.ErrNotCancellable) {
			utils.JSONError(c, http.StatusConflict, "session not cancellable", err.Error())
			return
		}
		h.Logger.Error("CancelSession failed", zap.String("session", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel session", err.Error())
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetAvailableSlots handles GET /api/mentors/:id/slots.
func (h *BookingHandler) GetAvailableSlots(c *gin.Context) {
	mentorID := c.Param("id")

	from := time.Now().UTC()
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid from timestamp", err.Error())
			return
		}
		from = t
	}
	var to time.Time
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid to timestamp", err.Error())
			return
		}
		to = t
	}

	slots, err := h.BookingSvc.GetAvailableSlots(c.Request.Context(), mentorID, from, to)
	if err != nil {
		h.Logger.Error("GetAvailableSlots failed", zap.String("mentor", mentorID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch slots", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// CreateTimeSlots handles PUT /api/mentors/:id/slots.
func (h *BookingHandler) CreateTimeSlots(c *gin.Context) {
	mentorID := c.Param("id")
	var body models.CreateTimeSlotsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ids, err := h.BookingSvc.CreateTimeSlots(c.Request.Context(), mentorID, body.TimeSlots)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBatchTooLarge), errors.Is(err, booking.ErrDurationMismatch):
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid timeslots", err.Error())
		default:
			h.Logger.Error("CreateTimeSlots failed", zap.String("mentor", mentorID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to create timeslots", err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slotIds": ids})
}

// DeleteTimeSlot handles DELETE /api/mentors/:id/slots/:slotID.
func (h *BookingHandler) DeleteTimeSlot(c *gin.Context) {
	mentorID := c.Param("id")
	slotID := c.Param("slotID")

	if err := h.BookingSvc.DeleteTimeSlot(c.Request.Context(), mentorID, slotID); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "slot not found", err.Error())
		case errors.Is(err, slotRepo.ErrSlotBooked):
			utils.JSONError(c, http.StatusConflict, "slot is booked", err.Error())
		default:
			h.Logger.Error("DeleteTimeSlot failed", zap.String("slot", slotID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to delete timeslot", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
