package handlers

import (
	"errors"
	"net/http"

	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/services/meeting"
	"mentorhub/services/recording"
	"mentorhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MeetingHandler exposes meeting lifecycle and recording endpoints.
type MeetingHandler struct {
	MeetingSvc  meeting.MeetingService
	PipelineSvc recording.PipelineService
	Logger      *zap.Logger
}

func NewMeetingHandler(meetingSvc meeting.MeetingService, pipelineSvc recording.PipelineService, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{MeetingSvc: meetingSvc, PipelineSvc: pipelineSvc, Logger: logger}
}

// EndMeeting handles POST /api/sessions/:id/end. Authoritative end: the
// session completes even if the provider webhook never arrives.
func (h *MeetingHandler) EndMeeting(c *gin.Context) {
	sessionID := c.Param("id")
	var body struct {
		Reason string `json:"reason"`
	}
	// Body is optional for this endpoint.
	_ = c.ShouldBindJSON(&body)

	session, err := h.MeetingSvc.EndMeeting(c.Request.Context(), sessionID, body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, sessionRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "session not found", err.Error())
		default:
			h.Logger.Error("EndMeeting failed", zap.String("session", sessionID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to end meeting", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// RetryTranscription handles POST /api/sessions/:id/recording/retry. The
// manual escape hatch for a recording pipeline that exhausted its
// automatic attempts.
func (h *MeetingHandler) RetryTranscription(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.PipelineSvc.Retry(c.Request.Context(), sessionID); err != nil {
		switch {
		case errors.Is(err, sessionRepo.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "session not found", err.Error())
		case errors.Is(err, recording.ErrNotIngested):
			utils.JSONError(c, http.StatusConflict, "no recording to process", err.Error())
		default:
			h.Logger.Error("RetryTranscription failed", zap.String("session", sessionID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "recording retry failed", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}
