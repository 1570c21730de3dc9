package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/internal/service"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
	"github.com/noah-isme/study-tracker-api/pkg/response"
)

type timerService interface {
	Current(ctx context.Context) (models.TimerView, error)
	Start(ctx context.Context, subjectID string) (models.TimerView, error)
	Pause(ctx context.Context) (models.TimerView, error)
	Stop(ctx context.Context, notes string) (*models.StudySession, error)
	Reset(ctx context.Context) error
}

// StopTimerRequest carries optional notes for the recorded session.
type StopTimerRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// TimerHandler exposes the study timer.
type TimerHandler struct {
	service timerService
}

// NewTimerHandler constructs a timer handler.
func NewTimerHandler(svc timerService) *TimerHandler {
	return &TimerHandler{service: svc}
}

// Current godoc
// @Summary Current timer state
// @Tags Timer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timer [get]
func (h *TimerHandler) Current(c *gin.Context) {
	view, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Start godoc
// @Summary Start or resume the timer
// @Tags Timer
// @Accept json
// @Produce json
// @Param payload body service.StartTimerRequest true "Subject to time"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timer/start [post]
func (h *TimerHandler) Start(c *gin.Context) {
	var req service.StartTimerRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.service.Start(c.Request.Context(), req.SubjectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Pause godoc
// @Summary Pause the timer
// @Tags Timer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timer/pause [post]
func (h *TimerHandler) Pause(c *gin.Context) {
	view, err := h.service.Pause(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Stop godoc
// @Summary Stop the timer and record the session
// @Tags Timer
// @Accept json
// @Produce json
// @Param payload body StopTimerRequest false "Session notes"
// @Success 201 {object} response.Envelope
// @Success 204
// @Router /timer/stop [post]
func (h *TimerHandler) Stop(c *gin.Context) {
	var req StopTimerRequest
	// An empty body means no notes.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Stop(c.Request.Context(), req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	if session == nil {
		response.NoContent(c)
		return
	}
	response.Created(c, session)
}

// Reset godoc
// @Summary Discard the timer
// @Tags Timer
// @Success 204
// @Router /timer/reset [post]
func (h *TimerHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
