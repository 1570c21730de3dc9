package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/pkg/response"
)

type statsService interface {
	Overall(ctx context.Context) (*models.OverallStats, error)
	Weekly(ctx context.Context) ([]models.DailyStats, error)
	Subject(ctx context.Context, subjectID string) (*models.SubjectStats, error)
}

// StatsHandler exposes the aggregation views.
type StatsHandler struct {
	service statsService
}

// NewStatsHandler constructs a stats handler.
func NewStatsHandler(svc statsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Overall godoc
// @Summary Overall study statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *StatsHandler) Overall(c *gin.Context) {
	stats, err := h.service.Overall(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Weekly godoc
// @Summary Study time for each of the last seven days
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/weekly [get]
func (h *StatsHandler) Weekly(c *gin.Context) {
	days, err := h.service.Weekly(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days)
}

// Subject godoc
// @Summary Totals for one subject
// @Tags Stats
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /stats/subject/{id} [get]
func (h *StatsHandler) Subject(c *gin.Context) {
	stats, err := h.service.Subject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
