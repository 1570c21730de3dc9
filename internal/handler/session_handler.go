package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/internal/service"
	"github.com/noah-isme/study-tracker-api/pkg/response"
)

type sessionService interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	Get(ctx context.Context, id string) (*models.StudySession, error)
	Create(ctx context.Context, req service.CreateSessionRequest) (*models.StudySession, error)
	Update(ctx context.Context, id string, req service.UpdateSessionRequest) (*models.StudySession, error)
	Delete(ctx context.Context, id string) error
}

// SessionHandler handles study session endpoints.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(svc sessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// List godoc
// @Summary List study sessions
// @Tags Sessions
// @Produce json
// @Param subjectId query string false "Filter by subject"
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	filter, ok := sessionFilterFromQuery(c)
	if !ok {
		return
	}
	sessions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, map[string]interface{}{"count": len(sessions)})
}

// Get godoc
// @Summary Get study session by id
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Create godoc
// @Summary Record a study session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req service.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Update godoc
// @Summary Update study session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.UpdateSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [patch]
func (h *SessionHandler) Update(c *gin.Context) {
	var req service.UpdateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Delete godoc
// @Summary Delete study session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
