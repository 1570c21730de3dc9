package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/internal/service"
	"github.com/noah-isme/study-tracker-api/pkg/response"
)

type exportService interface {
	SessionsCSV(ctx context.Context, filter models.SessionFilter) (*service.ExportFile, error)
	ReportPDF(ctx context.Context) (*service.ExportFile, error)
}

// ExportHandler serves downloadable exports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// SessionsCSV godoc
// @Summary Download sessions as CSV
// @Tags Exports
// @Produce text/csv
// @Param subjectId query string false "Filter by subject"
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /exports/sessions.csv [get]
func (h *ExportHandler) SessionsCSV(c *gin.Context) {
	filter, ok := sessionFilterFromQuery(c)
	if !ok {
		return
	}
	file, err := h.service.SessionsCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// ReportPDF godoc
// @Summary Download the statistics report as PDF
// @Tags Exports
// @Produce application/pdf
// @Success 200 {file} file
// @Router /exports/report.pdf [get]
func (h *ExportHandler) ReportPDF(c *gin.Context) {
	file, err := h.service.ReportPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
