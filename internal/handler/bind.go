package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-tracker-api/internal/models"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
	"github.com/noah-isme/study-tracker-api/pkg/response"
)

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// sessionFilterFromQuery reads subjectId, from and to. Malformed dates are a 400.
func sessionFilterFromQuery(c *gin.Context) (models.SessionFilter, bool) {
	filter := models.SessionFilter{SubjectID: c.Query("subjectId")}
	bounds := []struct {
		key  string
		dest *models.Date
	}{{"from", &filter.From}, {"to", &filter.To}}
	for _, b := range bounds {
		raw := c.Query(b.key)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, b.key+" must be YYYY-MM-DD"))
			return filter, false
		}
		*b.dest = d
	}
	return filter, true
}
