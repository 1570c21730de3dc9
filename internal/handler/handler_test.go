package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/internal/service"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
)

type statsServiceStub struct {
	err error
}

func (s statsServiceStub) Overall(context.Context) (*models.OverallStats, error) {
	return nil, s.err
}

func (s statsServiceStub) Weekly(context.Context) ([]models.DailyStats, error) {
	return nil, s.err
}

func (s statsServiceStub) Subject(context.Context, string) (*models.SubjectStats, error) {
	return nil, s.err
}

type timerServiceStub struct {
	session   *models.StudySession
	stopNotes string
}

func (s *timerServiceStub) Current(context.Context) (models.TimerView, error) {
	return models.TimerView{}, nil
}

func (s *timerServiceStub) Start(context.Context, string) (models.TimerView, error) {
	return models.TimerView{}, nil
}

func (s *timerServiceStub) Pause(context.Context) (models.TimerView, error) {
	return models.TimerView{}, nil
}

func (s *timerServiceStub) Stop(_ context.Context, notes string) (*models.StudySession, error) {
	s.stopNotes = notes
	return s.session, nil
}

func (s *timerServiceStub) Reset(context.Context) error {
	return nil
}

func TestStatsHandlerInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStatsHandler(statsServiceStub{err: appErrors.Clone(appErrors.ErrInternal, "failed to read study records")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/stats", nil)

	handler.Overall(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestStatsHandlerSubjectNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStatsHandler(statsServiceStub{err: appErrors.Clone(appErrors.ErrNotFound, "subject not found")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/stats/subject/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	handler.Subject(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimerHandlerStopRecordsSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &timerServiceStub{session: &models.StudySession{ID: "s1", SubjectID: "math", Duration: 90}}
	handler := NewTimerHandler(stub)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/timer/stop", strings.NewReader(`{"notes":"done"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Stop(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "done", stub.stopNotes)
	assert.Contains(t, w.Body.String(), `"duration":90`)
}

func TestTimerHandlerStopRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimerHandler(&timerServiceStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/timer/stop", strings.NewReader(`{"notes":`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Stop(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name   string
		checks map[string]ReadinessCheck
		status int
	}{
		{name: "all up", checks: map[string]ReadinessCheck{"memory": ok}, status: http.StatusOK},
		{name: "redis down", checks: map[string]ReadinessCheck{"postgres": ok, "redis": down}, status: http.StatusServiceUnavailable},
		{name: "no checks", checks: nil, status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewMetricsHandler(nil, tc.checks)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/ready", nil)

			handler.Ready(c)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/stats", http.StatusOK, 5*time.Millisecond)
	handler := NewMetricsHandler(metrics, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/metrics", nil)

	handler.Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/api/stats",status="200"} 1`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSPAFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	r := gin.New()
	r.NoRoute(SPAFallback(dir, "/api"))

	w := performRequest(r, http.MethodGet, "/app.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")

	w = performRequest(r, http.MethodGet, "/stats/weekly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app</html>")

	w = performRequest(r, http.MethodGet, "/api/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodPost, "/stats", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
