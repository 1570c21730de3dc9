package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/internal/repository"
	"github.com/noah-isme/study-tracker-api/internal/service"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}

func buildStudyRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	validate := service.NewValidator()
	subjects := service.NewSubjectService(store.Subjects(), validate, zap.NewNop())
	sessions := service.NewSessionService(store.Sessions(), validate, zap.NewNop())
	_, err := subjects.SeedDefaults(context.Background())
	require.NoError(t, err)

	stats := service.NewStatsService(store, nil, service.StatsServiceConfig{Location: time.UTC}, nil)
	timer := service.NewTimerService(service.TimerServiceParams{
		Store:    repository.NewMemoryTimerStore(),
		Subjects: subjects,
		Sessions: sessions,
		Location: time.UTC,
	})
	exports := service.NewExportService(store, service.ExportConfig{Location: time.UTC}, nil, nil, nil)

	r := gin.New()
	Routes{
		Subjects: NewSubjectHandler(subjects),
		Sessions: NewSessionHandler(sessions),
		Stats:    NewStatsHandler(stats),
		Timer:    NewTimerHandler(timer),
		Exports:  NewExportHandler(exports),
	}.Register(r.Group("/api"))
	r.NoRoute(SPAFallback("", "/api"))
	return r
}

func firstSubject(t *testing.T, r http.Handler) models.Subject {
	t.Helper()
	w := performRequest(r, http.MethodGet, "/api/subjects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subjects []models.Subject
	decode(t, w, &subjects)
	require.NotEmpty(t, subjects)
	return subjects[0]
}

func TestSubjectRoutes(t *testing.T) {
	r := buildStudyRouter(t)

	w := performRequest(r, http.MethodPost, "/api/subjects", map[string]string{"name": "Chemistry", "color": "#22C55E"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Subject
	decode(t, w, &created)
	assert.Equal(t, "#22c55e", created.Color)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = performRequest(r, http.MethodPatch, "/api/subjects/"+created.ID, map[string]string{"name": "Organic Chemistry"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Subject
	decode(t, w, &updated)
	assert.Equal(t, "Organic Chemistry", updated.Name)
	assert.Equal(t, "#22c55e", updated.Color)

	w = performRequest(r, http.MethodPost, "/api/subjects", map[string]string{"name": "Art", "color": "red"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w = performRequest(r, http.MethodPost, "/api/subjects", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 2; i++ {
		w = performRequest(r, http.MethodDelete, "/api/subjects/"+created.ID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	w = performRequest(r, http.MethodGet, "/api/subjects/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	env = decode(t, w, nil)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestSessionRoutes(t *testing.T) {
	r := buildStudyRouter(t)
	subject := firstSubject(t, r)

	w := performRequest(r, http.MethodPost, "/api/sessions", map[string]interface{}{
		"subjectId": subject.ID, "duration": 1500, "date": "2026-10-10", "notes": "review",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.StudySession
	decode(t, w, &created)
	assert.NotEmpty(t, created.ID)

	w = performRequest(r, http.MethodPost, "/api/sessions", map[string]interface{}{
		"subjectId": subject.ID, "duration": 60, "date": "2026-10-12",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(r, http.MethodPost, "/api/sessions", map[string]interface{}{
		"subjectId": subject.ID, "duration": -5, "date": "2026-10-12",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/api/sessions?from=2026-10-11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.StudySession
	env := decode(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, models.MustParseDate("2026-10-12"), listed[0].Date)
	assert.Equal(t, float64(1), env.Meta["count"])

	w = performRequest(r, http.MethodGet, "/api/sessions?subjectId="+subject.ID, nil)
	decode(t, w, &listed)
	require.Len(t, listed, 2)
	assert.Equal(t, models.MustParseDate("2026-10-12"), listed[0].Date)

	w = performRequest(r, http.MethodGet, "/api/sessions?from=yesterday", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = performRequest(r, http.MethodGet, "/api/sessions?from=2026-10-12&to=2026-10-01", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPatch, "/api/sessions/"+created.ID, map[string]interface{}{"duration": 1800})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.StudySession
	decode(t, w, &updated)
	assert.Equal(t, 1800, updated.Duration)
	assert.Equal(t, "review", updated.Notes)

	w = performRequest(r, http.MethodPatch, "/api/sessions/missing", map[string]interface{}{"duration": 1})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodDelete, "/api/sessions/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = performRequest(r, http.MethodGet, "/api/sessions/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsRoutes(t *testing.T) {
	r := buildStudyRouter(t)
	subject := firstSubject(t, r)
	today := models.DateOf(time.Now().UTC())

	w := performRequest(r, http.MethodPost, "/api/sessions", map[string]interface{}{
		"subjectId": subject.ID, "duration": 2700, "date": today.String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overall models.OverallStats
	decode(t, w, &overall)
	assert.Equal(t, 2700, overall.TodayDuration)
	assert.Equal(t, 1, overall.TotalSessions)
	assert.Equal(t, 1, overall.CurrentStreak)
	require.Len(t, overall.TopSubjects, 1)
	assert.Equal(t, subject.Name, overall.TopSubjects[0].Name)

	w = performRequest(r, http.MethodGet, "/api/stats/weekly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var days []models.DailyStats
	decode(t, w, &days)
	require.Len(t, days, 7)
	assert.Equal(t, today, days[6].Date)
	assert.Equal(t, 2700, days[6].Duration)

	w = performRequest(r, http.MethodGet, "/api/stats/subject/"+subject.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subjectStats models.SubjectStats
	decode(t, w, &subjectStats)
	assert.Equal(t, 1, subjectStats.Sessions)

	w = performRequest(r, http.MethodGet, "/api/stats/subject/unknown", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimerRoutes(t *testing.T) {
	r := buildStudyRouter(t)
	subjects := []models.Subject{}
	w := performRequest(r, http.MethodGet, "/api/subjects", nil)
	decode(t, w, &subjects)
	require.GreaterOrEqual(t, len(subjects), 2)

	w = performRequest(r, http.MethodGet, "/api/timer", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view models.TimerView
	decode(t, w, &view)
	assert.False(t, view.Active)

	w = performRequest(r, http.MethodPost, "/api/timer/start", map[string]string{"subjectId": "unknown"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodPost, "/api/timer/start", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/api/timer/start", map[string]string{"subjectId": subjects[0].ID})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.True(t, view.Running)

	w = performRequest(r, http.MethodPost, "/api/timer/start", map[string]string{"subjectId": subjects[1].ID})
	require.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(r, http.MethodPost, "/api/timer/pause", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.False(t, view.Running)
	assert.True(t, view.Active)

	w = performRequest(r, http.MethodPost, "/api/timer/reset", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodPost, "/api/timer/stop", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestExportRoutes(t *testing.T) {
	r := buildStudyRouter(t)
	subject := firstSubject(t, r)
	w := performRequest(r, http.MethodPost, "/api/sessions", map[string]interface{}{
		"subjectId": subject.ID, "duration": 3725, "date": "2026-10-10",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(r, http.MethodGet, "/api/exports/sessions.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "study-sessions_")
	assert.Contains(t, w.Body.String(), "1h 2m")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Date,Subject"))

	w = performRequest(r, http.MethodGet, "/api/exports/sessions.csv?to=bad", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/api/exports/report.pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	r := buildStudyRouter(t)

	w := performRequest(r, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
