package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/study-tracker-api/internal/models"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
)

type timerStore interface {
	Load(ctx context.Context) (*models.TimerState, error)
	Save(ctx context.Context, state models.TimerState) error
	Clear(ctx context.Context) error
}

type subjectGetter interface {
	Get(ctx context.Context, id string) (*models.Subject, error)
}

type sessionRecorder interface {
	Record(ctx context.Context, session *models.StudySession) error
}

// StartTimerRequest selects the subject the timer counts towards.
type StartTimerRequest struct {
	SubjectID string `json:"subjectId" validate:"required"`
}

// TimerService drives the single active study timer: start, pause, stop
// (recording a session) and reset.
type TimerService struct {
	store    timerStore
	subjects subjectGetter
	sessions sessionRecorder
	metrics  *MetricsService
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time

	// mu serialises load-modify-save within this process.
	mu sync.Mutex
}

// TimerServiceParams groups constructor dependencies.
type TimerServiceParams struct {
	Store    timerStore
	Subjects subjectGetter
	Sessions sessionRecorder
	Metrics  *MetricsService
	Logger   *zap.Logger
	Location *time.Location
}

// NewTimerService constructs a TimerService.
func NewTimerService(params TimerServiceParams) *TimerService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	return &TimerService{
		store:    params.Store,
		subjects: params.Subjects,
		sessions: params.Sessions,
		metrics:  params.Metrics,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// Current returns the timer as seen now.
func (s *TimerService) Current(ctx context.Context) (models.TimerView, error) {
	state, err := s.load(ctx)
	if err != nil {
		return models.TimerView{}, err
	}
	return state.View(s.now()), nil
}

// Start begins or resumes counting for subjectID. Starting a running timer for
// the same subject is a no-op; switching subjects while running is a conflict.
// Starting a paused timer with another subject moves the paused time over.
func (s *TimerService) Start(ctx context.Context, subjectID string) (view models.TimerView, err error) {
	defer func() { s.metrics.RecordTimerOperation("start", err) }()
	if subjectID == "" {
		return models.TimerView{}, appErrors.Clone(appErrors.ErrValidation, "subjectId is required")
	}
	if _, err := s.subjects.Get(ctx, subjectID); err != nil {
		return models.TimerView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return models.TimerView{}, err
	}
	now := s.now()

	switch {
	case state == nil:
		state = &models.TimerState{SubjectID: subjectID, StartedAt: now}
	case state.Running && state.SubjectID != subjectID:
		return models.TimerView{}, appErrors.Clone(appErrors.ErrConflict, "timer is already running for another subject")
	case state.Running:
		return state.View(now), nil
	}

	state.SubjectID = subjectID
	state.Running = true
	state.ResumedAt = &now
	if err := s.save(ctx, *state); err != nil {
		return models.TimerView{}, err
	}
	return state.View(now), nil
}

// Pause freezes the elapsed time. Pausing an idle or paused timer changes nothing.
func (s *TimerService) Pause(ctx context.Context) (view models.TimerView, err error) {
	defer func() { s.metrics.RecordTimerOperation("pause", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return models.TimerView{}, err
	}
	now := s.now()
	if state == nil || !state.Running {
		return state.View(now), nil
	}

	state.AccumulatedSeconds = state.Elapsed(now)
	state.Running = false
	state.ResumedAt = nil
	if err := s.save(ctx, *state); err != nil {
		return models.TimerView{}, err
	}
	return state.View(now), nil
}

// Stop ends the timer. When any time was counted it records a session dated
// today and returns it; otherwise it returns nil. The timer is cleared before
// the session is recorded and restored if recording fails.
func (s *TimerService) Stop(ctx context.Context, notes string) (session *models.StudySession, err error) {
	defer func() { s.metrics.RecordTimerOperation("stop", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}

	now := s.now()
	elapsed := state.Elapsed(now)
	if err := s.clear(ctx); err != nil {
		return nil, err
	}
	if elapsed <= 0 {
		return nil, nil
	}

	start := state.StartedAt
	end := now
	session = &models.StudySession{
		SubjectID: state.SubjectID,
		Duration:  elapsed,
		Date:      models.DateOf(now.In(s.loc)),
		StartTime: &start,
		EndTime:   &end,
		Notes:     notes,
	}
	if err := s.sessions.Record(ctx, session); err != nil {
		if restoreErr := s.store.Save(ctx, *state); restoreErr != nil {
			s.logger.Error("timer restore failed after record error",
				zap.String("subject_id", state.SubjectID),
				zap.Int("elapsed_seconds", elapsed),
				zap.Error(restoreErr))
		}
		return nil, err
	}
	s.metrics.RecordTimerSession()
	return session, nil
}

// Reset discards the timer without recording anything.
func (s *TimerService) Reset(ctx context.Context) (err error) {
	defer func() { s.metrics.RecordTimerOperation("reset", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear(ctx)
}

func (s *TimerService) load(ctx context.Context) (*models.TimerState, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("timer load failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "timer store unavailable")
	}
	return state, nil
}

func (s *TimerService) save(ctx context.Context, state models.TimerState) error {
	if err := s.store.Save(ctx, state); err != nil {
		s.logger.Error("timer save failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "timer store unavailable")
	}
	return nil
}

func (s *TimerService) clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("timer clear failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "timer store unavailable")
	}
	return nil
}
