package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/internal/stats"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
)

// snapshotSource yields subjects and sessions read at a single instant.
type snapshotSource interface {
	Snapshot(ctx context.Context) (models.Snapshot, error)
}

// StatsServiceConfig tunes the stats views.
type StatsServiceConfig struct {
	TopSubjects int
	Location    *time.Location
}

// StatsService serves the aggregation views. Every call reads a fresh snapshot
// and recomputes; nothing is cached between calls.
type StatsService struct {
	source  snapshotSource
	engine  *stats.Engine
	metrics *MetricsService
	logger  *zap.Logger
	loc     *time.Location
	now     func() time.Time
}

// NewStatsService constructs a StatsService.
func NewStatsService(source snapshotSource, metrics *MetricsService, cfg StatsServiceConfig, logger *zap.Logger) *StatsService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		source:  source,
		engine:  stats.New(cfg.TopSubjects),
		metrics: metrics,
		logger:  logger,
		loc:     cfg.Location,
		now:     time.Now,
	}
}

// Today returns the reference calendar day in the configured zone.
func (s *StatsService) Today() models.Date {
	return models.DateOf(s.now().In(s.loc))
}

// Overall returns the overall summary for today.
func (s *StatsService) Overall(ctx context.Context) (*models.OverallStats, error) {
	start := time.Now()
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := s.engine.Overall(snap.Sessions, snap.Subjects, s.Today())
	s.observe("overall", start, snap)
	return &out, nil
}

// Weekly returns the seven days ending today.
func (s *StatsService) Weekly(ctx context.Context) ([]models.DailyStats, error) {
	start := time.Now()
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := s.engine.Weekly(snap.Sessions, s.Today())
	s.observe("weekly", start, snap)
	return out, nil
}

// Subject returns totals for one subject, or a not-found error.
func (s *StatsService) Subject(ctx context.Context, subjectID string) (*models.SubjectStats, error) {
	start := time.Now()
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out, ok := s.engine.Subject(subjectID, snap.Sessions, snap.Subjects)
	s.observe("subject", start, snap)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return &out, nil
}

// Snapshot exposes the raw snapshot for exports that need per-record data.
func (s *StatsService) Snapshot(ctx context.Context) (models.Snapshot, error) {
	return s.snapshot(ctx)
}

func (s *StatsService) snapshot(ctx context.Context) (models.Snapshot, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.Error("stats snapshot failed", zap.Error(err))
		return models.Snapshot{}, internalError(err, "failed to read study records")
	}
	return snap, nil
}

func (s *StatsService) observe(view string, start time.Time, snap models.Snapshot) {
	s.metrics.ObserveStats(view, time.Since(start), len(snap.Subjects), len(snap.Sessions))
}
