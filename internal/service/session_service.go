package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/study-tracker-api/internal/models"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	FindByID(ctx context.Context, id string) (*models.StudySession, error)
	Create(ctx context.Context, session *models.StudySession) error
	Update(ctx context.Context, session *models.StudySession) error
	Delete(ctx context.Context, id string) error
}

// CreateSessionRequest captures fields for recording a study session.
// Duration is a pointer so an explicit 0 passes "required".
type CreateSessionRequest struct {
	SubjectID string     `json:"subjectId" validate:"required,max=64"`
	Duration  *int       `json:"duration" validate:"required,min=0,max=2147483647"`
	Date      string     `json:"date" validate:"required,civildate"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Notes     string     `json:"notes" validate:"max=2000"`
}

// UpdateSessionRequest is a partial update; nil fields are left untouched.
type UpdateSessionRequest struct {
	SubjectID *string    `json:"subjectId" validate:"omitempty,min=1,max=64"`
	Duration  *int       `json:"duration" validate:"omitempty,min=0,max=2147483647"`
	Date      *string    `json:"date" validate:"omitempty,civildate"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Notes     *string    `json:"notes" validate:"omitempty,max=2000"`
}

// SessionService handles study session workflows. Subject references are not
// checked: a session may be recorded before or kept after its subject.
type SessionService struct {
	repo      sessionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(repo sessionRepository, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, validator: validate, logger: logger}
}

// List returns sessions matching filter.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must not be after to")
	}
	sessions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list sessions")
	}
	return sessions, nil
}

// Get returns a session by identifier.
func (s *SessionService) Get(ctx context.Context, id string) (*models.StudySession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, internalError(err, "failed to load session")
	}
	return session, nil
}

// Create validates and stores a new session.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.StudySession, error) {
	req.SubjectID = strings.TrimSpace(req.SubjectID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid session payload")
	}
	date, _ := models.ParseDate(req.Date)

	session := &models.StudySession{
		SubjectID: req.SubjectID,
		Duration:  *req.Duration,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	}
	if err := checkInterval(session); err != nil {
		return nil, err
	}
	if err := s.Record(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Record stores an already-built session, such as one produced by the timer.
func (s *SessionService) Record(ctx context.Context, session *models.StudySession) error {
	if err := s.repo.Create(ctx, session); err != nil {
		return internalError(err, "failed to create session")
	}
	s.logger.Debug("session recorded",
		zap.String("session_id", session.ID),
		zap.String("subject_id", session.SubjectID),
		zap.Int("duration", session.Duration),
	)
	return nil
}

// Update applies the non-nil fields of req to an existing session.
func (s *SessionService) Update(ctx context.Context, id string, req UpdateSessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid session payload")
	}

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SubjectID != nil {
		session.SubjectID = strings.TrimSpace(*req.SubjectID)
	}
	if req.Duration != nil {
		session.Duration = *req.Duration
	}
	if req.Date != nil {
		session.Date, _ = models.ParseDate(*req.Date)
	}
	if req.StartTime != nil {
		session.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		session.EndTime = req.EndTime
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}
	if err := checkInterval(session); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, internalError(err, "failed to update session")
	}
	return session, nil
}

// Delete removes a session; unknown ids are ignored.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete session")
	}
	return nil
}

func checkInterval(session *models.StudySession) error {
	if session.StartTime != nil && session.EndTime != nil && session.EndTime.Before(*session.StartTime) {
		return appErrors.Clone(appErrors.ErrValidation, "endTime must not be before startTime")
	}
	return nil
}
