package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/study-tracker-api/internal/models"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// CreateSubjectRequest captures fields for creating subjects.
type CreateSubjectRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"required,hexcolor"`
}

// UpdateSubjectRequest is a partial update; nil fields are left untouched.
type UpdateSubjectRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// SubjectService handles subject workflows.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// List returns every subject.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list subjects")
	}
	return subjects, nil
}

// Get returns subject by identifier.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, internalError(err, "failed to load subject")
	}
	return subject, nil
}

// Create adds a new subject.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid subject payload")
	}

	subject := &models.Subject{Name: req.Name, Color: strings.ToLower(req.Color)}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, internalError(err, "failed to create subject")
	}
	s.logger.Debug("subject created", zap.String("subject_id", subject.ID))
	return subject, nil
}

// Update applies the non-nil fields of req to an existing subject.
func (s *SubjectService) Update(ctx context.Context, id string, req UpdateSubjectRequest) (*models.Subject, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid subject payload")
	}

	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Color != nil {
		subject.Color = strings.ToLower(*req.Color)
	}

	if err := s.repo.Update(ctx, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, internalError(err, "failed to update subject")
	}
	return subject, nil
}

// Delete removes a subject. Its sessions are kept; stats skip them in the
// per-subject ranking until a subject with that id exists again.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete subject")
	}
	return nil
}

// SeedDefaults inserts the default subjects when the store has none.
func (s *SubjectService) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, internalError(err, "failed to count subjects")
	}
	if count > 0 {
		return 0, nil
	}

	defaults := models.DefaultSubjects()
	for i := range defaults {
		if err := s.repo.Create(ctx, &defaults[i]); err != nil {
			return i, internalError(err, "failed to seed subjects")
		}
	}
	s.logger.Info("seeded default subjects", zap.Int("count", len(defaults)))
	return len(defaults), nil
}
