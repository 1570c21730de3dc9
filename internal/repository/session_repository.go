package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-tracker-api/internal/models"
)

const selectSessions = `SELECT id, subject_id, duration, date, start_time, end_time, notes, created_at FROM study_sessions`

// SessionRepository handles persistence for study sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new repository instance.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns sessions matching filter, latest date first.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	var conditions []string
	var args []interface{}

	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := selectSessions
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	sessions := []models.StudySession{}
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// FindByID returns a session by id.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.StudySession, error) {
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, selectSessions+` WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create persists a new session.
func (r *SessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO study_sessions (id, subject_id, duration, date, start_time, end_time, notes, created_at)
VALUES (:id, :subject_id, :duration, :date, :start_time, :end_time, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update rewrites a session's mutable fields. Missing rows yield sql.ErrNoRows.
func (r *SessionRepository) Update(ctx context.Context, session *models.StudySession) error {
	const query = `UPDATE study_sessions SET subject_id = :subject_id, duration = :duration, date = :date,
start_time = :start_time, end_time = :end_time, notes = :notes WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a session record.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM study_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
