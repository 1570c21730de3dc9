package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-tracker-api/internal/models"
)

// SnapshotRepository reads subjects and sessions together for the stats views.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new repository instance.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Snapshot loads both tables inside one read-only REPEATABLE READ transaction
// so concurrent writes between the two queries are not observed.
func (r *SnapshotRepository) Snapshot(ctx context.Context) (models.Snapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	snap := models.Snapshot{Subjects: []models.Subject{}, Sessions: []models.StudySession{}}
	if err := tx.SelectContext(ctx, &snap.Subjects, selectSubjects); err != nil {
		return models.Snapshot{}, fmt.Errorf("snapshot subjects: %w", err)
	}
	if err := tx.SelectContext(ctx, &snap.Sessions, selectSessions); err != nil {
		return models.Snapshot{}, fmt.Errorf("snapshot sessions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}
	return snap, nil
}

// Ping checks database connectivity.
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
