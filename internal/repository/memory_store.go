package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/study-tracker-api/internal/models"
)

// MemoryStore keeps subjects and sessions in process memory. Both collections
// share one lock so Snapshot observes them at a single instant. Missing records
// are reported as sql.ErrNoRows, the same as the postgres repositories.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      uint64
	subjects map[string]memRecord[models.Subject]
	sessions map[string]memRecord[models.StudySession]
	now      func() time.Time
}

type memRecord[T any] struct {
	seq   uint64
	value T
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subjects: make(map[string]memRecord[models.Subject]),
		sessions: make(map[string]memRecord[models.StudySession]),
		now:      time.Now,
	}
}

// Subjects exposes the subject repository view of the store.
func (m *MemoryStore) Subjects() *MemorySubjectRepository {
	return &MemorySubjectRepository{store: m}
}

// Sessions exposes the session repository view of the store.
func (m *MemoryStore) Sessions() *MemorySessionRepository {
	return &MemorySessionRepository{store: m}
}

// Snapshot copies every subject and session under one read lock.
func (m *MemoryStore) Snapshot(context.Context) (models.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return models.Snapshot{
		Subjects: sortedValues(m.subjects, false),
		Sessions: sortedValues(m.sessions, false),
	}, nil
}

// Ping always succeeds; it lets the readiness probe treat every backend alike.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

func (m *MemoryStore) nextSeq() uint64 {
	m.seq++
	return m.seq
}

// sortedValues returns the values in insertion order, or newest first when desc.
func sortedValues[T any](records map[string]memRecord[T], desc bool) []T {
	ordered := make([]memRecord[T], 0, len(records))
	for _, r := range records {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if desc {
			return ordered[i].seq > ordered[j].seq
		}
		return ordered[i].seq < ordered[j].seq
	})
	out := make([]T, len(ordered))
	for i, r := range ordered {
		out[i] = r.value
	}
	return out
}

// MemorySubjectRepository implements subject persistence on a MemoryStore.
type MemorySubjectRepository struct {
	store *MemoryStore
}

// List returns subjects in creation order.
func (r *MemorySubjectRepository) List(context.Context) ([]models.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return sortedValues(r.store.subjects, false), nil
}

// FindByID returns a subject by id.
func (r *MemorySubjectRepository) FindByID(_ context.Context, id string) (*models.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	subject := rec.value
	return &subject, nil
}

// Count returns the number of stored subjects.
func (r *MemorySubjectRepository) Count(context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.subjects), nil
}

// Create stores a new subject, assigning its id and creation time.
func (r *MemorySubjectRepository) Create(_ context.Context, subject *models.Subject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = r.store.now().UTC()
	}
	r.store.subjects[subject.ID] = memRecord[models.Subject]{seq: r.store.nextSeq(), value: *subject}
	return nil
}

// Update replaces an existing subject.
func (r *MemorySubjectRepository) Update(_ context.Context, subject *models.Subject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.subjects[subject.ID]
	if !ok {
		return sql.ErrNoRows
	}
	subject.CreatedAt = rec.value.CreatedAt
	rec.value = *subject
	r.store.subjects[subject.ID] = rec
	return nil
}

// Delete removes a subject; deleting an unknown id is not an error.
func (r *MemorySubjectRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.subjects, id)
	return nil
}

// MemorySessionRepository implements session persistence on a MemoryStore.
type MemorySessionRepository struct {
	store *MemoryStore
}

// List returns sessions matching filter, latest date first, newest record first within a day.
func (r *MemorySessionRepository) List(_ context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	r.store.mu.RLock()
	all := sortedValues(r.store.sessions, true)
	r.store.mu.RUnlock()

	out := make([]models.StudySession, 0, len(all))
	for _, s := range all {
		if filter.Matches(s) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// FindByID returns a session by id.
func (r *MemorySessionRepository) FindByID(_ context.Context, id string) (*models.StudySession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	session := rec.value
	return &session, nil
}

// Create stores a new session, assigning its id and creation time.
func (r *MemorySessionRepository) Create(_ context.Context, session *models.StudySession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.store.now().UTC()
	}
	r.store.sessions[session.ID] = memRecord[models.StudySession]{seq: r.store.nextSeq(), value: *session}
	return nil
}

// Update replaces an existing session.
func (r *MemorySessionRepository) Update(_ context.Context, session *models.StudySession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.sessions[session.ID]
	if !ok {
		return sql.ErrNoRows
	}
	session.CreatedAt = rec.value.CreatedAt
	rec.value = *session
	r.store.sessions[session.ID] = rec
	return nil
}

// Delete removes a session; deleting an unknown id is not an error.
func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}
