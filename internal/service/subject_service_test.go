package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/study-tracker-api/internal/models"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
)

type mockSubjectRepo struct {
	items     map[string]*models.Subject
	order     []string
	listErr   error
	createErr error
	seq       int
}

func newMockSubjectRepo(subjects ...models.Subject) *mockSubjectRepo {
	repo := &mockSubjectRepo{items: make(map[string]*models.Subject)}
	for i := range subjects {
		cp := subjects[i]
		repo.items[cp.ID] = &cp
		repo.order = append(repo.order, cp.ID)
	}
	return repo
}

func (m *mockSubjectRepo) List(ctx context.Context) ([]models.Subject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Subject, 0, len(m.order))
	for _, id := range m.order {
		if s, ok := m.items[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) Count(ctx context.Context) (int, error) {
	return len(m.items), nil
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	if m.createErr != nil {
		return m.createErr
	}
	if subject.ID == "" {
		m.seq++
		subject.ID = fmt.Sprintf("subject-%d", m.seq)
	}
	subject.CreatedAt = time.Now()
	cp := *subject
	m.items[subject.ID] = &cp
	m.order = append(m.order, subject.ID)
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	if _, ok := m.items[subject.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *subject
	m.items[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func TestSubjectServiceCreate(t *testing.T) {
	repo := newMockSubjectRepo()
	svc := NewSubjectService(repo, NewValidator(), zap.NewNop())

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "  Physics ", Color: "#ABCDEF"})
	require.NoError(t, err)
	assert.Equal(t, "Physics", subject.Name)
	assert.Equal(t, "#abcdef", subject.Color)
	assert.NotEmpty(t, subject.ID)
	assert.Len(t, repo.items, 1)
}

func TestSubjectServiceCreateValidation(t *testing.T) {
	svc := NewSubjectService(newMockSubjectRepo(), nil, nil)

	cases := map[string]CreateSubjectRequest{
		"blank name":    {Name: "   ", Color: "#fff"},
		"missing color": {Name: "Physics"},
		"named color":   {Name: "Physics", Color: "blue"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrValidation)
		})
	}
}

func TestSubjectServiceCreateRepoFailure(t *testing.T) {
	repo := newMockSubjectRepo()
	repo.createErr = errors.New("disk full")
	svc := NewSubjectService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Physics", Color: "#fff"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestSubjectServiceGetNotFound(t *testing.T) {
	svc := NewSubjectService(newMockSubjectRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSubjectServiceUpdatePartial(t *testing.T) {
	repo := newMockSubjectRepo(models.Subject{ID: "math", Name: "Mathematics", Color: "#3b82f6"})
	svc := NewSubjectService(repo, nil, nil)

	name := "Maths"
	subject, err := svc.Update(context.Background(), "math", UpdateSubjectRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Maths", subject.Name)
	assert.Equal(t, "#3b82f6", subject.Color)

	color := "#FF0000"
	subject, err = svc.Update(context.Background(), "math", UpdateSubjectRequest{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "Maths", subject.Name)
	assert.Equal(t, "#ff0000", subject.Color)
}

func TestSubjectServiceUpdateMissing(t *testing.T) {
	svc := NewSubjectService(newMockSubjectRepo(), nil, nil)

	name := "Maths"
	_, err := svc.Update(context.Background(), "missing", UpdateSubjectRequest{Name: &name})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSubjectServiceDeleteIsIdempotent(t *testing.T) {
	repo := newMockSubjectRepo(models.Subject{ID: "math", Name: "Mathematics", Color: "#3b82f6"})
	svc := NewSubjectService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "math"))
	require.NoError(t, svc.Delete(context.Background(), "math"))
	assert.Empty(t, repo.items)
}

func TestSubjectServiceSeedDefaults(t *testing.T) {
	repo := newMockSubjectRepo()
	svc := NewSubjectService(repo, nil, nil)

	n, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(models.DefaultSubjects()), n)

	subjects, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, n)
	assert.Equal(t, "Mathematics", subjects[0].Name)

	n, err = svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
