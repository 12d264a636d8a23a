package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type mockCriterionRepo struct {
	criteria map[string]models.EvaluationCriterion
	nextID   int
}

func (m *mockCriterionRepo) ListBySubject(_ context.Context, subjectID string) ([]models.EvaluationCriterion, error) {
	var out []models.EvaluationCriterion
	for _, c := range m.criteria {
		if c.SubjectID == subjectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCriterionRepo) ListByPeriod(_ context.Context, subjectID string, period int) ([]models.EvaluationCriterion, error) {
	var out []models.EvaluationCriterion
	for _, c := range m.criteria {
		if c.SubjectID == subjectID && c.GradingPeriod == period {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCriterionRepo) GetByID(_ context.Context, id string) (*models.EvaluationCriterion, error) {
	if c, ok := m.criteria[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCriterionRepo) Create(_ context.Context, criterion *models.EvaluationCriterion) error {
	if m.criteria == nil {
		m.criteria = make(map[string]models.EvaluationCriterion)
	}
	if criterion.ID == "" {
		m.nextID++
		criterion.ID = string(rune('a' + m.nextID))
	}
	m.criteria[criterion.ID] = *criterion
	return nil
}

func (m *mockCriterionRepo) Update(_ context.Context, criterion *models.EvaluationCriterion) error {
	m.criteria[criterion.ID] = *criterion
	return nil
}

func (m *mockCriterionRepo) Delete(_ context.Context, id string) error {
	delete(m.criteria, id)
	return nil
}

func TestCriterionServiceCreateEnforcesPercentageCap(t *testing.T) {
	repo := &mockCriterionRepo{}
	svc := NewCriterionService(repo, nil, nil)

	_, err := svc.Create(context.Background(), "sub1", CreateCriterionRequest{
		Name: "Tareas", Percentage: 60, Type: "default", GradingPeriod: 1,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "sub1", CreateCriterionRequest{
		Name: "Examen", Percentage: 50, Type: "default", GradingPeriod: 1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	// Same weight is fine in a different period.
	_, err = svc.Create(context.Background(), "sub1", CreateCriterionRequest{
		Name: "Examen", Percentage: 50, Type: "default", GradingPeriod: 2,
	})
	assert.NoError(t, err)
}

func TestCriterionServiceCreateForcesSingleLimitForComputedTypes(t *testing.T) {
	repo := &mockCriterionRepo{}
	svc := NewCriterionService(repo, nil, nil)

	created, err := svc.Create(context.Background(), "sub1", CreateCriterionRequest{
		Name: "Asistencia", Percentage: 20, Type: "attendance", AssignmentLimit: "multiple", GradingPeriod: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentLimitSingle, created.AssignmentLimit)
	assert.Equal(t, academic.CriterionAttendance, created.Type)
}

func TestCriterionServiceCreateParticipationRequiresMaxPoints(t *testing.T) {
	repo := &mockCriterionRepo{}
	svc := NewCriterionService(repo, nil, nil)

	_, err := svc.Create(context.Background(), "sub1", CreateCriterionRequest{
		Name: "Participación", Percentage: 10, Type: "participation", GradingPeriod: 1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	max := 5.0
	created, err := svc.Create(context.Background(), "sub1", CreateCriterionRequest{
		Name: "Participación", Percentage: 10, Type: "participation", MaxPoints: &max, GradingPeriod: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, created.MaxPoints)
	assert.Equal(t, 5.0, *created.MaxPoints)
}

func TestCriterionServiceUpdateExcludesOwnWeightFromCap(t *testing.T) {
	repo := &mockCriterionRepo{}
	svc := NewCriterionService(repo, nil, nil)

	created, err := svc.Create(context.Background(), "sub1", CreateCriterionRequest{
		Name: "Tareas", Percentage: 60, Type: "default", GradingPeriod: 1,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateCriterionRequest{
		Name: "Tareas", Percentage: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, updated.Percentage)
}

func TestCriterionServiceGetUnknownReturnsNotFound(t *testing.T) {
	svc := NewCriterionService(&mockCriterionRepo{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
