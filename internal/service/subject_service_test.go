package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

func newSubjectFixture() (*SubjectService, *mockSubjectRepo) {
	repo := &mockSubjectRepo{subjects: map[string]models.Subject{
		"sub1": {ID: "sub1", Name: "Matemáticas III", Term: models.TermSemestre},
	}}
	return NewSubjectService(repo, nil, nil), repo
}

func TestSubjectServiceUpdateSchedule(t *testing.T) {
	svc, repo := newSubjectFixture()

	updated, err := svc.UpdateSchedule(context.Background(), "sub1", UpdateScheduleRequest{
		Schedule: []ScheduleEntryRequest{
			{Day: 1, Time: "08:00", DurationHours: 1.5},
			{Day: 3, Time: "10:00", DurationHours: 1},
		},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Schedule, 2)
	assert.Len(t, repo.subjects["sub1"].Schedule, 2)
}

func TestSubjectServiceUpdateScheduleRejectsDuplicateDay(t *testing.T) {
	svc, repo := newSubjectFixture()

	_, err := svc.UpdateSchedule(context.Background(), "sub1", UpdateScheduleRequest{
		Schedule: []ScheduleEntryRequest{
			{Day: 1, Time: "08:00", DurationHours: 1.5},
			{Day: 1, Time: "10:00", DurationHours: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.subjects["sub1"].Schedule)
}

func TestSubjectServiceCreateRejectsDuplicateDay(t *testing.T) {
	svc, _ := newSubjectFixture()

	_, err := svc.Create(context.Background(), CreateSubjectRequest{
		Name: "Física I",
		Term: "semestre",
		Schedule: []ScheduleEntryRequest{
			{Day: 2, Time: "08:00", DurationHours: 1},
			{Day: 2, Time: "12:00", DurationHours: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceUpdateGradingPeriodDates(t *testing.T) {
	svc, repo := newSubjectFixture()

	updated, err := svc.UpdateGradingPeriodDates(context.Background(), "sub1", UpdatePeriodDatesRequest{
		Dates: map[string]string{"1": "2025-09-01", "2": "2025-10-17"},
	})
	require.NoError(t, err)
	assert.Len(t, updated.GradingPeriodDates, 2)
	assert.Equal(t, "2025-10-17", repo.subjects["sub1"].GradingPeriodDates["2"].String())
}

func TestSubjectServiceUpdateGradingPeriodDatesRejectsUnknownKey(t *testing.T) {
	svc, repo := newSubjectFixture()

	_, err := svc.UpdateGradingPeriodDates(context.Background(), "sub1", UpdatePeriodDatesRequest{
		Dates: map[string]string{"9": "2025-09-01"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.subjects["sub1"].GradingPeriodDates)
}
