package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type mockAssignmentRepo struct {
	assignments map[string]models.Assignment
}

func (m *mockAssignmentRepo) ListBySubject(_ context.Context, subjectID string) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range m.assignments {
		if a.SubjectID == subjectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) CountByCriterion(_ context.Context, criterionID string) (int, error) {
	count := 0
	for _, a := range m.assignments {
		if a.CriterionID == criterionID {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*models.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	if m.assignments == nil {
		m.assignments = make(map[string]models.Assignment)
	}
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *mockAssignmentRepo) Rename(_ context.Context, id, name string) error {
	a := m.assignments[id]
	a.Name = name
	m.assignments[id] = a
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

type mockGradeRepo struct {
	grades []models.Grade
}

func (m *mockGradeRepo) ListBySubject(_ context.Context, subjectID string) ([]models.Grade, error) {
	var out []models.Grade
	for _, g := range m.grades {
		if g.SubjectID == subjectID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGradeRepo) ListByStudent(_ context.Context, studentID string) ([]models.Grade, error) {
	var out []models.Grade
	for _, g := range m.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGradeRepo) Upsert(_ context.Context, grade *models.Grade) error {
	m.grades = append(m.grades, *grade)
	return nil
}

func (m *mockGradeRepo) UpsertBatch(_ context.Context, grades []models.Grade) error {
	m.grades = append(m.grades, grades...)
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, _ string) error { return nil }

type mockParticipationRepo struct {
	entries []models.Participation
}

func (m *mockParticipationRepo) ListBySubject(_ context.Context, subjectID string) ([]models.Participation, error) {
	var out []models.Participation
	for _, p := range m.entries {
		if p.SubjectID == subjectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockParticipationRepo) ListByStudent(_ context.Context, studentID string) ([]models.Participation, error) {
	var out []models.Participation
	for _, p := range m.entries {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockParticipationRepo) Create(_ context.Context, entry *models.Participation) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockParticipationRepo) Delete(_ context.Context, _ string) error { return nil }

type mockCache struct {
	data map[string][]byte
}

func (m *mockCache) Get(_ context.Context, key string, dest any) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mockCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

// reportFixture builds a subject with Tuesday sessions, a 60% homework
// criterion and a 40% attendance criterion in period 1, one enrolled
// student with two graded assignments and three attended sessions.
func reportFixture(cache reportCache, cacheEnabled bool) *ReportService {
	subjects := &mockSubjectRepo{subjects: map[string]models.Subject{
		"sub1": {
			ID:       "sub1",
			Name:     "Matemáticas III",
			Term:     models.TermSemestre,
			Schedule: models.ScheduleEntries{{Day: 2, Time: "08:00", DurationHours: 1.5}},
			GradingPeriodDates: models.PeriodDates{
				"1": academic.MustDate("2025-09-01"),
				"2": academic.MustDate("2025-10-17"),
			},
		},
	}}
	students := &mockStudentRepo{students: map[string]models.Student{
		"st1": {ID: "st1", SubjectID: "sub1", Name: "Ana García"},
	}}
	criteria := &mockCriterionRepo{criteria: map[string]models.EvaluationCriterion{
		"c1": {ID: "c1", SubjectID: "sub1", Name: "Tareas", Percentage: 60, Type: academic.CriterionDefault, AssignmentLimit: models.AssignmentLimitMultiple, GradingPeriod: 1},
		"c2": {ID: "c2", SubjectID: "sub1", Name: "Asistencia", Percentage: 40, Type: academic.CriterionAttendance, AssignmentLimit: models.AssignmentLimitSingle, GradingPeriod: 1},
	}}
	created := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	assignments := &mockAssignmentRepo{assignments: map[string]models.Assignment{
		"a1": {ID: "a1", SubjectID: "sub1", Name: "Tarea 1", CriterionID: "c1", CreatedAt: created},
		"a2": {ID: "a2", SubjectID: "sub1", Name: "Tarea 2", CriterionID: "c1", CreatedAt: created},
	}}
	grades := &mockGradeRepo{grades: []models.Grade{
		{ID: "g1", StudentID: "st1", AssignmentID: "a1", SubjectID: "sub1", Score: 8},
		{ID: "g2", StudentID: "st1", AssignmentID: "a2", SubjectID: "sub1", Score: 6},
	}}

	// Sessions on three Tuesdays inside period 1, all attended by st1.
	attendance := &mockAttendanceRepo{}
	ctx := context.Background()
	for _, day := range []string{"2025-09-02", "2025-09-09", "2025-09-23"} {
		session := &models.AttendanceSession{SubjectID: "sub1", CreatedAt: academic.MustDate(day).Time()}
		_ = attendance.CreateSession(ctx, session)
		_ = attendance.CreateRecord(ctx, &models.AttendanceRecord{StudentID: "st1", SessionID: session.ID, SubjectID: "sub1"})
	}

	participations := &mockParticipationRepo{}

	return NewReportService(
		subjects, students, criteria, assignments, grades, attendance, participations,
		cache,
		academic.DefaultCalendar(),
		ReportOptions{
			CacheEnabled:  cacheEnabled,
			CacheTTL:      time.Minute,
			SemesterStart: academic.MustDate("2025-09-01"),
		},
		nil, nil,
	)
}

func TestReportServiceStudentReportPeriodOne(t *testing.T) {
	svc := reportFixture(nil, false)

	report, err := svc.StudentReport(context.Background(), "sub1", "st1", "1")
	require.NoError(t, err)

	// Period 1 runs Sept 1 to Oct 16. Tuesdays minus the Sept 16 holiday
	// leave 6 instructional dates; 3 attended gives ratio 0.5.
	assert.Len(t, report.Attended, 3)
	assert.Len(t, report.Missed, 3)

	// Homework averages 7.0, attendance scores 5.0:
	// (7/10*60 + 5/10*40) / 100 * 10 = 6.2 under the normalized roll-up.
	assert.InDelta(t, 6.2, report.FinalScore, 1e-9)
	require.Len(t, report.PerCriterion, 2)
	assert.Equal(t, "2025-09-01", report.Period.Start.String())
	assert.Equal(t, "2025-10-16", report.Period.End.String())
}

func TestReportServiceUnknownPeriod(t *testing.T) {
	svc := reportFixture(nil, false)

	_, err := svc.StudentReport(context.Background(), "sub1", "st1", "9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceGradingPeriodsOrder(t *testing.T) {
	svc := reportFixture(nil, false)

	periods, err := svc.GradingPeriods(context.Background(), "sub1")
	require.NoError(t, err)
	require.Len(t, periods, 3)
	assert.Equal(t, "Calificación Final", periods[0].Name)
}

func TestReportServiceScheduledSessionDatesSkipHolidays(t *testing.T) {
	svc := reportFixture(nil, false)

	dates, err := svc.ScheduledSessionDates(context.Background(), "sub1")
	require.NoError(t, err)
	require.NotEmpty(t, dates)
	for _, date := range dates {
		assert.Equal(t, 2, date.Weekday())
		assert.NotEqual(t, "2025-09-16", date.String())
	}
}

func TestReportServiceCachesAndInvalidates(t *testing.T) {
	cache := &mockCache{}
	svc := reportFixture(cache, true)
	ctx := context.Background()

	first, err := svc.StudentReport(ctx, "sub1", "st1", "1")
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	second, err := svc.StudentReport(ctx, "sub1", "st1", "1")
	require.NoError(t, err)
	assert.InDelta(t, first.FinalScore, second.FinalScore, 1e-9)

	svc.Invalidate(ctx, "sub1")
	assert.Empty(t, cache.data)
}

func TestReportServiceExportCSV(t *testing.T) {
	svc := reportFixture(nil, false)

	out, err := svc.ExportCSV(context.Background(), "sub1", "1")
	require.NoError(t, err)
	csv := string(out)
	assert.Contains(t, csv, "Estudiante")
	assert.Contains(t, csv, "Ana García")
	assert.Contains(t, csv, "6.2")
}

func TestReportServiceExportAttendanceCSV(t *testing.T) {
	svc := reportFixture(nil, false)

	out, err := svc.ExportAttendanceCSV(context.Background(), "sub1")
	require.NoError(t, err)
	csv := string(out)
	assert.Contains(t, csv, "Estudiante,2025-09-02,2025-09-09,2025-09-23")
	assert.Contains(t, csv, "Ana García,X,X,X")
}

func TestReportServiceExportPDFUnknownPeriod(t *testing.T) {
	// An empty roster must not mask the period lookup.
	subjects := &mockSubjectRepo{subjects: map[string]models.Subject{
		"sub1": {ID: "sub1", Name: "Matemáticas III", Term: models.TermSemestre},
	}}
	svc := NewReportService(
		subjects, &mockStudentRepo{}, &mockCriterionRepo{}, &mockAssignmentRepo{},
		&mockGradeRepo{}, &mockAttendanceRepo{}, &mockParticipationRepo{},
		nil,
		academic.DefaultCalendar(),
		ReportOptions{SemesterStart: academic.MustDate("2025-09-01")},
		nil, nil,
	)

	_, err := svc.ExportPDF(context.Background(), "sub1", "9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceExportStudentPDF(t *testing.T) {
	svc := reportFixture(nil, false)

	out, err := svc.ExportStudentPDF(context.Background(), "sub1", "st1", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
