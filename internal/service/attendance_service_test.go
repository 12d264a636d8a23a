package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	"github.com/aula-dev/aula-api/internal/repository"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type mockAttendanceRepo struct {
	sessions map[string]models.AttendanceSession
	records  map[string]models.AttendanceRecord
	nextID   int64
}

func (m *mockAttendanceRepo) CreateSession(_ context.Context, session *models.AttendanceSession) error {
	if m.sessions == nil {
		m.sessions = make(map[string]models.AttendanceSession)
	}
	if session.ID == "" {
		session.ID = fmt.Sprintf("sess-%d", len(m.sessions)+1)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *mockAttendanceRepo) GetSession(_ context.Context, id string) (*models.AttendanceSession, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) FindSessionOnDate(_ context.Context, subjectID string, day academic.Date) (*models.AttendanceSession, error) {
	for _, s := range m.sessions {
		if s.SubjectID == subjectID && academic.DateOfTime(s.CreatedAt).Equal(day) {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) ListSessions(_ context.Context, subjectID string) ([]models.AttendanceSession, error) {
	var out []models.AttendanceSession
	for _, s := range m.sessions {
		if s.SubjectID == subjectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) CreateRecord(_ context.Context, record *models.AttendanceRecord) error {
	if m.records == nil {
		m.records = make(map[string]models.AttendanceRecord)
	}
	key := record.StudentID + "|" + record.SessionID
	if _, ok := m.records[key]; ok {
		return repository.ErrDuplicateRecord
	}
	m.nextID++
	record.ID = m.nextID
	m.records[key] = *record
	return nil
}

func (m *mockAttendanceRepo) CreateRecords(ctx context.Context, records []models.AttendanceRecord) (int, error) {
	inserted := 0
	for i := range records {
		if err := m.CreateRecord(ctx, &records[i]); err == nil {
			inserted++
		}
	}
	return inserted, nil
}

func (m *mockAttendanceRepo) ListRecordsBySession(_ context.Context, sessionID string) ([]models.AttendanceRecordRow, error) {
	var out []models.AttendanceRecordRow
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, models.AttendanceRecordRow{AttendanceRecord: r})
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) ListRecordsByStudent(_ context.Context, studentID string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) DeleteRecord(_ context.Context, id int64) error {
	for key, r := range m.records {
		if r.ID == id {
			delete(m.records, key)
		}
	}
	return nil
}

type mockStudentRepo struct {
	students map[string]models.Student
}

func (m *mockStudentRepo) ListBySubject(_ context.Context, subjectID string) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.students {
		if s.SubjectID == subjectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByName(_ context.Context, subjectID, name string) (*models.Student, error) {
	for _, s := range m.students {
		if s.SubjectID == subjectID && s.Name == name {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		student.ID = fmt.Sprintf("st-%d", len(m.students)+1)
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) CreateBatch(ctx context.Context, students []models.Student) error {
	for i := range students {
		if err := m.Create(ctx, &students[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func newAttendanceFixture() (*AttendanceService, *mockAttendanceRepo, *mockStudentRepo) {
	attRepo := &mockAttendanceRepo{}
	stRepo := &mockStudentRepo{students: map[string]models.Student{
		"st1": {ID: "st1", SubjectID: "sub1", Name: "Ana García"},
		"st2": {ID: "st2", SubjectID: "sub1", Name: "Bruno López"},
	}}
	return NewAttendanceService(attRepo, stRepo, nil, nil, nil), attRepo, stRepo
}

func TestAttendanceServiceRecordScan(t *testing.T) {
	svc, _, _ := newAttendanceFixture()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "sub1")
	require.NoError(t, err)

	record, err := svc.RecordScan(ctx, RecordScanRequest{SessionID: session.ID, StudentName: "Ana García"})
	require.NoError(t, err)
	assert.Equal(t, "st1", record.StudentID)
	assert.Equal(t, session.ID, record.SessionID)
}

func TestAttendanceServiceRecordScanRejectsRepeat(t *testing.T) {
	svc, _, _ := newAttendanceFixture()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "sub1")
	require.NoError(t, err)

	_, err = svc.RecordScan(ctx, RecordScanRequest{SessionID: session.ID, StudentName: "Ana García"})
	require.NoError(t, err)

	_, err = svc.RecordScan(ctx, RecordScanRequest{SessionID: session.ID, StudentName: "Ana García"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceRecordScanUnknownStudent(t *testing.T) {
	svc, _, _ := newAttendanceFixture()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "sub1")
	require.NoError(t, err)

	_, err = svc.RecordScan(ctx, RecordScanRequest{SessionID: session.ID, StudentName: "Nadie"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceRollCallReusesSessionOnSameDay(t *testing.T) {
	svc, repo, _ := newAttendanceFixture()
	ctx := context.Background()

	first, err := svc.RollCall(ctx, "sub1", RollCallRequest{Date: "2025-09-15", StudentIDs: []string{"st1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Recorded)

	second, err := svc.RollCall(ctx, "sub1", RollCallRequest{Date: "2025-09-15", StudentIDs: []string{"st1", "st2"}})
	require.NoError(t, err)
	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, 1, second.Recorded)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, repo.sessions, 1)
}

func TestAttendanceServiceManualSessionIsBackdated(t *testing.T) {
	svc, _, _ := newAttendanceFixture()
	ctx := context.Background()

	session, err := svc.CreateManualSession(ctx, "sub1", ManualSessionRequest{Date: "2025-09-02"})
	require.NoError(t, err)
	assert.Equal(t, "2025-09-02", academic.DateOfTime(session.CreatedAt).String())
}
