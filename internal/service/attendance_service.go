package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	"github.com/aula-dev/aula-api/internal/repository"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type attendanceRepository interface {
	CreateSession(ctx context.Context, session *models.AttendanceSession) error
	GetSession(ctx context.Context, id string) (*models.AttendanceSession, error)
	FindSessionOnDate(ctx context.Context, subjectID string, day academic.Date) (*models.AttendanceSession, error)
	ListSessions(ctx context.Context, subjectID string) ([]models.AttendanceSession, error)
	CreateRecord(ctx context.Context, record *models.AttendanceRecord) error
	CreateRecords(ctx context.Context, records []models.AttendanceRecord) (int, error)
	ListRecordsBySession(ctx context.Context, sessionID string) ([]models.AttendanceRecordRow, error)
	ListRecordsByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
	DeleteRecord(ctx context.Context, id int64) error
}

// AttendanceService runs attendance capture: live badge scanning sessions,
// roll call by list, and manual backdated sessions.
type AttendanceService struct {
	repo      attendanceRepository
	students  studentRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, students studentRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, students: students, metrics: metrics, validator: validate, logger: logger}
}

// RecordScanRequest resolves a scanned badge into a check-in.
type RecordScanRequest struct {
	SessionID   string `json:"session_id" validate:"required"`
	StudentName string `json:"student_name" validate:"required"`
}

// RollCallRequest records attendance for a list of students on a date. Only
// one session may exist per subject per day; roll call reuses it.
type RollCallRequest struct {
	Date       string   `json:"date" validate:"required"`
	StudentIDs []string `json:"student_ids" validate:"required,min=1"`
}

// ManualSessionRequest opens a backdated session.
type ManualSessionRequest struct {
	Date string `json:"date" validate:"required"`
}

// RollCallResult summarises a roll call write.
type RollCallResult struct {
	Session  *models.AttendanceSession `json:"session"`
	Recorded int                       `json:"recorded"`
	Skipped  int                       `json:"skipped"`
}

// StartSession opens a live scanning session stamped with the current time.
func (s *AttendanceService) StartSession(ctx context.Context, subjectID string) (*models.AttendanceSession, error) {
	session := &models.AttendanceSession{SubjectID: subjectID}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start session")
	}
	return session, nil
}

// CreateManualSession opens a session stamped on a past date, for days when
// attendance was taken on paper.
func (s *AttendanceService) CreateManualSession(ctx context.Context, subjectID string, req ManualSessionRequest) (*models.AttendanceSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	day, err := academic.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	session := &models.AttendanceSession{SubjectID: subjectID, CreatedAt: day.Time()}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// RecordScan checks a scanned student into a session. A badge carries the
// roster name; repeat scans for the same student are rejected.
func (s *AttendanceService) RecordScan(ctx context.Context, req RecordScanRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	session, err := s.repo.GetSession(ctx, req.SessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	student, err := s.students.FindByName(ctx, session.SubjectID, req.StudentName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in this subject")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}

	record := &models.AttendanceRecord{
		StudentID: student.ID,
		SessionID: session.ID,
		SubjectID: session.SubjectID,
	}
	err = s.repo.CreateRecord(ctx, record)
	if errors.Is(err, repository.ErrDuplicateRecord) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already checked in for this session")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record scan")
	}
	s.metrics.RecordScan()
	return record, nil
}

// RollCall records attendance for the selected students on a date. If the
// subject already has a session that day it is reused, otherwise one is
// created stamped on the date.
func (s *AttendanceService) RollCall(ctx context.Context, subjectID string, req RollCallRequest) (*RollCallResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	day, err := academic.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	session, err := s.repo.FindSessionOnDate(ctx, subjectID, day)
	if errors.Is(err, sql.ErrNoRows) {
		session = &models.AttendanceSession{SubjectID: subjectID, CreatedAt: day.Time()}
		if err := s.repo.CreateSession(ctx, session); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
		}
	} else if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up session")
	}

	records := make([]models.AttendanceRecord, len(req.StudentIDs))
	now := time.Now().UTC()
	for i, studentID := range req.StudentIDs {
		records[i] = models.AttendanceRecord{
			StudentID: studentID,
			SessionID: session.ID,
			SubjectID: subjectID,
			CreatedAt: now,
		}
	}
	inserted, err := s.repo.CreateRecords(ctx, records)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record roll call")
	}
	return &RollCallResult{Session: session, Recorded: inserted, Skipped: len(records) - inserted}, nil
}

// ListSessions returns all sessions of a subject.
func (s *AttendanceService) ListSessions(ctx context.Context, subjectID string) ([]models.AttendanceSession, error) {
	sessions, err := s.repo.ListSessions(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// SessionRecords returns the check-ins of one session with student names.
func (s *AttendanceService) SessionRecords(ctx context.Context, sessionID string) ([]models.AttendanceRecordRow, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	} else if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	rows, err := s.repo.ListRecordsBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session records")
	}
	return rows, nil
}

// DeleteRecord removes a check-in, for correcting mistakes during capture.
func (s *AttendanceService) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete record")
	}
	return nil
}
