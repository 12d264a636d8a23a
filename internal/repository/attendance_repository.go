package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
)

// ErrDuplicateRecord signals that a student is already checked in for the
// session, mapped from the unique constraint on (student_id, session_id).
var ErrDuplicateRecord = errors.New("attendance record already exists")

// AttendanceRepository handles attendance sessions and per-student records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateSession opens a session at the given timestamp.
func (r *AttendanceRepository) CreateSession(ctx context.Context, session *models.AttendanceSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_sessions (id, subject_id, created_at)
        VALUES (:id, :subject_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("insert attendance session: %w", err)
	}
	return nil
}

// GetSession returns one session.
func (r *AttendanceRepository) GetSession(ctx context.Context, id string) (*models.AttendanceSession, error) {
	const query = `SELECT id, subject_id, created_at FROM attendance_sessions WHERE id = $1`
	var session models.AttendanceSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindSessionOnDate returns the subject's session whose timestamp falls on
// the given calendar day, if one exists.
func (r *AttendanceRepository) FindSessionOnDate(ctx context.Context, subjectID string, day academic.Date) (*models.AttendanceSession, error) {
	const query = `SELECT id, subject_id, created_at FROM attendance_sessions
        WHERE subject_id = $1 AND created_at >= $2 AND created_at < $3
        ORDER BY created_at ASC LIMIT 1`
	y, m, d := day.Time().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	var session models.AttendanceSession
	if err := r.db.GetContext(ctx, &session, query, subjectID, start, end); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all sessions for a subject, oldest first.
func (r *AttendanceRepository) ListSessions(ctx context.Context, subjectID string) ([]models.AttendanceSession, error) {
	const query = `SELECT id, subject_id, created_at FROM attendance_sessions
        WHERE subject_id = $1 ORDER BY created_at ASC`
	var sessions []models.AttendanceSession
	if err := r.db.SelectContext(ctx, &sessions, query, subjectID); err != nil {
		return nil, fmt.Errorf("list attendance sessions: %w", err)
	}
	return sessions, nil
}

// CreateRecord checks a student into a session. Duplicate check-ins are
// rejected with ErrDuplicateRecord.
func (r *AttendanceRepository) CreateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_records (student_id, session_id, subject_id, created_at)
        VALUES (:student_id, :session_id, :subject_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("insert attendance record: %w", err)
	}
	return nil
}

// CreateRecords checks several students into a session at once, skipping
// students already recorded. Returns the number of rows actually inserted.
func (r *AttendanceRepository) CreateRecords(ctx context.Context, records []models.AttendanceRecord) (int, error) {
	inserted := 0
	for i := range records {
		err := r.CreateRecord(ctx, &records[i])
		if errors.Is(err, ErrDuplicateRecord) {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// ListRecordsBySession returns the records for one session joined with the
// student name, in check-in order.
func (r *AttendanceRepository) ListRecordsBySession(ctx context.Context, sessionID string) ([]models.AttendanceRecordRow, error) {
	const query = `SELECT ar.id, ar.student_id, ar.session_id, ar.subject_id, ar.created_at,
        s.name AS student_name
        FROM attendance_records ar
        JOIN students s ON s.id = ar.student_id
        WHERE ar.session_id = $1 ORDER BY ar.created_at ASC`
	var rows []models.AttendanceRecordRow
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}
	return rows, nil
}

// ListRecordsByStudent returns every record for one student.
func (r *AttendanceRepository) ListRecordsByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, student_id, session_id, subject_id, created_at
        FROM attendance_records WHERE student_id = $1 ORDER BY created_at ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list student records: %w", err)
	}
	return records, nil
}

// DeleteRecord removes one attendance record.
func (r *AttendanceRepository) DeleteRecord(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete attendance record: %w", err)
	}
	return nil
}
