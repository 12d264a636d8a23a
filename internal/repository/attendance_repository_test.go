package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
)

func newAttendanceMock(t *testing.T) (*AttendanceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { _ = sqlxDB.Close() })
	return NewAttendanceRepository(sqlxDB), mock
}

func TestAttendanceRepositoryCreateRecordDuplicate(t *testing.T) {
	repo, mock := newAttendanceMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO attendance_records`)).
		WithArgs("st1", "sess1", "sub1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	record := &models.AttendanceRecord{StudentID: "st1", SessionID: "sess1", SubjectID: "sub1"}
	err := repo.CreateRecord(context.Background(), record)
	assert.ErrorIs(t, err, ErrDuplicateRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCreateRecordsSkipsDuplicates(t *testing.T) {
	repo, mock := newAttendanceMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO attendance_records`)).
		WithArgs("st1", "sess1", "sub1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO attendance_records`)).
		WithArgs("st2", "sess1", "sub1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO attendance_records`)).
		WithArgs("st3", "sess1", "sub1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	records := []models.AttendanceRecord{
		{StudentID: "st1", SessionID: "sess1", SubjectID: "sub1"},
		{StudentID: "st2", SessionID: "sess1", SubjectID: "sub1"},
		{StudentID: "st3", SessionID: "sess1", SubjectID: "sub1"},
	}
	inserted, err := repo.CreateRecords(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryFindSessionOnDate(t *testing.T) {
	repo, mock := newAttendanceMock(t)

	created := time.Date(2025, 9, 16, 8, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "subject_id", "created_at"}).
		AddRow("sess1", "sub1", created)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, subject_id, created_at FROM attendance_sessions`)).
		WithArgs("sub1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	session, err := repo.FindSessionOnDate(context.Background(), "sub1", academic.MustDate("2025-09-16"))
	require.NoError(t, err)
	assert.Equal(t, "sess1", session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListRecordsBySession(t *testing.T) {
	repo, mock := newAttendanceMock(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "session_id", "subject_id", "created_at", "student_name"}).
		AddRow(int64(1), "st1", "sess1", "sub1", now, "Ana García").
		AddRow(int64(2), "st2", "sess1", "sub1", now, "Bruno López")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM attendance_records ar`)).
		WithArgs("sess1").
		WillReturnRows(rows)

	records, err := repo.ListRecordsBySession(context.Background(), "sess1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ana García", records[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
