package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aula-dev/aula-api/internal/models"
)

func newGradeMock(t *testing.T) (*GradeRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { _ = sqlxDB.Close() })
	return NewGradeRepository(sqlxDB), mock
}

func TestGradeRepositoryListBySubject(t *testing.T) {
	repo, mock := newGradeMock(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "assignment_id", "subject_id", "score", "created_at", "updated_at"}).
		AddRow("g1", "st1", "a1", "sub1", 8.5, now, now).
		AddRow("g2", "st2", "a1", "sub1", 6.0, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, student_id, assignment_id, subject_id, score, created_at, updated_at`)).
		WithArgs("sub1").
		WillReturnRows(rows)

	grades, err := repo.ListBySubject(context.Background(), "sub1")
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Equal(t, "st1", grades[0].StudentID)
	assert.Equal(t, 8.5, grades[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryUpsert(t *testing.T) {
	repo, mock := newGradeMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO grades`)).
		WithArgs(sqlmock.AnyArg(), "st1", "a1", "sub1", 9.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	grade := &models.Grade{StudentID: "st1", AssignmentID: "a1", SubjectID: "sub1", Score: 9.0}
	err := repo.Upsert(context.Background(), grade)
	require.NoError(t, err)
	assert.NotEmpty(t, grade.ID)
	assert.False(t, grade.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryUpsertBatchCommitsAll(t *testing.T) {
	repo, mock := newGradeMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO grades`)).
		WithArgs(sqlmock.AnyArg(), "st1", "a1", "sub1", 7.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO grades`)).
		WithArgs(sqlmock.AnyArg(), "st1", "a2", "sub1", 8.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	grades := []models.Grade{
		{StudentID: "st1", AssignmentID: "a1", SubjectID: "sub1", Score: 7.0},
		{StudentID: "st1", AssignmentID: "a2", SubjectID: "sub1", Score: 8.0},
	}
	err := repo.UpsertBatch(context.Background(), grades)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
