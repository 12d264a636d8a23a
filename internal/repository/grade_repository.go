package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aula-dev/aula-api/internal/models"
)

// GradeRepository handles score persistence.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListBySubject returns every grade recorded for a subject.
func (r *GradeRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Grade, error) {
	const query = `SELECT id, student_id, assignment_id, subject_id, score, created_at, updated_at
        FROM grades WHERE subject_id = $1`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, subjectID); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// ListByStudent returns every grade for one student.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error) {
	const query = `SELECT id, student_id, assignment_id, subject_id, score, created_at, updated_at
        FROM grades WHERE student_id = $1`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, studentID); err != nil {
		return nil, fmt.Errorf("list student grades: %w", err)
	}
	return grades, nil
}

// Upsert records a score, replacing any previous score the student had for
// the assignment.
func (r *GradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, student_id, assignment_id, subject_id, score, created_at, updated_at)
        VALUES (:id, :student_id, :assignment_id, :subject_id, :score, :created_at, :updated_at)
        ON CONFLICT (student_id, assignment_id)
        DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("upsert grade: %w", err)
	}
	return nil
}

// UpsertBatch records several scores atomically. Used by the bulk scanner
// where one scan produces a grade per assignment.
func (r *GradeRepository) UpsertBatch(ctx context.Context, grades []models.Grade) error {
	if len(grades) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin grade batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO grades (id, student_id, assignment_id, subject_id, score, created_at, updated_at)
        VALUES (:id, :student_id, :assignment_id, :subject_id, :score, :created_at, :updated_at)
        ON CONFLICT (student_id, assignment_id)
        DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range grades {
		if grades[i].ID == "" {
			grades[i].ID = uuid.NewString()
		}
		if grades[i].CreatedAt.IsZero() {
			grades[i].CreatedAt = now
		}
		grades[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, grades[i]); err != nil {
			return fmt.Errorf("upsert grade for student %s: %w", grades[i].StudentID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grade batch: %w", err)
	}
	return nil
}

// Delete removes a single grade.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}
