package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aula-dev/aula-api/internal/models"
)

// AssignmentRepository handles assignment persistence.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListBySubject returns all assignments for a subject.
func (r *AssignmentRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Assignment, error) {
	const query = `SELECT id, subject_id, name, evaluation_criterion_id, created_at
        FROM assignments WHERE subject_id = $1 ORDER BY created_at ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, subjectID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// CountByCriterion returns how many assignments are attached to a criterion.
func (r *AssignmentRepository) CountByCriterion(ctx context.Context, criterionID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM assignments WHERE evaluation_criterion_id = $1`
	if err := r.db.GetContext(ctx, &count, query, criterionID); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return count, nil
}

// GetByID returns one assignment.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	const query = `SELECT id, subject_id, name, evaluation_criterion_id, created_at
        FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (id, subject_id, name, evaluation_criterion_id, created_at)
        VALUES (:id, :subject_id, :name, :evaluation_criterion_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// Rename updates an assignment's display name.
func (r *AssignmentRepository) Rename(ctx context.Context, id, name string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE assignments SET name = $2 WHERE id = $1`, id, name); err != nil {
		return fmt.Errorf("rename assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment along with its grades.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM grades WHERE assignment_id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment grades: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment delete: %w", err)
	}
	return nil
}
