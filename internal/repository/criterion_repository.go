package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aula-dev/aula-api/internal/models"
)

// CriterionRepository handles evaluation criterion persistence.
type CriterionRepository struct {
	db *sqlx.DB
}

// NewCriterionRepository creates a new criterion repository.
func NewCriterionRepository(db *sqlx.DB) *CriterionRepository {
	return &CriterionRepository{db: db}
}

// ListBySubject returns all criteria for a subject across every period.
func (r *CriterionRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.EvaluationCriterion, error) {
	const query = `SELECT id, subject_id, name, percentage, type, assignment_limit,
        max_points, grading_period, created_at
        FROM evaluation_criteria WHERE subject_id = $1
        ORDER BY grading_period ASC, created_at ASC`
	var criteria []models.EvaluationCriterion
	if err := r.db.SelectContext(ctx, &criteria, query, subjectID); err != nil {
		return nil, fmt.Errorf("list criteria: %w", err)
	}
	return criteria, nil
}

// ListByPeriod returns the criteria defined for one grading period.
func (r *CriterionRepository) ListByPeriod(ctx context.Context, subjectID string, period int) ([]models.EvaluationCriterion, error) {
	const query = `SELECT id, subject_id, name, percentage, type, assignment_limit,
        max_points, grading_period, created_at
        FROM evaluation_criteria WHERE subject_id = $1 AND grading_period = $2
        ORDER BY created_at ASC`
	var criteria []models.EvaluationCriterion
	if err := r.db.SelectContext(ctx, &criteria, query, subjectID, period); err != nil {
		return nil, fmt.Errorf("list criteria by period: %w", err)
	}
	return criteria, nil
}

// GetByID returns one criterion.
func (r *CriterionRepository) GetByID(ctx context.Context, id string) (*models.EvaluationCriterion, error) {
	const query = `SELECT id, subject_id, name, percentage, type, assignment_limit,
        max_points, grading_period, created_at
        FROM evaluation_criteria WHERE id = $1`
	var criterion models.EvaluationCriterion
	if err := r.db.GetContext(ctx, &criterion, query, id); err != nil {
		return nil, err
	}
	return &criterion, nil
}

// Create inserts a criterion.
func (r *CriterionRepository) Create(ctx context.Context, criterion *models.EvaluationCriterion) error {
	if criterion.ID == "" {
		criterion.ID = uuid.NewString()
	}
	if criterion.CreatedAt.IsZero() {
		criterion.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO evaluation_criteria
        (id, subject_id, name, percentage, type, assignment_limit, max_points, grading_period, created_at)
        VALUES (:id, :subject_id, :name, :percentage, :type, :assignment_limit, :max_points, :grading_period, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, criterion); err != nil {
		return fmt.Errorf("insert criterion: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a criterion.
func (r *CriterionRepository) Update(ctx context.Context, criterion *models.EvaluationCriterion) error {
	const query = `UPDATE evaluation_criteria SET
        name = :name, percentage = :percentage, type = :type,
        assignment_limit = :assignment_limit, max_points = :max_points
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, criterion); err != nil {
		return fmt.Errorf("update criterion: %w", err)
	}
	return nil
}

// Delete removes a criterion.
func (r *CriterionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM evaluation_criteria WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete criterion: %w", err)
	}
	return nil
}
