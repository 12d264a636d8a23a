package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aula-dev/aula-api/internal/models"
)

// PlannerRepository handles planned class persistence.
type PlannerRepository struct {
	db *sqlx.DB
}

// NewPlannerRepository creates a new planner repository.
func NewPlannerRepository(db *sqlx.DB) *PlannerRepository {
	return &PlannerRepository{db: db}
}

// ListBySubject returns the subject's planned classes in date order.
func (r *PlannerRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.PlannedClass, error) {
	const query = `SELECT id, subject_id, class_date, title, description, status, created_at
        FROM planned_classes WHERE subject_id = $1 ORDER BY class_date ASC`
	var classes []models.PlannedClass
	if err := r.db.SelectContext(ctx, &classes, query, subjectID); err != nil {
		return nil, fmt.Errorf("list planned classes: %w", err)
	}
	return classes, nil
}

// GetByID returns one planned class.
func (r *PlannerRepository) GetByID(ctx context.Context, id string) (*models.PlannedClass, error) {
	const query = `SELECT id, subject_id, class_date, title, description, status, created_at
        FROM planned_classes WHERE id = $1`
	var class models.PlannedClass
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts one planned class.
func (r *PlannerRepository) Create(ctx context.Context, class *models.PlannedClass) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO planned_classes (id, subject_id, class_date, title, description, status, created_at)
        VALUES (:id, :subject_id, :class_date, :title, :description, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("insert planned class: %w", err)
	}
	return nil
}

// CreateBatch inserts several planned classes in one transaction. Used by
// the topic distributor which plans a whole stretch of sessions at once.
func (r *PlannerRepository) CreateBatch(ctx context.Context, classes []models.PlannedClass) error {
	if len(classes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin planner batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO planned_classes (id, subject_id, class_date, title, description, status, created_at)
        VALUES (:id, :subject_id, :class_date, :title, :description, :status, :created_at)`
	for i := range classes {
		if classes[i].ID == "" {
			classes[i].ID = uuid.NewString()
		}
		if classes[i].CreatedAt.IsZero() {
			classes[i].CreatedAt = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, query, classes[i]); err != nil {
			return fmt.Errorf("insert planned class %q: %w", classes[i].Title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit planner batch: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a planned class.
func (r *PlannerRepository) Update(ctx context.Context, class *models.PlannedClass) error {
	const query = `UPDATE planned_classes SET
        class_date = :class_date, title = :title, description = :description, status = :status
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update planned class: %w", err)
	}
	return nil
}

// Delete removes a planned class.
func (r *PlannerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM planned_classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete planned class: %w", err)
	}
	return nil
}

// DeleteBySubject removes every planned class of a subject.
func (r *PlannerRepository) DeleteBySubject(ctx context.Context, subjectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM planned_classes WHERE subject_id = $1`, subjectID); err != nil {
		return fmt.Errorf("delete planned classes: %w", err)
	}
	return nil
}
