package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aula-dev/aula-api/internal/models"
)

// SubjectRepository handles subject persistence.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns all subjects ordered by creation time.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, name, term, schedule, grading_period_dates, created_at
        FROM subjects ORDER BY created_at DESC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// GetByID returns one subject.
func (r *SubjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, name, term, schedule, grading_period_dates, created_at
        FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO subjects (id, name, term, schedule, grading_period_dates, created_at)
        VALUES (:id, :name, :term, :schedule, :grading_period_dates, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

// UpdateSchedule replaces the subject's weekly schedule.
func (r *SubjectRepository) UpdateSchedule(ctx context.Context, id string, schedule models.ScheduleEntries) error {
	const query = `UPDATE subjects SET schedule = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, schedule); err != nil {
		return fmt.Errorf("update subject schedule: %w", err)
	}
	return nil
}

// UpdateGradingPeriodDates replaces the subject's period start dates.
func (r *SubjectRepository) UpdateGradingPeriodDates(ctx context.Context, id string, dates models.PeriodDates) error {
	const query = `UPDATE subjects SET grading_period_dates = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, dates); err != nil {
		return fmt.Errorf("update subject grading periods: %w", err)
	}
	return nil
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
