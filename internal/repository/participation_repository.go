package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aula-dev/aula-api/internal/models"
)

// ParticipationRepository handles participation point persistence.
type ParticipationRepository struct {
	db *sqlx.DB
}

// NewParticipationRepository creates a new participation repository.
func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// ListBySubject returns every participation entry for a subject.
func (r *ParticipationRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Participation, error) {
	const query = `SELECT id, student_id, subject_id, points, date, created_at
        FROM participations WHERE subject_id = $1 ORDER BY date ASC`
	var entries []models.Participation
	if err := r.db.SelectContext(ctx, &entries, query, subjectID); err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	return entries, nil
}

// ListByStudent returns every participation entry for one student.
func (r *ParticipationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Participation, error) {
	const query = `SELECT id, student_id, subject_id, points, date, created_at
        FROM participations WHERE student_id = $1 ORDER BY date ASC`
	var entries []models.Participation
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		return nil, fmt.Errorf("list student participations: %w", err)
	}
	return entries, nil
}

// Create records a participation entry.
func (r *ParticipationRepository) Create(ctx context.Context, entry *models.Participation) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO participations (id, student_id, subject_id, points, date, created_at)
        VALUES (:id, :student_id, :subject_id, :points, :date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert participation: %w", err)
	}
	return nil
}

// Delete removes a participation entry.
func (r *ParticipationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM participations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	return nil
}
