package models

import (
	"time"

	"github.com/aula-dev/aula-api/internal/academic"
)

// PlannedClassStatus tracks planner item lifecycle.
type PlannedClassStatus string

const (
	PlannedClassPlanned   PlannedClassStatus = "planned"
	PlannedClassCompleted PlannedClassStatus = "completed"
	PlannedClassCancelled PlannedClassStatus = "cancelled"
)

// Valid reports whether the status is a supported value.
func (s PlannedClassStatus) Valid() bool {
	switch s {
	case PlannedClassPlanned, PlannedClassCompleted, PlannedClassCancelled:
		return true
	default:
		return false
	}
}

// PlannedClass is a class-topic planner entry for a subject.
type PlannedClass struct {
	ID          string             `db:"id" json:"id"`
	SubjectID   string             `db:"subject_id" json:"subject_id"`
	ClassDate   academic.Date      `db:"class_date" json:"class_date"`
	Title       string             `db:"title" json:"title"`
	Description *string            `db:"description" json:"description,omitempty"`
	Status      PlannedClassStatus `db:"status" json:"status"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
}
