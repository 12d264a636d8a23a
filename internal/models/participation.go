package models

import (
	"time"

	"github.com/aula-dev/aula-api/internal/academic"
)

// Participation awards points to a student on a calendar day. Multiple awards
// per (student, date) are allowed and summed during aggregation.
type Participation struct {
	ID        string        `db:"id" json:"id"`
	StudentID string        `db:"student_id" json:"student_id"`
	SubjectID string        `db:"subject_id" json:"subject_id"`
	Points    float64       `db:"points" json:"points"`
	Date      academic.Date `db:"date" json:"date"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
