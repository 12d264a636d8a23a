package models

import "time"

// Assignment is a graded activity owned by a default-type criterion.
type Assignment struct {
	ID          string    `db:"id" json:"id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	Name        string    `db:"name" json:"name"`
	CriterionID string    `db:"evaluation_criterion_id" json:"evaluation_criterion_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Grade records one student's score for an assignment. Writes are upserts on
// (student_id, assignment_id).
type Grade struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	Score        float64   `db:"score" json:"score"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
