package models

import "github.com/aula-dev/aula-api/internal/academic"

// Pagination carries standard list metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// StudentReport is the displayable grading report for one student, subject
// and grading period.
type StudentReport struct {
	StudentID    string                     `json:"student_id"`
	StudentName  string                     `json:"student_name"`
	SubjectID    string                     `json:"subject_id"`
	PeriodKey    string                     `json:"period_key"`
	Period       academic.Period            `json:"period"`
	PerCriterion []academic.CriterionResult `json:"per_criterion"`
	FinalScore   float64                    `json:"final_score"`
	Attended     []academic.Date            `json:"attended_dates"`
	Missed       []academic.Date            `json:"missed_dates"`
}
