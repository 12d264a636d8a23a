package models

import (
	"time"

	"github.com/aula-dev/aula-api/internal/academic"
)

// AssignmentLimit caps how many assignments a default criterion may own.
type AssignmentLimit string

const (
	AssignmentLimitSingle   AssignmentLimit = "single"
	AssignmentLimitMultiple AssignmentLimit = "multiple"
)

// Valid reports whether the limit is a supported value.
func (l AssignmentLimit) Valid() bool {
	return l == AssignmentLimitSingle || l == AssignmentLimitMultiple
}

// EvaluationCriterion is a weighted rubric line item scoped to a grading
// period. MaxPoints is only meaningful for participation criteria and
// AssignmentLimit only for default ones.
type EvaluationCriterion struct {
	ID              string                 `db:"id" json:"id"`
	SubjectID       string                 `db:"subject_id" json:"subject_id"`
	Name            string                 `db:"name" json:"name"`
	Percentage      float64                `db:"percentage" json:"percentage"`
	Type            academic.CriterionType `db:"type" json:"type"`
	AssignmentLimit AssignmentLimit        `db:"assignment_limit" json:"assignment_limit"`
	MaxPoints       *float64               `db:"max_points" json:"max_points,omitempty"`
	GradingPeriod   int                    `db:"grading_period" json:"grading_period"`
	CreatedAt       time.Time              `db:"created_at" json:"created_at"`
}

// Core converts the record into the aggregator's input shape.
func (c EvaluationCriterion) Core() academic.Criterion {
	crit := academic.Criterion{
		ID:            c.ID,
		Name:          c.Name,
		Percentage:    c.Percentage,
		Type:          c.Type,
		GradingPeriod: c.GradingPeriod,
	}
	if c.MaxPoints != nil {
		crit.MaxPoints = *c.MaxPoints
	}
	return crit
}
