package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aula-dev/aula-api/internal/academic"
)

// TermKind distinguishes semester and four-month subjects.
type TermKind string

const (
	TermSemestre     TermKind = "semestre"
	TermCuatrimestre TermKind = "cuatrimestre"
)

// Valid reports whether the term kind is supported.
func (t TermKind) Valid() bool {
	return t == TermSemestre || t == TermCuatrimestre
}

// ScheduleEntry is one weekly class slot. Day uses ISO weekdays (Mon=1..Sun=7)
// and a subject holds at most one entry per day.
type ScheduleEntry struct {
	Day           int     `json:"day"`
	Time          string  `json:"time"`
	DurationHours float64 `json:"duration"`
}

// ScheduleEntries is the JSONB-backed weekly schedule of a subject.
type ScheduleEntries []ScheduleEntry

// Days returns the distinct ISO weekdays covered by the schedule.
func (s ScheduleEntries) Days() []int {
	seen := make(map[int]bool, len(s))
	var days []int
	for _, entry := range s {
		if !seen[entry.Day] {
			seen[entry.Day] = true
			days = append(days, entry.Day)
		}
	}
	return days
}

// Value implements driver.Valuer for JSONB storage.
func (s ScheduleEntries) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage.
func (s *ScheduleEntries) Scan(src interface{}) error {
	return scanJSON(src, s, "ScheduleEntries")
}

// PeriodDates maps period keys "1".."4" to the period's first day.
type PeriodDates map[string]academic.Date

// Value implements driver.Valuer for JSONB storage.
func (p PeriodDates) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB storage.
func (p *PeriodDates) Scan(src interface{}) error {
	return scanJSON(src, p, "PeriodDates")
}

// Subject is a taught course with its weekly schedule and period boundaries.
type Subject struct {
	ID                 string          `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	Term               TermKind        `db:"term" json:"term"`
	Schedule           ScheduleEntries `db:"schedule" json:"schedule,omitempty"`
	GradingPeriodDates PeriodDates     `db:"grading_period_dates" json:"grading_period_dates,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

func scanJSON(src, dest interface{}, label string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %s", src, label)
	}
}
