package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	UpdateSchedule(ctx context.Context, id string, schedule models.ScheduleEntries) error
	UpdateGradingPeriodDates(ctx context.Context, id string, dates models.PeriodDates) error
	Delete(ctx context.Context, id string) error
}

// SubjectService manages subjects, their weekly schedules and grading
// period boundaries.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// ScheduleEntryRequest is one weekly slot.
type ScheduleEntryRequest struct {
	Day           int     `json:"day" validate:"required,min=1,max=7"`
	Time          string  `json:"time" validate:"required"`
	DurationHours float64 `json:"duration_hours" validate:"required,gt=0"`
}

// CreateSubjectRequest describes the subject creation payload.
type CreateSubjectRequest struct {
	Name     string                 `json:"name" validate:"required"`
	Term     string                 `json:"term" validate:"required,oneof=semestre cuatrimestre"`
	Schedule []ScheduleEntryRequest `json:"schedule" validate:"omitempty,dive"`
}

// UpdateScheduleRequest replaces the subject's weekly schedule.
type UpdateScheduleRequest struct {
	Schedule []ScheduleEntryRequest `json:"schedule" validate:"required,dive"`
}

// UpdatePeriodDatesRequest replaces the grading period start dates. Keys are
// period numbers as strings ("1", "2", ...), values are ISO dates.
type UpdatePeriodDatesRequest struct {
	Dates map[string]string `json:"dates" validate:"required"`
}

// List returns all subjects.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create registers a subject with an optional weekly schedule.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := validateScheduleDays(req.Schedule); err != nil {
		return nil, err
	}
	subject := &models.Subject{
		Name:     req.Name,
		Term:     models.TermKind(req.Term),
		Schedule: toScheduleEntries(req.Schedule),
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// UpdateSchedule replaces the weekly schedule of a subject.
func (s *SubjectService) UpdateSchedule(ctx context.Context, id string, req UpdateScheduleRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := validateScheduleDays(req.Schedule); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSchedule(ctx, id, toScheduleEntries(req.Schedule)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	return s.Get(ctx, id)
}

// UpdateGradingPeriodDates replaces the period start dates of a subject.
func (s *SubjectService) UpdateGradingPeriodDates(ctx context.Context, id string, req UpdatePeriodDatesRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	dates := models.PeriodDates{}
	for key, raw := range req.Dates {
		if !validPeriodKey(key) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown grading period %q, expected 1 to 4", key))
		}
		date, err := academic.ParseDate(raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
		}
		dates[key] = date
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateGradingPeriodDates(ctx, id, dates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grading periods")
	}
	return s.Get(ctx, id)
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}

func toScheduleEntries(entries []ScheduleEntryRequest) models.ScheduleEntries {
	out := make(models.ScheduleEntries, len(entries))
	for i, entry := range entries {
		out[i] = models.ScheduleEntry{Day: entry.Day, Time: entry.Time, DurationHours: entry.DurationHours}
	}
	return out
}

// validateScheduleDays enforces at most one entry per weekday.
func validateScheduleDays(entries []ScheduleEntryRequest) error {
	seen := make(map[int]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.Day] {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate schedule entry for day %d", entry.Day))
		}
		seen[entry.Day] = true
	}
	return nil
}

func validPeriodKey(key string) bool {
	switch key {
	case "1", "2", "3", "4":
		return true
	}
	return false
}
