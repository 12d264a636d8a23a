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

type criterionRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.EvaluationCriterion, error)
	ListByPeriod(ctx context.Context, subjectID string, period int) ([]models.EvaluationCriterion, error)
	GetByID(ctx context.Context, id string) (*models.EvaluationCriterion, error)
	Create(ctx context.Context, criterion *models.EvaluationCriterion) error
	Update(ctx context.Context, criterion *models.EvaluationCriterion) error
	Delete(ctx context.Context, id string) error
}

// CriterionService manages the weighted evaluation scheme of each grading
// period.
type CriterionService struct {
	repo      criterionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCriterionService constructs the criterion service.
func NewCriterionService(repo criterionRepository, validate *validator.Validate, logger *zap.Logger) *CriterionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CriterionService{repo: repo, validator: validate, logger: logger}
}

// CreateCriterionRequest describes a new evaluation criterion.
type CreateCriterionRequest struct {
	Name            string   `json:"name" validate:"required"`
	Percentage      float64  `json:"percentage" validate:"required,gt=0,lte=100"`
	Type            string   `json:"type" validate:"required,oneof=default attendance participation"`
	AssignmentLimit string   `json:"assignment_limit" validate:"omitempty,oneof=single multiple"`
	MaxPoints       *float64 `json:"max_points"`
	GradingPeriod   int      `json:"grading_period" validate:"required,min=1,max=4"`
}

// UpdateCriterionRequest rewrites an existing criterion.
type UpdateCriterionRequest struct {
	Name            string   `json:"name" validate:"required"`
	Percentage      float64  `json:"percentage" validate:"required,gt=0,lte=100"`
	AssignmentLimit string   `json:"assignment_limit" validate:"omitempty,oneof=single multiple"`
	MaxPoints       *float64 `json:"max_points"`
}

// List returns all criteria of a subject.
func (s *CriterionService) List(ctx context.Context, subjectID string) ([]models.EvaluationCriterion, error) {
	criteria, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list criteria")
	}
	return criteria, nil
}

// Get returns one criterion.
func (s *CriterionService) Get(ctx context.Context, id string) (*models.EvaluationCriterion, error) {
	criterion, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "criterion not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load criterion")
	}
	return criterion, nil
}

// Create registers a criterion, keeping the period's percentages at or
// below 100.
func (s *CriterionService) Create(ctx context.Context, subjectID string, req CreateCriterionRequest) (*models.EvaluationCriterion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	critType := academic.CriterionType(req.Type)
	limit := models.AssignmentLimit(req.AssignmentLimit)
	if limit == "" {
		limit = models.AssignmentLimitMultiple
	}
	// Attendance and participation produce a single computed line item.
	if critType != academic.CriterionDefault {
		limit = models.AssignmentLimitSingle
	}
	if critType == academic.CriterionParticipation {
		if req.MaxPoints == nil || *req.MaxPoints <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "participation criteria require max_points greater than zero")
		}
	}

	existing, err := s.repo.ListByPeriod(ctx, subjectID, req.GradingPeriod)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period criteria")
	}
	total := req.Percentage
	for _, c := range existing {
		total += c.Percentage
	}
	if total > 100 {
		msg := fmt.Sprintf("period percentages would total %.1f%%, exceeding 100%%", total)
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}

	criterion := &models.EvaluationCriterion{
		SubjectID:       subjectID,
		Name:            req.Name,
		Percentage:      req.Percentage,
		Type:            critType,
		AssignmentLimit: limit,
		MaxPoints:       req.MaxPoints,
		GradingPeriod:   req.GradingPeriod,
	}
	if err := s.repo.Create(ctx, criterion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create criterion")
	}
	return criterion, nil
}

// Update rewrites a criterion's name, weight and limits. The type is fixed
// at creation time.
func (s *CriterionService) Update(ctx context.Context, id string, req UpdateCriterionRequest) (*models.EvaluationCriterion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	criterion, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if criterion.Type == academic.CriterionParticipation {
		if req.MaxPoints == nil || *req.MaxPoints <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "participation criteria require max_points greater than zero")
		}
	}

	peers, err := s.repo.ListByPeriod(ctx, criterion.SubjectID, criterion.GradingPeriod)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period criteria")
	}
	total := req.Percentage
	for _, c := range peers {
		if c.ID == id {
			continue
		}
		total += c.Percentage
	}
	if total > 100 {
		msg := fmt.Sprintf("period percentages would total %.1f%%, exceeding 100%%", total)
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}

	criterion.Name = req.Name
	criterion.Percentage = req.Percentage
	if criterion.Type == academic.CriterionDefault && req.AssignmentLimit != "" {
		criterion.AssignmentLimit = models.AssignmentLimit(req.AssignmentLimit)
	}
	criterion.MaxPoints = req.MaxPoints
	if err := s.repo.Update(ctx, criterion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update criterion")
	}
	return criterion, nil
}

// Delete removes a criterion.
func (s *CriterionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete criterion")
	}
	return nil
}
