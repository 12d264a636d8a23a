package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type assignmentRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.Assignment, error)
	CountByCriterion(ctx context.Context, criterionID string) (int, error)
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// AssignmentService manages gradeable work items under default criteria.
type AssignmentService struct {
	repo      assignmentRepository
	criteria  criterionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo assignmentRepository, criteria criterionRepository, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, criteria: criteria, validator: validate, logger: logger}
}

// CreateAssignmentRequest describes a new assignment.
type CreateAssignmentRequest struct {
	Name        string `json:"name" validate:"required"`
	CriterionID string `json:"criterion_id" validate:"required"`
}

// RenameAssignmentRequest renames an assignment.
type RenameAssignmentRequest struct {
	Name string `json:"name" validate:"required"`
}

// List returns all assignments for a subject.
func (s *AssignmentService) List(ctx context.Context, subjectID string) ([]models.Assignment, error) {
	assignments, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Get returns one assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// Create registers an assignment under a default criterion, honoring the
// criterion's single assignment limit.
func (s *AssignmentService) Create(ctx context.Context, subjectID string, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	criterion, err := s.criteria.GetByID(ctx, req.CriterionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "criterion not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load criterion")
	}
	if criterion.SubjectID != subjectID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "criterion belongs to a different subject")
	}
	if criterion.Type != academic.CriterionDefault {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignments can only be added to default criteria")
	}
	if criterion.AssignmentLimit == models.AssignmentLimitSingle {
		count, err := s.repo.CountByCriterion(ctx, req.CriterionID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assignments")
		}
		if count >= 1 {
			return nil, appErrors.Clone(appErrors.ErrConflict, "criterion already has its single assignment")
		}
	}

	assignment := &models.Assignment{SubjectID: subjectID, Name: req.Name, CriterionID: req.CriterionID}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// Rename updates an assignment's display name.
func (s *AssignmentService) Rename(ctx context.Context, id string, req RenameAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Rename(ctx, id, req.Name); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rename assignment")
	}
	return s.Get(ctx, id)
}

// Delete removes an assignment and its grades.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}
