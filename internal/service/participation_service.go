package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type participationRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.Participation, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Participation, error)
	Create(ctx context.Context, entry *models.Participation) error
	Delete(ctx context.Context, id string) error
}

// ParticipationService awards in-class participation points.
type ParticipationService struct {
	repo      participationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewParticipationService constructs the participation service.
func NewParticipationService(repo participationRepository, validate *validator.Validate, logger *zap.Logger) *ParticipationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipationService{repo: repo, validator: validate, logger: logger}
}

// AwardParticipationRequest grants points to a student. Date defaults to
// today when omitted.
type AwardParticipationRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Points    float64 `json:"points" validate:"required,gt=0"`
	Date      string  `json:"date"`
}

// ListBySubject returns all participation entries for a subject.
func (s *ParticipationService) ListBySubject(ctx context.Context, subjectID string) ([]models.Participation, error) {
	entries, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participations")
	}
	return entries, nil
}

// ListByStudent returns all participation entries for one student.
func (s *ParticipationService) ListByStudent(ctx context.Context, studentID string) ([]models.Participation, error) {
	entries, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student participations")
	}
	return entries, nil
}

// Award records a participation entry.
func (s *ParticipationService) Award(ctx context.Context, subjectID string, req AwardParticipationRequest) (*models.Participation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	day := academic.Today()
	if req.Date != "" {
		parsed, err := academic.ParseDate(req.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
		}
		day = parsed
	}
	entry := &models.Participation{
		StudentID: req.StudentID,
		SubjectID: subjectID,
		Points:    req.Points,
		Date:      day,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to award participation")
	}
	return entry, nil
}

// Delete removes a participation entry.
func (s *ParticipationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete participation")
	}
	return nil
}
