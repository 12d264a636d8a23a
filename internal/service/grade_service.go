package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type gradeRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.Grade, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error)
	Upsert(ctx context.Context, grade *models.Grade) error
	UpsertBatch(ctx context.Context, grades []models.Grade) error
	Delete(ctx context.Context, id string) error
}

// GradeService records scores on the 0 to 10 scale.
type GradeService struct {
	repo        gradeRepository
	students    studentRepository
	assignments assignmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(repo gradeRepository, students studentRepository, assignments assignmentRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, students: students, assignments: assignments, validator: validate, logger: logger}
}

// RecordGradeRequest stores one score.
type RecordGradeRequest struct {
	StudentID    string  `json:"student_id" validate:"required"`
	AssignmentID string  `json:"assignment_id" validate:"required"`
	Score        float64 `json:"score" validate:"min=0,max=10"`
}

// BulkGradeItem is one score inside a bulk capture.
type BulkGradeItem struct {
	AssignmentID string  `json:"assignment_id" validate:"required"`
	Score        float64 `json:"score" validate:"min=0,max=10"`
}

// BulkRecordGradesRequest stores several scores for one student at once,
// the shape produced by the multi grade scanner.
type BulkRecordGradesRequest struct {
	StudentID string          `json:"student_id" validate:"required"`
	Items     []BulkGradeItem `json:"items" validate:"required,min=1,dive"`
}

// ListBySubject returns every grade for a subject.
func (s *GradeService) ListBySubject(ctx context.Context, subjectID string) ([]models.Grade, error) {
	grades, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// ListByStudent returns every grade for one student.
func (s *GradeService) ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error) {
	grades, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student grades")
	}
	return grades, nil
}

// Record upserts a single score.
func (s *GradeService) Record(ctx context.Context, subjectID string, req RecordGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	grade := &models.Grade{
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		SubjectID:    subjectID,
		Score:        req.Score,
	}
	if err := s.repo.Upsert(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}
	return grade, nil
}

// RecordBulk upserts a set of scores for one student in a single
// transaction. Assignment ids must not repeat within the payload.
func (s *GradeService) RecordBulk(ctx context.Context, subjectID string, req BulkRecordGradesRequest) ([]models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	seen := map[string]struct{}{}
	grades := make([]models.Grade, len(req.Items))
	for i, item := range req.Items {
		if _, ok := seen[item.AssignmentID]; ok {
			return nil, appErrors.Clone(appErrors.ErrConflict, "duplicate assignment in payload")
		}
		seen[item.AssignmentID] = struct{}{}
		grades[i] = models.Grade{
			StudentID:    req.StudentID,
			AssignmentID: item.AssignmentID,
			SubjectID:    subjectID,
			Score:        item.Score,
		}
	}
	if err := s.repo.UpsertBatch(ctx, grades); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grades")
	}
	return grades, nil
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	return nil
}
