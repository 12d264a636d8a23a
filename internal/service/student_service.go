package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type studentRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	FindByName(ctx context.Context, subjectID, name string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	CreateBatch(ctx context.Context, students []models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentService manages subject rosters.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// CreateStudentRequest adds a single student to a roster.
type CreateStudentRequest struct {
	Name string `json:"name" validate:"required"`
}

// ImportStudentsRequest adds a batch of students at once. Names holds one
// student per line, as pasted from a class list.
type ImportStudentsRequest struct {
	Names string `json:"names" validate:"required"`
}

// List returns the roster for a subject.
func (s *StudentService) List(ctx context.Context, subjectID string) ([]models.Student, error) {
	students, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create adds one student to the roster.
func (s *StudentService) Create(ctx context.Context, subjectID string, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	student := &models.Student{SubjectID: subjectID, Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Import adds students from a newline separated list, skipping blank lines.
func (s *StudentService) Import(ctx context.Context, subjectID string, req ImportStudentsRequest) ([]models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	var students []models.Student
	for _, line := range strings.Split(req.Names, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		students = append(students, models.Student{SubjectID: subjectID, Name: name})
	}
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no student names provided")
	}
	if err := s.repo.CreateBatch(ctx, students); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import students")
	}
	return students, nil
}

// FindByScannedName resolves a scanned badge name to a roster entry. Badge
// payloads carry the exact roster name.
func (s *StudentService) FindByScannedName(ctx context.Context, subjectID, name string) (*models.Student, error) {
	student, err := s.repo.FindByName(ctx, subjectID, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in this subject")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}
	return student, nil
}

// Delete removes a student from the roster.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}
