package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
)

type plannerRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.PlannedClass, error)
	GetByID(ctx context.Context, id string) (*models.PlannedClass, error)
	Create(ctx context.Context, class *models.PlannedClass) error
	CreateBatch(ctx context.Context, classes []models.PlannedClass) error
	Update(ctx context.Context, class *models.PlannedClass) error
	Delete(ctx context.Context, id string) error
	DeleteBySubject(ctx context.Context, subjectID string) error
}

// TopicGenerator produces a JSON document from a prompt. Satisfied by the
// genai client.
type TopicGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) ([]byte, error)
}

// PlannerService manages the class planner: per-session plans laid over the
// subject's instructional calendar, plus AI-assisted syllabus drafting.
type PlannerService struct {
	repo          plannerRepository
	subjects      subjectRepository
	generator     TopicGenerator
	calendar      *academic.Calendar
	semesterStart academic.Date
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewPlannerService constructs the planner service. generator may be nil
// when syllabus generation is disabled.
func NewPlannerService(repo plannerRepository, subjects subjectRepository, generator TopicGenerator, calendar *academic.Calendar, semesterStart academic.Date, validate *validator.Validate, logger *zap.Logger) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		repo:          repo,
		subjects:      subjects,
		generator:     generator,
		calendar:      calendar,
		semesterStart: semesterStart,
		validator:     validate,
		logger:        logger,
	}
}

// CreatePlannedClassRequest describes one planned session.
type CreatePlannedClassRequest struct {
	Date        string  `json:"date" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
}

// UpdatePlannedClassRequest rewrites a planned session.
type UpdatePlannedClassRequest struct {
	Date        string  `json:"date" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"required,oneof=planned completed cancelled"`
}

// DistributeTopicsRequest lays a topic list over the subject's upcoming
// instructional dates, one topic per session.
type DistributeTopicsRequest struct {
	Topics    []TopicItem `json:"topics" validate:"required,min=1,dive"`
	StartDate string      `json:"start_date"`
}

// TopicItem is one syllabus topic.
type TopicItem struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
}

// GenerateSyllabusRequest asks the generator for a syllabus draft.
type GenerateSyllabusRequest struct {
	CourseDescription string `json:"course_description" validate:"required"`
	TopicCount        int    `json:"topic_count" validate:"required,min=1,max=100"`
}

// List returns the subject's planned classes.
func (s *PlannerService) List(ctx context.Context, subjectID string) ([]models.PlannedClass, error) {
	classes, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list planned classes")
	}
	return classes, nil
}

// Create registers one planned session.
func (s *PlannerService) Create(ctx context.Context, subjectID string, req CreatePlannedClassRequest) (*models.PlannedClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	day, err := academic.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	class := &models.PlannedClass{
		SubjectID:   subjectID,
		ClassDate:   day,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.PlannedClassPlanned,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create planned class")
	}
	return class, nil
}

// Update rewrites a planned session, including its status.
func (s *PlannerService) Update(ctx context.Context, id string, req UpdatePlannedClassRequest) (*models.PlannedClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	class, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "planned class not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planned class")
	}
	day, err := academic.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	class.ClassDate = day
	class.Title = req.Title
	class.Description = req.Description
	class.Status = models.PlannedClassStatus(req.Status)
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update planned class")
	}
	return class, nil
}

// Delete removes a planned session.
func (s *PlannerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete planned class")
	}
	return nil
}

// DeleteAll clears the subject's planner.
func (s *PlannerService) DeleteAll(ctx context.Context, subjectID string) error {
	if err := s.repo.DeleteBySubject(ctx, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear planner")
	}
	return nil
}

// DistributeTopics assigns each topic to the next instructional date of the
// subject, starting from the request's start date or the semester start.
func (s *PlannerService) DistributeTopics(ctx context.Context, subjectID string, req DistributeTopicsRequest) ([]models.PlannedClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if len(subject.Schedule) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "subject has no weekly schedule")
	}

	start := s.semesterStart
	if req.StartDate != "" {
		parsed, err := academic.ParseDate(req.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
		}
		start = parsed
	}

	// One year is enough horizon for any term length.
	dates := academic.ExpandSchedule(subject.Schedule.Days(), start, start.AddDays(365), s.calendar)
	if len(dates) < len(req.Topics) {
		msg := fmt.Sprintf("only %d instructional dates available for %d topics", len(dates), len(req.Topics))
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, msg)
	}

	classes := make([]models.PlannedClass, len(req.Topics))
	for i, topic := range req.Topics {
		classes[i] = models.PlannedClass{
			SubjectID:   subjectID,
			ClassDate:   dates[i],
			Title:       topic.Title,
			Description: topic.Description,
			Status:      models.PlannedClassPlanned,
		}
	}
	if err := s.repo.CreateBatch(ctx, classes); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save planned classes")
	}
	return classes, nil
}

// GenerateSyllabus drafts a topic list with the generation service. The
// draft is returned for review, not persisted.
func (s *PlannerService) GenerateSyllabus(ctx context.Context, subjectID string, req GenerateSyllabusRequest) ([]TopicItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if s.generator == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "syllabus generation is disabled")
	}
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	prompt := fmt.Sprintf(
		"Genera un temario de %d clases para la materia %q. Descripción del curso: %s. "+
			"Responde únicamente con un arreglo JSON de objetos con los campos \"title\" y \"description\".",
		req.TopicCount, subject.Name, req.CourseDescription)
	raw, err := s.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "syllabus generation failed")
	}
	var topics []TopicItem
	if err := json.Unmarshal(raw, &topics); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation service returned malformed syllabus")
	}
	if len(topics) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInternal, "generation service returned an empty syllabus")
	}
	return topics, nil
}

// OrganizerSection is one block of a generated graphic organizer.
type OrganizerSection struct {
	Heading string   `json:"heading"`
	Points  []string `json:"points"`
}

// GenerateOrganizer drafts a graphic organizer for one planned class. The
// draft is returned for display, not persisted.
func (s *PlannerService) GenerateOrganizer(ctx context.Context, id string) ([]OrganizerSection, error) {
	if s.generator == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "organizer generation is disabled")
	}
	class, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "planned class not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planned class")
	}

	description := ""
	if class.Description != nil {
		description = *class.Description
	}
	prompt := fmt.Sprintf(
		"Genera un organizador gráfico para la clase %q. Descripción: %s. "+
			"Responde únicamente con un arreglo JSON de objetos con los campos \"heading\" y \"points\" (arreglo de cadenas).",
		class.Title, description)
	raw, err := s.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "organizer generation failed")
	}
	var sections []OrganizerSection
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation service returned a malformed organizer")
	}
	if len(sections) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInternal, "generation service returned an empty organizer")
	}
	return sections, nil
}
