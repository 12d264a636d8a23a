package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/models"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/export"
)

type reportCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ReportOptions tunes report computation and caching.
type ReportOptions struct {
	CacheEnabled  bool
	CacheTTL      time.Duration
	SemesterStart academic.Date
	// DropEmptyWeights removes criteria without content from the
	// normalized denominator instead of letting them depress the score.
	DropEmptyWeights bool
}

// ReportService derives everything computed: session calendars, grading
// period boundaries and per-student grade reports. Reports are cached in
// Redis and recomputed after invalidation.
type ReportService struct {
	subjects       subjectRepository
	students       studentRepository
	criteria       criterionRepository
	assignments    assignmentRepository
	grades         gradeRepository
	attendance     attendanceRepository
	participations participationRepository
	cache          reportCache
	calendar       *academic.Calendar
	opts           ReportOptions
	metrics        *MetricsService
	csv            *export.CSVExporter
	pdf            *export.PDFExporter
	warm           func(subjectID string)
	logger         *zap.Logger
}

// NewReportService constructs the report service. cache may be nil, which
// disables caching regardless of options.
func NewReportService(
	subjects subjectRepository,
	students studentRepository,
	criteria criterionRepository,
	assignments assignmentRepository,
	grades gradeRepository,
	attendance attendanceRepository,
	participations participationRepository,
	cache reportCache,
	calendar *academic.Calendar,
	opts ReportOptions,
	metrics *MetricsService,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		opts.CacheEnabled = false
	}
	return &ReportService{
		subjects:       subjects,
		students:       students,
		criteria:       criteria,
		assignments:    assignments,
		grades:         grades,
		attendance:     attendance,
		participations: participations,
		cache:          cache,
		calendar:       calendar,
		opts:           opts,
		metrics:        metrics,
		csv:            export.NewCSVExporter(),
		pdf:            export.NewPDFExporter(),
		logger:         logger,
	}
}

// ScheduledSessionDates expands the subject's weekly schedule over the
// school calendar for the whole semester.
func (s *ReportService) ScheduledSessionDates(ctx context.Context, subjectID string) ([]academic.Date, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	periods, err := s.resolvePeriods(subject)
	if err != nil {
		return nil, err
	}
	final := periods[academic.PeriodKeyFinal]
	return academic.ExpandSchedule(subject.Schedule.Days(), final.Start, final.End, s.calendar), nil
}

// GradingPeriods returns the subject's resolved periods in display order.
func (s *ReportService) GradingPeriods(ctx context.Context, subjectID string) ([]academic.Period, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	periods, err := s.resolvePeriods(subject)
	if err != nil {
		return nil, err
	}
	var ordered []academic.Period
	for _, key := range academic.PeriodOrder() {
		if period, ok := periods[key]; ok {
			ordered = append(ordered, period)
		}
	}
	return ordered, nil
}

// StudentReport computes a student's grade report for one grading period.
// The "final" period aggregates every criterion over the whole semester
// with the simple roll-up; numbered periods use the normalized roll-up over
// their own criteria.
func (s *ReportService) StudentReport(ctx context.Context, subjectID, studentID, periodKey string) (*models.StudentReport, error) {
	cacheKey := fmt.Sprintf("reports:%s:%s:%s", subjectID, studentID, periodKey)
	if s.opts.CacheEnabled {
		var cached models.StudentReport
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("report cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	started := time.Now()
	report, err := s.computeStudentReport(ctx, subjectID, studentID, periodKey)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveReportComputation(time.Since(started))
	if s.opts.CacheEnabled {
		if err := s.cache.Set(ctx, cacheKey, report, s.opts.CacheTTL); err != nil {
			s.logger.Warn("report cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

// SubjectReport computes the report of every student on the roster.
func (s *ReportService) SubjectReport(ctx context.Context, subjectID, periodKey string) ([]models.StudentReport, error) {
	roster, err := s.students.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	reports := make([]models.StudentReport, 0, len(roster))
	for _, student := range roster {
		report, err := s.StudentReport(ctx, subjectID, student.ID, periodKey)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// ExportCSV renders the subject report as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, subjectID, periodKey string) ([]byte, error) {
	data, _, err := s.reportDataset(ctx, subjectID, periodKey)
	if err != nil {
		return nil, err
	}
	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return out, nil
}

// ExportPDF renders the subject report as a tabular PDF.
func (s *ReportService) ExportPDF(ctx context.Context, subjectID, periodKey string) ([]byte, error) {
	data, subject, err := s.reportDataset(ctx, subjectID, periodKey)
	if err != nil {
		return nil, err
	}
	periods, err := s.resolvePeriods(subject)
	if err != nil {
		return nil, err
	}
	period, ok := periods[periodKey]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown grading period %q", periodKey))
	}
	summary := []string{
		fmt.Sprintf("Periodo: %s (%s a %s)", period.Name, period.Start, period.End),
		fmt.Sprintf("Generado: %s", academic.Today()),
	}
	out, err := s.pdf.Render(data, subject.Name, summary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return out, nil
}

// ExportStudentPDF renders one student's report as PDF.
func (s *ReportService) ExportStudentPDF(ctx context.Context, subjectID, studentID, periodKey string) ([]byte, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	report, err := s.StudentReport(ctx, subjectID, studentID, periodKey)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Criterio", "Ponderación", "Promedio"},
		Rows:    make([][]string, len(report.PerCriterion)),
	}
	for i, result := range report.PerCriterion {
		average := "-"
		if result.Average != nil {
			average = fmt.Sprintf("%.1f", *result.Average)
		}
		data.Rows[i] = []string{
			result.Name,
			fmt.Sprintf("%.0f%%", result.Percentage),
			average,
		}
	}
	summary := []string{
		fmt.Sprintf("Estudiante: %s", report.StudentName),
		fmt.Sprintf("Periodo: %s (%s a %s)", report.Period.Name, report.Period.Start, report.Period.End),
		fmt.Sprintf("Calificación final: %.1f", report.FinalScore),
		fmt.Sprintf("Asistencias: %d, Faltas: %d", len(report.Attended), len(report.Missed)),
		fmt.Sprintf("Generado: %s", academic.Today()),
	}
	out, err := s.pdf.Render(data, subject.Name, summary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return out, nil
}

// ExportAttendanceCSV renders the attendance register: one column per
// session in chronological order, one row per student.
func (s *ReportService) ExportAttendanceCSV(ctx context.Context, subjectID string) ([]byte, error) {
	if _, err := s.getSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	sessions, err := s.attendance.ListSessions(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })

	roster, err := s.students.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	present := make([]map[string]bool, len(sessions))
	headers := make([]string, 0, len(sessions)+1)
	headers = append(headers, "Estudiante")
	for i, session := range sessions {
		records, err := s.attendance.ListRecordsBySession(ctx, session.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
		}
		present[i] = make(map[string]bool, len(records))
		for _, record := range records {
			present[i][record.StudentID] = true
		}
		headers = append(headers, academic.DateOfTime(session.CreatedAt).String())
	}

	data := export.Dataset{Headers: headers, Rows: make([][]string, len(roster))}
	for i, student := range roster {
		row := make([]string, 0, len(sessions)+1)
		row = append(row, student.Name)
		for j := range sessions {
			mark := ""
			if present[j][student.ID] {
				mark = "X"
			}
			row = append(row, mark)
		}
		data.Rows[i] = row
	}

	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return out, nil
}

// Invalidate drops every cached report of a subject. Called after any write
// that can change a report.
func (s *ReportService) Invalidate(ctx context.Context, subjectID string) {
	if !s.opts.CacheEnabled {
		return
	}
	pattern := fmt.Sprintf("reports:%s:*", subjectID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
		return
	}
	if s.warm != nil {
		s.warm(subjectID)
	}
}

// SetWarmFunc installs a hook called after a successful invalidation,
// typically to queue a background recomputation of the subject's reports.
func (s *ReportService) SetWarmFunc(fn func(subjectID string)) {
	s.warm = fn
}

func (s *ReportService) getSubject(ctx context.Context, subjectID string) (*models.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

func (s *ReportService) resolvePeriods(subject *models.Subject) (map[string]academic.Period, error) {
	starts := make(map[string]academic.Date, len(subject.GradingPeriodDates))
	for key, date := range subject.GradingPeriodDates {
		starts[key] = date
	}
	periods := academic.ResolvePeriods(starts, s.opts.SemesterStart)
	if len(periods) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "subject has no resolvable grading periods")
	}
	return periods, nil
}

func (s *ReportService) computeStudentReport(ctx context.Context, subjectID, studentID, periodKey string) (*models.StudentReport, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.SubjectID != subjectID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student belongs to a different subject")
	}

	periods, err := s.resolvePeriods(subject)
	if err != nil {
		return nil, err
	}
	window, ok := periods[periodKey]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grading period")
	}

	criteria, rollup, err := s.periodCriteria(ctx, subjectID, periodKey)
	if err != nil {
		return nil, err
	}

	assignmentsByCrit, err := s.studentAssignments(ctx, subjectID, studentID, criteria)
	if err != nil {
		return nil, err
	}

	instructional := academic.ExpandSchedule(subject.Schedule.Days(), window.Start, window.End, s.calendar)
	recorded, err := s.studentSessionDates(ctx, subjectID, studentID)
	if err != nil {
		return nil, err
	}
	summary := academic.Attendance(recorded, instructional)

	allParticipations, err := s.participations.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participations")
	}
	var participations []academic.ParticipationEntry
	for _, p := range allParticipations {
		if p.SubjectID != subjectID {
			continue
		}
		participations = append(participations, academic.ParticipationEntry{Points: p.Points, Date: p.Date})
	}

	coreCriteria := make([]academic.Criterion, len(criteria))
	for i, c := range criteria {
		coreCriteria[i] = c.Core()
	}
	result := academic.Aggregate(academic.AggregateInput{
		Criteria:           coreCriteria,
		AssignmentsByCrit:  assignmentsByCrit,
		AttendanceRatio:    summary.Ratio,
		InstructionalCount: len(instructional),
		Participations:     participations,
		Window:             window,
		PeriodKey:          periodKey,
		Rollup:             rollup,
		DropEmptyWeights:   s.opts.DropEmptyWeights,
	})

	return &models.StudentReport{
		StudentID:    student.ID,
		StudentName:  student.Name,
		SubjectID:    subjectID,
		PeriodKey:    periodKey,
		Period:       window,
		PerCriterion: result.PerCriterion,
		FinalScore:   result.FinalScore,
		Attended:     summary.Attended,
		Missed:       summary.Missed,
	}, nil
}

func (s *ReportService) periodCriteria(ctx context.Context, subjectID, periodKey string) ([]models.EvaluationCriterion, academic.Rollup, error) {
	if periodKey == academic.PeriodKeyFinal {
		criteria, err := s.criteria.ListBySubject(ctx, subjectID)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list criteria")
		}
		return criteria, academic.RollupSimple, nil
	}
	period, err := strconv.Atoi(periodKey)
	if err != nil {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "unknown grading period")
	}
	criteria, err := s.criteria.ListByPeriod(ctx, subjectID, period)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list criteria")
	}
	return criteria, academic.RollupNormalized, nil
}

func (s *ReportService) studentAssignments(ctx context.Context, subjectID, studentID string, criteria []models.EvaluationCriterion) (map[string][]academic.AssignmentScore, error) {
	assignments, err := s.assignments.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	grades, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	scoreByAssignment := make(map[string]float64, len(grades))
	for _, grade := range grades {
		scoreByAssignment[grade.AssignmentID] = grade.Score
	}
	wanted := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		wanted[c.ID] = struct{}{}
	}

	byCrit := make(map[string][]academic.AssignmentScore)
	for _, assignment := range assignments {
		if _, ok := wanted[assignment.CriterionID]; !ok {
			continue
		}
		item := academic.AssignmentScore{
			AssignmentID: assignment.ID,
			Name:         assignment.Name,
			CreatedOn:    academic.DateOfTime(assignment.CreatedAt),
		}
		if score, ok := scoreByAssignment[assignment.ID]; ok {
			item.Score = &score
		}
		byCrit[assignment.CriterionID] = append(byCrit[assignment.CriterionID], item)
	}
	return byCrit, nil
}

func (s *ReportService) studentSessionDates(ctx context.Context, subjectID, studentID string) (academic.DateSet, error) {
	sessions, err := s.attendance.ListSessions(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	sessionDay := make(map[string]academic.Date, len(sessions))
	for _, session := range sessions {
		sessionDay[session.ID] = academic.DateOfTime(session.CreatedAt)
	}
	records, err := s.attendance.ListRecordsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
	}
	recorded := academic.NewDateSet()
	for _, record := range records {
		if day, ok := sessionDay[record.SessionID]; ok {
			recorded.Add(day)
		}
	}
	return recorded, nil
}

func (s *ReportService) reportDataset(ctx context.Context, subjectID, periodKey string) (export.Dataset, *models.Subject, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return export.Dataset{}, nil, err
	}
	reports, err := s.SubjectReport(ctx, subjectID, periodKey)
	if err != nil {
		return export.Dataset{}, nil, err
	}
	data := export.Dataset{
		Headers: []string{"Estudiante", "Calificación", "Asistencias", "Faltas"},
		Rows:    make([][]string, len(reports)),
	}
	for i, report := range reports {
		data.Rows[i] = []string{
			report.StudentName,
			fmt.Sprintf("%.1f", report.FinalScore),
			strconv.Itoa(len(report.Attended)),
			strconv.Itoa(len(report.Missed)),
		}
	}
	return data, subject, nil
}
