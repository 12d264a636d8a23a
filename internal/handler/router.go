package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/middleware"
	"github.com/aula-dev/aula-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth          *AuthHandler
	Subject       *SubjectHandler
	Student       *StudentHandler
	Criterion     *CriterionHandler
	Assignment    *AssignmentHandler
	Grade         *GradeHandler
	Attendance    *AttendanceHandler
	Participation *ParticipationHandler
	Planner       *PlannerHandler
	Report        *ReportHandler
	Calendar      *CalendarHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes wires the API surface under the given prefix. Everything
// except login, health and metrics sits behind the session token guard.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, metrics *service.MetricsService, h Handlers) {
	r.GET("/metrics", h.Metrics.Scrape)

	api := r.Group(prefix)
	api.Use(middleware.Metrics(metrics))

	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth))

	secured.GET("/calendar/events", h.Calendar.Events)

	secured.GET("/subjects", h.Subject.List)
	secured.POST("/subjects", h.Subject.Create)
	secured.GET("/subjects/:subjectId", h.Subject.Get)
	secured.DELETE("/subjects/:subjectId", h.Subject.Delete)
	secured.PUT("/subjects/:subjectId/schedule", h.Subject.UpdateSchedule)
	secured.PUT("/subjects/:subjectId/grading-periods", h.Subject.UpdateGradingPeriods)

	secured.GET("/subjects/:subjectId/students", h.Student.List)
	secured.POST("/subjects/:subjectId/students", h.Student.Create)
	secured.POST("/subjects/:subjectId/students/import", h.Student.Import)
	secured.DELETE("/subjects/:subjectId/students/:id", h.Student.Delete)

	secured.GET("/subjects/:subjectId/criteria", h.Criterion.List)
	secured.POST("/subjects/:subjectId/criteria", h.Criterion.Create)
	secured.PUT("/subjects/:subjectId/criteria/:id", h.Criterion.Update)
	secured.DELETE("/subjects/:subjectId/criteria/:id", h.Criterion.Delete)

	secured.GET("/subjects/:subjectId/assignments", h.Assignment.List)
	secured.POST("/subjects/:subjectId/assignments", h.Assignment.Create)
	secured.PUT("/subjects/:subjectId/assignments/:id", h.Assignment.Rename)
	secured.DELETE("/subjects/:subjectId/assignments/:id", h.Assignment.Delete)

	secured.GET("/subjects/:subjectId/grades", h.Grade.List)
	secured.POST("/subjects/:subjectId/grades", h.Grade.Record)
	secured.POST("/subjects/:subjectId/grades/bulk", h.Grade.Bulk)

	secured.GET("/subjects/:subjectId/attendance/sessions", h.Attendance.ListSessions)
	secured.POST("/subjects/:subjectId/attendance/sessions", h.Attendance.StartSession)
	secured.POST("/subjects/:subjectId/attendance/sessions/manual", h.Attendance.CreateManualSession)
	secured.GET("/subjects/:subjectId/attendance/sessions/:sessionId/records", h.Attendance.SessionRecords)
	secured.POST("/subjects/:subjectId/attendance/scan", h.Attendance.RecordScan)
	secured.POST("/subjects/:subjectId/attendance/roll-call", h.Attendance.RollCall)
	secured.DELETE("/subjects/:subjectId/attendance/records/:id", h.Attendance.DeleteRecord)
	secured.GET("/subjects/:subjectId/attendance/export/csv", h.Report.ExportAttendanceCSV)

	secured.GET("/subjects/:subjectId/participations", h.Participation.List)
	secured.POST("/subjects/:subjectId/participations", h.Participation.Award)
	secured.DELETE("/subjects/:subjectId/participations/:id", h.Participation.Delete)

	secured.GET("/subjects/:subjectId/planner", h.Planner.List)
	secured.POST("/subjects/:subjectId/planner", h.Planner.Create)
	secured.POST("/subjects/:subjectId/planner/distribute", h.Planner.Distribute)
	secured.POST("/subjects/:subjectId/planner/generate", h.Planner.GenerateSyllabus)
	secured.PUT("/subjects/:subjectId/planner/:id", h.Planner.Update)
	secured.DELETE("/subjects/:subjectId/planner/:id", h.Planner.Delete)
	secured.DELETE("/subjects/:subjectId/planner", h.Planner.DeleteAll)
	secured.POST("/subjects/:subjectId/planner/:id/organizer", h.Planner.GenerateOrganizer)

	secured.GET("/subjects/:subjectId/session-dates", h.Report.SessionDates)
	secured.GET("/subjects/:subjectId/grading-periods", h.Report.GradingPeriods)
	secured.GET("/subjects/:subjectId/report", h.Report.SubjectReport)
	secured.GET("/subjects/:subjectId/report/export/csv", h.Report.ExportCSV)
	secured.GET("/subjects/:subjectId/report/export/pdf", h.Report.ExportPDF)
	secured.GET("/subjects/:subjectId/students/:id/report", h.Report.StudentReport)
	secured.GET("/subjects/:subjectId/students/:id/report/export/pdf", h.Report.ExportStudentPDF)
}
