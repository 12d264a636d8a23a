package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/service"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/response"
)

// ReportHandler exposes computed calendars, periods and grade reports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// periodKey reads the period query parameter, defaulting to the final view.
func periodKey(c *gin.Context) string {
	if key := c.Query("period"); key != "" {
		return key
	}
	return academic.PeriodKeyFinal
}

// SessionDates godoc
// @Summary List the subject's scheduled session dates for the semester
// @Tags Reports
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param until query string false "Cut the list at this date, YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/session-dates [get]
func (h *ReportHandler) SessionDates(c *gin.Context) {
	dates, err := h.reports.ScheduledSessionDates(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if raw := c.Query("until"); raw != "" {
		until, err := academic.ParseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid until date, expected YYYY-MM-DD"))
			return
		}
		cut := dates[:0]
		for _, d := range dates {
			if !d.After(until) {
				cut = append(cut, d)
			}
		}
		dates = cut
	}
	response.JSON(c, http.StatusOK, dates, nil)
}

// GradingPeriods godoc
// @Summary List the subject's resolved grading periods
// @Tags Reports
// @Produce json
// @Param subjectId path string true "Subject id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/grading-periods [get]
func (h *ReportHandler) GradingPeriods(c *gin.Context) {
	periods, err := h.reports.GradingPeriods(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// StudentReport godoc
// @Summary Compute one student's grade report
// @Tags Reports
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param id path string true "Student id"
// @Param period query string false "Grading period key, defaults to final"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/students/{id}/report [get]
func (h *ReportHandler) StudentReport(c *gin.Context) {
	report, err := h.reports.StudentReport(c.Request.Context(), c.Param("subjectId"), c.Param("id"), periodKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// SubjectReport godoc
// @Summary Compute the grade report of the whole roster
// @Tags Reports
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param period query string false "Grading period key, defaults to final"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/report [get]
func (h *ReportHandler) SubjectReport(c *gin.Context) {
	reports, err := h.reports.SubjectReport(c.Request.Context(), c.Param("subjectId"), periodKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// ExportCSV godoc
// @Summary Export the roster report as CSV
// @Tags Reports
// @Produce text/csv
// @Param subjectId path string true "Subject id"
// @Param period query string false "Grading period key, defaults to final"
// @Success 200 {file} file
// @Router /subjects/{subjectId}/report/export/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	out, err := h.reports.ExportCSV(c.Request.Context(), c.Param("subjectId"), periodKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("reporte-%s.csv", periodKey(c))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", out)
}

// ExportPDF godoc
// @Summary Export the roster report as PDF
// @Tags Reports
// @Produce application/pdf
// @Param subjectId path string true "Subject id"
// @Param period query string false "Grading period key, defaults to final"
// @Success 200 {file} file
// @Router /subjects/{subjectId}/report/export/pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	out, err := h.reports.ExportPDF(c.Request.Context(), c.Param("subjectId"), periodKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("reporte-%s.pdf", periodKey(c))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", out)
}

// ExportStudentPDF godoc
// @Summary Export one student's report as PDF
// @Tags Reports
// @Produce application/pdf
// @Param subjectId path string true "Subject id"
// @Param id path string true "Student id"
// @Param period query string false "Grading period key, defaults to final"
// @Success 200 {file} file
// @Router /subjects/{subjectId}/students/{id}/report/export/pdf [get]
func (h *ReportHandler) ExportStudentPDF(c *gin.Context) {
	out, err := h.reports.ExportStudentPDF(c.Request.Context(), c.Param("subjectId"), c.Param("id"), periodKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("reporte-%s-%s.pdf", c.Param("id"), periodKey(c))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", out)
}

// ExportAttendanceCSV godoc
// @Summary Export the attendance register as CSV
// @Tags Reports
// @Produce text/csv
// @Param subjectId path string true "Subject id"
// @Success 200 {file} file
// @Router /subjects/{subjectId}/attendance/export/csv [get]
func (h *ReportHandler) ExportAttendanceCSV(c *gin.Context) {
	out, err := h.reports.ExportAttendanceCSV(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="asistencia.csv"`)
	c.Data(http.StatusOK, "text/csv", out)
}
