package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/service"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	grades  *service.GradeService
	reports *service.ReportService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades *service.GradeService, reports *service.ReportService) *GradeHandler {
	return &GradeHandler{grades: grades, reports: reports}
}

// List godoc
// @Summary List grades of a subject
// @Tags Grades
// @Produce json
// @Param subjectId path string true "Subject id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	grades, err := h.grades.ListBySubject(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Record godoc
// @Summary Record or replace one score
// @Tags Grades
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.RecordGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/grades [post]
func (h *GradeHandler) Record(c *gin.Context) {
	var req service.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.Record(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.JSON(c, http.StatusOK, grade, nil)
}

// Bulk godoc
// @Summary Record several scores for one student
// @Tags Grades
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.BulkRecordGradesRequest true "Bulk payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/grades/bulk [post]
func (h *GradeHandler) Bulk(c *gin.Context) {
	var req service.BulkRecordGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grades, err := h.grades.RecordBulk(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.JSON(c, http.StatusOK, grades, nil)
}
