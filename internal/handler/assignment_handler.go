package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/service"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/response"
)

// AssignmentHandler exposes assignment endpoints.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	reports     *service.ReportService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(assignments *service.AssignmentService, reports *service.ReportService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, reports: reports}
}

// List godoc
// @Summary List assignments of a subject
// @Tags Assignments
// @Produce json
// @Param subjectId path string true "Subject id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	assignments, err := h.assignments.List(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Create godoc
// @Summary Create an assignment under a criterion
// @Tags Assignments
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /subjects/{subjectId}/assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req service.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.Created(c, assignment)
}

// Rename godoc
// @Summary Rename an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param id path string true "Assignment id"
// @Param payload body service.RenameAssignmentRequest true "Rename payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/assignments/{id} [put]
func (h *AssignmentHandler) Rename(c *gin.Context) {
	var req service.RenameAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.Rename(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Delete an assignment and its grades
// @Tags Assignments
// @Param subjectId path string true "Subject id"
// @Param id path string true "Assignment id"
// @Success 204
// @Router /subjects/{subjectId}/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.NoContent(c)
}
