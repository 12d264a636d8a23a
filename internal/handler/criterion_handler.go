package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/service"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/response"
)

// CriterionHandler exposes evaluation criterion endpoints.
type CriterionHandler struct {
	criteria *service.CriterionService
	reports  *service.ReportService
}

// NewCriterionHandler constructs handler.
func NewCriterionHandler(criteria *service.CriterionService, reports *service.ReportService) *CriterionHandler {
	return &CriterionHandler{criteria: criteria, reports: reports}
}

// List godoc
// @Summary List evaluation criteria of a subject
// @Tags Criteria
// @Produce json
// @Param subjectId path string true "Subject id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/criteria [get]
func (h *CriterionHandler) List(c *gin.Context) {
	criteria, err := h.criteria.List(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, criteria, nil)
}

// Create godoc
// @Summary Create an evaluation criterion
// @Tags Criteria
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.CreateCriterionRequest true "Criterion payload"
// @Success 201 {object} response.Envelope
// @Router /subjects/{subjectId}/criteria [post]
func (h *CriterionHandler) Create(c *gin.Context) {
	var req service.CreateCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	criterion, err := h.criteria.Create(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.Created(c, criterion)
}

// Update godoc
// @Summary Update an evaluation criterion
// @Tags Criteria
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param id path string true "Criterion id"
// @Param payload body service.UpdateCriterionRequest true "Criterion payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/criteria/{id} [put]
func (h *CriterionHandler) Update(c *gin.Context) {
	var req service.UpdateCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	criterion, err := h.criteria.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.JSON(c, http.StatusOK, criterion, nil)
}

// Delete godoc
// @Summary Delete an evaluation criterion
// @Tags Criteria
// @Param subjectId path string true "Subject id"
// @Param id path string true "Criterion id"
// @Success 204
// @Router /subjects/{subjectId}/criteria/{id} [delete]
func (h *CriterionHandler) Delete(c *gin.Context) {
	if err := h.criteria.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.NoContent(c)
}
