package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/service"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/response"
)

// PlannerHandler exposes class planner endpoints.
type PlannerHandler struct {
	planner *service.PlannerService
}

// NewPlannerHandler constructs handler.
func NewPlannerHandler(planner *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

// List godoc
// @Summary List planned classes of a subject
// @Tags Planner
// @Produce json
// @Param subjectId path string true "Subject id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/planner [get]
func (h *PlannerHandler) List(c *gin.Context) {
	classes, err := h.planner.List(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Create godoc
// @Summary Plan one class
// @Tags Planner
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.CreatePlannedClassRequest true "Planned class payload"
// @Success 201 {object} response.Envelope
// @Router /subjects/{subjectId}/planner [post]
func (h *PlannerHandler) Create(c *gin.Context) {
	var req service.CreatePlannedClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.planner.Create(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary Update a planned class
// @Tags Planner
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param id path string true "Planned class id"
// @Param payload body service.UpdatePlannedClassRequest true "Planned class payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/planner/{id} [put]
func (h *PlannerHandler) Update(c *gin.Context) {
	var req service.UpdatePlannedClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.planner.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Delete godoc
// @Summary Remove a planned class
// @Tags Planner
// @Param subjectId path string true "Subject id"
// @Param id path string true "Planned class id"
// @Success 204
// @Router /subjects/{subjectId}/planner/{id} [delete]
func (h *PlannerHandler) Delete(c *gin.Context) {
	if err := h.planner.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Distribute godoc
// @Summary Lay a topic list over upcoming instructional dates
// @Tags Planner
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.DistributeTopicsRequest true "Topics payload"
// @Success 201 {object} response.Envelope
// @Router /subjects/{subjectId}/planner/distribute [post]
func (h *PlannerHandler) Distribute(c *gin.Context) {
	var req service.DistributeTopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	classes, err := h.planner.DistributeTopics(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classes)
}

// GenerateSyllabus godoc
// @Summary Draft a syllabus with the generation service
// @Tags Planner
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.GenerateSyllabusRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/planner/generate [post]
func (h *PlannerHandler) GenerateSyllabus(c *gin.Context) {
	var req service.GenerateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	topics, err := h.planner.GenerateSyllabus(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, topics, nil)
}

// DeleteAll godoc
// @Summary Clear the subject's planner
// @Tags Planner
// @Param subjectId path string true "Subject id"
// @Success 204
// @Router /subjects/{subjectId}/planner [delete]
func (h *PlannerHandler) DeleteAll(c *gin.Context) {
	if err := h.planner.DeleteAll(c.Request.Context(), c.Param("subjectId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GenerateOrganizer godoc
// @Summary Draft a graphic organizer for a planned class
// @Tags Planner
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param id path string true "Planned class id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/planner/{id}/organizer [post]
func (h *PlannerHandler) GenerateOrganizer(c *gin.Context) {
	sections, err := h.planner.GenerateOrganizer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}
