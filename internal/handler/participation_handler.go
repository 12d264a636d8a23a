package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/service"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/response"
)

// ParticipationHandler exposes participation point endpoints.
type ParticipationHandler struct {
	participations *service.ParticipationService
	reports        *service.ReportService
}

// NewParticipationHandler constructs handler.
func NewParticipationHandler(participations *service.ParticipationService, reports *service.ReportService) *ParticipationHandler {
	return &ParticipationHandler{participations: participations, reports: reports}
}

// List godoc
// @Summary List participation entries of a subject
// @Tags Participation
// @Produce json
// @Param subjectId path string true "Subject id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/participations [get]
func (h *ParticipationHandler) List(c *gin.Context) {
	entries, err := h.participations.ListBySubject(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Award godoc
// @Summary Award participation points to a student
// @Tags Participation
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.AwardParticipationRequest true "Participation payload"
// @Success 201 {object} response.Envelope
// @Router /subjects/{subjectId}/participations [post]
func (h *ParticipationHandler) Award(c *gin.Context) {
	var req service.AwardParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.participations.Award(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.Created(c, entry)
}

// Delete godoc
// @Summary Remove a participation entry
// @Tags Participation
// @Param subjectId path string true "Subject id"
// @Param id path string true "Participation id"
// @Success 204
// @Router /subjects/{subjectId}/participations/{id} [delete]
func (h *ParticipationHandler) Delete(c *gin.Context) {
	if err := h.participations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.NoContent(c)
}
