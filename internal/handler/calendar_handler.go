package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/academic"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/response"
)

// CalendarHandler exposes the school calendar event table.
type CalendarHandler struct {
	calendar      *academic.Calendar
	semesterStart academic.Date
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendar *academic.Calendar, semesterStart academic.Date) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, semesterStart: semesterStart}
}

// Events godoc
// @Summary List school calendar events in a date range
// @Tags Calendar
// @Produce json
// @Param from query string false "Range start, YYYY-MM-DD, defaults to the semester start"
// @Param to query string false "Range end, YYYY-MM-DD, defaults to one year after the start"
// @Success 200 {object} response.Envelope
// @Router /calendar/events [get]
func (h *CalendarHandler) Events(c *gin.Context) {
	from := h.semesterStart
	if raw := c.Query("from"); raw != "" {
		parsed, err := academic.ParseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date, expected YYYY-MM-DD"))
			return
		}
		from = parsed
	}
	to := from.AddDays(365)
	if raw := c.Query("to"); raw != "" {
		parsed, err := academic.ParseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date, expected YYYY-MM-DD"))
			return
		}
		to = parsed
	}
	if to.Before(from) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must not precede from"))
		return
	}
	response.JSON(c, http.StatusOK, h.calendar.EventsBetween(from, to), nil)
}
