package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aula-dev/aula-api/internal/service"
	appErrors "github.com/aula-dev/aula-api/pkg/errors"
	"github.com/aula-dev/aula-api/pkg/response"
)

// AttendanceHandler exposes attendance capture endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	reports    *service.ReportService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendance *service.AttendanceService, reports *service.ReportService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, reports: reports}
}

// StartSession godoc
// @Summary Open a live scanning session
// @Tags Attendance
// @Produce json
// @Param subjectId path string true "Subject id"
// @Success 201 {object} response.Envelope
// @Router /subjects/{subjectId}/attendance/sessions [post]
func (h *AttendanceHandler) StartSession(c *gin.Context) {
	session, err := h.attendance.StartSession(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// CreateManualSession godoc
// @Summary Open a backdated session
// @Tags Attendance
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.ManualSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /subjects/{subjectId}/attendance/sessions/manual [post]
func (h *AttendanceHandler) CreateManualSession(c *gin.Context) {
	var req service.ManualSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.attendance.CreateManualSession(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.Created(c, session)
}

// ListSessions godoc
// @Summary List attendance sessions of a subject
// @Tags Attendance
// @Produce json
// @Param subjectId path string true "Subject id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/attendance/sessions [get]
func (h *AttendanceHandler) ListSessions(c *gin.Context) {
	sessions, err := h.attendance.ListSessions(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// RecordScan godoc
// @Summary Check a scanned student into a session
// @Tags Attendance
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.RecordScanRequest true "Scan payload"
// @Success 201 {object} response.Envelope
// @Router /subjects/{subjectId}/attendance/scan [post]
func (h *AttendanceHandler) RecordScan(c *gin.Context) {
	var req service.RecordScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.RecordScan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.Created(c, record)
}

// RollCall godoc
// @Summary Record attendance for a list of students on a date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param payload body service.RollCallRequest true "Roll call payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/attendance/roll-call [post]
func (h *AttendanceHandler) RollCall(c *gin.Context) {
	var req service.RollCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.attendance.RollCall(c.Request.Context(), c.Param("subjectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.JSON(c, http.StatusOK, result, nil)
}

// SessionRecords godoc
// @Summary List the check-ins of a session
// @Tags Attendance
// @Produce json
// @Param subjectId path string true "Subject id"
// @Param sessionId path string true "Session id"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectId}/attendance/sessions/{sessionId}/records [get]
func (h *AttendanceHandler) SessionRecords(c *gin.Context) {
	records, err := h.attendance.SessionRecords(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// DeleteRecord godoc
// @Summary Remove a check-in
// @Tags Attendance
// @Param subjectId path string true "Subject id"
// @Param id path string true "Record id"
// @Success 204
// @Router /subjects/{subjectId}/attendance/records/{id} [delete]
func (h *AttendanceHandler) DeleteRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid record id"))
		return
	}
	if err := h.attendance.DeleteRecord(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.reports.Invalidate(c.Request.Context(), c.Param("subjectId"))
	response.NoContent(c)
}
