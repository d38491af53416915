package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtrack/workforce-api/internal/dto"
	apierrors "github.com/teamtrack/workforce-api/internal/errors"
	"github.com/teamtrack/workforce-api/internal/middleware"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/services"
	"github.com/teamtrack/workforce-api/internal/utils"
)

// AttendanceHandler coordinates attendance HTTP handlers.
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

// CheckIn creates today's attendance record for the caller.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	att, err := h.attendanceService.CheckIn(caller.ID)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.OKMessage("Checked in successfully", dto.ToAttendanceDTO(*att)))
}

// CheckOut stamps the caller's check-out time for today.
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	att, err := h.attendanceService.CheckOut(caller.ID)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Checked out successfully", dto.ToAttendanceDTO(*att)))
}

// ListAttendance returns records visible to the caller. Regular users only
// ever see their own records.
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListAttendanceInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		id, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		input.UserID = &id
	}
	if status := c.Query("status"); status != "" {
		s := models.AttendanceStatus(status)
		if !s.Valid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &s
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			apierrors.BadRequest(c, "Invalid from date")
			return
		}
		input.DateFrom = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			apierrors.BadRequest(c, "Invalid to date")
			return
		}
		input.DateTo = &parsed
	}

	records, total, err := h.attendanceService.ListAttendance(input, caller)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToAttendanceListResponse(records, params.Page, params.Limit, total)))
}

// ListPending returns unapproved records, newest date first. Admin only.
func (h *AttendanceHandler) ListPending(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	records, err := h.attendanceService.ListPending(caller)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToAttendanceDTOs(records)))
}

// CreateAttendance creates a record for an arbitrary day. Non-admin callers
// always create records for themselves.
func (h *AttendanceHandler) CreateAttendance(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateAttendanceRequest struct {
		UserID       uint64     `json:"user_id"`
		Date         *time.Time `json:"date"`
		Status       string     `json:"status"`
		Remarks      string     `json:"remarks"`
		CheckInTime  *time.Time `json:"check_in_time"`
		CheckOutTime *time.Time `json:"check_out_time"`
	}

	var req CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	att, err := h.attendanceService.CreateAttendance(services.CreateAttendanceInput{
		UserID:       req.UserID,
		Date:         req.Date,
		Status:       models.AttendanceStatus(req.Status),
		Remarks:      req.Remarks,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
	}, caller)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.OK(dto.ToAttendanceDTO(*att)))
}

// GetAttendance returns one record.
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	att, err := h.attendanceService.GetAttendance(id, caller)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToAttendanceDTO(*att)))
}

// UpdateAttendance applies a partial update. Fields outside the caller's
// field mask are silently ignored.
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	att, err := h.attendanceService.UpdateAttendance(id, patch, caller)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToAttendanceDTO(*att)))
}

// Approve stamps the caller as approver. Admin only.
func (h *AttendanceHandler) Approve(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type ApproveRequest struct {
		Remarks string `json:"remarks"`
	}

	var req ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	att, err := h.attendanceService.Approve(id, caller, req.Remarks)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Attendance approved", dto.ToAttendanceDTO(*att)))
}

// Disapprove forces the record to absent and clears the approver. Admin only.
func (h *AttendanceHandler) Disapprove(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type DisapproveRequest struct {
		Remarks string `json:"remarks"`
	}

	var req DisapproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	att, err := h.attendanceService.Disapprove(id, caller, req.Remarks)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Attendance disapproved", dto.ToAttendanceDTO(*att)))
}

// DeleteAttendance deletes a record. Admin only.
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.attendanceService.DeleteAttendance(id, caller); err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Attendance deleted successfully", nil))
}

func respondAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAttendanceNotFound),
		errors.Is(err, services.ErrAttendanceUserNotFound),
		errors.Is(err, services.ErrNotCheckedIn):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAttendanceAccessDenied),
		errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyCheckedIn),
		errors.Is(err, services.ErrAlreadyCheckedOut):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrDuplicateAttendance):
		apierrors.Conflict(c, "Attendance already recorded for this user today")
	case errors.Is(err, services.ErrInvalidAttendanceStatus),
		errors.Is(err, services.ErrInvalidCheckTime),
		errors.Is(err, services.ErrInvalidAttendanceDate):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
