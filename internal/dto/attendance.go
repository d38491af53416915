package dto

import (
	"time"

	"github.com/teamtrack/workforce-api/internal/models"
)

// AttendanceDTO represents an attendance record in API responses
type AttendanceDTO struct {
	ID           uint64                  `json:"id"`
	UserID       uint64                  `json:"user_id"`
	Date         time.Time               `json:"date"`
	Status       models.AttendanceStatus `json:"status"`
	CheckInTime  *time.Time              `json:"check_in_time"`
	CheckOutTime *time.Time              `json:"check_out_time"`
	WorkHours    float64                 `json:"work_hours"`
	Remarks      string                  `json:"remarks,omitempty"`
	ApprovedByID *uint64                 `json:"approved_by_id,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
	User         *UserDTO                `json:"user,omitempty"`
	ApprovedBy   *UserDTO                `json:"approved_by,omitempty"`
}

// AttendanceListResponse represents a paginated list of attendance records
type AttendanceListResponse struct {
	Attendance []AttendanceDTO `json:"attendance"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalCount int64           `json:"total_count"`
}

// ToAttendanceDTO converts an Attendance model to AttendanceDTO
func ToAttendanceDTO(att models.Attendance) AttendanceDTO {
	dto := AttendanceDTO{
		ID:           att.ID,
		UserID:       att.UserID,
		Date:         att.Date,
		Status:       att.Status,
		CheckInTime:  att.CheckInTime,
		CheckOutTime: att.CheckOutTime,
		WorkHours:    att.WorkHours,
		Remarks:      att.Remarks,
		ApprovedByID: att.ApprovedByID,
		CreatedAt:    att.CreatedAt,
		UpdatedAt:    att.UpdatedAt,
	}

	if att.User.ID != 0 {
		user := ToUserDTO(att.User)
		dto.User = &user
	}
	if att.ApprovedBy != nil && att.ApprovedBy.ID != 0 {
		approver := ToUserDTO(*att.ApprovedBy)
		dto.ApprovedBy = &approver
	}

	return dto
}

// ToAttendanceDTOs converts a slice of Attendance models
func ToAttendanceDTOs(records []models.Attendance) []AttendanceDTO {
	dtos := make([]AttendanceDTO, len(records))
	for i, att := range records {
		dtos[i] = ToAttendanceDTO(att)
	}
	return dtos
}

// ToAttendanceListResponse converts a slice of records to AttendanceListResponse
func ToAttendanceListResponse(records []models.Attendance, page, pageSize int, totalCount int64) AttendanceListResponse {
	return AttendanceListResponse{
		Attendance: ToAttendanceDTOs(records),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
