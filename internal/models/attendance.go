package models

import (
	"time"

	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent   AttendanceStatus = "present"
	AttendanceStatusAbsent    AttendanceStatus = "absent"
	AttendanceStatusLate      AttendanceStatus = "late"
	AttendanceStatusHalfDay   AttendanceStatus = "half-day"
	AttendanceStatusLeave     AttendanceStatus = "leave"
	AttendanceStatusRequested AttendanceStatus = "requested"
	AttendanceStatusApproved  AttendanceStatus = "approved"
	AttendanceStatusRejected  AttendanceStatus = "rejected"
)

// Valid reports whether the status is a known value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate,
		AttendanceStatusHalfDay, AttendanceStatusLeave, AttendanceStatusRequested,
		AttendanceStatusApproved, AttendanceStatusRejected:
		return true
	}
	return false
}

// Attendance is one user's record for one calendar day. The composite unique
// index enforces at most one row per (user, date) pair; Date is always stored
// at local midnight.
type Attendance struct {
	ID           uint64           `gorm:"primarykey" json:"id"`
	UserID       uint64           `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	Date         time.Time        `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	Status       AttendanceStatus `gorm:"type:varchar(20);not null;default:'present'" json:"status"`
	CheckInTime  *time.Time       `json:"check_in_time"`
	CheckOutTime *time.Time       `json:"check_out_time"`
	// WorkHours is derived from the check-in/check-out pair, never written
	// independently.
	WorkHours    float64        `json:"work_hours"`
	Remarks      string         `gorm:"type:text" json:"remarks"`
	ApprovedByID *uint64        `json:"approved_by_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User       User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ApprovedBy *User `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
}
