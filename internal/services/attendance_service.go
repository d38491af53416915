package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/teamtrack/workforce-api/internal/authz"
	"github.com/teamtrack/workforce-api/internal/constants"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrAttendanceUserNotFound  = errors.New("attendance user not found")
	ErrNotCheckedIn            = errors.New("no check-in found for today")
	ErrAlreadyCheckedIn        = errors.New("already checked in today")
	ErrAlreadyCheckedOut       = errors.New("already checked out today")
	ErrDuplicateAttendance     = errors.New("attendance already recorded for this user today")
	ErrAttendanceAccessDenied  = errors.New("user may not access this attendance record")
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status")
	ErrInvalidCheckTime        = errors.New("invalid check-in/check-out time")
	ErrInvalidAttendanceDate   = errors.New("invalid attendance date")
)

// AttendanceService owns the check-in/check-out lifecycle and the admin
// approval flow over daily attendance records.
type AttendanceService struct {
	attRepo  repository.AttendanceRepository
	userRepo repository.UserRepository
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(attRepo repository.AttendanceRepository, userRepo repository.UserRepository) *AttendanceService {
	return &AttendanceService{
		attRepo:  attRepo,
		userRepo: userRepo,
	}
}

// CreateAttendanceInput represents input for creating an attendance record
type CreateAttendanceInput struct {
	UserID       uint64
	Date         *time.Time
	Status       models.AttendanceStatus
	Remarks      string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}

// ListAttendanceInput represents filters for listing attendance records
type ListAttendanceInput struct {
	UserID   *uint64
	Status   *models.AttendanceStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// CheckIn creates today's record for the caller with status present and the
// current time as check-in. At most one record may exist per user per day.
func (s *AttendanceService) CheckIn(userID uint64) (*models.Attendance, error) {
	now := time.Now()
	today := startOfDay(now)

	if _, err := s.attRepo.FindByUserAndDate(userID, today); err == nil {
		return nil, ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing attendance: %w", err)
	}

	att := &models.Attendance{
		UserID:      userID,
		Date:        today,
		Status:      models.AttendanceStatusPresent,
		CheckInTime: &now,
	}

	if err := s.attRepo.Create(att); err != nil {
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}

	return s.reload(att.ID)
}

// CheckOut stamps the check-out time on today's record and derives work hours.
func (s *AttendanceService) CheckOut(userID uint64) (*models.Attendance, error) {
	now := time.Now()

	att, err := s.attRepo.FindByUserAndDate(userID, startOfDay(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCheckedIn
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}

	if att.CheckInTime == nil {
		return nil, ErrNotCheckedIn
	}
	if att.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	att.CheckOutTime = &now
	recomputeWorkHours(att)

	if err := s.attRepo.Update(att); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}

	return s.reload(att.ID)
}

// CreateAttendance creates a record for an arbitrary day: an admin backfill or
// a user's attendance request. Non-admin callers always create records for
// themselves, regardless of any user field supplied.
func (s *AttendanceService) CreateAttendance(input CreateAttendanceInput, caller authz.Caller) (*models.Attendance, error) {
	if !caller.IsAdmin() || input.UserID == 0 {
		input.UserID = caller.ID
	}

	if input.UserID != caller.ID {
		if _, err := s.userRepo.FindByID(input.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAttendanceUserNotFound
			}
			return nil, fmt.Errorf("failed to verify user: %w", err)
		}
	}

	date := startOfDay(time.Now())
	if input.Date != nil {
		date = startOfDay(*input.Date)
	}

	status := input.Status
	if status == "" {
		status = models.AttendanceStatusPresent
	}
	if !status.Valid() {
		return nil, ErrInvalidAttendanceStatus
	}

	if _, err := s.attRepo.FindByUserAndDate(input.UserID, date); err == nil {
		return nil, ErrDuplicateAttendance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing attendance: %w", err)
	}

	att := &models.Attendance{
		UserID:       input.UserID,
		Date:         date,
		Status:       status,
		Remarks:      input.Remarks,
		CheckInTime:  input.CheckInTime,
		CheckOutTime: input.CheckOutTime,
	}
	recomputeWorkHours(att)

	if err := s.attRepo.Create(att); err != nil {
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}

	return s.reload(att.ID)
}

// GetAttendance returns one record. Regular users may only read their own.
func (s *AttendanceService) GetAttendance(id uint64, caller authz.Caller) (*models.Attendance, error) {
	att, err := s.reload(id)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && att.UserID != caller.ID {
		return nil, ErrAttendanceAccessDenied
	}

	return att, nil
}

// ListAttendance returns records matching the filters. Non-admin callers are
// forced to their own records irrespective of any user filter in the request.
func (s *AttendanceService) ListAttendance(input ListAttendanceInput, caller authz.Caller) ([]models.Attendance, int64, error) {
	filter := repository.AttendanceFilter{
		UserID:   input.UserID,
		Status:   input.Status,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if !caller.IsAdmin() {
		filter.UserID = &caller.ID
	}

	records, total, err := s.attRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}

	return records, total, nil
}

// ListPending returns records awaiting an approver, newest date first. Admin
// only.
func (s *AttendanceService) ListPending(caller authz.Caller) ([]models.Attendance, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}

	records, err := s.attRepo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending attendance: %w", err)
	}

	return records, nil
}

// UpdateAttendance applies a patch to a record. Regular users may only write
// status and remarks of their own record; every other key is silently
// ignored. Admin patches apply in full and stamp the admin as approver.
func (s *AttendanceService) UpdateAttendance(id uint64, patch map[string]interface{}, caller authz.Caller) (*models.Attendance, error) {
	att, err := s.attRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}

	if !caller.IsAdmin() && att.UserID != caller.ID {
		return nil, ErrAttendanceAccessDenied
	}

	mask := authz.AllowedFields(caller.Role, authz.ActionUpdateAttendance)

	if status, ok := patch["status"].(string); ok && mask.Allows("status") {
		next := models.AttendanceStatus(status)
		if !next.Valid() {
			return nil, ErrInvalidAttendanceStatus
		}
		att.Status = next
	}
	if remarks, ok := patch["remarks"].(string); ok && mask.Allows("remarks") {
		att.Remarks = remarks
	}
	if mask.Allows("date") {
		if raw, ok := patch["date"].(string); ok {
			parsed, err := parseDate(raw)
			if err != nil {
				return nil, ErrInvalidAttendanceDate
			}
			att.Date = startOfDay(parsed)
		}
	}
	if err := applyCheckTime(patch, "check_in_time", &att.CheckInTime, mask); err != nil {
		return nil, err
	}
	if err := applyCheckTime(patch, "check_out_time", &att.CheckOutTime, mask); err != nil {
		return nil, err
	}

	// work_hours is never written from a patch; it is always derived from the
	// timestamp pair.
	recomputeWorkHours(att)

	if caller.IsAdmin() {
		att.ApprovedByID = &caller.ID
	}

	if err := s.attRepo.Update(att); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}

	return s.reload(att.ID)
}

// Approve stamps the admin as approver, overwriting remarks when supplied.
func (s *AttendanceService) Approve(id uint64, caller authz.Caller, remarks string) (*models.Attendance, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}

	att, err := s.attRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}

	att.ApprovedByID = &caller.ID
	if remarks != "" {
		att.Remarks = remarks
	}

	if err := s.attRepo.Update(att); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}

	return s.reload(att.ID)
}

// Disapprove forces the record to absent, clears the approver and stores the
// reason (or a default disapproval remark). The status overwrite applies
// regardless of the record's prior status.
func (s *AttendanceService) Disapprove(id uint64, caller authz.Caller, remarks string) (*models.Attendance, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}

	att, err := s.attRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}

	if remarks == "" {
		remarks = constants.DefaultDisapprovalRemark
	}

	att.Status = models.AttendanceStatusAbsent
	att.ApprovedByID = nil
	att.Remarks = remarks

	if err := s.attRepo.Update(att); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}

	return s.reload(att.ID)
}

// DeleteAttendance deletes a record. Admin only.
func (s *AttendanceService) DeleteAttendance(id uint64, caller authz.Caller) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}

	if _, err := s.attRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to find attendance: %w", err)
	}

	if err := s.attRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	return nil
}

func (s *AttendanceService) reload(id uint64) (*models.Attendance, error) {
	att, err := s.attRepo.FindByID(id, "User", "ApprovedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}
	return att, nil
}

// applyCheckTime applies one timestamp key from the patch: null clears the
// field, an RFC3339 string sets it.
func applyCheckTime(patch map[string]interface{}, key string, target **time.Time, mask authz.FieldMask) error {
	if !mask.Allows(key) {
		return nil
	}
	raw, ok := patch[key]
	if !ok {
		return nil
	}
	if raw == nil {
		*target = nil
		return nil
	}
	str, ok := raw.(string)
	if !ok {
		return ErrInvalidCheckTime
	}
	parsed, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return ErrInvalidCheckTime
	}
	*target = &parsed
	return nil
}

// recomputeWorkHours derives work hours from the check-in/check-out pair,
// rounded to two decimal places. Missing either timestamp resets it to zero.
func recomputeWorkHours(att *models.Attendance) {
	if att.CheckInTime == nil || att.CheckOutTime == nil {
		att.WorkHours = 0
		return
	}
	hours := att.CheckOutTime.Sub(*att.CheckInTime).Hours()
	att.WorkHours = math.Round(hours*100) / 100
}

// startOfDay truncates a time to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseDate accepts RFC3339 or a bare yyyy-mm-dd date.
func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
