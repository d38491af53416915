package repository

import (
	"time"

	"github.com/teamtrack/workforce-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Create creates a new attendance record
func (r *GormAttendanceRepository) Create(att *models.Attendance) error {
	return r.db.Create(att).Error
}

// FindByID finds an attendance record by ID with optional preloading
func (r *GormAttendanceRepository) FindByID(id uint64, preload ...string) (*models.Attendance, error) {
	var att models.Attendance
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&att, id).Error; err != nil {
		return nil, err
	}

	return &att, nil
}

// FindByUserAndDate finds the record for one user on one calendar day.
// The date is expected at local midnight.
func (r *GormAttendanceRepository) FindByUserAndDate(userID uint64, date time.Time) (*models.Attendance, error) {
	var att models.Attendance
	if err := r.db.Where("user_id = ? AND date = ?", userID, date).
		First(&att).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

// List retrieves attendance records with filtering and pagination
func (r *GormAttendanceRepository) List(filter AttendanceFilter) ([]models.Attendance, int64, error) {
	var records []models.Attendance

	query := r.db.Model(&models.Attendance{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date < ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("date DESC").
		Scopes(paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("User").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListPending returns records with no approver, newest date first
func (r *GormAttendanceRepository) ListPending() ([]models.Attendance, error) {
	var records []models.Attendance
	if err := r.db.Where("approved_by_id IS NULL").
		Order("date DESC").
		Preload("User").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update updates an attendance record. Associations are omitted; a nil
// ApprovedByID clears the approver column.
func (r *GormAttendanceRepository) Update(att *models.Attendance) error {
	return r.db.Omit(clause.Associations).Save(att).Error
}

// Delete soft deletes an attendance record
func (r *GormAttendanceRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Attendance{}, id).Error
}
