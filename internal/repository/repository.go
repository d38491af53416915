package repository

import (
	"time"

	"github.com/teamtrack/workforce-api/internal/models"
	"gorm.io/gorm"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task together with its progress rows
	Delete(id uint64) error

	// AddProgress creates progress rows for the given assignees
	AddProgress(taskID uint64, userIDs []uint64) error

	// SyncProgress makes the set of progress rows match exactly the given
	// assignees, removing rows for users no longer assigned
	SyncProgress(taskID uint64, userIDs []uint64) error

	// FindProgress finds one assignee's progress row
	FindProgress(taskID, userID uint64) (*models.AssigneeProgress, error)

	// UpdateProgress updates a single progress row
	UpdateProgress(progress *models.AssigneeProgress) error

	// UpdateAllProgressStatus sets every progress row of a task to the status
	UpdateAllProgressStatus(taskID uint64, status models.ProgressStatus) error

	// ResetRequestedProgress moves completion-requested progress rows back to
	// in-progress and clears their request timestamps; other rows are untouched
	ResetRequestedProgress(taskID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	CreatorID   *uint64
	AssigneeID  *uint64
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Page        int
	PageSize    int
}

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(att *models.Attendance) error

	// FindByID finds an attendance record by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Attendance, error)

	// FindByUserAndDate finds the record for one user on one calendar day
	FindByUserAndDate(userID uint64, date time.Time) (*models.Attendance, error)

	// List retrieves attendance records with filtering and pagination
	List(filter AttendanceFilter) ([]models.Attendance, int64, error)

	// ListPending returns records with no approver, newest date first
	ListPending() ([]models.Attendance, error)

	// Update updates an attendance record
	Update(att *models.Attendance) error

	// Delete soft deletes an attendance record
	Delete(id uint64) error
}

// AttendanceFilter holds filtering options for listing attendance records
type AttendanceFilter struct {
	UserID   *uint64
	Status   *models.AttendanceStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List retrieves users with pagination
	List(filter UserFilter) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete soft deletes a user
	Delete(id uint64) error

	// CountByIDs counts how many of the given user IDs exist and are active
	CountByIDs(ids []uint64) (int64, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role     *models.Role
	Active   *bool
	Page     int
	PageSize int
}

// ContactRepository defines the interface for contact message data access
type ContactRepository interface {
	// Create creates a new contact message
	Create(contact *models.Contact) error

	// FindByID finds a contact message by ID
	FindByID(id uint64, preload ...string) (*models.Contact, error)

	// List retrieves contact messages with filtering and pagination
	List(filter ContactFilter) ([]models.Contact, int64, error)

	// Update updates a contact message
	Update(contact *models.Contact) error

	// Delete soft deletes a contact message
	Delete(id uint64) error
}

// ContactFilter holds filtering options for listing contact messages
type ContactFilter struct {
	Status   *models.ContactStatus
	Page     int
	PageSize int
}

// paginate is a gorm scope applying page-based offset/limit. Non-positive
// values disable pagination.
func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
