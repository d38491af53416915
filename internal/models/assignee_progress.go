package models

import (
	"time"

	"gorm.io/gorm"
)

type ProgressStatus string

const (
	ProgressStatusNotStarted          ProgressStatus = "not-started"
	ProgressStatusInProgress          ProgressStatus = "in-progress"
	ProgressStatusCompletionRequested ProgressStatus = "completion-requested"
	ProgressStatusCompleted           ProgressStatus = "completed"
)

// Valid reports whether the status is a known value.
func (s ProgressStatus) Valid() bool {
	switch s {
	case ProgressStatusNotStarted, ProgressStatusInProgress,
		ProgressStatusCompletionRequested, ProgressStatusCompleted:
		return true
	}
	return false
}

// AssigneeProgress tracks one assignee's individual state within a shared
// task. Exactly one row exists per (task, assignee) pair, created together
// with the task.
type AssigneeProgress struct {
	TaskID                uint64         `gorm:"primarykey" json:"task_id"`
	UserID                uint64         `gorm:"primarykey" json:"user_id"`
	Status                ProgressStatus `gorm:"type:varchar(30);not null;default:'not-started'" json:"status"`
	Notes                 string         `gorm:"type:text" json:"notes"`
	CompletionRequestedAt *time.Time     `json:"completion_requested_at"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
