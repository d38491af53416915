package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending             TaskStatus = "pending"
	TaskStatusInProgress          TaskStatus = "in-progress"
	TaskStatusCompletionRequested TaskStatus = "completion-requested"
	TaskStatusCompleted           TaskStatus = "completed"
	TaskStatusCancelled           TaskStatus = "cancelled"
)

// Valid reports whether the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompletionRequested,
		TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether the priority is a known value.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(30);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Tags        []string     `gorm:"serializer:json" json:"tags"`
	DueDate     *time.Time   `json:"due_date"`
	CreatorID   uint64       `gorm:"not null" json:"creator_id"`

	// Completion workflow bookkeeping. RequestedByID/RequestedAt are set when
	// the last assignee requests completion; ApprovedByID/CompletedDate when an
	// admin approves.
	CompletionRequestedByID *uint64    `json:"completion_requested_by_id"`
	CompletionRequestedAt   *time.Time `json:"completion_requested_at"`
	ApprovedByID            *uint64    `json:"approved_by_id"`
	CompletedDate           *time.Time `json:"completed_date"`
	RejectionReason         string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator  User               `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Progress []AssigneeProgress `gorm:"foreignKey:TaskID" json:"progress,omitempty"`
}
