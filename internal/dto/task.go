package dto

import (
	"time"

	"github.com/teamtrack/workforce-api/internal/models"
)

// AssigneeProgressDTO represents one assignee's progress in API responses
type AssigneeProgressDTO struct {
	UserID                uint64                `json:"user_id"`
	Status                models.ProgressStatus `json:"status"`
	Notes                 string                `json:"notes,omitempty"`
	CompletionRequestedAt *time.Time            `json:"completion_requested_at,omitempty"`
	User                  *UserDTO              `json:"user,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                      uint64                `json:"id"`
	Title                   string                `json:"title"`
	Description             string                `json:"description"`
	Status                  models.TaskStatus     `json:"status"`
	Priority                models.TaskPriority   `json:"priority"`
	Tags                    []string              `json:"tags,omitempty"`
	DueDate                 *time.Time            `json:"due_date"`
	CreatorID               uint64                `json:"creator_id"`
	CompletionRequestedByID *uint64               `json:"completion_requested_by_id,omitempty"`
	CompletionRequestedAt   *time.Time            `json:"completion_requested_at,omitempty"`
	ApprovedByID            *uint64               `json:"approved_by_id,omitempty"`
	CompletedDate           *time.Time            `json:"completed_date,omitempty"`
	RejectionReason         string                `json:"rejection_reason,omitempty"`
	CreatedAt               time.Time             `json:"created_at"`
	UpdatedAt               time.Time             `json:"updated_at"`
	Creator                 *UserDTO              `json:"creator,omitempty"`
	Progress                []AssigneeProgressDTO `json:"progress,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToAssigneeProgressDTO converts an AssigneeProgress model
func ToAssigneeProgressDTO(progress models.AssigneeProgress) AssigneeProgressDTO {
	dto := AssigneeProgressDTO{
		UserID:                progress.UserID,
		Status:                progress.Status,
		Notes:                 progress.Notes,
		CompletionRequestedAt: progress.CompletionRequestedAt,
	}

	if progress.User.ID != 0 {
		user := ToUserDTO(progress.User)
		dto.User = &user
	}

	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                      task.ID,
		Title:                   task.Title,
		Description:             task.Description,
		Status:                  task.Status,
		Priority:                task.Priority,
		Tags:                    task.Tags,
		DueDate:                 task.DueDate,
		CreatorID:               task.CreatorID,
		CompletionRequestedByID: task.CompletionRequestedByID,
		CompletionRequestedAt:   task.CompletionRequestedAt,
		ApprovedByID:            task.ApprovedByID,
		CompletedDate:           task.CompletedDate,
		RejectionReason:         task.RejectionReason,
		CreatedAt:               task.CreatedAt,
		UpdatedAt:               task.UpdatedAt,
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	// Include progress if preloaded
	if len(task.Progress) > 0 {
		dto.Progress = make([]AssigneeProgressDTO, len(task.Progress))
		for i, progress := range task.Progress {
			dto.Progress[i] = ToAssigneeProgressDTO(progress)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
