package dto

import (
	"time"

	"github.com/teamtrack/workforce-api/internal/models"
)

// ContactDTO represents a contact message in API responses
type ContactDTO struct {
	ID           uint64               `json:"id"`
	Reference    string               `json:"reference"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Subject      string               `json:"subject,omitempty"`
	Message      string               `json:"message"`
	Status       models.ContactStatus `json:"status"`
	ResolvedByID *uint64              `json:"resolved_by_id,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	ResolvedBy   *UserDTO             `json:"resolved_by,omitempty"`
}

// ContactListResponse represents a paginated list of contact messages
type ContactListResponse struct {
	Contacts   []ContactDTO `json:"contacts"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
}

// ToContactDTO converts a Contact model to ContactDTO
func ToContactDTO(contact models.Contact) ContactDTO {
	dto := ContactDTO{
		ID:           contact.ID,
		Reference:    contact.Reference,
		Name:         contact.Name,
		Email:        contact.Email,
		Subject:      contact.Subject,
		Message:      contact.Message,
		Status:       contact.Status,
		ResolvedByID: contact.ResolvedByID,
		CreatedAt:    contact.CreatedAt,
		UpdatedAt:    contact.UpdatedAt,
	}

	if contact.ResolvedBy != nil && contact.ResolvedBy.ID != 0 {
		resolver := ToUserDTO(*contact.ResolvedBy)
		dto.ResolvedBy = &resolver
	}

	return dto
}

// ToContactListResponse converts a slice of messages to ContactListResponse
func ToContactListResponse(contacts []models.Contact, page, pageSize int, totalCount int64) ContactListResponse {
	items := make([]ContactDTO, len(contacts))
	for i, contact := range contacts {
		items[i] = ToContactDTO(contact)
	}

	return ContactListResponse{
		Contacts:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
