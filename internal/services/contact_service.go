package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/teamtrack/workforce-api/internal/authz"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound      = errors.New("contact message not found")
	ErrContactFieldsMissing = errors.New("name, email and message are required")
	ErrInvalidContactStatus = errors.New("invalid contact status")
)

// ContactService manages the inbound contact-message inbox.
type ContactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(contactRepo repository.ContactRepository) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
	}
}

// CreateContactInput represents an inbound contact form submission.
type CreateContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// CreateContact stores a new message with a generated reference number.
func (s *ContactService) CreateContact(input CreateContactInput) (*models.Contact, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Message) == "" {
		return nil, ErrContactFieldsMissing
	}

	contact := &models.Contact{
		Reference: uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Message:   input.Message,
		Status:    models.ContactStatusNew,
	}

	if err := s.contactRepo.Create(contact); err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}

	return contact, nil
}

// ListContactsInput represents filters for listing contact messages
type ListContactsInput struct {
	Status   *models.ContactStatus
	Page     int
	PageSize int
}

// ListContacts returns messages matching the filters. Admin only.
func (s *ContactService) ListContacts(input ListContactsInput, caller authz.Caller) ([]models.Contact, int64, error) {
	if !caller.IsAdmin() {
		return nil, 0, ErrAdminOnly
	}

	contacts, total, err := s.contactRepo.List(repository.ContactFilter{
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}

	return contacts, total, nil
}

// GetContact returns one message. Admin only.
func (s *ContactService) GetContact(id uint64, caller authz.Caller) (*models.Contact, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}

	contact, err := s.contactRepo.FindByID(id, "ResolvedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact message: %w", err)
	}
	return contact, nil
}

// UpdateContactStatus moves a message through its lifecycle. The resolver is
// stamped only on the transition into resolved.
func (s *ContactService) UpdateContactStatus(id uint64, status models.ContactStatus, caller authz.Caller) (*models.Contact, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if !status.Valid() {
		return nil, ErrInvalidContactStatus
	}

	contact, err := s.contactRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact message: %w", err)
	}

	if status == models.ContactStatusResolved && contact.Status != models.ContactStatusResolved {
		contact.ResolvedByID = &caller.ID
	}
	contact.Status = status

	if err := s.contactRepo.Update(contact); err != nil {
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}

	return contact, nil
}

// DeleteContact deletes a message. Admin only.
func (s *ContactService) DeleteContact(id uint64, caller authz.Caller) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}

	if _, err := s.contactRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to find contact message: %w", err)
	}

	if err := s.contactRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}

	return nil
}
