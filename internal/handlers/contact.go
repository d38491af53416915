package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamtrack/workforce-api/internal/dto"
	apierrors "github.com/teamtrack/workforce-api/internal/errors"
	"github.com/teamtrack/workforce-api/internal/middleware"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/services"
	"github.com/teamtrack/workforce-api/internal/utils"
)

// ContactHandler coordinates contact-message HTTP handlers.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// CreateContact accepts a public contact form submission.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	type CreateContactRequest struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Subject string `json:"subject"`
		Message string `json:"message" binding:"required"`
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Name, email and message are required")
		return
	}

	contact, err := h.contactService.CreateContact(services.CreateContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.OKMessage("Message received", gin.H{
		"reference": contact.Reference,
	}))
}

// ListContacts returns messages matching the query filters. Admin only.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListContactsInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if status := c.Query("status"); status != "" {
		s := models.ContactStatus(status)
		if !s.Valid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &s
	}

	contacts, total, err := h.contactService.ListContacts(input, caller)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToContactListResponse(contacts, params.Page, params.Limit, total)))
}

// GetContact returns one message. Admin only.
func (h *ContactHandler) GetContact(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	contact, err := h.contactService.GetContact(id, caller)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToContactDTO(*contact)))
}

// UpdateContactStatus moves a message through its lifecycle. Admin only.
func (h *ContactHandler) UpdateContactStatus(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateContactStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Status is required")
		return
	}

	contact, err := h.contactService.UpdateContactStatus(id, models.ContactStatus(req.Status), caller)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Contact status updated", dto.ToContactDTO(*contact)))
}

// DeleteContact deletes a message. Admin only.
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(id, caller); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("Contact message deleted successfully", nil))
}

func respondContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContactNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrContactFieldsMissing),
		errors.Is(err, services.ErrInvalidContactStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
