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

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns users matching the query filters. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListUsersInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if role := c.Query("role"); role != "" {
		r := models.Role(role)
		if !r.Valid() {
			apierrors.BadRequest(c, "Invalid role filter")
			return
		}
		input.Role = &r
	}
	if active := c.Query("active"); active != "" {
		switch active {
		case "true":
			v := true
			input.Active = &v
		case "false":
			v := false
			input.Active = &v
		default:
			apierrors.BadRequest(c, "Invalid active filter")
			return
		}
	}

	users, total, err := h.userService.ListUsers(input, caller)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToUserListResponse(users, params.Page, params.Limit, total)))
}

// GetUser returns one user.
func (h *UserHandler) GetUser(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id, caller)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK(dto.ToUserDTO(*user)))
}

// UpdateUser applies profile changes to a user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name     *string      `json:"name"`
		Password *string      `json:"password"`
		Role     *models.Role `json:"role"`
		Active   *bool        `json:"active"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateUserInput{
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	}, caller)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("User updated successfully", dto.ToUserDTO(*user)))
}

// DeleteUser deletes a user. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id, caller); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.OKMessage("User deleted successfully", nil))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCannotDeleteSelf),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
