package services

import (
	"errors"
	"fmt"

	"github.com/teamtrack/workforce-api/internal/authz"
	"github.com/teamtrack/workforce-api/internal/constants"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
	ErrInvalidRole      = errors.New("invalid role")
)

// UserService provides user administration on top of the auth primitives.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	Role     *models.Role
	Active   *bool
	Page     int
	PageSize int
}

// ListUsers returns users matching the filters. Admin only.
func (s *UserService) ListUsers(input ListUsersInput, caller authz.Caller) ([]models.User, int64, error) {
	if !caller.IsAdmin() {
		return nil, 0, ErrAdminOnly
	}

	users, total, err := s.userRepo.List(repository.UserFilter{
		Role:     input.Role,
		Active:   input.Active,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// GetUser returns one user. Regular users may only read themselves.
func (s *UserService) GetUser(id uint64, caller authz.Caller) (*models.User, error) {
	if !caller.IsAdmin() && id != caller.ID {
		return nil, ErrAdminOnly
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput represents the mutable user fields. Role and Active are
// honored for admin callers only; regular users may change their own name and
// password.
type UpdateUserInput struct {
	Name     *string
	Password *string
	Role     *models.Role
	Active   *bool
}

// UpdateUser applies profile changes to a user.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput, caller authz.Caller) (*models.User, error) {
	if !caller.IsAdmin() && id != caller.ID {
		return nil, ErrAdminOnly
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}
	if caller.IsAdmin() {
		if input.Role != nil {
			if !input.Role.Valid() {
				return nil, ErrInvalidRole
			}
			user.Role = *input.Role
		}
		if input.Active != nil {
			user.Active = *input.Active
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser deletes a user. Admin only, and never the caller's own account.
func (s *UserService) DeleteUser(id uint64, caller authz.Caller) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}
	if id == caller.ID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
