package service

import (
	"errors"
	"fmt"
	"strings"

	"deployment-tracker/internal/auth"
	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService manages console accounts
type UserService struct {
	users       repository.UserRepositoryInterface
	technicians repository.TechnicianRepositoryInterface
	validator   *validator.Validate
}

// NewUserService creates a new user service
func NewUserService(
	users repository.UserRepositoryInterface,
	technicians repository.TechnicianRepositoryInterface,
	validator *validator.Validate,
) *UserService {
	return &UserService{
		users:       users,
		technicians: technicians,
		validator:   validator,
	}
}

// CreateUserRequest represents the request to create an account. An empty
// role means technician.
type CreateUserRequest struct {
	Username     string      `json:"username" validate:"required,min=3,max=150"`
	Email        string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password     string      `json:"password" validate:"required,min=8,max=72"`
	Role         models.Role `json:"role,omitempty"`
	TechnicianID *uuid.UUID  `json:"technician_id,omitempty"`
}

// UpdateUserRequest represents the request to update an account. Only
// non-nil members are applied; a nil UUID technician_id unlinks.
type UpdateUserRequest struct {
	Email        *string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role         *models.Role `json:"role,omitempty"`
	TechnicianID *uuid.UUID   `json:"technician_id,omitempty"`
}

// ResetPasswordRequest carries the replacement password
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserListResponse represents a paginated list of accounts
type UserListResponse struct {
	Users    []models.User `json:"users"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// List returns a page of accounts ordered by username
func (s *UserService) List(page, pageSize int) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := s.users.GetAll(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return &UserListResponse{Users: users, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetByID retrieves an account with its technician
func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create creates an account with a hashed password and a unique username
func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	role, err := checkRole(req.Role)
	if err != nil {
		return nil, err
	}
	if err := checkUnique(func() error { _, err := s.users.GetByUsername(req.Username); return err }, apperrors.ErrUserExists); err != nil {
		return nil, err
	}
	if req.TechnicianID != nil {
		if err := s.requireTechnician(*req.TechnicianID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		TechnicianID: req.TechnicianID,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.GetByID(user.ID)
}

// Update applies the non-nil members of req to an account
func (s *UserService) Update(id uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		role, err := checkRole(*req.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	setString(&user.Email, req.Email)
	if req.TechnicianID != nil {
		user.Technician = nil
		if *req.TechnicianID == uuid.Nil {
			user.TechnicianID = nil
		} else {
			if err := s.requireTechnician(*req.TechnicianID); err != nil {
				return nil, err
			}
			user.TechnicianID = req.TechnicianID
		}
	}

	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetByID(id)
}

// Delete deletes an account
func (s *UserService) Delete(id uuid.UUID) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.users.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ResetPassword replaces an account's password. Tokens issued before stay
// valid until they expire.
func (s *UserService) ResetPassword(id uuid.UUID, req *ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

func (s *UserService) requireTechnician(id uuid.UUID) error {
	if _, err := s.technicians.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTechnicianNotFound
		}
		return fmt.Errorf("failed to get technician: %w", err)
	}
	return nil
}

func checkRole(role models.Role) (models.Role, error) {
	if role == "" {
		return models.RoleTechnician, nil
	}
	if !role.IsValid() {
		return "", apperrors.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}
	return role, nil
}
