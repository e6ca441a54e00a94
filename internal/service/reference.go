package service

import (
	"errors"
	"fmt"
	"strings"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceService manages statuses, technicians and departments
type ReferenceService struct {
	statuses    repository.StatusRepositoryInterface
	technicians repository.TechnicianRepositoryInterface
	departments repository.DepartmentRepositoryInterface
	validator   *validator.Validate
}

// NewReferenceService creates a new reference data service
func NewReferenceService(
	statuses repository.StatusRepositoryInterface,
	technicians repository.TechnicianRepositoryInterface,
	departments repository.DepartmentRepositoryInterface,
	validator *validator.Validate,
) *ReferenceService {
	return &ReferenceService{
		statuses:    statuses,
		technicians: technicians,
		departments: departments,
		validator:   validator,
	}
}

// CreateStatusRequest represents the request to create a deployment status
type CreateStatusRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Order int    `json:"order"`
}

// CreateTechnicianRequest represents the request to create a technician
type CreateTechnicianRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Name     string `json:"name" validate:"required,max=150"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// CreateDepartmentRequest represents the request to create a department
type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"required,max=150"`
	Division string `json:"division,omitempty" validate:"max=150"`
}

// UpdateTechnicianRequest represents the request to update a technician.
// Only non-nil members are applied.
type UpdateTechnicianRequest struct {
	Username *string `json:"username,omitempty" validate:"omitnil,min=1,max=100"`
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1,max=150"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateDepartmentRequest represents the request to update a department.
// Only non-nil members are applied.
type UpdateDepartmentRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1,max=150"`
	Division *string `json:"division,omitempty" validate:"omitempty,max=150"`
}

// ListStatuses returns every status, default first
func (s *ReferenceService) ListStatuses() ([]models.DeploymentStatus, error) {
	statuses, err := s.statuses.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	if statuses == nil {
		statuses = []models.DeploymentStatus{}
	}
	return statuses, nil
}

// CreateStatus creates a status with a unique name
func (s *ReferenceService) CreateStatus(req *CreateStatusRequest) (*models.DeploymentStatus, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := checkUnique(func() error { _, err := s.statuses.GetByName(req.Name); return err }, apperrors.ErrStatusExists); err != nil {
		return nil, err
	}

	status := &models.DeploymentStatus{Name: req.Name, Order: req.Order}
	if err := s.statuses.Create(status); err != nil {
		return nil, fmt.Errorf("failed to create status: %w", err)
	}
	return status, nil
}

// ListTechnicians returns every technician ordered by name
func (s *ReferenceService) ListTechnicians() ([]models.Technician, error) {
	technicians, err := s.technicians.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	if technicians == nil {
		technicians = []models.Technician{}
	}
	return technicians, nil
}

// CreateTechnician creates a technician with a unique username
func (s *ReferenceService) CreateTechnician(req *CreateTechnicianRequest) (*models.Technician, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := checkUnique(func() error { _, err := s.technicians.GetByUsername(req.Username); return err }, apperrors.ErrTechnicianExists); err != nil {
		return nil, err
	}

	technician := &models.Technician{Username: req.Username, Name: req.Name, Email: req.Email}
	if err := s.technicians.Create(technician); err != nil {
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}
	return technician, nil
}

// UpdateTechnician applies the non-nil members of req. A new username must
// stay unique.
func (s *ReferenceService) UpdateTechnician(id uuid.UUID, req *UpdateTechnicianRequest) (*models.Technician, error) {
	trimPtr(req.Username)
	trimPtr(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	technician, err := s.getTechnician(id)
	if err != nil {
		return nil, err
	}
	if req.Username != nil && *req.Username != technician.Username {
		if err := checkUnique(func() error { _, err := s.technicians.GetByUsername(*req.Username); return err }, apperrors.ErrTechnicianExists); err != nil {
			return nil, err
		}
		technician.Username = *req.Username
	}
	setString(&technician.Name, req.Name)
	setString(&technician.Email, req.Email)

	if err := s.technicians.Update(technician); err != nil {
		return nil, fmt.Errorf("failed to update technician: %w", err)
	}
	return technician, nil
}

// DeleteTechnician deletes a technician; their deployments become unassigned
func (s *ReferenceService) DeleteTechnician(id uuid.UUID) error {
	if _, err := s.getTechnician(id); err != nil {
		return err
	}
	if err := s.technicians.Delete(id); err != nil {
		return fmt.Errorf("failed to delete technician: %w", err)
	}
	return nil
}

func (s *ReferenceService) getTechnician(id uuid.UUID) (*models.Technician, error) {
	technician, err := s.technicians.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return technician, nil
}

// ListDepartments returns every department
func (s *ReferenceService) ListDepartments() ([]models.Department, error) {
	departments, err := s.departments.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	if departments == nil {
		departments = []models.Department{}
	}
	return departments, nil
}

// CreateDepartment creates a department with a unique name
func (s *ReferenceService) CreateDepartment(req *CreateDepartmentRequest) (*models.Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := checkUnique(func() error { _, err := s.departments.GetByName(req.Name); return err }, apperrors.ErrDepartmentExists); err != nil {
		return nil, err
	}

	department := &models.Department{Name: req.Name, Division: req.Division}
	if err := s.departments.Create(department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return department, nil
}

// UpdateDepartment applies the non-nil members of req. A new name must stay
// unique, ignoring case.
func (s *ReferenceService) UpdateDepartment(id uuid.UUID, req *UpdateDepartmentRequest) (*models.Department, error) {
	trimPtr(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	department, err := s.getDepartment(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && !strings.EqualFold(*req.Name, department.Name) {
		if err := checkUnique(func() error { _, err := s.departments.GetByName(*req.Name); return err }, apperrors.ErrDepartmentExists); err != nil {
			return nil, err
		}
	}
	setString(&department.Name, req.Name)
	setString(&department.Division, req.Division)

	if err := s.departments.Update(department); err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return department, nil
}

// DeleteDepartment deletes a department; its deployments keep no department
func (s *ReferenceService) DeleteDepartment(id uuid.UUID) error {
	if _, err := s.getDepartment(id); err != nil {
		return err
	}
	if err := s.departments.Delete(id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

func (s *ReferenceService) getDepartment(id uuid.UUID) (*models.Department, error) {
	department, err := s.departments.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return department, nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// checkUnique runs lookup and returns exists when it finds a record
func checkUnique(lookup func() error, exists error) error {
	err := lookup()
	switch {
	case err == nil:
		return exists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check existing record: %w", err)
	}
}
