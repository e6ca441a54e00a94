package repository

import (
	"deployment-tracker/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusRepository handles database operations for deployment statuses
type StatusRepository struct {
	db *gorm.DB
}

// NewStatusRepository creates a new status repository
func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// Create creates a new status
func (r *StatusRepository) Create(status *models.DeploymentStatus) error {
	return r.db.Create(status).Error
}

// GetByID retrieves a status by ID
func (r *StatusRepository) GetByID(id uuid.UUID) (*models.DeploymentStatus, error) {
	var status models.DeploymentStatus
	err := r.db.First(&status, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetByName retrieves a status by name, ignoring case
func (r *StatusRepository) GetByName(name string) (*models.DeploymentStatus, error) {
	var status models.DeploymentStatus
	err := r.db.First(&status, "LOWER(name) = LOWER(?)", name).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetDefault retrieves the status with the lowest order
func (r *StatusRepository) GetDefault() (*models.DeploymentStatus, error) {
	var status models.DeploymentStatus
	err := r.db.Order("sort_order ASC, name ASC").First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetAll retrieves every status in workflow order
func (r *StatusRepository) GetAll() ([]models.DeploymentStatus, error) {
	var statuses []models.DeploymentStatus
	if err := r.db.Order("sort_order ASC, name ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// TechnicianRepository handles database operations for technicians
type TechnicianRepository struct {
	db *gorm.DB
}

// NewTechnicianRepository creates a new technician repository
func NewTechnicianRepository(db *gorm.DB) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

// Create creates a new technician
func (r *TechnicianRepository) Create(technician *models.Technician) error {
	return r.db.Create(technician).Error
}

// GetByID retrieves a technician by ID
func (r *TechnicianRepository) GetByID(id uuid.UUID) (*models.Technician, error) {
	var technician models.Technician
	err := r.db.First(&technician, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &technician, nil
}

// GetByUsername retrieves a technician by username
func (r *TechnicianRepository) GetByUsername(username string) (*models.Technician, error) {
	var technician models.Technician
	err := r.db.First(&technician, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &technician, nil
}

// GetAll retrieves every technician by name
func (r *TechnicianRepository) GetAll() ([]models.Technician, error) {
	var technicians []models.Technician
	if err := r.db.Order("name ASC").Find(&technicians).Error; err != nil {
		return nil, err
	}
	return technicians, nil
}

// Update updates a technician
func (r *TechnicianRepository) Update(technician *models.Technician) error {
	return r.db.Save(technician).Error
}

// Delete deletes a technician. Linked deployments and users are unassigned.
func (r *TechnicianRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Technician{}, "id = ?", id).Error
}

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create creates a new department
func (r *DepartmentRepository) Create(department *models.Department) error {
	return r.db.Create(department).Error
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(id uuid.UUID) (*models.Department, error) {
	var department models.Department
	err := r.db.First(&department, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// GetByName retrieves a department by name, ignoring case
func (r *DepartmentRepository) GetByName(name string) (*models.Department, error) {
	var department models.Department
	err := r.db.First(&department, "LOWER(name) = LOWER(?)", name).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// GetAll retrieves every department by name
func (r *DepartmentRepository) GetAll() ([]models.Department, error) {
	var departments []models.Department
	if err := r.db.Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// Update updates a department
func (r *DepartmentRepository) Update(department *models.Department) error {
	return r.db.Save(department).Error
}

// Delete deletes a department. Deployments in it lose their department.
func (r *DepartmentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Department{}, "id = ?", id).Error
}
