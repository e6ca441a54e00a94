package repository

import (
	"deployment-tracker/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// ProjectRepositoryInterface defines the interface for project repository operations
type ProjectRepositoryInterface interface {
	Create(project *models.Project) error
	GetByID(id uuid.UUID) (*models.Project, error)
	GetWithFields(id uuid.UUID) (*models.Project, error)
	GetByName(name string) (*models.Project, error)
	GetAll(limit, offset int) ([]models.Project, int64, error)
	Update(project *models.Project) error
	Delete(id uuid.UUID) error
}

// FieldRepositoryInterface defines the interface for project field repository operations
type FieldRepositoryInterface interface {
	Create(field *models.ProjectField) error
	GetByID(id uuid.UUID) (*models.ProjectField, error)
	GetByProjectID(projectID uuid.UUID) ([]models.ProjectField, error)
	GetByName(projectID uuid.UUID, name string) (*models.ProjectField, error)
	MaxOrder(projectID uuid.UUID) (int, error)
	Update(field *models.ProjectField) error
	Delete(id uuid.UUID) error
}

// DeploymentRepositoryInterface defines the interface for deployment repository operations
type DeploymentRepositoryInterface interface {
	Create(deployment *models.Deployment) error
	GetByID(id uuid.UUID) (*models.Deployment, error)
	GetByCode(projectID uuid.UUID, code string) (*models.Deployment, error)
	List(filter DeploymentFilter, limit, offset int) ([]models.Deployment, int64, error)
	ListAll(filter DeploymentFilter) ([]models.Deployment, error)
	Update(deployment *models.Deployment) error
	Delete(id uuid.UUID) error
	UpdateStatus(id, statusID uuid.UUID) error
	AssignTechnician(id uuid.UUID, technicianID *uuid.UUID) error
	SaveFieldValues(deploymentID uuid.UUID, values []models.DeploymentFieldValue) error
	CountByStatus(filter DeploymentFilter) ([]StatusCount, error)
}

// StatusRepositoryInterface defines the interface for deployment status operations
type StatusRepositoryInterface interface {
	Create(status *models.DeploymentStatus) error
	GetByID(id uuid.UUID) (*models.DeploymentStatus, error)
	GetByName(name string) (*models.DeploymentStatus, error)
	GetDefault() (*models.DeploymentStatus, error)
	GetAll() ([]models.DeploymentStatus, error)
}

// TechnicianRepositoryInterface defines the interface for technician operations
type TechnicianRepositoryInterface interface {
	Create(technician *models.Technician) error
	GetByID(id uuid.UUID) (*models.Technician, error)
	GetByUsername(username string) (*models.Technician, error)
	GetAll() ([]models.Technician, error)
	Update(technician *models.Technician) error
	Delete(id uuid.UUID) error
}

// DepartmentRepositoryInterface defines the interface for department operations
type DepartmentRepositoryInterface interface {
	Create(department *models.Department) error
	GetByID(id uuid.UUID) (*models.Department, error)
	GetByName(name string) (*models.Department, error)
	GetAll() ([]models.Department, error)
	Update(department *models.Department) error
	Delete(id uuid.UUID) error
}

// UserRepositoryInterface defines the interface for user account operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetAll(limit, offset int) ([]models.User, int64, error)
	Update(user *models.User) error
	Delete(id uuid.UUID) error
}
