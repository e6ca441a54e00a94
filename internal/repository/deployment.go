package repository

import (
	"strings"

	"deployment-tracker/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeploymentFilter narrows deployment queries; nil members are ignored
type DeploymentFilter struct {
	ProjectID    *uuid.UUID
	StatusID     *uuid.UUID
	TechnicianID *uuid.UUID
	DepartmentID *uuid.UUID
	Search       string
}

// StatusCount is the number of deployments in one status
type StatusCount struct {
	StatusID *uuid.UUID `json:"status_id"`
	Name     string     `json:"name"`
	Count    int64      `json:"count"`
}

// DeploymentRepository handles database operations for deployments
type DeploymentRepository struct {
	db *gorm.DB
}

// NewDeploymentRepository creates a new deployment repository
func NewDeploymentRepository(db *gorm.DB) *DeploymentRepository {
	return &DeploymentRepository{db: db}
}

// Create creates a new deployment together with any field values it carries
func (r *DeploymentRepository) Create(deployment *models.Deployment) error {
	return r.db.Create(deployment).Error
}

// GetByID retrieves a deployment with its status, department, technician and field values
func (r *DeploymentRepository) GetByID(id uuid.UUID) (*models.Deployment, error) {
	var deployment models.Deployment
	err := r.withRelations(r.db).First(&deployment, "deployments.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// GetByCode retrieves a deployment by its human-readable code within a project
func (r *DeploymentRepository) GetByCode(projectID uuid.UUID, code string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := r.db.First(&deployment, "project_id = ? AND deployment_id = ?", projectID, code).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// List retrieves deployments matching filter with pagination, newest first
func (r *DeploymentRepository) List(filter DeploymentFilter, limit, offset int) ([]models.Deployment, int64, error) {
	var deployments []models.Deployment
	var total int64

	if err := applyFilter(r.db.Model(&models.Deployment{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withRelations(applyFilter(r.db, filter)).
		Order("deployments.created_at DESC, deployments.deployment_id ASC").
		Limit(limit).Offset(offset).
		Find(&deployments).Error
	if err != nil {
		return nil, 0, err
	}

	return deployments, total, nil
}

// ListAll retrieves every deployment matching filter in creation order
func (r *DeploymentRepository) ListAll(filter DeploymentFilter) ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := r.withRelations(applyFilter(r.db, filter)).
		Order("deployments.created_at ASC, deployments.deployment_id ASC").
		Find(&deployments).Error
	if err != nil {
		return nil, err
	}
	return deployments, nil
}

// Update updates a deployment's own columns
func (r *DeploymentRepository) Update(deployment *models.Deployment) error {
	return r.db.Omit(clause.Associations).Save(deployment).Error
}

// Delete deletes a deployment; field values cascade in the database
func (r *DeploymentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Deployment{}, "id = ?", id).Error
}

// UpdateStatus moves a deployment to another status
func (r *DeploymentRepository) UpdateStatus(id, statusID uuid.UUID) error {
	return r.db.Model(&models.Deployment{}).Where("id = ?", id).Update("status_id", statusID).Error
}

// AssignTechnician sets the deployment's technician; nil unassigns
func (r *DeploymentRepository) AssignTechnician(id uuid.UUID, technicianID *uuid.UUID) error {
	return r.db.Model(&models.Deployment{}).Where("id = ?", id).Update("technician_id", technicianID).Error
}

// SaveFieldValues inserts or replaces field values keyed by (deployment, field)
func (r *DeploymentRepository) SaveFieldValues(deploymentID uuid.UUID, values []models.DeploymentFieldValue) error {
	if len(values) == 0 {
		return nil
	}
	for i := range values {
		values[i].DeploymentID = deploymentID
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "deployment_id"}, {Name: "field_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Omit("Field").Create(&values).Error
}

// CountByStatus groups matching deployments by status
func (r *DeploymentRepository) CountByStatus(filter DeploymentFilter) ([]StatusCount, error) {
	var counts []StatusCount
	err := applyFilter(r.db.Model(&models.Deployment{}), filter).
		Select("deployments.status_id AS status_id, COALESCE(deployment_statuses.name, '') AS name, COUNT(*) AS count").
		Joins("LEFT JOIN deployment_statuses ON deployment_statuses.id = deployments.status_id").
		Group("deployments.status_id, deployment_statuses.name, deployment_statuses.sort_order").
		Order("deployment_statuses.sort_order ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *DeploymentRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Status").
		Preload("Department").
		Preload("Technician").
		Preload("FieldValues")
}

func applyFilter(db *gorm.DB, filter DeploymentFilter) *gorm.DB {
	if filter.ProjectID != nil {
		db = db.Where("deployments.project_id = ?", *filter.ProjectID)
	}
	if filter.StatusID != nil {
		db = db.Where("deployments.status_id = ?", *filter.StatusID)
	}
	if filter.TechnicianID != nil {
		db = db.Where("deployments.technician_id = ?", *filter.TechnicianID)
	}
	if filter.DepartmentID != nil {
		db = db.Where("deployments.department_id = ?", *filter.DepartmentID)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		db = db.Where("(LOWER(deployments.deployment_id) LIKE ? OR LOWER(deployments.assigned_to) LIKE ? OR LOWER(deployments.location) LIKE ?)",
			pattern, pattern, pattern)
	}
	return db
}
