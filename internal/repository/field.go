package repository

import (
	"deployment-tracker/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FieldRepository handles database operations for project fields
type FieldRepository struct {
	db *gorm.DB
}

// NewFieldRepository creates a new field repository
func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// Create creates a new field
func (r *FieldRepository) Create(field *models.ProjectField) error {
	return r.db.Create(field).Error
}

// GetByID retrieves a field by ID
func (r *FieldRepository) GetByID(id uuid.UUID) (*models.ProjectField, error) {
	var field models.ProjectField
	err := r.db.First(&field, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// GetByProjectID retrieves all fields of a project in display order
func (r *FieldRepository) GetByProjectID(projectID uuid.UUID) ([]models.ProjectField, error) {
	var fields []models.ProjectField
	err := r.db.Where("project_id = ?", projectID).Order("sort_order ASC, name ASC").Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// GetByName retrieves a project's field by name, ignoring case
func (r *FieldRepository) GetByName(projectID uuid.UUID, name string) (*models.ProjectField, error) {
	var field models.ProjectField
	err := r.db.First(&field, "project_id = ? AND LOWER(name) = LOWER(?)", projectID, name).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// MaxOrder returns the highest field order in a project, or -1 when it has no fields
func (r *FieldRepository) MaxOrder(projectID uuid.UUID) (int, error) {
	var order int
	err := r.db.Model(&models.ProjectField{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&order).Error
	if err != nil {
		return 0, err
	}
	return order, nil
}

// Update updates a field
func (r *FieldRepository) Update(field *models.ProjectField) error {
	return r.db.Save(field).Error
}

// Delete deletes a field; stored values cascade in the database
func (r *FieldRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.ProjectField{}, "id = ?", id).Error
}
