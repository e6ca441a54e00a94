package models

import (
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project groups deployments that share a custom field schema
type Project struct {
	BaseModel
	Name          string `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description   string `json:"description" gorm:"type:text"`
	ExpectedCount int    `json:"expected_count" gorm:"not null;default:0" validate:"min=0"`
	CreatedBy     string `json:"created_by" gorm:"size:150"`

	// Relationships
	Fields      []ProjectField `json:"fields,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Deployments []Deployment   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}

// SortedFields returns the project's fields ordered by Order, then name
func (p *Project) SortedFields() []ProjectField {
	out := make([]ProjectField, len(p.Fields))
	copy(out, p.Fields)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ProjectField is a named, typed custom attribute of a project's deployments
type ProjectField struct {
	BaseModel
	ProjectID  uuid.UUID                   `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_fields_name"`
	Name       string                      `json:"name" gorm:"not null;size:100;uniqueIndex:idx_project_fields_name" validate:"required,min=1,max=100"`
	FieldType  FieldType                   `json:"field_type" gorm:"type:varchar(20);not null;default:'text'" validate:"required"`
	IsRequired bool                        `json:"is_required" gorm:"not null;default:false"`
	Options    datatypes.JSONSlice[string] `json:"options"`
	Order      int                         `json:"order" gorm:"column:sort_order;not null;default:0"`
}

// TableName returns the table name for ProjectField
func (ProjectField) TableName() string {
	return "project_fields"
}
