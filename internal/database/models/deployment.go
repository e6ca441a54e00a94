package models

import (
	"time"

	"github.com/google/uuid"
)

// Deployment is a single device swap or provisioning work item
type Deployment struct {
	BaseModel
	DeploymentID string    `json:"deployment_id" gorm:"not null;size:50;uniqueIndex:idx_deployments_code"`
	ProjectID    uuid.UUID `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_deployments_code;index"`

	StatusID     *uuid.UUID `json:"status_id,omitempty" gorm:"type:uuid;index"`
	AssignedTo   string     `json:"assigned_to" gorm:"size:150"`
	Position     string     `json:"position" gorm:"size:150"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty" gorm:"type:uuid"`
	Location     string     `json:"location" gorm:"size:200"`

	CurrentModel string `json:"current_model" gorm:"size:100"`
	CurrentSN    string `json:"current_sn" gorm:"size:100"`
	NewModel     string `json:"new_model" gorm:"size:100"`
	NewSN        string `json:"new_sn" gorm:"size:100"`

	TechnicianID    *uuid.UUID `json:"technician_id,omitempty" gorm:"type:uuid;index"`
	TechnicianNotes string     `json:"technician_notes" gorm:"type:text"`
	DeploymentDate  *time.Time `json:"deployment_date,omitempty"`

	// Relationships
	Status      *DeploymentStatus      `json:"status,omitempty" gorm:"foreignKey:StatusID;constraint:OnDelete:SET NULL"`
	Department  *Department            `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL"`
	Technician  *Technician            `json:"technician,omitempty" gorm:"foreignKey:TechnicianID;constraint:OnDelete:SET NULL"`
	FieldValues []DeploymentFieldValue `json:"field_values,omitempty" gorm:"foreignKey:DeploymentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Deployment
func (Deployment) TableName() string {
	return "deployments"
}

// DeploymentFieldValue stores one custom field value of a deployment as text.
// Typed access goes through the fieldvalue package.
type DeploymentFieldValue struct {
	BaseModel
	DeploymentID uuid.UUID `json:"deployment_id" gorm:"type:uuid;not null;uniqueIndex:idx_field_values_pair"`
	FieldID      uuid.UUID `json:"field_id" gorm:"type:uuid;not null;uniqueIndex:idx_field_values_pair"`
	Value        string    `json:"value" gorm:"type:text"`

	Field *ProjectField `json:"field,omitempty" gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for DeploymentFieldValue
func (DeploymentFieldValue) TableName() string {
	return "deployment_field_values"
}

// DeploymentStatus is a workflow state; the lowest Order is the default
type DeploymentStatus struct {
	BaseModel
	Name  string `json:"name" gorm:"not null;size:50;uniqueIndex" validate:"required,max=50"`
	Order int    `json:"order" gorm:"column:sort_order;not null;default:0"`
}

// TableName returns the table name for DeploymentStatus
func (DeploymentStatus) TableName() string {
	return "deployment_statuses"
}
