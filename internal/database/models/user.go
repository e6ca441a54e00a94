package models

import (
	"github.com/google/uuid"
)

// User is a console account. Technician users may be linked to a Technician
// record so their dashboard can be scoped to their assignments.
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"not null;size:150;uniqueIndex" validate:"required,min=3,max=150"`
	Email        string     `json:"email" gorm:"size:255" validate:"omitempty,email,max=255"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;default:'technician'" validate:"required"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty" gorm:"type:uuid"`

	Technician *Technician `json:"technician,omitempty" gorm:"foreignKey:TechnicianID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// Technician performs deployments in the field
type Technician struct {
	BaseModel
	Username string `json:"username" gorm:"not null;size:150;uniqueIndex" validate:"required,max=150"`
	Name     string `json:"name" gorm:"not null;size:150" validate:"required,max=150"`
	Email    string `json:"email" gorm:"size:255" validate:"omitempty,email,max=255"`
}

// TableName returns the table name for Technician
func (Technician) TableName() string {
	return "technicians"
}

// Department is organisational reference data for deployments
type Department struct {
	BaseModel
	Name     string `json:"name" gorm:"not null;size:150;uniqueIndex" validate:"required,max=150"`
	Division string `json:"division" gorm:"size:150"`
}

// TableName returns the table name for Department
func (Department) TableName() string {
	return "departments"
}
