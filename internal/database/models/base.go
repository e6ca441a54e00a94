package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common fields for all models with UUID primary keys
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets the UUID if not already set
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return nil
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&DeploymentStatus{},
		&Technician{},
		&Department{},
		&User{},
		&Project{},
		&ProjectField{},
		&Deployment{},
		&DeploymentFieldValue{},
	}
}
