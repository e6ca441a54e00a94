package repository

import (
	"gorm.io/gorm"
)

// Store bundles every repository over one connection or transaction
type Store struct {
	db          *gorm.DB
	Projects    *ProjectRepository
	Fields      *FieldRepository
	Deployments *DeploymentRepository
	Statuses    *StatusRepository
	Technicians *TechnicianRepository
	Departments *DepartmentRepository
	Users       *UserRepository
}

// NewStore creates a store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Projects:    NewProjectRepository(db),
		Fields:      NewFieldRepository(db),
		Deployments: NewDeploymentRepository(db),
		Statuses:    NewStatusRepository(db),
		Technicians: NewTechnicianRepository(db),
		Departments: NewDepartmentRepository(db),
		Users:       NewUserRepository(db),
	}
}

// DB returns the underlying connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
