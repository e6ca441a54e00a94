package testutils

import (
	"fmt"
	"sync/atomic"

	"deployment-tracker/internal/database/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var seq atomic.Int64

func next() int64 {
	return seq.Add(1)
}

// ProjectFactory provides methods to create test Project data
type ProjectFactory struct{}

// NewProjectFactory creates a new ProjectFactory
func NewProjectFactory() *ProjectFactory {
	return &ProjectFactory{}
}

// Create creates a test Project with default values
func (f *ProjectFactory) Create() *models.Project {
	return &models.Project{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		Name:          fmt.Sprintf("Laptop Refresh %d", next()),
		Description:   "Replace aging laptops",
		ExpectedCount: 10,
		CreatedBy:     "admin",
	}
}

// WithName sets a custom name for the project
func (f *ProjectFactory) WithName(name string) *models.Project {
	project := f.Create()
	project.Name = name
	return project
}

// WithFields attaches fields, ordered as given
func (f *ProjectFactory) WithFields(fields ...models.ProjectField) *models.Project {
	project := f.Create()
	for i := range fields {
		fields[i].Order = i
	}
	project.Fields = fields
	return project
}

// FieldFactory provides methods to create test ProjectField data
type FieldFactory struct{}

// NewFieldFactory creates a new FieldFactory
func NewFieldFactory() *FieldFactory {
	return &FieldFactory{}
}

// Create creates a text field for projectID
func (f *FieldFactory) Create(projectID uuid.UUID, name string) *models.ProjectField {
	return &models.ProjectField{
		BaseModel: models.BaseModel{ID: uuid.New()},
		ProjectID: projectID,
		Name:      name,
		FieldType: models.FieldTypeText,
	}
}

// WithType creates a field of the given type
func (f *FieldFactory) WithType(projectID uuid.UUID, name string, fieldType models.FieldType) *models.ProjectField {
	field := f.Create(projectID, name)
	field.FieldType = fieldType
	return field
}

// Required creates a required text field
func (f *FieldFactory) Required(projectID uuid.UUID, name string) *models.ProjectField {
	field := f.Create(projectID, name)
	field.IsRequired = true
	return field
}

// DeploymentFactory provides methods to create test Deployment data
type DeploymentFactory struct{}

// NewDeploymentFactory creates a new DeploymentFactory
func NewDeploymentFactory() *DeploymentFactory {
	return &DeploymentFactory{}
}

// Create creates a deployment in projectID
func (f *DeploymentFactory) Create(projectID uuid.UUID) *models.Deployment {
	n := next()
	return &models.Deployment{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		DeploymentID: fmt.Sprintf("DEP-%06d", n),
		ProjectID:    projectID,
		AssignedTo:   fmt.Sprintf("Employee %d", n),
		Location:     "HQ",
		CurrentModel: "T480",
		NewModel:     "T14",
	}
}

// WithStatus creates a deployment in the given status
func (f *DeploymentFactory) WithStatus(projectID, statusID uuid.UUID) *models.Deployment {
	d := f.Create(projectID)
	d.StatusID = &statusID
	return d
}

// StatusFactory provides methods to create test DeploymentStatus data
type StatusFactory struct{}

// NewStatusFactory creates a new StatusFactory
func NewStatusFactory() *StatusFactory {
	return &StatusFactory{}
}

// Create creates a status with the given name and order
func (f *StatusFactory) Create(name string, order int) *models.DeploymentStatus {
	return &models.DeploymentStatus{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      name,
		Order:     order,
	}
}

// TechnicianFactory provides methods to create test Technician data
type TechnicianFactory struct{}

// NewTechnicianFactory creates a new TechnicianFactory
func NewTechnicianFactory() *TechnicianFactory {
	return &TechnicianFactory{}
}

// Create creates a technician with a unique username
func (f *TechnicianFactory) Create() *models.Technician {
	n := next()
	return &models.Technician{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Username:  fmt.Sprintf("tech%d", n),
		Name:      fmt.Sprintf("Technician %d", n),
		Email:     fmt.Sprintf("tech%d@example.com", n),
	}
}

// DepartmentFactory provides methods to create test Department data
type DepartmentFactory struct{}

// NewDepartmentFactory creates a new DepartmentFactory
func NewDepartmentFactory() *DepartmentFactory {
	return &DepartmentFactory{}
}

// Create creates a department with a unique name
func (f *DepartmentFactory) Create() *models.Department {
	return &models.Department{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      fmt.Sprintf("Department %d", next()),
		Division:  "Operations",
	}
}

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a user with the given role whose password is "password"
func (f *UserFactory) Create(role models.Role) *models.User {
	n := next()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	return &models.User{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: string(hash),
		Role:         role,
	}
}

// FactorySet provides all factories in one place
type FactorySet struct {
	Project    *ProjectFactory
	Field      *FieldFactory
	Deployment *DeploymentFactory
	Status     *StatusFactory
	Technician *TechnicianFactory
	Department *DepartmentFactory
	User       *UserFactory
}

// NewFactorySet creates a new set of all factories
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Project:    NewProjectFactory(),
		Field:      NewFieldFactory(),
		Deployment: NewDeploymentFactory(),
		Status:     NewStatusFactory(),
		Technician: NewTechnicianFactory(),
		Department: NewDepartmentFactory(),
		User:       NewUserFactory(),
	}
}
