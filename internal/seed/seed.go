package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"deployment-tracker/internal/auth"
	"deployment-tracker/internal/database/models"
	"deployment-tracker/internal/logger"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Structures that directly match the seed file layout
type StatusData struct {
	Name  string `yaml:"name"`
	Order int    `yaml:"order"`
}

type TechnicianData struct {
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
}

type DepartmentData struct {
	Name     string `yaml:"name"`
	Division string `yaml:"division"`
}

type UserData struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	// Technician links the account to the technician with this username
	Technician string `yaml:"technician,omitempty"`
}

// Data is the whole seed document
type Data struct {
	Statuses    []StatusData     `yaml:"statuses"`
	Technicians []TechnicianData `yaml:"technicians"`
	Departments []DepartmentData `yaml:"departments"`
	Users       []UserData       `yaml:"users"`
}

// Result counts the records created by a seed run
type Result struct {
	Statuses    int
	Technicians int
	Departments int
	Users       int
}

// ReadFile parses a seed document from path
func ReadFile(path string) (*Data, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(content)
}

// Parse decodes a seed document
func Parse(content []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// LoadFile reads path and applies it to db
func LoadFile(db *gorm.DB, path string) (*Result, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Apply(db, data)
}

// Apply creates every record of data that does not exist yet. Existing rows
// are matched by their unique name and left untouched, so running it twice
// is a no-op.
func Apply(db *gorm.DB, data *Data) (*Result, error) {
	log := logger.Component("seed")
	result := &Result{}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, s := range data.Statuses {
			created, err := createStatus(tx, s)
			if err != nil {
				return err
			}
			if created {
				result.Statuses++
				log.Infof("Created deployment status: %s", s.Name)
			}
		}

		technicians := make(map[string]*models.Technician)
		for _, t := range data.Technicians {
			technician, created, err := createTechnician(tx, t)
			if err != nil {
				return err
			}
			technicians[technician.Username] = technician
			if created {
				result.Technicians++
				log.Infof("Created technician: %s", t.Username)
			}
		}

		for _, d := range data.Departments {
			created, err := createDepartment(tx, d)
			if err != nil {
				return err
			}
			if created {
				result.Departments++
				log.Infof("Created department: %s", d.Name)
			}
		}

		for _, u := range data.Users {
			created, err := createUser(tx, u, technicians)
			if err != nil {
				return err
			}
			if created {
				result.Users++
				log.Infof("Created user: %s", u.Username)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func createStatus(db *gorm.DB, data StatusData) (bool, error) {
	name := strings.TrimSpace(data.Name)
	if name == "" {
		return false, errors.New("status name is required")
	}

	var existing models.DeploymentStatus
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up status %s: %w", name, err)
	}

	status := models.DeploymentStatus{Name: name, Order: data.Order}
	if err := db.Create(&status).Error; err != nil {
		return false, fmt.Errorf("failed to create status %s: %w", name, err)
	}
	return true, nil
}

func createTechnician(db *gorm.DB, data TechnicianData) (*models.Technician, bool, error) {
	username := strings.TrimSpace(data.Username)
	if username == "" {
		return nil, false, errors.New("technician username is required")
	}

	var existing models.Technician
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up technician %s: %w", username, err)
	}

	name := strings.TrimSpace(data.Name)
	if name == "" {
		name = username
	}
	technician := models.Technician{Username: username, Name: name, Email: data.Email}
	if err := db.Create(&technician).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create technician %s: %w", username, err)
	}
	return &technician, true, nil
}

func createDepartment(db *gorm.DB, data DepartmentData) (bool, error) {
	name := strings.TrimSpace(data.Name)
	if name == "" {
		return false, errors.New("department name is required")
	}

	var existing models.Department
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up department %s: %w", name, err)
	}

	department := models.Department{Name: name, Division: data.Division}
	if err := db.Create(&department).Error; err != nil {
		return false, fmt.Errorf("failed to create department %s: %w", name, err)
	}
	return true, nil
}

func createUser(db *gorm.DB, data UserData, technicians map[string]*models.Technician) (bool, error) {
	username := strings.TrimSpace(data.Username)
	if username == "" {
		return false, errors.New("user username is required")
	}
	role := models.Role(data.Role)
	if role == "" {
		role = models.RoleTechnician
	}
	if !role.IsValid() {
		return false, fmt.Errorf("user %s has unknown role %q", username, data.Role)
	}
	if data.Password == "" {
		return false, fmt.Errorf("user %s has no password", username)
	}

	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up user %s: %w", username, err)
	}

	hash, err := auth.HashPassword(data.Password)
	if err != nil {
		return false, err
	}
	user := models.User{
		Username:     username,
		Email:        data.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if data.Technician != "" {
		technician, ok := technicians[data.Technician]
		if !ok {
			var found models.Technician
			if err := db.Where("username = ?", data.Technician).First(&found).Error; err != nil {
				return false, fmt.Errorf("user %s links unknown technician %s", username, data.Technician)
			}
			technician = &found
		}
		user.TechnicianID = &technician.ID
	}

	if err := db.Create(&user).Error; err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", username, err)
	}
	return true, nil
}
