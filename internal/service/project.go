package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectService handles business logic for projects and their fields
type ProjectService struct {
	repo      repository.ProjectRepositoryInterface
	fieldRepo repository.FieldRepositoryInterface
	validator *validator.Validate
}

// NewProjectService creates a new project service
func NewProjectService(repo repository.ProjectRepositoryInterface, fieldRepo repository.FieldRepositoryInterface, validator *validator.Validate) *ProjectService {
	return &ProjectService{
		repo:      repo,
		fieldRepo: fieldRepo,
		validator: validator,
	}
}

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Description   string `json:"description,omitempty"`
	ExpectedCount int    `json:"expected_count" validate:"min=0"`
}

// UpdateProjectRequest represents the request to update a project
type UpdateProjectRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description,omitempty"`
	ExpectedCount *int    `json:"expected_count,omitempty" validate:"omitempty,min=0"`
}

// FieldOptions accepts dropdown options either as a JSON list or as one
// comma-separated string
type FieldOptions []string

// UnmarshalJSON implements json.Unmarshaler
func (o *FieldOptions) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*o = cleanOptions(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("options must be a list or a comma-separated string")
	}
	*o = cleanOptions(strings.Split(joined, ","))
	return nil
}

// AddFieldRequest represents the request to add a field to a project
type AddFieldRequest struct {
	Name       string           `json:"name" validate:"max=100"`
	FieldType  models.FieldType `json:"field_type"`
	IsRequired bool             `json:"is_required"`
	Options    FieldOptions     `json:"options,omitempty" swaggertype:"array,string"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects []models.Project `json:"projects"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// Create creates a new project without fields
func (s *ProjectService) Create(req *CreateProjectRequest, createdBy string) (*models.Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, apperrors.ErrProjectNameRequired
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	project := &models.Project{
		Name:          req.Name,
		Description:   req.Description,
		ExpectedCount: req.ExpectedCount,
		CreatedBy:     createdBy,
	}
	if err := s.repo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetByID retrieves a project with its fields in display order
func (s *ProjectService) GetByID(id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.GetWithFields(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// GetAll retrieves a page of projects
func (s *ProjectService) GetAll(page, pageSize int) (*ProjectListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	projects, total, err := s.repo.GetAll(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}

	return &ProjectListResponse{
		Projects: projects,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update applies the non-nil members of req to a project
func (s *ProjectService) Update(id uuid.UUID, req *UpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	project, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ErrProjectNameRequired
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.ExpectedCount != nil {
		project.ExpectedCount = *req.ExpectedCount
	}

	if err := s.repo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Delete deletes a project with its fields and deployments
func (s *ProjectService) Delete(id uuid.UUID) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("failed to get project: %w", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddField appends a field to a project. The field type defaults to text and
// the field is ordered after every existing field.
func (s *ProjectService) AddField(projectID uuid.UUID, req *AddFieldRequest) (*models.ProjectField, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, apperrors.ErrFieldNameRequired
	}
	if req.FieldType == "" {
		req.FieldType = models.FieldTypeText
	}
	if !req.FieldType.IsValid() {
		return nil, apperrors.ErrInvalidFieldType
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.repo.GetByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	existing, err := s.fieldRepo.GetByName(projectID, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing field: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrFieldExists
	}

	maxOrder, err := s.fieldRepo.MaxOrder(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to read field order: %w", err)
	}

	field := &models.ProjectField{
		ProjectID:  projectID,
		Name:       req.Name,
		FieldType:  req.FieldType,
		IsRequired: req.IsRequired,
		Order:      maxOrder + 1,
	}
	if req.FieldType == models.FieldTypeDropdown {
		field.Options = []string(req.Options)
	}

	if err := s.fieldRepo.Create(field); err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}
	return field, nil
}

// RemoveField deletes a field of a project together with its stored values
func (s *ProjectService) RemoveField(projectID, fieldID uuid.UUID) error {
	field, err := s.fieldRepo.GetByID(fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrFieldNotFound
		}
		return fmt.Errorf("failed to get field: %w", err)
	}
	if field.ProjectID != projectID {
		return apperrors.ErrFieldNotFound
	}
	if err := s.fieldRepo.Delete(fieldID); err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}
	return nil
}

func cleanOptions(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, o := range raw {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
