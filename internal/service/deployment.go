package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/fieldvalue"
	"deployment-tracker/internal/repository"
	"deployment-tracker/internal/spreadsheet"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// exportHeaders lead every deployment export, before the project's fields
var exportHeaders = []string{
	"ID", "Status", "Assigned To", "Position", "Department", "Location",
	"Current Model", "Current SN", "New Model", "New SN",
	"Technician", "Technician Notes", "Deployment Date", "Created Date", "Updated Date",
}

// DeploymentService handles business logic for deployments
type DeploymentService struct {
	repo        repository.DeploymentRepositoryInterface
	projects    repository.ProjectRepositoryInterface
	statuses    repository.StatusRepositoryInterface
	technicians repository.TechnicianRepositoryInterface
	validator   *validator.Validate
}

// NewDeploymentService creates a new deployment service
func NewDeploymentService(
	repo repository.DeploymentRepositoryInterface,
	projects repository.ProjectRepositoryInterface,
	statuses repository.StatusRepositoryInterface,
	technicians repository.TechnicianRepositoryInterface,
	validator *validator.Validate,
) *DeploymentService {
	return &DeploymentService{
		repo:        repo,
		projects:    projects,
		statuses:    statuses,
		technicians: technicians,
		validator:   validator,
	}
}

// CreateDeploymentRequest represents the request to create a deployment.
// FieldValues maps field ids to raw values.
type CreateDeploymentRequest struct {
	ProjectID       uuid.UUID         `json:"project_id" validate:"required"`
	DeploymentID    string            `json:"deployment_id,omitempty" validate:"max=50"`
	StatusID        *uuid.UUID        `json:"status_id,omitempty"`
	AssignedTo      string            `json:"assigned_to" validate:"max=150"`
	Position        string            `json:"position" validate:"max=150"`
	DepartmentID    *uuid.UUID        `json:"department_id,omitempty"`
	Location        string            `json:"location" validate:"max=200"`
	CurrentModel    string            `json:"current_model" validate:"max=100"`
	CurrentSN       string            `json:"current_sn" validate:"max=100"`
	NewModel        string            `json:"new_model" validate:"max=100"`
	NewSN           string            `json:"new_sn" validate:"max=100"`
	TechnicianID    *uuid.UUID        `json:"technician_id,omitempty"`
	TechnicianNotes string            `json:"technician_notes"`
	DeploymentDate  *time.Time        `json:"deployment_date,omitempty"`
	FieldValues     map[string]string `json:"field_values,omitempty"`
}

// UpdateDeploymentRequest represents the request to update a deployment.
// Only non-nil members are applied.
type UpdateDeploymentRequest struct {
	AssignedTo      *string           `json:"assigned_to,omitempty" validate:"omitempty,max=150"`
	Position        *string           `json:"position,omitempty" validate:"omitempty,max=150"`
	DepartmentID    *uuid.UUID        `json:"department_id,omitempty"`
	Location        *string           `json:"location,omitempty" validate:"omitempty,max=200"`
	CurrentModel    *string           `json:"current_model,omitempty" validate:"omitempty,max=100"`
	CurrentSN       *string           `json:"current_sn,omitempty" validate:"omitempty,max=100"`
	NewModel        *string           `json:"new_model,omitempty" validate:"omitempty,max=100"`
	NewSN           *string           `json:"new_sn,omitempty" validate:"omitempty,max=100"`
	TechnicianNotes *string           `json:"technician_notes,omitempty"`
	DeploymentDate  *time.Time        `json:"deployment_date,omitempty"`
	FieldValues     map[string]string `json:"field_values,omitempty"`
}

// TechnicianEditable reports whether req only touches the members a
// technician may change on their own deployments
func (req *UpdateDeploymentRequest) TechnicianEditable() bool {
	return req.AssignedTo == nil && req.Position == nil && req.DepartmentID == nil &&
		req.Location == nil && req.CurrentModel == nil && req.CurrentSN == nil &&
		req.NewModel == nil && req.NewSN == nil && len(req.FieldValues) == 0
}

// Actor is the caller of a deployment operation. Admins reach every
// deployment; anyone else only those assigned to their TechnicianID.
type Actor struct {
	Admin        bool
	TechnicianID *uuid.UUID
}

// Allows reports whether the actor may read or work on deployment
func (a Actor) Allows(deployment *models.Deployment) bool {
	if a.Admin {
		return true
	}
	return a.TechnicianID != nil && deployment.TechnicianID != nil &&
		*a.TechnicianID == *deployment.TechnicianID
}

// DeploymentListResponse represents a paginated list of deployments
type DeploymentListResponse struct {
	Deployments []models.Deployment `json:"deployments"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
}

// List retrieves a page of deployments matching filter
func (s *DeploymentService) List(filter repository.DeploymentFilter, page, pageSize int) (*DeploymentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	deployments, total, err := s.repo.List(filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	if deployments == nil {
		deployments = []models.Deployment{}
	}
	return &DeploymentListResponse{
		Deployments: deployments,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

// GetByID retrieves a deployment
func (s *DeploymentService) GetByID(id uuid.UUID) (*models.Deployment, error) {
	deployment, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDeploymentNotFound
		}
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}
	return deployment, nil
}

// Authorize loads a deployment the actor may access. Deployments assigned
// to someone else yield ErrNotAssigned.
func (s *DeploymentService) Authorize(actor Actor, id uuid.UUID) (*models.Deployment, error) {
	deployment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.Allows(deployment) {
		return nil, apperrors.ErrNotAssigned
	}
	return deployment, nil
}

// Create creates a deployment. A blank deployment ID is generated and a
// missing status falls back to the default status when one exists.
func (s *DeploymentService) Create(req *CreateDeploymentRequest) (*models.Deployment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	project, err := s.projects.GetWithFields(req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	values, err := normalizeFieldValues(project, req.FieldValues, true)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.DeploymentID)
	if code == "" {
		code = NewDeploymentCode()
	}
	if _, err := s.repo.GetByCode(project.ID, code); err == nil {
		return nil, apperrors.ErrDeploymentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check deployment ID: %w", err)
	}

	statusID := req.StatusID
	if statusID == nil {
		status, err := s.statuses.GetDefault()
		switch {
		case err == nil:
			statusID = &status.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to get default status: %w", err)
		}
	} else if err := s.requireStatus(*statusID); err != nil {
		return nil, err
	}

	if req.TechnicianID != nil {
		if err := s.requireTechnician(*req.TechnicianID); err != nil {
			return nil, err
		}
	}

	deployment := &models.Deployment{
		DeploymentID:    code,
		ProjectID:       project.ID,
		StatusID:        statusID,
		AssignedTo:      req.AssignedTo,
		Position:        req.Position,
		DepartmentID:    req.DepartmentID,
		Location:        req.Location,
		CurrentModel:    req.CurrentModel,
		CurrentSN:       req.CurrentSN,
		NewModel:        req.NewModel,
		NewSN:           req.NewSN,
		TechnicianID:    req.TechnicianID,
		TechnicianNotes: req.TechnicianNotes,
		DeploymentDate:  req.DeploymentDate,
		FieldValues:     values,
	}
	if err := s.repo.Create(deployment); err != nil {
		return nil, fmt.Errorf("failed to create deployment: %w", err)
	}
	return deployment, nil
}

// Update applies the non-nil members of req to a deployment
func (s *DeploymentService) Update(id uuid.UUID, req *UpdateDeploymentRequest) (*models.Deployment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	deployment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	setString(&deployment.AssignedTo, req.AssignedTo)
	setString(&deployment.Position, req.Position)
	setString(&deployment.Location, req.Location)
	setString(&deployment.CurrentModel, req.CurrentModel)
	setString(&deployment.CurrentSN, req.CurrentSN)
	setString(&deployment.NewModel, req.NewModel)
	setString(&deployment.NewSN, req.NewSN)
	setString(&deployment.TechnicianNotes, req.TechnicianNotes)
	if req.DepartmentID != nil {
		deployment.DepartmentID = req.DepartmentID
	}
	if req.DeploymentDate != nil {
		deployment.DeploymentDate = req.DeploymentDate
	}

	var values []models.DeploymentFieldValue
	if len(req.FieldValues) > 0 {
		project, err := s.projects.GetWithFields(deployment.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to get project: %w", err)
		}
		if values, err = normalizeFieldValues(project, req.FieldValues, false); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(deployment); err != nil {
		return nil, fmt.Errorf("failed to update deployment: %w", err)
	}
	if len(values) > 0 {
		if err := s.repo.SaveFieldValues(deployment.ID, values); err != nil {
			return nil, fmt.Errorf("failed to save field values: %w", err)
		}
	}
	return s.GetByID(id)
}

// Delete deletes a deployment
func (s *DeploymentService) Delete(id uuid.UUID) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete deployment: %w", err)
	}
	return nil
}

// UpdateStatus moves a deployment to another status. statusID is the raw
// request value.
func (s *DeploymentService) UpdateStatus(id uuid.UUID, statusID string) (*models.Deployment, error) {
	statusID = strings.TrimSpace(statusID)
	if statusID == "" {
		return nil, apperrors.ErrStatusRequired
	}
	sid, err := uuid.Parse(statusID)
	if err != nil {
		return nil, apperrors.NewValidationError("status", "invalid status ID")
	}

	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}
	if err := s.requireStatus(sid); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(id, sid); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return s.GetByID(id)
}

// AssignTechnician assigns a technician to a deployment; nil unassigns
func (s *DeploymentService) AssignTechnician(id uuid.UUID, technicianID *uuid.UUID) (*models.Deployment, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}
	if technicianID != nil {
		if err := s.requireTechnician(*technicianID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.AssignTechnician(id, technicianID); err != nil {
		return nil, fmt.Errorf("failed to assign technician: %w", err)
	}
	return s.GetByID(id)
}

// ExportExcel writes every deployment matching filter to a workbook. When the
// filter names a project its fields are appended as columns and the file is
// named after it.
func (s *DeploymentService) ExportExcel(filter repository.DeploymentFilter) (string, []byte, error) {
	var (
		project *models.Project
		fields  []models.ProjectField
		err     error
	)
	if filter.ProjectID != nil {
		project, err = s.projects.GetWithFields(*filter.ProjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil, apperrors.ErrProjectNotFound
			}
			return "", nil, fmt.Errorf("failed to get project: %w", err)
		}
		fields = project.SortedFields()
	}

	deployments, err := s.repo.ListAll(filter)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	headers := append([]string(nil), exportHeaders...)
	for _, f := range fields {
		headers = append(headers, f.Name)
	}

	rows := make([][]string, 0, len(deployments))
	for _, d := range deployments {
		row := []string{
			d.DeploymentID,
			statusName(d.Status),
			d.AssignedTo,
			d.Position,
			departmentName(d.Department),
			d.Location,
			d.CurrentModel,
			d.CurrentSN,
			d.NewModel,
			d.NewSN,
			technicianName(d.Technician),
			d.TechnicianNotes,
			formatDate(d.DeploymentDate),
			d.CreatedAt.Format("2006-01-02 15:04:05"),
			d.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		values := make(map[uuid.UUID]string, len(d.FieldValues))
		for _, v := range d.FieldValues {
			values[v.FieldID] = v.Value
		}
		for _, f := range fields {
			row = append(row, values[f.ID])
		}
		rows = append(rows, row)
	}

	sheetName, filename := "Deployments", "deployments.xlsx"
	if project != nil {
		sheetName = project.Name
		filename = SafeFilename(project.Name) + "_deployments.xlsx"
	}
	data, err := spreadsheet.WriteRows(sheetName, headers, rows)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build export: %w", err)
	}
	return filename, data, nil
}

func (s *DeploymentService) requireStatus(id uuid.UUID) error {
	if _, err := s.statuses.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrStatusNotFound
		}
		return fmt.Errorf("failed to get status: %w", err)
	}
	return nil
}

func (s *DeploymentService) requireTechnician(id uuid.UUID) error {
	if _, err := s.technicians.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTechnicianNotFound
		}
		return fmt.Errorf("failed to get technician: %w", err)
	}
	return nil
}

// normalizeFieldValues checks raw values against the project's fields. With
// requireAll set, required fields missing from raw are rejected too.
func normalizeFieldValues(project *models.Project, raw map[string]string, requireAll bool) ([]models.DeploymentFieldValue, error) {
	var (
		values  []models.DeploymentFieldValue
		missing []string
	)
	byID := make(map[uuid.UUID]models.ProjectField, len(project.Fields))
	for _, f := range project.Fields {
		byID[f.ID] = f
	}
	for rawID := range raw {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, apperrors.NewValidationError("field_values", fmt.Sprintf("invalid field id %q", rawID))
		}
		if _, ok := byID[id]; !ok {
			return nil, apperrors.NewValidationError("field_values", fmt.Sprintf("field %s does not belong to the project", rawID))
		}
	}

	for _, f := range project.SortedFields() {
		rawValue, ok := raw[f.ID.String()]
		if !ok {
			if requireAll && f.IsRequired {
				missing = append(missing, f.Name)
			}
			continue
		}
		value, err := fieldvalue.Normalize(f, rawValue)
		if err != nil {
			return nil, apperrors.NewValidationError("field_values", err.Error())
		}
		values = append(values, models.DeploymentFieldValue{FieldID: f.ID, Value: value})
	}
	if len(missing) > 0 {
		return nil, &apperrors.ValidationError{Field: "field_values", Message: "missing required fields", Fields: missing}
	}
	return values, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func statusName(s *models.DeploymentStatus) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func departmentName(d *models.Department) string {
	if d == nil {
		return ""
	}
	return d.Name
}

func technicianName(t *models.Technician) string {
	if t == nil {
		return ""
	}
	return t.Name
}
