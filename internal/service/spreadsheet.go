package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/fieldvalue"
	"deployment-tracker/internal/importer"
	"deployment-tracker/internal/logger"
	"deployment-tracker/internal/repository"
	"deployment-tracker/internal/spreadsheet"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Header aliases recognized for the built-in deployment columns. Keys are
// compared after aliasKey normalization.
var (
	codeAliases         = []string{"deployment_id", "id"}
	statusAliases       = []string{"status"}
	departmentAliases   = []string{"department", "dept"}
	assignedToAliases   = []string{"assigned_to", "assignee", "user", "employee"}
	positionAliases     = []string{"position", "job_title", "title", "role"}
	locationAliases     = []string{"location", "site", "building", "office"}
	currentModelAliases = []string{"current_model", "old_model", "existing_model"}
	currentSNAliases    = []string{"current_sn", "old_sn", "existing_sn", "current_serial"}
	newModelAliases     = []string{"new_model", "target_model", "model"}
	newSNAliases        = []string{"new_sn", "target_sn", "serial_number", "serial"}
)

// templateHeaders lead every import template, before the project's fields
var templateHeaders = []string{"Status", "Assigned To", "Position", "Department", "Location"}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SpreadsheetService runs spreadsheet analysis, project creation from a
// spreadsheet, row import and template export
type SpreadsheetService struct {
	store     *repository.Store
	validator *validator.Validate
	log       *logger.Logger
}

// NewSpreadsheetService creates a new spreadsheet service
func NewSpreadsheetService(store *repository.Store, validator *validator.Validate) *SpreadsheetService {
	return &SpreadsheetService{
		store:     store,
		validator: validator,
		log:       logger.Component("spreadsheet"),
	}
}

// CreateWithSpreadsheetRequest carries a project and an optional spreadsheet.
// When Fields is empty every column of the spreadsheet becomes a field.
type CreateWithSpreadsheetRequest struct {
	Name          string
	Description   string
	ExpectedCount int
	CreatedBy     string
	File          *importer.Upload
	Fields        []importer.FieldDefinition
}

// Analyze infers a field type for every column of the upload
func (s *SpreadsheetService) Analyze(file importer.Upload) (*importer.Analysis, error) {
	sheet, err := spreadsheet.Read(file.Filename, file.Data)
	if err != nil {
		return nil, err
	}
	return &importer.Analysis{Columns: importer.InferColumns(sheet), RowCount: sheet.RowCount()}, nil
}

// CreateWithSpreadsheet creates a project, its fields and, when a file is
// given, one deployment per data row. Everything runs in one transaction.
func (s *SpreadsheetService) CreateWithSpreadsheet(req *CreateWithSpreadsheetRequest) (*importer.CreateProjectResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ErrProjectNameRequired
	}
	if req.ExpectedCount < 0 {
		req.ExpectedCount = 0
	}

	var sheet *spreadsheet.Sheet
	if req.File != nil && len(req.File.Data) > 0 {
		var err error
		if sheet, err = spreadsheet.Read(req.File.Filename, req.File.Data); err != nil {
			return nil, err
		}
	}

	defs := req.Fields
	if len(defs) == 0 && sheet != nil {
		defs = definitionsFromSheet(sheet)
	}
	fields, columns, err := s.buildFields(defs, sheet)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:          name,
		Description:   req.Description,
		ExpectedCount: req.ExpectedCount,
		CreatedBy:     req.CreatedBy,
		Fields:        fields,
	}

	result := &importer.CreateProjectResult{
		Message: "Project created successfully with Excel columns",
		Columns: make([]string, 0, len(fields)),
	}

	err = s.store.Transaction(func(tx *repository.Store) error {
		if err := tx.Projects.Create(project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		if sheet == nil {
			return nil
		}

		var defaultStatus *uuid.UUID
		status, err := tx.Statuses.GetDefault()
		switch {
		case err == nil:
			defaultStatus = &status.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to get default status: %w", err)
		}

		mapping := make(map[uuid.UUID]int, len(project.Fields))
		headers := sheet.HeaderIndex()
		for i, f := range project.Fields {
			if col, ok := headers.Lookup(columns[i]); ok {
				mapping[f.ID] = col
			}
		}

		imported, rowErrors, err := s.importRows(tx, project, mapping, sheet, defaultStatus, true)
		if err != nil {
			return err
		}
		result.Imported = imported
		result.Errors = rowErrors
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, f := range project.Fields {
		result.Columns = append(result.Columns, f.Name)
	}
	result.ProjectID = project.ID

	s.log.WithFields(map[string]interface{}{
		"project_id": project.ID,
		"fields":     len(project.Fields),
		"imported":   result.Imported,
	}).Info("Project created from spreadsheet")

	return result, nil
}

// ParseColumnMap decodes a column_map form value. An empty value is an empty map.
func ParseColumnMap(raw string) (map[string]string, error) {
	columnMap := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return columnMap, nil
	}
	if err := json.Unmarshal([]byte(raw), &columnMap); err != nil {
		return nil, apperrors.ErrInvalidColumnMap
	}
	return columnMap, nil
}

// ImportRows creates one deployment per data row of the upload. columnMap
// maps project field ids to spreadsheet headers. Rows that fail validation
// are skipped and reported; a database failure rolls back the whole import.
func (s *SpreadsheetService) ImportRows(projectID uuid.UUID, file importer.Upload, columnMap map[string]string) (*importer.ImportResult, error) {
	project, err := s.store.Projects.GetWithFields(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	sheet, err := spreadsheet.Read(file.Filename, file.Data)
	if err != nil {
		return nil, err
	}

	status, err := s.store.Statuses.GetDefault()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDefaultStatusNotSet
		}
		return nil, fmt.Errorf("failed to get default status: %w", err)
	}

	fieldsByID := make(map[uuid.UUID]models.ProjectField, len(project.Fields))
	for _, f := range project.Fields {
		fieldsByID[f.ID] = f
	}
	headers := sheet.HeaderIndex()
	mapping := make(map[uuid.UUID]int, len(columnMap))
	for rawID, header := range columnMap {
		if strings.TrimSpace(header) == "" {
			continue
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, apperrors.NewValidationError("column_map", fmt.Sprintf("invalid field id %q", rawID))
		}
		if _, ok := fieldsByID[id]; !ok {
			return nil, apperrors.NewValidationError("column_map", fmt.Sprintf("field %s does not belong to the project", rawID))
		}
		col, ok := headers.Lookup(header)
		if !ok {
			return nil, apperrors.NewValidationError("column_map", fmt.Sprintf("column %q not found in spreadsheet", header))
		}
		mapping[id] = col
	}

	var imported int
	var rowErrors []string
	err = s.store.Transaction(func(tx *repository.Store) error {
		imported, rowErrors, err = s.importRows(tx, project, mapping, sheet, &status.ID, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"project_id": project.ID,
		"imported":   imported,
		"errors":     len(rowErrors),
	}).Info("Spreadsheet rows imported")

	return &importer.ImportResult{
		Message: fmt.Sprintf("Successfully imported %d deployments", imported),
		Total:   imported,
		Errors:  rowErrors,
	}, nil
}

// ExportTemplate returns an empty workbook whose headers match what
// ImportRows recognizes for the project, and its download file name
func (s *SpreadsheetService) ExportTemplate(projectID uuid.UUID) (string, []byte, error) {
	project, err := s.store.Projects.GetWithFields(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrProjectNotFound
		}
		return "", nil, fmt.Errorf("failed to get project: %w", err)
	}

	headers := append([]string(nil), templateHeaders...)
	for _, f := range project.SortedFields() {
		headers = append(headers, f.Name)
	}

	data, err := spreadsheet.WriteTemplate(project.Name, headers)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build template: %w", err)
	}
	return SafeFilename(project.Name) + "_template.xlsx", data, nil
}

// rowImporter resolves the built-in columns of one sheet
type rowImporter struct {
	tx          *repository.Store
	project     *models.Project
	mapping     map[uuid.UUID]int
	fields      []models.ProjectField
	aliases     map[string]int
	statuses    map[string]uuid.UUID
	departments map[string]uuid.UUID
	codes       map[string]bool
	status      *uuid.UUID

	// lenient drops unknown status and department names instead of
	// rejecting the row
	lenient bool
}

func (s *SpreadsheetService) importRows(tx *repository.Store, project *models.Project, mapping map[uuid.UUID]int, sheet *spreadsheet.Sheet, defaultStatus *uuid.UUID, lenient bool) (int, []string, error) {
	ri := &rowImporter{
		tx:          tx,
		project:     project,
		mapping:     mapping,
		fields:      project.SortedFields(),
		aliases:     make(map[string]int, len(sheet.Headers)),
		statuses:    map[string]uuid.UUID{},
		departments: map[string]uuid.UUID{},
		codes:       map[string]bool{},
		status:      defaultStatus,
		lenient:     lenient,
	}
	for i, h := range sheet.Headers {
		key := aliasKey(h)
		if _, exists := ri.aliases[key]; !exists {
			ri.aliases[key] = i
		}
	}

	statuses, err := tx.Statuses.GetAll()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load statuses: %w", err)
	}
	for _, st := range statuses {
		ri.statuses[strings.ToLower(st.Name)] = st.ID
	}
	departments, err := tx.Departments.GetAll()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load departments: %w", err)
	}
	for _, d := range departments {
		ri.departments[strings.ToLower(d.Name)] = d.ID
	}

	var (
		imported  int
		rowErrors []string
	)
	for i, row := range sheet.Rows {
		deployment, err := ri.build(row)
		if err != nil {
			var v *apperrors.ValidationError
			if errors.As(err, &v) {
				rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %s", sheet.RowNumber(i), v.Message))
				continue
			}
			return 0, nil, err
		}
		if err := tx.Deployments.Create(deployment); err != nil {
			return 0, nil, fmt.Errorf("failed to create deployment on row %d: %w", sheet.RowNumber(i), err)
		}
		imported++
	}
	return imported, rowErrors, nil
}

// build turns a row into a deployment. Problems with the row's data come
// back as *ValidationError; anything else is a storage failure.
func (ri *rowImporter) build(row []string) (*models.Deployment, error) {
	d := &models.Deployment{
		ProjectID:    ri.project.ID,
		StatusID:     ri.status,
		AssignedTo:   ri.cell(row, assignedToAliases),
		Position:     ri.cell(row, positionAliases),
		Location:     ri.cell(row, locationAliases),
		CurrentModel: ri.cell(row, currentModelAliases),
		CurrentSN:    ri.cell(row, currentSNAliases),
		NewModel:     ri.cell(row, newModelAliases),
		NewSN:        ri.cell(row, newSNAliases),
	}

	if name := ri.cell(row, statusAliases); name != "" {
		if id, ok := ri.statuses[strings.ToLower(name)]; ok {
			d.StatusID = &id
		} else if !ri.lenient {
			return nil, rowError("unknown status %q", name)
		}
	}
	if name := ri.cell(row, departmentAliases); name != "" {
		if id, ok := ri.departments[strings.ToLower(name)]; ok {
			d.DepartmentID = &id
		} else if !ri.lenient {
			return nil, rowError("unknown department %q", name)
		}
	}

	for _, field := range ri.fields {
		col, ok := ri.mapping[field.ID]
		if !ok {
			continue
		}
		value, err := fieldvalue.Normalize(field, row[col])
		if err != nil {
			return nil, rowError("%s", err.Error())
		}
		if value != "" {
			d.FieldValues = append(d.FieldValues, models.DeploymentFieldValue{FieldID: field.ID, Value: value})
		}
	}

	code, err := ri.code(ri.cell(row, codeAliases))
	if err != nil {
		return nil, err
	}
	d.DeploymentID = code
	return d, nil
}

// code returns the row's deployment code, generating one when blank
func (ri *rowImporter) code(given string) (string, error) {
	if given != "" {
		taken, err := ri.taken(given)
		if err != nil {
			return "", err
		}
		if taken {
			return "", rowError("deployment ID %s already exists", given)
		}
		ri.codes[given] = true
		return given, nil
	}
	for {
		code := NewDeploymentCode()
		taken, err := ri.taken(code)
		if err != nil {
			return "", err
		}
		if !taken {
			ri.codes[code] = true
			return code, nil
		}
	}
}

func (ri *rowImporter) taken(code string) (bool, error) {
	if ri.codes[code] {
		return true, nil
	}
	_, err := ri.tx.Deployments.GetByCode(ri.project.ID, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check deployment ID: %w", err)
	}
}

// cell returns the cleaned value of the first alias present in the header
// row. The first present alias wins even when its cell is empty.
func (ri *rowImporter) cell(row []string, aliases []string) string {
	for _, a := range aliases {
		if col, ok := ri.aliases[a]; ok {
			return fieldvalue.CleanCell(row[col])
		}
	}
	return ""
}

func (s *SpreadsheetService) buildFields(defs []importer.FieldDefinition, sheet *spreadsheet.Sheet) ([]models.ProjectField, []string, error) {
	var headers spreadsheet.HeaderIndex
	if sheet != nil {
		headers = sheet.HeaderIndex()
	}

	fields := make([]models.ProjectField, 0, len(defs))
	columns := make([]string, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		def.Name = strings.TrimSpace(def.Name)
		if err := s.validator.Struct(def); err != nil {
			return nil, nil, fmt.Errorf("validation failed: %w", err)
		}
		if !def.FieldType.IsValid() {
			return nil, nil, apperrors.ErrInvalidFieldType
		}
		key := strings.ToLower(def.Name)
		if seen[key] {
			return nil, nil, apperrors.NewValidationError("fields", fmt.Sprintf("duplicate field name %q", def.Name))
		}
		seen[key] = true

		column := def.Column
		if column == "" {
			column = def.Name
		}
		options := def.Options
		if def.FieldType == models.FieldTypeDropdown && sheet != nil {
			if col, ok := headers.Lookup(column); ok {
				options = unionOptions(options, importer.DistinctValues(sheet.Column(col)))
			}
		}
		if def.FieldType != models.FieldTypeDropdown {
			options = nil
		}

		fields = append(fields, models.ProjectField{
			Name:       def.Name,
			FieldType:  def.FieldType,
			IsRequired: def.IsRequired,
			Options:    options,
			Order:      i,
		})
		columns = append(columns, column)
	}
	return fields, columns, nil
}

func definitionsFromSheet(sheet *spreadsheet.Sheet) []importer.FieldDefinition {
	columns := importer.InferColumns(sheet)
	defs := make([]importer.FieldDefinition, 0, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		defs = append(defs, importer.FieldDefinition{
			Name:      c.Name,
			FieldType: c.FieldType,
			Order:     i,
			Options:   c.Options,
			Column:    c.Name,
		})
	}
	return defs
}

func unionOptions(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, o := range list {
			o = strings.TrimSpace(o)
			key := strings.ToLower(o)
			if o == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, o)
		}
	}
	return out
}

func rowError(format string, args ...interface{}) error {
	return &apperrors.ValidationError{Field: "row", Message: fmt.Sprintf(format, args...)}
}

// aliasKey lowercases a header and joins its words with underscores so that
// "Assigned To" and "assigned-to" both match assigned_to
func aliasKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// NewDeploymentCode returns a fresh DEP-XXXXXX code
func NewDeploymentCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "DEP-" + strings.ToUpper(hex[:6])
}

// SafeFilename replaces characters that are awkward in a download name
func SafeFilename(name string) string {
	name = strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if name == "" {
		return "project"
	}
	return name
}
