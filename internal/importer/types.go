// Package importer turns an uploaded spreadsheet into project fields and
// deployment rows: it infers column types, holds the user's column mapping
// draft, validates it and drives submission to the backend.
package importer

import (
	"context"

	"deployment-tracker/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=types.go -destination=../mocks/importer_mocks.go -package=mocks

// Upload is a selected spreadsheet file
type Upload struct {
	Filename string
	Data     []byte
}

// ColumnAnalysis is the inferred type of one spreadsheet column
type ColumnAnalysis struct {
	Name         string           `json:"name"`
	FieldType    models.FieldType `json:"field_type"`
	SampleValues []string         `json:"sample_values"`
	Options      []string         `json:"options,omitempty"`
}

// Analysis describes every column of a sheet, in header order
type Analysis struct {
	Columns  []ColumnAnalysis `json:"columns"`
	RowCount int              `json:"row_count"`
}

// Analyzer infers column types for an upload
type Analyzer interface {
	Analyze(ctx context.Context, file Upload) (*Analysis, error)
}

// FieldDefinition is a project field derived from an included draft column.
// Column names the spreadsheet header the field reads from.
type FieldDefinition struct {
	Name       string           `json:"name" validate:"required,max=100"`
	FieldType  models.FieldType `json:"field_type" validate:"required"`
	IsRequired bool             `json:"is_required"`
	Order      int              `json:"order"`
	Options    []string         `json:"options,omitempty"`
	Column     string           `json:"column,omitempty"`
}

// ImportResult is the backend's summary of a row import
type ImportResult struct {
	Message string   `json:"message"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}

// CreateProjectResult is the backend's reply to a project-with-spreadsheet request
type CreateProjectResult struct {
	Message   string    `json:"message"`
	ProjectID uuid.UUID `json:"project_id"`
	Columns   []string  `json:"columns"`
	Imported  int       `json:"imported"`
	Errors    []string  `json:"errors,omitempty"`
}

// Backend is the remote side of an import session
type Backend interface {
	Analyzer
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	CreateProjectWithSpreadsheet(ctx context.Context, name, description, expectedCount string, file Upload, fields []FieldDefinition) (*CreateProjectResult, error)
	ImportRowsIntoProject(ctx context.Context, projectID uuid.UUID, file Upload, fieldIDToHeader map[string]string) (*ImportResult, error)
}
