package importer

import (
	"fmt"
	"sort"
	"strings"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/spreadsheet"

	"github.com/google/uuid"
)

// Entry is the mapping state of one spreadsheet column
type Entry struct {
	OriginalHeader string           `json:"original_header"`
	MappedName     string           `json:"mapped_name"`
	FieldType      models.FieldType `json:"field_type"`
	Include        bool             `json:"include"`
	IsRequired     bool             `json:"is_required"`
	SampleValues   []string         `json:"sample_values"`
	Options        []string         `json:"options,omitempty"`
	FieldID        uuid.UUID        `json:"field_id"`
}

// Mapped reports whether the column feeds an existing project field
func (e Entry) Mapped() bool {
	return e.FieldID != uuid.Nil
}

// Draft is the column mapping of one import session, one entry per header
type Draft struct {
	entries []Entry
}

// NewDraft builds a draft from headers and per-column analysis. Columns are
// matched to headers by position, then by name; headers without analysis
// default to text. Every column starts included.
func NewDraft(headers []string, columns []ColumnAnalysis) *Draft {
	byName := make(map[string]ColumnAnalysis, len(columns))
	for _, c := range columns {
		key := spreadsheet.NormalizeHeader(c.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = c
		}
	}

	d := &Draft{entries: make([]Entry, len(headers))}
	for i, h := range headers {
		col, ok := ColumnAnalysis{}, false
		if i < len(columns) && spreadsheet.NormalizeHeader(columns[i].Name) == spreadsheet.NormalizeHeader(h) {
			col, ok = columns[i], true
		} else {
			col, ok = byName[spreadsheet.NormalizeHeader(h)]
		}

		e := Entry{
			OriginalHeader: h,
			MappedName:     strings.TrimSpace(h),
			FieldType:      models.FieldTypeText,
			Include:        true,
			SampleValues:   []string{},
		}
		if ok {
			if col.FieldType.IsValid() {
				e.FieldType = col.FieldType
			}
			e.SampleValues = append(e.SampleValues, col.SampleValues...)
			e.Options = append([]string(nil), col.Options...)
		}
		d.entries[i] = e
	}
	return d
}

// NewManualDraft builds the fallback draft used when analysis is unavailable
func NewManualDraft(headers []string) *Draft {
	return NewDraft(headers, nil)
}

// Len returns the number of columns
func (d *Draft) Len() int {
	return len(d.entries)
}

// Entries returns a copy of every entry in header order
func (d *Draft) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Entry returns the entry at column i
func (d *Draft) Entry(i int) (Entry, error) {
	if err := d.check(i); err != nil {
		return Entry{}, err
	}
	return d.entries[i], nil
}

// Headers returns the original headers in order
func (d *Draft) Headers() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.OriginalHeader
	}
	return out
}

// SetInclude toggles whether column i is imported
func (d *Draft) SetInclude(i int, include bool) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.entries[i].Include = include
	return nil
}

// Rename sets the field name column i will be imported as
func (d *Draft) Rename(i int, name string) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.entries[i].MappedName = strings.TrimSpace(name)
	return nil
}

// SetFieldType changes the target type of column i
func (d *Draft) SetFieldType(i int, fieldType models.FieldType) error {
	if err := d.check(i); err != nil {
		return err
	}
	if !fieldType.IsValid() {
		return apperrors.ErrInvalidFieldType
	}
	d.entries[i].FieldType = fieldType
	return nil
}

// SetRequired marks the field created from column i as required
func (d *Draft) SetRequired(i int, required bool) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.entries[i].IsRequired = required
	return nil
}

// AssignField makes column i feed the existing field fieldID. A field is fed
// by at most one column, so any other column holding it is cleared.
// uuid.Nil removes the assignment.
func (d *Draft) AssignField(i int, fieldID uuid.UUID) error {
	if err := d.check(i); err != nil {
		return err
	}
	if fieldID != uuid.Nil {
		for j := range d.entries {
			if d.entries[j].FieldID == fieldID {
				d.entries[j].FieldID = uuid.Nil
			}
		}
	}
	d.entries[i].FieldID = fieldID
	return nil
}

// MapField chooses the column that feeds fieldID by header name. An empty
// header unmaps the field.
func (d *Draft) MapField(fieldID uuid.UUID, header string) error {
	if fieldID == uuid.Nil {
		return apperrors.NewValidationError("field_id", "field is required")
	}
	if strings.TrimSpace(header) == "" {
		for j := range d.entries {
			if d.entries[j].FieldID == fieldID {
				d.entries[j].FieldID = uuid.Nil
			}
		}
		return nil
	}
	for i, e := range d.entries {
		if e.OriginalHeader == header {
			return d.AssignField(i, fieldID)
		}
	}
	return apperrors.NewValidationError("column", fmt.Sprintf("no column named %q", header))
}

// HeaderFor returns the included column that feeds fieldID, if any
func (d *Draft) HeaderFor(fieldID uuid.UUID) (string, bool) {
	for _, e := range d.entries {
		if e.Include && e.FieldID == fieldID && e.OriginalHeader != "" {
			return e.OriginalHeader, true
		}
	}
	return "", false
}

// AutoMap assigns each field to the first unassigned column whose header
// equals the field name case-insensitively. Matched columns take the field's
// type. It returns the number of fields matched.
func (d *Draft) AutoMap(fields []models.ProjectField) int {
	matched := 0
	for _, f := range fields {
		if _, ok := d.HeaderFor(f.ID); ok {
			continue
		}
		want := spreadsheet.NormalizeHeader(f.Name)
		for i := range d.entries {
			e := &d.entries[i]
			if e.Mapped() || spreadsheet.NormalizeHeader(e.OriginalHeader) != want {
				continue
			}
			e.FieldID = f.ID
			if f.FieldType.IsValid() {
				e.FieldType = f.FieldType
			}
			matched++
			break
		}
	}
	return matched
}

// ValidateRequired checks that every required field has an included column.
// The error lists missing field names in display order.
func (d *Draft) ValidateRequired(fields []models.ProjectField) error {
	sorted := (&models.Project{Fields: fields}).SortedFields()

	var missing []string
	for _, f := range sorted {
		if !f.IsRequired {
			continue
		}
		if _, ok := d.HeaderFor(f.ID); !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFieldsError(missing)
	}
	return nil
}

// ColumnMap validates required fields and returns field id to header for
// every included column that feeds one of fields
func (d *Draft) ColumnMap(fields []models.ProjectField) (map[string]string, error) {
	if err := d.ValidateRequired(fields); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if h, ok := d.HeaderFor(f.ID); ok {
			out[f.ID.String()] = h
		}
	}
	return out, nil
}

// ValidateDefinitions checks the draft for the new-project workflow: at least
// one included column, and non-empty, distinct field names.
func (d *Draft) ValidateDefinitions() error {
	var (
		included int
		unnamed  []string
		dupes    []string
	)
	seen := make(map[string]bool)
	for _, e := range d.entries {
		if !e.Include {
			continue
		}
		included++
		if e.MappedName == "" {
			unnamed = append(unnamed, e.OriginalHeader)
			continue
		}
		key := strings.ToLower(e.MappedName)
		if seen[key] {
			dupes = append(dupes, e.MappedName)
		}
		seen[key] = true
	}

	switch {
	case included == 0:
		return apperrors.NewValidationError("columns", "include at least one column")
	case len(unnamed) > 0:
		return &apperrors.ValidationError{Message: "Please name every included column", Fields: unnamed}
	case len(dupes) > 0:
		sort.Strings(dupes)
		return &apperrors.ValidationError{Message: "Field names must be unique", Fields: dupes}
	}
	return nil
}

// FieldDefinitions derives one field per included, named column, ordered
// 0..n-1 in header order. Dropdowns carry their distinct sample values as
// options.
func (d *Draft) FieldDefinitions() []FieldDefinition {
	var out []FieldDefinition
	for _, e := range d.entries {
		if !e.Include || e.MappedName == "" {
			continue
		}
		def := FieldDefinition{
			Name:       e.MappedName,
			FieldType:  e.FieldType,
			IsRequired: e.IsRequired,
			Order:      len(out),
			Column:     e.OriginalHeader,
		}
		if e.FieldType == models.FieldTypeDropdown {
			def.Options = dropdownOptions(e)
		}
		out = append(out, def)
	}
	return out
}

func dropdownOptions(e Entry) []string {
	if len(e.Options) > 0 {
		return append([]string(nil), e.Options...)
	}
	return DistinctValues(e.SampleValues)
}

func (d *Draft) check(i int) error {
	if i < 0 || i >= len(d.entries) {
		return apperrors.NewValidationError("column", fmt.Sprintf("column %d out of range", i))
	}
	return nil
}
