package importer

import (
	"context"
	"strings"

	"deployment-tracker/internal/database/models"
	"deployment-tracker/internal/fieldvalue"
	"deployment-tracker/internal/spreadsheet"
)

const (
	// SampleSize is the number of non-empty values kept per column
	SampleSize = 5

	dropdownMaxDistinct = 10
	dropdownMaxRatio    = 0.2
)

// InferColumns guesses a field type for every column of sheet
func InferColumns(sheet *spreadsheet.Sheet) []ColumnAnalysis {
	out := make([]ColumnAnalysis, len(sheet.Headers))
	for i, h := range sheet.Headers {
		out[i] = InferColumn(h, sheet.Column(i))
	}
	return out
}

// InferColumn guesses the type of a single column from its values.
// Empty columns are text. A column is a number, date or checkbox when every
// non-empty value parses as one, tried in that order. Other columns are text,
// or dropdown when few distinct values repeat often.
func InferColumn(name string, values []string) ColumnAnalysis {
	col := ColumnAnalysis{Name: name, FieldType: models.FieldTypeText, SampleValues: []string{}}

	var nonEmpty []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			nonEmpty = append(nonEmpty, v)
		}
	}
	if len(nonEmpty) == 0 {
		return col
	}
	col.SampleValues = append(col.SampleValues, nonEmpty[:min(SampleSize, len(nonEmpty))]...)

	switch {
	case all(nonEmpty, isNumber):
		col.FieldType = models.FieldTypeNumber
	case all(nonEmpty, isDate):
		col.FieldType = models.FieldTypeDate
	case all(nonEmpty, isBooleanToken):
		col.FieldType = models.FieldTypeCheckbox
	default:
		distinct := DistinctValues(nonEmpty)
		if len(distinct) <= dropdownMaxDistinct &&
			float64(len(distinct))/float64(len(nonEmpty)) < dropdownMaxRatio {
			col.FieldType = models.FieldTypeDropdown
			col.Options = distinct
		}
	}
	return col
}

// LocalAnalyzer infers column types in-process
type LocalAnalyzer struct{}

// Analyze decodes the upload and infers every column
func (LocalAnalyzer) Analyze(_ context.Context, file Upload) (*Analysis, error) {
	sheet, err := spreadsheet.Read(file.Filename, file.Data)
	if err != nil {
		return nil, err
	}
	return &Analysis{Columns: InferColumns(sheet), RowCount: sheet.RowCount()}, nil
}

func all(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	_, ok := fieldvalue.ParseNumber(s)
	return ok
}

func isDate(s string) bool {
	_, ok := fieldvalue.ParseDate(s)
	return ok
}

func isBooleanToken(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

// DistinctValues returns values without repeats, in first-seen order
func DistinctValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
