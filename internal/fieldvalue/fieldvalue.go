// Package fieldvalue converts custom field values between their storage form
// (plain text) and a typed value keyed by the field's type.
//
// Spreadsheet cells arrive in many shapes: several date layouts, currency
// symbols and thousands separators in numbers, and assorted yes/no tokens.
// Parse normalises them; Format produces the canonical text that is stored.
package fieldvalue

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"deployment-tracker/internal/database/models"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical storage layout for date values
const DateLayout = "2006-01-02"

var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot controls how 2-digit years are read: years more than this
// many years in the future are moved to the previous century.
var TwoDigitYearPivot = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		DateLayout, "2006/01/02", "2006.01.02",
		"2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339,
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006", "January 2, 2006",
		"20060102",
	}
)

// Value is a typed custom field value. Exactly one of the payload fields is
// meaningful, selected by Type. A Value with Present=false is empty.
type Value struct {
	Type    models.FieldType
	Present bool

	Text   string
	Number decimal.Decimal
	Date   time.Time
	Bool   bool
}

// Parse reads raw text as a value of the given field type. Empty input yields
// an empty Value for every type except checkbox, which reads empty as false.
func Parse(fieldType models.FieldType, raw string) (Value, error) {
	raw = CleanCell(raw)
	v := Value{Type: fieldType}

	switch fieldType {
	case models.FieldTypeText:
		if raw == "" {
			return v, nil
		}
		v.Text, v.Present = raw, true
	case models.FieldTypeDropdown:
		if raw == "" {
			return v, nil
		}
		v.Text, v.Present = raw, true
	case models.FieldTypeNumber:
		if raw == "" {
			return v, nil
		}
		n, ok := ParseNumber(raw)
		if !ok {
			return v, fmt.Errorf("%q is not a number", raw)
		}
		v.Number, v.Present = n, true
	case models.FieldTypeDate:
		if raw == "" {
			return v, nil
		}
		t, ok := ParseDate(raw)
		if !ok {
			return v, fmt.Errorf("%q is not a date", raw)
		}
		v.Date, v.Present = t, true
	case models.FieldTypeCheckbox:
		if raw == "" {
			v.Present = true
			return v, nil
		}
		b, ok := ParseBool(raw)
		if !ok {
			return v, fmt.Errorf("%q is not a yes/no value", raw)
		}
		v.Bool, v.Present = b, true
	default:
		return v, fmt.Errorf("unknown field type %q", fieldType)
	}
	return v, nil
}

// Format renders the value in its canonical storage form
func (v Value) Format() string {
	if !v.Present {
		return ""
	}
	switch v.Type {
	case models.FieldTypeNumber:
		return v.Number.String()
	case models.FieldTypeDate:
		return v.Date.Format(DateLayout)
	case models.FieldTypeCheckbox:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return v.Text
	}
}

// IsEmpty reports whether the value carries no data
func (v Value) IsEmpty() bool {
	return !v.Present
}

// Validate checks v against a field definition: required fields must be
// present and dropdown values must be one of the options when options exist.
func Validate(field models.ProjectField, v Value) error {
	if field.IsRequired && v.IsEmpty() {
		return fmt.Errorf("%s is required", field.Name)
	}
	if field.FieldType == models.FieldTypeDropdown && v.Present && len(field.Options) > 0 {
		for _, opt := range field.Options {
			if strings.EqualFold(opt, v.Text) {
				return nil
			}
		}
		return fmt.Errorf("%q is not a valid option for %s", v.Text, field.Name)
	}
	return nil
}

// Normalize parses raw against the field and returns the storage text
func Normalize(field models.ProjectField, raw string) (string, error) {
	v, err := Parse(field.FieldType, raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field.Name, err)
	}
	if err := Validate(field, v); err != nil {
		return "", err
	}
	return v.Format(), nil
}

// ParseNumber reads a number, tolerating currency symbols, thousands
// separators and accounting-style negatives like "(12.50)".
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "\u20ac", "")
	s = strings.ReplaceAll(s, "\u00a3", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if negative {
		s = "-" + s
	}
	if !numericRegex.MatchString(s) {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseDate tries the supported layouts, four-digit years first
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseBool accepts true/false, yes/no, t/f, y/n, 1/0 and on/off
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "on", "x":
		return true, true
	case "false", "f", "no", "n", "0", "off":
		return false, true
	}
	return false, false
}

// CleanCell trims whitespace and strips spreadsheet artifacts such as a
// leading BOM or an Excel formula wrapper (="value").
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
