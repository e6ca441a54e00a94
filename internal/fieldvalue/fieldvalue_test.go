package fieldvalue

import (
	"testing"
	"time"

	"deployment-tracker/internal/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndFormat(t *testing.T) {
	tests := []struct {
		name      string
		fieldType models.FieldType
		raw       string
		want      string
		wantErr   bool
	}{
		{"text trimmed", models.FieldTypeText, "  Dell Latitude ", "Dell Latitude", false},
		{"text empty", models.FieldTypeText, "", "", false},
		{"dropdown", models.FieldTypeDropdown, "Floor 2", "Floor 2", false},
		{"number plain", models.FieldTypeNumber, "30", "30", false},
		{"number currency", models.FieldTypeNumber, "$1,234.50", "1234.5", false},
		{"number accounting negative", models.FieldTypeNumber, "(12.50)", "-12.5", false},
		{"number invalid", models.FieldTypeNumber, "thirty", "", true},
		{"date iso", models.FieldTypeDate, "2024-01-05", "2024-01-05", false},
		{"date us", models.FieldTypeDate, "1/5/2024", "2024-01-05", false},
		{"date with time", models.FieldTypeDate, "2024-01-05 10:30:00", "2024-01-05", false},
		{"date invalid", models.FieldTypeDate, "next tuesday", "", true},
		{"checkbox yes", models.FieldTypeCheckbox, "Yes", "true", false},
		{"checkbox zero", models.FieldTypeCheckbox, "0", "false", false},
		{"checkbox empty is false", models.FieldTypeCheckbox, "", "false", false},
		{"checkbox invalid", models.FieldTypeCheckbox, "maybe", "", true},
		{"formula wrapper", models.FieldTypeText, `="00123"`, "00123", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Parse(tc.fieldType, tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.Format())
		})
	}
}

func TestParseUnknownType(t *testing.T) {
	_, err := Parse(models.FieldType("rating"), "5")
	assert.Error(t, err)
}

func TestCheckboxIsABoolean(t *testing.T) {
	v, err := Parse(models.FieldTypeCheckbox, "true")
	require.NoError(t, err)
	assert.True(t, v.Bool)
	assert.Empty(t, v.Text)
}

func TestParseDateTwoDigitYear(t *testing.T) {
	d, ok := ParseDate("1/5/24")
	require.True(t, ok)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.January, d.Month())

	d, ok = ParseDate("1/5/99")
	require.True(t, ok)
	assert.Equal(t, 1999, d.Year())
}

func TestValidate(t *testing.T) {
	required := models.ProjectField{Name: "Serial", FieldType: models.FieldTypeText, IsRequired: true}
	_, err := Normalize(required, "")
	assert.EqualError(t, err, "Serial is required")

	out, err := Normalize(required, "SN-1")
	require.NoError(t, err)
	assert.Equal(t, "SN-1", out)

	dropdown := models.ProjectField{Name: "Floor", FieldType: models.FieldTypeDropdown, Options: []string{"1", "2"}}
	_, err = Normalize(dropdown, "3")
	assert.Error(t, err)
	out, err = Normalize(dropdown, "2")
	require.NoError(t, err)
	assert.Equal(t, "2", out)

	openDropdown := models.ProjectField{Name: "Floor", FieldType: models.FieldTypeDropdown}
	out, err = Normalize(openDropdown, "Mezzanine")
	require.NoError(t, err)
	assert.Equal(t, "Mezzanine", out)

	number := models.ProjectField{Name: "Qty", FieldType: models.FieldTypeNumber}
	_, err = Normalize(number, "lots")
	assert.ErrorContains(t, err, "Qty")
}
