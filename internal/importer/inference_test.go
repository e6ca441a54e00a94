package importer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/spreadsheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestInferColumn(t *testing.T) {
	repeat := func(values []string, times int) []string {
		var out []string
		for i := 0; i < times; i++ {
			out = append(out, values...)
		}
		return out
	}

	tests := []struct {
		name    string
		values  []string
		want    models.FieldType
		options []string
	}{
		{"empty column", []string{"", " ", ""}, models.FieldTypeText, nil},
		{"integers", []string{"30", "41", "", "7"}, models.FieldTypeNumber, nil},
		{"currency", []string{"$1,200.00", "(15.00)"}, models.FieldTypeNumber, nil},
		{"iso dates", []string{"2024-01-05", "2024-02-10"}, models.FieldTypeDate, nil},
		{"mixed date layouts", []string{"2024-01-05", "1/7/2024"}, models.FieldTypeDate, nil},
		{"booleans", []string{"Yes", "no", "TRUE"}, models.FieldTypeCheckbox, nil},
		{"zeros and ones are numbers", []string{"1", "0", "1"}, models.FieldTypeNumber, nil},
		{"free text", []string{"Alice", "Bob", "Carol"}, models.FieldTypeText, nil},
		{"repeated labels", repeat([]string{"HQ", "Annex"}, 10), models.FieldTypeDropdown, []string{"HQ", "Annex"}},
		{"too many distinct", repeat([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}, 10), models.FieldTypeText, nil},
		{"ratio too high", []string{"HQ", "Annex", "HQ", "Annex", "HQ"}, models.FieldTypeText, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			col := InferColumn("Col", tc.values)
			assert.Equal(t, tc.want, col.FieldType)
			assert.Equal(t, tc.options, col.Options)
		})
	}
}

func TestInferColumnSamples(t *testing.T) {
	values := []string{"", "a", "b", "", "c", "d", "e", "f", "g"}
	col := InferColumn("Letters", values)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, col.SampleValues)

	empty := InferColumn("Nothing", nil)
	assert.NotNil(t, empty.SampleValues)
	assert.Empty(t, empty.SampleValues)
}

func TestInferColumnsFollowsHeaderOrder(t *testing.T) {
	sheet, err := spreadsheet.Read("people.csv", []byte("Name,Age,Signup Date\nAlice,30,2024-01-05\n"))
	require.NoError(t, err)

	cols := InferColumns(sheet)
	require.Len(t, cols, 3)
	assert.Equal(t, "Name", cols[0].Name)
	assert.Equal(t, models.FieldTypeText, cols[0].FieldType)
	assert.Equal(t, models.FieldTypeNumber, cols[1].FieldType)
	assert.Equal(t, models.FieldTypeDate, cols[2].FieldType)
}

func TestLocalAnalyzer(t *testing.T) {
	var b []byte
	b = append(b, "Site,Qty\n"...)
	for i := 0; i < 12; i++ {
		b = append(b, fmt.Sprintf("HQ,%d\n", i)...)
	}

	analysis, err := LocalAnalyzer{}.Analyze(context.Background(), Upload{Filename: "s.csv", Data: b})
	require.NoError(t, err)
	assert.Equal(t, 12, analysis.RowCount)
	assert.Equal(t, models.FieldTypeDropdown, analysis.Columns[0].FieldType)
	assert.Equal(t, []string{"HQ"}, analysis.Columns[0].Options)
	assert.Equal(t, models.FieldTypeNumber, analysis.Columns[1].FieldType)

	_, err = LocalAnalyzer{}.Analyze(context.Background(), Upload{Filename: "s.txt", Data: []byte("x")})
	assert.True(t, apperrors.IsParse(err))
}

func TestLocalAnalyzerWorkbookDates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Serial", "Deployment Date"}))
	for i := 0; i < 3; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		row := []interface{}{fmt.Sprintf("SN-%d", i), time.Date(2024, 1, 2+i, 0, 0, 0, 0, time.UTC)}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	analysis, err := LocalAnalyzer{}.Analyze(context.Background(), Upload{Filename: "d.xlsx", Data: buf.Bytes()})
	require.NoError(t, err)
	require.Len(t, analysis.Columns, 2)
	assert.Equal(t, models.FieldTypeDate, analysis.Columns[1].FieldType)
	assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04"}, analysis.Columns[1].SampleValues)
}

func TestDistinctValuesKeepsFirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, DistinctValues([]string{"b", "a", "b", "c", "a"}))
	assert.Nil(t, DistinctValues(nil))
}
