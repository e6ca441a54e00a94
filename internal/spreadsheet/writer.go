package spreadsheet

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of files produced by this package
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultColumnWidth = 18

// WriteTemplate returns an xlsx workbook containing only a header row
func WriteTemplate(sheetName string, headers []string) ([]byte, error) {
	return WriteRows(sheetName, headers, nil)
}

// WriteRows returns an xlsx workbook with a bold header row followed by rows
func WriteRows(sheetName string, headers []string, rows [][]string) ([]byte, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("at least one header is required")
	}
	sheetName = SheetName(sheetName)

	f := excelize.NewFile()
	defer f.Close()

	if current := f.GetSheetName(0); current != sheetName {
		if err := f.SetSheetName(current, sheetName); err != nil {
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, defaultColumnWidth); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SheetName makes name safe for use as a worksheet title: no reserved
// characters and at most 31 characters.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		return "Sheet1"
	}
	if utf8.RuneCountInString(name) > 31 {
		name = string([]rune(name)[:31])
	}
	return name
}
