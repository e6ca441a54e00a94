package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/fieldvalue"

	"github.com/xuri/excelize/v2"
)

// Format identifies a supported spreadsheet encoding
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var zipMagic = []byte("PK\x03\x04")

// DetectFormat picks the decoder from the file name, falling back to the
// content's magic bytes when the name has no known extension.
func DetectFormat(filename string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	if bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX, nil
	}
	return "", apperrors.ErrUnsupportedFormat
}

// Read decodes data into a Sheet. Only the first worksheet of a workbook is
// read. Blank rows are dropped and short rows are padded to the header width.
// Date formatted workbook cells come back as fieldvalue.DateLayout, or with
// a time of day when they carry one.
func Read(filename string, data []byte) (*Sheet, error) {
	if len(data) == 0 {
		return nil, apperrors.ErrEmptySpreadsheet
	}

	format, err := DetectFormat(filename, data)
	if err != nil {
		return nil, err
	}

	var (
		name  string
		lines []line
	)
	switch format {
	case FormatXLSX:
		name, lines, err = readXLSX(data)
	case FormatCSV:
		name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		lines, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return build(name, lines)
}

// line is one decoded row and its 1-based position in the source file
type line struct {
	number int
	cells  []string
}

func readXLSX(data []byte) (string, []line, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, apperrors.NewParseError("could not open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, apperrors.ErrEmptySpreadsheet
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, apperrors.NewParseError(fmt.Sprintf("could not read sheet %q", sheet), err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, apperrors.NewParseError(fmt.Sprintf("could not read sheet %q", sheet), err)
	}

	dates := newDateCells(f, sheet)
	lines := make([]line, len(rows))
	for r, row := range rows {
		for c := range row {
			if r < len(raw) && c < len(raw[r]) && raw[r][c] != row[c] {
				if v, ok := dates.convert(c+1, r+1, raw[r][c]); ok {
					row[c] = v
				}
			}
		}
		lines[r] = line{number: r + 1, cells: row}
	}
	return sheet, lines, nil
}

// readCSV reads record by record so each row keeps its source line number;
// encoding/csv skips empty lines silently.
func readCSV(data []byte) ([]line, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var lines []line
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParseError("could not parse csv", err)
		}
		number, _ := r.FieldPos(0)
		lines = append(lines, line{number: number, cells: record})
	}
	return lines, nil
}

func build(name string, lines []line) (*Sheet, error) {
	var rows []line
	for _, l := range lines {
		if isBlank(l.cells) {
			continue
		}
		rows = append(rows, l)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptySpreadsheet
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row.cells))
	}

	headers := uniqueHeaders(pad(rows[0].cells, width))
	data := make([][]string, 0, len(rows)-1)
	numbers := make([]int, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := pad(row.cells, width)
		for i := range padded {
			padded[i] = fieldvalue.CleanCell(padded[i])
		}
		data = append(data, padded)
		numbers = append(numbers, row.number)
	}

	return &Sheet{Name: name, Headers: headers, Rows: data, RowNumbers: numbers}, nil
}
func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// uniqueHeaders trims header cells, names empty ones by position and
// suffixes repeats so every header is distinct.
func uniqueHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = fieldvalue.CleanCell(h)
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		key := NormalizeHeader(h)
		if n := seen[key]; n > 0 {
			h = fmt.Sprintf("%s (%d)", h, n+1)
		}
		seen[key]++
		out[i] = h
	}
	return out
}
