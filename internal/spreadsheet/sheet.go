// Package spreadsheet decodes uploaded workbooks into a header row plus data
// rows and writes xlsx files for templates and exports.
package spreadsheet

import (
	"strings"
)

// PreviewRowLimit is the number of data rows shown in a preview
const PreviewRowLimit = 5

// Sheet is the decoded first worksheet of an upload. Every row has exactly
// len(Headers) cells.
type Sheet struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`

	// RowNumbers holds the 1-based source line of each data row
	RowNumbers []int `json:"-"`
}

// Preview is a display-only slice of a sheet
type Preview struct {
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

// RowCount returns the number of data rows
func (s *Sheet) RowCount() int {
	return len(s.Rows)
}

// RowNumber returns the source line of data row i. Sheets built without
// line numbers assume a header on line 1 and no blank lines.
func (s *Sheet) RowNumber(i int) int {
	if i >= 0 && i < len(s.RowNumbers) {
		return s.RowNumbers[i]
	}
	return i + 2
}

// Preview returns the full header row and at most limit data rows.
// A non-positive limit means PreviewRowLimit.
func (s *Sheet) Preview(limit int) Preview {
	if limit <= 0 {
		limit = PreviewRowLimit
	}
	n := min(limit, len(s.Rows))
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = append([]string(nil), s.Rows[i]...)
	}
	return Preview{
		Headers:   append([]string(nil), s.Headers...),
		Rows:      rows,
		TotalRows: len(s.Rows),
	}
}

// Column returns every value of column i in row order
func (s *Sheet) Column(i int) []string {
	if i < 0 || i >= len(s.Headers) {
		return nil
	}
	out := make([]string, len(s.Rows))
	for r, row := range s.Rows {
		out[r] = row[i]
	}
	return out
}

// HeaderIndex maps lowercased, trimmed header names to column positions.
// The first occurrence wins.
func (s *Sheet) HeaderIndex() HeaderIndex {
	idx := make(HeaderIndex, len(s.Headers))
	for i, h := range s.Headers {
		key := NormalizeHeader(h)
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// HeaderIndex looks up columns by case-insensitive header name
type HeaderIndex map[string]int

// Lookup returns the column position of name
func (h HeaderIndex) Lookup(name string) (int, bool) {
	i, ok := h[NormalizeHeader(name)]
	return i, ok
}

// First returns the position of the first alias present in the index
func (h HeaderIndex) First(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := h.Lookup(a); ok {
			return i, true
		}
	}
	return 0, false
}

// NormalizeHeader is the key used for case-insensitive header matching
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
