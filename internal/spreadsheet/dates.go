package spreadsheet

import (
	"strconv"
	"strings"

	"deployment-tracker/internal/fieldvalue"

	"github.com/xuri/excelize/v2"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// dateCells recognises workbook cells whose number format renders a date
// and turns their serial value into a layout fieldvalue parses. Style
// lookups are cached per style index.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// convert returns the date text for the cell at col, row when its style is
// a date format and raw is a serial number
func (d *dateCells) convert(col, row int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	idx, err := d.f.GetCellStyle(d.sheet, axis)
	if err != nil || !d.isDateStyle(idx) {
		return "", false
	}

	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", false
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(fieldvalue.DateLayout), true
	}
	return t.Format(dateTimeLayout), true
}

func (d *dateCells) isDateStyle(idx int) bool {
	if known, ok := d.styles[idx]; ok {
		return known
	}
	isDate := false
	if style, err := d.f.GetStyle(idx); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt)
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	d.styles[idx] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in number format shows a calendar
// date. Time-only formats are left to excelize's own rendering.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for year or day tokens outside quoted literals,
// escapes and bracketed sections of a custom format code
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		case ch == 'y' || ch == 'Y' || ch == 'd' || ch == 'D':
			return true
		}
	}
	return false
}
