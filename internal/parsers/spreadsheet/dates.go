package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// builtinDateFormats are the built-in number format IDs that display a
// date or a time.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// isDateFormat reports whether a custom number format code displays a
// date or a time. Quoted literals, bracketed sections and escaped
// characters are ignored.
func isDateFormat(code string) bool {
	var (
		inQuote   bool
		inBracket bool
		escaped   bool
	)
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'y' || r == 'd' || r == 'h':
			return true
		}
	}
	return false
}

// dateCells converts date-formatted serial numbers to ISO dates in place.
type dateCells struct {
	f        *excelize.File
	date1904 bool
	styles   map[int]bool
}

func newDateCells(f *excelize.File) *dateCells {
	d := &dateCells{f: f, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// apply rewrites every numeric cell of rows whose style is a date format.
func (d *dateCells) apply(sheet string, rows [][]string) {
	for r, row := range rows {
		for c, cell := range row {
			serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil || !d.isDate(sheet, name) {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, d.date1904)
			if err != nil {
				continue
			}
			row[c] = formatDate(t)
		}
	}
}

func (d *dateCells) isDate(sheet, cell string) bool {
	idx, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if date, ok := d.styles[idx]; ok {
		return date
	}

	date := false
	if style, err := d.f.GetStyle(idx); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			date = isDateFormat(*style.CustomNumFmt)
		} else {
			date = builtinDateFormats[style.NumFmt]
		}
	}
	d.styles[idx] = date
	return date
}

// formatDate drops the clock when it is midnight.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}
