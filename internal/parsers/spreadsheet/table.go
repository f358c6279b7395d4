package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

const missing = "NaN"

// buildSheet turns decoded rows into header-labelled columns and infers
// which columns are numeric. A column is numeric when it has data rows
// and every non-blank cell parses as a number.
func buildSheet(name string, rows [][]string) domain.Sheet {
	sheet := domain.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := columnNames(rows[0], width)
	data := rows[1:]

	for c, header := range headers {
		col := domain.Column{
			Name:  header,
			Cells: make([]string, len(data)),
		}
		for r, row := range data {
			if c < len(row) {
				col.Cells[r] = row[c]
			}
		}
		col.Numeric, col.Values = parseNumbers(col.Cells)
		sheet.Columns = append(sheet.Columns, col)
	}

	return sheet
}

// columnNames labels blank headers "Unnamed: i" and suffixes duplicates
// with ".1", ".2" and so on.
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// parseNumbers reports whether cells form a numeric column and, if so,
// returns their values with NaN for blanks.
func parseNumbers(cells []string) (bool, []float64) {
	if len(cells) == 0 {
		return false, nil
	}

	values := make([]float64, len(cells))
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return false, nil
		}
		values[i] = v
	}
	return true, values
}

// renderSheet renders a sheet as a right-aligned plain-text table.
func renderSheet(sheet domain.Sheet) string {
	if len(sheet.Columns) == 0 || sheet.Rows() == 0 {
		names := make([]string, 0, len(sheet.Columns))
		for _, c := range sheet.Columns {
			names = append(names, c.Name)
		}
		return fmt.Sprintf("Empty DataFrame\nColumns: [%s]\nIndex: []", strings.Join(names, ", "))
	}

	columns := make([][]string, 0, len(sheet.Columns))
	for _, col := range sheet.Columns {
		var cells []string
		if col.Numeric {
			cells = formatColumn(col.Values)
		} else {
			cells = make([]string, len(col.Cells))
			for i, cell := range col.Cells {
				if strings.TrimSpace(cell) == "" {
					cell = missing
				}
				cells[i] = cell
			}
		}
		columns = append(columns, append([]string{col.Name}, cells...))
	}

	return joinColumns(nil, columns, " ")
}

// joinColumns lays out columns side by side. The optional index column
// is left-aligned; every other column is right-aligned.
func joinColumns(index []string, columns [][]string, sep string) string {
	rows := len(index)
	for _, col := range columns {
		if len(col) > rows {
			rows = len(col)
		}
	}

	indexWidth := maxWidth(index)
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = maxWidth(col)
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		parts := make([]string, 0, len(columns)+1)
		if index != nil {
			parts = append(parts, padRight(cellAt(index, r), indexWidth))
		}
		for c, col := range columns {
			parts = append(parts, padLeft(cellAt(col, r), widths[c]))
		}
		lines[r] = strings.Join(parts, sep)
	}
	return strings.Join(lines, "\n")
}

// formatColumn renders numeric values. Whole numbers without blanks are
// printed as integers; otherwise all values share the fewest decimals
// (at least one, at most six) that represent every value.
func formatColumn(values []float64) []string {
	integral := true
	for _, v := range values {
		if math.IsNaN(v) || v != math.Trunc(v) || math.Abs(v) >= 1e15 {
			integral = false
			break
		}
	}

	out := make([]string, len(values))
	if integral {
		for i, v := range values {
			out[i] = strconv.FormatFloat(v, 'f', 0, 64)
		}
		return out
	}

	decimals := commonDecimals(values)
	for i, v := range values {
		out[i] = formatFloat(v, decimals)
	}
	return out
}

func commonDecimals(values []float64) int {
	decimals := 1
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		s := strings.TrimRight(strconv.FormatFloat(v, 'f', 6, 64), "0")
		if dot := strings.IndexByte(s, '.'); dot >= 0 {
			if d := len(s) - dot - 1; d > decimals {
				decimals = d
			}
		}
	}
	return decimals
}

func formatFloat(v float64, decimals int) string {
	switch {
	case math.IsNaN(v):
		return missing
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func cellAt(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}

func maxWidth(cells []string) int {
	w := 0
	for _, c := range cells {
		if n := utf8.RuneCountInString(c); n > w {
			w = n
		}
	}
	return w
}

func padLeft(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
