package domain

import (
	"encoding/json"
	"math"
)

// YearsKey is the reserved key under which years appear in serialised metrics.
const YearsKey = "years"

// TermMatch holds the raw value strings found next to one keyword, in
// the order they appear in the text.
type TermMatch struct {
	Term   string
	Values []string
}

// ExtractedMetrics lists the keyword/value matches found in a document's
// text, in vocabulary order.
//
// A keyword without matches is absent from Terms; it never appears with
// an empty Values slice. Years holds distinct 20xx years, most recent first.
type ExtractedMetrics struct {
	Terms []TermMatch
	Years []string
}

// Values returns the matches for a keyword.
func (m ExtractedMetrics) Values(term string) ([]string, bool) {
	for _, t := range m.Terms {
		if t.Term == term {
			return t.Values, true
		}
	}
	return nil, false
}

// IsEmpty returns true when neither terms nor years were found.
func (m ExtractedMetrics) IsEmpty() bool {
	return len(m.Terms) == 0 && len(m.Years) == 0
}

// MarshalJSON flattens terms and years into a single object, e.g.
// {"revenue": ["$1,200,000"], "years": ["2023", "2022"]}.
func (m ExtractedMetrics) MarshalJSON() ([]byte, error) {
	flat := make(map[string][]string, len(m.Terms)+1)
	for _, t := range m.Terms {
		flat[t.Term] = t.Values
	}
	if len(m.Years) > 0 {
		flat[YearsKey] = m.Years
	}
	return json.Marshal(flat)
}

// ColumnSummary holds the numeric summary of one financial column.
type ColumnSummary struct {
	Sum  float64 `json:"sum"`
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

// SheetMetric describes the financial columns of one sheet.
//
// FinancialColumns lists every column whose name contains a vocabulary
// keyword. Columns only has entries for the numeric ones among them.
type SheetMetric struct {
	FinancialColumns []string                 `json:"financial_columns"`
	Columns          map[string]ColumnSummary `json:"columns"`
}

// SheetMetrics maps sheet name to its metrics. Every sheet of the
// workbook is present, including sheets without financial columns.
type SheetMetrics map[string]SheetMetric

// Sheet is the decoded tabular form of one workbook sheet.
type Sheet struct {
	Name    string
	Columns []Column
}

// Column is one header-labelled column of a sheet.
type Column struct {
	// Name is the header cell.
	Name string

	// Cells holds the raw cell text, one per data row.
	Cells []string

	// Numeric is true when every non-empty cell parses as a number.
	// A column with no values at all is numeric.
	Numeric bool

	// Values holds the parsed numbers for numeric columns, NaN for blanks.
	Values []float64
}

// Present returns the non-missing values of a numeric column.
func (c Column) Present() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Rows returns the number of data rows in the sheet.
func (s Sheet) Rows() int {
	n := 0
	for _, c := range s.Columns {
		if len(c.Cells) > n {
			n = len(c.Cells)
		}
	}
	return n
}

// NumericColumns returns the numeric columns in sheet order.
func (s Sheet) NumericColumns() []Column {
	var out []Column
	for _, c := range s.Columns {
		if c.Numeric {
			out = append(out, c)
		}
	}
	return out
}
