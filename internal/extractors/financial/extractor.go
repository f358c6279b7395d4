// Package financial extracts keyword/value pairs, years and column
// summaries from financial documents using regular expressions.
package financial

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.MetricExtractor = (*Extractor)(nil)

// Keywords is the fixed financial vocabulary, in match order.
var Keywords = []string{
	"revenue", "income", "profit", "loss", "expenses", "cost",
	"assets", "liabilities", "equity", "cash", "flow", "balance",
	"statement", "earnings", "ebitda", "gross", "net", "operating", "total",
}

// valuePattern matches an optional currency symbol, digit groups with
// thousands separators, an optional decimal part and a magnitude suffix.
const valuePattern = `([\$€£¥]?[\d,]+\.?\d*[MmKkBb]?)`

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// Extractor is the regex-based financial metric extractor.
type Extractor struct {
	keywords []string
	patterns map[string]*regexp.Regexp
}

// New creates an extractor for the default vocabulary.
func New() *Extractor {
	return NewWithKeywords(Keywords)
}

// NewWithKeywords creates an extractor for a custom vocabulary.
// Keywords are matched case-insensitively.
func NewWithKeywords(keywords []string) *Extractor {
	e := &Extractor{
		keywords: make([]string, 0, len(keywords)),
		patterns: make(map[string]*regexp.Regexp, len(keywords)),
	}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := e.patterns[kw]; dup {
			continue
		}
		e.keywords = append(e.keywords, kw)
		e.patterns[kw] = regexp.MustCompile(fmt.Sprintf(`(?i)%s[:\s]+%s`, regexp.QuoteMeta(kw), valuePattern))
	}
	return e
}

// Keywords returns the vocabulary in match order.
func (e *Extractor) Keywords() []string {
	out := make([]string, len(e.keywords))
	copy(out, e.keywords)
	return out
}

// FromText finds keyword/value pairs and years in text.
// Keywords without matches are omitted.
func (e *Extractor) FromText(text string) domain.ExtractedMetrics {
	var metrics domain.ExtractedMetrics

	for _, kw := range e.keywords {
		matches := e.patterns[kw].FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		values := make([]string, 0, len(matches))
		for _, m := range matches {
			values = append(values, m[1])
		}
		metrics.Terms = append(metrics.Terms, domain.TermMatch{Term: kw, Values: values})
	}

	metrics.Years = extractYears(text)
	return metrics
}

// extractYears returns distinct 20xx years, most recent first.
func extractYears(text string) []string {
	found := yearPattern.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(found))
	years := make([]string, 0, len(found))
	for _, y := range found {
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// FromSheets summarises the financial columns of every sheet.
// Every sheet appears in the result, including sheets without
// financial columns.
func (e *Extractor) FromSheets(sheets []domain.Sheet) domain.SheetMetrics {
	result := make(domain.SheetMetrics, len(sheets))

	for _, sheet := range sheets {
		metric := domain.SheetMetric{
			FinancialColumns: []string{},
			Columns:          make(map[string]domain.ColumnSummary),
		}

		for _, col := range sheet.Columns {
			if !e.isFinancial(col.Name) {
				continue
			}
			metric.FinancialColumns = append(metric.FinancialColumns, col.Name)
			if col.Numeric {
				metric.Columns[col.Name] = summarise(col.Present())
			}
		}

		result[sheet.Name] = metric
	}

	return result
}

// isFinancial reports whether a column name contains any keyword.
func (e *Extractor) isFinancial(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range e.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// summarise computes sum, mean, max and min. An empty input yields zeros.
func summarise(values []float64) domain.ColumnSummary {
	if len(values) == 0 {
		return domain.ColumnSummary{}
	}
	sum := floats.Sum(values)
	return domain.ColumnSummary{
		Sum:  sum,
		Mean: sum / float64(len(values)),
		Max:  floats.Max(values),
		Min:  floats.Min(values),
	}
}
