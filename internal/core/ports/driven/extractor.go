package driven

import "github.com/custodia-labs/finqa/internal/core/domain"

// MetricExtractor derives financial metrics from parsed content.
// Both methods are pure so the heuristics can be swapped for a stricter
// implementation without touching prompt or inference logic.
type MetricExtractor interface {
	// FromText finds keyword/value pairs and years in normalised text.
	FromText(text string) domain.ExtractedMetrics

	// FromSheets summarises the financial columns of every sheet.
	FromSheets(sheets []domain.Sheet) domain.SheetMetrics
}
