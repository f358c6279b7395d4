package parsers

import (
	"github.com/custodia-labs/finqa/internal/parsers/pdf"
	"github.com/custodia-labs/finqa/internal/parsers/spreadsheet"
)

// DefaultRegistry creates a registry with the PDF and spreadsheet parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(spreadsheet.New())
	return r
}
