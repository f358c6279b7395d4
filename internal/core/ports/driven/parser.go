package driven

import (
	"context"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

// Parser decodes one family of document formats into plain text.
// Parsing is a pure function of the bytes and the filename.
type Parser interface {
	// Format returns the decoder family this parser implements.
	Format() domain.SourceFormat

	// SupportedExtensions returns the lower-cased extensions, without dots.
	SupportedExtensions() []string

	// Parse decodes raw bytes. Decoder failures are returned as *domain.ParseError.
	Parse(ctx context.Context, raw []byte, filename string) (*ParseResult, error)
}

// ParseResult contains the output of parsing.
// Metric extraction happens after parsing and fills the metric fields of Metadata.
type ParseResult struct {
	// Format is the decoder family that produced the result.
	Format domain.SourceFormat

	// Text is the normalised plain-text representation.
	Text string

	// Metadata holds structural information. Metric fields are empty.
	Metadata domain.DocumentMetadata

	// Sheets is the decoded tabular form, set for spreadsheets only.
	Sheets []domain.Sheet
}

// ParserRegistry selects the parser for an upload by its extension.
type ParserRegistry interface {
	// Parse decodes raw bytes with the parser registered for the filename's
	// extension. Unknown extensions fail with domain.ErrUnsupportedFormat.
	Parse(ctx context.Context, raw []byte, filename string) (*ParseResult, error)

	// Register adds a parser to the registry.
	Register(parser Parser)

	// SupportedExtensions returns all extensions that can be parsed.
	SupportedExtensions() []string
}
