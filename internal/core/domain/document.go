package domain

import "time"

// SourceFormat identifies the family of decoder used for a document.
type SourceFormat string

const (
	// FormatPDF is a PDF document.
	FormatPDF SourceFormat = "pdf"

	// FormatSpreadsheet is an xlsx or xls workbook.
	FormatSpreadsheet SourceFormat = "spreadsheet"
)

// FileType returns the display label used in metadata and summaries.
func (f SourceFormat) FileType() string {
	switch f {
	case FormatPDF:
		return "PDF"
	case FormatSpreadsheet:
		return "Excel"
	default:
		return "Unknown"
	}
}

// String returns the string representation.
func (f SourceFormat) String() string {
	return string(f)
}

// Document is a successfully parsed upload.
// It is immutable once created and replaced wholesale on the next upload.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original upload name.
	Filename string

	// Format is the decoder family that produced the text.
	Format SourceFormat

	// Raw is the original bytes.
	Raw []byte

	// Text is the normalised plain-text representation.
	Text string

	// Metadata is derived deterministically from the raw bytes.
	Metadata DocumentMetadata

	// LoadedAt is when the document was installed into the session.
	LoadedAt time.Time
}

// DocumentMetadata holds structural information and extracted metrics.
type DocumentMetadata struct {
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`

	// Pages is set for PDF documents.
	Pages int `json:"pages,omitempty"`

	// Title and Author come from the PDF info dictionary when present.
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`

	// Sheets lists sheet names in workbook order for spreadsheets.
	Sheets     []string `json:"sheets,omitempty"`
	SheetCount int      `json:"sheet_count,omitempty"`

	ExtractedMetrics ExtractedMetrics `json:"extracted_metrics"`

	// SheetMetrics is only set for spreadsheets.
	SheetMetrics SheetMetrics `json:"sheet_metrics,omitempty"`
}
