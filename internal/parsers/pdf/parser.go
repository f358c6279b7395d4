// Package pdf provides the PDF document parser.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
	"github.com/custodia-labs/finqa/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// PageMarker is the delimiter written before each page's text.
const PageMarker = "\n--- Page %d ---\n"

// Parser extracts page text from PDF documents.
type Parser struct{}

// New creates a new PDF parser.
func New() *Parser {
	return &Parser{}
}

// Format returns the decoder family.
func (p *Parser) Format() domain.SourceFormat {
	return domain.FormatPDF
}

// SupportedExtensions returns the extensions this parser handles.
func (p *Parser) SupportedExtensions() []string {
	return []string{"pdf"}
}

// Parse extracts the text of every page in order, each preceded by a
// 1-indexed page marker. Pages without content still get a marker.
func (p *Parser) Parse(ctx context.Context, raw []byte, filename string) (result *driven.ParseResult, err error) {
	// The decoder panics on some corrupt streams (e.g. zlib: invalid header).
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &domain.ParseError{Format: domain.FormatPDF, Err: fmt.Errorf("panic during PDF extraction: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, &domain.ParseError{Format: domain.FormatPDF, Err: err}
	}

	var sb strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &domain.ParseError{Format: domain.FormatPDF, Err: err}
		}

		fmt.Fprintf(&sb, PageMarker, i)

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &domain.ParseError{Format: domain.FormatPDF, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		sb.WriteString(text)
	}

	meta := domain.DocumentMetadata{
		Filename: filename,
		FileType: domain.FormatPDF.FileType(),
		FileSize: int64(len(raw)),
		Pages:    pages,
	}
	meta.Title, meta.Author = readInfo(raw)

	return &driven.ParseResult{
		Format:   domain.FormatPDF,
		Text:     sb.String(),
		Metadata: meta,
	}, nil
}

// readInfo returns the title and author from the document information
// dictionary. Any failure yields empty strings.
func readInfo(raw []byte) (title, author string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("pdf info: recovered from panic: %v", r)
			title, author = "", ""
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	info, err := api.PDFInfo(bytes.NewReader(raw), "", nil, false, conf)
	if err != nil {
		logger.Debug("pdf info: %v", err)
		return "", ""
	}
	return strings.TrimSpace(info.Title), strings.TrimSpace(info.Author)
}
