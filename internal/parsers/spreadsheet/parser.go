// Package spreadsheet provides the xlsx and xls workbook parser.
package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Markers written around each sheet.
const (
	SheetMarker   = "\n--- Sheet: %s ---\n"
	SummaryHeader = "Numerical Summary for %s:\n"
)

// rawSheet is a decoded sheet before header and type inference.
type rawSheet struct {
	name string
	rows [][]string
}

// Parser renders every sheet of a workbook as text. The first row of
// each sheet is the header row.
type Parser struct{}

// New creates a new spreadsheet parser.
func New() *Parser {
	return &Parser{}
}

// Format returns the decoder family.
func (p *Parser) Format() domain.SourceFormat {
	return domain.FormatSpreadsheet
}

// SupportedExtensions returns the extensions this parser handles.
func (p *Parser) SupportedExtensions() []string {
	return []string{"xlsx", "xls"}
}

// Parse decodes every sheet in workbook order. Each sheet is rendered as
// a marker, the table and, when the sheet has numeric columns, a
// descriptive summary of them.
func (p *Parser) Parse(ctx context.Context, raw []byte, filename string) (result *driven.ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &domain.ParseError{Format: domain.FormatSpreadsheet, Err: fmt.Errorf("panic during workbook decoding: %v", r)}
		}
	}()

	var raws []rawSheet
	switch ext := domain.FileExtension(filename); ext {
	case "xls":
		raws, err = readXLS(raw)
	default:
		raws, err = readXLSX(raw)
	}
	if err != nil {
		return nil, &domain.ParseError{Format: domain.FormatSpreadsheet, Err: err}
	}

	var sb strings.Builder
	sheets := make([]domain.Sheet, 0, len(raws))
	names := make([]string, 0, len(raws))

	for _, rs := range raws {
		if err := ctx.Err(); err != nil {
			return nil, &domain.ParseError{Format: domain.FormatSpreadsheet, Err: err}
		}

		sheet := buildSheet(rs.name, rs.rows)
		sheets = append(sheets, sheet)
		names = append(names, sheet.Name)

		fmt.Fprintf(&sb, SheetMarker, sheet.Name)
		sb.WriteString(renderSheet(sheet))
		sb.WriteString("\n\n")

		if numeric := sheet.NumericColumns(); len(numeric) > 0 {
			fmt.Fprintf(&sb, SummaryHeader, sheet.Name)
			sb.WriteString(renderDescribe(numeric))
			sb.WriteString("\n\n")
		}
	}

	return &driven.ParseResult{
		Format: domain.FormatSpreadsheet,
		Text:   sb.String(),
		Metadata: domain.DocumentMetadata{
			Filename:   filename,
			FileType:   domain.FormatSpreadsheet.FileType(),
			FileSize:   int64(len(raw)),
			Sheets:     names,
			SheetCount: len(names),
		},
		Sheets: sheets,
	}, nil
}

// readXLSX decodes an Office Open XML workbook using raw cell values,
// so number formats do not leak into type inference. Date-formatted
// cells are the exception and come back as ISO dates.
func readXLSX(raw []byte) ([]rawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	dates := newDateCells(f)
	list := f.GetSheetList()
	out := make([]rawSheet, 0, len(list))
	for _, name := range list {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		dates.apply(name, rows)
		out = append(out, rawSheet{name: name, rows: rows})
	}
	return out, nil
}

// readXLS decodes a legacy BIFF workbook.
func readXLS(raw []byte) ([]rawSheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(raw), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	out := make([]rawSheet, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}

		var rows [][]string
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			// LastCol is one past the last used column.
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		out = append(out, rawSheet{name: ws.Name, rows: trimTrailingEmpty(rows)})
	}
	return out, nil
}

// trimTrailingEmpty drops empty rows at the end of a sheet.
func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
