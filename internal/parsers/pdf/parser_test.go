package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
)

// buildPDF writes a minimal PDF with one text line per page and a
// correct cross-reference table.
func buildPDF(pages ...string) []byte {
	var objects []string

	// 1: catalog, 2: pages tree, 3: font, then a page and a content stream per page.
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+i*2))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+i*2),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.IsType(t, &Parser{}, parser)
	assert.Equal(t, domain.FormatPDF, parser.Format())
	assert.Equal(t, []string{"pdf"}, parser.SupportedExtensions())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Parser = (*Parser)(nil)
}

func TestParse_PageMarkers(t *testing.T) {
	raw := buildPDF("Revenue: 1000", "Expenses: 400")

	result, err := New().Parse(context.Background(), raw, "report.pdf")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Text, "\n--- Page 1 ---\n"))
	first := strings.Index(result.Text, "--- Page 1 ---")
	second := strings.Index(result.Text, "--- Page 2 ---")
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)

	page1 := result.Text[first:second]
	assert.Contains(t, page1, "Revenue: 1000")
	assert.Contains(t, result.Text[second:], "Expenses: 400")
}

func TestParse_Metadata(t *testing.T) {
	raw := buildPDF("a", "b", "c")

	result, err := New().Parse(context.Background(), raw, "q3.pdf")
	require.NoError(t, err)

	assert.Equal(t, "q3.pdf", result.Metadata.Filename)
	assert.Equal(t, "PDF", result.Metadata.FileType)
	assert.Equal(t, int64(len(raw)), result.Metadata.FileSize)
	assert.Equal(t, 3, result.Metadata.Pages)
	assert.Empty(t, result.Metadata.Sheets)
	assert.Nil(t, result.Sheets)
}

func TestParse_Idempotent(t *testing.T) {
	raw := buildPDF("Net income: 250", "Total assets: 9,000")
	parser := New()

	first, err := parser.Parse(context.Background(), raw, "r.pdf")
	require.NoError(t, err)
	second, err := parser.Parse(context.Background(), raw, "r.pdf")
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Metadata, second.Metadata)
}

func TestParse_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", []byte{}},
		{"not a pdf", []byte("this is plain text, not a PDF")},
		{"truncated", buildPDF("hello")[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Parse(context.Background(), tt.raw, "bad.pdf")
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, domain.ErrParse)

			var parseErr *domain.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, domain.FormatPDF, parseErr.Format)
			assert.True(t, strings.HasPrefix(err.Error(), "PDF processing error: "))
		})
	}
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Parse(ctx, buildPDF("x"), "x.pdf")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrParse)

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, domain.FormatPDF, parseErr.Format)
}

func TestReadInfo_Garbage(t *testing.T) {
	title, author := readInfo([]byte("garbage"))
	assert.Empty(t, title)
	assert.Empty(t, author)
}
