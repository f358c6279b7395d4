package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
	"github.com/custodia-labs/finqa/internal/core/ports/driving"
	"github.com/custodia-labs/finqa/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// MaxSampleQuestions caps SampleQuestions.
const MaxSampleQuestions = 8

// baseQuestions are suggested for every document.
var baseQuestions = []string{
	"What is the total revenue for the latest period?",
	"What are the main expense categories?",
	"What is the net profit/loss?",
	"How has performance changed compared to the previous period?",
	"What are the key financial highlights?",
}

// DocumentService loads uploads into the session and describes them.
type DocumentService struct {
	session   *Session
	parsers   driven.ParserRegistry
	extractor driven.MetricExtractor
	validator *UploadValidator
	now       func() time.Time
}

// NewDocumentService creates a document service.
// A nil validator uses the default size limit.
func NewDocumentService(
	session *Session,
	parsers driven.ParserRegistry,
	extractor driven.MetricExtractor,
	validator *UploadValidator,
) *DocumentService {
	if validator == nil {
		validator = NewUploadValidator(0)
	}
	return &DocumentService{
		session:   session,
		parsers:   parsers,
		extractor: extractor,
		validator: validator,
		now:       time.Now,
	}
}

// Validate runs the pre-parse checks on an upload.
func (s *DocumentService) Validate(upload domain.Upload) error {
	return s.validator.Validate(upload)
}

// Load validates, parses and extracts metrics from an upload, then
// installs the document, clearing the conversation.
// Failures leave the current document in place.
func (s *DocumentService) Load(ctx context.Context, upload domain.Upload) (*domain.Document, error) {
	if err := s.Validate(upload); err != nil {
		return nil, err
	}

	done := logger.Timed("load " + upload.Name)
	result, err := s.parsers.Parse(ctx, upload.Content, upload.Name)
	done()
	if err != nil {
		return nil, err
	}

	meta := result.Metadata
	switch result.Format {
	case domain.FormatSpreadsheet:
		meta.SheetMetrics = s.extractor.FromSheets(result.Sheets)
	default:
		meta.ExtractedMetrics = s.extractor.FromText(result.Text)
	}

	doc := &domain.Document{
		ID:       uuid.NewString(),
		Filename: upload.Name,
		Format:   result.Format,
		Raw:      upload.Content,
		Text:     result.Text,
		Metadata: meta,
		LoadedAt: s.now(),
	}

	unlock := s.session.serialize()
	s.session.install(doc)
	unlock()

	logger.Info("loaded %s (%s, %d chars)", doc.Filename, meta.FileType, len(doc.Text))
	return doc, nil
}

// LoadFile loads a file from disk. Name and size are validated before
// the file is read.
func (s *DocumentService) LoadFile(ctx context.Context, path string) (*domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	name := filepath.Base(path)
	if err := s.Validate(domain.Upload{Name: name, Size: info.Size()}); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Load(ctx, domain.NewUpload(name, data))
}

// Current returns the loaded document.
func (s *DocumentService) Current() (*domain.Document, error) {
	doc := s.session.Document()
	if doc == nil {
		return nil, domain.ErrNoDocument
	}
	return doc, nil
}

// Unload drops the document and all history.
func (s *DocumentService) Unload() {
	s.session.Unload()
}

// Summary describes the loaded document: name, type, size, structure and
// the number of matches per financial term.
func (s *DocumentService) Summary() (string, error) {
	doc, err := s.Current()
	if err != nil {
		return "", err
	}
	return Summarise(doc.Metadata), nil
}

// Summarise renders document metadata as a short text block.
func Summarise(meta domain.DocumentMetadata) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Document: %s\n", meta.Filename)
	fmt.Fprintf(&sb, "Type: %s\n", meta.FileType)
	fmt.Fprintf(&sb, "Size: %d bytes\n", meta.FileSize)

	switch meta.FileType {
	case domain.FormatPDF.FileType():
		fmt.Fprintf(&sb, "Pages: %d\n", meta.Pages)
	case domain.FormatSpreadsheet.FileType():
		fmt.Fprintf(&sb, "Sheets: %d\n", meta.SheetCount)
	}

	if !meta.ExtractedMetrics.IsEmpty() {
		sb.WriteString("\nFound financial terms:\n")
		for _, t := range meta.ExtractedMetrics.Terms {
			fmt.Fprintf(&sb, "- %s: %d instances\n", titleCase(t.Term), len(t.Values))
		}
	}

	return sb.String()
}

// SampleQuestions suggests questions for the loaded document.
func (s *DocumentService) SampleQuestions() []string {
	text := ""
	if doc := s.session.Document(); doc != nil {
		text = doc.Text
	}
	return SampleQuestions(text)
}

// SampleQuestions returns the generic questions followed by questions
// prompted by the text, without duplicates, capped at MaxSampleQuestions.
func SampleQuestions(text string) []string {
	lower := strings.ToLower(text)

	candidates := make([]string, 0, len(baseQuestions)+4)
	candidates = append(candidates, baseQuestions...)
	if strings.Contains(lower, "revenue") {
		candidates = append(candidates, "What is the breakdown of revenue by category?")
	}
	if strings.Contains(lower, "expense") {
		candidates = append(candidates, "What are the largest expense items?")
	}
	if strings.Contains(text, "2023") || strings.Contains(text, "2024") || strings.Contains(text, "2022") {
		candidates = append(candidates, "Compare financial performance across different years")
	}
	if strings.Contains(lower, "cash flow") {
		candidates = append(candidates, "What is the cash flow situation?")
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, MaxSampleQuestions)
	for _, q := range candidates {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == MaxSampleQuestions {
			break
		}
	}
	return out
}

// FormatSize renders a byte count as "N bytes", "X.Y KB" or "X.Y MB".
func FormatSize(size int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	case size >= kb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return sb.String()
}
