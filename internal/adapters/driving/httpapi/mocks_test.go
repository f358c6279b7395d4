package httpapi

import (
	"context"
	"os"
	"path/filepath"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document    *domain.Document
	summary     string
	questions   []string
	validateErr error
	loadErr     error
	loaded      []domain.Upload
	unloaded    bool
}

func (m *mockDocumentService) Validate(_ domain.Upload) error {
	return m.validateErr
}

func (m *mockDocumentService) Load(_ context.Context, upload domain.Upload) (*domain.Document, error) {
	m.loaded = append(m.loaded, upload)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.document = &domain.Document{
		ID:       "doc-1",
		Filename: upload.Name,
		Format:   domain.FormatPDF,
		Raw:      upload.Content,
		Text:     string(upload.Content),
		Metadata: domain.DocumentMetadata{
			Filename: upload.Name,
			FileType: "PDF",
			FileSize: upload.Size,
			Pages:    1,
		},
	}
	return m.document, nil
}

func (m *mockDocumentService) LoadFile(ctx context.Context, path string) (*domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	if err := m.Validate(domain.Upload{Name: name, Size: info.Size()}); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return m.Load(ctx, domain.NewUpload(name, data))
}

func (m *mockDocumentService) Current() (*domain.Document, error) {
	if m.document == nil {
		return nil, domain.ErrNoDocument
	}
	return m.document, nil
}

func (m *mockDocumentService) Unload() {
	m.unloaded = true
	m.document = nil
}

func (m *mockDocumentService) Summary() (string, error) {
	if m.document == nil {
		return "", domain.ErrNoDocument
	}
	return m.summary, nil
}

func (m *mockDocumentService) SampleQuestions() []string {
	return m.questions
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer  string
	err     error
	status  domain.SystemStatus
	model   string
	history []domain.ChatMessage
	asked   []string
	cleared int
}

func (m *mockChatService) Ask(_ context.Context, question string) (string, error) {
	m.asked = append(m.asked, question)
	return m.answer, m.err
}

func (m *mockChatService) Status(_ context.Context) domain.SystemStatus {
	return m.status
}

func (m *mockChatService) ModelName() string {
	return m.model
}

func (m *mockChatService) Clear() {
	m.cleared++
}

func (m *mockChatService) History() []domain.ChatMessage {
	return m.history
}

func (m *mockChatService) Exchanges() []domain.Exchange {
	return nil
}
