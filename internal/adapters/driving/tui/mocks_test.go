package tui

import (
	"context"
	"os"
	"path/filepath"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/watch"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document    *domain.Document
	questions   []string
	validateErr error
	loads       int
}

func (m *mockDocumentService) Validate(_ domain.Upload) error {
	return m.validateErr
}

func (m *mockDocumentService) Load(_ context.Context, upload domain.Upload) (*domain.Document, error) {
	m.loads++
	m.document = &domain.Document{
		ID:       "doc-1",
		Filename: upload.Name,
		Format:   domain.FormatPDF,
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
	m.document = nil
}

func (m *mockDocumentService) Summary() (string, error) {
	if m.document == nil {
		return "", domain.ErrNoDocument
	}
	return "This is a PDF document with 1 pages.", nil
}

func (m *mockDocumentService) SampleQuestions() []string {
	return m.questions
}

// mockChatService is a mock implementation of driving.ChatService.
// It answers only while docs has a document, like the real service.
type mockChatService struct {
	docs    *mockDocumentService
	answer  string
	status  domain.SystemStatus
	history []domain.ChatMessage
	cleared int
}

func (m *mockChatService) Ask(_ context.Context, question string) (string, error) {
	if m.docs == nil || m.docs.document == nil {
		return "", domain.ErrNoDocument
	}
	m.history = append(m.history,
		domain.ChatMessage{Role: domain.RoleUser, Content: question},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: m.answer},
	)
	return m.answer, nil
}

func (m *mockChatService) Status(_ context.Context) domain.SystemStatus {
	return m.status
}

func (m *mockChatService) ModelName() string {
	return "gemma:2b"
}

func (m *mockChatService) Clear() {
	m.cleared++
	m.history = nil
}

func (m *mockChatService) History() []domain.ChatMessage {
	return append([]domain.ChatMessage(nil), m.history...)
}

func (m *mockChatService) Exchanges() []domain.Exchange {
	return nil
}

// mockWatcher records watched files.
type mockWatcher struct {
	added []string
}

func (m *mockWatcher) AddFile(path string) error {
	m.added = append(m.added, path)
	return nil
}

func (m *mockWatcher) Watch(_ context.Context) (<-chan watch.Change, error) {
	ch := make(chan watch.Change)
	close(ch)
	return ch, nil
}

// mockPrompts counts reloads.
type mockPrompts struct {
	dir      string
	reloaded int
}

func (m *mockPrompts) Reload() {
	m.reloaded++
}

func (m *mockPrompts) Dir() string {
	return m.dir
}
