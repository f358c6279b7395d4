package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/finqa/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/services"
)

// mockDocumentService is an in-memory driving.DocumentService.
type mockDocumentService struct {
	doc       *domain.Document
	loaded    []string
	loadErr   error
	questions []string
}

func (m *mockDocumentService) Validate(domain.Upload) error {
	return nil
}

func (m *mockDocumentService) Load(_ context.Context, upload domain.Upload) (*domain.Document, error) {
	return m.install(upload.Name)
}

func (m *mockDocumentService) LoadFile(_ context.Context, path string) (*domain.Document, error) {
	m.loaded = append(m.loaded, path)
	return m.install(filepath.Base(path))
}

func (m *mockDocumentService) install(name string) (*domain.Document, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.doc = &domain.Document{
		ID:       "doc-1",
		Filename: name,
		Format:   domain.FormatPDF,
		Text:     "Total revenue was $1,200 in 2023.",
		Metadata: domain.DocumentMetadata{
			Filename: name,
			FileType: domain.FormatPDF.FileType(),
			FileSize: 33,
			Pages:    1,
			ExtractedMetrics: domain.ExtractedMetrics{
				Terms: []domain.TermMatch{{Term: "revenue", Values: []string{"$1,200"}}},
				Years: []string{"2023"},
			},
		},
	}
	return m.doc, nil
}

func (m *mockDocumentService) Current() (*domain.Document, error) {
	if m.doc == nil {
		return nil, domain.ErrNoDocument
	}
	return m.doc, nil
}

func (m *mockDocumentService) Unload() {
	m.doc = nil
}

func (m *mockDocumentService) Summary() (string, error) {
	doc, err := m.Current()
	if err != nil {
		return "", err
	}
	return services.Summarise(doc.Metadata), nil
}

func (m *mockDocumentService) SampleQuestions() []string {
	return m.questions
}

// mockChatService answers by echoing the question.
type mockChatService struct {
	docs    *mockDocumentService
	status  domain.SystemStatus
	model   string
	asked   []string
	cleared int
	history []domain.ChatMessage
}

func (m *mockChatService) Ask(_ context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if m.docs == nil || m.docs.doc == nil {
		return "", domain.ErrNoDocument
	}
	m.asked = append(m.asked, question)
	answer := "Answer to: " + question
	m.history = append(m.history,
		domain.ChatMessage{Role: domain.RoleUser, Content: question},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: answer},
	)
	return answer, nil
}

func (m *mockChatService) Status(context.Context) domain.SystemStatus {
	return m.status
}

func (m *mockChatService) ModelName() string {
	return m.model
}

func (m *mockChatService) Clear() {
	m.cleared++
	m.history = nil
}

func (m *mockChatService) History() []domain.ChatMessage {
	return m.history
}

func (m *mockChatService) Exchanges() []domain.Exchange {
	return nil
}

// testServices holds the fakes installed by setupTestServices.
type testServices struct {
	docs     *mockDocumentService
	chat     *mockChatService
	config   *memory.ConfigStore
	settings *services.SettingsService
}

// setupTestServices installs fakes and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	docs := &mockDocumentService{
		questions: []string{"What is the total revenue for the latest period?", "What is the net profit/loss?"},
	}
	ts := &testServices{
		docs: docs,
		chat: &mockChatService{
			docs:   docs,
			model:  "gemma:2b",
			status: domain.SystemStatus{Connected: true, ModelAvailable: true},
		},
		config: memory.NewConfigStore(nil),
	}
	ts.settings = services.NewSettingsService(ts.config)

	SetServices(&Services{
		Document: ts.docs,
		Chat:     ts.chat,
		Settings: ts.settings,
	})

	return ts, func() {
		SetServices(nil)
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default so state does not leak
// between executions of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns combined output.
func execute(args ...string) (string, error) {
	return executeWithInput("", args...)
}

func executeWithInput(input string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
