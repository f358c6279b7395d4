package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
)

// mockLLM is a scriptable inference service.
type mockLLM struct {
	mu sync.Mutex

	model     string
	pingErr   error
	models    []string
	listErr   error
	response  string
	genErr    error
	prompts   []string
	opts      []driven.GenerateOptions
	pingCalls int
}

func newMockLLM(response string) *mockLLM {
	return &mockLLM{
		model:    "gemma:2b",
		models:   []string{"gemma:2b", "llama3:latest"},
		response: response,
	}
}

func (m *mockLLM) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingCalls++
	return m.pingErr
}

func (m *mockLLM) ListModels(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.models, nil
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return m.model }

func (m *mockLLM) generateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockRegistry returns a fixed parse result.
type mockRegistry struct {
	result *driven.ParseResult
	err    error
	calls  int
}

func (m *mockRegistry) Parse(_ context.Context, _ []byte, _ string) (*driven.ParseResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockRegistry) Register(driven.Parser) {}

func (m *mockRegistry) SupportedExtensions() []string { return domain.SupportedExtensions() }

// mockExtractor records which extraction path ran.
type mockExtractor struct {
	text   domain.ExtractedMetrics
	sheets domain.SheetMetrics

	textCalls  int
	sheetCalls int
}

func (m *mockExtractor) FromText(string) domain.ExtractedMetrics {
	m.textCalls++
	return m.text
}

func (m *mockExtractor) FromSheets([]domain.Sheet) domain.SheetMetrics {
	m.sheetCalls++
	return m.sheets
}

// mockConfigStore is an in-memory driven.ConfigStore.
type mockConfigStore struct {
	data    map[string]any
	saves   int
	saveErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	n, _ := m.data[key].(int)
	return n
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	m.saves++
	return m.saveErr
}

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "memory" }
