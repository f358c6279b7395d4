package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/services"
)

type fixture struct {
	app     *App
	docs    *mockDocumentService
	chat    *mockChatService
	watcher *mockWatcher
	prompts *mockPrompts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	docs := &mockDocumentService{questions: []string{"What is the total revenue?"}}
	chat := &mockChatService{docs: docs, answer: "Revenue was $1,200,000."}
	f := &fixture{
		docs:    docs,
		chat:    chat,
		watcher: &mockWatcher{},
		prompts: &mockPrompts{dir: t.TempDir()},
	}
	ports := NewPorts(docs, chat)
	ports.Watcher = f.watcher
	ports.Prompts = f.prompts

	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	f.app = app
	return f
}

// send delivers msg and then every application message its commands
// produce. Runtime messages (spinner ticks, cursor blinks) are dropped
// so that timers never fire.
func (f *fixture) send(msg tea.Msg) {
	_, cmd := f.app.Update(msg)
	f.run(cmd)
}

func (f *fixture) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			f.run(c)
		}
	case messages.AnswerReceived, messages.DocumentLoaded, messages.LoadRequested,
		messages.QuestionSubmitted, messages.StatusChecked, messages.Notice,
		messages.ViewChanged, messages.SettingsLoaded, messages.SettingsSaved:
		f.send(msg)
	}
}

func (f *fixture) key(k tea.KeyType) {
	f.send(tea.KeyMsg{Type: k})
}

func (f *fixture) typeText(s string) {
	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(NewPorts(&mockDocumentService{}, &mockChatService{}))

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Document: &mockDocumentService{}})
	assert.ErrorIs(t, err, ErrMissingChatService)
	assert.Nil(t, app)

	app, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingDocumentService)
	assert.Nil(t, app)
}

func TestNewApp_PreloadedDocument(t *testing.T) {
	docs := &mockDocumentService{document: &domain.Document{Filename: "annual.pdf"}}
	app, err := NewApp(NewPorts(docs, &mockChatService{docs: docs}))
	require.NoError(t, err)

	app.WithDocumentPath("annual.pdf")
	app.SetDimensions(120, 40)

	assert.Contains(t, app.View(), "Ready to answer questions about annual.pdf.")
	assert.True(t, filepath.IsAbs(app.DocumentPath()))
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(NewPorts(&mockDocumentService{}, &mockChatService{}))

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(NewPorts(&mockDocumentService{}, &mockChatService{}))

	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(NewPorts(&mockDocumentService{}, &mockChatService{}))

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Load a financial document to get started.")
	assert.Contains(t, app.View(), "No document loaded")
}

func TestApp_Quit(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = f.app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_LoadAndAsk(t *testing.T) {
	f := newFixture(t)
	path := writeFile(t, "report.pdf", "Revenue: $1,200,000")

	f.key(tea.KeyCtrlO)
	f.typeText(path)
	f.key(tea.KeyEnter)

	require.NotNil(t, f.docs.document)
	assert.Equal(t, path, f.app.DocumentPath())
	assert.Equal(t, []string{path}, f.watcher.added)
	view := f.app.View()
	assert.Contains(t, view, services.ProcessedMessage)
	assert.Contains(t, view, "report.pdf")
	assert.Contains(t, view, "What is the total revenue?")

	f.typeText("What was revenue?")
	f.key(tea.KeyEnter)

	view = f.app.View()
	assert.Contains(t, view, "What was revenue?")
	assert.Contains(t, view, "Revenue was $1,200,000.")
	assert.NotContains(t, view, "Analyzing document...")
	assert.NoError(t, f.app.Err())
}

func TestApp_AskWithoutDocument(t *testing.T) {
	f := newFixture(t)

	f.typeText("What was revenue?")
	f.key(tea.KeyEnter)

	assert.ErrorIs(t, f.app.Err(), domain.ErrNoDocument)
	assert.Contains(t, f.app.View(), services.NoDocumentMessage)
}

func TestApp_LoadRejected(t *testing.T) {
	f := newFixture(t)
	f.docs.validateErr = &domain.ValidationError{
		Field:  "name",
		Reason: "Unsupported file format. Please upload: PDF, XLSX, XLS",
		Err:    domain.ErrUnsupportedFormat,
	}
	path := writeFile(t, "notes.docx", "x")

	f.send(messages.LoadRequested{Path: path})

	assert.Nil(t, f.docs.document)
	assert.Empty(t, f.watcher.added)
	assert.ErrorIs(t, f.app.Err(), domain.ErrUnsupportedFormat)
	assert.Contains(t, f.app.View(), "Unsupported file format")
}

func TestApp_FileChanged_ReloadsDocument(t *testing.T) {
	f := newFixture(t)
	path := writeFile(t, "q1.xlsx", "v1")
	f.send(messages.LoadRequested{Path: path})
	require.Equal(t, 1, f.docs.loads)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0600))
	f.send(messages.FileChanged{Path: path})

	assert.Equal(t, 2, f.docs.loads)
	assert.Equal(t, "v2", f.docs.document.Text)
}

func TestApp_FileChanged_Removed(t *testing.T) {
	f := newFixture(t)
	path := writeFile(t, "q1.xlsx", "v1")
	f.send(messages.LoadRequested{Path: path})

	f.send(messages.FileChanged{Path: path, Removed: true})

	assert.Equal(t, 1, f.docs.loads)
	assert.Contains(t, f.app.View(), "q1.xlsx was removed from disk")
}

func TestApp_FileChanged_Prompts(t *testing.T) {
	f := newFixture(t)

	f.send(messages.FileChanged{Path: filepath.Join(f.prompts.dir, "financial_qa.txt")})

	assert.Equal(t, 1, f.prompts.reloaded)
	assert.Contains(t, f.app.View(), "Prompt templates reloaded")
}

func TestApp_FileChanged_Unrelated(t *testing.T) {
	f := newFixture(t)

	f.send(messages.FileChanged{Path: filepath.Join(t.TempDir(), "other.pdf")})

	assert.Equal(t, 0, f.prompts.reloaded)
	assert.Equal(t, 0, f.docs.loads)
}

func TestApp_ClearConversation(t *testing.T) {
	f := newFixture(t)
	f.send(messages.LoadRequested{Path: writeFile(t, "report.pdf", "text")})
	f.send(messages.QuestionSubmitted{Question: "What was revenue?"})
	require.Contains(t, f.app.View(), "Revenue was $1,200,000.")

	f.key(tea.KeyCtrlL)

	assert.Equal(t, 1, f.chat.cleared)
	assert.NotContains(t, f.app.View(), "Revenue was $1,200,000.")
	assert.Contains(t, f.app.View(), "Conversation cleared")
}

func TestApp_StatusCheck(t *testing.T) {
	f := newFixture(t)

	f.key(tea.KeyCtrlR)
	assert.Contains(t, f.app.View(), "Ollama disconnected")

	f.chat.status = domain.SystemStatus{Connected: true, ModelAvailable: true}
	f.key(tea.KeyCtrlR)
	assert.NotContains(t, f.app.View(), "Ollama disconnected")
	assert.Contains(t, f.app.View(), "gemma:2b")
}

func TestApp_Navigation(t *testing.T) {
	f := newFixture(t)
	f.send(messages.LoadRequested{Path: writeFile(t, "report.pdf", "--- Page 1 ---")})

	f.key(tea.KeyTab)
	assert.Equal(t, messages.ViewDocDetails, f.app.CurrentView())
	assert.Contains(t, f.app.View(), "Document Details")
	assert.Contains(t, f.app.View(), "This is a PDF document with 1 pages.")

	f.key(tea.KeyEsc)
	assert.Equal(t, messages.ViewChat, f.app.CurrentView())

	f.key(tea.KeyCtrlT)
	assert.Equal(t, messages.ViewDocContent, f.app.CurrentView())
	assert.Contains(t, f.app.View(), "--- Page 1 ---")

	f.key(tea.KeyEsc)
	assert.Equal(t, messages.ViewChat, f.app.CurrentView())

	f.key(tea.KeyF1)
	assert.Equal(t, messages.ViewHelp, f.app.CurrentView())
	assert.Contains(t, f.app.View(), "load file")

	f.key(tea.KeyEsc)
	assert.Equal(t, messages.ViewChat, f.app.CurrentView())
}

func TestApp_SettingsUnavailable(t *testing.T) {
	f := newFixture(t)

	f.key(tea.KeyCtrlS)

	assert.Equal(t, messages.ViewChat, f.app.CurrentView())
	assert.Contains(t, f.app.View(), "Settings are not available")
}

func TestApp_SettingsView(t *testing.T) {
	docs := &mockDocumentService{}
	ports := NewPorts(docs, &mockChatService{docs: docs})
	ports.Settings = services.NewSettingsService(nil)
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	f := &fixture{app: app, docs: docs}

	f.key(tea.KeyCtrlS)

	assert.Equal(t, messages.ViewSettings, app.CurrentView())
	assert.Contains(t, app.View(), "llm.model")
	assert.Contains(t, app.View(), "gemma:2b")

	f.key(tea.KeyEsc)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	f := newFixture(t)

	f.send(messages.ErrorOccurred{Err: assert.AnError})

	assert.Equal(t, assert.AnError, f.app.Err())
	assert.Contains(t, f.app.View(), assert.AnError.Error())
}
