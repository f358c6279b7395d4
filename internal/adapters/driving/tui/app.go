package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/views/docdetails"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/services"
	"github.com/custodia-labs/finqa/internal/logger"
	"github.com/custodia-labs/finqa/internal/watch"
)

// chromeHeight is the status bar plus the gap above it.
const chromeHeight = 2

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	statusBar      *status.Bar
	chatView       *chat.View
	docDetailsView *docdetails.View
	docContentView *doccontent.View
	settingsView   *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// docPath is the absolute path of the loaded document, when known.
	docPath string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingDocumentService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		help:           help.New(),
		statusBar:      status.NewBar(s, km),
		chatView:       chat.NewView(s, km),
		docDetailsView: docdetails.NewView(s),
		docContentView: doccontent.NewView(s),
		settingsView:   settings.NewView(s, ports.Settings),
		currentView:    messages.ViewChat,
	}
	a.statusBar.SetModel(ports.Chat.ModelName())

	// A document may have been loaded before the TUI started.
	if doc, err := ports.Document.Current(); err == nil {
		a.showDocument(doc)
	}

	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithDocumentPath records where the preloaded document lives so that
// it can be watched.
func (a *App) WithDocumentPath(path string) *App {
	if abs, err := filepath.Abs(path); err == nil {
		a.docPath = abs
	}
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("finqa - Financial Document Q&A"),
		a.chatView.Init(),
		a.checkStatus(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case spinner.TickMsg:
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case messages.QuestionSubmitted:
		a.chatView.SetPending(msg.Question)
		return a, tea.Batch(a.statusBar.SetState(status.StateThinking), a.ask(msg.Question))

	case messages.AnswerReceived:
		a.chatView.SetPending("")
		a.chatView.SetMessages(a.ports.Chat.History())
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.statusBar.Clear()
		return a, nil

	case messages.LoadRequested:
		return a, tea.Batch(a.statusBar.SetState(status.StateLoading), a.load(msg.Path))

	case messages.DocumentLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.showDocument(msg.Document)
		a.chatView.SetMessages(a.ports.Chat.History())
		a.statusBar.SetMessage(services.ProcessedMessage)
		a.trackDocument(msg.Path)
		return a, nil

	case messages.FileChanged:
		return a, a.handleFileChanged(msg)

	case messages.StatusChecked:
		a.statusBar.SetStatus(msg.Status)
		return a, nil

	case messages.Notice:
		if !a.statusBar.State().Busy() {
			a.statusBar.Clear()
			a.statusBar.SetState(status.StateReady)
		}
		a.statusBar.SetMessage(msg.Text)
		return a, nil

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	// Forward other messages (cursor blink and the like) to the active view.
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp, messages.ViewDocDetails, messages.ViewDocContent:
		// Static views
	}

	return a, cmd
}

// handleKeyMsg routes key presses to global bindings or the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if key.Matches(msg, a.keymap.Quit) {
		return a, tea.Quit
	}

	// The settings editor owns the keyboard while a value is being typed.
	if a.currentView == messages.ViewSettings && a.settingsView.Editing() {
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	if key.Matches(msg, a.keymap.Help) {
		if a.currentView == messages.ViewHelp {
			return a, a.switchView(messages.ViewChat)
		}
		return a, a.switchView(messages.ViewHelp)
	}

	switch a.currentView {
	case messages.ViewHelp:
		if key.Matches(msg, a.keymap.Back) {
			return a, a.switchView(messages.ViewChat)
		}
		return a, nil

	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
		return a, cmd

	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ViewChat:
		// Handled below
	}

	switch {
	case key.Matches(msg, a.keymap.Load):
		return a, a.chatView.StartLoad()

	case key.Matches(msg, a.keymap.Info):
		return a, a.switchView(messages.ViewDocDetails)

	case key.Matches(msg, a.keymap.Text):
		return a, a.switchView(messages.ViewDocContent)

	case key.Matches(msg, a.keymap.Status):
		return a, a.checkStatus()

	case key.Matches(msg, a.keymap.Clear):
		a.ports.Chat.Clear()
		a.chatView.SetMessages(nil)
		return a, notify("Conversation cleared")

	case key.Matches(msg, a.keymap.Settings):
		if a.ports.Settings == nil {
			return a, notify("Settings are not available")
		}
		return a, a.switchView(messages.ViewSettings)
	}

	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// switchView activates a view, preparing its content first.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	previous := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
		return nil

	case messages.ViewDocDetails:
		doc, err := a.ports.Document.Current()
		if err != nil {
			a.docDetailsView.SetDocument(nil, "")
			return nil
		}
		summary, _ := a.ports.Document.Summary()
		a.docDetailsView.SetDocument(doc, summary)
		return nil

	case messages.ViewDocContent:
		doc, err := a.ports.Document.Current()
		if err != nil {
			doc = nil
		}
		a.docContentView.SetDocument(doc)
		return nil

	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()

	case messages.ViewChat:
		if previous == messages.ViewHelp {
			a.statusBar.Clear()
		}
	}
	return nil
}

// handleFileChanged reloads the document or prompt templates.
func (a *App) handleFileChanged(msg messages.FileChanged) tea.Cmd {
	path, err := filepath.Abs(msg.Path)
	if err != nil {
		return nil
	}

	if path == a.docPath {
		name := filepath.Base(path)
		if msg.Removed {
			return notify(fmt.Sprintf("%s was removed from disk, keeping the loaded copy", name))
		}
		logger.Debug("tui: %s changed, reloading", name)
		return tea.Batch(a.statusBar.SetState(status.StateLoading), a.load(path))
	}

	if a.ports.Prompts != nil && filepath.Dir(path) == filepath.Clean(a.ports.Prompts.Dir()) {
		a.ports.Prompts.Reload()
		return notify("Prompt templates reloaded")
	}
	return nil
}

// showDocument updates every view that displays the loaded document.
func (a *App) showDocument(doc *domain.Document) {
	a.chatView.SetDocument(doc.Filename, a.ports.Document.SampleQuestions())
	a.statusBar.SetDocument(doc.Filename)
	a.statusBar.Clear()
}

// trackDocument remembers the document path and watches it.
func (a *App) trackDocument(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	a.docPath = abs
	if a.ports.Watcher == nil {
		return
	}
	if err := a.ports.Watcher.AddFile(abs); err != nil {
		logger.Warn("tui: watch %s: %v", abs, err)
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(services.UserMessage(err))
}

// ask returns a command that answers a question.
func (a *App) ask(question string) tea.Cmd {
	ctx := a.ctx
	chatService := a.ports.Chat
	return func() tea.Msg {
		answer, err := chatService.Ask(ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// load returns a command that loads a file from disk.
func (a *App) load(path string) tea.Cmd {
	ctx := a.ctx
	docs := a.ports.Document
	return func() tea.Msg {
		doc, err := docs.LoadFile(ctx, path)
		return messages.DocumentLoaded{Path: path, Document: doc, Err: err}
	}
}

// checkStatus returns a command that probes the inference service.
func (a *App) checkStatus() tea.Cmd {
	ctx := a.ctx
	chatService := a.ports.Chat
	return func() tea.Msg {
		return messages.StatusChecked{Status: chatService.Status(ctx)}
	}
}

func notify(text string) tea.Cmd {
	return func() tea.Msg {
		return messages.Notice{Text: text}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewHelp:
		body = a.viewHelp()
	case messages.ViewDocDetails:
		body = a.docDetailsView.View()
	case messages.ViewDocContent:
		body = a.docContentView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	default:
		body = a.chatView.View()
	}

	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.FullHelpView(a.keymap.FullHelp()) + "\n\n" +
		a.styles.Muted.Render("Answers are generated from the loaded document only.") + "\n\n" +
		a.styles.Help.Render("[esc] back to chat")
}

// Run starts the TUI application. When a watcher is configured, changes
// on disk are delivered to the program as FileChanged messages.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if a.ports.Watcher != nil {
		if a.docPath != "" {
			if err := a.ports.Watcher.AddFile(a.docPath); err != nil {
				logger.Warn("tui: watch %s: %v", a.docPath, err)
			}
		}
		changes, err := a.ports.Watcher.Watch(a.ctx)
		if err != nil {
			logger.Warn("tui: file watching disabled: %v", err)
		} else {
			go func() {
				for c := range changes {
					p.Send(messages.FileChanged{Path: c.Path, Removed: c.Type == watch.ChangeRemoved})
				}
			}()
		}
	}

	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// DocumentPath returns the absolute path of the loaded document, if known.
func (a *App) DocumentPath() string {
	return a.docPath
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	bodyHeight := height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	a.statusBar.SetWidth(width)
	a.help.Width = width
	a.chatView.SetDimensions(width, bodyHeight)
	a.docDetailsView.SetDimensions(width, bodyHeight)
	a.docContentView.SetDimensions(width, bodyHeight)
	a.settingsView.SetDimensions(width, bodyHeight)
}
