// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finqa/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady      State = "ready"
	StateNoDocument State = "no_document"
	StateThinking   State = "thinking"
	StateLoading    State = "loading"
	StateError      State = "error"
	StateHelp       State = "help"
)

// Busy returns true while a background command is running.
func (s State) Busy() bool {
	return s == StateThinking || s == StateLoading
}

// Bar displays application status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	spinner  spinner.Model
	state    State
	message  string
	model    string
	status   *domain.SystemStatus
	document string
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   StateNoDocument,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while the bar is busy.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !s.state.Busy() {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// Horizontal padding of the bar takes two cells.
	available := s.width - 2
	if lipgloss.Width(left)+lipgloss.Width(right)+1 > available {
		right = s.renderHelpHint()
	}
	if lipgloss.Width(left)+lipgloss.Width(right)+1 > available {
		right = ""
	}

	padding := available - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state, document and connection indicator.
func (s *Bar) renderLeft() string {
	parts := []string{s.renderState()}
	if s.document != "" {
		parts = append(parts, s.styles.Normal.Render(s.document))
	}
	if s.status != nil {
		parts = append(parts, s.renderConnection())
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

func (s *Bar) renderState() string {
	switch s.state {
	case StateThinking:
		return s.spinner.View() + s.styles.Muted.Render(" Analyzing document...")
	case StateLoading:
		return s.spinner.View() + s.styles.Muted.Render(" Processing document...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateNoDocument:
		return s.styles.Warning.Render("No document loaded")
	case StateReady:
		if s.message != "" {
			return s.styles.Success.Render(s.message)
		}
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderConnection() string {
	model := s.model
	if model == "" {
		model = "model"
	}
	switch {
	case !s.status.Connected:
		return s.styles.Error.Render("● Ollama disconnected")
	case !s.status.ModelAvailable:
		return s.styles.Warning.Render(fmt.Sprintf("● %s not found", model))
	default:
		return s.styles.Success.Render(fmt.Sprintf("● %s", model))
	}
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateHelp {
		bindings = []key.Binding{s.keymap.Back, s.keymap.Quit}
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// renderHelpHint renders the single hint kept on narrow terminals.
func (s *Bar) renderHelpHint() string {
	h := s.keymap.Help.Help()
	return s.styles.Muted.Render(fmt.Sprintf("%s: %s", h.Key, h.Desc))
}

// SetState sets the current state. Entering a busy state returns the
// command that starts the spinner.
func (s *Bar) SetState(state State) tea.Cmd {
	wasBusy := s.state.Busy()
	s.state = state
	if state.Busy() && !wasBusy {
		return s.spinner.Tick
	}
	return nil
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetModel sets the model name shown next to the connection indicator.
func (s *Bar) SetModel(model string) {
	s.model = model
}

// SetStatus records the latest inference service probe.
func (s *Bar) SetStatus(status domain.SystemStatus) {
	s.status = &status
}

// SetDocument sets the loaded document name. Empty hides it.
func (s *Bar) SetDocument(name string) {
	s.document = name
}

// Document returns the loaded document name.
func (s *Bar) Document() string {
	return s.document
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the state to ready or no-document and drops the message.
func (s *Bar) Clear() {
	s.message = ""
	if s.document == "" {
		s.state = StateNoDocument
		return
	}
	s.state = StateReady
}
