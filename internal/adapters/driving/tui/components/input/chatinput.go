// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/styles"
)

// Mode selects what the typed text is used for.
type Mode int

const (
	// ModeAsk treats the text as a question.
	ModeAsk Mode = iota
	// ModePath treats the text as a file path to load.
	ModePath
)

const (
	askPlaceholder  = "Ask a question about your financial document..."
	pathPlaceholder = "Path to a .pdf, .xlsx or .xls file"

	// questionLimit matches the longest question the HTTP API accepts.
	questionLimit = 4000
	pathLimit     = 1024
)

// ChatInput wraps a bubbles textinput with question and path modes.
type ChatInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
	mode      Mode
	saved     string
}

// NewChatInput creates a new chat input component in ask mode.
func NewChatInput(s *styles.Styles) *ChatInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = askPlaceholder
	ti.Focus()
	ti.CharLimit = questionLimit
	ti.Width = 50

	return &ChatInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the chat input.
func (c *ChatInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (c *ChatInput) Update(msg tea.Msg) (*ChatInput, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the chat input.
func (c *ChatInput) View() string {
	label := c.styles.Title.Render("Ask: ")
	if c.mode == ModePath {
		label = c.styles.Subtitle.Render("Load: ")
	}
	field := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Mode returns the current input mode.
func (c *ChatInput) Mode() Mode {
	return c.mode
}

// SetMode switches between question and path entry.
// A half-typed question survives a round trip through path mode.
func (c *ChatInput) SetMode(mode Mode) {
	if mode == c.mode {
		return
	}
	switch mode {
	case ModePath:
		c.saved = c.textinput.Value()
		c.textinput.Reset()
		c.textinput.Placeholder = pathPlaceholder
		c.textinput.CharLimit = pathLimit
	default:
		c.textinput.Placeholder = askPlaceholder
		c.textinput.CharLimit = questionLimit
		c.textinput.SetValue(c.saved)
		c.textinput.CursorEnd()
		c.saved = ""
	}
	c.mode = mode
}

// Value returns the current input value.
func (c *ChatInput) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value and moves the cursor to the end.
func (c *ChatInput) SetValue(value string) {
	c.textinput.SetValue(value)
	c.textinput.CursorEnd()
}

// Focus sets focus on the input.
func (c *ChatInput) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *ChatInput) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *ChatInput) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *ChatInput) SetWidth(width int) {
	c.width = width
	// Account for label and padding
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.textinput.Width = inputWidth
}

// Width returns the current width.
func (c *ChatInput) Width() int {
	return c.width
}

// Reset clears the input.
func (c *ChatInput) Reset() {
	c.textinput.Reset()
}
