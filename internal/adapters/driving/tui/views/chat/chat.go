// Package chat provides the question and answer view for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finqa/internal/core/domain"
)

// inputHeight covers the bordered input box and the gap above it.
const inputHeight = 4

// View is the chat transcript with the question input below it.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	input    *input.ChatInput
	samples  *list.QuestionList
	viewport viewport.Model

	messages []domain.ChatMessage
	pending  string
	document string

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:   s,
		keymap:   km,
		input:    input.NewChatInput(s),
		samples:  list.NewQuestionList(s),
		viewport: viewport.New(80, 20),
	}
	v.refresh()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Send):
		return v, v.submit()

	case key.Matches(msg, v.keymap.Back):
		if v.input.Mode() == input.ModePath {
			v.input.SetMode(input.ModeAsk)
		}
		return v, nil

	case key.Matches(msg, v.keymap.NextSample):
		if q := v.samples.Next(); q != "" && v.input.Mode() == input.ModeAsk {
			v.input.SetValue(q)
		}
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keymap.PrevSample):
		if q := v.samples.Prev(); q != "" && v.input.Mode() == input.ModeAsk {
			v.input.SetValue(q)
		}
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keymap.PageUp), key.Matches(msg, v.keymap.PageDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit turns the typed text into a question or a load request.
func (v *View) submit() tea.Cmd {
	value := strings.TrimSpace(v.input.Value())
	if value == "" {
		return nil
	}

	if v.input.Mode() == input.ModePath {
		v.input.Reset()
		v.input.SetMode(input.ModeAsk)
		return func() tea.Msg {
			return messages.LoadRequested{Path: value}
		}
	}

	// One question at a time; keep the text until the answer arrives.
	if v.pending != "" {
		return nil
	}

	v.input.Reset()
	return func() tea.Msg {
		return messages.QuestionSubmitted{Question: value}
	}
}

// StartLoad switches the input to path entry.
func (v *View) StartLoad() tea.Cmd {
	v.input.SetMode(input.ModePath)
	return v.input.Focus()
}

// SetDocument records the loaded document and its sample questions.
// An empty name means no document is loaded.
func (v *View) SetDocument(name string, questions []string) {
	v.document = name
	v.samples.SetQuestions(questions)
	v.refresh()
}

// SetMessages replaces the transcript and scrolls to the newest entry.
func (v *View) SetMessages(msgs []domain.ChatMessage) {
	v.messages = msgs
	v.refresh()
	v.viewport.GotoBottom()
}

// SetPending shows a question that is being answered. Empty clears it.
func (v *View) SetPending(question string) {
	v.pending = question
	v.refresh()
	v.viewport.GotoBottom()
}

// Pending returns the question being answered.
func (v *View) Pending() string {
	return v.pending
}

// Input returns the input component.
func (v *View) Input() *input.ChatInput {
	return v.input
}

// refresh re-renders the transcript into the viewport.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
}

func (v *View) renderTranscript() string {
	if v.document == "" && len(v.messages) == 0 {
		return v.styles.Muted.Render(
			"Load a financial document to get started.\n" +
				"Press ctrl+o and enter the path of a .pdf, .xlsx or .xls file.")
	}

	answerWidth := v.width - 4
	if answerWidth < 20 {
		answerWidth = 20
	}
	answer := v.styles.Answer.Width(answerWidth)

	var b strings.Builder
	if len(v.messages) == 0 && v.pending == "" {
		b.WriteString(v.styles.Success.Render("Ready to answer questions about " + v.document + "."))
		b.WriteString("\n\n")
		if samples := v.samples.View(); samples != "" {
			b.WriteString(samples)
			b.WriteString("\n\n")
			b.WriteString(v.styles.Help.Render("ctrl+n / ctrl+p fill in a sample question"))
		}
		return b.String()
	}

	for _, m := range v.messages {
		switch m.Role {
		case domain.RoleUser:
			b.WriteString(v.styles.User.Render("You"))
		default:
			b.WriteString(v.styles.Assistant.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(answer.Render(m.Content))
		b.WriteString("\n\n")
	}

	if v.pending != "" {
		b.WriteString(v.styles.User.Render("You"))
		b.WriteString("\n")
		b.WriteString(answer.Render(v.pending))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Assistant.Render("Assistant"))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.PaddingLeft(2).Render("Analyzing document..."))
	}

	return strings.TrimRight(b.String(), "\n")
}

// View renders the chat view.
func (v *View) View() string {
	return v.viewport.View() + "\n\n" + v.input.View()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	vpHeight := height - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	v.viewport.Width = width
	v.viewport.Height = vpHeight
	v.input.SetWidth(width)
	v.samples.SetWidth(width)
	v.refresh()
	v.viewport.GotoBottom()
}
