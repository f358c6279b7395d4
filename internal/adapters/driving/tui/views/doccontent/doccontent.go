// Package doccontent shows the text extracted from the loaded document.
package doccontent

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finqa/internal/core/domain"
)

// chrome is the number of rows taken by the header and footer.
const chrome = 6

// minWrap is the narrowest column the text is wrapped to.
const minWrap = 20

var (
	topKey    = key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top"))
	bottomKey = key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom"))
	backKey   = key.NewBinding(key.WithKeys("esc", "ctrl+t"), key.WithHelp("esc", "back"))
)

// View is a scrollable page of the text handed to the model.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model

	document *domain.Document
	lines    int
	width    int
}

// NewView creates the view with no document.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	vp := viewport.New(0, 1)
	vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown", "ctrl+d"))
	vp.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup", "ctrl+u"))
	vp.KeyMap.HalfPageDown = key.NewBinding(key.WithDisabled())
	vp.KeyMap.HalfPageUp = key.NewBinding(key.WithDisabled())

	return &View{styles: s, viewport: vp}
}

// SetDocument replaces the displayed document and scrolls to the top.
func (v *View) SetDocument(doc *domain.Document) {
	v.document = doc
	v.rewrap()
	v.viewport.GotoTop()
}

// Document returns the displayed document.
func (v *View) Document() *domain.Document {
	return v.document
}

// LineCount returns the number of rows after wrapping.
func (v *View) LineCount() int {
	return v.lines
}

// SetDimensions resizes the view and rewraps the text.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 1)
	v.rewrap()
}

// Init implements tea.Model.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update scrolls on keys and the mouse wheel.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, backKey):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewChat}
			}
		case key.Matches(msg, topKey):
			v.viewport.GotoTop()
			return v, nil
		case key.Matches(msg, bottomKey):
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the title, the visible rows and a position footer.
func (v *View) View() string {
	title := "Document Text"
	if v.document != nil {
		title = v.document.Filename
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", v.styles.Title.Render(title),
		strings.Repeat("─", min(max(v.width-4, 0), 60)))

	switch {
	case v.document == nil:
		b.WriteString(v.styles.Muted.Render("No document loaded"))
	case v.lines == 0:
		b.WriteString(v.styles.Muted.Render("(No text extracted)"))
	default:
		b.WriteString(v.styles.Normal.Render(v.viewport.View()))
		if v.lines > v.viewport.Height {
			first := v.viewport.YOffset + 1
			last := min(v.viewport.YOffset+v.viewport.Height, v.lines)
			fmt.Fprintf(&b, "\n%s", v.styles.Muted.Render(fmt.Sprintf(
				"  [%3.f%%] Line %d-%d of %d",
				v.viewport.ScrollPercent()*100, first, last, v.lines)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("↑/↓ pgup/pgdn scroll · g/G top/bottom · esc back"))
	return b.String()
}

// rewrap hard-wraps the text to the current width.
func (v *View) rewrap() {
	if v.document == nil || v.document.Text == "" {
		v.lines = 0
		v.viewport.SetContent("")
		return
	}

	wrapped := ansi.Hardwrap(v.document.Text, max(v.width-4, minWrap), true)
	v.lines = strings.Count(wrapped, "\n") + 1
	v.viewport.SetContent(wrapped)
}
