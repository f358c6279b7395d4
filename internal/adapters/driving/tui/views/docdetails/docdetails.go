// Package docdetails provides the document details view component for the TUI.
package docdetails

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/services"
)

// maxValues caps how many matches are listed per keyword.
const maxValues = 5

// View shows document metadata and extracted metrics.
type View struct {
	styles *styles.Styles

	document     *domain.Document
	summary      string
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new document details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
	}
}

// SetDocument sets the document to display together with its summary.
func (v *View) SetDocument(doc *domain.Document, summary string) {
	v.document = doc
	v.summary = summary
	v.scrollOffset = 0
	v.err = nil
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc", "tab":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}

	return v, nil
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.document == nil {
		return nil
	}

	meta := v.document.Metadata
	lines := []string{
		v.formatField("File", meta.Filename),
		v.formatField("Type", meta.FileType),
		v.formatField("Size", services.FormatSize(meta.FileSize)),
	}

	if meta.Pages > 0 {
		lines = append(lines, v.formatField("Pages", fmt.Sprintf("%d", meta.Pages)))
	}
	if meta.Title != "" {
		lines = append(lines, v.formatField("Title", meta.Title))
	}
	if meta.Author != "" {
		lines = append(lines, v.formatField("Author", meta.Author))
	}
	if len(meta.Sheets) > 0 {
		lines = append(lines, v.formatField("Sheets", strings.Join(meta.Sheets, ", ")))
	}
	if !v.document.LoadedAt.IsZero() {
		lines = append(lines, v.formatField("Loaded", v.document.LoadedAt.Format("2006-01-02 15:04:05")))
	}

	if v.summary != "" {
		lines = append(lines, "", "Summary:")
		for _, l := range strings.Split(v.summary, "\n") {
			if strings.TrimSpace(l) != "" {
				lines = append(lines, "  "+strings.TrimSpace(l))
			}
		}
	}

	lines = append(lines, v.metricLines(meta.ExtractedMetrics)...)
	lines = append(lines, v.sheetLines(meta)...)

	return lines
}

func (v *View) metricLines(m domain.ExtractedMetrics) []string {
	if m.IsEmpty() {
		return nil
	}

	lines := []string{"", "Extracted metrics:"}
	for _, t := range m.Terms {
		values := t.Values
		extra := ""
		if len(values) > maxValues {
			extra = fmt.Sprintf(" (+%d more)", len(values)-maxValues)
			values = values[:maxValues]
		}
		lines = append(lines, fmt.Sprintf("  %s: %s%s", t.Term, strings.Join(values, ", "), extra))
	}
	if len(m.Years) > 0 {
		lines = append(lines, fmt.Sprintf("  %s: %s", domain.YearsKey, strings.Join(m.Years, ", ")))
	}
	return lines
}

func (v *View) sheetLines(meta domain.DocumentMetadata) []string {
	if len(meta.SheetMetrics) == 0 {
		return nil
	}

	// Workbook order when known, sorted otherwise.
	names := meta.Sheets
	if len(names) == 0 {
		for name := range meta.SheetMetrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	lines := []string{"", "Sheet metrics:"}
	for _, name := range names {
		sm, ok := meta.SheetMetrics[name]
		if !ok {
			continue
		}
		if len(sm.FinancialColumns) == 0 {
			lines = append(lines, fmt.Sprintf("  %s: no financial columns", name))
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", name, strings.Join(sm.FinancialColumns, ", ")))
		for _, col := range sm.FinancialColumns {
			cs, ok := sm.Columns[col]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("    %s: sum %.2f  mean %.2f  max %.2f  min %.2f",
				col, cs.Sum, cs.Mean, cs.Max, cs.Min))
		}
	}
	return lines
}

// formatField formats a field for display.
func (v *View) formatField(label, value string) string {
	return fmt.Sprintf("%-8s %s", label+":", value)
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Document Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.document == nil {
		b.WriteString(v.styles.Muted.Render("No document loaded. Press ctrl+o to load one."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visibleLines := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visibleLines; i++ {
		b.WriteString(v.renderLine(lines[i]))
		b.WriteString("\n")
	}

	if len(lines) > visibleLines {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1,
			minInt(v.scrollOffset+visibleLines, len(lines)),
			len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderLine styles a single content line.
func (v *View) renderLine(line string) string {
	switch {
	case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return v.styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "  "):
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return v.styles.Muted.Render(line)
		}
		return v.styles.Muted.Render(parts[0]+":") + v.styles.Normal.Render(parts[1])
	case strings.Contains(line, ":"):
		parts := strings.SplitN(line, ":", 2)
		return v.styles.Subtitle.Render(parts[0]+":") + v.styles.Normal.Render(parts[1])
	default:
		return v.styles.Normal.Render(line)
	}
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Document returns the displayed document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
