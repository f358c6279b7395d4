// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui/styles"
)

// QuestionList shows sample questions and tracks which one the user
// has cycled to. Nothing is selected until Next or Prev is called.
type QuestionList struct {
	questions []string
	selected  int
	styles    *styles.Styles
	width     int
}

// NewQuestionList creates a new question list component.
func NewQuestionList(s *styles.Styles) *QuestionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &QuestionList{
		selected: -1,
		styles:   s,
		width:    80,
	}
}

// Init initialises the question list.
func (q *QuestionList) Init() tea.Cmd {
	return nil
}

// Update is a no-op; selection is driven by the parent view.
func (q *QuestionList) Update(_ tea.Msg) (*QuestionList, tea.Cmd) {
	return q, nil
}

// View renders the question list.
func (q *QuestionList) View() string {
	if len(q.questions) == 0 {
		return ""
	}

	lines := make([]string, 0, len(q.questions)+1)
	lines = append(lines, q.styles.Subtitle.Render("Try asking:"))

	maxLen := q.width - 6
	if maxLen < 20 {
		maxLen = 20
	}

	for i, question := range q.questions {
		if len(question) > maxLen {
			question = question[:maxLen-3] + "..."
		}
		line := fmt.Sprintf("  %d. %s", i+1, question)
		if i == q.selected {
			lines = append(lines, q.styles.Selected.Render(line))
			continue
		}
		lines = append(lines, q.styles.Muted.Render(line))
	}

	return strings.Join(lines, "\n")
}

// SetQuestions replaces the questions and clears the selection.
func (q *QuestionList) SetQuestions(questions []string) {
	q.questions = questions
	q.selected = -1
}

// Questions returns the current questions.
func (q *QuestionList) Questions() []string {
	return q.questions
}

// Selected returns the selected index, or -1 if none.
func (q *QuestionList) Selected() int {
	return q.selected
}

// SelectedQuestion returns the selected question, or "" if none.
func (q *QuestionList) SelectedQuestion() string {
	if q.selected < 0 || q.selected >= len(q.questions) {
		return ""
	}
	return q.questions[q.selected]
}

// Next selects the following question, wrapping at the end.
func (q *QuestionList) Next() string {
	if len(q.questions) == 0 {
		return ""
	}
	q.selected = (q.selected + 1) % len(q.questions)
	return q.questions[q.selected]
}

// Prev selects the preceding question, wrapping at the start.
func (q *QuestionList) Prev() string {
	if len(q.questions) == 0 {
		return ""
	}
	if q.selected <= 0 {
		q.selected = len(q.questions) - 1
	} else {
		q.selected--
	}
	return q.questions[q.selected]
}

// Count returns the number of questions.
func (q *QuestionList) Count() int {
	return len(q.questions)
}

// SetWidth sets the list width.
func (q *QuestionList) SetWidth(width int) {
	q.width = width
}
