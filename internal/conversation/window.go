// Package conversation keeps the short-term dialogue memory sent to the
// model with each question.
package conversation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

// Window sizes. The window retains more exchanges than it renders.
const (
	DefaultCapacity    = 3
	DefaultRenderCount = 2
	AnswerPreviewRunes = 200
)

// Window is a bounded FIFO of question/answer exchanges.
// It is safe for concurrent use.
type Window struct {
	mu          sync.RWMutex
	capacity    int
	renderCount int
	exchanges   []domain.Exchange
}

// NewWindow creates a window with the default capacity and render count.
func NewWindow() *Window {
	return NewWindowWithSize(DefaultCapacity, DefaultRenderCount)
}

// NewWindowWithSize creates a window that retains capacity exchanges and
// renders the most recent renderCount of them. Non-positive values fall
// back to the defaults.
func NewWindowWithSize(capacity, renderCount int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if renderCount <= 0 {
		renderCount = DefaultRenderCount
	}
	return &Window{
		capacity:    capacity,
		renderCount: renderCount,
		exchanges:   make([]domain.Exchange, 0, capacity),
	}
}

// Append adds an exchange, evicting the oldest beyond capacity.
func (w *Window) Append(question, answer string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.exchanges = append(w.exchanges, domain.Exchange{Question: question, Answer: answer})
	if over := len(w.exchanges) - w.capacity; over > 0 {
		w.exchanges = append(w.exchanges[:0:0], w.exchanges[over:]...)
	}
}

// Exchanges returns a copy of the retained exchanges, oldest first.
func (w *Window) Exchanges() []domain.Exchange {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]domain.Exchange, len(w.exchanges))
	copy(out, w.exchanges)
	return out
}

// Len returns the number of retained exchanges.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.exchanges)
}

// Context renders the most recent exchanges for the prompt:
//
//	Previous conversation:
//	Q1: <question>
//	A1: <first 200 characters of the answer>...
//
// Numbering restarts at 1 within the rendered slice. An empty window
// renders as the empty string.
func (w *Window) Context() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.exchanges) == 0 {
		return ""
	}

	recent := w.exchanges
	if len(recent) > w.renderCount {
		recent = recent[len(recent)-w.renderCount:]
	}

	var sb strings.Builder
	sb.WriteString("Previous conversation:\n")
	for i, ex := range recent {
		fmt.Fprintf(&sb, "Q%d: %s\n", i+1, ex.Question)
		fmt.Fprintf(&sb, "A%d: %s...\n\n", i+1, truncateRunes(ex.Answer, AnswerPreviewRunes))
	}
	return sb.String()
}

// Clear empties the window.
func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.exchanges = w.exchanges[:0]
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
