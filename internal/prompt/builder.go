// Package prompt composes the question answering prompt sent to the model.
// It performs no model interaction.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/custodia-labs/finqa/internal/core/ports/driven"
	"github.com/custodia-labs/finqa/internal/logger"
)

const (
	// MaxContentRunes caps the document text embedded in a prompt.
	MaxContentRunes = 3000

	// TruncationMarker is appended when the document text was cut.
	TruncationMarker = "...[content truncated]"

	// AnswerMarker ends the prompt. Anything a model echoes up to it is discarded.
	AnswerMarker = "ANSWER:"

	// placeholders is the number of %s verbs a template must contain.
	placeholders = 3
)

//go:embed templates/financial_qa.txt
var defaultTemplate string

// DefaultTemplate returns the embedded question answering template.
// It has three %s placeholders: document content, conversation
// context and question.
func DefaultTemplate() string {
	return defaultTemplate
}

// Builder composes prompts from a template.
type Builder struct {
	prompts driven.PromptStore
	tokens  driven.TokenCounter
}

// NewBuilder creates a builder that uses the embedded template.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetPromptStore sets the store used to load a user-edited template.
func (b *Builder) SetPromptStore(store driven.PromptStore) {
	b.prompts = store
}

// SetTokenCounter sets the counter used for verbose token estimates.
func (b *Builder) SetTokenCounter(counter driven.TokenCounter) {
	b.tokens = counter
}

// Build composes the prompt for a question. The document text is cut to
// MaxContentRunes characters, followed by TruncationMarker when cut.
func (b *Builder) Build(question, documentText, context string) string {
	prompt := fmt.Sprintf(b.template(), Truncate(documentText, MaxContentRunes), context, question)

	if logger.IsVerbose() {
		if b.tokens != nil {
			logger.Debug("prompt: %d chars, ~%d tokens", len([]rune(prompt)), b.tokens.Count(prompt))
		} else {
			logger.Debug("prompt: %d chars", len([]rune(prompt)))
		}
	}
	return prompt
}

// template returns the user-edited template when it is usable and the
// embedded default otherwise.
func (b *Builder) template() string {
	if b.prompts == nil {
		return defaultTemplate
	}
	tmpl, err := b.prompts.Load(driven.PromptFinancialQA)
	if err != nil {
		logger.Warn("load prompt %q: %v, using default", driven.PromptFinancialQA, err)
		return defaultTemplate
	}
	if err := ValidateTemplate(tmpl); err != nil {
		logger.Warn("prompt %q: %v, using default", driven.PromptFinancialQA, err)
		return defaultTemplate
	}
	return tmpl
}

// ValidateTemplate checks that a template has exactly three %s verbs and
// no other formatting verbs.
func ValidateTemplate(tmpl string) error {
	rest := strings.ReplaceAll(tmpl, "%%", "")
	if n := strings.Count(rest, "%s"); n != placeholders {
		return fmt.Errorf("template has %d %%s placeholders, want %d", n, placeholders)
	}
	if strings.Count(rest, "%") != placeholders {
		return fmt.Errorf("template has unsupported formatting verbs")
	}
	return nil
}

// Truncate cuts text to at most limit characters and appends
// TruncationMarker when anything was removed.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + TruncationMarker
}
