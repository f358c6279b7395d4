package driving

import (
	"context"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

// ChatService answers questions about the loaded document.
type ChatService interface {
	// Ask answers a question about the loaded document.
	// Inference failures are returned as user-facing answer strings, not errors.
	// The error is only set when there is no document or the question is empty.
	Ask(ctx context.Context, question string) (string, error)

	// Status probes the inference service.
	Status(ctx context.Context) domain.SystemStatus

	// ModelName returns the configured model.
	ModelName() string

	// Clear drops the conversation history and the chat log.
	Clear()

	// History returns a copy of the chat log.
	History() []domain.ChatMessage

	// Exchanges returns the retained question/answer pairs, oldest first.
	Exchanges() []domain.Exchange
}
