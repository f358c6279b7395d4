package mcp

import (
	"github.com/custodia-labs/finqa/internal/core/ports/driving"
	"github.com/custodia-labs/finqa/internal/ratelimit"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document loads and describes the session document.
	Document driving.DocumentService

	// Chat answers questions about the loaded document.
	Chat driving.ChatService

	// Limiter throttles ask_question. Nil disables throttling.
	Limiter *ratelimit.Limiter
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
