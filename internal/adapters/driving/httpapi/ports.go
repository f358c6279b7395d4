package httpapi

import (
	"errors"

	"github.com/custodia-labs/finqa/internal/core/ports/driving"
	"github.com/custodia-labs/finqa/internal/ratelimit"
)

var (
	// ErrMissingDocumentService is returned when the document service is not provided.
	ErrMissingDocumentService = errors.New("httpapi: document service is required")

	// ErrMissingChatService is returned when the chat service is not provided.
	ErrMissingChatService = errors.New("httpapi: chat service is required")
)

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Document driving.DocumentService
	Chat     driving.ChatService

	// Limiter throttles POST /api/v1/ask. Nil disables throttling.
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
