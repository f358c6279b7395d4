// Package mcp provides an MCP (Model Context Protocol) server adapter for finqa.
// It lets AI assistants load a financial document and ask questions about it.
package mcp

import "errors"

var (
	// ErrMissingDocumentService is returned when the document service is not provided.
	ErrMissingDocumentService = errors.New("mcp: document service is required")

	// ErrMissingChatService is returned when the chat service is not provided.
	ErrMissingChatService = errors.New("mcp: chat service is required")
)
