// Package tui provides an interactive terminal chat for finqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/finqa/internal/core/ports/driving"
	"github.com/custodia-labs/finqa/internal/watch"
)

// PromptReloader re-reads prompt templates from disk.
type PromptReloader interface {
	Reload()
	Dir() string
}

// FileWatcher reports changes to files on disk.
type FileWatcher interface {
	AddFile(path string) error
	Watch(ctx context.Context) (<-chan watch.Change, error)
}

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document manages the loaded document.
	Document driving.DocumentService

	// Chat answers questions.
	Chat driving.ChatService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// Prompts is reloaded when a template in its directory changes. Optional.
	Prompts PromptReloader

	// Watcher reloads the document when it changes on disk. Optional.
	Watcher FileWatcher
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(document driving.DocumentService, chat driving.ChatService) *Ports {
	return &Ports{
		Document: document,
		Chat:     chat,
	}
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
