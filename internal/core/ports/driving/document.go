package driving

import (
	"context"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

// DocumentService manages the document loaded into the session.
type DocumentService interface {
	// Validate runs the pre-parse checks on an upload.
	// Failures are *domain.ValidationError.
	Validate(upload domain.Upload) error

	// Load validates, parses and extracts metrics from an upload, then
	// installs the result into the session, clearing conversation history.
	// On failure the current document is left untouched.
	Load(ctx context.Context, upload domain.Upload) (*domain.Document, error)

	// LoadFile reads a file from disk and loads it like an upload named
	// after the file's base name.
	LoadFile(ctx context.Context, path string) (*domain.Document, error)

	// Current returns the loaded document or domain.ErrNoDocument.
	Current() (*domain.Document, error)

	// Unload drops the document together with all conversation history.
	Unload()

	// Summary returns a short human-readable description of the loaded document.
	Summary() (string, error)

	// SampleQuestions suggests questions for the loaded document.
	// Without a document only the generic questions are returned.
	SampleQuestions() []string
}
