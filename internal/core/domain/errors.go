package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoDocument indicates an operation needs a loaded document.
	ErrNoDocument = errors.New("no document loaded")

	// Upload Errors.

	// ErrValidation indicates an upload failed the pre-parse checks.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedFormat indicates the file extension is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge indicates the upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file size too large")

	// ErrEmptyUpload indicates an upload without a name or content.
	ErrEmptyUpload = errors.New("empty upload")

	// ErrParse indicates the document could not be decoded.
	ErrParse = errors.New("document processing error")

	// Inference Errors.

	// ErrConnectivity indicates the inference service cannot be reached.
	ErrConnectivity = errors.New("inference service unreachable")

	// ErrModelUnavailable indicates the configured model is not installed.
	ErrModelUnavailable = errors.New("model not available")

	// ErrTimeout indicates the inference call exceeded its deadline.
	ErrTimeout = errors.New("inference request timed out")

	// ErrUnexpectedService indicates any other inference failure.
	ErrUnexpectedService = errors.New("unexpected inference service error")

	// ErrRateLimited indicates a driving adapter rejected a request
	// because its question budget is exhausted.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError describes why an upload was rejected before parsing.
type ValidationError struct {
	// Field is the upload attribute that failed (name, size, content).
	Field string

	// Reason is a user-facing explanation.
	Reason string

	// Err is the specific sentinel (ErrUnsupportedFormat, ErrFileTooLarge, ...).
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Reason
}

// Unwrap returns both ErrValidation and the specific cause.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// ParseError wraps a decoder failure with the format that was attempted.
type ParseError struct {
	Format SourceFormat
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Format {
	case FormatPDF:
		return fmt.Sprintf("PDF processing error: %v", e.Err)
	case FormatSpreadsheet:
		return fmt.Sprintf("Excel processing error: %v", e.Err)
	default:
		return fmt.Sprintf("%s: %v", ErrParse, e.Err)
	}
}

// Unwrap returns both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// StatusError reports a non-200 answer from the inference service.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("inference service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("inference service returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap returns ErrUnexpectedService.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedService
}
