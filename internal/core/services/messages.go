package services

import (
	"errors"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

// User-facing messages shared by the interactive front ends.
const (
	NoDocumentMessage  = "Please upload a financial document first."
	RateLimitedMessage = "Too many questions, please wait a moment."
	ProcessedMessage   = "Document processed successfully!"
)

// UserMessage renders an error from the document or chat services as a
// sentence suitable for the chat window.
func UserMessage(err error) string {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNoDocument):
		return NoDocumentMessage
	case errors.Is(err, domain.ErrRateLimited):
		return RateLimitedMessage
	case errors.As(err, &verr):
		return verr.Reason
	case errors.Is(err, domain.ErrParse):
		return "Error processing document: " + err.Error()
	default:
		return err.Error()
	}
}
