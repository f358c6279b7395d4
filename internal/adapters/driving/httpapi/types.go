package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AskParams is the body of POST /api/v1/ask.
type AskParams struct {
	Question string `json:"question" form:"question" validate:"required,max=4000"`
}

// Validate returns per-field failures, keyed by JSON name.
func (p *AskParams) Validate() map[string]string {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"body": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[jsonName(e.Field())] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return out
}

func jsonName(field string) string {
	if field == "Question" {
		return "question"
	}
	return field
}

// AskResponse is the body returned by POST /api/v1/ask.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// DocumentResponse describes a loaded document.
type DocumentResponse struct {
	Message         string                  `json:"message,omitempty"`
	ID              string                  `json:"id"`
	Metadata        domain.DocumentMetadata `json:"metadata"`
	Summary         string                  `json:"summary"`
	SampleQuestions []string                `json:"sample_questions"`
}

// StatusResponse is the body of GET /api/v1/status.
type StatusResponse struct {
	Model          string `json:"model"`
	Connected      bool   `json:"ollama_connected"`
	ModelAvailable bool   `json:"model_available"`
	Ready          bool   `json:"ready"`
	DocumentLoaded bool   `json:"document_loaded"`
}

// HistoryResponse is the body of GET /api/v1/history.
type HistoryResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}
