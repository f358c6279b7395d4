// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// InferenceService is the language model endpoint that answers questions.
//
// Implementations classify failures so callers can tell them apart:
//   - domain.ErrTimeout when the deadline is exceeded
//   - *domain.StatusError for any non-200 answer
//   - domain.ErrConnectivity for transport failures
//   - domain.ErrUnexpectedService for anything else, e.g. a malformed body
//
// Every call is single-shot. Implementations must not retry.
type InferenceService interface {
	// Ping validates the service is reachable using the model listing endpoint.
	// A 200 answer is success regardless of the body.
	Ping(ctx context.Context) error

	// ListModels returns the names of the installed models.
	ListModels(ctx context.Context) ([]string, error)

	// Generate produces a non-streaming completion for a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model used by Generate.
	ModelName() string
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// TopP is the nucleus sampling threshold.
	TopP float64
}

// DefaultGenerateOptions returns the fixed sampling parameters used for answers.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		MaxTokens:   500,
		Temperature: 0.3,
		TopP:        0.9,
	}
}
