package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/finqa/internal/conversation"
	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
	"github.com/custodia-labs/finqa/internal/logger"
	"github.com/custodia-labs/finqa/internal/prompt"
)

// ErrorPrefix starts every failure string returned in place of an answer.
const ErrorPrefix = "❌ Error: "

// InferenceClient answers questions through the inference service and
// records successful exchanges in the conversation window.
//
// GenerateResponse never returns an error: every failure is rendered as
// a string starting with ErrorPrefix.
type InferenceClient struct {
	llm     driven.InferenceService
	builder *prompt.Builder
	window  *conversation.Window
	opts    driven.GenerateOptions
}

// NewInferenceClient creates a client. A nil builder uses the embedded template.
func NewInferenceClient(llm driven.InferenceService, builder *prompt.Builder, window *conversation.Window) *InferenceClient {
	if builder == nil {
		builder = prompt.NewBuilder()
	}
	if window == nil {
		window = conversation.NewWindow()
	}
	return &InferenceClient{
		llm:     llm,
		builder: builder,
		window:  window,
		opts:    driven.DefaultGenerateOptions(),
	}
}

// ModelName returns the configured model.
func (c *InferenceClient) ModelName() string {
	return c.llm.ModelName()
}

// CheckConnectivity reports whether the service answers the model list probe.
func (c *InferenceClient) CheckConnectivity(ctx context.Context) bool {
	if err := c.llm.Ping(ctx); err != nil {
		logger.Debug("inference: connectivity probe failed: %v", err)
		return false
	}
	return true
}

// CheckModelAvailable reports whether the configured model is installed.
func (c *InferenceClient) CheckModelAvailable(ctx context.Context) bool {
	models, err := c.llm.ListModels(ctx)
	if err != nil {
		logger.Debug("inference: model probe failed: %v", err)
		return false
	}
	return slices.Contains(models, c.llm.ModelName())
}

// SystemStatus runs both probes.
func (c *InferenceClient) SystemStatus(ctx context.Context) domain.SystemStatus {
	return domain.SystemStatus{
		Connected:      c.CheckConnectivity(ctx),
		ModelAvailable: c.CheckModelAvailable(ctx),
	}
}

// GenerateResponse answers a question about documentText.
//
// The connectivity and availability gates run first and no generate
// call is made when either fails. On success the cleaned answer is
// appended to the conversation window.
func (c *InferenceClient) GenerateResponse(ctx context.Context, question, documentText, history string) string {
	if !c.CheckConnectivity(ctx) {
		return ConnectivityMessage
	}
	if !c.CheckModelAvailable(ctx) {
		return ModelMissingMessage(c.llm.ModelName())
	}

	built := c.builder.Build(question, documentText, history)

	raw, err := c.llm.Generate(ctx, built, c.opts)
	if err != nil {
		logger.Warn("inference: generate failed: %v", err)
		return GenerateErrorMessage(err)
	}

	answer := PostProcess(raw)
	c.window.Append(question, answer)
	return answer
}

// PostProcess strips any echoed prompt through the last answer marker
// and trims surrounding whitespace.
func PostProcess(raw string) string {
	answer := strings.TrimSpace(raw)
	if i := strings.LastIndex(answer, prompt.AnswerMarker); i >= 0 {
		answer = answer[i+len(prompt.AnswerMarker):]
	}
	return strings.TrimSpace(answer)
}

// ConnectivityMessage is returned when the service cannot be reached.
const ConnectivityMessage = ErrorPrefix + "Cannot connect to Ollama. Please make sure Ollama is running on your system."

// ModelMissingMessage is returned when model is not installed.
func ModelMissingMessage(model string) string {
	return fmt.Sprintf("%sModel '%s' not found. Please make sure you have downloaded the model using: ollama pull %s",
		ErrorPrefix, model, model)
}

// GenerateErrorMessage renders a failed generate call.
func GenerateErrorMessage(err error) string {
	var statusErr *domain.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("%sOllama returned status code %d", ErrorPrefix, statusErr.StatusCode)
	case errors.Is(err, domain.ErrTimeout):
		return ErrorPrefix + "Request timed out. The model might be taking too long to respond."
	case errors.Is(err, domain.ErrConnectivity):
		return ErrorPrefix + "Failed to connect to Ollama: " + detail(err, domain.ErrConnectivity)
	default:
		return ErrorPrefix + "An unexpected error occurred: " + detail(err, domain.ErrUnexpectedService)
	}
}

// detail drops the sentinel prefix added by the adapters.
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
