// Package ollama provides an inference service adapter for the Ollama HTTP API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
	"github.com/custodia-labs/finqa/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.InferenceService = (*Client)(nil)

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 512

// maxDrain caps how much of an unread body is discarded before close.
const maxDrain = 1 << 20

// Config holds configuration for the Ollama client.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: gemma:2b).
	Model string

	// ProbeTimeout bounds /api/tags requests (default: 5s).
	ProbeTimeout time.Duration

	// GenerateTimeout bounds /api/generate requests (default: 180s).
	GenerateTimeout time.Duration
}

// ConfigFromSettings builds a client config from application settings.
func ConfigFromSettings(s domain.LLMSettings) Config {
	return Config{
		BaseURL:         s.BaseURL,
		Model:           s.Model,
		ProbeTimeout:    s.ProbeTimeout,
		GenerateTimeout: s.GenerateTimeout,
	}
}

// Client talks to a single Ollama endpoint. Every call is single-shot.
type Client struct {
	probe    *http.Client
	generate *http.Client
	baseURL  string
	model    string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

// options holds generation parameters.
type options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// tagsResponse is the Ollama /api/tags response format.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewClient creates a new Ollama client. Zero config values take the defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultModel
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = domain.DefaultProbeTimeout
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = domain.DefaultGenerateTimeout
	}

	return &Client{
		probe:    &http.Client{Timeout: cfg.ProbeTimeout},
		generate: &http.Client{Timeout: cfg.GenerateTimeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
	}
}

// ModelName returns the name of the model used by Generate.
func (c *Client) ModelName() string {
	return c.model
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks the /api/tags endpoint answers 200.
// This is a lightweight check that validates connectivity without running inference.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.getTags(ctx)
	if err != nil {
		return err
	}
	drainClose(resp.Body)
	return nil
}

// ListModels returns the names of the installed models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	resp, err := c.getTags(ctx)
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("%w: decode model list: %v", domain.ErrUnexpectedService, err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// getTags issues GET /api/tags and returns the response when it is a 200.
func (c *Client) getTags(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrUnexpectedService, err)
	}

	resp, err := c.probe.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	if resp.StatusCode != http.StatusOK {
		defer drainClose(resp.Body)
		return nil, statusError(resp)
	}
	return resp, nil
}

// Generate produces a non-streaming completion for a prompt.
func (c *Client) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	defer logger.Timed("ollama generate")()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: options{
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			MaxTokens:   opts.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrUnexpectedService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrUnexpectedService, err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("ollama: POST %s/api/generate model=%s", c.baseURL, c.model)
	resp, err := c.generate.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer drainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrUnexpectedService, err)
	}

	return genResp.Response, nil
}

// classify maps a transport error onto the domain sentinels.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
}

// drainClose reads what is left of body so the connection can be reused.
func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrain))
	body.Close()
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
