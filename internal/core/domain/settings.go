package domain

import "time"

// Default settings values.
const (
	// DefaultOllamaURL is the local Ollama endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemma:2b"

	// DefaultProbeTimeout bounds the /api/tags probes.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultGenerateTimeout bounds a single generate call.
	DefaultGenerateTimeout = 180 * time.Second

	// DefaultMaxUploadMB is the upload size limit in mebibytes.
	DefaultMaxUploadMB = 200
)

// LLMSettings holds inference service configuration.
type LLMSettings struct {
	// BaseURL is the Ollama API endpoint.
	BaseURL string

	// Model is the model name passed to /api/generate.
	Model string

	// ProbeTimeout bounds the connectivity and availability probes.
	ProbeTimeout time.Duration

	// GenerateTimeout bounds a single generate call.
	GenerateTimeout time.Duration
}

// IsConfigured returns true if an endpoint and a model are set.
func (s LLMSettings) IsConfigured() bool {
	return s.BaseURL != "" && s.Model != ""
}

// UploadSettings holds upload validation limits.
type UploadSettings struct {
	// MaxSizeBytes is the largest accepted upload.
	MaxSizeBytes int64
}

// MaxSizeMB returns the limit in whole mebibytes.
func (s UploadSettings) MaxSizeMB() int64 {
	return s.MaxSizeBytes / (1024 * 1024)
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds inference service settings.
	LLM LLMSettings

	// Upload holds upload validation settings.
	Upload UploadSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// They target a local Ollama install with the gemma:2b model pulled.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			BaseURL:         DefaultOllamaURL,
			Model:           DefaultModel,
			ProbeTimeout:    DefaultProbeTimeout,
			GenerateTimeout: DefaultGenerateTimeout,
		},
		Upload: UploadSettings{
			MaxSizeBytes: DefaultMaxUploadMB * 1024 * 1024,
		},
	}
}

// SupportedExtensions returns the accepted upload extensions, without dots,
// in the order they are listed to users.
func SupportedExtensions() []string {
	return []string{"pdf", "xlsx", "xls"}
}
