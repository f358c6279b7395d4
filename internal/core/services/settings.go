package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
	"github.com/custodia-labs/finqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyLLMBaseURL         = "llm.base_url"
	KeyLLMModel           = "llm.model"
	KeyLLMProbeTimeout    = "llm.probe_timeout_seconds"
	KeyLLMGenerateTimeout = "llm.generate_timeout_seconds"
	KeyUploadMaxSizeMB    = "upload.max_size_mb"
)

// Environment overrides, applied over the config file.
const (
	EnvOllamaURL = "FINQA_OLLAMA_URL"
	EnvModel     = "FINQA_MODEL"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// A nil store yields defaults with environment overrides.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves the effective settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			BaseURL:         s.getString(KeyLLMBaseURL, defaults.LLM.BaseURL),
			Model:           s.getString(KeyLLMModel, defaults.LLM.Model),
			ProbeTimeout:    s.getSeconds(KeyLLMProbeTimeout, defaults.LLM.ProbeTimeout),
			GenerateTimeout: s.getSeconds(KeyLLMGenerateTimeout, defaults.LLM.GenerateTimeout),
		},
		Upload: domain.UploadSettings{
			MaxSizeBytes: s.getMaxSize(defaults.Upload.MaxSizeBytes),
		},
	}

	if v := strings.TrimSpace(s.getenv(EnvOllamaURL)); v != "" {
		settings.LLM.BaseURL = v
	}
	if v := strings.TrimSpace(s.getenv(EnvModel)); v != "" {
		settings.LLM.Model = v
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return fmt.Errorf("save settings: %w: no config store", domain.ErrInvalidInput)
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMProbeTimeout, int(settings.LLM.ProbeTimeout / time.Second)},
		{KeyLLMGenerateTimeout, int(settings.LLM.GenerateTimeout / time.Second)},
		{KeyUploadMaxSizeMB, int(settings.Upload.MaxSizeMB())},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.configStore.Save()
}

// Set updates a single setting by key and persists it.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return fmt.Errorf("set %s: %w: no config store", key, domain.ErrInvalidInput)
	}

	value = strings.TrimSpace(value)
	var stored any
	switch key {
	case KeyLLMBaseURL, KeyLLMModel:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		stored = value
	case KeyLLMProbeTimeout, KeyLLMGenerateTimeout, KeyUploadMaxSizeMB:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidInput, key, value)
		}
		stored = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return s.configStore.Save()
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyLLMBaseURL,
		KeyLLMModel,
		KeyLLMProbeTimeout,
		KeyLLMGenerateTimeout,
		KeyUploadMaxSizeMB,
	}
}

// SettingValues renders settings as the strings accepted by Set, keyed
// by setting key.
func SettingValues(settings *domain.AppSettings) map[string]string {
	return map[string]string{
		KeyLLMBaseURL:         settings.LLM.BaseURL,
		KeyLLMModel:           settings.LLM.Model,
		KeyLLMProbeTimeout:    strconv.Itoa(int(settings.LLM.ProbeTimeout / time.Second)),
		KeyLLMGenerateTimeout: strconv.Itoa(int(settings.LLM.GenerateTimeout / time.Second)),
		KeyUploadMaxSizeMB:    strconv.FormatInt(settings.Upload.MaxSizeMB(), 10),
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods

func (s *SettingsService) getString(key, defaultVal string) string {
	if s.configStore == nil {
		return defaultVal
	}
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string) int {
	if s.configStore == nil {
		return 0
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if n := s.getInt(key); n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

func (s *SettingsService) getMaxSize(defaultVal int64) int64 {
	if n := s.getInt(KeyUploadMaxSizeMB); n > 0 {
		return int64(n) * 1024 * 1024
	}
	return defaultVal
}
