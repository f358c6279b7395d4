package driving

import "github.com/custodia-labs/finqa/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves the effective settings: defaults, then the config
	// file, then environment overrides.
	Get() (*domain.AppSettings, error)

	// Save persists application settings to the config file.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by key and persists it.
	Set(key, value string) error

	// Keys returns the settable keys in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
