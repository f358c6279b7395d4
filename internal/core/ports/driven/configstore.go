package driven

// ConfigStore is a flat key/value view of the settings file.
// Keys are dotted ("llm.model", "upload.max_size_mb").
type ConfigStore interface {
	// Get reports the raw value stored under key.
	Get(key string) (any, bool)

	// GetString is Get narrowed to strings. Other types read as "".
	GetString(key string) string

	// GetInt is Get narrowed to whole numbers. Other types read as 0.
	GetInt(key string) int

	Set(key string, value any) error

	// Save writes pending changes. Load re-reads them.
	Save() error
	Load() error

	// Path identifies the backing file, for messages.
	Path() string
}
