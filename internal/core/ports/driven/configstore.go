package driven

// ConfigStore persists user settings as dotted keys such as
// "server.base_url". Values are stored as strings; typed parsing and
// validation happen when the configuration is loaded.
type ConfigStore interface {
	// Get retrieves a value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (string, bool)

	// Set stores a value and persists immediately.
	Set(key, value string) error

	// Unset removes a key and persists immediately.
	Unset(key string) error

	// All returns a copy of every stored key and value.
	All() map[string]string

	// Load reads settings from storage.
	Load() error

	// Path returns the settings file path.
	Path() string
}
