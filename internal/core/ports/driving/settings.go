package driving

import "github.com/custodia-labs/docqa/internal/core/domain"

// Setting is one persisted setting with its effective value.
type Setting struct {
	domain.SettingKey

	// Value is the stored value, or the default when Stored is false.
	Value string

	// Stored reports whether the value comes from the settings file.
	Stored bool
}

// SettingsService manages persisted client settings.
type SettingsService interface {
	// List returns every known setting in display order.
	List() []Setting

	// Set validates and persists one setting.
	Set(key, value string) error

	// Unset removes a persisted setting so the default applies again.
	Unset(key string) error

	// Path returns where settings are stored.
	Path() string
}
