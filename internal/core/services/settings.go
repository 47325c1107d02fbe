package services

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// ValidateFunc checks a complete configuration.
type ValidateFunc func(cfg domain.ClientConfig) error

// SettingsService manages persisted client settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validate    ValidateFunc
}

// NewSettingsService creates a new settings service. A nil validate
// only checks that values parse.
func NewSettingsService(configStore driven.ConfigStore, validate ValidateFunc) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validate:    validate,
	}
}

// List returns every known setting with its stored or default value.
func (s *SettingsService) List() []driving.Setting {
	defaults := domain.DefaultClientConfig()
	out := make([]driving.Setting, 0, len(domain.SettingKeys))
	for _, k := range domain.SettingKeys {
		setting := driving.Setting{SettingKey: k, Value: defaults.Value(k.Key)}
		if v, ok := s.configStore.Get(k.Key); ok {
			setting.Value = v
			setting.Stored = true
		}
		out = append(out, setting)
	}
	return out
}

// Set validates the value against the other stored settings and persists it.
func (s *SettingsService) Set(key, value string) error {
	if !domain.IsSettingKey(key) {
		return domain.NewValidationError(key, fmt.Sprintf("unknown setting %q", key))
	}

	cfg, err := s.stored()
	if err != nil {
		return err
	}
	if err := cfg.Apply(key, value); err != nil {
		return err
	}
	if s.validate != nil {
		if err := s.validate(cfg); err != nil {
			return err
		}
	}

	if err := s.configStore.Set(key, cfg.Value(key)); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// Unset removes a persisted setting.
func (s *SettingsService) Unset(key string) error {
	if !domain.IsSettingKey(key) {
		return domain.NewValidationError(key, fmt.Sprintf("unknown setting %q", key))
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("remove setting %s: %w", key, err)
	}
	return nil
}

// Path returns where settings are stored.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// stored builds a configuration from defaults and the stored settings.
func (s *SettingsService) stored() (domain.ClientConfig, error) {
	cfg := domain.DefaultClientConfig()
	for _, k := range domain.SettingKeys {
		v, ok := s.configStore.Get(k.Key)
		if !ok {
			continue
		}
		if err := cfg.Apply(k.Key, v); err != nil {
			return cfg, fmt.Errorf("stored setting %s: %w", k.Key, err)
		}
	}
	return cfg, nil
}
