// Package config assembles the client configuration from defaults, the
// settings file, DOCQA_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// EnvPrefix prefixes environment overrides, e.g. DOCQA_SERVER_BASE_URL.
const EnvPrefix = "DOCQA"

// FlagKeys maps command-line flag names to setting keys.
var FlagKeys = map[string]string{
	"base-url":            domain.KeyBaseURL,
	"timeout":             domain.KeyTimeout,
	"requests-per-second": domain.KeyRequestsPerSecond,
	"top-k":               domain.KeyTopK,
	"poll-interval":       domain.KeyPollInterval,
	"log-file":            domain.KeyLogFile,
}

var validate = validator.New()

// Load builds and validates the configuration. store and flags may be nil.
func Load(store driven.ConfigStore, flags *pflag.FlagSet) (domain.ClientConfig, error) {
	v := viper.New()
	setDefaults(v)

	if store != nil {
		if err := v.MergeConfigMap(nest(store.All())); err != nil {
			return domain.ClientConfig{}, fmt.Errorf("merge settings: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return domain.ClientConfig{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := domain.ClientConfig{
		BaseURL:           strings.TrimSpace(v.GetString(domain.KeyBaseURL)),
		Timeout:           v.GetDuration(domain.KeyTimeout),
		TopK:              v.GetInt(domain.KeyTopK),
		RequestsPerSecond: v.GetFloat64(domain.KeyRequestsPerSecond),
		PollInterval:      v.GetDuration(domain.KeyPollInterval),
		LogFile:           v.GetString(domain.KeyLogFile),
	}
	if err := Validate(cfg); err != nil {
		return domain.ClientConfig{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := domain.DefaultClientConfig()

	v.SetDefault(domain.KeyBaseURL, defaults.BaseURL)
	v.SetDefault(domain.KeyTimeout, defaults.Timeout)
	v.SetDefault(domain.KeyTopK, defaults.TopK)
	v.SetDefault(domain.KeyRequestsPerSecond, defaults.RequestsPerSecond)
	v.SetDefault(domain.KeyPollInterval, defaults.PollInterval)
	v.SetDefault(domain.KeyLogFile, defaults.LogFile)
}

// fieldKeys maps ClientConfig field names to setting keys for error messages.
var fieldKeys = map[string]string{
	"BaseURL":           domain.KeyBaseURL,
	"Timeout":           domain.KeyTimeout,
	"TopK":              domain.KeyTopK,
	"RequestsPerSecond": domain.KeyRequestsPerSecond,
	"PollInterval":      domain.KeyPollInterval,
}

// Validate checks the configuration against its struct tags. The first
// failing field is reported by its setting key.
func Validate(cfg domain.ClientConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate configuration: %w", err)
	}
	fe := verrs[0]
	key := fieldKeys[fe.Field()]
	if key == "" {
		key = fe.Field()
	}
	return domain.NewValidationError(key, fmt.Sprintf("invalid %s: %s", key, describe(fe)))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "url":
		return fmt.Sprintf("%q is not a URL", fe.Value())
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// nest turns dotted keys into the nested map viper merges.
func nest(flat map[string]string) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := root
		for _, p := range parts[:len(parts)-1] {
			next, ok := node[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[p] = next
			}
			node = next
		}
		node[parts[len(parts)-1]] = value
	}
	return root
}
