package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("base-url", domain.DefaultBaseURL, "")
	fs.Int("top-k", domain.DefaultTopK, "")
	fs.Duration("timeout", domain.DefaultTimeout, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultClientConfig(), cfg)
}

func TestLoad_StoreOverridesDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]string{
		domain.KeyBaseURL:           "http://qa.internal/api",
		domain.KeyTopK:              "3",
		domain.KeyRequestsPerSecond: "2.5",
		domain.KeyTimeout:           "30s",
	})

	cfg, err := Load(store, nil)

	require.NoError(t, err)
	assert.Equal(t, "http://qa.internal/api", cfg.BaseURL)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, domain.DefaultPollInterval, cfg.PollInterval)
}

func TestLoad_EnvOverridesStore(t *testing.T) {
	t.Setenv("DOCQA_SERVER_BASE_URL", "http://env.example/api")
	t.Setenv("DOCQA_QUERY_TOP_K", "7")
	store := memory.NewConfigStore(map[string]string{
		domain.KeyBaseURL: "http://qa.internal/api",
		domain.KeyTopK:    "3",
	})

	cfg, err := Load(store, nil)

	require.NoError(t, err)
	assert.Equal(t, "http://env.example/api", cfg.BaseURL)
	assert.Equal(t, 7, cfg.TopK)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DOCQA_SERVER_BASE_URL", "http://env.example/api")
	t.Setenv("DOCQA_QUERY_TOP_K", "7")
	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--base-url", "http://flag.example/api"}))

	cfg, err := Load(nil, flags)

	require.NoError(t, err)
	assert.Equal(t, "http://flag.example/api", cfg.BaseURL)
	assert.Equal(t, 7, cfg.TopK, "unset flags do not shadow the environment")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		store map[string]string
		key   string
	}{
		{"not a url", map[string]string{domain.KeyBaseURL: "not a url"}, domain.KeyBaseURL},
		{"top_k zero", map[string]string{domain.KeyTopK: "0"}, domain.KeyTopK},
		{"top_k too large", map[string]string{domain.KeyTopK: "1000"}, domain.KeyTopK},
		{"negative rate", map[string]string{domain.KeyRequestsPerSecond: "-1"}, domain.KeyRequestsPerSecond},
		{"zero timeout", map[string]string{domain.KeyTimeout: "0s"}, domain.KeyTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(memory.NewConfigStore(tt.store), nil)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.key, verr.Field)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(domain.DefaultClientConfig()))

	cfg := domain.DefaultClientConfig()
	cfg.BaseURL = ""
	err := Validate(cfg)
	assert.ErrorContains(t, err, "server.base_url")
}

func TestNest(t *testing.T) {
	tree := nest(map[string]string{"server.base_url": "x", "query.top_k": "3"})

	assert.Equal(t, map[string]any{
		"server": map[string]any{"base_url": "x"},
		"query":  map[string]any{"top_k": "3"},
	}, tree)
}
