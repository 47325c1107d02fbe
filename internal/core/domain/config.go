package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Configuration defaults.
const (
	DefaultBaseURL      = "http://localhost:8080/api"
	DefaultTimeout      = 120 * time.Second
	DefaultPollInterval = 2 * time.Second
)

// ClientConfig is passed explicitly to every service client.
type ClientConfig struct {
	// BaseURL is the service root, e.g. http://localhost:8080/api.
	BaseURL string `validate:"required,url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `validate:"gt=0"`

	// TopK is the number of sources requested per question.
	TopK int `validate:"min=1,max=100"`

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64 `validate:"gte=0"`

	// PollInterval is the delay between list refreshes while documents are indexing.
	PollInterval time.Duration `validate:"gt=0"`

	// LogFile receives logs while the TUI owns the terminal. Empty disables file logging.
	LogFile string
}

// DefaultClientConfig returns the documented defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		TopK:         DefaultTopK,
		PollInterval: DefaultPollInterval,
	}
}

// Setting keys persisted in the settings file and read from DOCQA_* variables.
const (
	KeyBaseURL           = "server.base_url"
	KeyTimeout           = "server.timeout"
	KeyRequestsPerSecond = "server.requests_per_second"
	KeyTopK              = "query.top_k"
	KeyPollInterval      = "documents.poll_interval"
	KeyLogFile           = "log.file"
)

// SettingKey describes one configurable setting.
type SettingKey struct {
	Key         string
	Description string
}

// SettingKeys lists every setting in display order.
var SettingKeys = []SettingKey{
	{KeyBaseURL, "Service root URL"},
	{KeyTimeout, "Per-request timeout (e.g. 30s, 2m)"},
	{KeyRequestsPerSecond, "Outgoing request limit, 0 for unlimited"},
	{KeyTopK, "Sources retrieved per question"},
	{KeyPollInterval, "Delay between refreshes while documents index"},
	{KeyLogFile, "Rotating log file used while the TUI runs"},
}

// IsSettingKey returns true if key names a known setting.
func IsSettingKey(key string) bool {
	for _, k := range SettingKeys {
		if k.Key == key {
			return true
		}
	}
	return false
}

// Apply parses value into the field named by key.
func (c *ClientConfig) Apply(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyBaseURL:
		c.BaseURL = value
	case KeyTimeout, KeyPollInterval:
		d, err := time.ParseDuration(value)
		if err != nil {
			return NewValidationError(key, fmt.Sprintf("%s must be a duration such as 30s", key))
		}
		if key == KeyTimeout {
			c.Timeout = d
		} else {
			c.PollInterval = d
		}
	case KeyRequestsPerSecond:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return NewValidationError(key, fmt.Sprintf("%s must be a number", key))
		}
		c.RequestsPerSecond = f
	case KeyTopK:
		n, err := strconv.Atoi(value)
		if err != nil {
			return NewValidationError(key, fmt.Sprintf("%s must be an integer", key))
		}
		c.TopK = n
	case KeyLogFile:
		c.LogFile = value
	default:
		return NewValidationError(key, fmt.Sprintf("unknown setting %q", key))
	}
	return nil
}

// Value renders the field named by key.
func (c ClientConfig) Value(key string) string {
	switch key {
	case KeyBaseURL:
		return c.BaseURL
	case KeyTimeout:
		return c.Timeout.String()
	case KeyPollInterval:
		return c.PollInterval.String()
	case KeyRequestsPerSecond:
		return strconv.FormatFloat(c.RequestsPerSecond, 'f', -1, 64)
	case KeyTopK:
		return strconv.Itoa(c.TopK)
	case KeyLogFile:
		return c.LogFile
	default:
		return ""
	}
}
