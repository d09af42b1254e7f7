package mealie

import (
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config configures the Mealie client.
type Config struct {
	// BaseURL is the root URL of the Mealie instance, e.g. https://mealie.example.com.
	// Required.
	BaseURL string `env:"MEALIE_URL"`

	// APIToken is a long-lived Mealie API token sent as a bearer token.
	// Required.
	APIToken string `env:"MEALIE_API_TOKEN"`

	// Timeout bounds every upstream HTTP call.
	// Defaults to 30 seconds.
	Timeout time.Duration `env:"MEALIE_TIMEOUT"`

	// Debug enables request and response logging of all upstream calls.
	// Overrides LogLevel.
	Debug bool `env:"MEALIE_MCP_DEBUG"`

	// LogLevel is a zerolog level name. Defaults to "info".
	LogLevel string `env:"MEALIE_MCP_LOG_LEVEL"`

	// LogFormat selects "console" or "json" log output. Defaults to "console".
	LogFormat string `env:"MEALIE_MCP_LOG_FORMAT"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// ConfigFromEnv reads configuration from environment variables.
//
//	MEALIE_URL            → BaseURL
//	MEALIE_API_TOKEN      → APIToken
//	MEALIE_TIMEOUT        → Timeout (Go duration, e.g. "45s")
//	MEALIE_MCP_DEBUG      → Debug
//	MEALIE_MCP_LOG_LEVEL  → LogLevel
//	MEALIE_MCP_LOG_FORMAT → LogFormat
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, &ConfigurationError{Field: "env", Message: err.Error()}
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
// Returns *ConfigurationError for invalid fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &ConfigurationError{Field: "BaseURL", Message: "required: set MEALIE_URL"}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ConfigurationError{Field: "BaseURL", Message: "must be an absolute http(s) URL"}
	}

	if c.APIToken == "" {
		return &ConfigurationError{Field: "APIToken", Message: "required: set MEALIE_API_TOKEN"}
	}

	if c.Timeout <= 0 {
		return &ConfigurationError{Field: "Timeout", Message: "must be positive"}
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return &ConfigurationError{Field: "LogLevel", Message: err.Error()}
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return &ConfigurationError{Field: "LogFormat", Message: `must be "console" or "json"`}
	}

	return nil
}

// WithDefaults fills in default values for unset fields.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()

	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")

	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}

	return c
}
