// Package config loads the Jira connection and rate-limit settings from
// the environment. Configuration is immutable after Load: the server never
// reloads credentials at runtime.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultRateLimitCalls  = 30
	DefaultRateLimitPeriod = 60 * time.Second
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultLogLevel        = "info"
)

// Config holds everything the Jira client needs at construction time.
type Config struct {
	// BaseURL is the Jira instance root, e.g. https://company.atlassian.net.
	BaseURL string
	// Username and APIToken authenticate via HTTP basic auth.
	Username string
	APIToken string

	// RateLimitCalls API calls are allowed per RateLimitPeriod.
	RateLimitCalls  int
	RateLimitPeriod time.Duration

	// HTTPTimeout bounds each request at the transport level. There is
	// no retry on timeout.
	HTTPTimeout time.Duration

	LogLevel string
}

// Load reads configuration from JIRA_* environment variables and applies
// defaults for everything but the credentials.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("jira")
	v.AutomaticEnv()

	// Explicit binds so the keys resolve from the environment without a
	// config file present.
	for _, key := range []string{
		"url", "username", "api_token",
		"rate_limit_calls", "rate_limit_period",
		"http_timeout", "log_level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", key, err)
		}
	}

	v.SetDefault("rate_limit_calls", DefaultRateLimitCalls)
	v.SetDefault("rate_limit_period", DefaultRateLimitPeriod.String())
	v.SetDefault("http_timeout", DefaultHTTPTimeout.String())
	v.SetDefault("log_level", DefaultLogLevel)

	cfg := &Config{
		BaseURL:         strings.TrimRight(strings.TrimSpace(v.GetString("url")), "/"),
		Username:        strings.TrimSpace(v.GetString("username")),
		APIToken:        v.GetString("api_token"),
		RateLimitCalls:  v.GetInt("rate_limit_calls"),
		RateLimitPeriod: v.GetDuration("rate_limit_period"),
		HTTPTimeout:     v.GetDuration("http_timeout"),
		LogLevel:        v.GetString("log_level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that credentials are present and the rate-limit and
// timeout parameters are usable. Violations are fatal at construction.
func (c *Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "JIRA_URL")
	}
	if c.Username == "" {
		missing = append(missing, "JIRA_USERNAME")
	}
	if c.APIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return errors.New("jira configuration is incomplete: missing " + strings.Join(missing, ", "))
	}

	if c.RateLimitCalls <= 0 {
		return fmt.Errorf("JIRA_RATE_LIMIT_CALLS must be positive, got %d", c.RateLimitCalls)
	}
	if c.RateLimitPeriod <= 0 {
		return fmt.Errorf("JIRA_RATE_LIMIT_PERIOD must be positive, got %s", c.RateLimitPeriod)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("JIRA_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
