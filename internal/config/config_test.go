package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("JIRA_URL", "https://example.atlassian.net")
	t.Setenv("JIRA_USERNAME", "bot@example.com")
	t.Setenv("JIRA_API_TOKEN", "secret-token")
}

func TestLoad_Defaults(t *testing.T) {
	setCredentials(t)
	t.Setenv("JIRA_RATE_LIMIT_CALLS", "")
	t.Setenv("JIRA_RATE_LIMIT_PERIOD", "")
	t.Setenv("JIRA_HTTP_TIMEOUT", "")
	t.Setenv("JIRA_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.atlassian.net", cfg.BaseURL)
	assert.Equal(t, DefaultRateLimitCalls, cfg.RateLimitCalls)
	assert.Equal(t, DefaultRateLimitPeriod, cfg.RateLimitPeriod)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("JIRA_RATE_LIMIT_CALLS", "100")
	t.Setenv("JIRA_RATE_LIMIT_PERIOD", "10s")
	t.Setenv("JIRA_HTTP_TIMEOUT", "5s")
	t.Setenv("JIRA_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.RateLimitCalls)
	assert.Equal(t, 10*time.Second, cfg.RateLimitPeriod)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_TrimsTrailingSlash(t *testing.T) {
	setCredentials(t)
	t.Setenv("JIRA_URL", "https://example.atlassian.net/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", cfg.BaseURL)
}

func TestLoad_MissingCredentials(t *testing.T) {
	setCredentials(t)
	t.Setenv("JIRA_API_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JIRA_API_TOKEN")
}

func TestValidate_RateLimitParameters(t *testing.T) {
	base := Config{
		BaseURL:         "https://example.atlassian.net",
		Username:        "bot@example.com",
		APIToken:        "tok",
		RateLimitCalls:  DefaultRateLimitCalls,
		RateLimitPeriod: DefaultRateLimitPeriod,
		HTTPTimeout:     DefaultHTTPTimeout,
	}

	t.Run("valid", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})
	t.Run("zero calls", func(t *testing.T) {
		cfg := base
		cfg.RateLimitCalls = 0
		assert.Error(t, cfg.Validate())
	})
	t.Run("negative period", func(t *testing.T) {
		cfg := base
		cfg.RateLimitPeriod = -time.Second
		assert.Error(t, cfg.Validate())
	})
	t.Run("zero timeout", func(t *testing.T) {
		cfg := base
		cfg.HTTPTimeout = 0
		assert.Error(t, cfg.Validate())
	})
}
