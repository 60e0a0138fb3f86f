package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "STORE_DRIVER", "CREDENTIALS_FILE", "REQUEST_TIMEOUT", "UPDATE_REDIRECT_DELAY", "CHECK_TOKEN_EXPIRY", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Zero(t, cfg.RequestTimeout)
	assert.Equal(t, 1200*time.Millisecond, cfg.UpdateRedirectDelay)
	assert.True(t, cfg.CheckTokenExpiry)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Contains(t, cfg.CredentialsFile, "credentials.json")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("CREDENTIALS_DB", "/tmp/creds.db")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("UPDATE_REDIRECT_DELAY", "10ms")
	t.Setenv("CHECK_TOKEN_EXPIRY", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/creds.db", cfg.CredentialsDB)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.UpdateRedirectDelay)
	assert.False(t, cfg.CheckTokenExpiry)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{APIBaseURL: "http://localhost:8000", StoreDriver: DriverFile, CredentialsFile: "creds.json"}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "memory driver", mutate: func(c *Config) { c.StoreDriver = DriverMemory; c.CredentialsFile = "" }, ok: true},
		{name: "relative url", mutate: func(c *Config) { c.APIBaseURL = "localhost:8000" }},
		{name: "ftp url", mutate: func(c *Config) { c.APIBaseURL = "ftp://example.com" }},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "redis" }},
		{name: "file driver without path", mutate: func(c *Config) { c.CredentialsFile = " " }},
		{name: "sqlite driver without path", mutate: func(c *Config) { c.StoreDriver = DriverSQLite }},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }},
		{name: "negative redirect delay", mutate: func(c *Config) { c.UpdateRedirectDelay = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadDevAPIRequiresSecret(t *testing.T) {
	t.Setenv("DEVAPI_JWT_SECRET", "")

	_, err := LoadDevAPI()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEVAPI_JWT_SECRET")
}

func TestLoadDevAPIDefaults(t *testing.T) {
	t.Setenv("DEVAPI_JWT_SECRET", "secret")
	t.Setenv("DEVAPI_PORT", "")
	t.Setenv("DEVAPI_CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000")

	cfg, err := LoadDevAPI()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.AuthRateLimitRPM)
	assert.Equal(t, 100, cfg.RateLimitRPM)
}
