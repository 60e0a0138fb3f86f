package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credential store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config drives the crowdfund client.
type Config struct {
	APIBaseURL          string
	StoreDriver         string
	CredentialsFile     string
	CredentialsDB       string
	RequestTimeout      time.Duration
	UpdateRedirectDelay time.Duration
	CheckTokenExpiry    bool
	LogLevel            string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:          getEnv("API_BASE_URL", "http://localhost:8000"),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", DriverFile)),
		CredentialsFile:     getEnv("CREDENTIALS_FILE", defaultStatePath("credentials.json")),
		CredentialsDB:       getEnv("CREDENTIALS_DB", defaultStatePath("credentials.db")),
		RequestTimeout:      getDuration("REQUEST_TIMEOUT", 0),
		UpdateRedirectDelay: getDuration("UPDATE_REDIRECT_DELAY", 1200*time.Millisecond),
		CheckTokenExpiry:    getBool("CHECK_TOKEN_EXPIRY", true),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL")
	}

	switch c.StoreDriver {
	case DriverFile:
		if strings.TrimSpace(c.CredentialsFile) == "" {
			return fmt.Errorf("CREDENTIALS_FILE cannot be empty")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.CredentialsDB) == "" {
			return fmt.Errorf("CREDENTIALS_DB cannot be empty")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of file, sqlite, memory")
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT cannot be negative")
	}

	if c.UpdateRedirectDelay < 0 {
		return fmt.Errorf("UPDATE_REDIRECT_DELAY cannot be negative")
	}

	return nil
}

// DevAPIConfig drives the development backend.
type DevAPIConfig struct {
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	JWTSecret          string
	JWTAccessTTL       time.Duration
	JWTRefreshTTL      time.Duration
	CORSOrigins        []string
	RateLimitRPM       int
	AuthRateLimitRPM   int
	LogLevel           string
}

func LoadDevAPI() (*DevAPIConfig, error) {
	_ = godotenv.Load()

	cfg := &DevAPIConfig{
		Port:               getEnv("DEVAPI_PORT", "8000"),
		ServerReadTimeout:  getDuration("DEVAPI_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("DEVAPI_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("DEVAPI_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("DEVAPI_REQUEST_TIMEOUT", 30*time.Second),
		JWTSecret:          strings.TrimSpace(os.Getenv("DEVAPI_JWT_SECRET")),
		JWTAccessTTL:       getDuration("DEVAPI_ACCESS_TTL", 15*time.Minute),
		JWTRefreshTTL:      getDuration("DEVAPI_REFRESH_TTL", 168*time.Hour),
		CORSOrigins:        splitCSV(getEnv("DEVAPI_CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("DEVAPI_RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:   getInt("DEVAPI_AUTH_RATE_LIMIT_RPM", 10),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *DevAPIConfig) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("DEVAPI_JWT_SECRET is required")
	}

	if c.Port == "" {
		return fmt.Errorf("DEVAPI_PORT cannot be empty")
	}

	if c.JWTAccessTTL <= 0 || c.JWTRefreshTTL <= 0 {
		return fmt.Errorf("DEVAPI_ACCESS_TTL and DEVAPI_REFRESH_TTL must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("DEVAPI_REQUEST_TIMEOUT must be positive")
	}

	if c.RateLimitRPM <= 0 || c.AuthRateLimitRPM <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	return nil
}

func defaultStatePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".crowdfund", name)
	}
	return filepath.Join(home, ".crowdfund", name)
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
