package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"weather-proxy/datasource"
)

// ErrMissingAPIKey is returned when OPENWEATHER_API_KEY is not set
var ErrMissingAPIKey = errors.New("OPENWEATHER_API_KEY is not set")

// Config represents the application configuration
type Config struct {
	Port    string
	APIKey  string
	BaseURL string

	RateLimit RateLimit

	// TrustProxy honours forwarding headers when identifying clients
	TrustProxy bool

	// Outbound throttle; disabled when RPS is zero
	UpstreamRPS   float64
	UpstreamBurst int

	LogLevel  string
	LogFormat string
}

// RateLimit is the inbound request policy applied to one path prefix
type RateLimit struct {
	Enabled bool
	Prefix  string
	Window  time.Duration
	Max     int
}

// Load reads an optional .env file and then the process environment
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("error loading .env file", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() Config {
	return Config{
		Port:    getEnv("PORT", "3000"),
		APIKey:  strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY")),
		BaseURL: getEnv("OPENWEATHER_BASE_URL", datasource.DefaultBaseURL),
		RateLimit: RateLimit{
			Enabled: true,
			Prefix:  getEnv("RATE_LIMIT_PREFIX", "/api/"),
			Window:  getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			Max:     getEnvInt("RATE_LIMIT_MAX", 100),
		},
		TrustProxy:    getEnvBool("TRUST_PROXY", false),
		UpstreamRPS:   getEnvFloat("UPSTREAM_RPS", 0),
		UpstreamBurst: getEnvInt("UPSTREAM_BURST", 5),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
}

// Validate fails closed when the credential is absent
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && i > 0 {
			return i
		}
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		slog.Warn("ignoring invalid boolean", "key", key, "value", v)
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f >= 0 {
			return f
		}
		slog.Warn("ignoring invalid number", "key", key, "value", v)
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			return d
		}
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
	}
	return def
}
