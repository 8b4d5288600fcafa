package config

import (
	"errors"
	"testing"
	"time"

	"weather-proxy/datasource"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "RATE_LIMIT_WINDOW",
		"RATE_LIMIT_MAX", "RATE_LIMIT_PREFIX", "TRUST_PROXY", "UPSTREAM_RPS", "UPSTREAM_BURST", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	if cfg.Port != "3000" || cfg.BaseURL != datasource.DefaultBaseURL {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RateLimit.Window != 15*time.Minute || cfg.RateLimit.Max != 100 || cfg.RateLimit.Prefix != "/api/" {
		t.Fatalf("unexpected rate limit %+v", cfg.RateLimit)
	}
	if cfg.UpstreamRPS != 0 {
		t.Fatalf("upstream throttle should be off, got %v", cfg.UpstreamRPS)
	}
	if cfg.TrustProxy {
		t.Fatal("forwarding headers should not be trusted by default")
	}
	if !errors.Is(cfg.Validate(), ErrMissingAPIKey) {
		t.Fatal("expected missing key error")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("OPENWEATHER_API_KEY", " abc ")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("UPSTREAM_RPS", "0.5")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("TRUST_PROXY", "true")

	cfg := FromEnv()
	if cfg.Port != "8081" || cfg.APIKey != "abc" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.RateLimit.Window != time.Minute || cfg.RateLimit.Max != 10 || cfg.UpstreamRPS != 0.5 {
		t.Fatalf("unexpected limits %+v", cfg)
	}
	if !cfg.TrustProxy {
		t.Fatal("TRUST_PROXY=true should be honoured")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "soon")
	t.Setenv("RATE_LIMIT_MAX", "-3")
	t.Setenv("UPSTREAM_RPS", "fast")

	cfg := FromEnv()
	if cfg.RateLimit.Window != 15*time.Minute || cfg.RateLimit.Max != 100 || cfg.UpstreamRPS != 0 {
		t.Fatalf("invalid values should fall back: %+v", cfg)
	}
}
