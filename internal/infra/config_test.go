package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("CacheTTL mismatch: got %v want %v", cfg.CacheTTL, 10*time.Minute)
	}
	if cfg.RateLimitPerMin != 60 {
		t.Fatalf("RateLimitPerMin mismatch: got %d want 60", cfg.RateLimitPerMin)
	}
}

func TestLoadConfigHonorsOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("COMFY_HOST", "http://127.0.0.1:8188")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("CacheTTL mismatch: got %v want %v", cfg.CacheTTL, 30*time.Second)
	}
	if cfg.ComfyHost != "http://127.0.0.1:8188" {
		t.Fatalf("ComfyHost mismatch: got %q", cfg.ComfyHost)
	}
}
