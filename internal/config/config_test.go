package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.RateLimitMax != 100 || cfg.RateLimitWindow != 60*time.Second {
		t.Fatalf("rate limit defaults = %d/%s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.Development() {
		t.Fatal("default environment must not be development")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("SESSION_TTL", "1h")

	cfg := FromEnv()
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if !cfg.Development() {
		t.Fatal("Development() = false")
	}
	if cfg.RateLimitMax != 5 {
		t.Fatalf("RateLimitMax = %d", cfg.RateLimitMax)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("SessionTTL = %s", cfg.SessionTTL)
	}
}

func TestLoadFileOverridesEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("CORS_ORIGIN", "https://env.example")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "listen_addr: \":7777\"\nrate_limit_max: 7\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":7777" {
		t.Fatalf("ListenAddr = %q, want file value", cfg.ListenAddr)
	}
	if cfg.RateLimitMax != 7 {
		t.Fatalf("RateLimitMax = %d", cfg.RateLimitMax)
	}
	// Env values survive where the file is silent.
	if cfg.CORSOrigin != "https://env.example" {
		t.Fatalf("CORSOrigin = %q", cfg.CORSOrigin)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("Load of missing file must error")
	}
}
