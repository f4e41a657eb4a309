package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is empty")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/docscribe")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected default env to be development")
	}
	if cfg.ExtractorTimeout != 30*time.Second {
		t.Errorf("expected default extractor timeout 30s, got %s", cfg.ExtractorTimeout)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("expected default session TTL 12h, got %s", cfg.SessionTTL)
	}
}

func TestValidate_ProductionNeedsSigningKey(t *testing.T) {
	cfg := &Config{Env: "production", ExtractorURL: "http://extractor", SessionTTL: time.Hour}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SIGNING_KEY in production")
	}
	cfg.JWTSigningKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_ProductionNeedsExtractor(t *testing.T) {
	cfg := &Config{Env: "production", JWTSigningKey: "secret", SessionTTL: time.Hour}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing EXTRACTOR_URL in production")
	}
}

func TestValidate_DevIsPermissive(t *testing.T) {
	cfg := &Config{Env: "development", SessionTTL: time.Hour}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
