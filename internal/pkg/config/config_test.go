package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	if cfg.Port != "8080" || cfg.Mongo.Database != "thinkstack" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.AuditWorkers != 4 {
		t.Fatalf("unexpected defaults: ttl=%s workers=%d", cfg.TokenTTL, cfg.AuditWorkers)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("development must fall back to a local secret")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_SECRET", "admin")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	if cfg.Port != "9090" || cfg.JWTSecret != "s3cret" || cfg.AdminSecret != "admin" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.TokenTTL != 2*time.Hour || cfg.Redis.DB != 3 {
		t.Fatalf("overrides not applied: ttl=%s db=%d", cfg.TokenTTL, cfg.Redis.DB)
	}
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{Env: "production", TokenTTL: time.Hour}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT secret in production")
	}
}

func TestLoadPortal(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "http://api.internal:8080")
	t.Setenv("PORTAL_TIMEOUT", "3s")

	cfg, err := LoadPortal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://api.internal:8080" || cfg.Timeout != 3*time.Second {
		t.Fatalf("unexpected portal config: %+v", cfg)
	}
}
