package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "QUERY_TIMEOUT",
		"JWT_SECRET", "JWT_TTL", "GEOCODER_API_KEY", "RECONCILE_INTERVAL", "STORE_MAX_HISTORY",
		"CORS_ALLOWED_ORIGINS", "CROP_TABLE_PATH", "STATIC_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Offline() {
		t.Fatalf("expected offline mode without DATABASE_URL")
	}
	if cfg.Port != "8080" || cfg.DBMaxOpenConns != 25 || cfg.DBMaxIdleConns != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.QueryTimeout != 5*time.Second || cfg.JWTTTL != 24*time.Hour || cfg.ReconcileInterval != time.Hour {
		t.Fatalf("unexpected duration defaults: %+v", cfg)
	}
	if cfg.CORSAllowedOrigins != "*" {
		t.Fatalf("expected CORS default *, got %q", cfg.CORSAllowedOrigins)
	}
}

func TestDatabaseRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/soil?sslmode=disable")

	if _, err := fromEnv(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Offline() {
		t.Fatalf("expected database mode")
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("RECONCILE_INTERVAL", "0")
	t.Setenv("QUERY_TIMEOUT", "2s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.ReconcileInterval != 0 || cfg.QueryTimeout != 2*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DBMaxOpenConns != 25 {
		t.Fatalf("expected fallback to default for malformed int, got %d", cfg.DBMaxOpenConns)
	}
}

func TestInvalidDuration(t *testing.T) {
	clearEnv(t)

	for _, v := range []string{"soon", "-5m"} {
		t.Setenv("JWT_TTL", v)
		if _, err := fromEnv(); err == nil {
			t.Errorf("JWT_TTL=%q: expected error", v)
		}
	}
}
