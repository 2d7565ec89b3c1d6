package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.StoreDriver != "sqlite" {
		t.Fatalf("expected sqlite store by default, got %q", cfg.StoreDriver)
	}
	if cfg.LocationIntervalMs != 1000 {
		t.Fatalf("expected 1000ms location interval, got %d", cfg.LocationIntervalMs)
	}
	if cfg.LocationDistanceM != 5 {
		t.Fatalf("expected 5m distance filter, got %v", cfg.LocationDistanceM)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("PAIRING_CODE", "424242")
	t.Setenv("LOCATION_INTERVAL_MS", "2000")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.StoreDriver != "redis" {
		t.Fatalf("expected override store driver")
	}
	if cfg.PairingCode != "424242" {
		t.Fatalf("expected override pairing code")
	}
	if cfg.LocationIntervalMs != 2000 {
		t.Fatalf("expected override interval")
	}
}
