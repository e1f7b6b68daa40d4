package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/gigflow")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_EXPIRES_MIN", "")

	cfg := Load()

	if cfg.DBDSN != "postgres://localhost/gigflow" {
		t.Fatalf("DBDSN = %q", cfg.DBDSN)
	}
	if cfg.AppPort != "8080" {
		t.Fatalf("AppPort = %q, want default 8080", cfg.AppPort)
	}
	if cfg.JWTExpiresMin != 10080 {
		t.Fatalf("JWTExpiresMin = %d, want default 10080", cfg.JWTExpiresMin)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://db/gigflow")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRES_MIN", "15")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg := Load()

	if cfg.AppPort != "9090" {
		t.Fatalf("AppPort = %q", cfg.AppPort)
	}
	if cfg.JWTExpiresMin != 15 {
		t.Fatalf("JWTExpiresMin = %d", cfg.JWTExpiresMin)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("RedisAddr = %q", cfg.RedisAddr)
	}
}
