package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv(func(string) string { return "" })

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("Expected empty database url, got %s", cfg.DatabaseURL)
	}
	if cfg.PaymentDelay != 2*time.Second {
		t.Errorf("Expected payment delay 2s, got %s", cfg.PaymentDelay)
	}
	if cfg.MaxImages != 4 {
		t.Errorf("Expected 4 images, got %d", cfg.MaxImages)
	}
	if cfg.MaxImageBytes != 5*1024*1024 {
		t.Errorf("Expected 5MiB limit, got %d", cfg.MaxImageBytes)
	}
	if !cfg.SeedCatalog {
		t.Error("Expected catalog seeding to default on")
	}
	if cfg.PayTimeout != 30*time.Second || cfg.SessionIdle != 2*time.Hour {
		t.Errorf("Expected 30s payment timeout and 2h idle, got %s %s", cfg.PayTimeout, cfg.SessionIdle)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":              "9000",
		"DATABASE_URL":      " postgres://localhost/shop ",
		"PAYMENT_DELAY":     "1500ms",
		"CONFIRM_DELAY":     "bogus",
		"MAX_UPLOAD_IMAGES": "6",
		"SEED_CATALOG":      "false",
		"ADMIN_PASSWORD":    "admin123",
	}
	cfg := FromEnv(func(k string) string { return env[k] })

	if cfg.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://localhost/shop" {
		t.Errorf("Expected trimmed database url, got %q", cfg.DatabaseURL)
	}
	if cfg.PaymentDelay != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s, got %s", cfg.PaymentDelay)
	}
	if cfg.ConfirmDelay != 3*time.Second {
		t.Errorf("Expected fallback to 3s, got %s", cfg.ConfirmDelay)
	}
	if cfg.MaxImages != 6 {
		t.Errorf("Expected 6 images, got %d", cfg.MaxImages)
	}
	if cfg.SeedCatalog {
		t.Error("Expected seeding disabled")
	}
	if cfg.AdminPassword != "admin123" {
		t.Errorf("Expected admin password to be read, got %q", cfg.AdminPassword)
	}
}

func TestJWTSecretWithoutEnvIsRandom(t *testing.T) {
	empty := func(string) string { return "" }
	a := FromEnv(empty)
	b := FromEnv(empty)

	if len(a.JWTSecret) != 64 {
		t.Fatalf("Expected a 64 character secret, got %q", a.JWTSecret)
	}
	if a.JWTSecret == b.JWTSecret {
		t.Error("Expected a different secret per process start")
	}
	if a.JWTSecret == "laptopshop-secret-key" {
		t.Error("Expected no built-in secret")
	}
}

func TestJWTSecretFromEnv(t *testing.T) {
	cfg := FromEnv(func(k string) string {
		if k == "JWT_SECRET" {
			return " s3cret "
		}
		return ""
	})
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("Expected secret from env, got %q", cfg.JWTSecret)
	}
}
