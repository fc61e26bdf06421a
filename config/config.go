package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultAllowOrigins  = "http://127.0.0.1:5500,http://localhost:5500,http://localhost:3000"
	defaultPaymentDelay  = 2 * time.Second
	defaultConfirmDelay  = 3 * time.Second
	defaultMaxImages     = 4
	defaultMaxImageBytes = 5 * 1024 * 1024
	defaultTokenTTL      = 24 * time.Hour
	defaultPayTimeout    = 30 * time.Second
	defaultSessionIdle   = 2 * time.Hour
)

type Config struct {
	Port          string
	DatabaseURL   string
	AllowOrigins  string
	JWTSecret     string
	AdminPassword string
	TokenTTL      time.Duration
	PaymentDelay  time.Duration
	PayTimeout    time.Duration
	ConfirmDelay  time.Duration
	SessionIdle   time.Duration
	MaxImages     int
	MaxImageBytes int64
	SeedCatalog   bool
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults for
// unset or unparsable values.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		Port:          str(getenv("PORT"), defaultPort),
		DatabaseURL:   strings.TrimSpace(getenv("DATABASE_URL")),
		AllowOrigins:  str(getenv("ALLOW_ORIGINS"), defaultAllowOrigins),
		JWTSecret:     strings.TrimSpace(getenv("JWT_SECRET")),
		AdminPassword: getenv("ADMIN_PASSWORD"),
		TokenTTL:      dur(getenv("TOKEN_TTL"), defaultTokenTTL),
		PaymentDelay:  dur(getenv("PAYMENT_DELAY"), defaultPaymentDelay),
		PayTimeout:    dur(getenv("PAYMENT_TIMEOUT"), defaultPayTimeout),
		ConfirmDelay:  dur(getenv("CONFIRM_DELAY"), defaultConfirmDelay),
		SessionIdle:   dur(getenv("SESSION_IDLE_TIMEOUT"), defaultSessionIdle),
		MaxImages:     num(getenv("MAX_UPLOAD_IMAGES"), defaultMaxImages),
		MaxImageBytes: int64(num(getenv("MAX_UPLOAD_BYTES"), defaultMaxImageBytes)),
		SeedCatalog:   getenv("SEED_CATALOG") != "false",
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		log.Warn("JWT_SECRET is not set, using a random secret; tokens will not survive a restart")
	}
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD is not set, admin sign-in is disabled")
	}
	return cfg
}

// randomSecret returns 32 random bytes, hex encoded.
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("generate JWT secret: %v", err)
	}
	return hex.EncodeToString(b)
}

func str(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func dur(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Warnf("invalid duration %q, using %s", v, def)
		return def
	}
	return d
}

func num(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warnf("invalid number %q, using %d", v, def)
		return def
	}
	return n
}
