package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures the full service configuration. Values come from the
// environment so main stays lean and deployments stay twelve-factor.
type Server struct {
	Addr        string
	Environment string

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers string

	JWTSigningKey string
	TokenTTL      time.Duration

	// Citizen registry (RENAP-style) lookup service.
	RegistryBaseURL  string
	RegistryCacheTTL time.Duration

	// RegistryFallbackCUI, when non-empty, names the single CUI for which a
	// failed registry call is answered with a synthetic record. This is a
	// test seam for environments without registry connectivity and must
	// stay empty in production.
	RegistryFallbackCUI string

	// Delivery registration sessions are discarded after this idle TTL.
	SessionTTL time.Duration

	// Login lockout window.
	LockoutThreshold int
	LockoutWindow    time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:                envOr("SOLIDARIO_ADDR", ":8080"),
		Environment:         envOr("SOLIDARIO_ENV", "development"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		KafkaBrokers:        os.Getenv("KAFKA_BROKERS"),
		JWTSigningKey:       os.Getenv("JWT_SIGNING_KEY"),
		TokenTTL:            durationOr("TOKEN_TTL", 8*time.Hour),
		RegistryBaseURL:     os.Getenv("REGISTRY_BASE_URL"),
		RegistryCacheTTL:    durationOr("REGISTRY_CACHE_TTL", 5*time.Minute),
		RegistryFallbackCUI: os.Getenv("REGISTRY_FALLBACK_CUI"),
		SessionTTL:          durationOr("SESSION_TTL", 2*time.Hour),
		LockoutThreshold:    intOr("LOCKOUT_THRESHOLD", 5),
		LockoutWindow:       durationOr("LOCKOUT_WINDOW", 15*time.Minute),
	}
	if cfg.JWTSigningKey == "" {
		// Development default - must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
