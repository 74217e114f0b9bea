package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultDatabaseURL  = "file:travelagency.db"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTTTL       = "12h"
	defaultPublicOrigin = "http://localhost:8080"
	defaultAdminEmail   = "admin@agency.local"
)

// Config is the full runtime configuration, sourced from the environment.
type Config struct {
	AppEnv       string
	Port         string
	DatabaseURL  string
	JWTSecret    string
	JWTTTL       time.Duration
	PublicOrigin string
	// CORSAllowedOrigins is the browser-facing allow list; PublicOrigin is
	// the single origin trusted for context save requests.
	CORSAllowedOrigins []string
	AdminEmail         string
	AdminPassword      string
	StaffEmails        []string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.PublicOrigin = strings.TrimSpace(getEnv("PUBLIC_ORIGIN", defaultPublicOrigin))
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", cfg.PublicOrigin))
	cfg.AdminEmail = strings.TrimSpace(getEnv("ADMIN_EMAIL", defaultAdminEmail))
	cfg.AdminPassword = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))
	cfg.StaffEmails = splitList(os.Getenv("STAFF_EMAILS"))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.PublicOrigin == "" {
		return fmt.Errorf("PUBLIC_ORIGIN must not be empty")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.AdminPassword == "" {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
