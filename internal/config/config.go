package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port                 string
	DatabaseURL          string
	JWTSecret            string
	CORSOrigins          []string
	TokenTTL             time.Duration
	SessionPurgeInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// A .env file is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                 getenv("PORT", "8080"),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:            strings.TrimSpace(os.Getenv("JWT_SECRET")),
		CORSOrigins:          splitOrigins(getenv("CORS_ORIGIN", "http://localhost:3000")),
		TokenTTL:             parseHours(os.Getenv("TOKEN_TTL_HOURS"), 30*24*time.Hour),
		SessionPurgeInterval: parseHours(os.Getenv("SESSION_PURGE_INTERVAL_HOURS"), time.Hour),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "todolist.db"
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// splitOrigins accepts a comma-separated list of origins, dropping trailing
// slashes and blanks.
func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimRight(strings.TrimSpace(part), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func parseHours(raw string, def time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return def
	}
	return hours
}
