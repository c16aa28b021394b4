// Package config reads service configuration from the environment,
// once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the chat service reads from the
// environment. GeminiAPIKey may be empty: the resolver then runs in
// the fully offline degraded mode.
type Config struct {
	Port         int
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string
	LogJSON      bool
	Debug        bool
}

// FromEnv builds a Config from environment variables. DATABASE_URL is
// the only required value.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         8080,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		LogJSON:      os.Getenv("LOG_JSON") == "true",
		Debug:        os.Getenv("DEBUG") == "true",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if port := os.Getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("invalid PORT value %q", port)
		}
		cfg.Port = n
	}

	return cfg, nil
}
