package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads a .env file when one exists, then environment variables.
// Everything has a default; a missing .env is fine in production where the
// environment is set directly.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:            ":8080",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}

	if v := os.Getenv("TIERBOARD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TIERBOARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TIERBOARD_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}

	return cfg
}
