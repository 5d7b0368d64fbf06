// Package config loads process configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds CLI and store configuration.
type Config struct {
	StoreBackend string // memory | file | sqlite | postgres | redis
	StoreDSN     string // path, connection string, or address per backend
	PackPath     string // content pack file; empty selects the embedded pack
	HistoryCap   int
	LogLevel     string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	backend := os.Getenv("HEARTHGUARD_STORE")
	if backend == "" {
		backend = "file"
	}

	dsn := os.Getenv("HEARTHGUARD_STORE_DSN")
	if dsn == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dsn = home + "/.hearthguard/store.json"
	}

	capacity := 0
	if raw := os.Getenv("HEARTHGUARD_HISTORY_CAP"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			capacity = n
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	return &Config{
		StoreBackend: backend,
		StoreDSN:     dsn,
		PackPath:     os.Getenv("HEARTHGUARD_PACK"),
		HistoryCap:   capacity,
		LogLevel:     logLevel,
	}
}
