package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HEARTHGUARD_STORE", "")
	t.Setenv("HEARTHGUARD_STORE_DSN", "")
	t.Setenv("HEARTHGUARD_PACK", "")
	t.Setenv("HEARTHGUARD_HISTORY_CAP", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Contains(t, cfg.StoreDSN, ".hearthguard/store.json")
	assert.Empty(t, cfg.PackPath)
	assert.Equal(t, 0, cfg.HistoryCap)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_Explicit(t *testing.T) {
	t.Setenv("HEARTHGUARD_STORE", "sqlite")
	t.Setenv("HEARTHGUARD_STORE_DSN", "/tmp/kv.db")
	t.Setenv("HEARTHGUARD_PACK", "/tmp/pack.yaml")
	t.Setenv("HEARTHGUARD_HISTORY_CAP", "12")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "/tmp/kv.db", cfg.StoreDSN)
	assert.Equal(t, "/tmp/pack.yaml", cfg.PackPath)
	assert.Equal(t, 12, cfg.HistoryCap)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoad_BadHistoryCapIgnored(t *testing.T) {
	t.Setenv("HEARTHGUARD_HISTORY_CAP", "a lot")
	cfg := Load()
	assert.Equal(t, 0, cfg.HistoryCap)
}
