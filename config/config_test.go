package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerConfig.Port != 8787 {
		t.Errorf("default port = %d, want 8787", cfg.ServerConfig.Port)
	}
	if cfg.StoreConfig.PageSize != 20 || cfg.StoreConfig.MaxPageSize != 100 {
		t.Errorf("default store config = %+v", cfg.StoreConfig)
	}
	if !cfg.StoreConfig.SeedEnabled {
		t.Error("seeding must default to enabled")
	}
	if cfg.RedisConfig.Enabled || cfg.VaultConfig.Enabled {
		t.Error("redis and vault must default to disabled")
	}
	if cfg.LoggingConfig.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.LoggingConfig.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"server": {"port": 9001, "host": "127.0.0.1"},
		"store": {"page_size": 50},
		"redis": {"enabled": true, "address": "redis:6379"}
	}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerConfig.Port != 9001 || cfg.ServerConfig.Host != "127.0.0.1" {
		t.Errorf("server config = %+v", cfg.ServerConfig)
	}
	if cfg.StoreConfig.PageSize != 50 {
		t.Errorf("page size = %d, want 50", cfg.StoreConfig.PageSize)
	}
	if !cfg.RedisConfig.Enabled || cfg.RedisConfig.Address != "redis:6379" {
		t.Errorf("redis config = %+v", cfg.RedisConfig)
	}
	// Unset sections still get defaults.
	if cfg.StoreConfig.MaxPageSize != 100 {
		t.Errorf("max page size = %d, want default 100", cfg.StoreConfig.MaxPageSize)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"port": 9001}}`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("WEB_PORT", "9002")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("VAULT_ENABLED", "true")
	t.Setenv("VAULT_ADDR", "http://vault:8200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerConfig.Port != 9002 {
		t.Errorf("port = %d, env override must win", cfg.ServerConfig.Port)
	}
	if cfg.LoggingConfig.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LoggingConfig.Level)
	}
	if !cfg.VaultConfig.Enabled || cfg.VaultConfig.Address != "http://vault:8200" {
		t.Errorf("vault config = %+v", cfg.VaultConfig)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	// A malformed file falls back to defaults rather than failing startup.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerConfig.Port != 8787 {
		t.Errorf("port = %d, want default", cfg.ServerConfig.Port)
	}
}
