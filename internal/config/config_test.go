package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"POS_STORE", "POS_LOG_LEVEL", "POS_DATABASE_URL", "DATABASE_URL",
		"POS_SESSION_PATH", "POS_SESSION_KEY_PATH",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store != StorePostgres {
		t.Errorf("store = %q, want postgres", cfg.Store)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.DatabaseURL == "" || cfg.SessionPath == "" || cfg.SessionKeyPath == "" {
		t.Errorf("incomplete defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
store: memory
log_level: debug
database:
  url: postgres://example/db
session:
  path: /tmp/pos-test/session
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("store = %q, want memory", cfg.Store)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.DatabaseURL != "postgres://example/db" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.SessionPath != "/tmp/pos-test/session" {
		t.Errorf("session path = %q", cfg.SessionPath)
	}
	// Values the file omits keep their defaults.
	if cfg.SessionKeyPath == "" {
		t.Error("session key path lost its default")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: postgres\nlog_level: info\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("POS_STORE", "memory")
	t.Setenv("POS_LOG_LEVEL", "warn")
	t.Setenv("DATABASE_URL", "postgres://from-env/db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("store = %q, want env value", cfg.Store)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q, want env value", cfg.LogLevel)
	}
	if cfg.DatabaseURL != "postgres://from-env/db" {
		t.Errorf("database url = %q, want env value", cfg.DatabaseURL)
	}
}

func TestLoadPrefersPOSDatabaseURL(t *testing.T) {
	clearEnv(t)

	t.Setenv("DATABASE_URL", "postgres://generic/db")
	t.Setenv("POS_DATABASE_URL", "postgres://specific/db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DatabaseURL != "postgres://specific/db" {
		t.Errorf("database url = %q, want the POS_ variant", cfg.DatabaseURL)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	clearEnv(t)

	t.Setenv("POS_STORE", "redis")
	if _, err := Load(""); err == nil {
		t.Error("Load() accepted an unknown store")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() accepted a missing config file")
	}
}
