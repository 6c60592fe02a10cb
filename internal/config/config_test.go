package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-project" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.API.Workers != 4 {
			t.Fatalf("expected 4 workers, got %d", cfg.API.Workers)
		}
		if cfg.API.Delay != 250*time.Millisecond {
			t.Fatalf("expected 250ms delay, got %s", cfg.API.Delay)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\ninput:\n  dir: ./in\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Input.Extension != ".txt" {
			t.Fatalf("expected .txt extension, got %q", cfg.Input.Extension)
		}
		if cfg.Output.RecordsFile != "records_data.json" || cfg.Output.IdentitiesFile != "player_uuids.json" {
			t.Fatalf("unexpected output defaults: %+v", cfg.Output)
		}
		if cfg.API.Workers != 10 || cfg.API.Delay != 100*time.Millisecond || cfg.API.Timeout != 10*time.Second {
			t.Fatalf("unexpected api defaults: %+v", cfg.API)
		}
	})

	t.Run("env overrides dsn", func(t *testing.T) {
		t.Setenv(envDatabaseDSN, "sqlite://:memory:")
		path := writeTempConfig(t, "project: test\nversion: 1\ninput:\n  dir: ./in\ndatabase:\n  dsn: postgres://localhost/records\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Database.DSN != "sqlite://:memory:" {
			t.Fatalf("expected env dsn, got %q", cfg.Database.DSN)
		}
	})

	t.Run("missing project name", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ninput:\n  dir: ./in\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 2\ninput:\n  dir: ./in\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing input dir", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("extension without dot", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\ninput:\n  dir: ./in\n  extension: txt\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("negative workers", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\ninput:\n  dir: ./in\napi:\n  workers: -1\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "project: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
