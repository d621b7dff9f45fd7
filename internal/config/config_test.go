package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("SMARTTASK_DATA_FILE", "")
	t.Setenv("SMARTTASK_THEME", "")
	t.Setenv("SMARTTASK_LOG_LEVEL", "")
	t.Setenv("SMARTTASK_LOG_FILE", "")
	return base
}

func TestLoadDefaults(t *testing.T) {
	base := isolate(t)

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "" || cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	wantData := filepath.Join(base, "data", "smarttask", "tasks.json")
	if cfg.DataFile != wantData {
		t.Errorf("Expected data file %s, got %s", wantData, cfg.DataFile)
	}
	if cfg.Source != "" {
		t.Errorf("Expected no config source, got %s", cfg.Source)
	}
}

func TestLoadPrecedence(t *testing.T) {
	base := isolate(t)
	cfgDir := filepath.Join(base, "config", "smarttask")
	os.MkdirAll(cfgDir, 0755)
	content := `
data_file = "/from/file.json"
theme = "dark"
log_level = "debug"
log_format = "json"
`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataFile != "/from/file.json" || cfg.Theme != "dark" || cfg.LogFormat != "json" {
		t.Errorf("Expected file values, got %+v", cfg)
	}
	if cfg.Source == "" {
		t.Error("Expected config source to be recorded")
	}

	t.Setenv("SMARTTASK_DATA_FILE", "/from/env.json")
	t.Setenv("SMARTTASK_LOG_LEVEL", "warn")
	cfg, _ = Load(Overrides{})
	if cfg.DataFile != "/from/env.json" || cfg.LogLevel != "warn" {
		t.Errorf("Expected env to override file, got %+v", cfg)
	}

	cfg, _ = Load(Overrides{DataFile: "/from/flag.json", Theme: "light"})
	if cfg.DataFile != "/from/flag.json" || cfg.Theme != "light" {
		t.Errorf("Expected flags to override env, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	base := isolate(t)

	if _, err := Load(Overrides{ConfigFile: filepath.Join(base, "missing.toml")}); err == nil {
		t.Error("Expected error for explicit missing config file")
	}

	bad := filepath.Join(base, "bad.toml")
	os.WriteFile(bad, []byte("theme = "), 0644)
	if _, err := Load(Overrides{ConfigFile: bad}); err == nil {
		t.Error("Expected error for invalid TOML")
	}

	if _, err := Load(Overrides{Theme: "solarized"}); err == nil {
		t.Error("Expected error for unknown theme")
	}
}
