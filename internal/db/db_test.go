package db

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "prefs", "smarttask.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSettings(t *testing.T) {
	database := openTestDB(t)

	v, err := database.GetSetting(SettingTheme)
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if v != "" {
		t.Errorf("Expected empty value for unset key, got %q", v)
	}
	if got := database.GetSettingOr(SettingTheme, "light"); got != "light" {
		t.Errorf("Expected default light, got %q", got)
	}

	if err := database.SetSetting(SettingTheme, "dark"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := database.SetSetting(SettingTheme, "light"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	database.SetSetting(SettingSort, "priority")

	if got := database.GetSettingOr(SettingTheme, "dark"); got != "light" {
		t.Errorf("Expected light, got %q", got)
	}

	all, err := database.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if len(all) != 2 || all[SettingSort] != "priority" {
		t.Errorf("Unexpected settings %v", all)
	}
}

func TestDataDirUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if dir != filepath.Join(base, "smarttask") {
		t.Errorf("Expected dir under XDG_DATA_HOME, got %s", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected data dir to be created")
	}
}
