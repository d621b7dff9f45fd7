// Package config loads smarttask settings from defaults, a TOML file, the
// environment and command-line overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tgienger/smarttask/internal/db"
)

// Default values
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	dataFileName = "tasks.json"
	settingsName = "smarttask.db"
	logFileName  = "smarttask.log"
)

// Config holds resolved settings
type Config struct {
	DataFile   string `toml:"data_file"`
	SettingsDB string `toml:"settings_db"`
	Theme      string `toml:"theme"` // empty keeps the theme stored by the UI
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
	LogFile    string `toml:"log_file"`

	// Source is the config file that was read, empty when none was found
	Source string `toml:"-"`
}

// Overrides carries values from command-line flags. Empty fields are ignored.
type Overrides struct {
	ConfigFile string
	DataFile   string
	Theme      string
	LogLevel   string
}

// Load resolves the configuration:
// 1. Defaults
// 2. Config file (--config, or $XDG_CONFIG_HOME/smarttask/config.toml)
// 3. Environment variables
// 4. Flag overrides
func Load(o Overrides) (*Config, error) {
	cfg := &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}

	path := o.ConfigFile
	explicit := path != ""
	if !explicit {
		path = UserConfigFile()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else {
			cfg.Source = path
		}
	}

	loadFromEnv(cfg)
	applyOverrides(cfg, o)

	if err := finalize(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

// UserConfigFile returns the default config file location, or "" if it cannot be determined
func UserConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "smarttask", "config.toml")
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("SMARTTASK_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("SMARTTASK_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("SMARTTASK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SMARTTASK_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.DataFile != "" {
		cfg.DataFile = o.DataFile
	}
	if o.Theme != "" {
		cfg.Theme = o.Theme
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
}

// finalize validates values and fills paths under the data directory
func finalize(cfg *Config) error {
	switch cfg.Theme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("unknown theme %q (want light or dark)", cfg.Theme)
	}
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	if cfg.DataFile != "" && cfg.SettingsDB != "" && cfg.LogFile != "" {
		return nil
	}

	dataDir, err := db.DataDir()
	if err != nil {
		return err
	}
	if cfg.DataFile == "" {
		cfg.DataFile = filepath.Join(dataDir, dataFileName)
	}
	if cfg.SettingsDB == "" {
		cfg.SettingsDB = filepath.Join(dataDir, settingsName)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(dataDir, logFileName)
	}
	return nil
}
