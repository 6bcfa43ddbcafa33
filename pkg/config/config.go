package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	dataFileName  = "kv.txt"
	dotFileName   = ".kv.txt"
	defaultLevel  = "warn"
	defaultFormat = "text"
)

type Config struct {
	File      string `yaml:"file"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// LoadConfig loads configuration from a YAML file if path is provided,
// otherwise from the default config location when it exists. Environment
// variables override values read from YAML.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			// An explicitly provided path must exist
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if def := DefaultConfigPath(); def != "" {
		data, err := os.ReadFile(def)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", def, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	// Set defaults if not provided
	if cfg.File == "" {
		file, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		cfg.File = file
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultFormat
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log_format %q (want text or json)", cfg.LogFormat)
	}

	return &cfg, nil
}

// DefaultFilePath returns $XDG_DATA_HOME/kv.txt when XDG_DATA_HOME is an
// existing directory and $HOME/.kv.txt otherwise.
func DefaultFilePath() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return filepath.Join(dir, dataFileName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate store file: %w", err)
	}
	return filepath.Join(home, dotFileName), nil
}

// DefaultConfigPath returns the config file consulted when no explicit path
// is given, or "" if no config directory can be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kv", "config.yaml")
}

// applyEnvOverrides allows environment variables to override YAML config values
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KV_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("KV_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("KV_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
