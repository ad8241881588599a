// Package config resolves client configuration from the data-dir yaml
// file with environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultAPIURL = "https://api.tastepass.app"

// Config is the resolved client configuration.
type Config struct {
	APIURL   string `yaml:"api_url"`
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
}

// Load resolves configuration with precedence: env var > config file >
// default. The config file lives at <data dir>/config.yaml; a missing
// file is not an error.
func Load() (*Config, error) {
	dataDir := os.Getenv("TASTEPASS_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".tastepass")
	}

	cfg := &Config{
		APIURL:   defaultAPIURL,
		DataDir:  dataDir,
		LogLevel: "info",
	}

	data, err := os.ReadFile(filepath.Join(dataDir, "config.yaml"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		// The file cannot relocate itself.
		cfg.DataDir = dataDir
	}

	if url := os.Getenv("TASTEPASS_API_URL"); url != "" {
		cfg.APIURL = url
	}
	if level := os.Getenv("TASTEPASS_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// SessionPath is the durable session snapshot location.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}

// LogPath is the client log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "tastepass.log")
}

// DeviceIDPath is the persistent installation-id location.
func (c *Config) DeviceIDPath() string {
	return filepath.Join(c.DataDir, "device_id")
}
