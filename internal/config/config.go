// Package config loads the dayspent configuration with layered precedence:
// defaults, then the YAML file, then environment variables. Command-line
// flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
)

type Config struct {
	// Database is a SQLite file path or a postgres:// URL.
	Database     string        `yaml:"database"`
	Debug        bool          `yaml:"debug"`
	HistoryLimit int           `yaml:"history_limit"`
	TickInterval time.Duration `yaml:"tick_interval"`
	// SyncInterval is how often long-running views re-read the open session.
	SyncInterval time.Duration `yaml:"sync_interval"`
	Server       ServerConfig  `yaml:"server"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Database:     constants.DefaultConfigPath,
		HistoryLimit: constants.DefaultHistoryLimit,
		TickInterval: constants.DefaultTickInterval,
		SyncInterval: constants.DefaultSyncInterval,
		Server: ServerConfig{
			Addr: constants.DefaultServerAddr,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("database is required")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1")
	}
	if c.TickInterval < 10*time.Millisecond {
		return fmt.Errorf("tick_interval must be at least 10ms")
	}
	if c.SyncInterval < time.Second {
		return fmt.Errorf("sync_interval must be at least 1s")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// LoadFromFile reads path over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from DAYSPENT_DB and DAYSPENT_DEBUG.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(constants.EnvDatabase)); v != "" {
		c.Database = v
	}
	if v := strings.TrimSpace(getenv(constants.EnvDebug)); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", constants.EnvDebug, v, err)
		}
		c.Debug = debug
	}
	return nil
}

// Load applies defaults, the file at path if it exists, then the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if fileCfg, err := LoadFromFile(expanded); err == nil {
		cfg = fileCfg
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath is ~/.config/dayspent/config.yaml.
func DefaultPath() string {
	return filepath.Join(constants.DefaultConfigDir, constants.ConfigFileName)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
