// Package config loads nmnet settings from YAML.
//
// Config file locations (priority order):
//  1. $NMNET_CONFIG
//  2. ./nmnet.yaml
//  3. $XDG_CONFIG_HOME/nmnet/config.yaml
//  4. ~/.config/nmnet/config.yaml
//  5. /etc/nmnet/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"nmnet/logger"
)

const (
	EnvConfigPath  = "NMNET_CONFIG"
	ConfigFileName = "nmnet.yaml"
	ConfigDirName  = "nmnet"
)

// ProbeMode selects how an activated connection is checked for internet
// access.
type ProbeMode string

const (
	ProbeService ProbeMode = "service" // NetworkManager's Connectivity property
	ProbeHTTP    ProbeMode = "http"
	ProbeNone    ProbeMode = "none" // trust activation state
)

type Config struct {
	Logging logger.Config `yaml:"logging"`
	Monitor MonitorConfig `yaml:"monitor"`
	Probe   ProbeConfig   `yaml:"probe"`
	UI      UIConfig      `yaml:"ui"`
}

type MonitorConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type ProbeConfig struct {
	Mode    ProbeMode     `yaml:"mode"`
	URL     string        `yaml:"url,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

type UIConfig struct {
	// AutoRefresh polls the network list in addition to change signals.
	// Zero disables polling.
	AutoRefresh time.Duration `yaml:"auto_refresh"`
	Cache       bool          `yaml:"cache"`
	LogFile     string        `yaml:"log_file"`
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func DefaultConfig() *Config {
	return &Config{
		Logging: logger.DefaultConfig(),
		Monitor: MonitorConfig{Debounce: 500 * time.Millisecond},
		Probe: ProbeConfig{
			Mode:    ProbeService,
			Timeout: 5 * time.Second,
		},
		UI: UIConfig{
			Cache:   true,
			LogFile: "nmnet-debug.log",
		},
	}
}

// applyDefaults fills in values an explicit file left empty.
func (c *Config) applyDefaults() {
	if c.Monitor.Debounce <= 0 {
		c.Monitor.Debounce = 500 * time.Millisecond
	}
	if c.Probe.Mode == "" {
		c.Probe.Mode = ProbeService
	}
	if c.Probe.Timeout <= 0 {
		c.Probe.Timeout = 5 * time.Second
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
}

func (c *Config) Validate() error {
	switch c.Probe.Mode {
	case ProbeService, ProbeHTTP, ProbeNone:
	default:
		return fmt.Errorf("probe.mode: unknown mode %q (want service, http or none)", c.Probe.Mode)
	}
	if c.UI.AutoRefresh < 0 {
		return fmt.Errorf("ui.auto_refresh: must not be negative")
	}
	return nil
}

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	systemPath := filepath.Join("/etc", ConfigDirName, "config.yaml")
	if fileExists(systemPath) {
		return systemPath
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
