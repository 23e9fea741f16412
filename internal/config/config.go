package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values applied when the config file is missing or partial.
const (
	DefaultAPIBaseURL     = "https://api.stockr.app"
	DefaultAuthBaseURL    = "https://identity.stockr.app"
	DefaultRefreshSeconds = 30
)

// Config holds the CLI configuration.
type Config struct {
	APIBaseURL     string `yaml:"api_base_url"`
	AuthBaseURL    string `yaml:"auth_base_url"`
	PortfolioID    string `yaml:"portfolio_id"`
	RefreshSeconds int    `yaml:"refresh_seconds"`
}

// ConfigDir returns the directory holding stockr configuration.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/stockr.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stockr")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stockr")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config from the given path. A missing file yields a config
// populated with defaults rather than an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to the given path, creating parent directories with
// 0700 permissions. The file is written with 0600 permissions.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.AuthBaseURL == "" {
		c.AuthBaseURL = DefaultAuthBaseURL
	}
	if c.RefreshSeconds <= 0 {
		c.RefreshSeconds = DefaultRefreshSeconds
	}
}
