// Package config loads the site configuration from .snapai/config.yaml with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all SnapAI configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Chat completion service
	Chat ChatConfig `yaml:"chat"`

	// Persistence
	Database DatabaseConfig `yaml:"database"`

	// Admin console gate (placeholder credentials, not a security boundary)
	Admin AdminConfig `yaml:"admin"`

	// Waitlist gate flag file
	GatePath string `yaml:"gate_path"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ChatConfig configures the Gemini-backed assistant.
type ChatConfig struct {
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// DatabaseConfig configures the SQLite table store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AdminConfig holds the admin console credentials.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Name:    "snapai",
		Version: "1.0.0",
		Chat: ChatConfig{
			Model:       "gemini-2.0-flash",
			MaxAttempts: 3,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(".snapai", "site.db"),
		},
		Admin: AdminConfig{
			Username: "snapadmin",
			Password: "0105",
		},
		GatePath: filepath.Join(".snapai", "waitlist_active"),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigPath returns the config file location under the workspace.
func ConfigPath(workspace string) string {
	return filepath.Join(workspace, ".snapai", "config.yaml")
}

// Load reads the config file under the workspace, falling back to defaults
// when it does not exist, then applies environment overrides. Relative paths
// in the file are resolved against the workspace.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath(workspace))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(workspace, cfg.Database.Path)
	}
	if !filepath.IsAbs(cfg.GatePath) {
		cfg.GatePath = filepath.Join(workspace, cfg.GatePath)
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Chat.APIKey = v
	}
	if v := os.Getenv("SNAPAI_CHAT_MODEL"); v != "" {
		c.Chat.Model = v
	}
	if v := os.Getenv("SNAPAI_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("SNAPAI_ADMIN_USER"); v != "" {
		c.Admin.Username = v
	}
	if v := os.Getenv("SNAPAI_ADMIN_PASS"); v != "" {
		c.Admin.Password = v
	}
}

// Save writes the config file under the workspace.
func (c *Config) Save(workspace string) error {
	path := ConfigPath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
