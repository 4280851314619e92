package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig `toml:"server"`

	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Security configuration
	Security SecurityConfig `toml:"security"`

	// Opening hand simulator configuration
	OpeningHand OpeningHandConfig `toml:"opening_hand"`

	// Scryfall catalog configuration
	Scryfall ScryfallConfig `toml:"scryfall"`
}

// ServerConfig contains REST API server settings.
type ServerConfig struct {
	Port int `toml:"port"` // HTTP listen port
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to the SQLite database (empty = ~/.deck-vault/data.db)
}

// SecurityConfig contains signing settings.
type SecurityConfig struct {
	// SecretKey signs opening-hand state tokens. The DECKVAULT_SECRET_KEY
	// environment variable takes precedence over the file value.
	SecretKey string `toml:"secret_key"`
}

// OpeningHandConfig contains opening-hand simulator settings.
type OpeningHandConfig struct {
	StateMaxAge    string `toml:"state_max_age"`   // Token lifetime (e.g. "6h")
	PlaceholderURL string `toml:"placeholder_url"` // Image used when the catalog has no art
}

// ScryfallConfig contains catalog client settings.
type ScryfallConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Security: SecurityConfig{
			SecretKey: "",
		},
		OpeningHand: OpeningHandConfig{
			StateMaxAge:    "6h",
			PlaceholderURL: "/static/img/card-placeholder.svg",
		},
		Scryfall: ScryfallConfig{
			BaseURL:   "https://api.scryfall.com",
			UserAgent: "DeckVault/1.0",
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deck-vault")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
// The DECKVAULT_SECRET_KEY environment variable overrides the file's secret key.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if key := os.Getenv("DECKVAULT_SECRET_KEY"); key != "" {
		config.Security.SecretKey = key
	}

	return config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Security.SecretKey == "" {
		return fmt.Errorf("secret key is required (set security.secret_key or DECKVAULT_SECRET_KEY)")
	}

	if _, err := time.ParseDuration(c.OpeningHand.StateMaxAge); err != nil {
		return fmt.Errorf("invalid state max age %q: %w", c.OpeningHand.StateMaxAge, err)
	}

	return nil
}

// GetStateMaxAge returns the opening-hand token lifetime as a duration.
func (c *Config) GetStateMaxAge() (time.Duration, error) {
	return time.ParseDuration(c.OpeningHand.StateMaxAge)
}
