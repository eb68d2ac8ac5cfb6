// filepath: internal/config/config.go
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"pantry/internal/shared"
	"time"

	"github.com/BurntSushi/toml"
)

// Supported UI themes.
var validThemes = map[string]bool{"light": true, "dark": true}

// Config holds the application's configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Backup   BackupConfig   `toml:"backup"`
	Settings SettingsConfig `toml:"settings"`

	BackupMaxAge time.Duration `toml:"-"` // Runtime computed value
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	Path      string `toml:"path"`
	BackupDir string `toml:"backup_dir"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// BackupConfig holds the retention rules for backups written to BackupDir.
type BackupConfig struct {
	MaxAge   string `toml:"max_age"`   // e.g. "30d", "0" disables
	MaxCount int    `toml:"max_count"` // 0 disables
}

// SettingsConfig holds user facing settings persisted next to the database.
type SettingsConfig struct {
	APIKey string `toml:"api_key"`
	Theme  string `toml:"theme"`
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
// Used to persist the generated API key and theme changes.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trying to save the config: %w", shared.ErrorCreateFile)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("trying to save the config: %w", shared.ErrorEncodeFile)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values.
// It sets defaults if values are missing.
func (c *Config) ParseAndValidate() error {
	if c.Settings.Theme == "" {
		c.Settings.Theme = "light"
	}
	if !validThemes[c.Settings.Theme] {
		return fmt.Errorf("invalid theme: %s", c.Settings.Theme)
	}

	if c.Backup.MaxAge == "" {
		c.Backup.MaxAge = "30d"
	}
	maxAge, err := shared.ParseDuration(c.Backup.MaxAge)
	if err != nil {
		return fmt.Errorf("invalid backup max_age: %w", err)
	}
	c.BackupMaxAge = maxAge

	if c.Backup.MaxCount < 0 {
		return fmt.Errorf("invalid backup max_count: %d", c.Backup.MaxCount)
	}

	return nil
}

// SetTheme validates and applies a theme.
func (c *Config) SetTheme(theme string) error {
	if !validThemes[theme] {
		return fmt.Errorf("invalid theme: %s", theme)
	}
	c.Settings.Theme = theme
	return nil
}

// GenerateAPIKey creates a cryptographically secure random key.
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, 32) // 256 bits
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// EnsureAPIKey generates a key if none is configured. The returned bool
// reports whether the config was changed and needs saving.
func (c *Config) EnsureAPIKey() (bool, error) {
	if c.Settings.APIKey != "" {
		return false, nil
	}
	key, err := GenerateAPIKey()
	if err != nil {
		return false, fmt.Errorf("failed to generate API key: %w", err)
	}
	c.Settings.APIKey = key
	return true, nil
}
