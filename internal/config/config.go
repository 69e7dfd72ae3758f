// Package config provides configuration management for HRChat.
// Values are resolved with the priority: environment variables > local .env >
// config file > defaults. The config file also stores the durable theme
// preference.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"hrchat/internal/api"
	"hrchat/internal/logger"
)

// Default endpoints of the production deployment.
const (
	DefaultStoreURL  = "https://bot-backend-rpqo.onrender.com"
	DefaultAnswerURL = "https://oezekielanim-hr-policy.hf.space/ask"
)

// Config resolves and persists HRChat settings.
type Config struct {
	v          *viper.Viper
	configDir  string
	configPath string
}

// New loads configuration from the default config directory
// (~/.config/hrchat).
func New() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewWithDir(filepath.Join(home, ".config", "hrchat"))
}

// NewWithDir loads configuration rooted at the given directory. Tests use it
// with a temporary directory.
func NewWithDir(dir string) (*Config, error) {
	c := &Config{
		v:          viper.New(),
		configDir:  dir,
		configPath: filepath.Join(dir, "config.yaml"),
	}

	// A local .env takes effect before viper reads the environment
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env file")
	}
	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err == nil {
		logger.Debug("Loaded config .env file", "path", envPath)
	}

	c.v.SetDefault("store_url", DefaultStoreURL)
	c.v.SetDefault("answer_url", DefaultAnswerURL)
	c.v.SetDefault("theme", "")
	c.v.SetDefault("log_level", "")
	c.v.SetDefault("log_file", "")
	c.v.SetDefault("allowed_domains", api.DefaultAllowedDomains)

	c.v.SetEnvPrefix("HRCHAT")
	c.v.AutomaticEnv()

	c.v.SetConfigFile(c.configPath)
	if err := c.v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to read config file", "path", c.configPath, "error", err)
	}

	return c, nil
}

// StoreURL returns the conversation store base URL.
func (c *Config) StoreURL() string {
	return c.v.GetString("store_url")
}

// AnswerURL returns the answer service endpoint.
func (c *Config) AnswerURL() string {
	return c.v.GetString("answer_url")
}

// Theme returns the stored theme preference, empty when none was saved.
func (c *Config) Theme() string {
	return c.v.GetString("theme")
}

// LogLevel returns the configured log level ("" means default).
func (c *Config) LogLevel() string {
	return c.v.GetString("log_level")
}

// LogFile returns the configured log file path ("" means stderr).
func (c *Config) LogFile() string {
	return c.v.GetString("log_file")
}

// Email returns the sign-in email for non-interactive login, usually set via
// HRCHAT_EMAIL or a .env file.
func (c *Config) Email() string {
	return c.v.GetString("email")
}

// Password returns the sign-in password for non-interactive login.
// It is read from the environment only and never persisted.
func (c *Config) Password() string {
	return c.v.GetString("password")
}

// AllowedDomains returns the corporate email allow-list.
func (c *Config) AllowedDomains() []string {
	return c.v.GetStringSlice("allowed_domains")
}

// PersistTheme writes the theme preference to the config file. Called from
// the theme set/toggle handlers the moment the preference changes.
func (c *Config) PersistTheme(name string) error {
	c.v.Set("theme", name)
	if err := os.MkdirAll(c.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := c.v.WriteConfigAs(c.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	logger.Debug("Theme preference saved", "theme", name, "path", c.configPath)
	return nil
}
