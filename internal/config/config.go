package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/thenoetrevino/paso-threads/internal/events"
	"github.com/thenoetrevino/paso-threads/internal/models"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	LogLevel    string       `yaml:"log_level"`
	Limits      Limits       `yaml:"limits"`
	Events      EventsConfig `yaml:"events"`
	Render      RenderConfig `yaml:"render"`
	ColorScheme ColorScheme  `yaml:"theme"`
}

// Limits bounds what a single comment may carry
type Limits struct {
	MaxCommentLength int `yaml:"max_comment_length"`
	MaxAttachments   int `yaml:"max_attachments"`
}

// EventsConfig tunes the in-process event bus
type EventsConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// RenderConfig controls how threads are drawn by the CLI
type RenderConfig struct {
	Width    int  `yaml:"width"`
	Markdown bool `yaml:"markdown"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// loadThemeFile loads and merges theme from PASO_THREADS_THEME_FILE environment variable
func loadThemeFile(config *Config) {
	themeFile := os.Getenv("PASO_THREADS_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme ColorScheme `yaml:"theme"`
	}

	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		config.ColorScheme.MergeFrom(themeConfig.Theme)
	}
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		config := Default()
		loadThemeFile(config)
		return config, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads config from path, returning defaults if the file doesn't exist
func LoadFrom(configPath string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := Default()
		loadThemeFile(config)
		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}

	// Load theme from PASO_THREADS_THEME_FILE if set
	loadThemeFile(&config)

	// Fill in any missing values with defaults
	config.applyDefaults()

	if err := config.ColorScheme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return &config, nil
}

// SlogLevel maps LogLevel onto a slog level; unknown values mean info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Explicit override wins
	if path := os.Getenv("PASO_THREADS_CONFIG"); path != "" {
		return path, nil
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "paso-threads", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "paso-threads", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Limits.MaxCommentLength <= 0 {
		c.Limits.MaxCommentLength = models.DefaultMaxCommentLength
	}
	if c.Limits.MaxAttachments <= 0 {
		c.Limits.MaxAttachments = models.DefaultMaxAttachments
	}
	if c.Events.BufferSize <= 0 {
		c.Events.BufferSize = events.DefaultBufferSize
	}
	if c.Render.Width <= 0 {
		c.Render.Width = 80
	}
	c.ColorScheme.ApplyDefaults()
}
