package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g. TIMELINE_LOG_LEVEL
const EnvPrefix = "TIMELINE"

// Config holds user preferences
type Config struct {
	SeedFile      string `yaml:"seed_file" json:"seed_file" envconfig:"SEED_FILE"`                // Timeline to load at start-up, empty for the built-in sample
	SortMode      string `yaml:"sort_mode" json:"sort_mode" envconfig:"SORT_MODE"`                // Upcoming list order: month-day or absolute
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete" envconfig:"CONFIRM_DELETE"` // Require confirmation for delete
	ServerAddr    string `yaml:"server_addr" json:"server_addr" envconfig:"SERVER_ADDR"`          // Listen address of timeline-server

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level" envconfig:"LOG_LEVEL"`       // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file" envconfig:"LOG_FILE"`          // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console" envconfig:"LOG_CONSOLE"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "timeline.log")
	}

	return &Config{
		SortMode:      ledger.SortMonthDay.String(),
		ConfirmDelete: true,
		ServerAddr:    ":8080",
		LogLevel:      "INFO",
		LogFile:       logPath,
		LogConsole:    false,
	}
}

// Dir returns ~/.timeline
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".timeline"), nil
}

// Path returns ~/.timeline/config.yaml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.timeline/config.yaml
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path over the defaults, then applies a .env file from the working
// directory and TIMELINE_* environment variables. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	_ = godotenv.Load()
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have a closed set of options
func (c *Config) Validate() error {
	if _, err := ledger.ParseSortMode(c.SortMode); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Sort returns the configured upcoming sort mode
func (c *Config) Sort() ledger.SortMode {
	mode, _ := ledger.ParseSortMode(c.SortMode)
	return mode
}

// Save saves config to ~/.timeline/config.yaml
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config as YAML, creating the directory if needed
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Logger returns the logger settings for this config
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:      logger.ParseLevel(c.LogLevel),
		FilePath:   c.LogFile,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    c.LogConsole,
	}
}
