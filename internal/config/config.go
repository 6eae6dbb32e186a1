package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Defaults for the picre image source.
const (
	DefaultURL       = "https://pic.re/image"
	DefaultOutputDir = "picre_varied_images"
)

// Config defines configuration for the trawl CLI.
type Config struct {
	URL       string        `yaml:"url"`
	Output    string        `yaml:"output"`
	Prefix    string        `yaml:"prefix"`
	Extension string        `yaml:"extension"`
	Count     int           `yaml:"count"`
	Workers   int           `yaml:"workers"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
	Progress  bool          `yaml:"progress"`
	LogLevel  string        `yaml:"log_level"`
	UserAgent string        `yaml:"user_agent"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		URL:       DefaultURL,
		Output:    DefaultOutput(),
		Prefix:    "image",
		Extension: ".webp",
		Workers:   4,
		Timeout:   10 * time.Second,
		Burst:     1,
		LogLevel:  "info",
	}
}

// DefaultOutput returns ~/Documents/picre_varied_images, or a relative
// directory when the home directory is unknown.
func DefaultOutput() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultOutputDir
	}
	return filepath.Join(home, "Documents", DefaultOutputDir)
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	URL       string  `yaml:"url"`
	Output    string  `yaml:"output"`
	Prefix    string  `yaml:"prefix"`
	Extension string  `yaml:"extension"`
	Count     int     `yaml:"count"`
	Workers   int     `yaml:"workers"`
	Timeout   string  `yaml:"timeout"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
	Progress  bool    `yaml:"progress"`
	LogLevel  string  `yaml:"log_level"`
	UserAgent string  `yaml:"user_agent"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.URL != "" {
		cfg.URL = yc.URL
	}
	if yc.Output != "" {
		cfg.Output = expandHome(yc.Output)
	}
	if yc.Prefix != "" {
		cfg.Prefix = yc.Prefix
	}
	if yc.Extension != "" {
		cfg.Extension = yc.Extension
	}
	if yc.Count != 0 {
		cfg.Count = yc.Count
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.RateLimit != 0 {
		cfg.RateLimit = yc.RateLimit
	}
	if yc.Burst != 0 {
		cfg.Burst = yc.Burst
	}
	cfg.Progress = yc.Progress
	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}
	if yc.UserAgent != "" {
		cfg.UserAgent = yc.UserAgent
	}

	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error. Variables already set are kept.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the TRAWL_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("TRAWL_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("TRAWL_OUTPUT"); v != "" {
		c.Output = expandHome(v)
	}
	if v := os.Getenv("TRAWL_PREFIX"); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv("TRAWL_EXTENSION"); v != "" {
		c.Extension = v
	}
	if v := os.Getenv("TRAWL_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse TRAWL_COUNT: %w", err)
		}
		c.Count = n
	}
	if v := os.Getenv("TRAWL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse TRAWL_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("TRAWL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse TRAWL_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("TRAWL_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse TRAWL_RATE_LIMIT: %w", err)
		}
		c.RateLimit = f
	}
	if v := os.Getenv("TRAWL_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse TRAWL_BURST: %w", err)
		}
		c.Burst = n
	}
	if v := os.Getenv("TRAWL_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("TRAWL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TRAWL_USER_AGENT"); v != "" {
		c.UserAgent = v
	}

	return nil
}

// Validate validates the configuration. Count may still be zero; the CLI
// asks for it before a run.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("config: URL is required")
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}
	if c.Prefix == "" {
		return errors.New("config: prefix is required")
	}
	if c.Extension == "" {
		return errors.New("config: extension is required")
	}
	if c.Count < 0 {
		return errors.New("config: count must not be negative")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.RateLimit < 0 {
		return errors.New("config: rate_limit must not be negative")
	}
	if c.Burst < 0 {
		return errors.New("config: burst must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.URL != "" {
		c.URL = override.URL
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.Prefix != "" {
		c.Prefix = override.Prefix
	}
	if override.Extension != "" {
		c.Extension = override.Extension
	}
	if override.Count != 0 {
		c.Count = override.Count
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.RateLimit != 0 {
		c.RateLimit = override.RateLimit
	}
	if override.Burst != 0 {
		c.Burst = override.Burst
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
	if override.UserAgent != "" {
		c.UserAgent = override.UserAgent
	}
	return c
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if len(path) < 2 || path[0] != '~' || (path[1] != '/' && path[1] != filepath.Separator) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
