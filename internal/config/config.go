// Package config loads application configuration from an optional YAML file
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	BaseURL     string `yaml:"base_url"`
	DefaultUser string `yaml:"default_user"`
	ListenAddr  string `yaml:"listen_addr"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	HTTPCache   bool   `yaml:"http_cache"`
	RateLimit   bool   `yaml:"rate_limit"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		BaseURL:     "https://api.github.com/users",
		DefaultUser: "Apple",
		ListenAddr:  "127.0.0.1:8080",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty or the file does not exist), then environment variables:
// REPOBROWSER_BASE_URL, REPOBROWSER_DEFAULT_USER, REPOBROWSER_LISTEN_ADDR,
// REPOBROWSER_LOG_LEVEL (debug|info|warn|error), REPOBROWSER_LOG_FORMAT
// (text|json), REPOBROWSER_HTTP_CACHE and REPOBROWSER_RATE_LIMIT (booleans).
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if v, ok := os.LookupEnv("REPOBROWSER_BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv("REPOBROWSER_DEFAULT_USER"); ok && v != "" {
		cfg.DefaultUser = v
	}
	if v, ok := os.LookupEnv("REPOBROWSER_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("REPOBROWSER_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("REPOBROWSER_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}

	var err error
	if cfg.HTTPCache, err = lookupBool("REPOBROWSER_HTTP_CACHE", cfg.HTTPCache); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = lookupBool("REPOBROWSER_RATE_LIMIT", cfg.RateLimit); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Level parses LogLevel. validate guarantees it succeeds for a loaded Config.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("REPOBROWSER_LOG_LEVEL / log_level has invalid value %q: %w", c.LogLevel, err)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("REPOBROWSER_LOG_FORMAT / log_format has invalid value %q: expected text or json", c.LogFormat)
	}

	if c.ListenAddr == "" {
		return errors.New("REPOBROWSER_LISTEN_ADDR / listen_addr must not be empty")
	}

	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

func lookupBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", key, v, err)
	}
	return parsed, nil
}
