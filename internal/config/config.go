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

// Environment variables that override file settings
const (
	EnvDBPath    = "ORDERKIT_DB_PATH"
	EnvCacheSize = "ORDERKIT_CACHE_SIZE"
	EnvLogLevel  = "ORDERKIT_LOG_LEVEL"
)

// Defaults
const (
	DefaultDBPath    = "orderkit.db"
	DefaultCacheSize = 1024
	DefaultLogLevel  = "info"
)

// ErrInvalidConfig is returned by Validate and wraps every rejected setting
var ErrInvalidConfig = errors.New("invalid config")

// Config holds orderkit configuration
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects the SQLite database
type StorageConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig sizes the order cache. Size 0 disables it.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration usable without a config file
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Path: DefaultDBPath},
		Cache:   CacheConfig{Size: DefaultCacheSize},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. Settings missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from ORDERKIT_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvCacheSize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvCacheSize, v, err)
		}
		c.Cache.Size = size
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("%w: storage.path is required", ErrInvalidConfig)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size must not be negative, got %d", ErrInvalidConfig, c.Cache.Size)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses the configured log level
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return level, nil
}
