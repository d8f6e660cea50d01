// Package config provides configuration management for the datasync
// application. It handles loading, validation, and access to configuration
// values from YAML files and environment variables via Viper.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonesrussell/datasync/internal/config/app"
	"github.com/jonesrussell/datasync/internal/config/sync"
	"github.com/jonesrussell/datasync/internal/logger"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetAppConfig returns the application configuration.
	GetAppConfig() *app.Config
	// GetSyncConfig returns the sync pipeline configuration.
	GetSyncConfig() *sync.Config
	// GetLoggerConfig returns the logger configuration.
	GetLoggerConfig() *logger.Config
	// EnsureDirectories creates the working directories if missing.
	EnsureDirectories() error
	// Validate validates the configuration.
	Validate() error
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// Config represents the application configuration.
type Config struct {
	// App holds application-level configuration
	App *app.Config `mapstructure:"app" yaml:"app"`
	// Sync holds sync pipeline configuration
	Sync *sync.Config `mapstructure:"sync" yaml:"sync"`
	// Logger holds logger configuration
	Logger *logger.Config `mapstructure:"logger" yaml:"logger"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Sync.Validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// GetAppConfig returns the application configuration.
func (c *Config) GetAppConfig() *app.Config {
	return c.App
}

// GetSyncConfig returns the sync pipeline configuration.
func (c *Config) GetSyncConfig() *sync.Config {
	if c.Sync == nil {
		return sync.NewConfig()
	}
	return c.Sync
}

// GetLoggerConfig returns the logger configuration.
func (c *Config) GetLoggerConfig() *logger.Config {
	if c.Logger == nil {
		return &logger.Config{}
	}
	return c.Logger
}

// LoadFromViper builds a Config from the settings Viper has collected
// from defaults, the config file, and environment overrides.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}

	if decodeErr := decoder.Decode(v.AllSettings()); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", decodeErr)
	}

	setDefaults(cfg)

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.App == nil {
		cfg.App = app.New()
	}
	if cfg.Sync == nil {
		cfg.Sync = sync.NewConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = &logger.Config{
			Level:    logger.DefaultLevel,
			Encoding: logger.DefaultEncoding,
		}
	}

	cfg.Sync.ApplyDefaults()
}

// EnsureDirectories creates the download and cleaned output directories
// if they do not already exist.
func (c *Config) EnsureDirectories() error {
	syncCfg := c.GetSyncConfig()

	for _, dir := range []string{syncCfg.DownloadDir, syncCfg.CleanedDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
