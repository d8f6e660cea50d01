// Package sync provides configuration for the incremental sync pipeline.
package sync

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Default configuration values for the sync pipeline.
const (
	// DefaultCatalogURL is the catalog endpoint synced against by default.
	DefaultCatalogURL = "https://data.cms.gov/provider-data/api/1/metastore/schemas/dataset/items"
	// DefaultDownloadDir is where raw files are written.
	DefaultDownloadDir = "downloads"
	// DefaultCleanedDir is where normalized files are written.
	DefaultCleanedDir = "cleaned"
	// DefaultStateFile is the persisted sync-state path.
	DefaultStateFile = "metadata.json"
	// DefaultMaxWorkers bounds download and transform parallelism.
	DefaultMaxWorkers = 5
	// DefaultTopic is the relevance filter applied to catalog entries.
	DefaultTopic = "hospitals"
	// DefaultFileExtension is appended to downloaded file names.
	DefaultFileExtension = ".csv"
	// DefaultCleanedSuffix is inserted before the extension on cleaned files.
	DefaultCleanedSuffix = "_cleaned"
	// DefaultEncoding is the only text encoding the transformer supports.
	DefaultEncoding = "utf-8"
	// DefaultRequestTimeout bounds individual catalog and download requests.
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds the sync pipeline configuration.
type Config struct {
	// CatalogURL is the dataset catalog endpoint.
	CatalogURL string `mapstructure:"catalog_url" yaml:"catalog_url"`
	// DownloadDir is the directory raw downloads are written to.
	DownloadDir string `mapstructure:"download_dir" yaml:"download_dir"`
	// CleanedDir is the directory normalized files are written to.
	CleanedDir string `mapstructure:"cleaned_dir" yaml:"cleaned_dir"`
	// StateFile is the path of the persisted sync state.
	StateFile string `mapstructure:"state_file" yaml:"state_file"`
	// MaxWorkers is the worker pool width for downloads and transforms.
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`
	// Topic is the relevance filter token.
	Topic string `mapstructure:"topic" yaml:"topic"`
	// FileExtension is the extension given to downloaded files.
	FileExtension string `mapstructure:"file_extension" yaml:"file_extension"`
	// CleanedSuffix is the suffix inserted on cleaned file names.
	CleanedSuffix string `mapstructure:"cleaned_suffix" yaml:"cleaned_suffix"`
	// Encoding is the expected text encoding of downloaded files.
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	// RequestTimeout bounds each HTTP request made by the pipeline.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// NewConfig creates a sync configuration populated with defaults.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills any unset fields with default values.
func (c *Config) ApplyDefaults() {
	if c.CatalogURL == "" {
		c.CatalogURL = DefaultCatalogURL
	}
	if c.DownloadDir == "" {
		c.DownloadDir = DefaultDownloadDir
	}
	if c.CleanedDir == "" {
		c.CleanedDir = DefaultCleanedDir
	}
	if c.StateFile == "" {
		c.StateFile = DefaultStateFile
	}
	if c.MaxWorkers == 0 {
		c.MaxWorkers = DefaultMaxWorkers
	}
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	if c.FileExtension == "" {
		c.FileExtension = DefaultFileExtension
	}
	if c.CleanedSuffix == "" {
		c.CleanedSuffix = DefaultCleanedSuffix
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.CatalogURL == "" {
		return errors.New("catalog URL must be specified")
	}
	if c.DownloadDir == "" {
		return errors.New("download directory must be specified")
	}
	if c.CleanedDir == "" {
		return errors.New("cleaned directory must be specified")
	}
	if c.StateFile == "" {
		return errors.New("state file must be specified")
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max workers must be positive, got %d", c.MaxWorkers)
	}
	if !strings.EqualFold(c.Encoding, DefaultEncoding) {
		return fmt.Errorf("unsupported encoding: %s", c.Encoding)
	}
	return nil
}
