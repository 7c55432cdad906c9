package config

import (
	"fmt"
	"path/filepath"

	"github.com/sdejongh/sortnorris/pkg/classify"
	"github.com/sdejongh/sortnorris/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Sort        SortConfig        `yaml:"sort"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Lock        LockConfig        `yaml:"lock"`
}

// SortConfig holds sort-related settings
type SortConfig struct {
	DryRun  bool     `yaml:"dry_run"`
	Exclude []string `yaml:"exclude"` // Glob patterns matched against root file names
	// Extensions adds or overrides mappings of the built-in table,
	// e.g. {"gz": "Documents"}
	Extensions map[string]string `yaml:"extensions,omitempty"`
	Backend    string            `yaml:"backend"` // "local" or "billy"
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers int `yaml:"max_workers"`
	BufferSize int `yaml:"buffer_size"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar on terminals
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// LockConfig controls the per-root run lock
type LockConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sort: SortConfig{
			DryRun: false,
			Exclude: []string{
				"*.part",
				"*.crdownload",
			},
			Backend: "local",
		},
		Performance: PerformanceConfig{
			MaxWorkers: 5,
			BufferSize: 65536,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Format:     "json",
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Lock: LockConfig{
			Enabled: true,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validBackends := map[string]bool{"local": true, "billy": true}
	if !validBackends[c.Sort.Backend] {
		return &models.ValidationError{
			Field:   "sort.backend",
			Message: "must be 'local' or 'billy'",
		}
	}

	for _, pattern := range c.Sort.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return &models.ValidationError{
				Field:   "sort.exclude",
				Message: fmt.Sprintf("invalid pattern %q", pattern),
			}
		}
	}

	if _, err := c.ExtensionTable(); err != nil {
		return err
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return &models.ValidationError{
			Field:   "logging",
			Message: "rotation limits must not be negative",
		}
	}

	return nil
}

// ExtensionTable builds the classification table with the configured extras
func (c *Config) ExtensionTable() (*classify.Table, error) {
	if len(c.Sort.Extensions) == 0 {
		return classify.Default(), nil
	}

	extra := make(map[string]models.Category, len(c.Sort.Extensions))
	for ext, name := range c.Sort.Extensions {
		category, ok := models.ParseCategory(name)
		if !ok {
			return nil, &models.ValidationError{
				Field:   "sort.extensions",
				Message: fmt.Sprintf("unknown category %q for extension %q", name, ext),
			}
		}
		extra[ext] = category
	}

	return classify.New(extra)
}
