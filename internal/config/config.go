// Package config loads ctxpack settings from file, environment and defaults.
package config

import "errors"

// Defaults applied before any config file or environment override.
const (
	// DefaultOutputDir is where bundles and snapshots are written.
	DefaultOutputDir = "."
	// DefaultBundleHeaderWidth is the separator rule width in bundles.
	DefaultBundleHeaderWidth = 80
	// DefaultScanPathWidth is the largest-file column width in scan reports.
	DefaultScanPathWidth = 48
)

// DefaultScanIgnoreDirs are directory names the scanner skips.
var DefaultScanIgnoreDirs = []string{".git", "__pycache__", "node_modules", ".venv", "venv"}

// Config is the top-level configuration struct for ctxpack.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Output OutputConfig `mapstructure:"output"`
	Bundle BundleConfig `mapstructure:"bundle"`
	Scan   ScanConfig   `mapstructure:"scan"`
}

// OutputConfig holds artifact placement settings.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// BundleConfig holds bundle rendering settings.
type BundleConfig struct {
	HeaderWidth int  `mapstructure:"header_width"`
	Compress    bool `mapstructure:"compress"`
}

// ScanConfig holds folder scanner settings.
type ScanConfig struct {
	IgnoreDirs []string `mapstructure:"ignore_dirs"`
	PathWidth  int      `mapstructure:"path_width"`
}

// Sentinel errors for configuration validation.
var (
	// ErrEmptyOutputDir indicates the output directory is empty.
	ErrEmptyOutputDir = errors.New("output.dir must not be empty")
	// ErrInvalidHeaderWidth indicates the bundle header width is not positive.
	ErrInvalidHeaderWidth = errors.New("bundle.header_width must be positive")
	// ErrInvalidPathWidth indicates the scan path width is not positive.
	ErrInvalidPathWidth = errors.New("scan.path_width must be positive")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return ErrEmptyOutputDir
	}

	if c.Bundle.HeaderWidth <= 0 {
		return ErrInvalidHeaderWidth
	}

	if c.Scan.PathWidth <= 0 {
		return ErrInvalidPathWidth
	}

	return nil
}
