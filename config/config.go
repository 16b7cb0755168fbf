// Package config loads and validates the run configuration, either from
// CLI flags or from an optional TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults, restated from pipeline.Config so a zero-value Config loaded
// straight from flags behaves sanely before normalization.
const (
	DefaultBucketMinutes   = 30
	DefaultChannelCapacity = 4096
	DefaultMapperBurst     = 8
)

// FileConfig is the shape of an optional --config TOML file. Every field
// mirrors a CLI flag; flags take precedence only insofar as --config and
// the flags it replaces are mutually exclusive (see validateConfigModeFlags).
type FileConfig struct {
	Path            string `toml:"path"`
	Workers         uint16 `toml:"workers"`
	BucketMinutes   uint64 `toml:"bucketMinutes"`
	ChannelCapacity int    `toml:"channelCapacity"`
	MapperBurst     int    `toml:"mapperBurst"`
	PlotPath        string `toml:"plotPath"`
	Compact         bool   `toml:"compact"`
}

// Load reads and parses a TOML configuration file.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg FileConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("config: %s: path is required", path)
	}
	return &cfg, nil
}

// BucketLengthNs converts BucketMinutes into nanoseconds, applying the
// default when unset.
func (c *FileConfig) BucketLengthNs() uint64 {
	minutes := c.BucketMinutes
	if minutes == 0 {
		minutes = DefaultBucketMinutes
	}
	return minutes * 60 * 1_000_000_000
}

// Validate checks the fields that can be validated independent of the
// filesystem state the pipeline itself will encounter (missing input
// file, zero-length intervals, and so on are reported by the pipeline).
func (c *FileConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("config: path is required")
	}
	return validatePlotPath(c.PlotPath)
}

// validatePlotPath ensures the directory a requested plot would be
// written into already exists, matching the precondition check used
// throughout the teacher's flag validation.
func validatePlotPath(plotPath string) error {
	if plotPath == "" {
		return nil
	}
	dir := filepath.Dir(plotPath)
	if dir == "." {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("config: resolve working directory: %w", err)
		}
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("config: plot directory does not exist: %s", dir)
	}
	return nil
}
