// Package cli wires the urfave/cli application surface onto the
// pipeline: flag parsing, validation, and the optional TOML config file.
package cli

import (
	"fmt"
	"time"

	"github.com/AlexScherba16/itask/config"
	"github.com/AlexScherba16/itask/version"
	cli "github.com/urfave/cli/v2"
)

func parseDate(d string) time.Time {
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Now()
	}
	return t
}

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to a TOML configuration file (mutually exclusive with path/workers/bucketMinutes/channelCapacity/mapperBurst/plot)",
	}
	pathFlag = &cli.StringFlag{
		Name:    "path",
		Aliases: []string{"p"},
		Usage:   "Path to the newline-delimited JSON quote file",
	}
	workersFlag = &cli.UintFlag{
		Name:  "workers",
		Usage: "Number of file segments, each parsed by one mapper (default: max(NumCPU, 4))",
	}
	bucketMinutesFlag = &cli.UintFlag{
		Name:  "bucketMinutes",
		Usage: "Interval bucket length in minutes",
		Value: config.DefaultBucketMinutes,
	}
	channelCapacityFlag = &cli.IntFlag{
		Name:  "channelCapacity",
		Usage: "Per-bucket channel capacity",
		Value: config.DefaultChannelCapacity,
	}
	mapperBurstFlag = &cli.IntFlag{
		Name:  "mapperBurst",
		Usage: "Mappers submitted per reducer in each scheduling round",
		Value: config.DefaultMapperBurst,
	}
	plotFlag = &cli.StringFlag{
		Name:  "plot",
		Usage: "Path to save an interactive HTML chart of the results (e.g., '/path/to/plot.html'). If not provided, no plot is generated.",
	}
	compactFlag = &cli.BoolFlag{
		Name:  "compact",
		Usage: "Suppress the trailing skipped-records diagnostics line from the JSON output",
		Value: false,
	}
)

// validateConfigModeFlags mirrors the mutual-exclusion check used when a
// run is driven by a config file: no other run-shaping flag may also be set.
func validateConfigModeFlags(c *cli.Context) error {
	exclusive := []string{"path", "workers", "bucketMinutes", "channelCapacity", "mapperBurst", "plot"}
	for _, flag := range exclusive {
		if c.IsSet(flag) {
			return fmt.Errorf("when using --config, %v flags are not allowed", exclusive)
		}
	}
	return nil
}

func run(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return runFromConfigFile(c, configPath)
	}
	return runFromFlags(c)
}

func runFromConfigFile(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c); err != nil {
		return err
	}

	fc, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := fc.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return Execute(RunOptions{
		Path:            fc.Path,
		Workers:         fc.Workers,
		BucketLengthNs:  fc.BucketLengthNs(),
		ChannelCapacity: fc.ChannelCapacity,
		MapperBurst:     fc.MapperBurst,
		PlotPath:        fc.PlotPath,
		Compact:         fc.Compact,
	})
}

func runFromFlags(c *cli.Context) error {
	path := c.String("path")
	if path == "" {
		return fmt.Errorf("path is required when not using --config")
	}

	fc := &config.FileConfig{
		Path:            path,
		PlotPath:        c.String("plot"),
		ChannelCapacity: c.Int("channelCapacity"),
		MapperBurst:     c.Int("mapperBurst"),
	}
	if err := fc.Validate(); err != nil {
		return err
	}

	return Execute(RunOptions{
		Path:            path,
		Workers:         uint16(c.Uint("workers")),
		BucketLengthNs:  uint64(c.Uint("bucketMinutes")) * 60 * 1_000_000_000,
		ChannelCapacity: c.Int("channelCapacity"),
		MapperBurst:     c.Int("mapperBurst"),
		PlotPath:        c.String("plot"),
		Compact:         c.Bool("compact"),
	})
}

// App is the itask command-line application.
var App = &cli.App{
	Name:     "itask",
	Usage:    "Compute per-interval bid/ask statistics from a stream of market quotes",
	Version:  version.Version,
	Compiled: parseDate(version.Date),
	Flags: []cli.Flag{
		configFlag,
		pathFlag,
		workersFlag,
		bucketMinutesFlag,
		channelCapacityFlag,
		mapperBurstFlag,
		plotFlag,
		compactFlag,
	},
	Action: run,
}
