package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/AlexScherba16/itask/output"
	"github.com/AlexScherba16/itask/pipeline"
)

// RunOptions is the fully-resolved set of parameters for one pipeline run,
// assembled from either CLI flags or a config file by the time it reaches
// Execute.
type RunOptions struct {
	Path            string
	Workers         uint16
	BucketLengthNs  uint64
	ChannelCapacity int
	MapperBurst     int
	PlotPath        string
	Compact         bool
}

// Execute runs the pipeline end to end and writes its results to stdout,
// matching the same execution path regardless of whether opts originated
// from CLI flags or a config file.
func Execute(opts RunOptions) error {
	start := time.Now()

	result, err := pipeline.Run(opts.Path, pipeline.Config{
		WorkerCount:     opts.Workers,
		BucketLengthNs:  opts.BucketLengthNs,
		ChannelCapacity: opts.ChannelCapacity,
		MapperBurst:     opts.MapperBurst,
	})
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	elapsed := time.Since(start)

	diagnostics := result.Diagnostics
	if opts.Compact {
		diagnostics = nil
	}
	if err := output.WriteResult(os.Stdout, result.Intervals, diagnostics, elapsed); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	if opts.PlotPath != "" {
		if err := output.PlotIntervals(result.Intervals, opts.PlotPath); err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
	}

	return nil
}
