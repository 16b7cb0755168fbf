// Package pipeline wires together the preprocessor, mappers, and reducers:
// it builds the channel and result-slot vectors, launches a bounded pool
// of worker goroutines, waits on the two completion barriers, and posts
// the end-of-stream sentinel on every channel strictly between them.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/AlexScherba16/itask/diagnostics"
	"github.com/AlexScherba16/itask/mapper"
	"github.com/AlexScherba16/itask/preprocessor"
	"github.com/AlexScherba16/itask/qchannel"
	"github.com/AlexScherba16/itask/reducer"
	"github.com/AlexScherba16/itask/statistics"
)

// Config tunes the orchestrator. Zero values fall back to the spec.md §6
// configuration constants.
type Config struct {
	WorkerCount     uint16
	BucketLengthNs  uint64
	ChannelCapacity int
	MapperBurst     int
	PoolSize        int
}

// Defaults, from spec.md §6.
const (
	DefaultBucketLengthNs = 1_800_000_000_000 // 30 minutes
	DefaultMapperBurst    = 8
)

func (c Config) withDefaults() Config {
	if c.WorkerCount == 0 {
		n := runtime.NumCPU()
		if n < 4 {
			n = 4
		}
		c.WorkerCount = uint16(n)
	}
	if c.BucketLengthNs == 0 {
		c.BucketLengthNs = DefaultBucketLengthNs
	}
	if c.ChannelCapacity == 0 {
		c.ChannelCapacity = qchannel.DefaultCapacity
	}
	if c.MapperBurst == 0 {
		c.MapperBurst = DefaultMapperBurst
	}
	if c.PoolSize == 0 {
		n := runtime.NumCPU()
		if n < 4 {
			n = 4
		}
		c.PoolSize = n
	}
	return c
}

// Result is the outcome of one pipeline run: the finalized per-interval
// statistics in ascending interval order, plus a best-effort diagnostics
// summary of skipped records.
type Result struct {
	Intervals   []statistics.IntervalStatistics
	Diagnostics map[string]int64
}

// Run executes one end-to-end pipeline pass over path.
func Run(path string, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	pp, err := preprocessor.New(path, cfg.WorkerCount, cfg.BucketLengthNs)
	if err != nil {
		return nil, fmt.Errorf("pipeline: preprocess: %w", err)
	}
	data, err := pp.Run()
	if err != nil {
		return nil, fmt.Errorf("pipeline: preprocess: %w", err)
	}

	channels := make([]*qchannel.Channel, data.Metadata.Count)
	for i := range channels {
		channels[i] = qchannel.New(cfg.ChannelCapacity)
	}
	results := make([]statistics.IntervalStatistics, data.Metadata.Count)

	counters := diagnostics.New()
	counters.EnsureReason(diagnostics.ReasonMalformedRecord)
	counters.EnsureReason(diagnostics.ReasonBucketOutOfRange)
	counters.EnsureReason(diagnostics.ReasonOpenFileFailed)

	mappers := make([]*mapper.Mapper, 0, len(data.Segments))
	for _, seg := range data.Segments {
		m, err := mapper.New(path, seg, data.Metadata, channels, counters)
		if err != nil {
			return nil, fmt.Errorf("pipeline: build mapper: %w", err)
		}
		mappers = append(mappers, m)
	}

	reducers := make([]*reducer.Reducer, 0, len(data.Intervals))
	for i, interval := range data.Intervals {
		r, err := reducer.New(i, interval, channels, results)
		if err != nil {
			return nil, fmt.Errorf("pipeline: build reducer: %w", err)
		}
		reducers = append(reducers, r)
	}

	var mappersDone, reducersDone sync.WaitGroup
	mappersDone.Add(len(mappers))
	reducersDone.Add(len(reducers))

	runWorkerPool(cfg.PoolSize, cfg.MapperBurst, mappers, reducers, &mappersDone, &reducersDone)

	// Mapping phase closed: every mapper has terminated. Post the
	// end-of-stream sentinel on every channel exactly once, strictly
	// between the two barrier waits.
	mappersDone.Wait()
	for _, c := range channels {
		c.Enqueue(nil)
	}

	reducersDone.Wait()

	return &Result{
		Intervals:   results,
		Diagnostics: counters.Snapshot(),
	}, nil
}

// runWorkerPool drains mapper and reducer tasks through a fixed pool of
// poolSize goroutines, modeled on the teacher's numTrieWorkers-over-a-
// work-channel idiom: a bounded number of long-lived workers range over a
// task channel instead of one goroutine per task. Tasks are enqueued in
// rounds that bias toward mapper throughput — up to burst mappers, then
// one reducer, repeated until every task has been submitted — so the pool
// keeps filling with mapper work before reducers (which tie up a worker
// slot polling their channel) can starve it. The task channel is sized to
// hold every task up front, so submission never blocks on pool capacity.
func runWorkerPool(poolSize, burst int, mappers []*mapper.Mapper, reducers []*reducer.Reducer,
	mappersDone, reducersDone *sync.WaitGroup) {
	tasks := make(chan func(), len(mappers)+len(reducers))

	for i := 0; i < poolSize; i++ {
		go func() {
			for task := range tasks {
				task()
			}
		}()
	}

	mi, ri := 0, 0
	for mi < len(mappers) || ri < len(reducers) {
		for i := 0; i < burst && mi < len(mappers); i++ {
			m := mappers[mi]
			mi++
			tasks <- func() { m.Run(mappersDone) }
		}
		if ri < len(reducers) {
			r := reducers[ri]
			ri++
			tasks <- func() { r.Run(reducersDone) }
		}
	}
	close(tasks)
}
