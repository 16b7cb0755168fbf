// Package reducer implements the pipeline worker that drains one bucket's
// channel and computes its finalized interval statistics.
package reducer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexScherba16/itask/pools"
	"github.com/AlexScherba16/itask/preprocessor"
	"github.com/AlexScherba16/itask/qchannel"
	"github.com/AlexScherba16/itask/statistics"
)

// pollBackoff is how long a reducer sleeps between empty TryDequeue polls.
// The source spin-polls with no backoff at all; a small sleep here keeps a
// Go reducer from pegging a core while waiting on a slow mapper, which is
// conforming per spec.md §4.4 ("either is conforming provided it remains
// responsive to the sentinel").
const pollBackoff = 50 * time.Microsecond

// Reducer owns one Accumulator bound to a TimeInterval, draining exactly
// one channel until it observes the end-of-stream sentinel.
type Reducer struct {
	id      int
	channel *qchannel.Channel
	results []statistics.IntervalStatistics
	acc     *statistics.Accumulator
}

// New constructs a Reducer for channel/result slot id.
func New(id int, interval preprocessor.TimeInterval, channels []*qchannel.Channel,
	results []statistics.IntervalStatistics) (*Reducer, error) {
	if len(channels) == 0 {
		return nil, errors.New("reducer: channels are empty")
	}
	if len(results) == 0 {
		return nil, errors.New("reducer: result slots are empty")
	}
	if id < 0 || id >= len(channels) {
		return nil, fmt.Errorf("reducer: id %d out of channel range [0,%d)", id, len(channels))
	}
	if id >= len(results) {
		return nil, fmt.Errorf("reducer: id %d out of result range [0,%d)", id, len(results))
	}

	acc, err := statistics.NewAccumulator(interval)
	if err != nil {
		return nil, fmt.Errorf("reducer: %w", err)
	}

	return &Reducer{
		id:      id,
		channel: channels[id],
		results: results,
		acc:     acc,
	}, nil
}

// Run drains the channel until the sentinel, then writes the finalized
// statistics into its result slot. Always decrements done exactly once.
func (r *Reducer) Run(done *sync.WaitGroup) {
	defer done.Done()

	for {
		q, ok := r.channel.TryDequeue()
		if !ok {
			time.Sleep(pollBackoff)
			continue
		}
		if q == nil {
			break
		}
		r.acc.AddQuote(*q)
		pools.PutQuote(q)
	}

	r.results[r.id] = r.acc.Finalize()
}
