package statistics

import (
	"fmt"

	"github.com/AlexScherba16/itask/preprocessor"
	"github.com/AlexScherba16/itask/quote"
)

// IntervalStatistics holds the finalized ask/bid aggregates for one
// TimeInterval. Valid only after the owning Reducer has terminated.
type IntervalStatistics struct {
	Interval preprocessor.TimeInterval

	AskMax    float64
	AskMin    float64
	AskAvg    float64
	AskMedian float64
	AskVolume float64

	BidMax    float64
	BidMin    float64
	BidAvg    float64
	BidMedian float64
	BidVolume float64
}

// Accumulator pairs two Metrics (ask/bid) with two running volume sums,
// scoped to one TimeInterval. One Accumulator lives inside exactly one
// reducer for the lifetime of that reducer's channel drain.
type Accumulator struct {
	interval preprocessor.TimeInterval
	ask      *Metrics
	bid      *Metrics

	askVolume float64
	bidVolume float64
}

// NewAccumulator constructs an Accumulator for the given interval.
func NewAccumulator(interval preprocessor.TimeInterval) (*Accumulator, error) {
	if interval.StartNs > interval.EndNs {
		return nil, fmt.Errorf("statistics: interval out of range, start %d > end %d", interval.StartNs, interval.EndNs)
	}
	return &Accumulator{
		interval: interval,
		ask:      NewMetrics(),
		bid:      NewMetrics(),
	}, nil
}

// AddQuote routes one quote into the ask/bid metrics and volume sums.
func (a *Accumulator) AddQuote(q quote.Quote) {
	a.ask.Insert(q.Ask)
	a.bid.Insert(q.Bid)
	a.askVolume += q.AskVolume
	a.bidVolume += q.BidVolume
}

// Finalize snapshots the current statistics into an IntervalStatistics.
func (a *Accumulator) Finalize() IntervalStatistics {
	return IntervalStatistics{
		Interval:  a.interval,
		AskMax:    a.ask.Max(),
		AskMin:    a.ask.Min(),
		AskAvg:    a.ask.Mean(),
		AskMedian: a.ask.Median(),
		AskVolume: a.askVolume,
		BidMax:    a.bid.Max(),
		BidMin:    a.bid.Min(),
		BidAvg:    a.bid.Mean(),
		BidMedian: a.bid.Median(),
		BidVolume: a.bidVolume,
	}
}

// Count returns the number of quotes folded into this accumulator so far,
// taken from the ask side (ask and bid counts always match).
func (a *Accumulator) Count() uint64 {
	return a.ask.Count()
}
