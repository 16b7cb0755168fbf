package reducer

import (
	"sync"
	"testing"

	"github.com/AlexScherba16/itask/preprocessor"
	"github.com/AlexScherba16/itask/qchannel"
	"github.com/AlexScherba16/itask/quote"
	"github.com/AlexScherba16/itask/statistics"
)

func TestRunAggregatesUntilSentinel(t *testing.T) {
	channels := []*qchannel.Channel{qchannel.New(16)}
	results := make([]statistics.IntervalStatistics, 1)
	interval := preprocessor.TimeInterval{StartNs: 1, EndNs: 11}

	r, err := New(0, interval, channels, results)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 1; i <= 6; i++ {
		q := quote.Quote{TimeNs: uint64(i), Ask: float64(i), Bid: float64(i), AskVolume: float64(i), BidVolume: float64(i)}
		channels[0].Enqueue(&q)
	}
	channels[0].Enqueue(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	r.Run(&wg)
	wg.Wait()

	got := results[0]
	if got.AskMin != 1 || got.AskMax != 6 {
		t.Fatalf("ask min/max = %v/%v, want 1/6", got.AskMin, got.AskMax)
	}
	if got.AskAvg != 3.5 {
		t.Fatalf("ask avg = %v, want 3.5", got.AskAvg)
	}
	if got.AskMedian != 3.5 {
		t.Fatalf("ask median = %v, want 3.5", got.AskMedian)
	}
	if got.AskVolume != 21 {
		t.Fatalf("ask volume = %v, want 21", got.AskVolume)
	}
	if got.Interval != interval {
		t.Fatalf("interval = %+v, want %+v", got.Interval, interval)
	}
}

func TestNewValidation(t *testing.T) {
	channels := []*qchannel.Channel{qchannel.New(1)}
	results := make([]statistics.IntervalStatistics, 1)
	interval := preprocessor.TimeInterval{StartNs: 10, EndNs: 1}

	if _, err := New(0, interval, channels, results); err == nil {
		t.Fatal("expected error for inverted interval")
	}
	validInterval := preprocessor.TimeInterval{StartNs: 0, EndNs: 1}
	if _, err := New(5, validInterval, channels, results); err == nil {
		t.Fatal("expected error for id out of range")
	}
	if _, err := New(0, validInterval, nil, results); err == nil {
		t.Fatal("expected error for empty channels")
	}
}
