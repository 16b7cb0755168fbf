// Package output renders a finished pipeline run: one JSON object per
// interval to standard output, a trailing wall-clock duration line, and
// an optional HTML chart export.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/AlexScherba16/itask/statistics"
)

// Side holds one statistic paired across both sides of the book.
type Side struct {
	Ask float64 `json:"ask"`
	Bid float64 `json:"bid"`
}

// IntervalRecord is the JSON shape emitted for one interval, per line.
type IntervalRecord struct {
	Interval string `json:"interval"`
	MaxVal   Side   `json:"maxVal"`
	MinVal   Side   `json:"minVal"`
	Average  Side   `json:"average"`
	Median   Side   `json:"median"`
	Volume   Side   `json:"volume"`
}

// Diagnostics is the trailing summary of skipped records by reason.
type Diagnostics struct {
	Skipped map[string]int64 `json:"skipped,omitempty"`
	Total   int64            `json:"total"`
}

// formatInterval renders a TimeInterval as "HH:MM:SS - HH:MM:SS" using
// the host's local timezone, per the source's localtime_r formatting.
func formatInterval(iv statistics.IntervalStatistics) string {
	const layout = "15:04:05"
	start := time.Unix(0, int64(iv.Interval.StartNs)).Local()
	end := time.Unix(0, int64(iv.Interval.EndNs)).Local()
	return fmt.Sprintf("%s - %s", start.Format(layout), end.Format(layout))
}

func toRecord(iv statistics.IntervalStatistics) IntervalRecord {
	return IntervalRecord{
		Interval: formatInterval(iv),
		MaxVal:   Side{Ask: iv.AskMax, Bid: iv.BidMax},
		MinVal:   Side{Ask: iv.AskMin, Bid: iv.BidMin},
		Average:  Side{Ask: iv.AskAvg, Bid: iv.BidAvg},
		Median:   Side{Ask: iv.AskMedian, Bid: iv.BidMedian},
		Volume:   Side{Ask: iv.AskVolume, Bid: iv.BidVolume},
	}
}

// WriteResult writes one compact JSON object per interval (in the order
// given, which callers must have already sorted ascending by interval
// start), followed by diagnostics (when non-empty) and a duration line.
func WriteResult(w io.Writer, intervals []statistics.IntervalStatistics, diagnostics map[string]int64, elapsed time.Duration) error {
	enc := json.NewEncoder(w)
	for _, iv := range intervals {
		if err := enc.Encode(toRecord(iv)); err != nil {
			return fmt.Errorf("output: encode interval: %w", err)
		}
	}

	if total := sumDiagnostics(diagnostics); total > 0 {
		if err := enc.Encode(Diagnostics{Skipped: diagnostics, Total: total}); err != nil {
			return fmt.Errorf("output: encode diagnostics: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "%dms\n", elapsed.Milliseconds()); err != nil {
		return fmt.Errorf("output: write duration: %w", err)
	}
	return nil
}

func sumDiagnostics(diagnostics map[string]int64) int64 {
	var total int64
	for _, v := range diagnostics {
		total += v
	}
	return total
}
