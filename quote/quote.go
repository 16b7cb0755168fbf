// Package quote parses raw NDJSON market-quote records into scaled Quote values.
package quote

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Quote is one bid/ask observation, scaled from the raw integer wire format.
type Quote struct {
	TimeNs    uint64
	Bid       float64
	Ask       float64
	BidVolume float64
	AskVolume float64
}

// SortByTime reports whether a sorts before b, by timestamp only.
// This is not a total order over the full struct — it exists purely so
// tests can put a slice of Quote into a deterministic order for comparison.
func SortByTime(a, b Quote) bool {
	return a.TimeNs < b.TimeNs
}

// numberLong and numberInt mirror the MongoDB extended-JSON wrappers used
// by the input format: {"$numberLong": "123"} / {"$numberInt": "123"}.
type numberLong struct {
	Value string `json:"$numberLong"`
}

type numberInt struct {
	Value string `json:"$numberInt"`
}

// record is the raw wire shape of one input line.
type record struct {
	Time      numberLong `json:"time"`
	Bid       numberInt  `json:"bid"`
	Ask       numberInt  `json:"ask"`
	BidVolume numberInt  `json:"bidVolume"`
	AskVolume numberInt  `json:"askVolume"`
}

const (
	priceScale  = 1_000_000.0
	volumeScale = 1_000.0
)

// Parse decodes one NDJSON line into a Quote, applying the fixed price and
// volume scale factors. Returns an error for malformed or incomplete records
// (spec's MalformedRecord); callers are expected to skip-and-log, not abort.
func Parse(line []byte) (Quote, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Quote{}, fmt.Errorf("parse quote record: %w", err)
	}

	timeNs, err := strconv.ParseUint(rec.Time.Value, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote time: %w", err)
	}
	bid, err := strconv.ParseInt(rec.Bid.Value, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote bid: %w", err)
	}
	ask, err := strconv.ParseInt(rec.Ask.Value, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote ask: %w", err)
	}
	bidVol, err := strconv.ParseInt(rec.BidVolume.Value, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote bidVolume: %w", err)
	}
	askVol, err := strconv.ParseInt(rec.AskVolume.Value, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote askVolume: %w", err)
	}

	return Quote{
		TimeNs:    timeNs,
		Bid:       float64(bid) / priceScale,
		Ask:       float64(ask) / priceScale,
		BidVolume: float64(bidVol) / volumeScale,
		AskVolume: float64(askVol) / volumeScale,
	}, nil
}

// ParseTimeNs extracts just the timestamp from a record, used by the
// preprocessor's boundary scan which only needs the first/last timestamp.
func ParseTimeNs(line []byte) (uint64, error) {
	var rec struct {
		Time numberLong `json:"time"`
	}
	if err := json.Unmarshal(line, &rec); err != nil {
		return 0, fmt.Errorf("parse record time: %w", err)
	}
	timeNs, err := strconv.ParseUint(rec.Time.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse record time value: %w", err)
	}
	return timeNs, nil
}
