package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/AlexScherba16/itask/preprocessor"
	"github.com/AlexScherba16/itask/statistics"
)

func sampleInterval(startSec, endSec int64) statistics.IntervalStatistics {
	return statistics.IntervalStatistics{
		Interval: preprocessor.TimeInterval{
			StartNs: uint64(startSec) * 1_000_000_000,
			EndNs:   uint64(endSec) * 1_000_000_000,
		},
		AskMax: 6, AskMin: 1, AskAvg: 3.5, AskMedian: 3.5, AskVolume: 21,
		BidMax: 6, BidMin: 1, BidAvg: 3.5, BidMedian: 3.5, BidVolume: 21,
	}
}

func TestWriteResultShape(t *testing.T) {
	var buf bytes.Buffer
	intervals := []statistics.IntervalStatistics{sampleInterval(0, 10)}

	if err := WriteResult(&buf, intervals, nil, 42*time.Millisecond); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (interval + duration), got %d: %q", len(lines), buf.String())
	}

	var rec IntervalRecord
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal interval record: %v", err)
	}
	if rec.MaxVal.Ask != 6 || rec.MinVal.Ask != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if lines[1] != "42ms" {
		t.Fatalf("duration line = %q, want 42ms", lines[1])
	}
}

func TestWriteResultIncludesDiagnosticsWhenNonEmpty(t *testing.T) {
	var buf bytes.Buffer
	intervals := []statistics.IntervalStatistics{sampleInterval(0, 10)}
	diag := map[string]int64{"malformed_record": 3}

	if err := WriteResult(&buf, intervals, diag, time.Millisecond); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (interval + diagnostics + duration), got %d", len(lines))
	}

	var d Diagnostics
	if err := json.Unmarshal([]byte(lines[1]), &d); err != nil {
		t.Fatalf("unmarshal diagnostics: %v", err)
	}
	if d.Total != 3 || d.Skipped["malformed_record"] != 3 {
		t.Fatalf("unexpected diagnostics: %+v", d)
	}
}

func TestWriteResultOmitsDiagnosticsWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	intervals := []statistics.IntervalStatistics{sampleInterval(0, 10)}

	if err := WriteResult(&buf, intervals, map[string]int64{"malformed_record": 0}, time.Millisecond); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected diagnostics line to be omitted when all counters are zero, got %d lines", len(lines))
	}
}

func TestFormatIntervalLayout(t *testing.T) {
	iv := sampleInterval(0, 3661)
	s := formatInterval(iv)
	parts := strings.Split(s, " - ")
	if len(parts) != 2 {
		t.Fatalf("expected 'HH:MM:SS - HH:MM:SS', got %q", s)
	}
	for _, p := range parts {
		if len(p) != 8 || p[2] != ':' || p[5] != ':' {
			t.Fatalf("unexpected time format %q", p)
		}
	}
}
