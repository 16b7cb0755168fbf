package pipeline

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func recordLine(timeNs, bid, ask int) string {
	return `{"time":{"$numberLong":"` + strconv.Itoa(timeNs) + `"},` +
		`"bid":{"$numberInt":"` + strconv.Itoa(bid) + `"},` +
		`"ask":{"$numberInt":"` + strconv.Itoa(ask) + `"},` +
		`"bidVolume":{"$numberInt":"1000"},` +
		`"askVolume":{"$numberInt":"2000"}}`
}

func recordLineWithVolume(timeNs, bid, ask, bidVol, askVol int) string {
	return `{"time":{"$numberLong":"` + strconv.Itoa(timeNs) + `"},` +
		`"bid":{"$numberInt":"` + strconv.Itoa(bid) + `"},` +
		`"ask":{"$numberInt":"` + strconv.Itoa(ask) + `"},` +
		`"bidVolume":{"$numberInt":"` + strconv.Itoa(bidVol) + `"},` +
		`"askVolume":{"$numberInt":"` + strconv.Itoa(askVol) + `"}}`
}

func writeFixture(t *testing.T, lines []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "quotes.ndjson")
	var content string
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	const second = 1_000_000_000
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, recordLine(i*second, 1_000_000+i, 2_000_000+i))
	}
	path := writeFixture(t, lines)

	cfg := Config{
		WorkerCount:     2,
		BucketLengthNs:  5 * second,
		ChannelCapacity: 64,
		MapperBurst:     2,
	}

	result, err := Run(path, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Intervals) == 0 {
		t.Fatal("expected at least one interval")
	}

	var total uint64
	for _, iv := range result.Intervals {
		if iv.AskMax < iv.AskMin {
			t.Fatalf("interval %+v has max < min", iv)
		}
		total++
	}
	if total != uint64(len(result.Intervals)) {
		t.Fatalf("unexpected interval count mismatch")
	}

	if result.Diagnostics == nil {
		t.Fatal("expected non-nil diagnostics snapshot")
	}
}

// TestRunTwoMappersMatchSingleMapperAggregate pins down scenario 3/4 from
// spec.md §8: splitting one input across two mapper segments must produce
// exactly the same per-interval aggregates as a single mapper would, not
// just the same ordering. This is the regression test for the mapper
// read-loop off-by-one that double-counted a segment boundary's record.
func TestRunTwoMappersMatchSingleMapperAggregate(t *testing.T) {
	var lines []string
	for i := 1; i <= 6; i++ {
		lines = append(lines, recordLineWithVolume(i, i*1_000_000, i*1_000_000, i*1000, i*1000))
	}
	path := writeFixture(t, lines)

	const want = "want a single [1,11) interval covering all six records exactly once"

	for _, workers := range []uint16{1, 2} {
		cfg := Config{
			WorkerCount:     workers,
			BucketLengthNs:  10,
			ChannelCapacity: 64,
			MapperBurst:     1,
		}

		result, err := Run(path, cfg)
		if err != nil {
			t.Fatalf("Run(workers=%d): %v", workers, err)
		}
		if len(result.Intervals) != 1 {
			t.Fatalf("Run(workers=%d): len(Intervals) = %d, %s", workers, len(result.Intervals), want)
		}

		iv := result.Intervals[0]
		for _, side := range []struct {
			name              string
			min, max, avg, med, vol float64
		}{
			{"ask", iv.AskMin, iv.AskMax, iv.AskAvg, iv.AskMedian, iv.AskVolume},
			{"bid", iv.BidMin, iv.BidMax, iv.BidAvg, iv.BidMedian, iv.BidVolume},
		} {
			if side.min != 1 {
				t.Errorf("workers=%d: %s min = %v, want 1", workers, side.name, side.min)
			}
			if side.max != 6 {
				t.Errorf("workers=%d: %s max = %v, want 6", workers, side.name, side.max)
			}
			if side.avg != 3.5 {
				t.Errorf("workers=%d: %s avg = %v, want 3.5", workers, side.name, side.avg)
			}
			if side.med != 3.5 {
				t.Errorf("workers=%d: %s median = %v, want 3.5", workers, side.name, side.med)
			}
			if side.vol != 21 {
				t.Errorf("workers=%d: %s volume = %v, want 21 (a boundary double-count would inflate this)", workers, side.name, side.vol)
			}
		}
	}
}

func TestRunSkipsMalformedWithoutFailing(t *testing.T) {
	const second = 1_000_000_000
	lines := []string{
		recordLine(0, 1_000_000, 2_000_000),
		`{"garbage":true}`,
		recordLine(1*second, 1_000_001, 2_000_001),
		recordLine(2*second, 1_000_002, 2_000_002),
	}
	path := writeFixture(t, lines)

	cfg := Config{WorkerCount: 1, BucketLengthNs: second, ChannelCapacity: 16, MapperBurst: 1}

	result, err := Run(path, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Intervals) == 0 {
		t.Fatal("expected intervals")
	}
	if result.Diagnostics["malformed_record"] == 0 {
		t.Fatalf("expected malformed_record diagnostics to be recorded, got %+v", result.Diagnostics)
	}
}

func TestRunDefaults(t *testing.T) {
	lines := []string{recordLine(0, 1_000_000, 2_000_000), recordLine(1, 1_000_000, 2_000_000)}
	path := writeFixture(t, lines)

	result, err := Run(path, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Intervals) != 1 {
		t.Fatalf("expected a single interval for a span shorter than one bucket, got %d", len(result.Intervals))
	}
}
