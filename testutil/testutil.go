// Package testutil provides fixture generation shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// GenerateTestQuoteFile creates a temporary newline-delimited JSON quote
// file with numLines synthetic records, one second apart starting at the
// UNIX epoch, for use by preprocessor/mapper/pipeline tests.
// Returns the file path and a cleanup function.
func GenerateTestQuoteFile(t *testing.T, numLines int) (string, func()) {
	t.Helper()

	if numLines < 1 {
		numLines = 1
	}

	tmpFile, err := os.CreateTemp("", "test_quotes_*.ndjson")
	if err != nil {
		t.Fatalf("failed to create temp quote file: %v", err)
	}

	const second = 1_000_000_000
	var content strings.Builder
	for i := 0; i < numLines; i++ {
		timeNs := i * second
		bid := 1_000_000 + i%500
		ask := 1_000_100 + i%500
		fmt.Fprintf(&content,
			`{"time":{"$numberLong":"%d"},"bid":{"$numberInt":"%d"},"ask":{"$numberInt":"%d"},"bidVolume":{"$numberInt":"1000"},"askVolume":{"$numberInt":"2000"}}`+"\n",
			timeNs, bid, ask)
	}

	if _, err := tmpFile.WriteString(content.String()); err != nil {
		t.Fatalf("failed to write temp quote file: %v", err)
	}
	tmpFile.Close()

	cleanup := func() {
		os.Remove(tmpFile.Name())
	}

	return tmpFile.Name(), cleanup
}

// TempFilePath returns a cross-platform temporary file path with the
// given pattern. Does not create the file.
func TempFilePath(t *testing.T, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path)

	return path
}

// TempDirPath returns a cross-platform temporary directory path.
func TempDirPath(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}
