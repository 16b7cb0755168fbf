// Package preprocessor scans the input file to determine its time span,
// builds the bucket grid, and partitions the file into byte ranges aligned
// to record boundaries so mappers can parse disjoint, complete segments.
package preprocessor

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlexScherba16/itask/quote"
)

// Sentinel errors, one per spec.md §7 preprocessing error kind.
var (
	ErrEmptyPath      = errors.New("preprocessor: file path is empty")
	ErrZeroWorkers    = errors.New("preprocessor: worker count must be positive")
	ErrZeroInterval   = errors.New("preprocessor: interval length must be positive")
	ErrUnreadableFile = errors.New("preprocessor: could not stat file")
	ErrEmptyFile      = errors.New("preprocessor: file is empty")
	ErrTooManyWorkers = errors.New("preprocessor: chunk size is zero, reduce worker count")
	ErrMalformedHeader = errors.New("preprocessor: could not parse first record")
	ErrMalformedTrailer = errors.New("preprocessor: could not parse last record")
)

// FileSegment is a byte range [Start, End) of the input file, aligned so
// that it contains only complete records.
type FileSegment struct {
	Start uint64
	End   uint64
}

// TimeInterval is a half-open bucket [StartNs, EndNs) of nanosecond time.
type TimeInterval struct {
	StartNs uint64
	EndNs   uint64
}

// IntervalMetadata describes the bucket grid derived from the file's first
// and last record timestamps.
type IntervalMetadata struct {
	Count           uint64
	GlobalStartNs   uint64
	GlobalEndNs     uint64
	IntervalLengthNs uint64
}

// PreprocessedData is everything the pipeline needs to launch mappers and
// reducers: the file segments to parse and the bucket grid to route into.
type PreprocessedData struct {
	Segments  []FileSegment
	Intervals []TimeInterval
	Metadata  IntervalMetadata
}

// Preprocessor prepares file partitions and time intervals for a pipeline run.
type Preprocessor struct {
	path           string
	workerCount    uint16
	intervalLength uint64
	fileSize       uint64
}

// New validates its arguments and stats the file eagerly, matching the
// original's constructor-throws style.
func New(path string, workerCount uint16, intervalLengthNs uint64) (*Preprocessor, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if workerCount == 0 {
		return nil, ErrZeroWorkers
	}
	if intervalLengthNs == 0 {
		return nil, ErrZeroInterval
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}

	return &Preprocessor{
		path:           path,
		workerCount:    workerCount,
		intervalLength: intervalLengthNs,
		fileSize:       uint64(info.Size()),
	}, nil
}

// Run performs the boundary scan and byte partitioning, returning the
// complete set of segments and intervals for this file.
func (p *Preprocessor) Run() (*PreprocessedData, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("preprocessor: open %s: %w", p.path, err)
	}
	defer file.Close()

	metadata, intervals, err := p.buildIntervals(file)
	if err != nil {
		return nil, err
	}

	segments, err := p.buildSegments(file)
	if err != nil {
		return nil, err
	}

	return &PreprocessedData{
		Segments:  segments,
		Intervals: intervals,
		Metadata:  metadata,
	}, nil
}

// buildIntervals reads the first and last complete lines of the file to
// determine the global time span, then lays out the bucket grid.
func (p *Preprocessor) buildIntervals(file *os.File) (IntervalMetadata, []TimeInterval, error) {
	firstLine, err := readFirstLine(file)
	if err != nil {
		return IntervalMetadata{}, nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	firstTs, err := quote.ParseTimeNs(firstLine)
	if err != nil {
		return IntervalMetadata{}, nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	lastLine, err := readLastLine(file, int64(p.fileSize))
	if err != nil {
		return IntervalMetadata{}, nil, fmt.Errorf("%w: %v", ErrMalformedTrailer, err)
	}
	lastTs, err := quote.ParseTimeNs(lastLine)
	if err != nil {
		return IntervalMetadata{}, nil, fmt.Errorf("%w: %v", ErrMalformedTrailer, err)
	}

	totalDuration := lastTs - firstTs
	count := totalDuration / p.intervalLength
	if totalDuration%p.intervalLength != 0 {
		count++
	}
	if count == 0 {
		count = 1
	}

	intervals := make([]TimeInterval, 0, count)
	for i := uint64(0); i < count; i++ {
		start := firstTs + i*p.intervalLength
		intervals = append(intervals, TimeInterval{StartNs: start, EndNs: start + p.intervalLength})
	}

	return IntervalMetadata{
		Count:            count,
		GlobalStartNs:    firstTs,
		GlobalEndNs:      lastTs,
		IntervalLengthNs: p.intervalLength,
	}, intervals, nil
}

// buildSegments splits the file into worker-aligned byte ranges, nudging
// each tentative boundary forward to the next newline.
func (p *Preprocessor) buildSegments(file *os.File) ([]FileSegment, error) {
	chunkSize := p.fileSize / uint64(p.workerCount)
	if chunkSize == 0 {
		return nil, ErrTooManyWorkers
	}

	segments := make([]FileSegment, 0, p.workerCount)
	for i := uint16(0); i < p.workerCount; i++ {
		start := uint64(i) * chunkSize
		var end uint64
		if i == p.workerCount-1 {
			end = p.fileSize
		} else {
			end = start + chunkSize
		}

		var err error
		if start > 0 {
			start, err = advanceToNewline(file, start, p.fileSize)
			if err != nil {
				return nil, fmt.Errorf("preprocessor: align segment start: %w", err)
			}
		}
		if end < p.fileSize {
			end, err = advanceToNewline(file, end, p.fileSize)
			if err != nil {
				return nil, fmt.Errorf("preprocessor: align segment end: %w", err)
			}
		}

		segments = append(segments, FileSegment{Start: start, End: end})
	}
	return segments, nil
}

// advanceToNewline moves offset forward, byte by byte, until it lands just
// past a '\n' or reaches fileSize.
func advanceToNewline(file *os.File, offset, fileSize uint64) (uint64, error) {
	if _, err := file.Seek(int64(offset), io.SeekStart); err != nil {
		return 0, err
	}
	r := bufio.NewReader(file)
	cur := offset
	buf := make([]byte, 1)
	for cur < fileSize {
		n, err := r.Read(buf)
		if n == 1 {
			cur++
			if buf[0] == '\n' {
				break
			}
		}
		if err != nil {
			break
		}
	}
	return cur, nil
}

// readFirstLine returns the first newline-terminated (or EOF-terminated) line.
func readFirstLine(file *os.File) ([]byte, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("no first line")
	}
	line := append([]byte(nil), scanner.Bytes()...)
	return line, nil
}

// readLastLine seeks backward from EOF to find the last complete line,
// mirroring the original's "walk back to the previous newline" scan.
func readLastLine(file *os.File, fileSize int64) ([]byte, error) {
	if fileSize == 0 {
		return nil, errors.New("empty file")
	}

	const chunk = 4096
	var tail []byte
	pos := fileSize

	for pos > 0 {
		readSize := int64(chunk)
		if readSize > pos {
			readSize = pos
		}
		pos -= readSize

		buf := make([]byte, readSize)
		if _, err := file.ReadAt(buf, pos); err != nil {
			return nil, err
		}
		tail = append(buf, tail...)

		// Trim a single trailing newline so it doesn't look like the boundary.
		trimmed := bytes.TrimRight(tail, "\n")
		if idx := bytes.LastIndexByte(trimmed, '\n'); idx >= 0 {
			return trimmed[idx+1:], nil
		}
		if pos == 0 {
			return trimmed, nil
		}
	}
	return bytes.TrimRight(tail, "\n"), nil
}
