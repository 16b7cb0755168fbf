// Package mapper implements the pipeline worker that parses one file
// segment and routes each parsed quote to its bucket's channel.
package mapper

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/AlexScherba16/itask/diagnostics"
	"github.com/AlexScherba16/itask/pools"
	"github.com/AlexScherba16/itask/preprocessor"
	"github.com/AlexScherba16/itask/qchannel"
	"github.com/AlexScherba16/itask/quote"
)

// Mapper parses one FileSegment and enqueues Quote values onto the channel
// matching each record's bucket index. It is designed to be run as a
// goroutine body via Run, with a sync.WaitGroup used as the completion
// barrier shared across every mapper in a pipeline run.
type Mapper struct {
	path     string
	segment  preprocessor.FileSegment
	metadata preprocessor.IntervalMetadata
	channels []*qchannel.Channel
	counters *diagnostics.Counters
}

// New constructs a Mapper. channels must have one entry per bucket
// (len(channels) == metadata.Count).
func New(path string, segment preprocessor.FileSegment, metadata preprocessor.IntervalMetadata,
	channels []*qchannel.Channel, counters *diagnostics.Counters) (*Mapper, error) {
	if path == "" {
		return nil, errors.New("mapper: empty file path")
	}
	if segment.End < segment.Start {
		return nil, fmt.Errorf("mapper: segment end %d is less than start %d", segment.End, segment.Start)
	}
	if len(channels) == 0 {
		return nil, errors.New("mapper: no channels provided")
	}
	if metadata.IntervalLengthNs == 0 {
		return nil, errors.New("mapper: interval length must be positive")
	}
	return &Mapper{
		path:     path,
		segment:  segment,
		metadata: metadata,
		channels: channels,
		counters: counters,
	}, nil
}

// Run parses the assigned segment and routes quotes to channels. It always
// decrements done exactly once, on every exit path, matching the source's
// scoped-release-on-exit discipline for the mappers-remaining barrier.
func (m *Mapper) Run(done *sync.WaitGroup) {
	defer done.Done()

	file, err := os.Open(m.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapper: could not open file %s: %v\n", m.path, err)
		m.counters.Incr(diagnostics.ReasonOpenFileFailed)
		return
	}
	defer file.Close()

	if _, err := file.Seek(int64(m.segment.Start), io.SeekStart); err != nil {
		fmt.Fprintf(os.Stderr, "mapper: could not seek to segment start %d: %v\n", m.segment.Start, err)
		m.counters.Incr(diagnostics.ReasonOpenFileFailed)
		return
	}

	reader := bufio.NewReaderSize(file, 256*1024)
	pos := m.segment.Start
	maxIndex := uint64(len(m.channels) - 1)

	for pos < m.segment.End {
		line, err := reader.ReadBytes('\n')
		pos += uint64(len(line))
		if len(line) > 0 {
			trimmed := trimNewline(line)
			if len(trimmed) > 0 {
				m.route(trimmed, maxIndex)
			}
		}
		if err != nil {
			break
		}
	}
}

// route parses one line and enqueues it onto the matching bucket channel,
// logging and skipping on any local (non-fatal) failure.
func (m *Mapper) route(line []byte, maxIndex uint64) {
	q, err := quote.Parse(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapper: skipping malformed record: %v\n", err)
		m.counters.Incr(diagnostics.ReasonMalformedRecord)
		return
	}

	if q.TimeNs < m.metadata.GlobalStartNs {
		fmt.Fprintf(os.Stderr, "mapper: record timestamp %d before global start %d, skipping\n", q.TimeNs, m.metadata.GlobalStartNs)
		m.counters.Incr(diagnostics.ReasonBucketOutOfRange)
		return
	}

	idx := (q.TimeNs - m.metadata.GlobalStartNs) / m.metadata.IntervalLengthNs
	// When the span is an exact multiple of the bucket length, the record
	// stamped at the global end lands on the last bucket's trailing edge;
	// it is folded into the last bucket instead of being dropped.
	if idx == maxIndex+1 && q.TimeNs == m.metadata.GlobalEndNs {
		idx = maxIndex
	}
	if idx > maxIndex {
		fmt.Fprintf(os.Stderr, "mapper: bucket index %d out of range (max %d) for timestamp %d, skipping\n", idx, maxIndex, q.TimeNs)
		m.counters.Incr(diagnostics.ReasonBucketOutOfRange)
		return
	}

	pooled := pools.GetQuote()
	*pooled = q
	m.channels[idx].Enqueue(pooled)
}

// trimNewline strips a single trailing '\n' and '\r', if present.
func trimNewline(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}
