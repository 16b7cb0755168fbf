// Package qchannel implements the bounded multi-producer/multi-consumer
// queue that fans parsed quotes out from mappers to reducers.
package qchannel

import "github.com/AlexScherba16/itask/quote"

// DefaultCapacity is the channel_capacity tuning constant from spec.md §6.
const DefaultCapacity = 4096

// Channel is a bounded MPMC queue of optional quotes. A nil *quote.Quote is
// the end-of-stream sentinel; exactly one is ever enqueued per channel.
// A Go buffered channel is already safe for concurrent sends and receives
// from multiple goroutines, so Channel is a thin, typed wrapper around one.
type Channel struct {
	ch chan *quote.Quote
}

// New creates a Channel with the given buffer capacity.
func New(capacity int) *Channel {
	return &Channel{ch: make(chan *quote.Quote, capacity)}
}

// Enqueue blocks until the value is accepted (or the channel has room).
// Passing nil enqueues the end-of-stream sentinel.
func (c *Channel) Enqueue(q *quote.Quote) {
	c.ch <- q
}

// TryDequeue performs a non-blocking receive. ok is false if the channel
// is currently empty; it does not mean end-of-stream (check the returned
// *quote.Quote for nil, which signals the sentinel, once ok is true).
func (c *Channel) TryDequeue() (q *quote.Quote, ok bool) {
	select {
	case q = <-c.ch:
		return q, true
	default:
		return nil, false
	}
}
