package qchannel

import (
	"testing"

	"github.com/AlexScherba16/itask/quote"
)

func TestTryDequeueEmpty(t *testing.T) {
	c := New(4)
	if _, ok := c.TryDequeue(); ok {
		t.Fatal("TryDequeue on empty channel should return ok=false")
	}
}

func TestEnqueueTryDequeueRoundTrip(t *testing.T) {
	c := New(4)
	q := &quote.Quote{TimeNs: 7}
	c.Enqueue(q)

	got, ok := c.TryDequeue()
	if !ok {
		t.Fatal("expected ok=true after enqueue")
	}
	if got != q {
		t.Fatalf("got %+v, want %+v", got, q)
	}
}

func TestSentinel(t *testing.T) {
	c := New(1)
	c.Enqueue(nil)

	got, ok := c.TryDequeue()
	if !ok {
		t.Fatal("expected ok=true for sentinel")
	}
	if got != nil {
		t.Fatalf("expected sentinel nil, got %+v", got)
	}
}

func TestMultipleProducersSingleConsumer(t *testing.T) {
	c := New(1024)
	const n = 200
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func(id int) {
			for j := 0; j < n/4; j++ {
				c.Enqueue(&quote.Quote{TimeNs: uint64(id*1000 + j)})
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	count := 0
	for {
		if _, ok := c.TryDequeue(); ok {
			count++
			continue
		}
		break
	}
	if count != n {
		t.Fatalf("drained %d items, want %d", count, n)
	}
}
