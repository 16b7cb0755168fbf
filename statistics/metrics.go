// Package statistics computes online min/max/mean/median and per-interval
// bid/ask aggregates for the quote pipeline's reducers.
package statistics

import (
	"container/heap"
	"math"
)

// float64Heap is a min-heap of float64 by default; Less is swapped in
// maxFloat64Heap to get a max-heap out of the same container/heap plumbing.
type float64Heap []float64

func (h float64Heap) Len() int            { return len(h) }
func (h float64Heap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h float64Heap) Less(i, j int) bool  { return h[i] < h[j] }
func (h *float64Heap) Push(x interface{}) { *h = append(*h, x.(float64)) }
func (h *float64Heap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

type maxFloat64Heap struct{ float64Heap }

func (h maxFloat64Heap) Less(i, j int) bool { return h.float64Heap[i] > h.float64Heap[j] }

// Metrics maintains exact online min/max/mean and a streaming median over a
// float64 stream, via two complementary heaps: a max-heap of the smaller
// half (lower) and a min-heap of the larger half (upper).
//
// Median heap scheme based on the classic "two heaps" find-median-from-data-stream
// technique (as in the original: https://github.com/vitkarpov/coding-interviews-blog-archive).
type Metrics struct {
	lower maxFloat64Heap
	upper float64Heap

	globalMin float64
	globalMax float64
	count     uint64
	sum       float64
}

// NewMetrics returns an empty Metrics, ready for Insert.
func NewMetrics() *Metrics {
	return &Metrics{
		globalMin: math.MaxFloat64,
		globalMax: -math.MaxFloat64,
	}
}

// Insert folds one value into the running statistics.
//
// Invariant maintained after every call: len(lower) - len(upper) is 0 or 1,
// and every element of lower is <= every element of upper.
func (m *Metrics) Insert(x float64) {
	if x < m.globalMin {
		m.globalMin = x
	}
	if x > m.globalMax {
		m.globalMax = x
	}
	m.count++
	m.sum += x

	heap.Push(&m.lower, x)
	heap.Push(&m.upper, heap.Pop(&m.lower).(float64))
	if m.upper.Len() > m.lower.float64Heap.Len() {
		heap.Push(&m.lower, heap.Pop(&m.upper).(float64))
	}
}

// Min returns the smallest inserted value. Zero if nothing was inserted.
func (m *Metrics) Min() float64 {
	if m.count == 0 {
		return 0
	}
	return m.globalMin
}

// Max returns the largest inserted value. Zero if nothing was inserted.
func (m *Metrics) Max() float64 {
	if m.count == 0 {
		return 0
	}
	return m.globalMax
}

// Mean returns sum/count, or NaN if nothing was inserted.
func (m *Metrics) Mean() float64 {
	if m.count == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.count)
}

// Median returns the exact streaming median, or NaN if nothing was inserted.
func (m *Metrics) Median() float64 {
	if m.count == 0 {
		return math.NaN()
	}
	if m.lower.float64Heap.Len() > m.upper.Len() {
		return m.lower.float64Heap[0]
	}
	return (m.lower.float64Heap[0] + m.upper[0]) / 2.0
}

// Count returns the number of values inserted so far.
func (m *Metrics) Count() uint64 {
	return m.count
}

// Sum returns the running sum of inserted values.
func (m *Metrics) Sum() float64 {
	return m.sum
}
