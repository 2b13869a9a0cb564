// File: internal/timeq/list.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// List is a binary min-heap of timers keyed by absolute deadline, with a
// monotonically increasing insertion sequence as the tie-break so equal
// deadlines fire in insertion order.

package timeq

import (
	"container/heap"
	"time"
)

// entry is one heap slot.
type entry struct {
	timer Timer
	seq   uint64
}

// entries satisfies heap.Interface. The earliest deadline sits at index 0.
type entries []entry

func (h entries) Len() int { return len(h) }

func (h entries) Less(i, j int) bool {
	di, dj := h[i].timer.Deadline(), h[j].timer.Deadline()
	if di != dj {
		return di < dj
	}
	return h[i].seq < h[j].seq
}

func (h entries) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entries) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entries) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// List is the scheduler's timer queue.
type List struct {
	h   entries
	seq uint64
}

// NewList creates an empty timer queue.
func NewList() *List {
	return &List{}
}

// Add inserts a timer.
func (l *List) Add(t Timer) {
	l.seq++
	heap.Push(&l.h, entry{timer: t, seq: l.seq})
}

// Top returns the earliest timer without removing it.
func (l *List) Top() (Timer, bool) {
	if len(l.h) == 0 {
		return Timer{}, false
	}
	return l.h[0].timer, true
}

// Shift removes and returns the earliest timer.
func (l *List) Shift() (Timer, bool) {
	if len(l.h) == 0 {
		return Timer{}, false
	}
	return heap.Pop(&l.h).(entry).timer, true
}

// Tick advises the queue of the new now. It may restore heap order but
// never fires timers; firing is the scheduler's job.
func (l *List) Tick(now time.Duration) {
	_ = now
	heap.Init(&l.h)
}

// Empty reports whether no timers are queued.
func (l *List) Empty() bool { return len(l.h) == 0 }

// Len returns the number of queued timers.
func (l *List) Len() int { return len(l.h) }
