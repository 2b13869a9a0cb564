// File: channel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Channel is the typed rendezvous / bounded-buffer primitive between
// tasks. Capacity zero makes every transfer a direct rendezvous: no
// buffer slot ever holds a value, sender and receiver meet through the
// wait queues. The wait queues are FIFO per direction and never both
// non-empty: a send finding a parked receiver hands its value over
// directly, and symmetrically for receive.

package coroloop

import (
	"fmt"

	"github.com/eapache/queue"

	"github.com/momentics/coroloop/api"
	"github.com/momentics/coroloop/control"
	"github.com/momentics/coroloop/internal/task"
)

// sendWaiter is a parked sender bound to the value it is transferring.
// err is set when the channel closes underneath it.
type sendWaiter[T any] struct {
	t   *task.Task
	val T
	err error
}

// recvWaiter is a parked receiver's value slot. ok stays false when the
// waiter is woken by close instead of a value.
type recvWaiter[T any] struct {
	t   *task.Task
	val T
	ok  bool
}

// Channel transfers values of type T between tasks of one loop.
type Channel[T any] struct {
	loop      *Loop
	capacity  int
	buf       *queue.Queue // of T
	senders   *queue.Queue // of *sendWaiter[T]
	receivers *queue.Queue // of *recvWaiter[T]
	closed    bool
}

// NewChannel creates a channel of the given capacity on the default
// loop. Capacity zero rendezvouses; a negative capacity is an invariant
// violation.
func NewChannel[T any](capacity int) *Channel[T] {
	return NewChannelOn[T](Default(), capacity)
}

// NewChannelOn creates a channel bound to an explicit loop.
func NewChannelOn[T any](l *Loop, capacity int) *Channel[T] {
	if capacity < 0 {
		panic(fmt.Errorf("%w: channel capacity %d", api.ErrInvalidArgument, capacity))
	}
	return &Channel[T]{
		loop:      l,
		capacity:  capacity,
		buf:       queue.New(),
		senders:   queue.New(),
		receivers: queue.New(),
	}
}

// Closed reports whether Close has been called.
func (c *Channel[T]) Closed() bool { return c.closed }

// Len returns the number of buffered values.
func (c *Channel[T]) Len() int { return c.buf.Length() }

// Send transfers v to a receiver. With a parked receiver the value is
// handed over directly; with buffer room it is appended; otherwise the
// calling task parks until a receiver takes the value. Send fails with
// api.ErrChannelClosed on a closed channel, including a close that
// happens while parked.
func (c *Channel[T]) Send(v T) error {
	s := c.loop.sched
	cur := s.Running("Send")

	if c.closed {
		return api.ErrChannelClosed
	}
	if c.receivers.Length() > 0 {
		w := c.receivers.Remove().(*recvWaiter[T])
		w.val, w.ok = v, true
		s.Metrics().Inc(control.MetricChannelTransfers)
		s.Wake(w.t)
		return nil
	}
	if c.buf.Length() < c.capacity {
		c.buf.Add(v)
		return nil
	}

	w := &sendWaiter[T]{t: cur, val: v}
	s.MarkDelayed(cur)
	c.senders.Add(w)
	cur.Suspend()
	return w.err
}

// Receive takes the next value. It drains the buffer first, waking one
// parked sender into the freed slot; on an empty zero-capacity channel
// it rendezvouses with a parked sender; otherwise the calling task parks
// until a value arrives. The second return is false exactly when the
// channel is closed and drained — a receive after drain never blocks.
func (c *Channel[T]) Receive() (T, bool) {
	s := c.loop.sched
	cur := s.Running("Receive")

	if c.buf.Length() > 0 {
		v := c.buf.Remove().(T)
		if c.senders.Length() > 0 {
			w := c.senders.Remove().(*sendWaiter[T])
			c.buf.Add(w.val)
			s.Wake(w.t)
		}
		s.Metrics().Inc(control.MetricChannelTransfers)
		return v, true
	}
	if c.senders.Length() > 0 {
		// Zero capacity: take the parked sender's value directly.
		w := c.senders.Remove().(*sendWaiter[T])
		s.Metrics().Inc(control.MetricChannelTransfers)
		s.Wake(w.t)
		return w.val, true
	}
	if c.closed {
		var zero T
		return zero, false
	}

	w := &recvWaiter[T]{t: cur}
	s.MarkDelayed(cur)
	c.receivers.Add(w)
	cur.Suspend()
	return w.val, w.ok
}

// Close marks the channel closed. Parked senders are woken with
// api.ErrChannelClosed; parked receivers are woken empty-handed and
// observe the drain. Closing a closed channel is an invariant violation.
func (c *Channel[T]) Close() {
	if c.closed {
		panic(fmt.Errorf("%w: close of closed channel", api.ErrChannelClosed))
	}
	c.closed = true
	s := c.loop.sched
	for c.senders.Length() > 0 {
		w := c.senders.Remove().(*sendWaiter[T])
		w.err = api.ErrChannelClosed
		s.Wake(w.t)
	}
	for c.receivers.Length() > 0 {
		w := c.receivers.Remove().(*recvWaiter[T])
		s.Wake(w.t)
	}
}
