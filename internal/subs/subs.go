// File: internal/subs/subs.go
// Package subs implements the readiness subscription table.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A List is a multiset of (descriptor, task) bindings for one direction.
// It keeps two views: per-descriptor slices in insertion order, used for
// dispatch, and an ordered set of distinct watched descriptors, used to
// build the selector's interest set. Multiple subscriptions may share a
// descriptor.

package subs

import (
	"github.com/momentics/coroloop/internal/task"
)

// Direction of the readiness a subscription waits for.
type Direction int

const (
	Read Direction = iota
	Write
)

// String returns the direction name for diagnostics.
func (d Direction) String() string {
	if d == Write {
		return "write"
	}
	return "read"
}

// Subscription binds a descriptor and direction to a task. The task may be
// NotStarted (a readiness callback) or Suspended (a task awaiting the
// descriptor); it is dispatched on every readiness event until it
// terminates, at which point the subscription is consumed.
type Subscription struct {
	FD   int
	Dir  Direction
	Task *task.Task
}

// List is the subscription multiset for one direction.
type List struct {
	byFD map[int][]*Subscription
	fds  []int // distinct watched descriptors, insertion-ordered
}

// NewList creates an empty subscription list.
func NewList() *List {
	return &List{byFD: make(map[int][]*Subscription)}
}

// Add appends a subscription for fd and returns it.
func (l *List) Add(fd int, dir Direction, t *task.Task) *Subscription {
	s := &Subscription{FD: fd, Dir: dir, Task: t}
	if _, ok := l.byFD[fd]; !ok {
		l.fds = append(l.fds, fd)
	}
	l.byFD[fd] = append(l.byFD[fd], s)
	return s
}

// FDs returns the distinct watched descriptors in first-subscription
// order. The slice is a copy.
func (l *List) FDs() []int {
	out := make([]int, len(l.fds))
	copy(out, l.fds)
	return out
}

// ForFD returns a snapshot of the subscriptions bound to fd in insertion
// order.
func (l *List) ForFD(fd int) []*Subscription {
	ss := l.byFD[fd]
	out := make([]*Subscription, len(ss))
	copy(out, ss)
	return out
}

// Remove deletes one subscription. The descriptor leaves the watched set
// once its last subscription is removed.
func (l *List) Remove(s *Subscription) {
	ss := l.byFD[s.FD]
	for i, cur := range ss {
		if cur == s {
			ss = append(ss[:i], ss[i+1:]...)
			break
		}
	}
	if len(ss) == 0 {
		delete(l.byFD, s.FD)
		for i, fd := range l.fds {
			if fd == s.FD {
				l.fds = append(l.fds[:i], l.fds[i+1:]...)
				break
			}
		}
		return
	}
	l.byFD[s.FD] = ss
}

// Prune removes subscriptions whose tasks have terminated.
func (l *List) Prune() {
	for _, fd := range l.FDs() {
		for _, s := range l.ForFD(fd) {
			if s.Task.Terminated() {
				l.Remove(s)
			}
		}
	}
}

// Empty reports whether nothing is watched.
func (l *List) Empty() bool { return len(l.fds) == 0 }

// Len returns the total number of subscriptions.
func (l *List) Len() int {
	n := 0
	for _, ss := range l.byFD {
		n += len(ss)
	}
	return n
}
