// File: internal/sched/scheduler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scheduler state and the public dispatch primitives. The run loop itself
// lives in cycle.go.

package sched

import (
	"fmt"
	"io"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/coroloop/api"
	"github.com/momentics/coroloop/control"
	"github.com/momentics/coroloop/internal/subs"
	"github.com/momentics/coroloop/internal/task"
	"github.com/momentics/coroloop/internal/timeq"
)

// Scheduler multiplexes tasks onto the calling thread. All state is
// mutated from the loop; there is no lock discipline because there is no
// parallelism.
type Scheduler struct {
	clock    api.Clock
	selector api.Selector
	diag     io.Writer
	metrics  *control.MetricsRegistry

	ready     *queue.Queue // FIFO of *task.Task
	timers    *timeq.List
	readSubs  *subs.List
	writeSubs *subs.List

	// delayed parks tasks that are referenced by the ready queue but must
	// not be resumed by the loop; the blocking primitive that set the mark
	// clears it. Entries are pruned as their tasks terminate.
	delayed map[*task.Task]struct{}

	// inflight tracks recurring timer callbacks that suspended mid-fire;
	// their next tick is scheduled when they terminate.
	inflight map[*task.Task]timeq.Timer

	start   time.Duration
	time    time.Duration
	running bool
	ran     bool
	loop    *task.Task
	current *task.Task
}

// New creates a scheduler on the given collaborators. A nil metrics
// registry is replaced with a fresh one. The diagnostic epoch of Dprintfn
// is the creation time.
func New(clock api.Clock, selector api.Selector, diag io.Writer, metrics *control.MetricsRegistry) *Scheduler {
	if metrics == nil {
		metrics = control.NewMetricsRegistry()
	}
	now := clock.Now()
	return &Scheduler{
		clock:     clock,
		selector:  selector,
		diag:      diag,
		metrics:   metrics,
		ready:     queue.New(),
		timers:    timeq.NewList(),
		readSubs:  subs.NewList(),
		writeSubs: subs.NewList(),
		delayed:   make(map[*task.Task]struct{}),
		inflight:  make(map[*task.Task]timeq.Timer),
		start:     now,
		time:      now,
	}
}

// Spawn wraps fn with args into a fresh task and enqueues it.
func (s *Scheduler) Spawn(fn task.Func, args ...any) *task.Task {
	t := task.New(func(...any) any { return fn(args...) })
	s.metrics.Inc(control.MetricTasksSpawned)
	s.Enqueue(t)
	return t
}

// Enqueue appends an existing task to the ready queue tail.
func (s *Scheduler) Enqueue(t *task.Task) {
	s.ready.Add(t)
}

// AddTimer inserts a timer into the timer queue.
func (s *Scheduler) AddTimer(tm timeq.Timer) {
	s.timers.Add(tm)
}

// After arms a one-shot timer firing fn after d. The callback task is
// started with (start, now) as its arguments.
func (s *Scheduler) After(d time.Duration, fn task.Func) {
	s.AddTimer(timeq.Timer{Interval: d, Since: s.clock.Now(), Callback: fn})
}

// Every arms a recurring timer firing fn every d, rebased to the fire
// time on each tick. The callback returns timeq.Stop to cease.
func (s *Scheduler) Every(d time.Duration, fn task.Func) {
	s.AddTimer(timeq.Timer{Interval: d, Since: s.clock.Now(), Recurrent: true, Callback: fn})
}

// Delay suspends the current task and arms a one-shot timer that wakes it
// after d. The task is parked through the delayed set so a stray ready
// queue reference (a timer callback suspending mid-fire) cannot resume it
// early.
func (s *Scheduler) Delay(d time.Duration) {
	t := s.Running("Delay")
	s.MarkDelayed(t)
	s.AddTimer(timeq.Timer{Interval: d, Since: s.clock.Now(), Callback: func(...any) any {
		s.Wake(t)
		return nil
	}})
	t.Suspend()
}

// AwaitReadable subscribes the current task to read readiness of fd and
// suspends it. The subscription stays until the task terminates.
func (s *Scheduler) AwaitReadable(fd int) {
	s.await(s.readSubs, fd, subs.Read)
}

// AwaitWritable subscribes the current task to write readiness of fd and
// suspends it.
func (s *Scheduler) AwaitWritable(fd int) {
	s.await(s.writeSubs, fd, subs.Write)
}

func (s *Scheduler) await(l *subs.List, fd int, dir subs.Direction) {
	t := s.Running("await " + dir.String())
	l.Add(fd, dir, t)
	t.Suspend()
}

// OnReadable subscribes a fresh callback task to read readiness of fd.
// The task is started on the first event with (fd, start, now).
func (s *Scheduler) OnReadable(fd int, fn task.Func) {
	s.readSubs.Add(fd, subs.Read, task.New(fn))
}

// OnWritable subscribes a fresh callback task to write readiness of fd.
func (s *Scheduler) OnWritable(fd int, fn task.Func) {
	s.writeSubs.Add(fd, subs.Write, task.New(fn))
}

// Running returns the currently executing task, verifying that the caller
// is its goroutine. Blocking primitives call this first; op names the
// primitive for the violation message.
func (s *Scheduler) Running(op string) *task.Task {
	t := s.current
	if t == nil || !t.OnGoroutine() {
		panic(fmt.Errorf("%w: %s", api.ErrNotInTask, op))
	}
	return t
}

// MarkDelayed parks t: the loop will skip-and-requeue it until Wake.
func (s *Scheduler) MarkDelayed(t *task.Task) {
	s.delayed[t] = struct{}{}
}

// IsDelayed reports whether t is parked.
func (s *Scheduler) IsDelayed(t *task.Task) bool {
	_, ok := s.delayed[t]
	return ok
}

// Wake clears the delayed mark and re-enqueues t.
func (s *Scheduler) Wake(t *task.Task) {
	delete(s.delayed, t)
	s.Enqueue(t)
}

// Ran reports whether Run has ever been invoked.
func (s *Scheduler) Ran() bool { return s.ran }

// Quiescent reports whether no work remains.
func (s *Scheduler) Quiescent() bool {
	return s.ready.Length() == 0 && s.timers.Empty() &&
		s.readSubs.Empty() && s.writeSubs.Empty()
}

// Metrics returns the scheduler's counter registry.
func (s *Scheduler) Metrics() *control.MetricsRegistry { return s.metrics }

// Now returns the last clock reading of the loop.
func (s *Scheduler) Now() time.Duration { return s.time }

// Dprintfn prints one diagnostic line prefixed with the milliseconds
// elapsed since scheduler creation, zero-padded to four digits.
func (s *Scheduler) Dprintfn(format string, args ...any) {
	ms := (s.clock.Now() - s.start).Milliseconds()
	fmt.Fprintf(s.diag, "[%04d]: "+format+"\n", append([]any{ms}, args...)...)
}
