// File: internal/sched/cycle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The run loop. One cycle advances the ready queue, fires at most one due
// timer, polls stream readiness with the computed timeout and otherwise
// idles. Any step that makes progress ends the cycle so the next one
// starts from a fresh clock reading.

package sched

import (
	"errors"
	"fmt"
	"time"

	"github.com/momentics/coroloop/api"
	"github.com/momentics/coroloop/control"
	"github.com/momentics/coroloop/internal/subs"
	"github.com/momentics/coroloop/internal/task"
	"github.com/momentics/coroloop/internal/timeq"
)

// Run drives the loop to quiescence. The loop body is itself a task, so
// Run invoked from inside a running task is detected and returns
// immediately; Run invoked after a previous loop terminated starts a
// fresh one, picking up any work posted since.
func (s *Scheduler) Run() {
	if s.running {
		return
	}
	s.running = true
	s.ran = true
	defer func() { s.running = false }()

	s.loop = task.New(s.runLoop)
	s.loop.Start()
	for !s.loop.Terminated() {
		s.loop.Resume(nil)
	}
	// User faults are isolated inside the cycle; a fault of the loop task
	// itself is a fatal condition (selector or clock) and is re-raised.
	if err, ok := s.loop.Result().(error); ok {
		panic(err)
	}
}

// runLoop is the loop task body: cycle, yield, repeat until quiescent.
func (s *Scheduler) runLoop(...any) any {
	for s.cycle() {
		s.loop.Suspend()
	}
	return nil
}

// cycle performs one pass. It returns false only when no work remains (or
// when only unwakeable delayed tasks remain, which is a deadlock).
func (s *Scheduler) cycle() bool {
	s.tick()
	s.metrics.Inc(control.MetricCycles)

	if s.advanceReady() {
		return true
	}

	timeout, fired := s.advanceTimers()
	if fired {
		return true
	}

	s.readSubs.Prune()
	s.writeSubs.Prune()
	rfds, wfds := s.readSubs.FDs(), s.writeSubs.FDs()
	if len(rfds)+len(wfds) > 0 {
		s.pollStreams(rfds, wfds, timeout)
		// Whether or not readiness arrived, the wait bounded this cycle;
		// timers and fresh work are reconsidered on the next pass.
		return true
	}

	if timeout > 0 {
		s.clock.Sleep(timeout)
		return true
	}

	// Either quiescent, or the ready queue holds only delayed tasks with
	// no timer or stream left to wake them. The deadlock terminates the
	// loop rather than spinning it.
	return false
}

// tick reads the clock into the loop, verifying monotonicity, and advises
// the timer queue.
func (s *Scheduler) tick() {
	now := s.clock.Now()
	if now < s.time {
		panic(fmt.Errorf("%w: %v after %v", api.ErrClockFault, now, s.time))
	}
	s.time = now
	s.timers.Tick(now)
}

// advanceReady dequeues up to the snapshot length of the ready queue,
// skip-and-requeueing delayed tasks, and starts or resumes the rest.
// Tasks enqueued while this step runs wait for the next cycle.
func (s *Scheduler) advanceReady() bool {
	progressed := false
	n := s.ready.Length()
	for i := 0; i < n; i++ {
		t := s.ready.Remove().(*task.Task)
		if t.Terminated() {
			delete(s.delayed, t)
			continue
		}
		if s.IsDelayed(t) {
			s.ready.Add(t)
			continue
		}
		s.advance(t)
		progressed = true
	}
	return progressed
}

// advanceTimers peeks the earliest timer. If it is not due the remaining
// time becomes the cycle timeout; if it is due, it is fired as a fresh
// task with (start, now) and, for recurring timers, re-armed from the
// fire time unless the callback asked to stop. A callback that suspended
// through the delayed set joins the ready queue; a recurring one that
// suspended defers its next tick until it terminates.
func (s *Scheduler) advanceTimers() (timeout time.Duration, fired bool) {
	top, ok := s.timers.Top()
	if !ok {
		return 0, false
	}
	if !top.Due(s.time) {
		return top.Left(s.time), false
	}

	tm, _ := s.timers.Shift()
	s.metrics.Inc(control.MetricTimersFired)
	t := task.New(tm.Callback)
	s.advance(t, s.start, s.time)
	if t.Terminated() {
		if tm.Recurrent && !stopRequested(t.Result()) {
			s.timers.Add(tm.WithSince(s.time))
		}
	} else {
		if tm.Recurrent {
			s.inflight[t] = tm
		}
		// A callback parked through the delayed set keeps its ready queue
		// reference; its waker clears the mark. One parked on a stream
		// subscription is resumed by dispatch instead and must not enter
		// the ready queue.
		if s.IsDelayed(t) {
			s.Enqueue(t)
		}
	}
	return 0, true
}

// pollStreams waits on the selector and dispatches ready descriptors. A
// zero timeout with watched descriptors means nothing timed is pending,
// so the wait is unbounded.
func (s *Scheduler) pollStreams(rfds, wfds []int, timeout time.Duration) {
	wait := timeout
	if wait == 0 {
		wait = -1
	}
	rr, rw, err := s.selector.Select(rfds, wfds, wait)
	if err != nil {
		panic(fmt.Errorf("%w: %v", api.ErrSelectFailed, err))
	}
	if len(rr)+len(rw) == 0 {
		return
	}
	s.metrics.Inc(control.MetricPollWakeups)
	for _, fd := range rr {
		s.dispatch(s.readSubs, fd)
	}
	for _, fd := range rw {
		s.dispatch(s.writeSubs, fd)
	}
}

// dispatch runs the subscriptions bound to a ready descriptor in
// insertion order. Delayed tasks are skipped; NotStarted tasks receive
// (fd, start, now); subscriptions of terminated tasks are consumed.
func (s *Scheduler) dispatch(l *subs.List, fd int) {
	for _, sub := range l.ForFD(fd) {
		t := sub.Task
		if t.Terminated() {
			l.Remove(sub)
			continue
		}
		if s.IsDelayed(t) {
			continue
		}
		s.advance(t, fd, s.start, s.time)
		if t.Terminated() {
			l.Remove(sub)
		}
	}
}

// advance starts or resumes one task with the current-task marker set,
// then settles its bookkeeping if it terminated.
func (s *Scheduler) advance(t *task.Task, args ...any) {
	prev := s.current
	s.current = t
	if t.State() == task.NotStarted {
		t.Start(args...)
	} else {
		t.Resume(nil)
	}
	s.current = prev
	if t.Terminated() {
		s.finish(t)
	}
}

// finish prunes a terminated task from the delayed set, counts faults and
// performs the deferred re-arming of a recurring timer whose callback had
// suspended mid-fire.
func (s *Scheduler) finish(t *task.Task) {
	delete(s.delayed, t)
	if err, ok := t.Result().(error); ok && errors.Is(err, api.ErrTaskFault) {
		s.metrics.Inc(control.MetricTasksFaulted)
	}
	if tm, ok := s.inflight[t]; ok {
		delete(s.inflight, t)
		if !stopRequested(t.Result()) {
			s.timers.Add(tm.WithSince(s.time))
		}
	}
}

// stopRequested interprets a recurring callback result.
func stopRequested(result any) bool {
	r, ok := result.(timeq.Repeat)
	return ok && r == timeq.Stop
}
