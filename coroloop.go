// File: coroloop.go
// Unified facade for the coroloop scheduler.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Loop aggregates the scheduler core behind a single facade and exposes
// the dispatch primitives. The package-level functions delegate to a
// process-wide Loop created on first use, so small programs never touch
// a Loop value; embedders and tests construct isolated instances with
// New.

package coroloop

import (
	"sync"
	"time"

	"github.com/momentics/coroloop/api"
	"github.com/momentics/coroloop/internal/sched"
	"github.com/momentics/coroloop/internal/task"
	"github.com/momentics/coroloop/internal/timeq"
)

// TaskFunc is a task body. Start arguments — (start, now) for timer
// callbacks, (fd, start, now) for readiness callbacks, the Spawn
// arguments otherwise — arrive as args; the return value becomes the
// task result.
type TaskFunc func(args ...any) any

// Repeat is the control value an Every callback returns to direct
// rescheduling.
type Repeat = timeq.Repeat

// Recurring timer callback results.
const (
	RepeatContinue = timeq.Continue
	RepeatStop     = timeq.Stop
)

// Handle is the caller's non-owning reference to a spawned task.
type Handle struct {
	t *task.Task
}

// ID returns the task's spawn sequence number.
func (h *Handle) ID() uint64 { return h.t.ID() }

// Terminated reports whether the task has run to completion.
func (h *Handle) Terminated() bool { return h.t.Terminated() }

// Result returns the task's return value once terminated. A task that
// panicked yields an error wrapping api.ErrTaskFault.
func (h *Handle) Result() any { return h.t.Result() }

// Loop is one scheduler instance.
type Loop struct {
	cfg   *Config
	sched *sched.Scheduler
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Loop)(nil)

// New constructs a Loop with the given configuration. Nil configs and
// nil fields fall back to DefaultConfig.
func New(cfg *Config) *Loop {
	cfg = cfg.withDefaults()
	return &Loop{
		cfg:   cfg,
		sched: sched.New(cfg.Clock, cfg.Selector, cfg.DiagWriter, cfg.Metrics),
	}
}

// Spawn wraps fn with args into a task, enqueues it and returns its
// handle. The task starts on the next cycle of the running loop.
func (l *Loop) Spawn(fn TaskFunc, args ...any) *Handle {
	return &Handle{t: l.sched.Spawn(task.Func(fn), args...)}
}

// Delay suspends the current task for at least d.
func (l *Loop) Delay(d time.Duration) {
	l.sched.Delay(d)
}

// After arms a one-shot timer running fn after d. The callback receives
// (start, now) as arguments.
func (l *Loop) After(d time.Duration, fn TaskFunc) {
	l.sched.After(d, task.Func(fn))
}

// Every arms a recurring timer running fn every d, rebased to each fire
// time. Return RepeatStop from fn to cease.
func (l *Loop) Every(d time.Duration, fn TaskFunc) {
	l.sched.Every(d, task.Func(fn))
}

// AwaitReadable suspends the current task until fd is readable.
func (l *Loop) AwaitReadable(fd int) {
	l.sched.AwaitReadable(fd)
}

// AwaitWritable suspends the current task until fd is writable.
func (l *Loop) AwaitWritable(fd int) {
	l.sched.AwaitWritable(fd)
}

// OnReadable subscribes fn to read readiness of fd. The callback task is
// started on the first event with (fd, start, now) and stays subscribed
// until it terminates.
func (l *Loop) OnReadable(fd int, fn TaskFunc) {
	l.sched.OnReadable(fd, task.Func(fn))
}

// OnWritable subscribes fn to write readiness of fd.
func (l *Loop) OnWritable(fd int, fn TaskFunc) {
	l.sched.OnWritable(fd, task.Func(fn))
}

// Run drives the loop until no work remains. Calling Run from inside a
// task is a no-op for the inner call; calling it again later picks up
// work posted since.
func (l *Loop) Run() {
	l.sched.Run()
}

// Drain runs the loop if it has never run. Programs that post work
// without calling Run use it (typically deferred from main) as the
// drain-before-exit hook.
func (l *Loop) Drain() error {
	if !l.sched.Ran() {
		l.sched.Run()
	}
	return nil
}

// Shutdown implements api.GracefulShutdown by delegating to Drain.
func (l *Loop) Shutdown() error {
	return l.Drain()
}

// Dprintfn prints a diagnostic line prefixed with the milliseconds
// elapsed since the loop was created, zero-padded to four digits.
func (l *Loop) Dprintfn(format string, args ...any) {
	l.sched.Dprintfn(format, args...)
}

// Metrics returns a snapshot of the loop's runtime counters.
func (l *Loop) Metrics() map[string]int64 {
	return l.sched.Metrics().GetSnapshot()
}

var (
	defaultOnce sync.Once
	defaultLoop *Loop
)

// Default returns the process-wide loop, creating it on first use.
func Default() *Loop {
	defaultOnce.Do(func() {
		defaultLoop = New(nil)
	})
	return defaultLoop
}

// Spawn enqueues fn with args on the default loop.
func Spawn(fn TaskFunc, args ...any) *Handle { return Default().Spawn(fn, args...) }

// Delay suspends the current task of the default loop for at least d.
func Delay(d time.Duration) { Default().Delay(d) }

// After arms a one-shot timer on the default loop.
func After(d time.Duration, fn TaskFunc) { Default().After(d, fn) }

// Every arms a recurring timer on the default loop.
func Every(d time.Duration, fn TaskFunc) { Default().Every(d, fn) }

// AwaitReadable suspends the current task until fd is readable.
func AwaitReadable(fd int) { Default().AwaitReadable(fd) }

// AwaitWritable suspends the current task until fd is writable.
func AwaitWritable(fd int) { Default().AwaitWritable(fd) }

// OnReadable subscribes fn to read readiness of fd on the default loop.
func OnReadable(fd int, fn TaskFunc) { Default().OnReadable(fd, fn) }

// OnWritable subscribes fn to write readiness of fd on the default loop.
func OnWritable(fd int, fn TaskFunc) { Default().OnWritable(fd, fn) }

// Run drives the default loop until no work remains.
func Run() { Default().Run() }

// Drain runs the default loop if it never ran.
func Drain() error { return Default().Drain() }

// Dprintfn prints a diagnostic line through the default loop.
func Dprintfn(format string, args ...any) { Default().Dprintfn(format, args...) }

// Metrics snapshots the default loop's counters.
func Metrics() map[string]int64 { return Default().Metrics() }
