// File: internal/task/task.go
// Package task implements suspendable cooperative tasks.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Task is a coroutine realized on top of a dedicated goroutine. The
// goroutine only runs between a Start/Resume call and the next Suspend or
// return of the body, handing control back through an unbuffered yield
// channel, so at most one of the scheduler goroutine and the task
// goroutine is runnable at any instant. This is the classic
// coroutine-over-goroutine construction: the goroutine supplies the stack,
// the channel pair supplies the transfer of control.

package task

import (
	"fmt"
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/momentics/coroloop/api"
)

// State is the lifecycle state of a Task.
type State int32

// Task lifecycle states.
const (
	NotStarted State = iota
	Suspended
	Running
	Terminated
)

// String returns the state name for diagnostics.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Suspended:
		return "Suspended"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Func is a task body. Start arguments are delivered as args; the return
// value becomes the task result once the task terminates.
type Func func(args ...any) any

var idSeq atomic.Uint64

// Task is one suspendable unit of work.
type Task struct {
	id    uint64
	fn    Func
	state State

	// resume carries the value passed to Resume into the parked body.
	// yield signals the driver that the body suspended or terminated.
	// Both are unbuffered: every Start/Resume pairs with exactly one
	// yield signal.
	resume chan any
	yield  chan struct{}

	// gid is the goroutine id of the body while the task is live. Suspend
	// verifies the caller against it.
	gid int64

	result any
}

// New creates a task in the NotStarted state.
func New(fn Func) *Task {
	return &Task{
		id: idSeq.Add(1),
		fn: fn,
	}
}

// ID returns the spawn sequence number of the task.
func (t *Task) ID() uint64 { return t.id }

// State returns the current lifecycle state.
func (t *Task) State() State { return t.state }

// Terminated reports whether the task has run to completion.
func (t *Task) Terminated() bool { return t.state == Terminated }

// Result returns the task's return value. Meaningful only once the task
// has terminated; a recovered body panic is stored as an error wrapping
// api.ErrTaskFault.
func (t *Task) Result() any { return t.result }

// OnGoroutine reports whether the caller is the goroutine of this task's
// running body. Blocking primitives use it to reject calls from foreign
// goroutines.
func (t *Task) OnGoroutine() bool {
	return t.state == Running && t.gid == goid.Get()
}

// Start launches the body with args and blocks until the task suspends or
// terminates. Starting a task twice is an invariant violation.
func (t *Task) Start(args ...any) {
	if t.state != NotStarted {
		panic(fmt.Errorf("%w: start of %v task", api.ErrTaskState, t.state))
	}
	t.resume = make(chan any)
	t.yield = make(chan struct{})
	t.state = Running
	go t.body(args)
	<-t.yield
}

// Resume transfers control back into a suspended task, delivering v as the
// return value of the Suspend call that parked it, and blocks until the
// task suspends again or terminates. Resuming a terminated or running task
// is an invariant violation.
func (t *Task) Resume(v any) {
	if t.state != Suspended {
		panic(fmt.Errorf("%w: resume of %v task", api.ErrTaskState, t.state))
	}
	t.resume <- v
	<-t.yield
}

// Suspend parks the task and hands control back to the driver that called
// Start or Resume. It returns the value passed to the Resume call that
// wakes the task. Suspend must be called from the task's own body.
func (t *Task) Suspend() any {
	if !t.OnGoroutine() {
		panic(fmt.Errorf("%w: suspend from foreign goroutine", api.ErrTaskState))
	}
	t.state = Suspended
	t.yield <- struct{}{}
	v := <-t.resume
	t.state = Running
	return v
}

// body runs the task function on the dedicated goroutine, capturing a
// panic as the task fault and signaling the final yield.
func (t *Task) body(args []any) {
	t.gid = goid.Get()
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				t.result = fmt.Errorf("%w: %w", api.ErrTaskFault, err)
			} else {
				t.result = fmt.Errorf("%w: %v", api.ErrTaskFault, r)
			}
		}
		t.state = Terminated
		t.yield <- struct{}{}
	}()
	t.result = t.fn(args...)
}
