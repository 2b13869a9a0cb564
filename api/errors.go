// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across the coroloop library.
//
// The values split into two classes. Recoverable conditions
// (ErrChannelClosed) are returned to callers; ErrChannelClosed also wraps
// the panic of a double close. Invariant violations and collaborator
// faults (everything else) are used as panic payloads: they
// signal programmer error or a broken external contract, and the loop does
// not attempt to continue past them.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrChannelClosed is returned by a send on a closed channel, including
	// to senders parked on a channel that closes, and wraps the panic of a
	// second Close.
	ErrChannelClosed = fmt.Errorf("channel is closed")

	// ErrNotInTask reports a blocking primitive invoked outside the
	// currently running task.
	ErrNotInTask = fmt.Errorf("blocking primitive outside a running task")

	// ErrTaskState reports an illegal task lifecycle transition, such as
	// resuming a terminated task or starting a task twice.
	ErrTaskState = fmt.Errorf("invalid task state transition")

	// ErrTaskFault wraps a panic recovered from a user task body.
	ErrTaskFault = fmt.Errorf("task fault")

	// ErrSelectFailed reports a failure of the readiness selector.
	ErrSelectFailed = fmt.Errorf("readiness select failed")

	// ErrClockFault reports a failed clock read or a monotonic reading
	// earlier than a previous one.
	ErrClockFault = fmt.Errorf("monotonic clock fault")

	// ErrInvalidArgument reports a malformed argument to a public entry
	// point, such as a negative channel capacity.
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// ErrNotSupported reports an operation unavailable on this platform.
	ErrNotSupported = fmt.Errorf("operation not supported")
)
