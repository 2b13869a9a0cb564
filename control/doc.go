// File: control/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package control collects runtime counters of the scheduler: cycles run,
// tasks spawned and faulted, timers fired, poll wakeups and channel
// transfers. Counters are cheap to bump from the loop and snapshotted on
// demand for observability.
package control
