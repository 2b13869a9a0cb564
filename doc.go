// File: doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package coroloop is a single-threaded cooperative scheduler: it
// multiplexes many tasks onto one OS thread by suspending and resuming
// them at explicit yield points. Tasks are ordinary functions that may
// pause to wait for time to pass (Delay), for a descriptor to become
// readable or writable (AwaitReadable, AwaitWritable), or for another
// task through a Channel.
//
// The package-level functions operate on a process-wide loop created on
// first use; New constructs isolated loops with their own clock,
// selector and diagnostic writer, which is how the tests run against
// simulated time. Run drives the loop until no work remains; Drain runs
// it before exit for programs that never called Run.
//
//	coroloop.After(100*time.Millisecond, func(args ...any) any {
//		coroloop.Dprintfn("tick")
//		return nil
//	})
//	coroloop.Run()
package coroloop
