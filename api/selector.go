// File: api/selector.go
// Package api defines the readiness Selector contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// Selector is the synchronous multi-descriptor readiness primitive the
// scheduler polls once per cycle, modeled on select(2).
//
// Select waits until at least one of the requested descriptors is ready
// for the corresponding direction, or until timeout elapses. A negative
// timeout blocks indefinitely. The returned slices are the subsets of the
// read and write arguments that are ready, in argument order; both are
// empty when the wait timed out.
//
// Implementations must not report readiness spuriously. An error return is
// treated as fatal by the scheduler.
type Selector interface {
	Select(read, write []int, timeout time.Duration) (readyRead, readyWrite []int, err error)
}
