//go:build !linux

// File: internal/poll/clock_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable monotonic clock fallback for non-Linux builds. time.Since over
// a fixed epoch carries the runtime's monotonic reading.

package poll

import (
	"time"

	"github.com/momentics/coroloop/api"
)

type portableClock struct {
	epoch time.Time
}

var _ api.Clock = (*portableClock)(nil)

// NewClock returns a monotonic clock anchored at its creation time.
func NewClock() api.Clock {
	return &portableClock{epoch: time.Now()}
}

func (c *portableClock) Now() time.Duration {
	return time.Since(c.epoch)
}

func (c *portableClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
