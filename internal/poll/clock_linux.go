//go:build linux

// File: internal/poll/clock_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux monotonic clock over clock_gettime(CLOCK_MONOTONIC).

package poll

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/coroloop/api"
)

// monotonicClock reads CLOCK_MONOTONIC directly.
type monotonicClock struct{}

var _ api.Clock = monotonicClock{}

// NewClock returns the platform monotonic clock.
func NewClock() api.Clock {
	return monotonicClock{}
}

// Now returns nanoseconds since the kernel's monotonic epoch.
func (monotonicClock) Now() time.Duration {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic(fmt.Errorf("%w: clock_gettime: %v", api.ErrClockFault, err))
	}
	return time.Duration(unix.TimespecToNsec(ts))
}

// Sleep parks the thread for the idle path of the loop.
func (monotonicClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
