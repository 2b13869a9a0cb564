// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"time"

	"github.com/momentics/coroloop/api"
)

// Clock is a manually driven monotonic clock for deterministic tests.
// Sleep advances it by the requested amount, so idle cycles of the
// scheduler move simulated time instead of wall time.
type Clock struct {
	now time.Duration
}

var _ api.Clock = (*Clock)(nil)

// NewClock creates a clock reading start.
func NewClock(start time.Duration) *Clock {
	return &Clock{now: start}
}

// Now returns the current simulated reading.
func (c *Clock) Now() time.Duration { return c.now }

// Sleep advances simulated time by d.
func (c *Clock) Sleep(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Advance moves simulated time forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now += d
}
