// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"time"

	"github.com/momentics/coroloop/api"
)

// Step is the outcome of one scripted Select call: the descriptors that
// become ready. A zero Step models a wait that times out.
type Step struct {
	Read  []int
	Write []int
}

// Selector replays a script of readiness Steps. When a step reports
// nothing ready (or the script is exhausted) a bounded wait advances the
// attached fake clock by the timeout; an unbounded wait with nothing left
// to report returns Err or api.ErrSelectFailed, since it could never
// return otherwise.
type Selector struct {
	clock *Clock
	steps []Step

	// Err, when set, is returned by the next Select call. Used to test
	// fatal selector handling.
	Err error

	// Calls counts Select invocations.
	Calls int
}

var _ api.Selector = (*Selector)(nil)

// NewSelector creates a scripted selector driving clock.
func NewSelector(clock *Clock, steps ...Step) *Selector {
	return &Selector{clock: clock, steps: steps}
}

// Select pops the next scripted step, restricted to the requested
// descriptor sets.
func (s *Selector) Select(read, write []int, timeout time.Duration) ([]int, []int, error) {
	s.Calls++
	if s.Err != nil {
		return nil, nil, s.Err
	}

	var st Step
	if len(s.steps) > 0 {
		st = s.steps[0]
		s.steps = s.steps[1:]
	}

	rr := intersect(read, st.Read)
	rw := intersect(write, st.Write)
	if len(rr)+len(rw) > 0 {
		return rr, rw, nil
	}
	if timeout < 0 {
		return nil, nil, api.ErrSelectFailed
	}
	s.clock.Sleep(timeout)
	return nil, nil, nil
}

// intersect keeps the members of want that appear in have, in want order.
func intersect(want, have []int) []int {
	var out []int
	for _, fd := range want {
		for _, h := range have {
			if fd == h {
				out = append(out, fd)
				break
			}
		}
	}
	return out
}
