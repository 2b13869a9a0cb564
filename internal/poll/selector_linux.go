//go:build linux

// File: internal/poll/selector_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// select(2)-based readiness selector. select is preferred over epoll here:
// the interest set is rebuilt from the subscription lists on every cycle,
// so the one-shot, stateless wait matches the scheduler exactly and no
// kernel-side registration has to be kept in sync.

package poll

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/coroloop/api"
)

// selectSelector implements api.Selector over unix.Select.
type selectSelector struct{}

var _ api.Selector = selectSelector{}

// NewSelector returns the platform readiness selector.
func NewSelector() api.Selector {
	return selectSelector{}
}

// Select waits for readiness on the given descriptors. A negative timeout
// blocks indefinitely. EINTR restarts the wait with a rebuilt interest
// set and the full timeout.
func (selectSelector) Select(read, write []int, timeout time.Duration) ([]int, []int, error) {
	for {
		var rset, wset unix.FdSet
		nfd := 0
		for _, fd := range read {
			if fd < 0 || fd >= unix.FD_SETSIZE {
				return nil, nil, fmt.Errorf("%w: descriptor %d out of select range", api.ErrInvalidArgument, fd)
			}
			rset.Set(fd)
			if fd >= nfd {
				nfd = fd + 1
			}
		}
		for _, fd := range write {
			if fd < 0 || fd >= unix.FD_SETSIZE {
				return nil, nil, fmt.Errorf("%w: descriptor %d out of select range", api.ErrInvalidArgument, fd)
			}
			wset.Set(fd)
			if fd >= nfd {
				nfd = fd + 1
			}
		}

		var tv *unix.Timeval
		if timeout >= 0 {
			t := unix.NsecToTimeval(timeout.Nanoseconds())
			tv = &t
		}

		n, err := unix.Select(nfd, &rset, &wset, nil, tv)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("select: %w", err)
		}
		if n == 0 {
			return nil, nil, nil
		}

		var rr, rw []int
		for _, fd := range read {
			if rset.IsSet(fd) {
				rr = append(rr, fd)
			}
		}
		for _, fd := range write {
			if wset.IsSet(fd) {
				rw = append(rw, fd)
			}
		}
		return rr, rw, nil
	}
}
