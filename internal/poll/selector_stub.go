//go:build !linux

// File: internal/poll/selector_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub selector for platforms without a wired select(2) path. Schedulers
// on these platforms run timers and channels; stream subscriptions fail
// fatally on first poll.

package poll

import (
	"fmt"
	"time"

	"github.com/momentics/coroloop/api"
)

type stubSelector struct{}

var _ api.Selector = stubSelector{}

// NewSelector returns a selector that rejects every wait.
func NewSelector() api.Selector {
	return stubSelector{}
}

func (stubSelector) Select(read, write []int, timeout time.Duration) ([]int, []int, error) {
	return nil, nil, fmt.Errorf("%w: stream readiness on this platform", api.ErrNotSupported)
}
