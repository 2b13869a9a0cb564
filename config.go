// File: config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package coroloop

import (
	"io"
	"os"

	"github.com/momentics/coroloop/api"
	"github.com/momentics/coroloop/control"
	"github.com/momentics/coroloop/internal/poll"
)

// Config holds the collaborators of one loop, immutable per run. Nil
// fields are filled from DefaultConfig.
type Config struct {
	Clock      api.Clock                // Monotonic time source
	Selector   api.Selector             // I/O readiness primitive
	DiagWriter io.Writer                // Sink for Dprintfn lines
	Metrics    *control.MetricsRegistry // Counter registry, shared if provided
}

// DefaultConfig returns the production configuration: the platform
// monotonic clock, the select(2) readiness selector and stdout
// diagnostics.
func DefaultConfig() *Config {
	return &Config{
		Clock:      poll.NewClock(),
		Selector:   poll.NewSelector(),
		DiagWriter: os.Stdout,
		Metrics:    control.NewMetricsRegistry(),
	}
}

// withDefaults fills nil fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	def := DefaultConfig()
	if out.Clock == nil {
		out.Clock = def.Clock
	}
	if out.Selector == nil {
		out.Selector = def.Selector
	}
	if out.DiagWriter == nil {
		out.DiagWriter = def.DiagWriter
	}
	if out.Metrics == nil {
		out.Metrics = def.Metrics
	}
	return &out
}
