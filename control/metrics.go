// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for the scheduler loop.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"
)

// Well-known counter keys bumped by the scheduler core.
const (
	MetricCycles           = "cycles"
	MetricTasksSpawned     = "tasks_spawned"
	MetricTasksFaulted     = "tasks_faulted"
	MetricTimersFired      = "timers_fired"
	MetricPollWakeups      = "poll_wakeups"
	MetricChannelTransfers = "channel_transfers"
)

// MetricsRegistry holds monotonically increasing counters.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]int64
	updated  time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]int64),
	}
}

// Inc bumps a counter by one.
func (mr *MetricsRegistry) Inc(key string) {
	mr.Add(key, 1)
}

// Add bumps a counter by delta.
func (mr *MetricsRegistry) Add(key string, delta int64) {
	mr.mu.Lock()
	mr.counters[key] += delta
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Get returns the current value of one counter.
func (mr *MetricsRegistry) Get(key string) int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.counters[key]
}

// GetSnapshot returns a copy of all counters.
func (mr *MetricsRegistry) GetSnapshot() map[string]int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]int64, len(mr.counters))
	for k, v := range mr.counters {
		out[k] = v
	}
	return out
}
