// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown unifies the drain-before-exit logic of components.
type GracefulShutdown interface {
	// Shutdown drains outstanding work and releases resources.
	// Returns an error on failure.
	Shutdown() error
}
