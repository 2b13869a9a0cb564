// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package api defines the narrow contracts the coroloop core depends on:
// the monotonic clock, the synchronous I/O readiness selector, the graceful
// shutdown surface, and the error values shared across packages.
//
// Implementations live in internal/poll (production) and fake
// (deterministic test doubles). The core never reaches past these
// interfaces for time or readiness.
package api
