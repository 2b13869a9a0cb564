// File: internal/poll/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package poll supplies the production implementations of the api.Clock
// and api.Selector contracts: a monotonic clock over clock_gettime(2) and
// a readiness selector over select(2), both through golang.org/x/sys.
// Non-Linux builds fall back to a portable clock and a stub selector.
package poll
