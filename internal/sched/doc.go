// File: internal/sched/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package sched implements the cooperative scheduler core: the FIFO ready
// queue, the timer queue, the readiness subscription lists, the delayed
// set and the cycle-based run loop that drives them. Everything in this
// package runs on one goroutine at a time; the only blocking points are
// the readiness selector and the bounded idle sleep.
package sched
