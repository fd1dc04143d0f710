// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package backoff provides the contention backoff used by lock-free retry
// loops.
//
// A Backoff escalates from CPU pause instructions to yielding the
// processor. It never parks the goroutine: a retry loop that keeps
// failing stays runnable and keeps retrying.
//
// The zero value is ready to use. A Backoff is owned by a single
// goroutine, normally as a local variable of one operation.
package backoff

import (
	"runtime"

	"code.hybscloud.com/spin"
)

const (
	// Steps after which Spin stops escalating and Snooze starts yielding.
	spinLimit = 6
	// Steps after which the backoff is considered exhausted.
	yieldLimit = 10
)

// Backoff escalates waiting under contention.
//
// Spin is for retries that are expected to succeed soon (a lost CAS).
// Snooze is for waiting on another goroutine to finish a step it has
// already committed to (a slot that is mid-update).
type Backoff struct {
	sw   spin.Wait
	step uint32
}

// Spin backs off in a tight loop.
func (b *Backoff) Spin() {
	n := 1 << min(b.step, spinLimit)
	for range n {
		b.sw.Once()
	}
	if b.step <= spinLimit {
		b.step++
	}
}

// Snooze backs off while waiting for another goroutine to make progress.
// Pauses the CPU for the first steps, then yields the processor.
func (b *Backoff) Snooze() {
	if b.step <= spinLimit {
		n := 1 << b.step
		for range n {
			b.sw.Once()
		}
	} else {
		runtime.Gosched()
	}
	if b.step <= yieldLimit {
		b.step++
	}
}

// IsCompleted reports whether backoff has escalated past yielding.
// A caller with a blocking fallback should switch to it at this point.
func (b *Backoff) IsCompleted() bool {
	return b.step > yieldLimit
}

// Reset returns the backoff to its initial state.
func (b *Backoff) Reset() {
	b.sw = spin.Wait{}
	b.step = 0
}

// Step returns the current escalation step.
func (b *Backoff) Step() int {
	return int(b.step)
}
