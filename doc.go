// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package arrayq provides a bounded lock-free multi-producer
// multi-consumer array queue.
//
// [ArrayQueue] is a fixed ring of exactly capacity slots. Producers and
// consumers claim slots with compare-and-swap on two cache-line-isolated
// cursors and hand them over through a per-slot stamp. No operation ever
// takes a lock or parks the calling goroutine.
//
// # Quick Start
//
//	q := arrayq.New[Event](1000)  // Exactly 1000 slots
//
//	if err := q.Push(ev); err != nil {
//	    // Queue is full - handle backpressure
//	}
//
//	ev, err := q.Pop()
//	if err != nil {
//	    // Queue is empty - try again later
//	}
//
// With a release hook for values left behind at shutdown:
//
//	q := arrayq.NewBuilder[*Conn](256).
//	    OnRelease(func(c *Conn) { c.Close() }).
//	    Build()
//	defer q.Dispose()
//
// # Capacity
//
// Unlike power-of-two rings, capacity is used as given:
//
//	arrayq.New[int](1)     // Capacity 1
//	arrayq.New[int](1000)  // Capacity 1000
//
// Panics if capacity < 1.
//
// # Stamps and Laps
//
// Every cursor and slot stamp is a single uint64 holding a lap above the
// slot index. The lap unit, oneLap, is the smallest power of two greater
// than capacity, so index and lap bits never overlap and wrapping a cursor
// is a plain addition. A slot's stamp, compared with the cursor that
// points at it, tells whether the slot is free for this lap's producer,
// holds this lap's value, or is still in transition:
//
//	push: stamp == tail            → claim by CAS on tail, write, stamp = tail+1
//	pop:  stamp == head+1          → claim by CAS on head, read, stamp = head+oneLap
//
// The stamp is stored with release ordering after the value is written and
// loaded with acquire ordering before the value is read, which orders every
// value handover. Fullness and emptiness checks use sequentially
// consistent loads of the opposite cursor.
//
// # Error Handling
//
// Push returns [*FullError] carrying the rejected value. Enqueue returns
// [ErrFull]. Pop and Dequeue return [ErrEmpty]. All three wrap
// [ErrWouldBlock], which is sourced from [code.hybscloud.com/iox]:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !arrayq.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// Full and empty are steady-state outcomes of a bounded queue, not
// failures. The only fatal condition is a capacity below 1.
//
// # Length and Snapshots
//
// Len, IsEmpty and IsFull read both cursors. Their answers are exact at the
// instant of the read and may be stale by the time the caller acts on them.
//
// # Overwrite Mode
//
// ForcePush never fails: when the queue is full it displaces the oldest
// element and returns it, which turns the queue into a lossy ring of the
// most recent values:
//
//	if old, ok := q.ForcePush(sample); ok {
//	    dropped.Add(1)
//	    _ = old
//	}
//
// # Teardown
//
// Dispose runs the release hook once per element still queued, oldest
// first, and drops the buffer. Call it only when no other goroutine uses
// the queue.
//
// # Thread Safety
//
// All methods except Dispose are safe for concurrent use by any number of
// goroutines. Elements from a single producer are dequeued in the order
// that producer enqueued them; elements from different producers are
// ordered by the order their tail CAS succeeded.
//
// # Race Detection
//
// Go's race detector cannot observe happens-before edges established by
// acquire-release orderings on separate variables. Slot values are plain
// fields protected by stamp ordering, so the detector may report false
// positives under concurrent use. Concurrent tests are skipped when
// [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions,
// and [golang.org/x/sys/cpu] for cache line padding.
package arrayq
