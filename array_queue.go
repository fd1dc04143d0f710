// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arrayq

import (
	"fmt"
	"iter"

	"code.hybscloud.com/arrayq/internal/backoff"
	"code.hybscloud.com/atomix"
)

// ArrayQueue is a CAS-based multi-producer multi-consumer bounded queue.
//
// The buffer holds exactly capacity slots. Cursors and slot stamps pack a
// lap counter above the slot index:
//
//	stamp = lap | index    index = stamp & (oneLap-1)
//
// where oneLap is the smallest power of two greater than capacity. Each
// wrap of a cursor adds oneLap, so a stale producer or consumer holding a
// stamp from an earlier lap can never mistake a reused slot for its own.
//
// Slot stamp states, relative to lap L:
//
//	stamp == L|i          slot i is free for the producer of lap L
//	stamp == L|i + 1      slot i holds the value written in lap L
//	stamp == (L+oneLap)|i slot i is free for the producer of lap L+oneLap
//
// Memory: capacity slots (8 bytes + sizeof(T) per slot)
type ArrayQueue[T any] struct {
	_        pad
	head     atomix.Uint64 // Consumer cursor (lap | index)
	_        pad
	tail     atomix.Uint64 // Producer cursor (lap | index)
	_        pad
	buffer   []slot[T]
	capacity uint64
	oneLap   uint64
	mask     uint64 // oneLap - 1
	release  func(T)
}

type slot[T any] struct {
	stamp atomix.Uint64
	value T
}

// New creates a new ArrayQueue holding at most capacity elements.
// Capacity is used exactly, it is not rounded up.
// Panics if capacity < 1.
func New[T any](capacity int) *ArrayQueue[T] {
	if capacity < 1 {
		panic("arrayq: capacity must be > 0")
	}
	return newArrayQueue[T](capacity)
}

func newArrayQueue[T any](capacity int) *ArrayQueue[T] {
	n := uint64(capacity)
	oneLap := roundToPow2(n + 1)

	q := &ArrayQueue[T]{
		buffer:   make([]slot[T], n),
		capacity: n,
		oneLap:   oneLap,
		mask:     oneLap - 1,
	}

	// Slot i is ready for the first write of lap 0
	for i := uint64(0); i < n; i++ {
		q.buffer[i].stamp.StoreRelaxed(i)
	}

	return q
}

// advance returns the cursor following c, carrying into the lap bits
// after the last index.
func (q *ArrayQueue[T]) advance(c uint64) uint64 {
	if c&q.mask+1 < q.capacity {
		return c + 1
	}
	return c&^q.mask + q.oneLap
}

// Push adds v to the queue.
// Returns nil on success. If the queue is full, returns a [*FullError]
// holding v; the error matches ErrFull and ErrWouldBlock.
func (q *ArrayQueue[T]) Push(v T) error {
	if q.push(&v) {
		return nil
	}
	return &FullError[T]{Value: v}
}

// Enqueue adds *elem to the queue.
// Returns ErrFull if the queue is full. *elem is copied only on success.
func (q *ArrayQueue[T]) Enqueue(elem *T) error {
	if q.push(elem) {
		return nil
	}
	return ErrFull
}

func (q *ArrayQueue[T]) push(elem *T) bool {
	var b backoff.Backoff
	tail := q.tail.LoadRelaxed()
	for {
		slot := &q.buffer[tail&q.mask]
		stamp := slot.stamp.LoadAcquire()

		if stamp == tail {
			// Slot is free for this lap: claim it by moving tail
			if q.tail.CompareAndSwapAcqRel(tail, q.advance(tail)) {
				slot.value = *elem
				slot.stamp.StoreRelease(tail + 1)
				return true
			}
			b.Spin()
			tail = q.tail.LoadRelaxed()
			continue
		}

		if stamp+q.oneLap == tail+1 {
			// Slot still holds the previous lap's value
			head := q.head.Load()
			if head+q.oneLap == tail {
				return false
			}
			b.Spin()
		} else {
			// Another producer is mid-update
			b.Snooze()
		}
		tail = q.tail.LoadRelaxed()
	}
}

// ForcePush adds v to the queue, overwriting the oldest element if the
// queue is full.
// Returns the displaced element and true if one was overwritten.
func (q *ArrayQueue[T]) ForcePush(v T) (T, bool) {
	var b backoff.Backoff
	tail := q.tail.LoadRelaxed()
	for {
		next := q.advance(tail)
		slot := &q.buffer[tail&q.mask]
		stamp := slot.stamp.LoadAcquire()

		if stamp == tail {
			if q.tail.CompareAndSwapAcqRel(tail, next) {
				slot.value = v
				slot.stamp.StoreRelease(tail + 1)
				var zero T
				return zero, false
			}
			b.Spin()
			tail = q.tail.LoadRelaxed()
			continue
		}

		if stamp+q.oneLap == tail+1 {
			// Full at this lap: steal the oldest slot from consumers by
			// moving head past it, then move tail onto the same lap.
			if q.head.CompareAndSwapAcqRel(tail-q.oneLap, next-q.oneLap) {
				q.tail.Store(next)
				old := slot.value
				slot.value = v
				slot.stamp.StoreRelease(tail + 1)
				return old, true
			}
			b.Spin()
		} else {
			b.Snooze()
		}
		tail = q.tail.LoadRelaxed()
	}
}

// Pop removes and returns the oldest element.
// Returns (zero-value, ErrEmpty) if the queue is empty.
func (q *ArrayQueue[T]) Pop() (T, error) {
	var b backoff.Backoff
	head := q.head.LoadRelaxed()
	for {
		slot := &q.buffer[head&q.mask]
		stamp := slot.stamp.LoadAcquire()

		if stamp == head+1 {
			// Value is ready: claim it by moving head
			if q.head.CompareAndSwapAcqRel(head, q.advance(head)) {
				elem := slot.value
				var zero T
				slot.value = zero
				// Hand the slot to the producer of the next lap
				slot.stamp.StoreRelease(head + q.oneLap)
				return elem, nil
			}
			b.Spin()
			head = q.head.LoadRelaxed()
			continue
		}

		if stamp == head {
			// Nothing written yet for this lap
			tail := q.tail.Load()
			if tail == head {
				var zero T
				return zero, ErrEmpty
			}
			b.Spin()
		} else {
			// Another consumer is mid-update
			b.Snooze()
		}
		head = q.head.LoadRelaxed()
	}
}

// Dequeue removes and returns the oldest element.
// Returns (zero-value, ErrEmpty) if the queue is empty.
func (q *ArrayQueue[T]) Dequeue() (T, error) {
	return q.Pop()
}

// Drain returns an iterator that pops elements until the queue is
// observed empty. Elements pushed concurrently may or may not be yielded.
//
//	for v := range q.Drain() {
//	    process(v)
//	}
func (q *ArrayQueue[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := q.Pop()
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Cap returns the queue capacity.
func (q *ArrayQueue[T]) Cap() int {
	return int(q.capacity)
}

// IsEmpty reports whether the queue was empty at the instant of the call.
func (q *ArrayQueue[T]) IsEmpty() bool {
	head := q.head.Load()
	tail := q.tail.Load()
	return head == tail
}

// IsFull reports whether the queue was full at the instant of the call.
func (q *ArrayQueue[T]) IsFull() bool {
	tail := q.tail.Load()
	head := q.head.Load()
	return head+q.oneLap == tail
}

// Len returns the number of elements in the queue.
// The result is a consistent snapshot of head and tail, exact only at the
// instant it was taken.
func (q *ArrayQueue[T]) Len() int {
	for {
		tail := q.tail.Load()
		head := q.head.Load()

		// Retry until head was read against a stable tail
		if q.tail.Load() != tail {
			continue
		}

		hix := head & q.mask
		tix := tail & q.mask
		switch {
		case hix < tix:
			return int(tix - hix)
		case hix > tix:
			return int(q.capacity - hix + tix)
		case tail == head:
			return 0
		default:
			// Same index, different lap
			return int(q.capacity)
		}
	}
}

// Dispose tears the queue down.
//
// The release hook (see [Builder.OnRelease]) runs exactly once for every
// element still in the queue, oldest first. Slots that never held a value
// or were already popped are skipped. The buffer is then dropped for the
// garbage collector.
//
// Dispose must not run concurrently with any other method. After Dispose
// the queue reports Len() == 0; Push, Pop and their variants panic.
// Returns the number of elements released.
func (q *ArrayQueue[T]) Dispose() int {
	if q.buffer == nil {
		return 0
	}

	hix := q.head.LoadRelaxed() & q.mask
	n := uint64(q.Len())
	for i := uint64(0); i < n; i++ {
		idx := hix + i
		if idx >= q.capacity {
			idx -= q.capacity
		}
		slot := &q.buffer[idx]
		if q.release != nil {
			q.release(slot.value)
		}
		var zero T
		slot.value = zero
	}

	q.buffer = nil
	q.head.StoreRelaxed(0)
	q.tail.StoreRelaxed(0)
	return int(n)
}

// String returns a short description of the queue state.
func (q *ArrayQueue[T]) String() string {
	return fmt.Sprintf("ArrayQueue{len: %d, cap: %d}", q.Len(), q.Cap())
}
