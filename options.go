// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arrayq

import "golang.org/x/sys/cpu"

// Options configures queue creation.
type Options[T any] struct {
	// Exact number of slots (not rounded)
	capacity int

	// Invoked once per value still queued when Dispose runs
	release func(T)
}

// Builder creates queues with fluent configuration.
//
// Use Builder when the queue needs a release hook; [New] covers the plain
// case.
//
// Example:
//
//	// Close connections that were never handed to a worker
//	q := arrayq.NewBuilder[*Conn](256).
//	    OnRelease(func(c *Conn) { c.Close() }).
//	    Build()
//	defer q.Dispose()
type Builder[T any] struct {
	opts Options[T]
}

// NewBuilder creates a queue builder with the given capacity.
//
// Capacity is used as given. Panics if capacity < 1.
func NewBuilder[T any](capacity int) *Builder[T] {
	if capacity < 1 {
		panic("arrayq: capacity must be > 0")
	}
	return &Builder[T]{opts: Options[T]{capacity: capacity}}
}

// OnRelease sets the hook Dispose calls for every value left in the queue.
// A nil fn clears the hook.
func (b *Builder[T]) OnRelease(fn func(T)) *Builder[T] {
	b.opts.release = fn
	return b
}

// Build creates the configured queue.
// Each call returns a new, independent queue.
func (b *Builder[T]) Build() *ArrayQueue[T] {
	q := newArrayQueue[T](b.opts.capacity)
	q.release = b.opts.release
	return q
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
// Sized per architecture (64 bytes on amd64, 128 on arm64).
type pad = cpu.CacheLinePad
