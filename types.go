// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arrayq

// Queue is the combined producer-consumer interface for a FIFO queue.
//
// Queue provides non-blocking Enqueue and Dequeue operations. Both
// operations return an error wrapping ErrWouldBlock when they cannot
// proceed (queue full or empty).
//
// Example:
//
//	var q arrayq.Queue[int] = arrayq.New[int](1024)
//
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Handle full queue
//	}
//
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The
// queue stores a copy of the pointed-to value only on success, so on
// ErrFull the caller still owns *elem.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// Returns nil on success, ErrFull if the queue is full.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value. The slot is cleared to allow garbage
// collection of referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the queue (non-blocking).
	// Returns (zero-value, ErrEmpty) if the queue is empty.
	Dequeue() (T, error)
}

// Sized is a Queue that can report its occupancy.
//
// Every answer is a snapshot that is only exact at the instant of the
// read. Under concurrent use treat it as a hint, never as a precondition
// for a following Enqueue or Dequeue.
type Sized[T any] interface {
	Queue[T]
	Len() int
	IsEmpty() bool
	IsFull() bool
}
