// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arrayq

import "code.hybscloud.com/iox"

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// ErrFull and ErrEmpty both wrap ErrWouldBlock, so callers that only care
// about backpressure can test with [IsWouldBlock] without distinguishing
// the two directions.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrFull is returned by Enqueue when every slot holds an unread value.
//
// Push returns a [*FullError] instead, which matches ErrFull under
// errors.Is and additionally carries the rejected value.
var ErrFull error = &queueError{msg: "arrayq: push into a full queue"}

// ErrEmpty is returned by Pop and Dequeue when no value is available.
var ErrEmpty error = &queueError{msg: "arrayq: pop from an empty queue"}

type queueError struct {
	msg string
}

func (e *queueError) Error() string { return e.msg }

func (e *queueError) Unwrap() error { return ErrWouldBlock }

// FullError is returned by Push when the queue is full.
// Value holds the element that could not be enqueued; ownership stays
// with the caller.
//
// Example:
//
//	if err := q.Push(msg); err != nil {
//	    var full *arrayq.FullError[Msg]
//	    if errors.As(err, &full) {
//	        spill(full.Value)
//	    }
//	}
type FullError[T any] struct {
	Value T
}

func (e *FullError[T]) Error() string { return ErrFull.Error() }

// Is reports true for ErrFull.
func (e *FullError[T]) Is(target error) bool { return target == ErrFull }

// Unwrap returns ErrWouldBlock.
func (e *FullError[T]) Unwrap() error { return ErrWouldBlock }

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock (and errors wrapping it), or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
