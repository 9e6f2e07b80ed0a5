package appendvec

import (
	"context"
	"runtime"
	"sync/atomic"

	"braces.dev/errtrace"
)

// Writer is the unique append token for a Vec. At most one Writer is alive
// per Vec at any instant. Release it with Release (typically deferred);
// holding a Writer never affects readers.
type Writer[T any] struct {
	vec *Vec[T]
}

// Write attempts to acquire the unique Writer without blocking.
// Returns ErrWriteLockHeld immediately if another Writer is alive.
// May be called concurrently from many goroutines.
func (v *Vec[T]) Write() (*Writer[T], error) {
	atomic.AddUint64(&v.writeAttempts, 1)
	if !v.writer.CompareAndSwap(false, true) {
		atomic.AddUint64(&v.writeContended, 1)
		return nil, errtrace.Wrap(ErrWriteLockHeld)
	}
	return &Writer[T]{vec: v}, nil
}

// WriteWait acquires the unique Writer, spinning until the current holder
// releases it or ctx is done. Use Write for the non-blocking variant.
func (v *Vec[T]) WriteWait(ctx context.Context) (*Writer[T], error) {
	atomic.AddUint64(&v.writeAttempts, 1)
	for {
		if v.writer.CompareAndSwap(false, true) {
			return &Writer[T]{vec: v}, nil
		}
		atomic.AddUint64(&v.writeContended, 1)
		select {
		case <-ctx.Done():
			return nil, errtrace.Wrap(ctx.Err())
		default:
			runtime.Gosched()
		}
	}
}

// Release makes the Vec available to the next Write call. Safe to call more
// than once; any other Writer method after Release panics.
func (w *Writer[T]) Release() {
	if w.vec == nil {
		return
	}
	v := w.vec
	w.vec = nil
	v.writer.Store(false)
}

func (w *Writer[T]) held() *Vec[T] {
	if w.vec == nil {
		panic("appendvec: use of released Writer")
	}
	return w.vec
}

// Push appends one element.
// Returns ErrCapacityExceeded if the vector is full (overflow); the vector
// is unchanged in that case. The capacity is fixed: overflow is always an
// error, never a resize.
func (w *Writer[T]) Push(val T) error {
	v := w.held()

	n := v.visible.Load()
	if n == uint64(v.capacity) {
		atomic.AddUint64(&v.pushOverflows, 1)
		return errtrace.Wrap(ErrCapacityExceeded)
	}

	v.data[n] = val
	// publish the value: visible = n+1.
	// The store must come after the slot write so that a reader observing
	// the new length also observes the element.
	v.visible.Store(n + 1)
	atomic.AddUint64(&v.pushes, 1)

	return nil
}

// Append pushes the elements in order until all are pushed or the vector
// fills up. Returns the number of elements pushed and ErrCapacityExceeded
// if any were left over.
func (w *Writer[T]) Append(vals ...T) (int, error) {
	for i, val := range vals {
		if err := w.Push(val); err != nil {
			return errtrace.Wrap2(i, err)
		}
	}
	return len(vals), nil
}

// Len returns the number of visible elements.
func (w *Writer[T]) Len() int {
	return w.held().Len()
}

// Cap returns the fixed capacity.
func (w *Writer[T]) Cap() int {
	return w.held().Cap()
}

// Full reports whether the vector has no writable slots left.
func (w *Writer[T]) Full() bool {
	return w.held().Full()
}
