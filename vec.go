// Package appendvec provides a fixed-capacity, append-only vector that any
// number of goroutines may read while a single writer appends.
//
// Visible elements are immutable: the storage is allocated once and never
// reallocated, so a slot that became readable stays valid and unchanged for
// the lifetime of the vector. New elements are published through an atomic
// length counter: the writer stores the slot first and the counter after,
// readers bound every access by a load of the counter. Readers never block
// and never touch the writer lock.
package appendvec

import (
	"iter"
	"sync/atomic"

	"braces.dev/errtrace"
)

// Vec is a bounded append-only vector.
// T — specific type to store in the vector.
type Vec[T any] struct {
	// Optional padding to avoid false sharing between frequently accessed fields
	_        [64]byte
	capacity int
	data     []T
	_        [64]byte
	visible  atomic.Uint64 // number of published slots, advanced only by the writer
	_        [64]byte
	writer   atomic.Bool // single writer permit
	_        [64]byte

	writeAttempts  uint64
	writeContended uint64
	pushes         uint64
	pushOverflows  uint64
}

// Stats holds writer-side operation counters. The read path is not counted:
// reads must stay free of shared memory writes.
type Stats struct {
	WriteAttempts  uint64
	WriteContended uint64
	Pushes         uint64
	PushOverflows  uint64
}

// New creates a vector with the given fixed capacity, pre-populated with the
// initial elements in order. Returns ErrCapacityExceeded if the initial
// elements do not fit. The storage is allocated here, once; no operation ever
// reallocates it.
func New[T any](capacity int, initial ...T) (*Vec[T], error) {
	if capacity < 0 {
		panic("appendvec: capacity must be non-negative")
	}
	if len(initial) > capacity {
		return nil, errtrace.Wrap(ErrCapacityExceeded)
	}

	v := &Vec[T]{
		capacity: capacity,
		data:     make([]T, capacity),
	}
	copy(v.data, initial)
	v.visible.Store(uint64(len(initial)))

	return v, nil
}

// FromSlice adopts s as the vector's storage: the elements of s are visible,
// the spare capacity of s (up to cap(s)) is writable. The caller must not
// use s afterwards.
func FromSlice[T any](s []T) *Vec[T] {
	v := &Vec[T]{
		capacity: cap(s),
		data:     s[:cap(s)],
	}
	v.visible.Store(uint64(len(s)))
	return v
}

// Len returns the number of visible elements.
// May be called concurrently from many goroutines.
func (v *Vec[T]) Len() int {
	return int(v.visible.Load())
}

// Cap returns the fixed capacity.
func (v *Vec[T]) Cap() int {
	return v.capacity
}

// Full reports whether the vector has no writable slots left.
func (v *Vec[T]) Full() bool {
	return v.visible.Load() == uint64(v.capacity)
}

// Empty reports whether the vector has no visible elements.
func (v *Vec[T]) Empty() bool {
	return v.visible.Load() == 0
}

// Get returns the element at index i.
// Returns ErrIndexOutOfBounds for i at or beyond the current Len(),
// regardless of capacity.
// May be called concurrently from many goroutines, including while a
// writer is pushing; it never blocks.
func (v *Vec[T]) Get(i int) (T, error) {
	var zero T
	// The load of visible also orders the slot content: the writer stores
	// the slot before advancing the counter, so any index below the loaded
	// value is fully written.
	if i < 0 || uint64(i) >= v.visible.Load() {
		return zero, errtrace.Wrap(ErrIndexOutOfBounds)
	}
	return v.data[i], nil
}

// Slice returns the visible prefix of the storage without copying.
// The returned slice stays valid forever (the storage never moves) and keeps
// its length even if the writer pushes more elements afterwards.
// The caller must not modify it.
func (v *Vec[T]) Slice() []T {
	return v.data[:v.visible.Load()]
}

// Snapshot returns a copy of the visible elements.
func (v *Vec[T]) Snapshot() []T {
	n := v.visible.Load()
	out := make([]T, n)
	copy(out, v.data[:n])
	return out
}

// All iterates over index/element pairs. The length is captured once, when
// All is called: elements pushed while iterating are not yielded. Create a
// new iterator to observe them.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	n := v.visible.Load()
	return func(yield func(int, T) bool) {
		for i := uint64(0); i < n; i++ {
			if !yield(int(i), v.data[i]) {
				return
			}
		}
	}
}

// Values iterates over the elements in index order, snapshotting the length
// like All.
func (v *Vec[T]) Values() iter.Seq[T] {
	n := v.visible.Load()
	return func(yield func(T) bool) {
		for i := uint64(0); i < n; i++ {
			if !yield(v.data[i]) {
				return
			}
		}
	}
}

// Stats retrieves the current writer-side counters.
func (v *Vec[T]) Stats() Stats {
	return Stats{
		WriteAttempts:  atomic.LoadUint64(&v.writeAttempts),
		WriteContended: atomic.LoadUint64(&v.writeContended),
		Pushes:         atomic.LoadUint64(&v.pushes),
		PushOverflows:  atomic.LoadUint64(&v.pushOverflows),
	}
}
