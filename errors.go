package appendvec

import "fmt"

var (
	// ErrCapacityExceeded is returned by New when the initial elements do not
	// fit the capacity, and by Writer.Push when the vector is full.
	ErrCapacityExceeded = fmt.Errorf("appendvec: capacity exceeded")
	// ErrWriteLockHeld is returned by Write while another Writer is alive.
	ErrWriteLockHeld = fmt.Errorf("appendvec: write lock already held")
	// ErrIndexOutOfBounds is returned by Get for indexes at or beyond Len().
	ErrIndexOutOfBounds = fmt.Errorf("appendvec: index out of bounds")
)
