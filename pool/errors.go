package pool

import "errors"

var (
	// ErrClosed indicates an operation on a MultiPool after Close.
	ErrClosed = errors.New("pool: multi-pool is closed")

	// ErrForeignPointer indicates a Free of a pointer that was not
	// returned by this multi-pool (or is nil).
	ErrForeignPointer = errors.New("pool: pointer does not belong to this multi-pool")

	// ErrZeroSize indicates an element type of size zero, which cannot be
	// pooled (every slot would share one address).
	ErrZeroSize = errors.New("pool: element type has zero size")

	// ErrPointerType indicates that WithMappedBlocks was requested for an
	// element type containing pointers. Mapped blocks live outside the Go
	// heap, where the collector cannot see them.
	ErrPointerType = errors.New("pool: mapped blocks require a pointer-free element type")
)
