package pool

import (
	"fmt"
	"os"
	"reflect"
	"unsafe"
)

// MultiPool owns a growing sequence of blocks for a single element type
// and routes single-slot allocations to them. It is the stateful surface
// of the allocator; the stateless Allocator handle wraps a process-wide
// MultiPool per type.
//
// MultiPool is not safe for concurrent use. The Allocator handle provides
// the per-type mutex; direct users synchronize externally.
type MultiPool[T any] struct {
	blocks []*block[T]
	mapped bool
	closed bool

	inUse    int
	maxInUse int
	stats    Stats

	// Test hook: called after a block is appended (nil in production).
	onGrow func(blocks int)
}

// NewMultiPool creates a multi-pool with one fresh block.
//
// The only runtime failure is the backing reservation failing; element
// types of size zero, and pointer-bearing element types combined with
// WithMappedBlocks, are rejected up front.
func NewMultiPool[T any](opts ...Option) (*MultiPool[T], error) {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return nil, ErrZeroSize
	}

	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.mapped && typeHasPointers[T]() {
		return nil, ErrPointerType
	}

	mp := &MultiPool[T]{mapped: cfg.mapped}
	for range max(cfg.blocks, 1) {
		if err := mp.grow(); err != nil {
			mp.Close()
			return nil, err
		}
	}
	return mp, nil
}

// grow appends one fresh block of poolsPerBlock pools.
func (mp *MultiPool[T]) grow() error {
	b, err := newBlock[T](mp.mapped)
	if err != nil {
		return err
	}
	mp.blocks = append(mp.blocks, b)
	mp.stats.GrowCalls++

	if logGrow {
		fmt.Fprintf(os.Stderr, "[POOL] grow: blocks=%d capacity=%d slots (in use: %d)\n",
			len(mp.blocks), len(mp.blocks)*blockSlots, mp.inUse)
	}
	if mp.onGrow != nil {
		mp.onGrow(len(mp.blocks))
	}
	return nil
}

// Alloc returns storage for exactly one T.
//
// Blocks are scanned from the tail towards the head: the newest block is
// the most likely to have free pools, so the common case inspects a
// single summary word. If every block is full a new block is appended.
//
// The returned slot is raw storage; reused slots are not zeroed.
func (mp *MultiPool[T]) Alloc() (*T, error) {
	if mp.closed {
		return nil, ErrClosed
	}
	mp.stats.AllocCalls++

	for i := len(mp.blocks) - 1; i >= 0; i-- {
		b := mp.blocks[i]
		if b.unmaxedPools == 0 {
			continue
		}
		pi := ctz(b.unmaxedPools)
		p := &b.pools[pi]
		ptr := p.allocate()
		if p.full() {
			clearBit(&b.unmaxedPools, pi)
		}
		mp.stats.AllocFastPath++
		mp.noteAlloc()
		return ptr, nil
	}

	if err := mp.grow(); err != nil {
		return nil, err
	}
	mp.stats.AllocSlowPath++
	mp.noteAlloc()

	// A fresh block cannot fill from a single slot, so its summary word
	// needs no update here.
	return mp.blocks[len(mp.blocks)-1].pools[0].allocate(), nil
}

// Free releases a pointer previously returned by Alloc.
//
// The owning block is located by address arithmetic over the (typically
// few) blocks, newest first, so allocated objects carry no back-pointer.
// A pointer this multi-pool never handed out is rejected with
// ErrForeignPointer. Freeing the same pointer twice without an
// intervening Alloc is a caller error that release builds do not detect.
func (mp *MultiPool[T]) Free(ptr *T) error {
	if mp.closed {
		return ErrClosed
	}
	if ptr == nil {
		return ErrForeignPointer
	}

	for i := len(mp.blocks) - 1; i >= 0; i-- {
		b := mp.blocks[i]
		pi, ok := b.locate(ptr)
		if !ok {
			continue
		}
		b.pools[pi].deallocate(ptr)
		setBit(&b.unmaxedPools, uint(pi))
		mp.stats.FreeCalls++
		mp.inUse--
		return nil
	}
	return ErrForeignPointer
}

// Close releases the storage of every block in insertion order. Only the
// mapped backing can fail to release; the first error is returned after
// every block has been visited. Close is idempotent.
func (mp *MultiPool[T]) Close() error {
	if mp.closed {
		return nil
	}
	mp.closed = true

	var firstErr error
	for _, b := range mp.blocks {
		if err := b.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	mp.blocks = nil
	return firstErr
}

// Blocks returns the number of blocks currently owned.
func (mp *MultiPool[T]) Blocks() int {
	return len(mp.blocks)
}

// Capacity returns the total number of slots across all blocks.
func (mp *MultiPool[T]) Capacity() int {
	return len(mp.blocks) * blockSlots
}

// InUse returns the number of slots currently handed out.
func (mp *MultiPool[T]) InUse() int {
	return mp.inUse
}

// Stats returns a snapshot of the allocator counters.
func (mp *MultiPool[T]) Stats() Stats {
	s := mp.stats
	s.Blocks = len(mp.blocks)
	s.Capacity = mp.Capacity()
	s.InUse = mp.inUse
	s.MaxInUse = mp.maxInUse
	return s
}

func (mp *MultiPool[T]) noteAlloc() {
	mp.inUse++
	if mp.inUse > mp.maxInUse {
		mp.maxInUse = mp.inUse
	}
}

// typeHasPointers reports whether T contains any pointer the collector
// would need to trace.
func typeHasPointers[T any]() bool {
	return hasPointers(reflect.TypeOf((*T)(nil)).Elem())
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
