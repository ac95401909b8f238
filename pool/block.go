package pool

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/poolkit/internal/mem"
)

// block is a contiguous run of poolsPerBlock pools allocated as a unit.
// Bit i of unmaxedPools is 1 iff pool i still has at least one free slot.
type block[T any] struct {
	pools        *[poolsPerBlock]fixedPool[T]
	unmaxedPools word

	// release unmaps the backing reservation; nil when the pools array is
	// an ordinary Go allocation.
	release func() error
}

// newBlock reserves and initializes a block. With mapped set, the pools
// array is carved from an anonymous page reservation outside the Go heap;
// otherwise it is a normal heap allocation the collector can see.
func newBlock[T any](mapped bool) (*block[T], error) {
	b := &block[T]{unmaxedPools: fullWord}

	if mapped {
		size := poolsPerBlock * int(unsafe.Sizeof(fixedPool[T]{}))
		buf, release, err := mem.Reserve(size)
		if err != nil {
			return nil, fmt.Errorf("pool: reserving block: %w", err)
		}
		b.pools = (*[poolsPerBlock]fixedPool[T])(unsafe.Pointer(&buf[0]))
		b.release = release
	} else {
		b.pools = new([poolsPerBlock]fixedPool[T])
	}

	for i := range b.pools {
		b.pools[i].init()
	}
	return b, nil
}

// locate maps ptr to the index of the pool that owns it. The pool index is
// computed from the pointer's offset into the block, then validated
// against the pool's actual slot range, so pointers outside the block (or
// into a pool's bitmap words) are rejected.
func (b *block[T]) locate(ptr *T) (int, bool) {
	base := uintptr(unsafe.Pointer(b.pools))
	addr := uintptr(unsafe.Pointer(ptr))
	if addr < base {
		return 0, false
	}

	idx := int((addr - base) / unsafe.Sizeof(b.pools[0]))
	if idx >= poolsPerBlock {
		return 0, false
	}
	if !b.pools[idx].owns(ptr) {
		return 0, false
	}
	return idx, true
}

// close releases the block's backing storage.
func (b *block[T]) close() error {
	b.pools = nil
	if b.release == nil {
		return nil
	}
	release := b.release
	b.release = nil
	return release()
}
