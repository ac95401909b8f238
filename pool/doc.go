// Package pool provides a fixed-size object pool allocator for workloads
// that repeatedly allocate and free many small objects of the same type,
// such as the nodes of tree- or list-based containers.
//
// # Overview
//
// The allocator trades generality for speed: it only hands out storage for
// exactly one element at a time, and in exchange both allocation and
// deallocation are O(1) with zero per-object metadata. Free slots are
// tracked by a two-tier bitmap and found with a count-trailing-zeros scan,
// so slots are reused densely from the low end of each pool for good cache
// locality.
//
// # Structure
//
// Three layers:
//
//   - A pool is a fixed region of 64×64 = 4096 slots governed by a
//     two-tier bitmap: one summary word plus 64 slot words.
//   - A MultiPool owns a growing sequence of blocks, each a contiguous run
//     of 64 pools. Allocation routes to the first block with space,
//     scanning from the newest block backwards; deallocation locates the
//     owning block by address range, so allocated objects carry no
//     back-pointer.
//   - An Allocator is a stateless, copyable handle bound to an element
//     type. All handles for the same type share one process-wide
//     MultiPool guarded by one mutex; handles for different types share
//     nothing and proceed fully in parallel.
//
// # Usage Example
//
//	a := pool.For[Node]()
//
//	n, err := a.Alloc()
//	if err != nil {
//	    return err
//	}
//	// ... use n ...
//	if err := a.Free(n); err != nil {
//	    return err
//	}
//
// A MultiPool can also be owned directly when the process-wide singleton
// is not wanted:
//
//	mp, err := pool.NewMultiPool[Node]()
//	if err != nil {
//	    return err
//	}
//	defer mp.Close()
//
// # Slot Contents
//
// Slots are raw storage. Alloc does not zero a reused slot; the caller
// sees whatever the previous owner left behind and is expected to
// initialize every field it reads.
//
// # Growth
//
// When every pool of every block is full, the MultiPool appends a new
// block of 64 pools (262,144 slots) in one backing allocation. Blocks are
// never released before Close; peak footprint approximates steady state
// for the intended churn-heavy workloads.
//
// # Thread Safety
//
// MultiPool is not thread-safe; callers synchronize externally. The
// Allocator handle is thread-safe: it serializes all operations for its
// element type through the type's process-wide mutex.
//
// # Related Packages
//
//   - github.com/joshuapare/poolkit/treemap: an ordered map whose nodes
//     are carved from this allocator
//   - github.com/joshuapare/poolkit/internal/mem: platform shims for the
//     optional out-of-heap block backing
package pool
