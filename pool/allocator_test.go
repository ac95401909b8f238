package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Distinct element types keep the process-wide registry entries of the
// tests independent of each other. crossNode is shared by two tests; each
// releases it on cleanup.

type crossNode struct{ a, b uint64 }

func Test_Allocator_CrossHandleFree(t *testing.T) {
	t.Cleanup(func() { _ = Release[crossNode]() })

	a := For[crossNode]()
	b := For[crossNode]()

	ptr, err := a.Alloc()
	require.NoError(t, err)
	ptr.a = 1

	// Handles for the same type are interchangeable.
	require.NoError(t, b.Free(ptr))
	require.Equal(t, 0, a.Stats().InUse)
}

type zeroHandleNode struct{ x [3]uint64 }

func Test_Allocator_ZeroValueHandle(t *testing.T) {
	t.Cleanup(func() { _ = Release[zeroHandleNode]() })

	var a Allocator[zeroHandleNode]
	ptr, err := a.Alloc()
	require.NoError(t, err)

	// The zero handle binds to the same multi-pool as For.
	require.NoError(t, For[zeroHandleNode]().Free(ptr))
}

func Test_Allocator_Equal(t *testing.T) {
	t.Cleanup(func() { _ = Release[crossNode]() })

	a := For[crossNode]()
	b := For[crossNode]()
	var c Allocator[crossNode]
	require.True(t, a.Equal(b))
	require.True(t, a.Equal(c))
}

type isoNodeA struct{ v uint64 }
type isoNodeB struct{ v [2]uint64 }

// Test_Allocator_TypeIsolation churns two element types from two
// goroutines at once. The types have distinct mutexes and multi-pools, so
// both must finish with clean state and no cross-talk.
func Test_Allocator_TypeIsolation(t *testing.T) {
	t.Cleanup(func() {
		_ = Release[isoNodeA]()
		_ = Release[isoNodeB]()
	})

	const perG = 20_000
	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		a := For[isoNodeA]()
		for i := range perG {
			ptr, err := a.Alloc()
			if err != nil {
				errs <- err
				return
			}
			ptr.v = uint64(i)
			if err := a.Free(ptr); err != nil {
				errs <- err
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		b := For[isoNodeB]()
		for i := range perG {
			ptr, err := b.Alloc()
			if err != nil {
				errs <- err
				return
			}
			ptr.v[0] = uint64(i)
			if err := b.Free(ptr); err != nil {
				errs <- err
				return
			}
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("churn failed: %v", err)
	}

	sa := For[isoNodeA]().Stats()
	sb := For[isoNodeB]().Stats()
	require.Equal(t, 0, sa.InUse)
	require.Equal(t, 0, sb.InUse)
	require.Equal(t, int64(perG), sa.AllocCalls)
	require.Equal(t, int64(perG), sb.AllocCalls)
}

// Test_Allocator_SharedTypeConcurrency hammers one element type from
// several goroutines. The per-type mutex serializes them; the final state
// must balance.
func Test_Allocator_SharedTypeConcurrency(t *testing.T) {
	type sharedNode struct{ v uint64 }
	t.Cleanup(func() { _ = Release[sharedNode]() })

	const (
		goroutines = 8
		perG       = 5_000
	)
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := For[sharedNode]()
			local := make([]*sharedNode, 0, 64)
			for i := range perG {
				ptr, err := a.Alloc()
				if err != nil {
					errs <- err
					return
				}
				local = append(local, ptr)
				if i%64 == 63 {
					for _, p := range local {
						if err := a.Free(p); err != nil {
							errs <- err
							return
						}
					}
					local = local[:0]
				}
			}
			for _, p := range local {
				if err := a.Free(p); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent churn failed: %v", err)
	}

	s := For[sharedNode]().Stats()
	require.Equal(t, 0, s.InUse)
	require.Equal(t, int64(goroutines*perG), s.AllocCalls)
	require.Equal(t, s.AllocCalls, s.FreeCalls)
}

type releaseNode struct{ v uint64 }

func Test_Allocator_Release(t *testing.T) {
	a := For[releaseNode]()
	ptr, err := a.Alloc()
	require.NoError(t, err)
	require.NoError(t, a.Free(ptr))

	require.NoError(t, Release[releaseNode]())

	// Stale handles see the closed multi-pool.
	_, err = a.Alloc()
	require.ErrorIs(t, err, ErrClosed)

	// A new handle starts a fresh multi-pool.
	b := For[releaseNode]()
	t.Cleanup(func() { _ = Release[releaseNode]() })
	ptr, err = b.Alloc()
	require.NoError(t, err)
	require.NoError(t, b.Free(ptr))

	// Releasing an unknown type is a no-op.
	type neverUsed struct{ _ uint64 }
	require.NoError(t, Release[neverUsed]())
}

func Test_Allocator_ZeroSizeType(t *testing.T) {
	t.Cleanup(func() { _ = Release[struct{}]() })

	a := For[struct{}]()
	_, err := a.Alloc()
	require.ErrorIs(t, err, ErrZeroSize)
	require.ErrorIs(t, a.Free(nil), ErrZeroSize)
}
