package pool

import "testing"

// checkInvariants verifies the two bitmap invariants and the slot
// accounting of every block:
//
//   - a summary bit is set iff its slot word has a free slot
//   - a block's unmaxed bit is set iff the pool is not full
//   - capacity minus free slots equals the in-use count
//
// Tests call it after mutations; it is not part of the public API.
func checkInvariants[T any](t *testing.T, mp *MultiPool[T]) {
	t.Helper()

	free := 0
	for bi, b := range mp.blocks {
		for pi := range b.pools {
			p := &b.pools[pi]
			for k := range p.unallocatedSlots {
				got := testBit(p.unusedWords, uint(k))
				want := p.unallocatedSlots[k] != 0
				if got != want {
					t.Fatalf("block %d pool %d word %d: summary bit %v, want %v",
						bi, pi, k, got, want)
				}
			}
			got := testBit(b.unmaxedPools, uint(pi))
			want := !p.full()
			if got != want {
				t.Fatalf("block %d pool %d: unmaxed bit %v, want %v (full=%v)",
					bi, pi, got, want, p.full())
			}
			free += p.freeSlots()
		}
	}

	if inUse := mp.Capacity() - free; inUse != mp.inUse {
		t.Fatalf("slot accounting: %d slots taken by bitmap, InUse reports %d",
			inUse, mp.inUse)
	}
}

// checkPristine asserts that every slot of every block is free, i.e. the
// visible state equals the post-construction state.
func checkPristine[T any](t *testing.T, mp *MultiPool[T]) {
	t.Helper()

	for bi, b := range mp.blocks {
		if b.unmaxedPools != fullWord {
			t.Fatalf("block %d: unmaxedPools = %#x, want all-ones", bi, b.unmaxedPools)
		}
		for pi := range b.pools {
			p := &b.pools[pi]
			if p.unusedWords != fullWord {
				t.Fatalf("block %d pool %d: unusedWords = %#x, want all-ones",
					bi, pi, p.unusedWords)
			}
			for k := range p.unallocatedSlots {
				if p.unallocatedSlots[k] != fullWord {
					t.Fatalf("block %d pool %d word %d: %#x, want all-ones",
						bi, pi, k, p.unallocatedSlots[k])
				}
			}
		}
	}
	if mp.inUse != 0 {
		t.Fatalf("InUse = %d after full churn, want 0", mp.inUse)
	}
}

// mustAlloc allocates or fails the test.
func mustAlloc[T any](t *testing.T, mp *MultiPool[T]) *T {
	t.Helper()
	ptr, err := mp.Alloc()
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	return ptr
}
