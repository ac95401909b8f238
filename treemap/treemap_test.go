package treemap

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/pool"
)

// Each test uses a distinct key/value type combination so every test gets
// its own process-wide node pool.

func Test_Map_SetGetDelete(t *testing.T) {
	t.Cleanup(func() { _ = pool.Release[node[int, string]]() })

	m := New[int, string]()
	require.NoError(t, m.Set(2, "two"))
	require.NoError(t, m.Set(1, "one"))
	require.NoError(t, m.Set(3, "three"))
	require.Equal(t, 3, m.Len())

	v, ok := m.Get(2)
	require.True(t, ok)
	require.Equal(t, "two", v)

	_, ok = m.Get(4)
	require.False(t, ok)

	// Overwrite does not grow the map or take a new node.
	require.NoError(t, m.Set(2, "deux"))
	require.Equal(t, 3, m.Len())
	v, _ = m.Get(2)
	require.Equal(t, "deux", v)

	removed, err := m.Delete(2)
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, 2, m.Len())
	require.False(t, m.Has(2))

	removed, err = m.Delete(2)
	require.NoError(t, err)
	require.False(t, removed, "deleting an absent key")

	require.NoError(t, m.Close())
	require.Equal(t, 0, m.alloc.Stats().InUse, "nodes leaked")
}

func Test_Map_AscendOrder(t *testing.T) {
	t.Cleanup(func() { _ = pool.Release[node[uint32, uint32]]() })

	m := New[uint32, uint32]()
	defer m.Close()

	rng := rand.New(rand.NewSource(7))
	keys := rng.Perm(2048)
	for _, k := range keys {
		require.NoError(t, m.Set(uint32(k), uint32(k)*2))
	}
	require.Equal(t, 2048, m.Len())

	minKey, ok := m.Min()
	require.True(t, ok)
	require.Equal(t, uint32(0), minKey)

	var walked []uint32
	m.Ascend(func(k, v uint32) bool {
		require.Equal(t, k*2, v)
		walked = append(walked, k)
		return true
	})
	require.Len(t, walked, 2048)
	require.True(t, sort.SliceIsSorted(walked, func(i, j int) bool { return walked[i] < walked[j] }))

	// Early stop.
	var n int
	m.Ascend(func(k, v uint32) bool {
		n++
		return n < 10
	})
	require.Equal(t, 10, n)
}

// Test_Map_DenseChurn is the container workload the allocator exists for:
// insert keys in order, erase them in order, repeatedly. Afterwards the
// node pool must be back to its pristine state with a bounded block count.
func Test_Map_DenseChurn(t *testing.T) {
	t.Cleanup(func() { _ = pool.Release[node[uint64, uint64]]() })

	m := New[uint64, uint64]()

	const (
		rounds = 16
		items  = 4096
	)
	for range rounds {
		for i := range uint64(items) {
			require.NoError(t, m.Set(i, i))
		}
		require.Equal(t, items, m.Len())
		for i := range uint64(items) {
			removed, err := m.Delete(i)
			require.NoError(t, err)
			require.True(t, removed)
		}
		require.Equal(t, 0, m.Len())
	}

	s := m.alloc.Stats()
	require.Equal(t, 0, s.InUse, "slots leaked across churn rounds")
	require.Equal(t, 1, s.Blocks, "a bounded working set must not grow blocks")
	require.Equal(t, items, s.MaxInUse)
}

func Test_Map_RandomizedModel(t *testing.T) {
	t.Cleanup(func() { _ = pool.Release[node[int, int]]() })

	m := New[int, int]()
	defer m.Close()

	model := make(map[int]int)
	rng := rand.New(rand.NewSource(99))

	for range 50_000 {
		k := rng.Intn(4096)
		switch rng.Intn(3) {
		case 0, 1:
			v := rng.Int()
			require.NoError(t, m.Set(k, v))
			model[k] = v
		case 2:
			removed, err := m.Delete(k)
			require.NoError(t, err)
			_, inModel := model[k]
			require.Equal(t, inModel, removed, "key %d", k)
			delete(model, k)
		}
	}

	require.Equal(t, len(model), m.Len())
	for k, v := range model {
		got, ok := m.Get(k)
		require.True(t, ok, "key %d missing", k)
		require.Equal(t, v, got, "key %d", k)
	}

	// The tree walks in sorted order and covers exactly the model.
	want := make([]int, 0, len(model))
	for k := range model {
		want = append(want, k)
	}
	sort.Ints(want)
	got := make([]int, 0, len(model))
	m.Ascend(func(k, _ int) bool {
		got = append(got, k)
		return true
	})
	require.Equal(t, want, got)

	require.NoError(t, m.Close())
	require.Equal(t, 0, m.alloc.Stats().InUse)
}

// Test_Map_SharedPool verifies that two maps with identical node types
// draw from the same pool and can be torn down independently.
func Test_Map_SharedPool(t *testing.T) {
	t.Cleanup(func() { _ = pool.Release[node[int8, int8]]() })

	m1 := New[int8, int8]()
	m2 := New[int8, int8]()

	for i := range int8(100) {
		require.NoError(t, m1.Set(i, i))
		require.NoError(t, m2.Set(i, -i))
	}
	require.Equal(t, 200, m1.alloc.Stats().InUse)

	require.NoError(t, m1.Close())
	require.Equal(t, 100, m2.alloc.Stats().InUse)

	v, ok := m2.Get(10)
	require.True(t, ok)
	require.Equal(t, int8(-10), v)
	require.NoError(t, m2.Close())
	require.Equal(t, 0, m2.alloc.Stats().InUse)
}
