// Package treemap provides an ordered map backed by a left-leaning
// red-black tree whose nodes are carved from a pool.Allocator instead of
// the Go heap.
//
// It is the canonical node-based client of the pool package: every insert
// takes exactly one fixed-size slot, every delete returns exactly one, and
// a full insert/erase churn leaves the backing multi-pool with every slot
// free again. Maps with the same key and value types share one node pool.
//
// Map is not safe for concurrent use; the node pool underneath serializes
// its own operations, but tree mutations need external locking like any
// other Go container.
package treemap

import (
	"cmp"

	"github.com/joshuapare/poolkit/pool"
)

// node is a tree node. All node fields are (re)initialized on insert, so
// stale slot contents from the pool are never observed.
type node[K cmp.Ordered, V any] struct {
	key         K
	val         V
	left, right *node[K, V]
	red         bool
}

// Map is an ordered map from K to V.
type Map[K cmp.Ordered, V any] struct {
	alloc pool.Allocator[node[K, V]]
	root  *node[K, V]
	len   int
}

// New returns an empty map. Node storage comes from the process-wide pool
// for this map's node type.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{alloc: pool.For[node[K, V]]()}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.len
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	h := m.root
	for h != nil {
		switch {
		case key < h.key:
			h = h.left
		case key > h.key:
			h = h.right
		default:
			return h.val, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores val under key, replacing any previous value. The only
// possible error is the node allocation failing.
func (m *Map[K, V]) Set(key K, val V) error {
	root, err := m.insert(m.root, key, val)
	if err != nil {
		return err
	}
	m.root = root
	m.root.red = false
	return nil
}

// Delete removes key and reports whether it was present.
func (m *Map[K, V]) Delete(key K) (bool, error) {
	if !m.Has(key) {
		return false, nil
	}
	if !isRed(m.root.left) && !isRed(m.root.right) {
		m.root.red = true
	}
	root, removed := m.delete(m.root, key)
	m.root = root
	if m.root != nil {
		m.root.red = false
	}
	m.len--
	if err := m.alloc.Free(removed); err != nil {
		return true, err
	}
	return true, nil
}

// Min returns the smallest key.
func (m *Map[K, V]) Min() (K, bool) {
	if m.root == nil {
		var zero K
		return zero, false
	}
	h := m.root
	for h.left != nil {
		h = h.left
	}
	return h.key, true
}

// Ascend walks the entries in key order, stopping early when fn returns
// false.
func (m *Map[K, V]) Ascend(fn func(key K, val V) bool) {
	ascend(m.root, fn)
}

func ascend[K cmp.Ordered, V any](h *node[K, V], fn func(K, V) bool) bool {
	if h == nil {
		return true
	}
	if !ascend(h.left, fn) {
		return false
	}
	if !fn(h.key, h.val) {
		return false
	}
	return ascend(h.right, fn)
}

// Stats returns a snapshot of the counters of the node pool shared by all
// maps with this key/value combination.
func (m *Map[K, V]) Stats() pool.Stats {
	return m.alloc.Stats()
}

// Close removes every entry and returns all node slots to the pool. The
// map is empty and reusable afterwards.
func (m *Map[K, V]) Close() error {
	err := m.freeAll(m.root)
	m.root = nil
	m.len = 0
	return err
}

func (m *Map[K, V]) freeAll(h *node[K, V]) error {
	if h == nil {
		return nil
	}
	left, right := h.left, h.right
	if err := m.alloc.Free(h); err != nil {
		return err
	}
	if err := m.freeAll(left); err != nil {
		return err
	}
	return m.freeAll(right)
}
