package treemap

import "cmp"

// Left-leaning red-black tree mechanics (Sedgewick's 2-3 formulation).
// Only reachable through Map, which guarantees delete targets exist.

func isRed[K cmp.Ordered, V any](h *node[K, V]) bool {
	return h != nil && h.red
}

func rotateLeft[K cmp.Ordered, V any](h *node[K, V]) *node[K, V] {
	x := h.right
	h.right = x.left
	x.left = h
	x.red = h.red
	h.red = true
	return x
}

func rotateRight[K cmp.Ordered, V any](h *node[K, V]) *node[K, V] {
	x := h.left
	h.left = x.right
	x.right = h
	x.red = h.red
	h.red = true
	return x
}

func flipColors[K cmp.Ordered, V any](h *node[K, V]) {
	h.red = !h.red
	h.left.red = !h.left.red
	h.right.red = !h.right.red
}

func fixUp[K cmp.Ordered, V any](h *node[K, V]) *node[K, V] {
	if isRed(h.right) && !isRed(h.left) {
		h = rotateLeft(h)
	}
	if isRed(h.left) && isRed(h.left.left) {
		h = rotateRight(h)
	}
	if isRed(h.left) && isRed(h.right) {
		flipColors(h)
	}
	return h
}

func moveRedLeft[K cmp.Ordered, V any](h *node[K, V]) *node[K, V] {
	flipColors(h)
	if isRed(h.right.left) {
		h.right = rotateRight(h.right)
		h = rotateLeft(h)
		flipColors(h)
	}
	return h
}

func moveRedRight[K cmp.Ordered, V any](h *node[K, V]) *node[K, V] {
	flipColors(h)
	if isRed(h.left.left) {
		h = rotateRight(h)
		flipColors(h)
	}
	return h
}

func (m *Map[K, V]) insert(h *node[K, V], key K, val V) (*node[K, V], error) {
	if h == nil {
		n, err := m.alloc.Alloc()
		if err != nil {
			return nil, err
		}
		n.key = key
		n.val = val
		n.left = nil
		n.right = nil
		n.red = true
		m.len++
		return n, nil
	}

	switch {
	case key < h.key:
		left, err := m.insert(h.left, key, val)
		if err != nil {
			return nil, err
		}
		h.left = left
	case key > h.key:
		right, err := m.insert(h.right, key, val)
		if err != nil {
			return nil, err
		}
		h.right = right
	default:
		h.val = val
	}

	return fixUp(h), nil
}

// delete removes key from the subtree rooted at h and returns the new
// subtree along with the detached node. The key must be present.
func (m *Map[K, V]) delete(h *node[K, V], key K) (*node[K, V], *node[K, V]) {
	var removed *node[K, V]

	if key < h.key {
		if !isRed(h.left) && !isRed(h.left.left) {
			h = moveRedLeft(h)
		}
		h.left, removed = m.delete(h.left, key)
	} else {
		if isRed(h.left) {
			h = rotateRight(h)
		}
		if key == h.key && h.right == nil {
			return nil, h
		}
		if !isRed(h.right) && !isRed(h.right.left) {
			h = moveRedRight(h)
		}
		if key == h.key {
			// Replace with the in-order successor, then detach the
			// successor's old node from the right subtree.
			s := h.right
			for s.left != nil {
				s = s.left
			}
			h.key = s.key
			h.val = s.val
			h.right, removed = m.deleteMin(h.right)
		} else {
			h.right, removed = m.delete(h.right, key)
		}
	}

	return fixUp(h), removed
}

func (m *Map[K, V]) deleteMin(h *node[K, V]) (*node[K, V], *node[K, V]) {
	if h.left == nil {
		return nil, h
	}
	if !isRed(h.left) && !isRed(h.left.left) {
		h = moveRedLeft(h)
	}
	var removed *node[K, V]
	h.left, removed = m.deleteMin(h.left)
	return fixUp(h), removed
}
