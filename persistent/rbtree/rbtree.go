package rbtree

import (
	"iter"

	"github.com/npillmayer/persist/maybe"
	"github.com/npillmayer/persist/persistent"
	"github.com/npillmayer/persist/persistent/ownership"
	"golang.org/x/exp/constraints"
)

// Map is a persistent ordered map. Maps have to be created with New or
// NewWithComparator; the zero value is an empty map without an ordering and
// will panic on insertion.
//
// Copying a Map by assignment creates an alias, not a version: use Clone.
type Map[K any, V any] struct {
	root *node[K, V]
	size int
	cmp  func(a, b K) int
}

var _ persistent.Handle[Map[int, int]] = (*Map[int, int])(nil)

// New creates an empty map for keys with a natural order.
func New[K constraints.Ordered, V any]() Map[K, V] {
	return Map[K, V]{cmp: compareOrdered[K]}
}

// NewWithComparator creates an empty map ordering keys by cmp, which has to return
// a negative number for a < b, zero for a == b and a positive number for a > b.
func NewWithComparator[K any, V any](cmp func(a, b K) int) Map[K, V] {
	assertThat(cmp != nil, "comparator must not be nil")
	return Map[K, V]{cmp: cmp}
}

func compareOrdered[K constraints.Ordered](a, b K) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	}
	return 0
}

// --- API -------------------------------------------------------------------

// Len returns the number of entries in the map.
func (m Map[K, V]) Len() int {
	return m.size
}

// Find locates a key in a map, if present, and returns the value associated with the key.
// If key is not found, the zero value for type V will be returned, together with found=false.
func (m Map[K, V]) Find(key K) (V, bool) {
	if n := m.lookup(key); n != nil {
		return n.value, true
	}
	var none V
	return none, false
}

// Lookup is like Find, but returns an optional value.
func (m Map[K, V]) Lookup(key K) maybe.Maybe[V] {
	return maybe.Of(m.Find(key))
}

// Min returns the entry with the smallest key. ok is false for an empty map.
func (m Map[K, V]) Min() (key K, value V, ok bool) {
	if m.root == nil {
		return
	}
	n := minNode(m.root)
	return n.key, n.value, true
}

// Max returns the entry with the largest key. ok is false for an empty map.
func (m Map[K, V]) Max() (key K, value V, ok bool) {
	if m.root == nil {
		return
	}
	n := maxNode(m.root)
	return n.key, n.value, true
}

// With returns a copy of a map with key associated to value. If an entry for key is
// already present, its value will be replaced (in a new incarnation of the map, nevertheless).
func (m Map[K, V]) With(key K, value V) Map[K, V] {
	c := m.Clone()
	c.Insert(key, value)
	return c
}

// WithDeleted returns a copy of a map with key deleted. If key is not found, the
// returned map is a clone of m.
func (m Map[K, V]) WithDeleted(key K) Map[K, V] {
	c := m.Clone()
	c.Delete(key)
	return c
}

// Insert associates key with value, modifying m in place wherever m owns the nodes
// involved. It returns true if key has not been present before.
func (m *Map[K, V]) Insert(key K, value V) (added bool) {
	assertThat(m.cmp != nil, "map has no ordering, create it with New")
	added = m.put(&m.root, key, value)
	m.root.color = black
	if added {
		m.size++
	}
	return added
}

// Delete removes key from m, modifying m in place wherever m owns the nodes
// involved. It returns true if key has been present.
func (m *Map[K, V]) Delete(key K) (removed bool) {
	if m.lookup(key) == nil {
		return false
	}
	root := ownership.Mut(&m.root)
	if !isRed(root.left) && !isRed(root.right) {
		root.color = red
	}
	m.root = m.delete(root, key)
	if m.root != nil {
		m.root.color = black
	}
	m.size--
	return true
}

// Clone returns a new handle sharing all nodes with m.
func (m Map[K, V]) Clone() Map[K, V] {
	ownership.Acquire(m.root)
	return m
}

// Release gives up m's ownership of its nodes. m is empty afterwards.
func (m *Map[K, V]) Release() {
	ownership.Release(m.root)
	m.root = nil
	m.size = 0
}

// All returns an iterator over the entries of m in ascending key order.
// The iterator may be drained any number of times.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	root := m.root
	return func(yield func(K, V) bool) {
		var stack []*node[K, V]
		n := root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.key, n.value) {
				return
			}
			n = n.right
		}
	}
}

// Keys returns an iterator over the keys of m in ascending order.
func (m Map[K, V]) Keys() iter.Seq[K] {
	all := m.All()
	return func(yield func(K) bool) {
		for k := range all {
			if !yield(k) {
				return
			}
		}
	}
}

// --- Internals -------------------------------------------------------------

func (m Map[K, V]) lookup(key K) *node[K, V] {
	n := m.root
	for n != nil {
		c := m.cmp(key, n.key)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// put inserts below slot. Every node on the way down is made mutable.
func (m *Map[K, V]) put(slot **node[K, V], key K, value V) (added bool) {
	if *slot == nil {
		*slot = &node[K, V]{key: key, value: value, color: red}
		return true
	}
	h := ownership.Mut(slot)
	switch c := m.cmp(key, h.key); {
	case c < 0:
		added = m.put(&h.left, key, value)
	case c > 0:
		added = m.put(&h.right, key, value)
	default:
		h.value = value
	}
	*slot = balance(h)
	return added
}

// delete removes key from the subtree at h, which has to be owned by the caller and
// has to contain key.
func (m *Map[K, V]) delete(h *node[K, V], key K) *node[K, V] {
	if m.cmp(key, h.key) < 0 {
		if !isRed(h.left) && !isRed(h.left.left) {
			h = moveRedLeft(h)
		}
		h.left = m.delete(ownership.Mut(&h.left), key)
		return balance(h)
	}
	if isRed(h.left) {
		h = rotateRight(h)
	}
	if m.cmp(key, h.key) == 0 && h.right == nil {
		assertThat(h.left == nil, "black height violated at %v", h)
		ownership.Release(h)
		return nil
	}
	if !isRed(h.right) && !isRed(h.right.left) {
		h = moveRedRight(h)
	}
	if m.cmp(key, h.key) == 0 {
		succ := minNode(h.right)
		h.key, h.value = succ.key, succ.value
		h.right = deleteMin(ownership.Mut(&h.right))
	} else {
		h.right = m.delete(ownership.Mut(&h.right), key)
	}
	return balance(h)
}

func deleteMin[K, V any](h *node[K, V]) *node[K, V] {
	if h.left == nil {
		assertThat(h.right == nil, "black height violated at %v", h)
		ownership.Release(h)
		return nil
	}
	if !isRed(h.left) && !isRed(h.left.left) {
		h = moveRedLeft(h)
	}
	h.left = deleteMin(ownership.Mut(&h.left))
	return balance(h)
}
