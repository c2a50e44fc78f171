package hamt

import (
	"iter"
	"slices"

	"github.com/npillmayer/persist/maybe"
	"github.com/npillmayer/persist/persistent"
	"github.com/npillmayer/persist/persistent/hashing"
	"github.com/npillmayer/persist/persistent/ownership"
)

// Map is a persistent unordered map. The zero value is an empty map hashing keys
// with the default hash function.
//
// Copying a Map by assignment creates an alias, not a version: use Clone.
type Map[K comparable, V any] struct {
	root   *hnode[K, V] // nil or a branch
	size   int
	hasher hashing.Func[K]
}

var _ persistent.Handle[Map[int, int]] = (*Map[int, int])(nil)

// Option configures a map at creation time.
type Option[K comparable] func(*options[K])

type options[K comparable] struct {
	hasher hashing.Func[K]
}

// WithHasher sets the hash function for keys. Keys which are equal must have
// equal hashes.
//
//	m := hamt.New[string, int](hamt.WithHasher(hashing.Murmur3[string](7)))
func WithHasher[K comparable](h hashing.Func[K]) Option[K] {
	return func(opts *options[K]) {
		opts.hasher = h
	}
}

// New creates an empty map. Without options, keys are hashed with hashing.XXHash.
func New[K comparable, V any](opts ...Option[K]) Map[K, V] {
	var o options[K]
	for _, option := range opts {
		option(&o)
	}
	return Map[K, V]{hasher: o.hasher}
}

func (m Map[K, V]) hash(key K) uint64 {
	if m.hasher == nil {
		return hashing.Sum64(key)
	}
	return m.hasher(key)
}

// --- API -------------------------------------------------------------------

// Len returns the number of entries in the map.
func (m Map[K, V]) Len() int {
	return m.size
}

// Find returns the value associated with key, if present. If key is not found, the
// zero value for type V will be returned, together with found=false.
func (m Map[K, V]) Find(key K) (V, bool) {
	if e := m.lookup(m.hash(key), key); e != nil {
		return e.value, true
	}
	var none V
	return none, false
}

// Lookup is like Find, but returns an optional value.
func (m Map[K, V]) Lookup(key K) maybe.Maybe[V] {
	return maybe.Of(m.Find(key))
}

// Contains is true if key is present in m.
func (m Map[K, V]) Contains(key K) bool {
	return m.lookup(m.hash(key), key) != nil
}

// With returns a copy of m with key associated to value.
func (m Map[K, V]) With(key K, value V) Map[K, V] {
	c := m.Clone()
	c.Insert(key, value)
	return c
}

// WithDeleted returns a copy of m without key. If key is not found, the returned map
// is a clone of m.
func (m Map[K, V]) WithDeleted(key K) Map[K, V] {
	c := m.Clone()
	c.Delete(key)
	return c
}

// Insert associates key with value in place. It returns true if key has not been
// present before.
func (m *Map[K, V]) Insert(key K, value V) (added bool) {
	h := m.hash(key)
	if m.root == nil {
		m.root = &hnode[K, V]{kind: branch}
	}
	b := ownership.Mut(&m.root)
	for depth := 0; ; depth++ {
		bit, pos := b.slot(index(h, depth))
		if b.bitmap&bit == 0 {
			b.insertChild(bit, pos, newLeaf(h, key, value))
			m.size++
			return true
		}
		child := b.children[pos]
		if child.kind == branch {
			b = ownership.Mut(&b.children[pos])
			continue
		}
		if child.hash != h { // move leaf one level down, next to the new one
			b.children[pos] = branchFor(depth+1, child, newLeaf(h, key, value))
			m.size++
			return true
		}
		l := ownership.Mut(&b.children[pos])
		if i := l.find(key); i >= 0 {
			l.entries[i].value = value
			return false
		}
		l.entries = append(l.entries, entry[K, V]{key, value})
		tracer().Debugf("hamt: collision leaf %v", l)
		m.size++
		return true
	}
}

// Delete removes key in place. It returns true if key has been present.
func (m *Map[K, V]) Delete(key K) (removed bool) {
	h := m.hash(key)
	if m.lookup(h, key) == nil {
		return false // no need for modification
	}
	root := ownership.Mut(&m.root)
	remove(root, h, 0, key)
	if len(root.children) == 0 {
		m.root = nil
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

// All returns an iterator over the entries of m, in no particular order. The order is
// stable for a given version of m. The iterator may be drained any number of times.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	root := m.root
	return func(yield func(K, V) bool) {
		if root == nil {
			return
		}
		type frame struct {
			n *hnode[K, V]
			i int
		}
		stack := make([]frame, 1, MaxDepth+1)
		stack[0] = frame{n: root}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.i >= len(top.n.children) {
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.n.children[top.i]
			top.i++
			if child.kind == branch {
				stack = append(stack, frame{n: child})
				continue
			}
			for _, e := range child.entries {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}

// Keys returns an iterator over the keys of m.
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

func (m Map[K, V]) lookup(h uint64, key K) *entry[K, V] {
	n := m.root
	for depth := 0; n != nil; depth++ {
		bit, pos := n.slot(index(h, depth))
		if n.bitmap&bit == 0 {
			return nil
		}
		n = n.children[pos]
		if n.kind == leaf {
			if n.hash != h {
				return nil
			}
			if i := n.find(key); i >= 0 {
				return &n.entries[i]
			}
			return nil
		}
	}
	return nil
}

// remove removes key from the subtrie at an owned branch b, where key has to be
// present. Children of b which become empty or hold a single leaf only are compacted.
func remove[K comparable, V any](b *hnode[K, V], h uint64, depth int, key K) {
	bit, pos := b.slot(index(h, depth))
	child := b.children[pos]
	if child.kind == leaf {
		if len(child.entries) == 1 {
			b.removeChild(bit, pos)
			return
		}
		l := ownership.Mut(&b.children[pos])
		i := l.find(key)
		assertThat(i >= 0, "key %v not in collision leaf", key)
		l.entries = slices.Delete(l.entries, i, i+1)
		return
	}
	sub := ownership.Mut(&b.children[pos])
	remove(sub, h, depth+1, key)
	switch {
	case len(sub.children) == 0:
		b.removeChild(bit, pos)
	case len(sub.children) == 1 && sub.children[0].kind == leaf:
		b.children[pos] = sub.children[0] // sub is discarded, its leaf moves up
	}
}
