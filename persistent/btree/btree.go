package btree

import (
	"iter"
	"slices"

	"github.com/npillmayer/persist/maybe"
	"github.com/npillmayer/persist/persistent"
	"github.com/npillmayer/persist/persistent/ownership"
	"golang.org/x/exp/constraints"
)

/*
Remarks:
--------

- 'cow' stands for copy-on-write and is used throughout the code for variables holding
  nodes which have been made mutable.

- A node obtained by ownership.Mut (or freshly allocated) is owned exclusively by the
  operation. Moving a child link from one such node to another does not change the
  number of owners of the child.

*/

const defaultDegree = 8

// Map is a persistent ordered map based on a B-tree. Maps have to be created with New
// or NewWithComparator, which both accept options.
//
// Copying a Map by assignment creates an alias, not a version: use Clone.
type Map[K any, V any] struct {
	root     *xnode[K, V]
	size     int
	depth    int
	minItems int // lower fill limit for non-root nodes
	maxItems int // upper fill limit for all nodes
	cmp      func(a, b K) int
}

var _ persistent.Handle[Map[int, int]] = (*Map[int, int])(nil)

// Option is a type to help initializing B-trees at creation time.
type Option func(*options)

type options struct {
	degree int
}

// Degree is an option to set the minimum degree t of a B-tree: every node except the
// root holds at least t-1 and at most 2t-1 items. The lower bound for the degree is 2.
//
// Use it like this:
//
//	tree := btree.New[int, string](Degree(16))
func Degree(n int) Option {
	return func(opts *options) {
		opts.degree = max(2, n)
	}
}

// New creates an empty map for keys with a natural order.
func New[K constraints.Ordered, V any](opts ...Option) Map[K, V] {
	return NewWithComparator[K, V](compareOrdered[K], opts...)
}

// NewWithComparator creates an empty map ordering keys by cmp, which has to return
// a negative number for a < b, zero for a == b and a positive number for a > b.
func NewWithComparator[K any, V any](cmp func(a, b K) int, opts ...Option) Map[K, V] {
	assertThat(cmp != nil, "comparator must not be nil")
	o := options{degree: defaultDegree}
	for _, option := range opts {
		option(&o)
	}
	return Map[K, V]{
		minItems: o.degree - 1,
		maxItems: 2*o.degree - 1,
		cmp:      cmp,
	}
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
func (tree Map[K, V]) Len() int {
	return tree.size
}

// Depth returns the number of levels of the tree, 0 for an empty tree.
func (tree Map[K, V]) Depth() int {
	return tree.depth
}

// Find locates a key in a tree, if present, and returns the value associated with the key.
// If key is not found, the zero value for type V will be returned, together with found=false.
func (tree Map[K, V]) Find(key K) (V, bool) {
	node := tree.root
	for node != nil {
		i, found := tree.search(node, key)
		if found {
			return node.items[i].value, true
		}
		if node.isLeaf() {
			break
		}
		node = node.children[i]
	}
	var none V
	return none, false
}

// Lookup is like Find, but returns an optional value.
func (tree Map[K, V]) Lookup(key K) maybe.Maybe[V] {
	return maybe.Of(tree.Find(key))
}

// Min returns the entry with the smallest key. ok is false for an empty tree.
func (tree Map[K, V]) Min() (key K, value V, ok bool) {
	if tree.root == nil {
		return
	}
	it := slotPath[K, V]{}.descendLeft(tree.root).last()
	return it.node.items[0].key, it.node.items[0].value, true
}

// Max returns the entry with the largest key. ok is false for an empty tree.
func (tree Map[K, V]) Max() (key K, value V, ok bool) {
	if tree.root == nil {
		return
	}
	s := slotPath[K, V]{}.descendRight(tree.root).last()
	return s.node.items[s.index].key, s.node.items[s.index].value, true
}

// With returns a copy of a tree with a new key inserted, which is associated with value.
// If an entry for key is already present in tree, the associated value will be replaced
// (in a new incarnation of the tree, nevertheless).
func (tree Map[K, V]) With(key K, value V) Map[K, V] {
	cow := tree.Clone()
	cow.Insert(key, value)
	return cow
}

// WithDeleted returns a copy of a tree with key deleted, if present, together with its
// associated value. If key is not found, the returned tree is a clone of tree.
func (tree Map[K, V]) WithDeleted(key K) Map[K, V] {
	cow := tree.Clone()
	cow.Delete(key)
	return cow
}

// Insert associates key with value, modifying tree in place wherever it owns the nodes
// involved. It returns true if key has not been present before.
func (tree *Map[K, V]) Insert(key K, value V) (added bool) {
	assertThat(tree.cmp != nil, "tree has no ordering, create it with New")
	if tree.root == nil { // virgin tree => insert first node
		tree.root = &xnode[K, V]{items: []xitem[K, V]{{key, value}}}
		tree.depth = 1
		tree.size = 1
		return true
	}
	root := ownership.Mut(&tree.root)
	if len(root.items) >= tree.maxItems {
		median, right := root.split(tree.maxItems / 2)
		root = &xnode[K, V]{
			items:    []xitem[K, V]{median},
			children: []*xnode[K, V]{tree.root, right},
		}
		tree.root = root
		tree.depth++
		tracer().Debugf("btree: root split, depth now %d", tree.depth)
	}
	if added = tree.insert(root, xitem[K, V]{key, value}); added {
		tree.size++
	}
	return added
}

// Delete removes key from tree, modifying tree in place wherever it owns the nodes
// involved. It returns true if key has been present.
func (tree *Map[K, V]) Delete(key K) (removed bool) {
	if _, found := tree.Find(key); !found {
		return false // no need for modification
	}
	root := ownership.Mut(&tree.root)
	tree.remove(root, key, removeItem)
	if len(root.items) == 0 { // catch border cases where root is empty after deletion
		if root.isLeaf() {
			tree.root = nil
			tree.depth = 0
		} else {
			tree.root = root.children[0]
			tree.depth--
			tracer().Debugf("btree: root collapsed, depth now %d", tree.depth)
		}
	}
	tree.size--
	return true
}

// Clone returns a new handle sharing all nodes with tree.
func (tree Map[K, V]) Clone() Map[K, V] {
	ownership.Acquire(tree.root)
	return tree
}

// Release gives up tree's ownership of its nodes. tree is empty afterwards.
func (tree *Map[K, V]) Release() {
	ownership.Release(tree.root)
	tree.root = nil
	tree.size = 0
	tree.depth = 0
}

// All returns an iterator over the entries of tree in ascending key order.
// The iterator may be drained any number of times.
func (tree Map[K, V]) All() iter.Seq2[K, V] {
	root := tree.root
	return func(yield func(K, V) bool) {
		if root == nil {
			return
		}
		path := make(slotPath[K, V], 0, 8).descendLeft(root)
		for len(path) > 0 {
			s := path.last()
			if s.index >= len(s.node.items) {
				path = path.dropLast()
				continue
			}
			path[len(path)-1].index++
			it := s.node.items[s.index]
			if !yield(it.key, it.value) {
				return
			}
			if !s.node.isLeaf() {
				path = path.descendLeft(s.node.children[s.index+1])
			}
		}
	}
}

// Keys returns an iterator over the keys of tree in ascending order.
func (tree Map[K, V]) Keys() iter.Seq[K] {
	all := tree.All()
	return func(yield func(K) bool) {
		for k := range all {
			if !yield(k) {
				return
			}
		}
	}
}

// --- Internals -------------------------------------------------------------

// search returns the index of key within node's items, or the index where key would
// have to be inserted.
func (tree Map[K, V]) search(node *xnode[K, V], key K) (int, bool) {
	return slices.BinarySearchFunc(node.items, key, func(it xitem[K, V], k K) int {
		return tree.cmp(it.key, k)
	})
}

// insert inserts item into the subtree of an owned, non-full node.
func (tree Map[K, V]) insert(cow *xnode[K, V], item xitem[K, V]) bool {
	for {
		i, found := tree.search(cow, item.key)
		if found {
			cow.items[i].value = item.value
			return false
		}
		if cow.isLeaf() {
			cow.items = slices.Insert(cow.items, i, item)
			return true
		}
		if len(cow.children[i].items) >= tree.maxItems {
			child := cow.mutableChild(i)
			median, right := child.split(tree.maxItems / 2)
			cow.items = slices.Insert(cow.items, i, median)
			cow.children = slices.Insert(cow.children, i+1, right)
			switch c := tree.cmp(item.key, median.key); {
			case c == 0:
				cow.items[i].value = item.value
				return false
			case c > 0:
				i++
			}
		}
		cow = cow.mutableChild(i)
	}
}

type toRemove int

const (
	removeItem toRemove = iota // removes the given key
	removeMax                  // removes the largest item in the subtree
)

// remove removes an item from the subtree of an owned node. If typ is removeItem,
// key has to be present in the subtree.
func (tree Map[K, V]) remove(cow *xnode[K, V], key K, typ toRemove) xitem[K, V] {
	var i int
	var found bool
	switch typ {
	case removeMax:
		if cow.isLeaf() {
			return cow.popItem()
		}
		i = len(cow.items)
	case removeItem:
		i, found = tree.search(cow, key)
		if cow.isLeaf() {
			assertThat(found, "key %v to remove not found in leaf", key)
			return cow.removeItemAt(i)
		}
	}
	if len(cow.children[i].items) <= tree.minItems {
		tree.growChild(cow, i)
		return tree.remove(cow, key, typ)
	}
	child := cow.mutableChild(i)
	if found {
		// replace by predecessor, which is the rightmost item of the left subtree
		out := cow.items[i]
		cow.items[i] = tree.remove(child, key, removeMax)
		return out
	}
	return tree.remove(child, key, typ)
}

// growChild makes sure child i of an owned node holds more than minItems items, by
// stealing an item from a sibling or by merging it with a sibling.
func (tree Map[K, V]) growChild(cow *xnode[K, V], i int) {
	if i > 0 && len(cow.children[i-1].items) > tree.minItems {
		// steal item from left sibling ⇒ rotate right
		child := cow.mutableChild(i)
		lsbl := cow.mutableChild(i - 1)
		child.items = slices.Insert(child.items, 0, cow.items[i-1])
		cow.items[i-1] = lsbl.popItem()
		if !lsbl.isLeaf() {
			child.children = slices.Insert(child.children, 0, lsbl.popChild())
		}
		return
	}
	if i < len(cow.items) && len(cow.children[i+1].items) > tree.minItems {
		// steal item from right sibling ⇒ rotate left
		child := cow.mutableChild(i)
		rsbl := cow.mutableChild(i + 1)
		child.items = append(child.items, cow.items[i])
		cow.items[i] = rsbl.removeItemAt(0)
		if !rsbl.isLeaf() {
			child.children = append(child.children, rsbl.removeChildAt(0))
		}
		return
	}
	// steal item from parent and merge child with a sibling
	if i >= len(cow.items) {
		i--
	}
	child := cow.mutableChild(i)
	rsbl := cow.mutableChild(i + 1) // children of rsbl are moved, rsbl is discarded
	child.items = append(child.items, cow.removeItemAt(i))
	child.items = append(child.items, rsbl.items...)
	child.children = append(child.children, rsbl.children...)
	cow.removeChildAt(i + 1)
}
