package hamt

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/npillmayer/persist/persistent/ownership"
)

// Nbits is the number of hash bits consumed per level of the trie.
const Nbits = 5

// TableCapacity is the number of slots of a branch.
const TableCapacity = 1 << Nbits

// MaxDepth is the deepest level of the trie. Level MaxDepth consumes the
// remaining 64 - MaxDepth*Nbits bits of a hash.
const MaxDepth = 64 / Nbits

// index calculates the slot of a hash at a given depth.
func index(hash uint64, depth int) uint {
	return uint(hash>>(depth*Nbits)) & (TableCapacity - 1)
}

type kind uint8

const (
	branch kind = iota
	leaf
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// hnode is either a branch or a leaf.
//
// A branch holds a bitmap of populated slots and one child per bit set.
// A leaf holds every entry with a given hash; a leaf with more than one entry is a
// collision leaf.
type hnode[K comparable, V any] struct {
	refs     ownership.Refs
	kind     kind
	bitmap   uint32
	children []*hnode[K, V]
	hash     uint64
	entries  []entry[K, V]
}

func newLeaf[K comparable, V any](hash uint64, key K, value V) *hnode[K, V] {
	return &hnode[K, V]{kind: leaf, hash: hash, entries: []entry[K, V]{{key, value}}}
}

func (n *hnode[K, V]) Refs() *ownership.Refs {
	return &n.refs
}

func (n *hnode[K, V]) Clone() *hnode[K, V] {
	c := &hnode[K, V]{kind: n.kind, bitmap: n.bitmap, hash: n.hash}
	if n.kind == leaf {
		c.entries = slices.Clone(n.entries)
		return c
	}
	c.children = make([]*hnode[K, V], len(n.children))
	for i, ch := range n.children {
		c.children[i] = ownership.Acquire(ch)
	}
	return c
}

func (n *hnode[K, V]) Drop() {
	for _, ch := range n.children {
		ownership.Release(ch)
	}
}

func (n *hnode[K, V]) String() string {
	if n.kind == leaf {
		keys := make([]K, len(n.entries))
		for i, e := range n.entries {
			keys[i] = e.key
		}
		return fmt.Sprintf("leaf{%016x %v #%d}", n.hash, keys, n.refs.Count())
	}
	return fmt.Sprintf("branch{%032b #%d}", n.bitmap, n.refs.Count())
}

// slot returns the bit for idx and the position of the corresponding child.
func (n *hnode[K, V]) slot(idx uint) (bit uint32, pos int) {
	bit = 1 << idx
	return bit, bits.OnesCount32(n.bitmap & (bit - 1))
}

// find returns the position of key in a leaf, or -1.
func (n *hnode[K, V]) find(key K) int {
	for i := range n.entries {
		if n.entries[i].key == key {
			return i
		}
	}
	return -1
}

// The following operate on an owned branch.

func (n *hnode[K, V]) insertChild(bit uint32, pos int, child *hnode[K, V]) {
	n.bitmap |= bit
	n.children = slices.Insert(n.children, pos, child)
}

func (n *hnode[K, V]) removeChild(bit uint32, pos int) {
	ownership.Release(n.children[pos])
	n.bitmap &^= bit
	n.children = slices.Delete(n.children, pos, pos+1)
}

// branchFor creates the branches at depth and below which are necessary to
// separate two leaves with different hashes.
func branchFor[K comparable, V any](depth int, l1, l2 *hnode[K, V]) *hnode[K, V] {
	i1, i2 := index(l1.hash, depth), index(l2.hash, depth)
	b := &hnode[K, V]{kind: branch}
	if i1 == i2 {
		assertThat(depth < MaxDepth, "leaves with different hashes do not separate")
		b.bitmap = 1 << i1
		b.children = []*hnode[K, V]{branchFor(depth+1, l1, l2)}
		return b
	}
	b.bitmap = 1<<i1 | 1<<i2
	if i1 < i2 {
		b.children = []*hnode[K, V]{l1, l2}
	} else {
		b.children = []*hnode[K, V]{l2, l1}
	}
	return b
}
