package vector

import (
	"iter"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/persist/maybe"
	"github.com/npillmayer/persist/persistent"
	"github.com/npillmayer/persist/persistent/ownership"
)

// Vector is a persistent vector. The zero value is an empty vector with the default
// branching factor of 32.
//
// A vector holds at most MaxLen items. Copying a Vector by assignment creates an
// alias, not a version: use Clone.
type Vector[T any] struct {
	props
	length uint32
	shift  uint32    // level of root, a multiple of bits; leaves are at level 0
	root   *vnode[T] // trie holding items [0, tailOffset), nil if empty
	tail   *vnode[T] // leaf holding items [tailOffset, length), nil if vector is empty
}

// MaxLen is the maximum number of items of a vector.
const MaxLen = math.MaxUint32

var _ persistent.Handle[Vector[int]] = (*Vector[int])(nil)

// New creates an empty vector.
func New[T any](opts ...Option) Vector[T] {
	v := Vector[T]{}
	for _, option := range opts {
		v.props = option.config(v.props)
	}
	v.props = v.props.init()
	return v
}

// Option is a type to help initializing vectors at creation time.
type Option struct {
	config func(props) props
}

// BitsPerLevel is an option to indirectly set the degree of the underlying tree for
// a vector. The degree of the tree will be 2^n. Accepted values are [1…5]; default is 5,
// i.e. a degree of 32.
//
// Use it like this:
//
//	vec := vector.New[int](BitsPerLevel(3))
func BitsPerLevel(n int) Option {
	conf := func(p props) props {
		n = min(max(n, 1), 5)
		return makeProps(uint32(n))
	}
	return Option{config: conf}
}

// --- API -------------------------------------------------------------------

// Len returns the number of items in v.
func (v Vector[T]) Len() int {
	return int(v.length)
}

// Get returns the item at index i. For i outside of [0, Len()) an error wrapping
// ErrIndexOutOfBounds is returned.
func (v Vector[T]) Get(i int) (T, error) {
	if err := v.checkIndex(i); err != nil {
		var none T
		return none, err
	}
	return v.leafFor(uint32(i)).leafs[uint32(i)&v.mask], nil
}

// Last returns the last item of v, if any.
func (v Vector[T]) Last() maybe.Maybe[T] {
	if v.length == 0 {
		return maybe.Nothing[T]()
	}
	return maybe.Just(v.tail.leafs[len(v.tail.leafs)-1])
}

// Push returns a copy of v with value appended.
func (v Vector[T]) Push(value T) Vector[T] {
	c := v.Clone()
	c.Append(value)
	return c
}

// Set returns a copy of v with the item at index i replaced by value.
func (v Vector[T]) Set(i int, value T) (Vector[T], error) {
	if err := v.checkIndex(i); err != nil {
		return Vector[T]{}, err
	}
	c := v.Clone()
	c.Update(i, value)
	return c, nil
}

// Pop returns a copy of v without its last item. Popping from an empty vector
// returns an empty vector.
func (v Vector[T]) Pop() Vector[T] {
	c := v.Clone()
	c.DropLast()
	return c
}

// Append appends value to v in place. Appending to a vector of MaxLen items panics.
func (v *Vector[T]) Append(value T) {
	assertThat(v.length < MaxLen, "vector exceeds %d items", uint32(MaxLen))
	v.props = v.props.init()
	if v.tail == nil {
		v.tail = newLeaf[T](v.degree)
	} else if uint32(len(v.tail.leafs)) == v.degree {
		v.pushTail()
		v.tail = newLeaf[T](v.degree)
	}
	tail := ownership.Mut(&v.tail)
	tail.leafs = append(tail.leafs, value)
	v.length++
}

// Update replaces the item at index i in place.
func (v *Vector[T]) Update(i int, value T) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	inx := uint32(i)
	if inx >= v.tailOffset() {
		ownership.Mut(&v.tail).leafs[inx-v.tailOffset()] = value
		return nil
	}
	node := ownership.Mut(&v.root)
	for level := v.shift; level > 0; level -= v.bits {
		node = ownership.Mut(&node.children[(inx>>level)&v.mask])
	}
	node.leafs[inx&v.mask] = value
	return nil
}

// DropLast removes the last item of v in place. It returns false if v is empty.
func (v *Vector[T]) DropLast() bool {
	if v.length == 0 {
		return false
	}
	v.length--
	if len(v.tail.leafs) > 1 {
		tail := ownership.Mut(&v.tail)
		var none T
		tail.leafs[len(tail.leafs)-1] = none
		tail.leafs = tail.leafs[:len(tail.leafs)-1]
		return true
	}
	ownership.Release(v.tail)
	v.tail = nil
	if v.length > 0 { // last leaf of trie becomes the tail
		v.popTail()
	}
	return true
}

// Clone returns a new handle sharing all nodes with v.
func (v Vector[T]) Clone() Vector[T] {
	ownership.Acquire(v.root)
	ownership.Acquire(v.tail)
	return v
}

// Release gives up v's ownership of its nodes. v is empty afterwards.
func (v *Vector[T]) Release() {
	ownership.Release(v.root)
	ownership.Release(v.tail)
	v.root, v.tail = nil, nil
	v.length, v.shift = 0, 0
}

// All returns an iterator over index/item pairs of v in index order.
// The iterator may be drained any number of times.
func (v Vector[T]) All() iter.Seq2[int, T] {
	root, tail := v.root, v.tail
	return func(yield func(int, T) bool) {
		i := 0
		if root != nil {
			path := make(slotPath[T], 1, 8)
			path[0] = slot[T]{node: root}
			for leaf := path.nextLeaf(); leaf != nil; leaf = path.nextLeaf() {
				for _, x := range leaf.leafs {
					if !yield(i, x) {
						return
					}
					i++
				}
			}
		}
		if tail != nil {
			for _, x := range tail.leafs {
				if !yield(i, x) {
					return
				}
				i++
			}
		}
	}
}

// Values returns an iterator over the items of v in index order.
func (v Vector[T]) Values() iter.Seq[T] {
	all := v.All()
	return func(yield func(T) bool) {
		for _, x := range all {
			if !yield(x) {
				return
			}
		}
	}
}

// --- Internals -------------------------------------------------------------

func (v Vector[T]) checkIndex(i int) error {
	if i < 0 || i >= int(v.length) {
		return errors.Wrapf(ErrIndexOutOfBounds, "index %d with length %d", i, v.length)
	}
	return nil
}

func (v Vector[T]) tailOffset() uint32 {
	if v.tail == nil {
		return v.length
	}
	return v.length - uint32(len(v.tail.leafs))
}

// leafFor returns the leaf holding index i, which has to be valid.
func (v Vector[T]) leafFor(i uint32) *vnode[T] {
	if i >= v.tailOffset() {
		return v.tail
	}
	node := v.root
	for level := v.shift; level > 0; level -= v.bits {
		node = node.children[(i>>level)&v.mask]
	}
	return node
}

// pushTail moves the full tail into the trie.
func (v *Vector[T]) pushTail() {
	treeSize := v.tailOffset()
	leaf := ownership.Transfer(&v.tail)
	switch {
	case v.root == nil:
		v.root = newPath(v.bits, v.bits, leaf)
		v.shift = v.bits
	case treeSize == v.degree<<v.shift: // root is full ⇒ increment shift
		v.root = &vnode[T]{children: []*vnode[T]{v.root, newPath(v.shift, v.bits, leaf)}}
		v.shift += v.bits
		tracer().Debugf("vector: trie grows to shift %d at length %d", v.shift, v.length)
	default:
		node := ownership.Mut(&v.root)
		for level := v.shift; ; level -= v.bits {
			subidx := int((treeSize >> level) & v.mask)
			if level == v.bits || subidx == len(node.children) {
				node.children = append(node.children, newPath(level-v.bits, v.bits, leaf))
				return
			}
			node = ownership.Mut(&node.children[subidx])
		}
	}
}

// popTail moves the last leaf of the trie into the tail.
func (v *Vector[T]) popTail() {
	root := ownership.Mut(&v.root)
	newRoot, leaf := v.popLeaf(root, v.shift)
	v.tail = leaf
	switch {
	case newRoot == nil:
		v.root = nil
		v.shift = 0
	case v.shift > v.bits && len(newRoot.children) == 1: // can lower the height
		v.root = newRoot.popChild()
		v.shift -= v.bits
		tracer().Debugf("vector: trie shrinks to shift %d at length %d", v.shift, v.length)
	}
}

// popLeaf removes the rightmost leaf below an owned node at level. It returns the node,
// or nil if it became empty, and the leaf.
func (v *Vector[T]) popLeaf(node *vnode[T], level uint32) (*vnode[T], *vnode[T]) {
	var leaf *vnode[T]
	if level == v.bits {
		leaf = node.popChild()
	} else {
		last := len(node.children) - 1
		child, l := v.popLeaf(ownership.Mut(&node.children[last]), level-v.bits)
		leaf = l
		if child == nil {
			node.popChild() // empty and owned, nothing to release
		}
	}
	if len(node.children) == 0 {
		return nil, leaf
	}
	return node, leaf
}
