package vector

import (
	"fmt"
	"strings"

	"github.com/npillmayer/persist/persistent/ownership"
)

// props holds the shape parameters of a vector's trie.
type props struct {
	bits   uint32 // bits of an index consumed per level
	degree uint32 // 1 << bits
	mask   uint32 // degree - 1
}

const defaultBits = 5

func makeProps(bits uint32) props {
	return props{bits: bits, degree: 1 << bits, mask: 1<<bits - 1}
}

func (p props) init() props {
	if p.bits == 0 {
		return makeProps(defaultBits)
	}
	return p
}

// vnode represents a node in the tree a vector is made of. Leaf nodes hold a bucket
// of items, inner nodes hold children.
type vnode[T any] struct {
	refs     ownership.Refs
	leaf     bool
	children []*vnode[T]
	leafs    []T
}

func newLeaf[T any](degree uint32) *vnode[T] {
	return &vnode[T]{leaf: true, leafs: make([]T, 0, degree)}
}

// newPath creates a chain of single-child inner nodes from level down to leaf.
func newPath[T any](level, bits uint32, leaf *vnode[T]) *vnode[T] {
	if level == 0 {
		return leaf
	}
	return &vnode[T]{children: []*vnode[T]{newPath(level-bits, bits, leaf)}}
}

func (node *vnode[T]) Refs() *ownership.Refs {
	return &node.refs
}

// Clone copies a node, keeping the capacity of its bucket.
func (node *vnode[T]) Clone() *vnode[T] {
	if node.leaf {
		c := &vnode[T]{leaf: true, leafs: make([]T, len(node.leafs), cap(node.leafs))}
		copy(c.leafs, node.leafs)
		return c
	}
	c := &vnode[T]{children: make([]*vnode[T], len(node.children), cap(node.children))}
	for i, ch := range node.children {
		c.children[i] = ownership.Acquire(ch)
	}
	return c
}

func (node *vnode[T]) Drop() {
	for _, ch := range node.children {
		ownership.Release(ch)
	}
}

func (node *vnode[T]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	if node.leaf {
		for i, l := range node.leafs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%v", l))
		}
	} else {
		for i := range node.children {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString("▪︎")
		}
	}
	b.WriteByte(']')
	if c := node.refs.Count(); c > 1 {
		b.WriteString(fmt.Sprintf("#%d", c))
	}
	return b.String()
}

// popChild removes the last child of an owned inner node and hands its ownership
// to the caller.
func (node *vnode[T]) popChild() *vnode[T] {
	last := len(node.children) - 1
	ch := ownership.Transfer(&node.children[last])
	node.children = node.children[:last]
	return ch
}
