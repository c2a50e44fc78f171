package btree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/npillmayer/persist/persistent/ownership"
)

type xitem[K any, V any] struct {
	key   K
	value V
}

// xnode is a node of a B-tree. Inner nodes hold len(items)+1 children, leaves
// hold none.
type xnode[K any, V any] struct {
	refs     ownership.Refs
	items    []xitem[K, V]
	children []*xnode[K, V]
}

func (node *xnode[K, V]) Refs() *ownership.Refs {
	return &node.refs
}

// Clone copies items and child links. The backing arrays are never shared between
// nodes, as owned nodes are modified by appending.
func (node *xnode[K, V]) Clone() *xnode[K, V] {
	cow := &xnode[K, V]{items: slices.Clone(node.items)}
	if len(node.children) > 0 {
		cow.children = make([]*xnode[K, V], len(node.children))
		for i, ch := range node.children {
			cow.children[i] = ownership.Acquire(ch)
		}
	}
	return cow
}

func (node *xnode[K, V]) Drop() {
	for _, ch := range node.children {
		ownership.Release(ch)
	}
}

func (node *xnode[K, V]) isLeaf() bool {
	return len(node.children) == 0
}

func (node *xnode[K, V]) String() string {
	var sb strings.Builder
	sb.WriteRune('[')
	for i, it := range node.items {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(fmt.Sprintf("%v", it.key))
	}
	sb.WriteRune(']')
	if c := node.refs.Count(); c > 1 {
		sb.WriteString(fmt.Sprintf("#%d", c))
	}
	return sb.String()
}

// mutableChild makes child i of an owned node mutable.
func (node *xnode[K, V]) mutableChild(i int) *xnode[K, V] {
	return ownership.Mut(&node.children[i])
}

// split cuts an owned node at item i. The item at i is returned together with a new
// node holding everything right of it. Children right of i move to the new node.
func (node *xnode[K, V]) split(i int) (xitem[K, V], *xnode[K, V]) {
	median := node.items[i]
	right := &xnode[K, V]{items: slices.Clone(node.items[i+1:])}
	clear(node.items[i:])
	node.items = node.items[:i]
	if !node.isLeaf() {
		right.children = slices.Clone(node.children[i+1:])
		clear(node.children[i+1:])
		node.children = node.children[:i+1]
	}
	return median, right
}

func (node *xnode[K, V]) popItem() xitem[K, V] {
	last := len(node.items) - 1
	it := node.items[last]
	node.items[last] = xitem[K, V]{}
	node.items = node.items[:last]
	return it
}

func (node *xnode[K, V]) popChild() *xnode[K, V] {
	last := len(node.children) - 1
	ch := node.children[last]
	node.children[last] = nil
	node.children = node.children[:last]
	return ch
}

func (node *xnode[K, V]) removeItemAt(i int) xitem[K, V] {
	it := node.items[i]
	node.items = slices.Delete(node.items, i, i+1)
	return it
}

func (node *xnode[K, V]) removeChildAt(i int) *xnode[K, V] {
	ch := node.children[i]
	node.children = slices.Delete(node.children, i, i+1)
	return ch
}
