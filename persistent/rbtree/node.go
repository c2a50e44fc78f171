package rbtree

import (
	"fmt"

	"github.com/npillmayer/persist/persistent/ownership"
)

type color bool

const (
	red   color = true
	black color = false
)

// node is a binary tree node. The color is the color of the link from the parent.
type node[K any, V any] struct {
	refs        ownership.Refs
	key         K
	value       V
	left, right *node[K, V]
	color       color
}

func (n *node[K, V]) Refs() *ownership.Refs {
	return &n.refs
}

func (n *node[K, V]) Clone() *node[K, V] {
	c := &node[K, V]{
		key:   n.key,
		value: n.value,
		left:  ownership.Acquire(n.left),
		right: ownership.Acquire(n.right),
		color: n.color,
	}
	return c
}

func (n *node[K, V]) Drop() {
	ownership.Release(n.left)
	ownership.Release(n.right)
}

func (n *node[K, V]) String() string {
	c := "b"
	if n.color == red {
		c = "r"
	}
	return fmt.Sprintf("⟨%v:%v %s #%d⟩", n.key, n.value, c, n.refs.Count())
}

func isRed[K, V any](n *node[K, V]) bool {
	return n != nil && n.color == red
}

// --- Restructuring ---------------------------------------------------------
//
// All of the following operate on a node h which the caller owns exclusively.
// Children which get changed are made mutable first. Moving a child pointer from
// one owned node to another does not change its number of owners.

func rotateLeft[K, V any](h *node[K, V]) *node[K, V] {
	x := ownership.Mut(&h.right)
	h.right = x.left
	x.left = h
	x.color = h.color
	h.color = red
	return x
}

func rotateRight[K, V any](h *node[K, V]) *node[K, V] {
	x := ownership.Mut(&h.left)
	h.left = x.right
	x.right = h
	x.color = h.color
	h.color = red
	return x
}

func flipColors[K, V any](h *node[K, V]) {
	h.color = !h.color
	if l := ownership.Mut(&h.left); l != nil {
		l.color = !l.color
	}
	if r := ownership.Mut(&h.right); r != nil {
		r.color = !r.color
	}
}

// balance restores the left-leaning invariants at h on the way up.
func balance[K, V any](h *node[K, V]) *node[K, V] {
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

// moveRedLeft makes h.left or one of its children red, assuming h is red and both
// h.left and h.left.left are black.
func moveRedLeft[K, V any](h *node[K, V]) *node[K, V] {
	flipColors(h)
	if isRed(h.right.left) {
		h.right = rotateRight(ownership.Mut(&h.right))
		h = rotateLeft(h)
		flipColors(h)
	}
	return h
}

// moveRedRight makes h.right or one of its children red, assuming h is red and both
// h.right and h.right.left are black.
func moveRedRight[K, V any](h *node[K, V]) *node[K, V] {
	flipColors(h)
	if isRed(h.left.left) {
		h = rotateRight(h)
		flipColors(h)
	}
	return h
}

func minNode[K, V any](h *node[K, V]) *node[K, V] {
	for h.left != nil {
		h = h.left
	}
	return h
}

func maxNode[K, V any](h *node[K, V]) *node[K, V] {
	for h.right != nil {
		h = h.right
	}
	return h
}
