package btree

import (
	"fmt"
	"strconv"
	"strings"
)

// --- Slot ------------------------------------------------------------------

// slot holds a step of a path.
type slot[K any, V any] struct {
	node  *xnode[K, V]
	index int
}

func (s slot[K, V]) String() string {
	return strconv.Itoa(s.index) + "@" + s.node.String()
}

// --- Path ------------------------------------------------------------------

// slotPath is a path from the root of a tree to a node. Iterators use it as their
// stack of pending items.
type slotPath[K any, V any] []slot[K, V]

func (path slotPath[K, V]) String() string {
	var sb = strings.Builder{}
	sb.WriteRune('[')
	for _, s := range path {
		sb.WriteString(fmt.Sprintf("⟨%s⟩", s))
	}
	sb.WriteRune(']')
	return sb.String()
}

func (path slotPath[K, V]) last() slot[K, V] {
	if len(path) == 0 {
		return slot[K, V]{}
	}
	return path[len(path)-1]
}

func (path slotPath[K, V]) dropLast() slotPath[K, V] {
	if len(path) == 0 {
		return path
	}
	return path[:len(path)-1]
}

// descendLeft extends path from node down to its leftmost leaf.
func (path slotPath[K, V]) descendLeft(node *xnode[K, V]) slotPath[K, V] {
	for node != nil {
		path = append(path, slot[K, V]{node: node})
		if node.isLeaf() {
			break
		}
		node = node.children[0]
	}
	return path
}

// descendRight extends path from node down to its rightmost leaf, pointing
// at the last item of every node.
func (path slotPath[K, V]) descendRight(node *xnode[K, V]) slotPath[K, V] {
	for node != nil {
		path = append(path, slot[K, V]{node: node, index: len(node.items) - 1})
		if node.isLeaf() {
			break
		}
		node = node.children[len(node.children)-1]
	}
	return path
}
