/*
Package ownership tracks how many owners a node of a persistent data structure has.

Persistent structures share nodes between versions. A node may only be changed in
place if nobody else can observe the change, i.e. if the party about to change it is
its single owner. Owners are handles (the root of a structure) and parent nodes.

Every node embeds a Refs counter. The zero value of Refs denotes exactly one owner,
which is the state of a freshly allocated node. Mut implements the copy-on-write
policy: a node with a single owner is handed out for in-place modification, a shared
node is cloned first and the clone takes the place of the original.

Counters are updated atomically. Deriving new versions from distinct handles which
share nodes is therefore safe from different goroutines. Mutating a single handle
concurrently is not.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ownership

import (
	"sync/atomic"
)

// Refs counts owners of a node. We store the number of owners beyond the first one,
// thus the zero value is ready to use for a node with a single owner.
type Refs struct {
	extra atomic.Int32
}

// Count returns the current number of owners.
func (r *Refs) Count() int {
	return int(r.extra.Load()) + 1
}

func (r *Refs) inc() {
	r.extra.Add(1)
}

// dec returns true if the caller was the last owner.
func (r *Refs) dec() bool {
	return r.extra.Add(-1) < 0
}

// Node is the contract every node type of a persistent structure has to fulfil to take
// part in ownership tracking. N is the (pointer) type of the node itself.
//
// Clone returns a shallow copy of the node. The copy has a single owner (the caller)
// and must have acquired every child it references.
// Drop releases every child of the node. It is called once the node has lost its
// last owner and must not be called otherwise.
type Node[N any] interface {
	comparable
	Refs() *Refs
	Clone() N
	Drop()
}

// Acquire registers an additional owner for n and returns n.
func Acquire[N Node[N]](n N) N {
	var none N
	if n != none {
		n.Refs().inc()
	}
	return n
}

// Release gives up one ownership of n. If this has been the last owner, references
// to children are released in turn.
func Release[N Node[N]](n N) {
	var none N
	if n == none {
		return
	}
	if n.Refs().dec() {
		n.Drop()
	}
}

// Unique is true if n has exactly one owner.
func Unique[N Node[N]](n N) bool {
	var none N
	return n != none && n.Refs().Count() == 1
}

// Mut returns the node in slot in a state which allows modifying it in place.
//
// If the node has a single owner, it is returned unchanged. Otherwise it is cloned,
// the clone is stored into slot and the caller's ownership of the original is released.
// The caller has to own the slot, i.e. the slot has to belong to a handle or to a node
// which itself has been obtained by Mut.
func Mut[N Node[N]](slot *N) N {
	var none N
	n := *slot
	if n == none || n.Refs().Count() == 1 {
		return n
	}
	c := n.Clone()
	Release(n)
	*slot = c
	return c
}

// Transfer moves ownership of a node from slot src to the caller, leaving src empty.
// No counters change.
func Transfer[N Node[N]](src *N) N {
	var none N
	n := *src
	*src = none
	return n
}
