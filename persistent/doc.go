/*
Package persistent offers a selection of persistent collections: an ordered map in two
flavours (red-black tree and B-tree), a hash map (HAMT) and a vector (radix tree with tail).

Immutable persistent data structures are data structures which can be copied and modified
efficiently, leaving the original unchanged. Functional programming languages like Lisp have long
relied on using them. *Persistent* immutable data-structures offer
structural sharing, which means that if two data structures are mostly copies of each other,
most of the memory they take up will be shared between them. This implies that making copies
of an immutable data structure is relatively cheap in terms of space- and time-complexity.

Every collection of this package comes with two sets of operations:

    m2 := m.With(key, value)     // immutable: m is left unchanged, m2 shares most of m
    m.Insert(key, value)         // mutating: m is changed in place where it can be

Mutating operations check for each node on their way whether the node is owned by the
handle exclusively (see package ownership). Exclusively owned nodes are modified in place,
shared nodes are copied first. A handle obtained by an immutable operation therefore
never observes a mutation applied through another handle.

Go copies structs silently. Copying a handle by assignment creates an alias, not a new
version: use Clone to branch off a version which will be mutated independently.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package persistent

// Handle is the shape every collection in this module shares. H is the concrete
// collection type.
type Handle[H any] interface {
	// Len returns the number of entries reachable from the handle's root.
	Len() int
	// Clone returns a new handle sharing all nodes with the receiver.
	Clone() H
	// Release gives up the handle's ownership of its nodes and leaves the handle empty.
	Release()
	// Check verifies the internal invariants of the structure.
	Check() error
}
