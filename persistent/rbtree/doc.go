/*
Package rbtree implements a persistent ordered map on top of a left-leaning red-black tree.

A left-leaning red-black tree is a binary search tree isomorphic to a 2-3 tree: red links
glue two binary nodes into a 3-node and always lean left. Insertion and deletion
restore balance on the way back up from the affected leaf by rotations and color flips.
See Robert Sedgewick, “Left-leaning Red-Black Trees” (2008).

Every node carries an ownership counter (see package ownership). Rotations and color
flips are applied to nodes the operation owns exclusively; a shared node is copied
before it is changed, the copy takes its place in the new version. Immutable operations
(With, WithDeleted) clone the handle first and thus copy every node they touch.

    m := rbtree.New[int, string]()
    m = m.With(42, "Galaxy")        // new version
    m.Insert(7, "Seven")            // in place, m is the only owner
    value, found := m.Find(42)      // returns "Galaxy", true

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rbtree

import (
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persist.rbtree'.
func tracer() tracing.Trace {
	return tracing.Select("persist.rbtree")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		panic(errors.AssertionFailedf("rbtree: "+msg, msgargs...))
	}
}
