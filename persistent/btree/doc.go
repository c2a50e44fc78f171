/*
Package btree implements a persistent in-memory ordered map on top of a B-tree.

A good introduction to B-trees and their algorithms may be found at
https://algorithmtutor.com/Data-Structures/Tree/B-Trees/.

Insertion and deletion work top-down in a single pass: full nodes are split before
descending into them, and nodes at the lower fill limit are grown (by stealing from a
sibling or by merging with one) before descending. Nodes on the path are made mutable
on the way down, thus a shared node is copied exactly once per operation.

    tree := btree.New[int, string](btree.Degree(16))
    tree = tree.With(42, "Galaxy")
    value, found := tree.Find(42)   // returns "Galaxy", true

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package btree

import (
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persist.btree'.
func tracer() tracing.Trace {
	return tracing.Select("persist.btree")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		panic(errors.AssertionFailedf("btree: "+msg, msgargs...))
	}
}
