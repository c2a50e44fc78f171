/*
Package vector implements a persistent vector, designed for use-cases similar to
Go slices.

A vector is a radix tree of fixed-size leaves (a "trie"), plus a tail leaf holding the
most recently pushed items. Pushing appends to the tail; once the tail is full it is
moved into the trie as a whole, and the trie grows a new root level when its root is
exhausted. Popping reverses this.

Each “modification” in immutable mode (Push, Set, Pop) creates a new version, leaving
the original unmodified. Under the hood most of the memory is shared between original
and copy. Modifications in mutating mode (Append, Update, DropLast) change nodes in
place if they are owned exclusively by the vector, and copy shared nodes first.

    vec := vector.New[int]()
    vec = vec.Push(1).Push(2)
    vec.Append(3)
    x, err := vec.Get(2)   // returns 3, nil

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package vector

import (
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persist.vector'.
func tracer() tracing.Trace {
	return tracing.Select("persist.vector")
}

// ErrIndexOutOfBounds is returned for accesses beyond the length of a vector.
var ErrIndexOutOfBounds = errors.New("vector index out of bounds")

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		panic(errors.AssertionFailedf("vector: "+msg, msgargs...))
	}
}
