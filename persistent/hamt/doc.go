/*
Package hamt implements a persistent hash map as a Hash Array Mapped Trie (HAMT).

The 64 bits of a key's hash are separated into 5-bit values which constitute the
hash path of the key: level d of the trie is indexed by bits 5d…5d+4, the last level
by the remaining 4 bits. Each branch of the trie stores a 32-bit bitmap recording
which of its 32 slots are populated, together with a dense slice of children. The
position of a slot in the slice is the number of bits set in the bitmap below the
slot's bit.

Not all 13 levels are used. A leaf is placed at the first level where its hash path
is unique. Keys with identical 64-bit hashes share a single collision leaf.

On removal the trie is compacted: a branch left without children disappears, and a
branch left with a single leaf is replaced by that leaf. The root is always a branch.

Nodes are shared between versions and carry an ownership counter (see package
ownership); mutating operations copy shared nodes along the path to the key and
modify exclusively owned nodes in place.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hamt

import (
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persist.hamt'.
func tracer() tracing.Trace {
	return tracing.Select("persist.hamt")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		panic(errors.AssertionFailedf("hamt: "+msg, msgargs...))
	}
}
