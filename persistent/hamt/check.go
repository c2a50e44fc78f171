package hamt

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// Check verifies the invariants of m: bitmaps match the children present, leaves sit
// on their hash path and hold keys of their hash only, branches below the root are
// compacted, and the size matches the number of reachable entries.
func (m Map[K, V]) Check() error {
	if m.root == nil {
		if m.size != 0 {
			return errors.AssertionFailedf("hamt: empty trie reports size %d", m.size)
		}
		return nil
	}
	if m.root.kind != branch {
		return errors.AssertionFailedf("hamt: root is not a branch")
	}
	count, err := m.checkBranch(m.root, 0, 0)
	if err != nil {
		tracer().Errorf(err.Error())
		return err
	}
	if count != m.size {
		return errors.AssertionFailedf("hamt: size is %d, but %d entries are reachable", m.size, count)
	}
	return nil
}

// checkBranch checks a branch at depth, reached by a hash path of prefix.
func (m Map[K, V]) checkBranch(b *hnode[K, V], depth int, prefix uint64) (int, error) {
	if b.refs.Count() < 1 {
		return 0, errors.AssertionFailedf("hamt: branch %v is reachable but unowned", b)
	}
	if bits.OnesCount32(b.bitmap) != len(b.children) {
		return 0, errors.AssertionFailedf("hamt: bitmap of %v does not match %d children", b, len(b.children))
	}
	if depth > 0 {
		if len(b.children) == 0 {
			return 0, errors.AssertionFailedf("hamt: empty branch at depth %d", depth)
		}
		if len(b.children) == 1 && b.children[0].kind == leaf {
			return 0, errors.AssertionFailedf("hamt: branch %v holds a single leaf", b)
		}
	}
	count, pos := 0, 0
	for idx := uint(0); idx < TableCapacity; idx++ {
		if b.bitmap&(1<<idx) == 0 {
			continue
		}
		child := b.children[pos]
		pos++
		path := prefix | uint64(idx)<<(depth*Nbits)
		if child.kind == branch {
			if depth >= MaxDepth {
				return 0, errors.AssertionFailedf("hamt: branch below maximum depth")
			}
			n, err := m.checkBranch(child, depth+1, path)
			if err != nil {
				return 0, err
			}
			count += n
			continue
		}
		n, err := m.checkLeaf(child, depth, path)
		if err != nil {
			return 0, err
		}
		count += n
	}
	return count, nil
}

func (m Map[K, V]) checkLeaf(l *hnode[K, V], depth int, path uint64) (int, error) {
	if l.refs.Count() < 1 {
		return 0, errors.AssertionFailedf("hamt: leaf %v is reachable but unowned", l)
	}
	if len(l.entries) == 0 {
		return 0, errors.AssertionFailedf("hamt: empty leaf")
	}
	shift := (depth + 1) * Nbits
	mask := ^uint64(0)
	if shift < 64 {
		mask = 1<<shift - 1
	}
	if l.hash&mask != path {
		return 0, errors.AssertionFailedf("hamt: leaf %v off its hash path", l)
	}
	for i, e := range l.entries {
		if m.hash(e.key) != l.hash {
			return 0, errors.AssertionFailedf("hamt: key %v in leaf of foreign hash", e.key)
		}
		for _, other := range l.entries[:i] {
			if other.key == e.key {
				return 0, errors.AssertionFailedf("hamt: duplicate key %v", e.key)
			}
		}
	}
	return len(l.entries), nil
}
