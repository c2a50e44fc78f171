package vector

import (
	"github.com/cockroachdb/errors"
)

// Check verifies the invariants of v: a non-empty tail for a non-empty vector, full
// leaves in the trie, all at the same level, a trie of minimal height and a length
// matching the number of reachable items.
func (v Vector[T]) Check() error {
	if err := v.check(); err != nil {
		tracer().Errorf(err.Error())
		return err
	}
	return nil
}

func (v Vector[T]) check() error {
	if v.length == 0 {
		if v.root != nil || v.tail != nil {
			return errors.AssertionFailedf("vector: empty vector holds nodes")
		}
		return nil
	}
	if v.tail == nil || !v.tail.leaf || len(v.tail.leafs) == 0 || uint32(len(v.tail.leafs)) > v.degree {
		return errors.AssertionFailedf("vector: malformed tail %v", v.tail)
	}
	if v.tail.refs.Count() < 1 {
		return errors.AssertionFailedf("vector: tail is reachable but unowned")
	}
	treeSize := v.tailOffset()
	if treeSize%v.degree != 0 {
		return errors.AssertionFailedf("vector: trie size %d is not a multiple of %d", treeSize, v.degree)
	}
	if v.root == nil {
		if treeSize != 0 {
			return errors.AssertionFailedf("vector: no trie for %d items", treeSize)
		}
		return nil
	}
	if v.shift < v.bits || v.shift%v.bits != 0 {
		return errors.AssertionFailedf("vector: invalid shift %d", v.shift)
	}
	if uint64(treeSize) > uint64(v.degree)<<v.shift {
		return errors.AssertionFailedf("vector: %d items exceed capacity at shift %d", treeSize, v.shift)
	}
	if v.shift > v.bits && len(v.root.children) < 2 {
		return errors.AssertionFailedf("vector: trie is higher than necessary")
	}
	count, err := v.checkNode(v.root, v.shift)
	if err != nil {
		return err
	}
	if count != treeSize {
		return errors.AssertionFailedf("vector: trie holds %d items, expected %d", count, treeSize)
	}
	return nil
}

func (v Vector[T]) checkNode(node *vnode[T], level uint32) (uint32, error) {
	if node.refs.Count() < 1 {
		return 0, errors.AssertionFailedf("vector: node %v is reachable but unowned", node)
	}
	if level == 0 {
		if !node.leaf || uint32(len(node.leafs)) != v.degree {
			return 0, errors.AssertionFailedf("vector: expected full leaf, found %v", node)
		}
		return v.degree, nil
	}
	if node.leaf || len(node.children) == 0 || uint32(len(node.children)) > v.degree {
		return 0, errors.AssertionFailedf("vector: malformed inner node %v at level %d", node, level)
	}
	var count uint32
	for i, ch := range node.children {
		n, err := v.checkNode(ch, level-v.bits)
		if err != nil {
			return 0, err
		}
		if i < len(node.children)-1 && n != v.degree<<(level-v.bits) {
			return 0, errors.AssertionFailedf("vector: gap in trie below %v", node)
		}
		count += n
	}
	return count, nil
}
