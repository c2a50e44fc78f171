package rbtree

import (
	"github.com/cockroachdb/errors"
)

// Check verifies the invariants of m: strictly increasing keys in-order, no red
// right links, no two red links in a row, equal number of black links on every
// path from the root, and a size matching the number of reachable nodes.
// An error signals a programming error inside this package.
func (m Map[K, V]) Check() error {
	if m.root == nil {
		if m.size != 0 {
			return errors.AssertionFailedf("rbtree: empty tree reports size %d", m.size)
		}
		return nil
	}
	if isRed(m.root) {
		return errors.AssertionFailedf("rbtree: root is red")
	}
	count, _, err := m.checkNode(m.root, nil, nil)
	if err != nil {
		tracer().Errorf(err.Error())
		return err
	}
	if count != m.size {
		return errors.AssertionFailedf("rbtree: size is %d, but %d entries are reachable", m.size, count)
	}
	return nil
}

func (m Map[K, V]) checkNode(n *node[K, V], lo, hi *K) (count, blackHeight int, err error) {
	if n == nil {
		return 0, 1, nil
	}
	if n.refs.Count() < 1 {
		return 0, 0, errors.AssertionFailedf("rbtree: node %v is reachable but unowned", n)
	}
	if lo != nil && m.cmp(n.key, *lo) <= 0 || hi != nil && m.cmp(n.key, *hi) >= 0 {
		return 0, 0, errors.AssertionFailedf("rbtree: key %v out of order", n.key)
	}
	if isRed(n.right) {
		return 0, 0, errors.AssertionFailedf("rbtree: red right link below %v", n)
	}
	if isRed(n) && isRed(n.left) {
		return 0, 0, errors.AssertionFailedf("rbtree: two red links in a row at %v", n)
	}
	lc, lbh, err := m.checkNode(n.left, lo, &n.key)
	if err != nil {
		return 0, 0, err
	}
	rc, rbh, err := m.checkNode(n.right, &n.key, hi)
	if err != nil {
		return 0, 0, err
	}
	if lbh != rbh {
		return 0, 0, errors.AssertionFailedf("rbtree: black heights %d ≠ %d at %v", lbh, rbh, n)
	}
	if n.color == black {
		lbh++
	}
	return lc + rc + 1, lbh, nil
}
