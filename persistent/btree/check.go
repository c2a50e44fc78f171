package btree

import (
	"github.com/cockroachdb/errors"
)

// Check verifies the invariants of a tree: keys in strictly increasing order, fill
// limits of nodes, the number of children of inner nodes, all leaves at the same depth
// and a size matching the number of reachable items.
func (tree Map[K, V]) Check() error {
	if tree.root == nil {
		if tree.size != 0 || tree.depth != 0 {
			return errors.AssertionFailedf("btree: empty tree with size=%d, depth=%d", tree.size, tree.depth)
		}
		return nil
	}
	c := checker[K, V]{tree: tree}
	if err := c.check(tree.root, 1, nil, nil); err != nil {
		tracer().Errorf(err.Error())
		return err
	}
	if c.count != tree.size {
		return errors.AssertionFailedf("btree: size is %d, but %d items are reachable", tree.size, c.count)
	}
	return nil
}

type checker[K any, V any] struct {
	tree  Map[K, V]
	count int
}

func (c *checker[K, V]) check(node *xnode[K, V], level int, lo, hi *K) error {
	if node.refs.Count() < 1 {
		return errors.AssertionFailedf("btree: node %v is reachable but unowned", node)
	}
	n := len(node.items)
	if n > c.tree.maxItems || n == 0 {
		return errors.AssertionFailedf("btree: node %v holds %d items", node, n)
	}
	if level > 1 && n < c.tree.minItems {
		return errors.AssertionFailedf("btree: node %v is underfull", node)
	}
	for i, it := range node.items {
		if i > 0 && c.tree.cmp(node.items[i-1].key, it.key) >= 0 ||
			lo != nil && c.tree.cmp(it.key, *lo) <= 0 ||
			hi != nil && c.tree.cmp(it.key, *hi) >= 0 {
			return errors.AssertionFailedf("btree: key %v out of order in %v", it.key, node)
		}
	}
	c.count += n
	if node.isLeaf() {
		if level != c.tree.depth {
			return errors.AssertionFailedf("btree: leaf %v at level %d, depth is %d", node, level, c.tree.depth)
		}
		return nil
	}
	if len(node.children) != n+1 {
		return errors.AssertionFailedf("btree: node %v has %d children", node, len(node.children))
	}
	for i, ch := range node.children {
		l, h := lo, hi
		if i > 0 {
			l = &node.items[i-1].key
		}
		if i < n {
			h = &node.items[i].key
		}
		if err := c.check(ch, level+1, l, h); err != nil {
			return err
		}
	}
	return nil
}
