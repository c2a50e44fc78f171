package vector

import "fmt"

type slot[T any] struct {
	inx  int
	node *vnode[T]
}

func (s slot[T]) String() string {
	return fmt.Sprintf("%d@%s", s.inx, s.node)
}

// --- Path ------------------------------------------------------------------

// slotPath is a list of slots, denoting the path to a leaf slot.
type slotPath[T any] []slot[T]

func (path slotPath[T]) last() slot[T] {
	if len(path) == 0 {
		return slot[T]{}
	}
	return path[len(path)-1]
}

func (path slotPath[T]) dropLast() slotPath[T] {
	assertThat(!path.empty(), "attempt to drop last slot from empty slot-path")
	path = path[:len(path)-1]
	return path
}

func (path slotPath[T]) empty() bool {
	return len(path) == 0
}

// nextLeaf advances path to the next leaf in left-to-right order, returning nil when
// every leaf below the path's root has been visited.
func (path *slotPath[T]) nextLeaf() *vnode[T] {
	for !path.empty() {
		s := path.last()
		if s.inx >= len(s.node.children) {
			*path = path.dropLast()
			continue
		}
		(*path)[len(*path)-1].inx++
		child := s.node.children[s.inx]
		if child.leaf {
			return child
		}
		*path = append(*path, slot[T]{node: child})
	}
	return nil
}
