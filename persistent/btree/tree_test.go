package btree

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tp "github.com/xlab/treeprint"
)

func TestTreeCreateEmptyTree(t *testing.T) {
	tree := New[int, string](Degree(2))
	if tree.minItems != 1 || tree.maxItems != 3 {
		t.Logf("empty tree =\n%s", printTree(tree))
		t.Error("expected empty tree to have fill limits 1 | 3, hasn't")
	}
	tree = New[int, string](Degree(1))
	if tree.minItems != 1 {
		t.Error("expected degree to be raised to 2")
	}
}

func TestTreeCreateTreeForTest(t *testing.T) {
	tree := createTreeForTest()
	if tree.root == nil {
		t.Error("cannot create tree for test")
	}
	t.Logf("tree for tests =\n%s", printTree(tree))
	require.NoError(t, tree.Check())
}

// --- Find ------------------------------------------------------------------

func TestTreeFindInEmptyTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	v, found := New[int, string]().Find(7)
	if found {
		t.Error("did not expect to find '7' in empty tree")
	}
	if v != "" {
		t.Errorf("expected value for '7' in empty tree to be void, is %v", v)
	}
}

func TestTreeFindInTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	v, found := tree.Find(8)
	if !found {
		t.Error("expected to find '8' in tree, didn't")
	}
	if v != "8" {
		t.Errorf("expected value for '8' in tree to be %#v, is %#v", "8", v)
	}
	if _, found = tree.Find(7); found {
		t.Error("did not expect to find '7' in tree")
	}
	if v, _ = tree.Find(5); v != "5" {
		t.Errorf("expected value for inner key '5' to be %#v, is %#v", "5", v)
	}
}

func TestTreeMinMax(t *testing.T) {
	tree := createTreeForTest()
	k, _, ok := tree.Min()
	assert.True(t, ok)
	assert.Equal(t, 0, k)
	k, v, ok := tree.Max()
	assert.True(t, ok)
	assert.Equal(t, 9, k)
	assert.Equal(t, "9", v)
}

// --- Insert ----------------------------------------------------------------

func TestTreeInsertInEmptyTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := New[int, string]().With(7, "7")
	if tree.root == nil {
		t.Fatalf("expected to have tree.With(…) to have a root, hasn't:\n%#v", tree)
	}
	if tree.depth != 1 {
		t.Logf("tree.root = %s", tree.root)
		t.Errorf("expected tree.With(…) to produce tree.depth=1, has %d", tree.depth)
	}
	if !tree.root.isLeaf() {
		t.Logf("tree.root = %s", tree.root)
		t.Error("expected tree.root to be a leaf, isn't")
	}
}

func TestTreeInsertTwiceInEmptyTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := New[int, string]().With(7, "7")
	tree = tree.With(3, "3")
	if tree.depth != 1 {
		t.Logf("tree = %#v", tree)
		t.Errorf("expected tree to have depth = 1, has %d", tree.depth)
	}
	if tree.Len() != 2 {
		t.Errorf("expected tree to have 2 entries, has %d", tree.Len())
	}
	tree = tree.With(3, "three")
	if tree.Len() != 2 {
		t.Errorf("expected replacement to keep 2 entries, has %d", tree.Len())
	}
}

func TestTreeInsertInLeaf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	tree = tree.With(7, "7")
	if tree.depth != 2 {
		t.Logf("tree =\n%s", printTree(tree))
		t.Errorf("expected tree to have depth = 2, has %d", tree.depth)
	}
	ch2 := tree.root.children[2]
	if ch2 == nil || len(ch2.items) != 4 {
		t.Logf("tree = %s", printTree(tree))
		t.Fatalf("expected node root->2 to be of length=4, isn't")
	} else if ch2.items[1].key != 7 {
		t.Logf("tree = %s", printTree(tree))
		t.Errorf("expected inserted item[1] to have key=7, is %#v", ch2.items[1])
	}
}

func TestTreeInsertWithSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	tree = tree.With(7, "7")
	tree = tree.With(99, "99")   // child root->2 is full now
	tree = tree.With(100, "100") // should split root->2 on the way down
	require.NoError(t, tree.Check())
	if tree.root == nil || tree.depth != 2 {
		t.Logf("tree = %s", printTree(tree))
		t.Fatalf("unexpected tree shape after insert of 7, 99 and 100")
	}
	if len(tree.root.children) != 4 {
		t.Logf("tree = %s", printTree(tree))
		t.Fatalf("expected 4 root->children, have %d", len(tree.root.children))
	}
	ch3 := tree.root.children[3]
	if len(ch3.items) != 3 || ch3.items[2].key != 100 {
		t.Logf("tree = %s", printTree(tree))
		t.Errorf("expected inserted child.3.item[2] to have key=100, is %#v", ch3.items)
	}
	assert.Equal(t, 8, tree.root.items[2].key, "median of split child moves up")
}

func TestTreeRootSplitIncreasesDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := New[int, int](Degree(2))
	for i := 0; i < 3; i++ {
		tree.Insert(i, i)
	}
	assert.Equal(t, 1, tree.Depth())
	tree.Insert(3, 3)
	assert.Equal(t, 2, tree.Depth())
	require.NoError(t, tree.Check())
}

// --- Delete ----------------------------------------------------------------

func TestTreeDeleteFromEmptyTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := New[int, string]().WithDeleted(7)
	if tree.root != nil {
		t.Logf("tree =\n%s", printTree(tree))
		t.Errorf("expected to have tree without a root")
	}
	if tree.depth != 0 {
		t.Errorf("expected tree.depth to be 0, is %d", tree.depth)
	}
}

func TestTreeDeleteInsertedKeyFromLeaf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	modified := tree.With(7, "7")
	modified = modified.WithDeleted(7)
	orig := printShape(tree)
	mod := printShape(modified)
	if orig != mod {
		t.Log(orig)
		t.Log(mod)
		t.Errorf("different trees after insert+delete; expected to be equal")
	}
}

func TestTreeDeleteAndSteal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	tree = tree.WithDeleted(4) // root->1 has to borrow from root->2
	require.NoError(t, tree.Check())
	assert.Equal(t, []int{2, 6}, keysOf(tree.root))
	assert.Equal(t, []int{3, 5}, keysOf(tree.root.children[1]))
	assert.Equal(t, []int{8, 9}, keysOf(tree.root.children[2]))
}

func TestTreeDeleteAndMerge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	tree = tree.WithDeleted(0)
	if tree.depth != 2 {
		t.Logf("tree =\n%s", printTree(tree))
		t.Errorf("expected tree to have depth=2, has %d", tree.depth)
	}
	ch := tree.root.children
	if len(ch) != 2 {
		t.Logf("tree =\n%s", printTree(tree))
		t.Fatalf("expected root to have 2 children, has %d", len(ch))
	}
	if len(ch[0].items) != 4 {
		t.Logf("tree =\n%s", printTree(tree))
		t.Fatalf("expected left child to have 4 items, has %d", len(ch[0].items))
	}
	assert.Equal(t, []int{1, 2, 3, 4}, keysOf(ch[0]))
	require.NoError(t, tree.Check())
}

func TestTreeDeleteInnerItem(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	tree = tree.WithDeleted(5)
	if tree.depth != 2 {
		t.Logf("tree =\n%s", printTree(tree))
		t.Errorf("expected tree to have depth=2, has %d", tree.depth)
	}
	require.NoError(t, tree.Check())
	assert.Equal(t, []int{2, 6}, keysOf(tree.root))
	_, found := tree.Find(5)
	assert.False(t, found)
}

func TestTreeDeleteCollapsesRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	for _, k := range []int{0, 1, 2, 3, 4} {
		require.True(t, tree.Delete(k))
		require.NoError(t, tree.Check(), "after deleting %d", k)
	}
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, []int{5, 6, 8, 9}, keysOf(tree.root))
}

func TestTreeOriginalSurvivesModification(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persist.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	tree := createTreeForTest()
	before := printShape(tree)
	modified := tree.With(7, "7").With(100, "100").WithDeleted(0).WithDeleted(5)
	require.NoError(t, modified.Check())
	assert.Equal(t, before, printShape(tree))
	for _, ch := range tree.root.children {
		assert.LessOrEqual(t, 1, ch.refs.Count())
	}
}

func TestTreeMutatingUniqueTreeIsInPlace(t *testing.T) {
	tree := createTreeForTest()
	leaf := tree.root.children[2]
	tree.Insert(7, "7")
	assert.Same(t, leaf, tree.root.children[2], "unique leaf has to be modified in place")
	snapshot := tree.Clone()
	tree.Insert(10, "10")
	assert.NotSame(t, leaf, tree.root.children[2], "shared leaf has to be copied")
	assert.Same(t, leaf, snapshot.root.children[2])
	_, found := snapshot.Find(10)
	assert.False(t, found)
}

func TestTreeIteration(t *testing.T) {
	tree := createTreeForTest()
	var keys []int
	for k, v := range tree.All() {
		keys = append(keys, k)
		assert.Equal(t, strconv.Itoa(k), v)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 8, 9}, keys)
	keys = keys[:0]
	for k := range tree.Keys() {
		if k > 4 {
			break
		}
		keys = append(keys, k)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, keys)
}

// ---------------------------------------------------------------------------

func createTreeForTest() Map[int, string] { // tree with values 0…9, without 7
	root := &xnode[int, string]{}
	root.add(2, 5)

	child0 := &xnode[int, string]{}
	child0.add(0, 1)
	root.children = append(root.children, child0)

	child1 := &xnode[int, string]{}
	child1.add(3, 4)
	root.children = append(root.children, child1)

	child2 := &xnode[int, string]{}
	child2.add(6, 8, 9) // 7 is missing
	root.children = append(root.children, child2)

	tree := New[int, string](Degree(3))
	tree.root = root
	tree.depth = 2
	tree.size = 9
	return tree
}

func (node *xnode[K, V]) add(keys ...int) *xnode[K, V] {
	for _, key := range keys {
		node.items = append(node.items, xitem[K, V]{
			key:   any(key).(K),
			value: any(strconv.Itoa(key)).(V),
		})
	}
	return node
}

func keysOf(node *xnode[int, string]) []int {
	keys := make([]int, len(node.items))
	for i, it := range node.items {
		keys[i] = it.key
	}
	return keys
}

// ---------------------------------------------------------------------------

func printTree[K, V any](tree Map[K, V]) string {
	header := fmt.Sprintf("\nTree(depth=%d ⊥%d ⊤%d)\n", tree.depth, tree.minItems, tree.maxItems)
	p := tp.New()
	ppt(p, tree.root, true)
	return header + p.String() + "\n"
}

// printShape prints a tree without ownership counts.
func printShape[K, V any](tree Map[K, V]) string {
	p := tp.New()
	ppt(p, tree.root, false)
	return p.String()
}

func ppt[K, V any](p tp.Tree, node *xnode[K, V], refs bool) {
	if node == nil {
		return
	}
	label := node.String()
	if !refs {
		label = fmt.Sprintf("%v", keysAny(node))
	}
	if node.isLeaf() {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, ch := range node.children {
		ppt(branch, ch, refs)
	}
}

func keysAny[K, V any](node *xnode[K, V]) []K {
	keys := make([]K, len(node.items))
	for i, it := range node.items {
		keys[i] = it.key
	}
	return keys
}
