package avl

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

// checkAVL проверяет инварианты: порядок ключей, корректные высоты, баланс
// и счётчики живых записей в поддеревьях.
func checkAVL[K, V any](t *testing.T, tr *Tree[K, V]) {
	t.Helper()
	var check func(n *node[K, V]) int
	check = func(n *node[K, V]) int {
		if n == nil {
			return 0
		}
		lh := check(n.left)
		rh := check(n.right)
		live := liveOf(n.left) + liveOf(n.right)
		if !n.deleted {
			live++
		}
		if live != n.live {
			t.Fatalf("node %v stores live %d, actual %d", n.key, n.live, live)
		}
		if d := lh - rh; d > 1 || d < -1 {
			t.Fatalf("node %v unbalanced: left=%d right=%d", n.key, lh, rh)
		}
		if n.left != nil && tr.cmp(n.left.key, n.key) >= 0 {
			t.Fatalf("left child %v not less than %v", n.left.key, n.key)
		}
		if n.right != nil && tr.cmp(n.right.key, n.key) <= 0 {
			t.Fatalf("right child %v not greater than %v", n.right.key, n.key)
		}
		h := 1 + max(lh, rh)
		if h != n.height {
			t.Fatalf("node %v stores height %d, actual %d", n.key, n.height, h)
		}
		return h
	}
	check(tr.root)
	if liveOf(tr.root) != tr.Len() {
		t.Fatalf("root live %d != Len %d", liveOf(tr.root), tr.Len())
	}
}

func TestInsertKeepsBalance(t *testing.T) {
	sequences := map[string][]int{
		"ascending":  {},
		"descending": {},
		"zigzag":     {},
		"random":     {},
	}
	for i := 0; i < 500; i++ {
		sequences["ascending"] = append(sequences["ascending"], i)
		sequences["descending"] = append(sequences["descending"], 500-i)
		if i%2 == 0 {
			sequences["zigzag"] = append(sequences["zigzag"], i)
		} else {
			sequences["zigzag"] = append(sequences["zigzag"], 1000-i)
		}
	}
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		sequences["random"] = append(sequences["random"], rng.IntN(300))
	}

	for name, seq := range sequences {
		t.Run(name, func(t *testing.T) {
			tr := NewOrdered[int, int]()
			for _, k := range seq {
				tr.Insert(k, k*10)
				checkAVL(t, tr)
			}
			keys := tr.Keys()
			if !slices.IsSorted(keys) {
				t.Fatalf("keys not sorted: %v", keys)
			}
			uniq := slices.Compact(slices.Sorted(slices.Values(seq)))
			if len(keys) != len(uniq) || tr.Nodes() != len(uniq) {
				t.Fatalf("expected %d unique keys, got %d (nodes=%d)", len(uniq), len(keys), tr.Nodes())
			}
		})
	}
}

func TestSmallRotations(t *testing.T) {
	cases := map[string][]int{
		"left-left":   {3, 2, 1},
		"right-right": {1, 2, 3},
		"left-right":  {3, 1, 2},
		"right-left":  {1, 3, 2},
	}
	for name, seq := range cases {
		t.Run(name, func(t *testing.T) {
			tr := NewOrdered[int, string]()
			for _, k := range seq {
				tr.Insert(k, "")
			}
			checkAVL(t, tr)
			if tr.root.key != 2 || tr.Height() != 2 {
				t.Fatalf("expected root 2 with height 2, got root %d height %d", tr.root.key, tr.Height())
			}
		})
	}
}

func TestDuplicateInsertOverwrites(t *testing.T) {
	tr := NewOrdered[string, int]()
	tr.Insert("a", 1)
	tr.Insert("b", 2)
	tr.Insert("a", 3)
	if tr.Nodes() != 2 || tr.Len() != 2 {
		t.Fatalf("duplicate key must not create a node: nodes=%d len=%d", tr.Nodes(), tr.Len())
	}
	if v, ok := tr.Search("a"); !ok || v != 3 {
		t.Fatalf("Search(a) = %d,%v; want 3,true", v, ok)
	}
}

func TestLazyRemove(t *testing.T) {
	tr := NewOrdered[int, string]()
	for i := 1; i <= 20; i++ {
		tr.Insert(i, "v")
	}
	shapeBefore := dumpShape(tr)

	if !tr.Remove(7) {
		t.Fatal("Remove(7) must report removal")
	}
	if tr.Remove(7) {
		t.Fatal("second Remove(7) must be a no-op")
	}
	if tr.Remove(99) {
		t.Fatal("Remove of absent key must be a no-op")
	}
	if _, ok := tr.Search(7); ok {
		t.Fatal("removed key must be absent")
	}
	if tr.Len() != 19 || tr.Nodes() != 20 {
		t.Fatalf("len=%d nodes=%d", tr.Len(), tr.Nodes())
	}
	checkAVL(t, tr)
	if got := dumpShape(tr); strings.ReplaceAll(got, " (D)", "") != shapeBefore {
		t.Fatalf("remove must not restructure the tree:\n%s\nvs\n%s", got, shapeBefore)
	}
	if slices.Contains(tr.Keys(), 7) {
		t.Fatal("Keys must skip tombstones")
	}

	tr.Insert(7, "again")
	if v, ok := tr.Search(7); !ok || v != "again" {
		t.Fatalf("reinsert: got %q,%v", v, ok)
	}
	if tr.Len() != 20 || tr.Nodes() != 20 {
		t.Fatalf("reinsert must reuse the slot: len=%d nodes=%d", tr.Len(), tr.Nodes())
	}
	checkAVL(t, tr)
}

func TestPopMinSkipsTombstones(t *testing.T) {
	tr := NewOrdered[int, int]()
	for _, k := range []int{5, 3, 8, 1, 4} {
		tr.Insert(k, k)
	}
	tr.Remove(1)

	var got []int
	for {
		k, v, ok := tr.PopMin()
		if !ok {
			break
		}
		if k != v {
			t.Fatalf("payload mismatch for %d: %d", k, v)
		}
		got = append(got, k)
	}
	if !slices.Equal(got, []int{3, 4, 5, 8}) {
		t.Fatalf("pop order = %v", got)
	}
	if tr.Len() != 0 {
		t.Fatalf("tree must be logically empty, len=%d", tr.Len())
	}
	if _, _, ok := tr.Min(); ok {
		t.Fatal("Min on empty tree must fail")
	}
}

func TestCustomOrderAndWalk(t *testing.T) {
	// убывающий порядок
	tr := New[int, struct{}](func(a, b int) int { return b - a })
	for _, k := range []int{1, 2, 3, 4} {
		tr.Insert(k, struct{}{})
	}
	if k, _, _ := tr.Min(); k != 4 {
		t.Fatalf("descending tree min = %d, want 4", k)
	}

	var order []int
	tr.Walk(func(k int, depth int, deleted bool) {
		order = append(order, k)
	})
	// pre-order: корень первым
	if order[0] != tr.root.key || len(order) != 4 {
		t.Fatalf("pre-order walk = %v", order)
	}
}

func TestFprint(t *testing.T) {
	tr := NewOrdered[int, int]()
	for _, k := range []int{2, 1, 3} {
		tr.Insert(k, 0)
	}
	tr.Remove(3)
	var sb strings.Builder
	if err := tr.Fprint(&sb); err != nil {
		t.Fatal(err)
	}
	want := "2\n  1\n    x\n    x\n  3 (D)\n    x\n    x\n"
	if sb.String() != want {
		t.Fatalf("Fprint =\n%q\nwant\n%q", sb.String(), want)
	}
}

func dumpShape[K, V any](tr *Tree[K, V]) string {
	var sb strings.Builder
	_ = tr.Fprint(&sb)
	return sb.String()
}

func TestFprintEmptyAndSingle(t *testing.T) {
	tr := NewOrdered[int, int]()
	if got := dumpShape(tr); got != "x\n" {
		t.Fatalf("empty tree = %q", got)
	}
	tr.Insert(1, 0)
	if got := dumpShape(tr); got != "1\n  x\n  x\n" {
		t.Fatalf("single node = %q", got)
	}
}

func TestDrainVisitsOnePath(t *testing.T) {
	const n = 10000
	tr := NewOrdered[int, int]()
	rng := rand.New(rand.NewPCG(3, 5))
	for _, k := range rng.Perm(n) {
		tr.Insert(k, k)
	}
	limit := tr.Height()
	for want := 0; want < n; want++ {
		node, visited := tr.minNode()
		if node == nil || node.key != want {
			t.Fatalf("min = %v, want %d", node, want)
		}
		if visited > limit {
			t.Fatalf("pop %d visited %d nodes, height %d", want, visited, limit)
		}
		if k, _, ok := tr.PopMin(); !ok || k != want {
			t.Fatalf("PopMin = %d,%v; want %d", k, ok, want)
		}
	}
	if _, visited := tr.minNode(); visited != 0 {
		t.Fatalf("drained tree visited %d nodes", visited)
	}
	if tr.Len() != 0 || tr.Nodes() != n {
		t.Fatalf("len=%d nodes=%d", tr.Len(), tr.Nodes())
	}
	checkAVL(t, tr)
}

func TestAscendAfterMixedUpdates(t *testing.T) {
	tr := NewOrdered[int, int]()
	for i := 0; i < 200; i++ {
		tr.Insert(i, i)
	}
	for i := 0; i < 200; i += 3 {
		tr.Remove(i)
	}
	for i := 0; i < 200; i += 6 {
		tr.Insert(i, i)
	}
	for i := 200; i < 260; i++ {
		tr.Insert(i, i)
	}
	checkAVL(t, tr)
	var want []int
	for i := 0; i < 260; i++ {
		if i >= 200 || i%3 != 0 || i%6 == 0 {
			want = append(want, i)
		}
	}
	if got := tr.Keys(); !slices.Equal(got, want) {
		t.Fatalf("keys = %v\nwant %v", got, want)
	}
	if k, _, _ := tr.Min(); k != 0 {
		t.Fatalf("min = %d", k)
	}
}
