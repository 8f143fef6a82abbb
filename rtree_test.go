package rtree

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntPointTree() *RTree[int, pointObject[int, Point2[int]]] {
	return New[int, pointObject[int, Point2[int]]]()
}

func newFloatPointTree() *RTree[float64, pointObject[float64, Point2[float64]]] {
	return New[float64, pointObject[float64, Point2[float64]]]()
}

func TestEmptyTree(t *testing.T) {
	tree := newFloatPointTree()
	assert.Equal(t, 0, tree.Size())
	_, ok := tree.MBR()
	assert.False(t, ok)

	_, ok = tree.Lookup(VecN[float64]{0, 0})
	assert.False(t, ok)
	_, ok = tree.NearestNeighbor(VecN[float64]{0, 0})
	assert.False(t, ok)
	assert.Empty(t, tree.NearestNeighbors(VecN[float64]{0, 0}))
	assert.Empty(t, tree.LookupInRectangle(NewRect[float64](VecN[float64]{0, 0}, VecN[float64]{1, 1})))
	assert.False(t, tree.Remove(pt(0, 0)))
}

func TestInsertIntegralPointAndLookup(t *testing.T) {
	tree := newIntPointTree()
	obj := AsObject[int](Point2[int]{13, 37})
	tree.Insert(obj)

	found, ok := tree.Lookup(VecN[int]{13, 37})
	require.True(t, ok)
	assert.Equal(t, obj, found)
}

func Test4DFloatPoints(t *testing.T) {
	tree := New[float64, pointObject[float64, Point4[float64]]]()
	rng := rand.New(rand.NewSource(1))
	var objs []pointObject[float64, Point4[float64]]
	for i := 0; i < 1000; i++ {
		p := Point4[float64]{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
		o := AsObject[float64](p)
		objs = append(objs, o)
		tree.Insert(o)
	}
	assert.Equal(t, 1000, tree.Size())
	for _, o := range objs {
		coords := VecN[float64]{o.Nth(0), o.Nth(1), o.Nth(2), o.Nth(3)}
		found, ok := tree.Lookup(coords)
		require.True(t, ok)
		assert.Equal(t, o, found)

		nn, ok := tree.NearestNeighbor(coords)
		require.True(t, ok)
		assert.Equal(t, o, nn)
	}
}

func TestNearestNeighborAgainstBruteForce(t *testing.T) {
	tree := newFloatPointTree()
	rng := rand.New(rand.NewSource(2))
	var objs []pointObject[float64, Point2[float64]]
	for i := 0; i < 1000; i++ {
		o := pt(rng.Float64()*1000, rng.Float64()*1000)
		objs = append(objs, o)
		tree.Insert(o)
	}

	for i := 0; i < 100; i++ {
		q := VecN[float64]{rng.Float64() * 1000, rng.Float64() * 1000}

		bestDist := math.Inf(1)
		for _, o := range objs {
			if d := o.Distance2(q); d < bestDist {
				bestDist = d
			}
		}

		nn, ok := tree.NearestNeighbor(q)
		require.True(t, ok)
		assert.InDelta(t, bestDist, nn.Distance2(q), 1e-9)
	}
}

func TestKNNUnitCircleSample(t *testing.T) {
	tree := newFloatPointTree()
	coords := [][2]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}, {3, 0}, {2, 1}, {2, -1}}
	for _, c := range coords {
		tree.Insert(pt(c[0], c[1]))
	}

	four := tree.NearestNNeighbors(VecN[float64]{0, 0}, 4)
	assert.Len(t, four, 4)
	for _, o := range four {
		assert.InDelta(t, 1.0, o.Distance2(VecN[float64]{0, 0}), 1e-9)
	}

	one := tree.NearestNNeighbors(VecN[float64]{1, 0}, 1)
	require.Len(t, one, 1)
	assert.Equal(t, pt(1, 0), one[0])

	atTwo := tree.NearestNNeighbors(VecN[float64]{2, 0}, 4)
	assert.Len(t, atTwo, 4)
}

func TestNearestNeighborsAllCoClosest(t *testing.T) {
	tree := newFloatPointTree()
	coords := [][2]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}, {5, 5}}
	for _, c := range coords {
		tree.Insert(pt(c[0], c[1]))
	}
	all := tree.NearestNeighbors(VecN[float64]{0, 0})
	assert.Len(t, all, 4)
}

func TestLookupInRectangleAndCircle(t *testing.T) {
	tree := newFloatPointTree()
	var objs []pointObject[float64, Point2[float64]]
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		o := pt(rng.Float64()*10, rng.Float64()*10)
		objs = append(objs, o)
		tree.Insert(o)
	}

	rect := NewRect[float64](VecN[float64]{2, 2}, VecN[float64]{6, 6})
	got := tree.LookupInRectangle(rect)
	var want []pointObject[float64, Point2[float64]]
	for _, o := range objs {
		if o.MBR().IntersectsRect(rect) {
			want = append(want, o)
		}
	}
	assert.ElementsMatch(t, want, got)

	origin := VecN[float64]{5, 5}
	radius2 := 9.0
	gotCircle := tree.LookupInCircle(origin, radius2)
	var wantCircle []pointObject[float64, Point2[float64]]
	for _, o := range objs {
		if o.Distance2(origin) < radius2 {
			wantCircle = append(wantCircle, o)
		}
	}
	assert.ElementsMatch(t, wantCircle, gotCircle)
}

func TestNearestNNeighborsSortedAndCapped(t *testing.T) {
	tree := newFloatPointTree()
	rng := rand.New(rand.NewSource(4))
	var objs []pointObject[float64, Point2[float64]]
	for i := 0; i < 300; i++ {
		o := pt(rng.Float64()*50, rng.Float64()*50)
		objs = append(objs, o)
		tree.Insert(o)
	}
	q := VecN[float64]{25, 25}
	n := 10
	got := tree.NearestNNeighbors(q, n)
	require.Len(t, got, n)

	sort.Slice(objs, func(i, j int) bool { return objs[i].Distance2(q) < objs[j].Distance2(q) })
	for i, o := range got {
		assert.InDelta(t, objs[i].Distance2(q), o.Distance2(q), 1e-9)
	}
}

func TestRoundTripInsertRemoveAll(t *testing.T) {
	tree := newFloatPointTree()
	rng := rand.New(rand.NewSource(5))
	var objs []pointObject[float64, Point2[float64]]
	for i := 0; i < 2000; i++ {
		o := pt(rng.Float64()*100, rng.Float64()*100)
		objs = append(objs, o)
		tree.Insert(o)
	}
	assert.Equal(t, 2000, tree.Size())

	for _, o := range objs {
		coords := VecN[float64]{o.Nth(0), o.Nth(1)}
		_, ok := tree.LookupAndRemove(coords)
		require.True(t, ok)
	}
	assert.Equal(t, 0, tree.Size())
	_, ok := tree.MBR()
	assert.False(t, ok)

	tree.Insert(pt(1, 1))
	assert.Equal(t, 1, tree.Size())
}

func TestInsertThenLookupAndRemoveIdempotence(t *testing.T) {
	tree := newFloatPointTree()
	for i := 0; i < 50; i++ {
		tree.Insert(pt(float64(i), float64(i)*2))
	}
	sizeBefore := tree.Size()

	obj := pt(200, 400)
	tree.Insert(obj)
	removed, ok := tree.LookupAndRemove(VecN[float64]{200, 400})
	require.True(t, ok)
	assert.Equal(t, obj, removed)
	assert.Equal(t, sizeBefore, tree.Size())
}

func TestDuplicateObjectsRemoveOneAtATime(t *testing.T) {
	tree := New[float64, Triangle[float64, Point2[float64]]]()
	var triangles []Triangle[float64, Point2[float64]]
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 100; i++ {
		tri := NewTriangle[float64, Point2[float64]](
			Point2[float64]{rng.Float64() * 10, rng.Float64() * 10},
			Point2[float64]{rng.Float64() * 10, rng.Float64() * 10},
			Point2[float64]{rng.Float64() * 10, rng.Float64() * 10},
		)
		triangles = append(triangles, tri)
		tree.Insert(tri)
		tree.Insert(tri)
	}
	assert.Equal(t, 200, tree.Size())

	expected := 200
	for _, tri := range triangles {
		for k := 0; k < 2; k++ {
			ok := tree.Remove(tri)
			require.True(t, ok)
			expected--
			assert.Equal(t, expected, tree.Size())
		}
	}
	assert.Equal(t, 0, tree.Size())
}

func TestStructuralInvariantsHoldAfterMutations(t *testing.T) {
	opts := NewOptions(6, 2, 2)
	tree := NewWithOptions[float64, pointObject[float64, Point2[float64]]](opts)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		tree.Insert(pt(rng.Float64()*100, rng.Float64()*100))
		assertStructuralInvariants(t, tree.root, tree.root.depth, &opts)
	}
}

func assertStructuralInvariants[S Scalar, T SpatialObject[S]](t *testing.T, n *node[S, T], rootDepth int, opts *Options) {
	t.Helper()
	if n.leaf {
		return
	}
	if n.depth != rootDepth {
		assert.GreaterOrEqual(t, len(n.children), opts.minSize)
	}
	assert.LessOrEqual(t, len(n.children), opts.maxSize)
	for _, c := range n.children {
		assert.Equal(t, n.depth-1, c.nodeDepth())
		assertStructuralInvariants(t, c, rootDepth, opts)
	}
}

func TestCloseNeighborReturnsSomething(t *testing.T) {
	tree := newFloatPointTree()
	for i := 0; i < 100; i++ {
		tree.Insert(pt(float64(i), float64(i)))
	}
	found, ok := tree.CloseNeighbor(VecN[float64]{50, 50})
	assert.True(t, ok)
	_ = found
}

func TestIterVisitsEveryObjectOnce(t *testing.T) {
	tree := newFloatPointTree()
	inserted := map[pointObject[float64, Point2[float64]]]bool{}
	for i := 0; i < 100; i++ {
		o := pt(float64(i), float64(i)*0.5)
		inserted[o] = true
		tree.Insert(o)
	}
	seen := map[pointObject[float64, Point2[float64]]]bool{}
	for o := range tree.Iter() {
		seen[o] = true
	}
	assert.Equal(t, inserted, seen)
}

func TestContains(t *testing.T) {
	tree := newFloatPointTree()
	obj := pt(3, 4)
	assert.False(t, tree.Contains(obj))
	tree.Insert(obj)
	assert.True(t, tree.Contains(obj))
	tree.Remove(obj)
	assert.False(t, tree.Contains(obj))
}

func BenchmarkInsert(b *testing.B) {
	tree := newFloatPointTree()
	rng := rand.New(rand.NewSource(8))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(pt(rng.Float64()*1000, rng.Float64()*1000))
	}
}

func BenchmarkNearestNeighbor(b *testing.B) {
	tree := newFloatPointTree()
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 10000; i++ {
		tree.Insert(pt(rng.Float64()*1000, rng.Float64()*1000))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.NearestNeighbor(VecN[float64]{rng.Float64() * 1000, rng.Float64() * 1000})
	}
}
