package rtree

// RTree is an in-memory, n-dimensional R*-tree spatial index. The zero
// value is not usable; construct one with New or NewWithOptions.
type RTree[S Scalar, T SpatialObject[S]] struct {
	root    *node[S, T]
	options Options
	size    int
}

// New returns an empty tree using DefaultOptions.
func New[S Scalar, T SpatialObject[S]]() *RTree[S, T] {
	return NewWithOptions[S, T](DefaultOptions())
}

// NewWithOptions returns an empty tree using a validated fan-out
// configuration (see NewOptions).
func NewWithOptions[S Scalar, T SpatialObject[S]](options Options) *RTree[S, T] {
	r := &RTree[S, T]{options: options}
	r.reset()
	return r
}

func (r *RTree[S, T]) reset() {
	r.root = newDirectory[S, T](1, &r.options)
	r.size = 0
}

// Size returns the number of stored objects.
func (r *RTree[S, T]) Size() int { return r.size }

// MBR returns the root's bounding rectangle, or false if the tree is empty.
func (r *RTree[S, T]) MBR() (Rect[S], bool) {
	if !r.root.hasMBR {
		return Rect[S]{}, false
	}
	return r.root.MBR(), true
}

// Insert adds object to the tree. Always succeeds; amortized
// O(log n) per the R*-tree's forced-reinsertion bound.
//
// The driver keeps a worklist seeded with a single leaf, draining it until
// empty: ejected reinsertion subtrees and root splits are both
// re-enqueued/handled in the same loop.
func (r *RTree[S, T]) Insert(object T) {
	worklist := []*node[S, T]{newLeaf[S, T](object)}
	state := newInsertionState()

	for len(worklist) > 0 {
		t := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		result := r.root.insert(t, state)
		switch result.kind {
		case insertReinsert:
			worklist = append(worklist, result.reinserts...)
		case insertSplit:
			newRoot := newParent[S, T]([]*node[S, T]{r.root, result.split}, r.root.depth+1, &r.options)
			r.root = newRoot
		}
	}
	r.size++
}

// Lookup returns the object containing p, or false if none does.
func (r *RTree[S, T]) Lookup(p VecN[S]) (T, bool) {
	found := r.root.lookup(p)
	if found == nil {
		var zero T
		return zero, false
	}
	return *found, true
}

// LookupMut returns an exclusive pointer to the object containing p.
// Callers must not change the object's MBR through it.
func (r *RTree[S, T]) LookupMut(p VecN[S]) (*T, bool) {
	found := r.root.lookup(p)
	return found, found != nil
}

// LookupInRectangle returns every object whose own MBR intersects rect.
func (r *RTree[S, T]) LookupInRectangle(rect Rect[S]) []T {
	var ptrs []*T
	r.root.lookupInRectangle(rect, &ptrs)
	return derefAll(ptrs)
}

// LookupInCircle returns every object whose squared distance to origin is
// strictly less than radius2.
func (r *RTree[S, T]) LookupInCircle(origin VecN[S], radius2 S) []T {
	var ptrs []*T
	r.root.lookupInCircle(origin, radius2, &ptrs)
	return derefAll(ptrs)
}

// NearestNeighbor returns the single closest object to p, or false if the
// tree is empty.
func (r *RTree[S, T]) NearestNeighbor(p VecN[S]) (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}
	best, haveBest, _ := r.root.nearestNeighbor(p, nil, false, zero[S]())
	if !haveBest {
		var zero T
		return zero, false
	}
	return *best, true
}

// CloseNeighbor returns an approximate nearest neighbor found via greedy,
// non-backtracking descent: fast, not guaranteed optimal.
func (r *RTree[S, T]) CloseNeighbor(p VecN[S]) (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}
	found := r.root.closeNeighbor(p)
	if found == nil {
		var zero T
		return zero, false
	}
	return *found, true
}

// NearestNeighbors returns every object tied for strict-minimum distance
// to p.
func (r *RTree[S, T]) NearestNeighbors(p VecN[S]) []T {
	if r.size == 0 {
		return nil
	}
	var ptrs []*T
	r.root.nearestNeighbors(p, &ptrs, false, zero[S]())
	return derefAll(ptrs)
}

// NearestNNeighbors returns up to n objects, sorted ascending by distance
// to p.
func (r *RTree[S, T]) NearestNNeighbors(p VecN[S], n int) []T {
	if r.size == 0 || n <= 0 {
		return nil
	}
	results := make([]kNNResult[S, T], 0, n)
	r.root.nearestNNeighbors(p, n, &results)
	out := make([]T, len(results))
	for i, res := range results {
		out[i] = *res.object
	}
	return out
}

// Intersects reports whether any stored object's MBR intersects rect.
func (r *RTree[S, T]) Intersects(rect Rect[S]) bool {
	if r.size == 0 {
		return false
	}
	return r.root.intersects(rect)
}

// Contains reports whether object (by equality) is present in the tree.
func (r *RTree[S, T]) Contains(object T) bool {
	return r.root.containsObject(object)
}

// Remove removes one object equal to object, returning whether a match
// was found. Removes at most one match even if duplicates
// exist.
func (r *RTree[S, T]) Remove(object T) bool {
	if !r.root.removeObject(object) {
		return false
	}
	r.size--
	if len(r.root.children) == 0 {
		r.root.depth = 1
	}
	return true
}

// LookupAndRemove removes and returns one object whose Contains(p) is
// true, or false if none does.
func (r *RTree[S, T]) LookupAndRemove(p VecN[S]) (T, bool) {
	removed, ok := r.root.removeAtPoint(p)
	if !ok {
		var zero T
		return zero, false
	}
	r.size--
	if len(r.root.children) == 0 {
		r.root.depth = 1
	}
	return removed, true
}

func derefAll[T any](ptrs []*T) []T {
	if ptrs == nil {
		return nil
	}
	out := make([]T, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}
