package rtree

import "sort"

// node is a tree element: either a leaf wrapping one object, or a
// directory node owning an ordered list of children. A single struct with
// a bool discriminant (rather than an interface with two implementations)
// keeps a bounds + children + item + leaf-flag layout where only one of
// children/item is ever populated, the way idiomatic Go usually expresses
// algebraic sum types.
type node[S Scalar, T SpatialObject[S]] struct {
	leaf     bool
	object   T             // valid when leaf
	children []*node[S, T] // valid when !leaf
	mbr      Rect[S]
	hasMBR   bool // false only for an empty directory node
	depth    int  // 0 for leaves
	options  *Options
}

// newLeaf wraps a single object as a depth-0 leaf node.
func newLeaf[S Scalar, T SpatialObject[S]](object T) *node[S, T] {
	return &node[S, T]{leaf: true, object: object, mbr: object.MBR(), hasMBR: true}
}

// newDirectory creates an empty directory node at the given depth.
func newDirectory[S Scalar, T SpatialObject[S]](depth int, options *Options) *node[S, T] {
	return &node[S, T]{depth: depth, options: options}
}

// newParent creates a directory node owning the given children, at the
// given depth, with its MBR computed from them.
func newParent[S Scalar, T SpatialObject[S]](children []*node[S, T], depth int, options *Options) *node[S, T] {
	n := &node[S, T]{children: children, depth: depth, options: options}
	n.recomputeMBR()
	return n
}

// MBR returns the node's cached minimum bounding rectangle.
func (n *node[S, T]) MBR() Rect[S] {
	return n.mbr
}

func (n *node[S, T]) nodeDepth() int {
	if n.leaf {
		return 0
	}
	return n.depth
}

// recomputeMBR rebuilds the cached MBR from scratch — needed after a
// removal, since the cached value can only shrink and lazy enlargement
// can't detect that.
func (n *node[S, T]) recomputeMBR() {
	if n.leaf {
		n.mbr = n.object.MBR()
		n.hasMBR = true
		return
	}
	if len(n.children) == 0 {
		n.hasMBR = false
		return
	}
	mbr := n.children[0].MBR()
	for _, c := range n.children[1:] {
		mbr = mbr.Union(c.MBR())
	}
	n.mbr = mbr
	n.hasMBR = true
}

// extendMBR grows the cached MBR to cover an additional rectangle. Sound
// only when the node already had a valid MBR (or was empty).
func (n *node[S, T]) extendMBR(r Rect[S]) {
	if !n.hasMBR {
		n.mbr = r
		n.hasMBR = true
		return
	}
	n.mbr.Extend(r)
}

// addChildren appends new children to a directory node, extending its
// cached MBR lazily rather than recomputing from scratch.
func (n *node[S, T]) addChildren(newChildren []*node[S, T]) {
	for _, c := range newChildren {
		n.extendMBR(c.MBR())
	}
	n.children = append(n.children, newChildren...)
}

// insertionResult is the outcome of inserting into a directory node.
type insertionResult[S Scalar, T SpatialObject[S]] struct {
	kind      insertionKind
	split     *node[S, T]   // valid when kind == insertSplit
	reinserts []*node[S, T] // valid when kind == insertReinsert
}

type insertionKind int

const (
	insertComplete insertionKind = iota
	insertSplit
	insertReinsert
)

// insert adds subtree t (itself a leaf or a directory node, at any depth
// strictly below n's) into the subtree rooted at n.
func (n *node[S, T]) insert(t *node[S, T], state *insertionState) insertionResult[S, T] {
	n.extendMBR(t.MBR())

	if t.nodeDepth()+1 == n.depth {
		// Force insertion directly into this node.
		n.addChildren([]*node[S, T]{t})
		return n.resolveOverflow(state)
	}

	follow := n.chooseSubtree(t)
	result := follow.insert(t, state)
	switch result.kind {
	case insertSplit:
		n.addChildren([]*node[S, T]{result.split})
		return n.resolveOverflow(state)
	case insertReinsert:
		// Reinsertion can only shrink descendant MBRs, so the cached
		// MBR must be fully recomputed, not lazily extended.
		n.recomputeMBR()
		return result
	default:
		return insertionResult[S, T]{kind: insertComplete}
	}
}

// resolveOverflow applies the R*-tree forced-reinsertion rule: the first
// time a depth overflows during one top-level insert, reinsert instead of
// splitting; any further overflow at that depth splits.
func (n *node[S, T]) resolveOverflow(state *insertionState) insertionResult[S, T] {
	if len(n.children) <= n.options.maxSize {
		return insertionResult[S, T]{kind: insertComplete}
	}
	if state.didReinsert(n.depth) {
		sibling := n.split()
		return insertionResult[S, T]{kind: insertSplit, split: sibling}
	}
	state.markReinsertion(n.depth)
	ejected := n.reinsert()
	return insertionResult[S, T]{kind: insertReinsert, reinserts: ejected}
}

// split partitions an overfull directory node into two siblings at the
// same depth: choose the split axis, choose the split index along that
// axis, then detach the right partition.
func (n *node[S, T]) split() *node[S, T] {
	axis := n.chooseSplitAxis()
	n.sortChildrenByLowerCoord(axis)
	idx := n.chooseSplitIndex()

	right := append([]*node[S, T](nil), n.children[idx:]...)
	n.children = n.children[:idx:idx]

	sibling := newParent[S, T](right, n.depth, n.options)
	n.recomputeMBR()
	return sibling
}

// chooseSplitAxis picks the axis whose single best partition yields the
// smallest half_margin(left)+half_margin(right), tracking one global
// minimum across every (axis, cut) candidate rather than an axis total;
// axis 0 always seeds the running best.
func (n *node[S, T]) chooseSplitAxis() int {
	dim := n.MBR().Dim()
	bestAxis := 0
	var bestGoodness S
	for axis := 0; axis < dim; axis++ {
		n.sortChildrenByLowerCoord(axis)
		goodness := n.bestDistMargin()
		if axis == 0 || goodness < bestGoodness {
			bestGoodness = goodness
			bestAxis = axis
		}
	}
	return bestAxis
}

// bestDistMargin returns the smallest half_margin(left)+half_margin(right)
// over every legal partition index, given the node's current child order.
func (n *node[S, T]) bestDistMargin() S {
	min := n.options.minSize
	count := len(n.children)
	var best S
	first := true
	for k := min; k <= count-min; k++ {
		left := n.children[0].MBR()
		for _, c := range n.children[1:k] {
			left = left.Union(c.MBR())
		}
		right := n.children[k].MBR()
		for _, c := range n.children[k+1:] {
			right = right.Union(c.MBR())
		}
		margin := left.HalfMargin() + right.HalfMargin()
		if first || margin < best {
			best = margin
			first = false
		}
	}
	return best
}

// chooseSplitIndex picks the partition index (children already sorted
// along the chosen axis) minimizing the lexicographic pair
// (overlap_area, total_area); ties favor the smaller index.
func (n *node[S, T]) chooseSplitIndex() int {
	min := n.options.minSize
	count := len(n.children)
	bestIdx := min
	var bestOverlap, bestArea S
	first := true
	for k := min; k <= count-min; k++ {
		left := n.children[0].MBR()
		for _, c := range n.children[1:k] {
			left = left.Union(c.MBR())
		}
		right := n.children[k].MBR()
		for _, c := range n.children[k+1:] {
			right = right.Union(c.MBR())
		}
		overlap := left.Intersection(right).Area()
		area := left.Area() + right.Area()
		if first || overlap < bestOverlap || (overlap == bestOverlap && area < bestArea) {
			bestOverlap, bestArea, bestIdx = overlap, area, k
			first = false
		}
	}
	return bestIdx
}

// reinsert ejects the reinsertionCount children whose MBR centers are
// furthest from this node's own MBR center, returning them
// so the insertion driver can re-enqueue them at their original depth.
func (n *node[S, T]) reinsert() []*node[S, T] {
	center := n.MBR().Center()
	sort.Sort(byDistanceFromCenter[S, T]{children: n.children, center: center})
	k := len(n.children) - n.options.reinsertionCount
	ejected := append([]*node[S, T](nil), n.children[k:]...)
	n.children = n.children[:k:k]
	n.recomputeMBR()
	return ejected
}

// chooseSubtree selects which child directory to descend into when
// inserting a subtree strictly shallower than this node.
// Requires n.depth >= 2: the caller never calls this when n's children
// are themselves leaves.
func (n *node[S, T]) chooseSubtree(t *node[S, T]) *node[S, T] {
	insertionMBR := t.MBR()

	// Inclusion phase: prefer a child whose MBR already contains the
	// incoming MBR, breaking ties toward the smallest such child area.
	bestIdx := -1
	var bestArea S
	for i, c := range n.children {
		if c.MBR().ContainsRect(insertionMBR) {
			area := c.MBR().Area()
			if bestIdx == -1 || area < bestArea {
				bestIdx = i
				bestArea = area
			}
		}
	}
	if bestIdx != -1 {
		return n.children[bestIdx]
	}

	// Non-inclusion phase: minimize (overlap_increase, area_increase, area).
	// overlap_increase is only computed when all grandchildren are leaves,
	// i.e. this node's depth <= 2; deeper than that it's
	// defined as the zero of S.
	allLeaves := n.depth <= 2
	minIdx := 0
	var minOverlapInc, minAreaInc, minArea S
	first := true
	for i, c1 := range n.children {
		mbr := c1.MBR()
		enlarged := mbr.Union(insertionMBR)

		var overlapInc S
		if allLeaves {
			var overlap, newOverlap S
			for j, c2 := range n.children {
				if i == j {
					continue
				}
				childMBR := c2.MBR()
				overlap += mbr.Intersection(childMBR).Area()
				newOverlap += enlarged.Intersection(childMBR).Area()
			}
			overlapInc = newOverlap - overlap
		}

		area := enlarged.Area()
		areaInc := area - mbr.Area()

		if first || overlapInc < minOverlapInc ||
			(overlapInc == minOverlapInc && areaInc < minAreaInc) ||
			(overlapInc == minOverlapInc && areaInc == minAreaInc && area < minArea) {
			minOverlapInc, minAreaInc, minArea = overlapInc, areaInc, area
			minIdx = i
			first = false
		}
	}
	return n.children[minIdx]
}

// sortChildrenByLowerCoord sorts this node's children by the given axis's
// lower-corner coordinate, used by split ahead of both axis choice and
// split-index choice.
func (n *node[S, T]) sortChildrenByLowerCoord(axis int) {
	sort.Sort(byLowerCoord[S, T]{children: n.children, axis: axis})
}

// byLowerCoord sorts directory children by their MBR's lower-corner
// coordinate on a given axis, generalized from two fixed axes to any axis
// of an n-dimensional tree.
type byLowerCoord[S Scalar, T SpatialObject[S]] struct {
	children []*node[S, T]
	axis     int
}

func (b byLowerCoord[S, T]) Len() int { return len(b.children) }
func (b byLowerCoord[S, T]) Swap(i, j int) {
	b.children[i], b.children[j] = b.children[j], b.children[i]
}
func (b byLowerCoord[S, T]) Less(i, j int) bool {
	return b.children[i].MBR().Lower()[b.axis] < b.children[j].MBR().Lower()[b.axis]
}

// byDistanceFromCenter sorts directory children by increasing squared
// distance from their MBR's own center to a fixed reference center. Drives
// forced reinsertion's furthest-first ejection order.
type byDistanceFromCenter[S Scalar, T SpatialObject[S]] struct {
	children []*node[S, T]
	center   VecN[S]
}

func (b byDistanceFromCenter[S, T]) Len() int { return len(b.children) }
func (b byDistanceFromCenter[S, T]) Swap(i, j int) {
	b.children[i], b.children[j] = b.children[j], b.children[i]
}
func (b byDistanceFromCenter[S, T]) Less(i, j int) bool {
	di := SquaredDistance[S](b.children[i].MBR().Center(), b.center)
	dj := SquaredDistance[S](b.children[j].MBR().Center(), b.center)
	return di < dj
}

// removeObject removes the first child (direct or nested) equal to
// object, descending only into children whose MBR contains object's MBR.
// Returns whether a removal occurred; on success this node's cached MBR
// is recomputed.
func (n *node[S, T]) removeObject(object T) bool {
	if n.leaf {
		return false // a leaf is removed by its parent, never itself
	}
	targetMBR := object.MBR()
	for i, c := range n.children {
		if c.leaf {
			if c.object != object {
				continue
			}
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			n.recomputeMBR()
			return true
		}
		if !c.MBR().ContainsRect(targetMBR) {
			continue
		}
		if c.removeObject(object) {
			if len(c.children) == 0 {
				n.children = append(n.children[:i:i], n.children[i+1:]...)
			}
			n.recomputeMBR()
			return true
		}
	}
	return false
}

// removeAtPoint removes and returns the first object (direct or nested)
// whose Contains(p) is true, descending only into children whose MBR
// contains p.
func (n *node[S, T]) removeAtPoint(p VecN[S]) (T, bool) {
	if n.leaf {
		var zero T
		return zero, false
	}
	for i, c := range n.children {
		if !c.MBR().ContainsPoint(p) {
			continue
		}
		if c.leaf {
			if !c.object.Contains(p) {
				continue
			}
			removed := c.object
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			n.recomputeMBR()
			return removed, true
		}
		if removed, ok := c.removeAtPoint(p); ok {
			if len(c.children) == 0 {
				n.children = append(n.children[:i:i], n.children[i+1:]...)
			}
			n.recomputeMBR()
			return removed, true
		}
	}
	var zero T
	return zero, false
}

// containsObject reports whether object (by equality) is present in the
// subtree rooted at n, using the same descent predicate as removal.
func (n *node[S, T]) containsObject(object T) bool {
	if n.leaf {
		return n.object == object
	}
	targetMBR := object.MBR()
	for _, c := range n.children {
		if c.leaf {
			if c.object == object {
				return true
			}
			continue
		}
		if c.MBR().ContainsRect(targetMBR) && c.containsObject(object) {
			return true
		}
	}
	return false
}
