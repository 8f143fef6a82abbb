package rtree

import "sort"

// lookup performs an iterative DFS for the leaf whose object contains p,
// descending only into children whose MBR contains p.
func (n *node[S, T]) lookup(p VecN[S]) *T {
	if n.leaf {
		if n.object.Contains(p) {
			return &n.object
		}
		return nil
	}
	stack := []*node[S, T]{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range top.children {
			if !c.MBR().ContainsPoint(p) {
				continue
			}
			if c.leaf {
				if c.object.Contains(p) {
					return &c.object
				}
				continue
			}
			stack = append(stack, c)
		}
	}
	return nil
}

// addAllObjects appends every leaf object under n to out, via a plain
// recursive traversal. Backs All.
func (n *node[S, T]) addAllObjects(out *[]*T) {
	if n.leaf {
		*out = append(*out, &n.object)
		return
	}
	for _, c := range n.children {
		c.addAllObjects(out)
	}
}

// lookupInRectangle collects every object whose own MBR intersects rect,
// recursing into every child whose MBR intersects it.
func (n *node[S, T]) lookupInRectangle(rect Rect[S], out *[]*T) {
	if n.leaf {
		if n.object.MBR().IntersectsRect(rect) {
			*out = append(*out, &n.object)
		}
		return
	}
	for _, c := range n.children {
		if c.MBR().IntersectsRect(rect) {
			c.lookupInRectangle(rect, out)
		}
	}
}

// lookupInCircle collects every object whose distance2 to origin is
// strictly less than radius2, pruning children whose MBR's min_dist2
// exceeds radius2.
func (n *node[S, T]) lookupInCircle(origin VecN[S], radius2 S, out *[]*T) {
	if n.leaf {
		if n.object.Distance2(origin) < radius2 {
			*out = append(*out, &n.object)
		}
		return
	}
	for _, c := range n.children {
		if c.MBR().MinDist2(origin) <= radius2 {
			c.lookupInCircle(origin, radius2, out)
		}
	}
}

// closestCandidate pairs a child node with its min_dist2 to the query
// point, used to order descent in NN/NN-all/kNN.
type closestCandidate[S Scalar, T SpatialObject[S]] struct {
	child *node[S, T]
	dist2 S
}

// sortedCandidates returns n's children ordered ascending by min_dist2 to
// p. When admit is true, only children with min_dist2 <= tau are kept
// (the τ-based descent filter used by NN and NN-all).
func sortedCandidates[S Scalar, T SpatialObject[S]](children []*node[S, T], p VecN[S], tau S, admit bool) []closestCandidate[S, T] {
	out := make([]closestCandidate[S, T], 0, len(children))
	for _, c := range children {
		d := c.MBR().MinDist2(p)
		if !admit || d <= tau {
			out = append(out, closestCandidate[S, T]{child: c, dist2: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].dist2 < out[j].dist2 })
	return out
}

// minMaxDistBound computes τ = min over children of child.MBR().MinMaxDist2(p),
// the admissible upper bound used to prune the NN descent.
func minMaxDistBound[S Scalar, T SpatialObject[S]](children []*node[S, T], p VecN[S]) S {
	var tau S
	first := true
	for _, c := range children {
		d := c.MBR().MinMaxDist2(p)
		if first || d < tau {
			tau = d
			first = false
		}
	}
	return tau
}

// nearestNeighbor implements the branch-and-bound NN search. best/haveBest/bestDist is the caller's current bound (haveBest
// false means unbounded); the return values are the updated bound after
// searching n.
func (n *node[S, T]) nearestNeighbor(p VecN[S], best *T, haveBest bool, bestDist S) (*T, bool, S) {
	if n.leaf {
		d := n.object.Distance2(p)
		if !haveBest || d < bestDist {
			return &n.object, true, d
		}
		return best, haveBest, bestDist
	}
	tau := minMaxDistBound[S, T](n.children, p)
	for _, cand := range sortedCandidates[S, T](n.children, p, tau, true) {
		if haveBest && cand.dist2 > bestDist {
			break
		}
		best, haveBest, bestDist = cand.child.nearestNeighbor(p, best, haveBest, bestDist)
	}
	return best, haveBest, bestDist
}

// nearestNeighbors implements all-co-closest search: every
// leaf object tied for strict-minimum distance to p.
func (n *node[S, T]) nearestNeighbors(p VecN[S], out *[]*T, haveBest bool, bestDist S) (bool, S) {
	if n.leaf {
		d := n.object.Distance2(p)
		switch {
		case !haveBest || d < bestDist:
			*out = (*out)[:0]
			*out = append(*out, &n.object)
			return true, d
		case d == bestDist:
			*out = append(*out, &n.object)
		}
		return haveBest, bestDist
	}
	tau := minMaxDistBound[S, T](n.children, p)
	for _, cand := range sortedCandidates[S, T](n.children, p, tau, true) {
		if haveBest && cand.dist2 > bestDist {
			break
		}
		haveBest, bestDist = cand.child.nearestNeighbors(p, out, haveBest, bestDist)
	}
	return haveBest, bestDist
}

// kNNResult is one entry of a capped, distance-sorted k-nearest-neighbor
// accumulator.
type kNNResult[S Scalar, T SpatialObject[S]] struct {
	object *T
	dist2  S
}

func (n *node[S, T]) nearestNNeighbors(p VecN[S], k int, results *[]kNNResult[S, T]) {
	if n.leaf {
		insertKNN[S, T](results, &n.object, n.object.Distance2(p), k)
		return
	}
	for _, cand := range sortedCandidates[S, T](n.children, p, zero[S](), false) {
		if len(*results) >= k && cand.dist2 >= (*results)[len(*results)-1].dist2 {
			continue
		}
		cand.child.nearestNNeighbors(p, k, results)
	}
}

// insertKNN inserts (obj, d2) into the sorted, k-capped results list,
// following the standard kNN rule: fill while under k, then only
// replace the last (worst) entry on a strictly smaller distance.
func insertKNN[S Scalar, T SpatialObject[S]](results *[]kNNResult[S, T], obj *T, d2 S, k int) {
	r := *results
	if len(r) < k {
		idx := sort.Search(len(r), func(i int) bool { return r[i].dist2 > d2 })
		r = append(r, kNNResult[S, T]{})
		copy(r[idx+1:], r[idx:])
		r[idx] = kNNResult[S, T]{object: obj, dist2: d2}
		*results = r
		return
	}
	if len(r) == 0 || d2 >= r[len(r)-1].dist2 {
		return
	}
	idx := sort.Search(len(r), func(i int) bool { return r[i].dist2 > d2 })
	copy(r[idx+1:], r[idx:len(r)-1])
	r[idx] = kNNResult[S, T]{object: obj, dist2: d2}
}

// closeNeighbor performs a greedy, non-backtracking descent: at each
// directory node it follows the single child with smallest min_dist2,
// reaching a leaf quickly but without any optimality guarantee.
func (n *node[S, T]) closeNeighbor(p VecN[S]) *T {
	cur := n
	for !cur.leaf {
		if len(cur.children) == 0 {
			return nil
		}
		best := cur.children[0]
		bestDist := best.MBR().MinDist2(p)
		for _, c := range cur.children[1:] {
			if d := c.MBR().MinDist2(p); d < bestDist {
				best, bestDist = c, d
			}
		}
		cur = best
	}
	return &cur.object
}

// intersects reports whether any contained object's MBR intersects rect,
// short-circuiting as soon as one is found.
func (n *node[S, T]) intersects(rect Rect[S]) bool {
	if n.leaf {
		return n.object.MBR().IntersectsRect(rect)
	}
	for _, c := range n.children {
		if c.MBR().IntersectsRect(rect) && c.intersects(rect) {
			return true
		}
	}
	return false
}
