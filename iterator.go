package rtree

import "iter"

// Iter returns a lazy, finite, single-pass sequence over every stored
// object. Order is unspecified but deterministic for a given tree state —
// the same traversal as addAllObjects, expressed as a range-over-func
// iterator instead of an out-slice.
func (r *RTree[S, T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		r.root.iterate(yield)
	}
}

// iterate performs the actual depth-first walk backing Iter, stopping
// early the moment yield returns false.
func (n *node[S, T]) iterate(yield func(T) bool) bool {
	if n.leaf {
		return yield(n.object)
	}
	for _, c := range n.children {
		if !c.iterate(yield) {
			return false
		}
	}
	return true
}

// All returns every stored object as a plain slice, for callers that
// don't need Iter's laziness.
func (r *RTree[S, T]) All() []T {
	var ptrs []*T
	r.root.addAllObjects(&ptrs)
	return derefAll(ptrs)
}
