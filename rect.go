package rtree

// Rect is an axis-aligned bounding rectangle: two corner points, lower
// and upper, componentwise lower <= upper. It's the tree's MBR type.
type Rect[S Scalar] struct {
	lower VecN[S]
	upper VecN[S]
}

// NewRect builds a rectangle from explicit corners. lower and upper must
// share a dimension; callers are responsible for lower <= upper
// componentwise (PointRect below enforces it for you).
func NewRect[S Scalar](lower, upper VecN[S]) Rect[S] {
	return Rect[S]{lower: lower.Clone(), upper: upper.Clone()}
}

// PointRect returns the degenerate rectangle covering a single point.
func PointRect[S Scalar](p Point[S]) Rect[S] {
	n := p.Dim()
	lower := make(VecN[S], n)
	upper := make(VecN[S], n)
	for i := 0; i < n; i++ {
		c := p.Nth(i)
		lower[i] = c
		upper[i] = c
	}
	return Rect[S]{lower: lower, upper: upper}
}

// Dim returns the rectangle's dimension.
func (r Rect[S]) Dim() int { return len(r.lower) }

// Lower returns the rectangle's lower corner.
func (r Rect[S]) Lower() VecN[S] { return r.lower }

// Upper returns the rectangle's upper corner.
func (r Rect[S]) Upper() VecN[S] { return r.upper }

// Center returns the rectangle's center point.
func (r Rect[S]) Center() VecN[S] {
	n := r.Dim()
	c := make(VecN[S], n)
	two := S(2)
	for i := 0; i < n; i++ {
		c[i] = (r.lower[i] + r.upper[i]) / two
	}
	return c
}

// Area returns the rectangle's (hyper-)volume.
func (r Rect[S]) Area() S {
	area := S(1)
	for i := 0; i < r.Dim(); i++ {
		area *= r.upper[i] - r.lower[i]
	}
	return area
}

// HalfMargin returns half the rectangle's perimeter: the sum of its edge
// lengths, used as a compactness proxy during split-axis selection.
func (r Rect[S]) HalfMargin() S {
	var margin S
	for i := 0; i < r.Dim(); i++ {
		margin += r.upper[i] - r.lower[i]
	}
	return margin
}

// ContainsPoint reports whether p lies within r, inclusive of the boundary.
func (r Rect[S]) ContainsPoint(p Point[S]) bool {
	for i := 0; i < r.Dim(); i++ {
		c := p.Nth(i)
		if c < r.lower[i] || c > r.upper[i] {
			return false
		}
	}
	return true
}

// ContainsRect reports whether other lies entirely within r.
func (r Rect[S]) ContainsRect(other Rect[S]) bool {
	for i := 0; i < r.Dim(); i++ {
		if other.lower[i] < r.lower[i] || other.upper[i] > r.upper[i] {
			return false
		}
	}
	return true
}

// IntersectsRect reports whether r and other overlap (touching counts as
// overlapping, matching componentwise <=/>= comparisons).
func (r Rect[S]) IntersectsRect(other Rect[S]) bool {
	for i := 0; i < r.Dim(); i++ {
		if r.lower[i] > other.upper[i] || r.upper[i] < other.lower[i] {
			return false
		}
	}
	return true
}

// Intersection returns the overlapping region of r and other. If they
// don't overlap, the result has zero extent on every axis where they are
// apart, so its Area is zero (split/choose-subtree only ever consume the
// intersection's area).
func (r Rect[S]) Intersection(other Rect[S]) Rect[S] {
	n := r.Dim()
	lower := make(VecN[S], n)
	upper := make(VecN[S], n)
	for i := 0; i < n; i++ {
		lower[i] = maxS(r.lower[i], other.lower[i])
		upper[i] = maxS(lower[i], minS(r.upper[i], other.upper[i]))
	}
	return Rect[S]{lower: lower, upper: upper}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect[S]) Union(other Rect[S]) Rect[S] {
	n := r.Dim()
	lower := make(VecN[S], n)
	upper := make(VecN[S], n)
	for i := 0; i < n; i++ {
		lower[i] = minS(r.lower[i], other.lower[i])
		upper[i] = maxS(r.upper[i], other.upper[i])
	}
	return Rect[S]{lower: lower, upper: upper}
}

// UnionPoint returns the smallest rectangle containing both r and p.
func (r Rect[S]) UnionPoint(p Point[S]) Rect[S] {
	return r.Union(PointRect[S](p))
}

// Extend grows r in place to cover other, the lazy-enlargement path used
// by node insertion: sound only when r is already a valid MBR.
func (r *Rect[S]) Extend(other Rect[S]) {
	*r = r.Union(other)
}

// MinDist2 returns the squared distance from p to the nearest point of r
// (zero if p is inside r).
func (r Rect[S]) MinDist2(p Point[S]) S {
	var d S
	for i := 0; i < r.Dim(); i++ {
		c := p.Nth(i)
		var diff S
		if c < r.lower[i] {
			diff = r.lower[i] - c
		} else if c > r.upper[i] {
			diff = c - r.upper[i]
		}
		d += diff * diff
	}
	return d
}

// MinMaxDist2 returns the MINMAXDIST bound for p and r: an admissible
// upper bound on the squared distance from p to the nearest object whose
// MBR is r (the standard R-tree pruning bound used by nearest-neighbor
// search). For each axis, one side's contribution is replaced by the
// far-side distance, and the minimum over axes is returned.
//
// Implemented without dividing coordinates by two (which would truncate
// for integral Scalars): the near/far corner on each axis is chosen by
// comparing 2*p[i] against lower[i]+upper[i] instead of against the
// (possibly non-representable) midpoint.
func (r Rect[S]) MinMaxDist2(p Point[S]) S {
	n := r.Dim()
	rm := make([]S, n) // near corner per axis
	rM := make([]S, n) // far corner per axis
	two := S(2)
	for i := 0; i < n; i++ {
		lo, hi := r.lower[i], r.upper[i]
		c := p.Nth(i)
		if two*c <= lo+hi {
			rm[i], rM[i] = lo, hi
		} else {
			rm[i], rM[i] = hi, lo
		}
	}
	var result S
	first := true
	for k := 0; k < n; k++ {
		d := p.Nth(k) - rm[k]
		sum := d * d
		for i := 0; i < n; i++ {
			if i == k {
				continue
			}
			d2 := p.Nth(i) - rM[i]
			sum += d2 * d2
		}
		if first || sum < result {
			result = sum
			first = false
		}
	}
	return result
}
