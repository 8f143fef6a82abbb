package rtree

// SpatialObject is anything that can be stored in the tree: a value that
// knows its own bounding rectangle, can measure its squared distance to a
// query point, and can decide whether it contains a point.
//
// SpatialObject embeds comparable so Remove and Contains (which need
// object equality) work without a second tree type or a duplicated node
// encoding; every primitive this package ships (Point2/3/4, Segment,
// Triangle) is a plain comparable value type, so this costs nothing in
// practice. VecN (the general, arbitrary-dimension point) is backed by a
// slice and is therefore *not* comparable — it's the right type for
// bounding-rectangle corners and query arguments, but objects stored in a
// Remove/Contains-capable tree need a fixed-size, comparable point type
// such as Point2/Point3/Point4 below.
type SpatialObject[S Scalar] interface {
	comparable

	// MBR returns the object's own minimum bounding rectangle.
	MBR() Rect[S]
	// Distance2 returns the squared distance from p to the nearest part
	// of the object.
	Distance2(p VecN[S]) S
	// Contains reports whether p lies on or inside the object.
	Contains(p VecN[S]) bool
}

// ComparablePoint is a Point that is also directly usable as a map key /
// comparable with ==. Fixed-size arrays of comparable scalars satisfy it,
// which is why Point2/Point3/Point4 below are arrays rather than slices.
type ComparablePoint[S Scalar] interface {
	Point[S]
	comparable
}

// Point2, Point3 and Point4 are fixed-dimension, comparable points, one
// per common low dimension count. Unlike VecN they can be stored directly
// as tree objects, since Remove/Contains need object equality.
type (
	Point2[S Scalar] [2]S
	Point3[S Scalar] [3]S
	Point4[S Scalar] [4]S
)

func (p Point2[S]) Dim() int    { return 2 }
func (p Point2[S]) Nth(i int) S { return p[i] }

func (p Point3[S]) Dim() int    { return 3 }
func (p Point3[S]) Nth(i int) S { return p[i] }

func (p Point4[S]) Dim() int    { return 4 }
func (p Point4[S]) Nth(i int) S { return p[i] }

// pointObject adapts any ComparablePoint into a SpatialObject: its own
// MBR is the degenerate rectangle at its location, its distance to a
// query point is the ordinary squared distance, and it "contains" only
// points equal to itself.
type pointObject[S Scalar, PT ComparablePoint[S]] struct {
	PT
}

// AsObject wraps a comparable point so it can be inserted into a tree
// whose object type is a point (the common case: indexing bare points
// rather than extended geometry).
func AsObject[S Scalar, PT ComparablePoint[S]](p PT) pointObject[S, PT] {
	return pointObject[S, PT]{p}
}

func (p pointObject[S, PT]) MBR() Rect[S] { return PointRect[S](p.PT) }

func (p pointObject[S, PT]) Distance2(q VecN[S]) S { return SquaredDistance[S](p.PT, q) }

func (p pointObject[S, PT]) Contains(q VecN[S]) bool {
	for i := 0; i < p.Dim(); i++ {
		if p.Nth(i) != q.Nth(i) {
			return false
		}
	}
	return true
}

// Segment is a directed line segment between two points, usable as a
// SpatialObject.
type Segment[S Scalar, PT ComparablePoint[S]] struct {
	From, To PT
}

// NewSegment builds a Segment from two points.
func NewSegment[S Scalar, PT ComparablePoint[S]](from, to PT) Segment[S, PT] {
	return Segment[S, PT]{From: from, To: to}
}

// MBR returns the segment's axis-aligned bounding rectangle.
func (s Segment[S, PT]) MBR() Rect[S] {
	return PointRect[S](s.From).Union(PointRect[S](s.To))
}

// Distance2 returns the squared distance from p to the nearest point on
// the segment.
func (s Segment[S, PT]) Distance2(p VecN[S]) S {
	d := Sub[S](s.To, s.From)
	lenSq := SquaredLength[S](d)
	if lenSq == zero[S]() {
		return SquaredDistance[S](p, s.From)
	}
	w := Sub[S](p, s.From)
	var dot S
	for i := 0; i < d.Dim(); i++ {
		dot += w.Nth(i) * d.Nth(i)
	}
	if dot <= zero[S]() {
		return SquaredDistance[S](p, s.From)
	}
	if dot >= lenSq {
		return SquaredDistance[S](p, s.To)
	}
	// Projection falls strictly within the segment: work in a scaled space
	// (multiply through by lenSq) so integral Scalars divide only once, at
	// the end.
	var proj2 S
	for i := 0; i < d.Dim(); i++ {
		diff := w.Nth(i)*lenSq - dot*d.Nth(i)
		proj2 += diff * diff
	}
	return proj2 / (lenSq * lenSq)
}

// Contains reports whether p lies exactly on the segment.
func (s Segment[S, PT]) Contains(p VecN[S]) bool {
	return s.Distance2(p) == zero[S]()
}

// Triangle is a filled triangle, usable as a SpatialObject.
type Triangle[S Scalar, PT ComparablePoint[S]] struct {
	A, B, C PT
}

// NewTriangle builds a Triangle from three corner points.
func NewTriangle[S Scalar, PT ComparablePoint[S]](a, b, c PT) Triangle[S, PT] {
	return Triangle[S, PT]{A: a, B: b, C: c}
}

// MBR returns the triangle's axis-aligned bounding rectangle.
func (t Triangle[S, PT]) MBR() Rect[S] {
	return PointRect[S](t.A).Union(PointRect[S](t.B)).Union(PointRect[S](t.C))
}

// Distance2 returns the squared distance from p to the nearest point of
// the triangle (its interior or any of its three edges).
func (t Triangle[S, PT]) Distance2(p VecN[S]) S {
	if t.Contains(p) {
		return zero[S]()
	}
	edges := [3]Segment[S, PT]{
		{From: t.A, To: t.B},
		{From: t.B, To: t.C},
		{From: t.C, To: t.A},
	}
	best := edges[0].Distance2(p)
	for _, e := range edges[1:] {
		if d := e.Distance2(p); d < best {
			best = d
		}
	}
	return best
}

// Contains reports whether p lies within the triangle (2D barycentric
// sign test; only meaningful when the triangle's points are 2D).
func (t Triangle[S, PT]) Contains(p VecN[S]) bool {
	sign := func(a, b, c Point[S]) S {
		return (a.Nth(0)-c.Nth(0))*(b.Nth(1)-c.Nth(1)) - (b.Nth(0)-c.Nth(0))*(a.Nth(1)-c.Nth(1))
	}
	d1 := sign(p, t.A, t.B)
	d2 := sign(p, t.B, t.C)
	d3 := sign(p, t.C, t.A)
	hasNeg := d1 < zero[S]() || d2 < zero[S]() || d3 < zero[S]()
	hasPos := d1 > zero[S]() || d2 > zero[S]() || d3 > zero[S]()
	return !(hasNeg && hasPos)
}
