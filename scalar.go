package rtree

import "golang.org/x/exp/constraints"

// Scalar is any numeric type usable as a coordinate or squared distance:
// any Go integer or floating point kind. It has a total order and a zero
// value, and supports the arithmetic the tree needs (+ - * /) directly
// via Go's built-in operators on constrained type parameters.
//
// Comparing floating-point NaN values against this constraint is a caller
// contract violation: the tree assumes a total order and produces
// unspecified structure otherwise.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// zero returns the zero value of S.
func zero[S Scalar]() S {
	var z S
	return z
}

func minS[S Scalar](a, b S) S {
	if a < b {
		return a
	}
	return b
}

func maxS[S Scalar](a, b S) S {
	if a > b {
		return a
	}
	return b
}
