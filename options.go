package rtree

import "fmt"

// Options is the tree's fan-out configuration: maximum and minimum
// directory-node size, and how many children a forced reinsertion ejects.
// It is shared by reference across every node of one tree and is
// immutable once the tree is built, realized as a plain pointer since Go's
// garbage collector already keeps the options alive for as long as any
// node references them.
type Options struct {
	maxSize          int
	minSize          int
	reinsertionCount int
}

// DefaultMaxSize, DefaultMinSize and DefaultReinsertionCount are the
// tree's out-of-the-box fan-out defaults.
const (
	DefaultMaxSize          = 6
	DefaultMinSize          = 3
	DefaultReinsertionCount = 2
)

// DefaultOptions returns the tree's default fan-out configuration.
func DefaultOptions() Options {
	return Options{
		maxSize:          DefaultMaxSize,
		minSize:          DefaultMinSize,
		reinsertionCount: DefaultReinsertionCount,
	}
}

// NewOptions validates and builds a custom fan-out configuration.
// It panics if 0 < minSize < maxSize or 0 < reinsertionCount < maxSize
// doesn't hold — a malformed options triple is a programmer error, not a
// recoverable condition.
func NewOptions(maxSize, minSize, reinsertionCount int) Options {
	if !(0 < minSize && minSize < maxSize) {
		panic(fmt.Sprintf("rtree: invalid options: need 0 < min_size(%d) < max_size(%d)", minSize, maxSize))
	}
	if !(0 < reinsertionCount && reinsertionCount < maxSize) {
		panic(fmt.Sprintf("rtree: invalid options: need 0 < reinsertion_count(%d) < max_size(%d)", reinsertionCount, maxSize))
	}
	return Options{maxSize: maxSize, minSize: minSize, reinsertionCount: reinsertionCount}
}

// insertionState tracks, for each depth visited during one top-level
// Insert call, whether this depth has already had a forced reinsertion —
// the mechanism that bounds reinsertion to at most once per depth per
// insert. Backed by a map rather than a depth-sized slice:
// a root split can itself cascade to a freshly grown root level within
// the same call (a later split bubbling all the way up to the just-built
// root), so the set of depths touched isn't bounded by the tree's depth
// at the start of the call.
type insertionState struct {
	reinserted map[int]bool
}

func newInsertionState() *insertionState {
	return &insertionState{reinserted: make(map[int]bool)}
}

func (s *insertionState) didReinsert(depth int) bool {
	return s.reinserted[depth]
}

func (s *insertionState) markReinsertion(depth int) {
	s.reinserted[depth] = true
}
