package curve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tubular"
)

// tracer writes to trace with key 'curve'
func tracer() tracing.Trace {
	return tracing.Select("curve")
}

var (
	// ErrNilPath indicates a nil path pointer.
	ErrNilPath = errors.New("path must not be nil")
	// ErrTooFewKnots indicates path knot count is insufficient for interpolation.
	ErrTooFewKnots = errors.New("path has too few knots")
	// ErrInvalidKnot indicates a knot coordinate contains NaN/Inf.
	ErrInvalidKnot = errors.New("path has invalid knot coordinate")
	// ErrDegenerateSegment indicates two consecutive knots collapse to one point.
	ErrDegenerateSegment = errors.New("path has degenerate segment")
)

// Path is a skeleton path of knots in 3D space. To construct a path, start
// with Nullpath(), which creates an empty path, and then extend it.
//
//	path := Nullpath().Knot(tubular.V(0,0,0)).Knot(tubular.V(3,2,0)).Knot(tubular.V(5,2,1)).End()
//
// A path is interpolated by a spline, see CatmullRom.
type Path struct {
	points []tubular.Vec // knot i
	cycle  bool          // is this path cyclic ?
}

// Nullpath creates an empty path, to be extended by subsequent builder calls.
func Nullpath() *Path {
	return &Path{}
}

// FromKnots creates an open path from a slice of knots.
func FromKnots(knots []tubular.Vec) *Path {
	path := &Path{points: make([]tubular.Vec, len(knots))}
	copy(path.points, knots)
	return path
}

// Knot adds a knot to a path. Part of builder functionality.
func (path *Path) Knot(v tubular.Vec) *Path {
	path.points = append(path.points, v)
	return path
}

// End an open path. Part of builder functionality.
func (path *Path) End() *Path {
	return path
}

// Cycle closes a cyclic path. Part of builder functionality.
func (path *Path) Cycle() *Path {
	path.cycle = true
	return path
}

// N returns the number of knots.
func (path *Path) N() int {
	if path == nil {
		return 0
	}
	return len(path.points)
}

// Z returns knot i. For cyclic paths, i is taken modulo N.
func (path *Path) Z(i int) tubular.Vec {
	if path.cycle {
		n := len(path.points)
		i = ((i % n) + n) % n
	}
	return path.points[i]
}

// IsCycle is a predicate: is this path cyclic?
func (path *Path) IsCycle() bool {
	return path.cycle
}

// Knots returns a copy of the knots of a path.
func (path *Path) Knots() []tubular.Vec {
	k := make([]tubular.Vec, len(path.points))
	copy(k, path.points)
	return k
}

// Validate checks if a path is suitable for interpolation: it must have at
// least two knots, finite coordinates and no coincident consecutive knots.
// For cyclic paths, the closing segment is checked as well.
func (path *Path) Validate() error {
	if path == nil {
		return ErrNilPath
	}
	n := path.N()
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 knots, got %d", ErrTooFewKnots, n)
	}
	for i, pt := range path.points {
		if !pt.IsFinite() {
			return fmt.Errorf("%w at knot %d", ErrInvalidKnot, i)
		}
	}
	last := n - 1
	if path.cycle {
		last = n
	}
	for i := 0; i < last; i++ {
		if tubular.Is0(path.Z(i).Distance(path.Z(i + 1))) {
			return fmt.Errorf("%w between knots %d and %d", ErrDegenerateSegment, i, (i+1)%n)
		}
	}
	return nil
}

// AsString returns a path as a (debugging) string, in a MetaFont-like notation:
//
//	(0,0,0) .. (3,2,0) .. (5,2,1) .. cycle
func AsString(path *Path) string {
	var b strings.Builder
	for i, pt := range path.points {
		if i > 0 {
			b.WriteString(" .. ")
		}
		b.WriteString(pt.String())
	}
	if path.cycle {
		b.WriteString(" .. cycle")
	}
	return b.String()
}
