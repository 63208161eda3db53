package rmf

import (
	"fmt"

	"github.com/npillmayer/tubular"
)

// Extend returns the sample path with two extrapolated points prepended and
// two appended, i.e. a path of length N+4. The original samples occupy
// indices 2 … N+1.
//
// The extrapolated points continue the boundary segment, with the segment's
// vector scaled by the segment's own length d (and 2d for the outermost
// points):
//
//	x(-1) = x(1) + (x(0) - x(1))⋅d        x(-2) = x(1) + (x(0) - x(1))⋅2d
//
// and likewise at the end of the path. For d = 1 the first extrapolated
// point coincides with the boundary sample, for d < 1 it falls inside the
// boundary segment. Tangent estimation copes with it, as only the outer
// points enter the boundary tangents.
func Extend(samples []tubular.Vec) ([]tubular.Vec, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: extension needs at least 2 points, got %d", ErrInsufficientSamples, n)
	}
	ext := make([]tubular.Vec, n+4)
	first, second := samples[0], samples[1]
	d := first.Distance(second)
	ext[1] = second.Add(first.Sub(second).Scaled(d))
	ext[0] = second.Add(first.Sub(second).Scaled(2 * d))
	copy(ext[2:], samples)
	last, pen := samples[n-1], samples[n-2]
	d = last.Distance(pen)
	ext[n+2] = pen.Add(last.Sub(pen).Scaled(d))
	ext[n+3] = pen.Add(last.Sub(pen).Scaled(2 * d))
	return ext, nil
}

// extendedPath is a view onto an extended sample path which addresses
// points by their index in the original sample path.
type extendedPath struct {
	points []tubular.Vec // N+4 points
}

func newExtendedPath(samples []tubular.Vec) (*extendedPath, error) {
	ext, err := Extend(samples)
	if err != nil {
		return nil, err
	}
	return &extendedPath{points: ext}, nil
}

// N returns the number of original samples.
func (ep *extendedPath) N() int {
	return len(ep.points) - 4
}

// X returns sample i, for -2 ≤ i ≤ N+1.
func (ep *extendedPath) X(i int) tubular.Vec {
	return ep.points[i+2]
}

// chord is the central difference around sample i, for -1 ≤ i ≤ N.
func (ep *extendedPath) chord(i int) tubular.Vec {
	return ep.points[i+3].Sub(ep.points[i+1])
}

// tangent estimates the unit tangent at sample i, for -1 ≤ i ≤ N.
// A vanishing chord results in the zero vector.
func (ep *extendedPath) tangent(i int) tubular.Vec {
	return ep.chord(i).Normalized()
}

// sampleTangent is tangent(i) for an original sample, where a vanishing
// chord is an error.
func (ep *extendedPath) sampleTangent(i int) (tubular.Vec, error) {
	c := ep.chord(i)
	if c.IsZero() {
		return tubular.Zero, sampleError(ErrDegenerateTangent, i)
	}
	return c.Normalized(), nil
}

// curvatureNormal is the discrete curvature direction at sample i, made
// orthogonal to t. It is the zero vector for locally straight paths.
func (ep *extendedPath) curvatureNormal(i int, t tubular.Vec) tubular.Vec {
	n := ep.tangent(i + 1).Sub(ep.tangent(i - 1))
	return orthonormal(n, t)
}

// orthonormal removes the component of v along unit vector t and normalizes
// the remainder. Results shorter than ε are returned as the zero vector.
func orthonormal(v, t tubular.Vec) tubular.Vec {
	v = v.Sub(t.Scaled(t.Dot(v)))
	if v.IsZero() {
		return tubular.Zero
	}
	return v.Normalized()
}
