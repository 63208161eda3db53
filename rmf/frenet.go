package rmf

import (
	"math"

	"github.com/npillmayer/tubular"
)

// FrenetFrames computes a discrete Frenet frame at every sample,
// independently of its neighbours' frames. It uses the same tangent estimate
// as Solve. The normal follows the discrete curvature direction; where it is
// undefined, the previous normal is carried over (or, at the start of the
// path, the LeastAlignedAxis fallback is used and reported in Sequence.Warning).
//
// Frenet frames are not rotation-minimizing: they twist along torsional
// stretches and flip at inflections. They are provided for comparison.
func FrenetFrames(samples []tubular.Vec) (*Sequence, error) {
	if err := ValidateSamples(samples); err != nil {
		return nil, err
	}
	path, err := newExtendedPath(samples)
	if err != nil {
		return nil, err
	}
	seq := &Sequence{Frames: make([]Frame, path.N())}
	prev := tubular.Zero
	for i := 0; i < path.N(); i++ {
		t, err := path.sampleTangent(i)
		if err != nil {
			return nil, err
		}
		n := path.curvatureNormal(i, t)
		if n == tubular.Zero {
			if prev == tubular.Zero {
				prev = LeastAlignedAxis(t)
				seq.Warning = sampleError(ErrDegenerateSeed, i)
			}
			if n = orthonormal(prev, t); n == tubular.Zero {
				n = orthonormal(LeastAlignedAxis(t), t)
			}
		}
		seq.Frames[i] = Frame{T: t, R: n, S: t.Cross(n)}
		prev = n
	}
	return seq, nil
}

// Twist measures the rotation around the tangent between two consecutive
// frames a and b. a.R is carried into the normal plane of b by the minimal
// rotation taking a.T onto b.T, and the angle between the result and b.R is
// returned. Twist is 0 for exact parallel transport; for rotation-minimizing
// frames it approaches 0 as samples get closer.
func Twist(a, b Frame) float64 {
	r := a.R
	if axis := a.T.Cross(b.T); !axis.IsZero() {
		r = tubular.Rotation(axis, a.T.Angle(b.T)).TransformDir(r)
	}
	p := r.Sub(b.T.Scaled(b.T.Dot(r)))
	if p.IsZero() {
		return math.Pi / 2
	}
	return p.Angle(b.R)
}

// MaxTwist returns the largest Twist between consecutive frames and the
// index i of the frame pair (i, i+1) where it occurs.
func MaxTwist(seq *Sequence) (float64, int) {
	return maxOver(seq, Twist)
}

// MaxTurn returns the largest angle between the reference normals of
// consecutive frames and the index i of the frame pair (i, i+1).
func MaxTurn(seq *Sequence) (float64, int) {
	return maxOver(seq, func(a, b Frame) float64 {
		return a.R.Angle(b.R)
	})
}

func maxOver(seq *Sequence, measure func(a, b Frame) float64) (float64, int) {
	best, at := 0.0, 0
	for i := 0; i+1 < seq.N(); i++ {
		if m := measure(seq.Frames[i], seq.Frames[i+1]); m > best {
			best, at = m, i
		}
	}
	return best, at
}
