package rmf

import (
	"fmt"

	"github.com/npillmayer/tubular"
)

// ValidateSamples checks if a sample path is suitable for frame computation.
// It reports ErrInsufficientSamples, ErrInvalidSample and ErrDegenerateSegment,
// the latter two as *SampleError carrying the offending index. For a
// degenerate segment the index i denotes the segment between samples i and i+1.
func ValidateSamples(samples []tubular.Vec) error {
	n := len(samples)
	if n < 3 {
		return fmt.Errorf("%w: need at least 3 samples, got %d", ErrInsufficientSamples, n)
	}
	for i, x := range samples {
		if !x.IsFinite() {
			return sampleError(ErrInvalidSample, i)
		}
	}
	for i := 0; i < n-1; i++ {
		if tubular.Is0(samples[i+1].Distance(samples[i])) {
			return sampleError(ErrDegenerateSegment, i)
		}
	}
	return nil
}

// Solve computes rotation-minimizing frames for a sample path. It returns
// exactly one frame per sample, or an error and no frames at all.
//
// A degenerate seed normal (the path starts straight) is resolved by a
// fallback, see WithSeedNormal, and reported in Sequence.Warning. With
// option WithStrictSeed it is returned as an error instead.
func Solve(samples []tubular.Vec, opts ...Option) (*Sequence, error) {
	if err := ValidateSamples(samples); err != nil {
		return nil, err
	}
	conf := makeConfig(opts)
	path, err := newExtendedPath(samples)
	if err != nil {
		return nil, err
	}
	seq := &Sequence{Frames: make([]Frame, 0, path.N())}
	seed, fallback, err := seedFrame(path, conf)
	if err != nil {
		return nil, err
	}
	seq.Frames = append(seq.Frames, seed)
	if fallback {
		seq.Warning = sampleError(ErrDegenerateSeed, 0)
	}
	for i := 0; i < path.N()-1; i++ {
		next, err := reflect(path, i, seq.Frames[i])
		if err != nil {
			return nil, err
		}
		seq.Frames = append(seq.Frames, next)
	}
	tracer().Debugf("computed %d rotation-minimizing frames", seq.N())
	return seq, nil
}

// MustSolve is a helper which panics on errors.
func MustSolve(samples []tubular.Vec, opts ...Option) *Sequence {
	seq, err := Solve(samples, opts...)
	if err != nil {
		panic(err)
	}
	return seq
}

// seedFrame computes the discrete Frenet frame at sample 0. It reports
// whether the fallback normal had to be used.
func seedFrame(path *extendedPath, conf *config) (Frame, bool, error) {
	t0, err := path.sampleTangent(0)
	if err != nil {
		return Frame{}, false, err
	}
	fallback := false
	r0 := path.curvatureNormal(0, t0)
	if r0 == tubular.Zero {
		if conf.strictSeed {
			return Frame{}, false, sampleError(ErrDegenerateSeed, 0)
		}
		r0 = orthonormal(conf.seedNormal(t0), t0)
		if r0 == tubular.Zero {
			return Frame{}, false, fmt.Errorf("%w: fallback normal is parallel to tangent %v",
				sampleError(ErrDegenerateSeed, 0), t0)
		}
		fallback = true
		tracer().Errorf("warning: path starts straight, using fallback seed normal %v", r0)
	}
	seed := Frame{T: t0, R: r0, S: t0.Cross(r0)}
	tracer().Debugf("seed frame %v", seed)
	return seed, fallback, nil
}

// squared lengths below epsilon2 denote vectors shorter than ε
var epsilon2 = tubular.Epsilon * tubular.Epsilon

// reflect carries frame f at sample i over to sample i+1 by double reflection.
func reflect(path *extendedPath, i int, f Frame) (Frame, error) {
	v1 := path.X(i + 1).Sub(path.X(i))
	c1 := v1.Dot(v1)
	if c1 <= epsilon2 {
		return Frame{}, sampleError(ErrDegenerateSegment, i)
	}
	// first reflection, across the bisecting plane of x(i) and x(i+1)
	rl := f.R.Sub(v1.Scaled(2 / c1 * v1.Dot(f.R)))
	tl := f.T.Sub(v1.Scaled(2 / c1 * v1.Dot(f.T)))
	tj, err := path.sampleTangent(i + 1)
	if err != nil {
		return Frame{}, err
	}
	// second reflection, mapping tl onto tj
	rj := rl
	v2 := tj.Sub(tl)
	if c2 := v2.Dot(v2); c2 > epsilon2 {
		rj = rl.Sub(v2.Scaled(2 / c2 * v2.Dot(rl)))
	}
	return Frame{T: tj, R: rj, S: tj.Cross(rj)}, nil
}
