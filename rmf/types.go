package rmf

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tubular"
)

// tracer writes to trace with key 'rmf'
func tracer() tracing.Trace {
	return tracing.Select("rmf")
}

var (
	// ErrInsufficientSamples indicates a sample path with fewer than 3 points.
	ErrInsufficientSamples = errors.New("sample path has too few points")
	// ErrInvalidSample indicates a sample coordinate which is NaN or ±Inf.
	ErrInvalidSample = errors.New("sample path has invalid coordinate")
	// ErrDegenerateSegment indicates two consecutive samples collapse to one point.
	ErrDegenerateSegment = errors.New("sample path has degenerate segment")
	// ErrDegenerateTangent indicates a sample where the central difference vanishes,
	// i.e. the path doubles back onto itself.
	ErrDegenerateTangent = errors.New("sample path has undefined tangent")
	// ErrDegenerateSeed indicates that the seed normal at sample 0 is undefined,
	// because the path starts out straight. Unless strict seeding is requested,
	// this is a warning and a fallback normal is used.
	ErrDegenerateSeed = errors.New("seed normal is undefined")
)

// SampleError is an error at a given sample index. It wraps one of the
// package's sentinel errors, so clients may test it with errors.Is and
// retrieve the index with errors.As.
type SampleError struct {
	Index int   // index of the sample the error refers to
	Err   error // one of the ErrXXX sentinels
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("%v at sample %d", e.Err, e.Index)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}

func sampleError(err error, i int) *SampleError {
	return &SampleError{Index: i, Err: err}
}

// Frame is an orthonormal frame at a sample point: tangent T, reference
// normal R and side vector S = T × R.
type Frame struct {
	T tubular.Vec
	R tubular.Vec
	S tubular.Vec
}

func (f Frame) String() string {
	return fmt.Sprintf("[t=%v r=%v s=%v]", f.T, f.R, f.S)
}

// Sequence is the result of a frame computation: one frame per sample,
// index-aligned with the samples. A Sequence is never partially filled.
type Sequence struct {
	Frames []Frame
	// Warning is non-nil if the computation succeeded with a fallback,
	// currently only for a degenerate seed (errors.Is(Warning, ErrDegenerateSeed)).
	Warning error
}

// N returns the number of frames.
func (seq *Sequence) N() int {
	if seq == nil {
		return 0
	}
	return len(seq.Frames)
}

// Frame returns the frame at sample i.
func (seq *Sequence) Frame(i int) Frame {
	return seq.Frames[i]
}

// Option configures a frame computation.
type Option func(*config)

type config struct {
	strictSeed bool
	seedNormal func(t tubular.Vec) tubular.Vec
}

func makeConfig(opts []Option) *config {
	c := &config{seedNormal: LeastAlignedAxis}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithStrictSeed makes a degenerate seed normal a fatal error instead of a
// warning. Use this if callers prefer to pre-validate path curvature.
func WithStrictSeed() Option {
	return func(c *config) {
		c.strictSeed = true
	}
}

// WithSeedNormal sets the fallback for a degenerate seed normal. f receives the
// seed tangent and should return a vector not parallel to it; the result is
// made orthogonal to the tangent and normalized. The default is LeastAlignedAxis.
func WithSeedNormal(f func(t tubular.Vec) tubular.Vec) Option {
	return func(c *config) {
		if f != nil {
			c.seedNormal = f
		}
	}
}

// LeastAlignedAxis returns the world axis enclosing the largest angle with t.
// Ties are resolved in order X, Y, Z.
func LeastAlignedAxis(t tubular.Vec) tubular.Vec {
	axis, m := tubular.XAxis, abs(t.X)
	if abs(t.Y) < m {
		axis, m = tubular.YAxis, abs(t.Y)
	}
	if abs(t.Z) < m {
		axis = tubular.ZAxis
	}
	return axis
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
