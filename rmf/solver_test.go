package rmf

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tubular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func line(n int) []tubular.Vec {
	samples := make([]tubular.Vec, n)
	for i := range samples {
		samples[i] = tubular.V(float64(i), 0, 0)
	}
	return samples
}

func helixAngle(i, n int) float64 {
	return 2 * math.Pi * float64(i) / float64(n-1)
}

// helix of radius 5 and pitch 2, one full turn
func helix(n int) []tubular.Vec {
	samples := make([]tubular.Vec, n)
	for i := range samples {
		th := helixAngle(i, n)
		samples[i] = tubular.V(5*math.Cos(th), 5*math.Sin(th), 2*th/(2*math.Pi))
	}
	return samples
}

func helixTangent(th float64) tubular.Vec {
	return tubular.V(-5*math.Sin(th), 5*math.Cos(th), 2/(2*math.Pi)).Normalized()
}

func circle(n int) []tubular.Vec {
	samples := make([]tubular.Vec, n)
	for i := range samples {
		th := 2 * math.Pi * float64(i) / float64(n)
		samples[i] = tubular.V(10*math.Cos(th), 10*math.Sin(th), 0)
	}
	return samples
}

// planar S-curve with an inflection at x = π
func wave(n int) []tubular.Vec {
	samples := make([]tubular.Vec, n)
	for i := range samples {
		x := 0.5 + (2*math.Pi-1)*float64(i)/float64(n-1)
		samples[i] = tubular.V(x, math.Sin(x), 0)
	}
	return samples
}

func assertOrthonormal(t *testing.T, seq *Sequence) {
	t.Helper()
	const tol = 1e-6
	for i, f := range seq.Frames {
		assert.InDelta(t, 1.0, f.T.Length(), tol, "|t| at %d", i)
		assert.InDelta(t, 1.0, f.R.Length(), tol, "|r| at %d", i)
		assert.InDelta(t, 1.0, f.S.Length(), tol, "|s| at %d", i)
		assert.InDelta(t, 0.0, f.T.Dot(f.R), tol, "t·r at %d", i)
		assert.InDelta(t, 0.0, f.T.Dot(f.S), tol, "t·s at %d", i)
		assert.InDelta(t, 0.0, f.R.Dot(f.S), tol, "r·s at %d", i)
	}
}

func TestSolveRejectsInsufficientSamples(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, samples := range [][]tubular.Vec{nil, line(1), line(2)} {
		seq, err := Solve(samples)
		assert.ErrorIs(t, err, ErrInsufficientSamples)
		assert.Nil(t, seq)
	}
}

func TestSolveRejectsDegenerateSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	samples := line(8)
	samples[4] = samples[3]
	seq, err := Solve(samples)
	require.ErrorIs(t, err, ErrDegenerateSegment)
	assert.Nil(t, seq)
	var serr *SampleError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 3, serr.Index)
}

func TestSolveUsesAbsoluteLengthTolerance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	scaled := func(samples []tubular.Vec, f float64) []tubular.Vec {
		for i := range samples {
			samples[i] = samples[i].Scaled(f)
		}
		return samples
	}
	seq, err := Solve(scaled(helix(100), 1e-2))
	require.NoError(t, err)
	assert.NoError(t, seq.Warning)
	assertOrthonormal(t, seq)
	_, err = Solve(scaled(helix(100), 1e-9))
	require.ErrorIs(t, err, ErrDegenerateSegment)
	var serr *SampleError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 0, serr.Index)
}

func TestSolveRejectsInvalidSample(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	samples := line(5)
	samples[2] = tubular.V(2, math.NaN(), 0)
	_, err := Solve(samples)
	require.ErrorIs(t, err, ErrInvalidSample)
	var serr *SampleError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 2, serr.Index)
}

func TestSolveRejectsDegenerateTangent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	samples := []tubular.Vec{tubular.V(0, 0, 0), tubular.V(1, 0, 0), tubular.V(0, 0, 0)}
	_, err := Solve(samples)
	require.ErrorIs(t, err, ErrDegenerateTangent)
	var serr *SampleError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 1, serr.Index)
}

func TestMustSolvePanicsOnInvalidPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Panics(t, func() { MustSolve(line(2)) })
}

// The extrapolated points scale the boundary segment by its own length
// instead of extending it by a unit step.
func TestExtendScalesBoundarySegmentByItsLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	samples := []tubular.Vec{tubular.V(0, 0, 0), tubular.V(2, 0, 0), tubular.V(4, 0, 0)}
	ext, err := Extend(samples)
	require.NoError(t, err)
	require.Len(t, ext, 7)
	assert.Equal(t, tubular.V(-6, 0, 0), ext[0])
	assert.Equal(t, tubular.V(-2, 0, 0), ext[1])
	assert.Equal(t, samples, ext[2:5])
	assert.Equal(t, tubular.V(6, 0, 0), ext[5])
	assert.Equal(t, tubular.V(10, 0, 0), ext[6])
	//
	// unit spacing: first extrapolated point coincides with the boundary sample
	ext, err = Extend(line(4))
	require.NoError(t, err)
	assert.Equal(t, ext[1], ext[2])
	assert.Equal(t, tubular.V(-1, 0, 0), ext[0])
	//
	// short segments: extrapolated points fall inside the boundary segment
	ext, err = Extend([]tubular.Vec{tubular.V(0, 0, 0), tubular.V(0.5, 0, 0), tubular.V(1, 0, 0)})
	require.NoError(t, err)
	assert.True(t, ext[1].Equal(tubular.V(0.25, 0, 0)), "x(-1) = %v", ext[1])
	assert.True(t, ext[0].Equal(tubular.V(0, 0, 0)), "x(-2) = %v", ext[0])
	//
	_, err = Extend(line(1))
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestStraightLineUsesFallbackSeed(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	seq, err := Solve(line(10))
	require.NoError(t, err)
	require.Equal(t, 10, seq.N())
	require.Error(t, seq.Warning)
	assert.ErrorIs(t, seq.Warning, ErrDegenerateSeed)
	for i, f := range seq.Frames {
		assert.True(t, f.T.Equal(tubular.XAxis), "t at %d = %v", i, f.T)
		assert.True(t, f.R.Equal(tubular.YAxis), "r at %d = %v", i, f.R)
		assert.True(t, f.S.Equal(tubular.ZAxis), "s at %d = %v", i, f.S)
	}
	assertOrthonormal(t, seq)
}

func TestStraightLineStrictSeed(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	seq, err := Solve(line(10), WithStrictSeed())
	assert.ErrorIs(t, err, ErrDegenerateSeed)
	assert.Nil(t, seq)
}

func TestStraightLineCustomSeedNormal(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	up := func(tubular.Vec) tubular.Vec { return tubular.ZAxis }
	seq, err := Solve(line(10), WithSeedNormal(up))
	require.NoError(t, err)
	assert.ErrorIs(t, seq.Warning, ErrDegenerateSeed)
	for _, f := range seq.Frames {
		assert.True(t, f.R.Equal(tubular.ZAxis), "r = %v", f.R)
		assert.True(t, f.S.Equal(tubular.V(0, -1, 0)), "s = %v", f.S)
	}
	along := func(t tubular.Vec) tubular.Vec { return t.Scaled(2) }
	_, err = Solve(line(10), WithSeedNormal(along))
	assert.ErrorIs(t, err, ErrDegenerateSeed)
}

func TestSeedNormalOrthogonalToTangent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// short first segment: the extrapolated tangent before sample 0 reverses
	samples := []tubular.Vec{
		tubular.V(0, 0, 0), tubular.V(0.2, 0, 0), tubular.V(0.5, 0.3, 0.1),
		tubular.V(0.6, 0.8, 0.4), tubular.V(0.4, 1.2, 0.9),
	}
	path, err := newExtendedPath(samples)
	require.NoError(t, err)
	t0, err := path.sampleTangent(0)
	require.NoError(t, err)
	raw := path.tangent(1).Sub(path.tangent(-1)).Normalized()
	assert.Greater(t, math.Abs(raw.Dot(t0)), 0.5, "curvature vector leans along the tangent")
	seq, err := Solve(samples)
	require.NoError(t, err)
	assert.NoError(t, seq.Warning)
	seed := seq.Frames[0]
	assert.InDelta(t, 0, seed.T.Dot(seed.R), 1e-12)
	assert.InDelta(t, 1, seed.R.Length(), 1e-12)
	assertOrthonormal(t, seq)
}

func TestLeastAlignedAxis(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, tubular.YAxis, LeastAlignedAxis(tubular.XAxis))
	assert.Equal(t, tubular.XAxis, LeastAlignedAxis(tubular.ZAxis))
	assert.Equal(t, tubular.ZAxis, LeastAlignedAxis(tubular.V(0.6, 0.8, 0)))
	assert.Equal(t, tubular.XAxis, LeastAlignedAxis(tubular.V(1, 1, 1).Normalized()))
}

func TestHelix(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelInfo)
	const n = 100
	seq, err := Solve(helix(n))
	require.NoError(t, err)
	require.Equal(t, n, seq.N())
	assert.NoError(t, seq.Warning)
	assertOrthonormal(t, seq)
	for i, f := range seq.Frames {
		want := helixTangent(helixAngle(i, n))
		if i == 0 || i == n-1 {
			// one-sided differences at the ends of the path
			assert.Less(t, f.T.Angle(want), 0.05, "tangent at %d", i)
			continue
		}
		assert.InDelta(t, want.X, f.T.X, 1e-3, "tangent.x at %d", i)
		assert.InDelta(t, want.Y, f.T.Y, 1e-3, "tangent.y at %d", i)
		assert.InDelta(t, want.Z, f.T.Z, 1e-3, "tangent.z at %d", i)
	}
	turn, at := MaxTurn(seq)
	assert.Less(t, turn, 5*tubular.Deg2Rad, "r jumps by %g rad at %d", turn, at)
}

func TestTwistOnCircleVanishes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, n := range []int{24, 96, 384} {
		seq, err := Solve(circle(n))
		require.NoError(t, err)
		assertOrthonormal(t, seq)
		twist, at := MaxTwist(seq)
		assert.Less(t, twist, 1e-9, "n=%d: twist %g at %d", n, twist, at)
	}
}

func TestTwistSmallerThanFrenet(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for name, samples := range map[string][]tubular.Vec{
		"helix": helix(100),
		"wave":  wave(61),
	} {
		rm, err := Solve(samples)
		require.NoError(t, err, name)
		fr, err := FrenetFrames(samples)
		require.NoError(t, err, name)
		assertOrthonormal(t, fr)
		rmTwist, _ := MaxTwist(rm)
		frTwist, _ := MaxTwist(fr)
		t.Logf("%s: max twist rmf = %g, frenet = %g", name, rmTwist, frTwist)
		assert.Less(t, rmTwist, frTwist, name)
	}
	// the Frenet normal flips at the inflection, the rotation-minimizing one does not
	fr, _ := FrenetFrames(wave(61))
	frTwist, _ := MaxTwist(fr)
	assert.Greater(t, frTwist, 3.0)
	rm, _ := Solve(wave(61))
	rmTwist, _ := MaxTwist(rm)
	assert.Less(t, rmTwist, 1e-6)
}

func TestTwistApproachesZero(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	coarse, fine := MustSolve(helix(50)), MustSolve(helix(400))
	tc, _ := MaxTwist(coarse)
	tf, _ := MaxTwist(fine)
	t.Logf("max twist: coarse = %g, fine = %g", tc, tf)
	assert.Less(t, tc, 1e-3)
	assert.LessOrEqual(t, tf, tc+1e-12)
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a, err := Solve(helix(120))
	require.NoError(t, err)
	b, err := Solve(helix(120))
	require.NoError(t, err)
	assert.Equal(t, a.Frames, b.Frames)
}

func TestRotatedPathRotatesFrames(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	rot := r3.NewRotation(0.7, r3.Vec{X: 1, Y: 2, Z: 3})
	samples := helix(80)
	rotated := make([]tubular.Vec, len(samples))
	for i, x := range samples {
		rotated[i] = tubular.Vec(rot.Rotate(x.R3()))
	}
	a, b := MustSolve(samples), MustSolve(rotated)
	for i := range a.Frames {
		ra := tubular.Vec(rot.Rotate(a.Frames[i].R.R3()))
		assert.InDelta(t, 0.0, ra.Distance(b.Frames[i].R), 1e-6, "r at %d", i)
	}
}

func TestFrenetFramesOnLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	seq, err := FrenetFrames(line(6))
	require.NoError(t, err)
	assert.ErrorIs(t, seq.Warning, ErrDegenerateSeed)
	for _, f := range seq.Frames {
		assert.True(t, f.R.Equal(tubular.YAxis), "r = %v", f.R)
	}
	_, err = FrenetFrames(line(2))
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestSolveAll(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	paths := [][]tubular.Vec{helix(40), circle(30), line(5)}
	seqs, err := SolveAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, seqs, len(paths))
	for i, p := range paths {
		assert.Equal(t, MustSolve(p).Frames, seqs[i].Frames, "path %d", i)
	}
	paths[1] = line(2)
	_, err = SolveAll(context.Background(), paths)
	assert.ErrorIs(t, err, ErrInsufficientSamples)
	assert.Contains(t, err.Error(), "path 1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SolveAll(ctx, [][]tubular.Vec{helix(10)})
	assert.ErrorIs(t, err, context.Canceled)
}
