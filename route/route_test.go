package route

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tubular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScatterWithinLimits(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	limits := tubular.V(200, 100, 50)
	dots := Scatter(NewRand(7), 500, limits)
	require.Len(t, dots, 500)
	for _, d := range dots {
		assert.LessOrEqual(t, math.Abs(d.X), 100.0)
		assert.LessOrEqual(t, math.Abs(d.Y), 50.0)
		assert.LessOrEqual(t, math.Abs(d.Z), 25.0)
	}
}

func TestPickFirst(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	rng := NewRand(3)
	for i := 0; i < 100; i++ {
		f := PickFirst(rng, 10)
		assert.GreaterOrEqual(t, f, 0)
		assert.Less(t, f, 10)
	}
	assert.Equal(t, 0, PickFirst(rng, 1))
}

func TestNearestNeighbour(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	dots := []tubular.Vec{
		tubular.V(10, 0, 0), tubular.V(0, 0, 0), tubular.V(3, 0, 0), tubular.V(1, 0, 0), tubular.V(-3, 0, 0),
	}
	route, err := NearestNeighbour(dots, 1)
	require.NoError(t, err)
	assert.Equal(t, []tubular.Vec{
		tubular.V(0, 0, 0), tubular.V(1, 0, 0), tubular.V(3, 0, 0), tubular.V(-3, 0, 0), tubular.V(10, 0, 0),
	}, route)
	assert.InDelta(t, 1+2+6+13, Length(route), 1e-12)
	// input is not modified
	assert.Equal(t, tubular.V(10, 0, 0), dots[0])
}

func TestNearestNeighbourTies(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	dots := []tubular.Vec{tubular.V(0, 0, 0), tubular.V(0, 1, 0), tubular.V(0, -1, 0)}
	route, err := NearestNeighbour(dots, 0)
	require.NoError(t, err)
	assert.Equal(t, tubular.V(0, 1, 0), route[1])
}

func TestNearestNeighbourErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := NearestNeighbour(nil, 0)
	assert.True(t, errors.Is(err, ErrNoDots))
	_, err = NearestNeighbour([]tubular.Vec{tubular.Zero}, 1)
	assert.Error(t, err)
}

func TestGenerateIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	spec := Spec{Dots: 10, WorkArea: tubular.V(200, 200, 200), Seed: 42}
	r1, err := Generate(spec)
	require.NoError(t, err)
	r2, err := Generate(spec)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.Len(t, r1.Ordered, 10)
	assert.Equal(t, r1.Dots[r1.First], r1.Ordered[0])
	assert.ElementsMatch(t, r1.Dots, r1.Ordered)
}

func TestGenerateErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Generate(Spec{Dots: 0, WorkArea: tubular.V(1, 1, 1)})
	assert.True(t, errors.Is(err, ErrNoDots))
	_, err = Generate(Spec{Dots: 3, WorkArea: tubular.V(1, 0, 1)})
	assert.True(t, errors.Is(err, ErrInvalidLimits))
}
