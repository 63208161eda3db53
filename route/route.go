// Package route generates random routes through space: a cloud of dots is
// scattered within a work area, and a route visits them greedily, always
// moving on to the nearest dot not yet visited.
package route

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tubular"
)

// tracer writes to trace with key 'route'
func tracer() tracing.Trace {
	return tracing.Select("route")
}

var (
	// ErrNoDots indicates an empty dot cloud.
	ErrNoDots = errors.New("no dots to visit")
	// ErrInvalidLimits indicates a work area with a non-positive extent.
	ErrInvalidLimits = errors.New("work area must have positive extent")
)

// NewRand creates a deterministic random source for a seed. Seed 0 selects
// a time-dependent seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
}

// Scatter places count dots uniformly at random within the axis-aligned box
// of extent limits, centred at the origin.
func Scatter(rng *rand.Rand, count int, limits tubular.Vec) []tubular.Vec {
	dots := make([]tubular.Vec, count)
	for i := range dots {
		dots[i] = tubular.V(
			(rng.Float64()-0.5)*limits.X,
			(rng.Float64()-0.5)*limits.Y,
			(rng.Float64()-0.5)*limits.Z,
		)
	}
	return dots
}

// PickFirst selects a random starting index for count dots.
func PickFirst(rng *rand.Rand, count int) int {
	if count <= 1 {
		return 0
	}
	return int(math.Round(rng.Float64() * float64(count-1)))
}

// NearestNeighbour orders dots into a route starting at dots[first]. Each
// step moves on to the nearest unvisited dot; ties go to the dot listed first.
func NearestNeighbour(dots []tubular.Vec, first int) ([]tubular.Vec, error) {
	if len(dots) == 0 {
		return nil, ErrNoDots
	}
	if first < 0 || first >= len(dots) {
		return nil, fmt.Errorf("first dot %d out of range [0…%d]", first, len(dots)-1)
	}
	rest := make([]tubular.Vec, 0, len(dots)-1)
	rest = append(rest, dots[:first]...)
	rest = append(rest, dots[first+1:]...)
	route := make([]tubular.Vec, 1, len(dots))
	route[0] = dots[first]
	for len(rest) > 0 {
		current := route[len(route)-1]
		nearest, dist := -1, math.Inf(1)
		for j, d := range rest {
			if cd := d.Distance(current); cd < dist {
				nearest, dist = j, cd
			}
		}
		route = append(route, rest[nearest])
		rest = append(rest[:nearest], rest[nearest+1:]...)
	}
	return route, nil
}

// Length returns the length of the polyline through a route.
func Length(route []tubular.Vec) float64 {
	l := 0.0
	for i := 1; i < len(route); i++ {
		l += route[i].Distance(route[i-1])
	}
	return l
}

// Spec describes a route to generate.
type Spec struct {
	Dots     int         // number of dots
	WorkArea tubular.Vec // extent of the work area
	Seed     uint64      // random seed, 0 for time-dependent
}

// Route is a generated route.
type Route struct {
	Dots    []tubular.Vec // dots in order of creation
	First   int           // index of the starting dot within Dots
	Ordered []tubular.Vec // dots in order of visit
}

// Generate scatters dots, picks a starting dot and orders the dots into a
// nearest-neighbour route.
func Generate(spec Spec) (*Route, error) {
	if spec.Dots < 1 {
		return nil, ErrNoDots
	}
	if spec.WorkArea.X <= 0 || spec.WorkArea.Y <= 0 || spec.WorkArea.Z <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLimits, spec.WorkArea)
	}
	rng := NewRand(spec.Seed)
	r := &Route{Dots: Scatter(rng, spec.Dots, spec.WorkArea)}
	r.First = PickFirst(rng, spec.Dots)
	ordered, err := NearestNeighbour(r.Dots, r.First)
	if err != nil {
		return nil, err
	}
	r.Ordered = ordered
	tracer().Debugf("route through %d dots starting at %v, length %.2f", len(ordered), ordered[0], Length(ordered))
	return r, nil
}
