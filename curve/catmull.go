package curve

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/npillmayer/tubular"
)

// Kind selects the knot parametrization of a Catmull-Rom spline.
type Kind int8

// Parametrizations of Catmull-Rom splines. Centripetal splines neither form
// cusps nor self-intersections within a segment and are the default.
const (
	Centripetal Kind = iota
	Chordal
	Uniform
)

func (k Kind) String() string {
	switch k {
	case Centripetal:
		return "centripetal"
	case Chordal:
		return "chordal"
	case Uniform:
		return "uniform"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the parametrization for a name as produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "centripetal", "":
		return Centripetal, nil
	case "chordal":
		return Chordal, nil
	case "uniform", "catmullrom":
		return Uniform, nil
	}
	return Centripetal, fmt.Errorf("unknown curve type %q", s)
}

// DefaultTension is the tension of uniform Catmull-Rom splines.
const DefaultTension = 0.5

// ArcLengthDivisions is the number of chords used to approximate arc length.
const ArcLengthDivisions = 200

// CatmullRom is a Catmull-Rom spline interpolating the knots of a path.
// The spline is parametrized over [0,1]; knot i of an open path with N knots
// lies at t = i/(N-1), for cyclic paths at t = i/N.
//
// For open paths the missing outer neighbours of the first and last knots are
// extrapolated by mirroring the second (resp. penultimate) knot.
type CatmullRom struct {
	path    *Path
	kind    Kind
	tension float64
	once    sync.Once
	lengths []float64 // cumulative chord lengths, computed once
}

// Option configures a Catmull-Rom spline.
type Option func(*CatmullRom)

// WithKind sets the parametrization.
func WithKind(k Kind) Option {
	return func(c *CatmullRom) {
		c.kind = k
	}
}

// WithTension sets the tension for Uniform splines.
func WithTension(t float64) Option {
	return func(c *CatmullRom) {
		c.tension = t
	}
}

// NewCatmullRom creates a spline through the knots of path. The path is
// validated first, see Path.Validate.
func NewCatmullRom(path *Path, opts ...Option) (*CatmullRom, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	c := &CatmullRom{path: path, kind: Centripetal, tension: DefaultTension}
	for _, opt := range opts {
		opt(c)
	}
	tracer().Debugf("%s Catmull-Rom spline through %d knots", c.kind, path.N())
	return c, nil
}

// MustCatmullRom is a helper which panics on errors.
func MustCatmullRom(path *Path, opts ...Option) *CatmullRom {
	c, err := NewCatmullRom(path, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Kind returns the parametrization of the spline.
func (c *CatmullRom) Kind() Kind {
	return c.kind
}

// Point returns the point at parameter t ∈ [0,1]. Parameters outside this
// interval are clamped for open paths and wrapped for cyclic ones.
func (c *CatmullRom) Point(t float64) tubular.Vec {
	n := c.path.N()
	segments := n - 1
	if c.path.IsCycle() {
		segments = n
		t -= math.Floor(t)
	} else {
		t = math.Max(0, math.Min(1, t))
	}
	p := float64(segments) * t
	i := int(math.Floor(p))
	w := p - float64(i)
	if i >= segments { // t = 1
		i, w = segments-1, 1
	}
	p0, p1, p2, p3 := c.neighbourhood(i)
	var px, py, pz cubic
	if c.kind == Uniform {
		px = catmullRom(p0.X, p1.X, p2.X, p3.X, c.tension)
		py = catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, c.tension)
		pz = catmullRom(p0.Z, p1.Z, p2.Z, p3.Z, c.tension)
	} else {
		exp := 0.25 // applied to squared distances
		if c.kind == Chordal {
			exp = 0.5
		}
		dt0 := math.Pow(sqdist(p0, p1), exp)
		dt1 := math.Pow(sqdist(p1, p2), exp)
		dt2 := math.Pow(sqdist(p2, p3), exp)
		if dt1 < 1e-4 {
			dt1 = 1.0
		}
		if dt0 < 1e-4 {
			dt0 = dt1
		}
		if dt2 < 1e-4 {
			dt2 = dt1
		}
		px = nonuniformCatmullRom(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2)
		py = nonuniformCatmullRom(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2)
		pz = nonuniformCatmullRom(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2)
	}
	return tubular.V(px.at(w), py.at(w), pz.at(w))
}

// neighbourhood returns the 4 control points of segment i, which spans
// knots i and i+1.
func (c *CatmullRom) neighbourhood(i int) (p0, p1, p2, p3 tubular.Vec) {
	path := c.path
	n := path.N()
	p1, p2 = path.Z(i), path.Z(i+1)
	if path.IsCycle() || i > 0 {
		p0 = path.Z(i - 1)
	} else {
		p0 = path.Z(0).Scaled(2).Sub(path.Z(1))
	}
	if path.IsCycle() || i+2 < n {
		p3 = path.Z(i + 2)
	} else {
		p3 = path.Z(n - 1).Scaled(2).Sub(path.Z(n - 2))
	}
	return
}

// Points returns divisions+1 points, evenly spaced in parameter space,
// including both end points. For cyclic paths the last point repeats the first.
func (c *CatmullRom) Points(divisions int) []tubular.Vec {
	if divisions < 1 {
		divisions = 1
	}
	pts := make([]tubular.Vec, divisions+1)
	for d := 0; d <= divisions; d++ {
		pts[d] = c.Point(float64(d) / float64(divisions))
	}
	return pts
}

// PointAt returns the point at arc length fraction u ∈ [0,1].
func (c *CatmullRom) PointAt(u float64) tubular.Vec {
	return c.Point(c.arcToParam(u))
}

// SpacedPoints returns divisions+1 points, evenly spaced in (approximate) arc
// length, including both end points.
func (c *CatmullRom) SpacedPoints(divisions int) []tubular.Vec {
	if divisions < 1 {
		divisions = 1
	}
	pts := make([]tubular.Vec, divisions+1)
	for d := 0; d <= divisions; d++ {
		pts[d] = c.PointAt(float64(d) / float64(divisions))
	}
	return pts
}

// Length returns the approximate arc length of the spline.
func (c *CatmullRom) Length() float64 {
	l := c.arcLengths()
	return l[len(l)-1]
}

// arcLengths is safe for concurrent use.
func (c *CatmullRom) arcLengths() []float64 {
	c.once.Do(func() {
		lengths := make([]float64, ArcLengthDivisions+1)
		last := c.Point(0)
		sum := 0.0
		for p := 1; p <= ArcLengthDivisions; p++ {
			cur := c.Point(float64(p) / ArcLengthDivisions)
			sum += cur.Distance(last)
			lengths[p] = sum
			last = cur
		}
		c.lengths = lengths
	})
	return c.lengths
}

// arcToParam maps an arc length fraction u to the curve parameter t.
func (c *CatmullRom) arcToParam(u float64) float64 {
	lengths := c.arcLengths()
	il := len(lengths)
	target := math.Max(0, math.Min(1, u)) * lengths[il-1]
	// first index with length ≥ target
	i := sort.SearchFloat64s(lengths, target)
	if i >= il {
		return 1
	}
	if lengths[i] == target || i == 0 {
		return float64(i) / float64(il-1)
	}
	before, after := lengths[i-1], lengths[i]
	fraction := (target - before) / (after - before)
	return (float64(i-1) + fraction) / float64(il-1)
}

// --- Cubic polynomials -----------------------------------------------------

// cubic is c0 + c1⋅t + c2⋅t² + c3⋅t³
type cubic [4]float64

// hermite returns the cubic from x0 to x1 with derivatives t0 and t1.
func hermite(x0, x1, t0, t1 float64) cubic {
	return cubic{x0, t0, -3*x0 + 3*x1 - 2*t0 - t1, 2*x0 - 2*x1 + t0 + t1}
}

func catmullRom(x0, x1, x2, x3, tension float64) cubic {
	return hermite(x1, x2, tension*(x2-x0), tension*(x3-x1))
}

// nonuniformCatmullRom computes the segment between x1 and x2 for knot
// intervals dt0, dt1, dt2, rescaled to parameter range [0,1].
func nonuniformCatmullRom(x0, x1, x2, x3, dt0, dt1, dt2 float64) cubic {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	return hermite(x1, x2, t1*dt1, t2*dt1)
}

func (c cubic) at(t float64) float64 {
	return c[0] + t*(c[1]+t*(c[2]+t*c[3]))
}

func sqdist(a, b tubular.Vec) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
