/*
Package polygon deals with closed planar polygons, as they result from
projecting corridor meshes onto the ground plane.

Polygons are built like paths, with a builder pattern:

	pg := NullPolygon().Knot(tubular.P(0,0)).Knot(tubular.P(1,3)).Knot(tubular.P(3,0)).Cycle()

Set operations are delegated to github.com/akavel/polyclip-go, an
implementation of the Martinez-Rueda clipping algorithm.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"math"
	"sort"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tubular"
)

// L traces to the polygon tracer.
func L() tracing.Trace {
	return tracing.Select("polygon")
}

// Polygon is a closed planar polygon.
type Polygon struct {
	knots  []tubular.Pair
	closed bool
}

// NullPolygon creates an empty polygon, to be extended by subsequent builder calls.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot adds a corner to a polygon. Part of builder functionality.
func (pg *Polygon) Knot(p tubular.Pair) *Polygon {
	pg.knots = append(pg.knots, p)
	return pg
}

// Cycle closes a polygon. Part of builder functionality.
func (pg *Polygon) Cycle() *Polygon {
	pg.closed = true
	return pg
}

// Box creates a rectangular polygon from two opposite corners, in
// counter-clockwise order.
func Box(p, q tubular.Pair) *Polygon {
	x0, x1 := math.Min(p.X(), q.X()), math.Max(p.X(), q.X())
	y0, y1 := math.Min(p.Y(), q.Y()), math.Max(p.Y(), q.Y())
	return NullPolygon().Knot(tubular.P(x0, y0)).Knot(tubular.P(x1, y0)).
		Knot(tubular.P(x1, y1)).Knot(tubular.P(x0, y1)).Cycle()
}

// N returns the number of corners of a polygon.
func (pg *Polygon) N() int {
	if pg == nil {
		return 0
	}
	return len(pg.knots)
}

// Z returns corner i, modulo N.
func (pg *Polygon) Z(i int) tubular.Pair {
	n := len(pg.knots)
	return pg.knots[((i%n)+n)%n]
}

// SignedArea returns the area of a polygon, positive for counter-clockwise
// orientation.
func (pg *Polygon) SignedArea() float64 {
	a := 0.0
	for i := 0; i < pg.N(); i++ {
		p, q := pg.Z(i), pg.Z(i+1)
		a += p.X()*q.Y() - q.X()*p.Y()
	}
	return a / 2
}

// Area returns the (unsigned) area of a polygon.
func (pg *Polygon) Area() float64 {
	return math.Abs(pg.SignedArea())
}

// AsString returns a polygon as a (debugging) string.
func AsString(pg *Polygon) string {
	var b strings.Builder
	for i, p := range pg.knots {
		if i > 0 {
			b.WriteString(" -- ")
		}
		b.WriteString(p.String())
	}
	if pg.closed {
		b.WriteString(" -- cycle")
	}
	return b.String()
}

// Hull returns the convex hull of a set of points, in counter-clockwise order
// (Andrew's monotone chain). Collinear points on the hull are dropped.
func Hull(points []tubular.Pair) *Polygon {
	pts := make([]tubular.Pair, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X() != pts[j].X() {
			return pts[i].X() < pts[j].X()
		}
		return pts[i].Y() < pts[j].Y()
	})
	if len(pts) < 3 {
		pg := NullPolygon()
		for _, p := range pts {
			pg.Knot(p)
		}
		return pg.Cycle()
	}
	turn := func(o, a, b tubular.Pair) float64 {
		return (a.X()-o.X())*(b.Y()-o.Y()) - (a.Y()-o.Y())*(b.X()-o.X())
	}
	hull := make([]tubular.Pair, 0, 2*len(pts))
	for _, p := range pts { // lower hull
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- { // upper hull
		p := pts[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return &Polygon{knots: hull[:len(hull)-1], closed: true}
}

// --- Set operations --------------------------------------------------------

// Region is the result of set operations on polygons. It consists of
// outer boundaries and holes, in no particular order.
type Region struct {
	contours []*Polygon
}

// Contours returns the boundary polygons of a region, holes included.
func (r *Region) Contours() []*Polygon {
	return r.contours
}

// Union computes the union of polygons.
func Union(polys ...*Polygon) *Region {
	var acc polyclip.Polygon
	for _, pg := range polys {
		if pg.N() < 3 {
			continue
		}
		clip := polyclip.Polygon{toContour(pg)}
		if acc == nil {
			acc = clip
			continue
		}
		acc = acc.Construct(polyclip.UNION, clip)
	}
	r := &Region{}
	for _, c := range acc {
		pg := NullPolygon()
		for _, p := range c {
			pg.Knot(tubular.P(p.X, p.Y))
		}
		r.contours = append(r.contours, pg.Cycle())
	}
	L().Debugf("union of %d polygons has %d contours", len(polys), len(r.contours))
	return r
}

// Area returns the area of a region. A contour nested within an odd number
// of other contours is a hole and its area is subtracted.
func (r *Region) Area() float64 {
	a := 0.0
	for i, c := range r.contours {
		depth := 0
		corner := polyclip.Point{X: c.Z(0).X(), Y: c.Z(0).Y()}
		for j, other := range r.contours {
			if i != j && toContour(other).Contains(corner) {
				depth++
			}
		}
		if depth%2 == 1 {
			a -= c.Area()
		} else {
			a += c.Area()
		}
	}
	return a
}

func toContour(pg *Polygon) polyclip.Contour {
	c := make(polyclip.Contour, 0, pg.N())
	for _, p := range pg.knots {
		c = append(c, polyclip.Point{X: p.X(), Y: p.Y()})
	}
	return c
}
