/*
Package corridor sweeps a rectangular profile along a sampled space curve,
oriented by a frame per sample, and builds a closed-sided triangle mesh.

Each pair of consecutive samples i, i+1 spans a segment of eight triangles,
two for each of the faces top, bottom, right and left. Faces carry a colour
from a palette of four.

	seq, _ := rmf.Solve(samples)
	mesh, _ := corridor.Build(samples, seq.Frames, corridor.DefaultProfile(), corridor.DefaultPalette())
	model := mesh.Model("corridor")

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package corridor

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tubular"
	"github.com/npillmayer/tubular/polygon"
	"github.com/npillmayer/tubular/rmf"
	"github.com/npillmayer/tubular/stl"
)

// tracer writes to trace with key 'corridor'
func tracer() tracing.Trace {
	return tracing.Select("corridor")
}

var (
	// ErrTooFewSamples indicates a path which does not span a single segment.
	ErrTooFewSamples = errors.New("corridor needs at least 2 samples")
	// ErrFrameMismatch indicates that samples and frames are not index-aligned.
	ErrFrameMismatch = errors.New("number of frames does not match number of samples")
	// ErrInvalidProfile indicates a profile with non-positive extent.
	ErrInvalidProfile = errors.New("profile must have positive width and height")
)

// Profile is the rectangular cross section of a corridor. Width extends
// along a frame's reference normal R, height along its side vector S.
type Profile struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultProfile returns a profile of 6 × 2.5.
func DefaultProfile() Profile {
	return Profile{Width: 6, Height: 2.5}
}

// Validate checks a profile for positive extent.
func (p Profile) Validate() error {
	if !(p.Width > 0) || !(p.Height > 0) {
		return fmt.Errorf("%w: %g × %g", ErrInvalidProfile, p.Width, p.Height)
	}
	return nil
}

// Face identifies a side of a corridor segment.
type Face int8

// Faces of a corridor segment, in the order they are emitted.
const (
	Top Face = iota
	Bottom
	Right
	Left
)

func (f Face) String() string {
	switch f {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Right:
		return "right"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Face(%d)", int(f))
}

// Palette holds four colours. Faces are coloured
// top: [1], bottom: [2], right: [3], left: [0].
type Palette [4]stl.RGB

// DefaultPalette returns the corridor's standard colours.
func DefaultPalette() Palette {
	return Palette{
		{R: 215, G: 38, B: 49},
		{R: 162, G: 213, B: 198},
		{R: 7, G: 123, B: 138},
		{R: 92, G: 60, B: 146},
	}
}

// Colour returns the colour of a face.
func (p Palette) Colour(f Face) stl.RGB {
	switch f {
	case Top:
		return p[1]
	case Bottom:
		return p[2]
	case Right:
		return p[3]
	}
	return p[0]
}

// CrossSection returns the four corners of a profile placed at point p with
// frame f, in order (+w,+h), (−w,+h), (−w,−h), (+w,−h) with respect to the
// frame's R and S axes.
func CrossSection(p tubular.Vec, f rmf.Frame, prof Profile) [4]tubular.Vec {
	at := tubular.Basis(f.R, f.S, f.T, p)
	w, h := prof.Width/2, prof.Height/2
	return [4]tubular.Vec{
		at.Transform(tubular.V(w, h, 0)),
		at.Transform(tubular.V(-w, h, 0)),
		at.Transform(tubular.V(-w, -h, 0)),
		at.Transform(tubular.V(w, -h, 0)),
	}
}

// Triangle is a triangle of a corridor mesh, tagged with its face.
type Triangle struct {
	A, B, C tubular.Vec
	Face    Face
	Segment int
}

// Mesh is a corridor mesh. Triangles are ordered by segment, then by face,
// and wound counter-clockwise when seen from outside the corridor.
type Mesh struct {
	Sections  [][4]tubular.Vec // cross section per sample
	Triangles []Triangle
	Palette   Palette
}

// TrianglesPerSegment is the number of triangles emitted per segment.
const TrianglesPerSegment = 8

// Build sweeps a profile along samples, oriented by frames, which must be
// index-aligned with samples.
func Build(samples []tubular.Vec, frames []rmf.Frame, prof Profile, pal Palette) (*Mesh, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewSamples, len(samples))
	}
	if len(frames) != len(samples) {
		return nil, fmt.Errorf("%w: %d frames for %d samples", ErrFrameMismatch, len(frames), len(samples))
	}
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	m := &Mesh{
		Sections:  make([][4]tubular.Vec, len(samples)),
		Triangles: make([]Triangle, 0, TrianglesPerSegment*(len(samples)-1)),
		Palette:   pal,
	}
	for i, p := range samples {
		m.Sections[i] = CrossSection(p, frames[i], prof)
	}
	for i := 0; i+1 < len(samples); i++ {
		m.addSegment(i)
	}
	tracer().Debugf("corridor mesh: %d segments, %d triangles", m.Segments(), len(m.Triangles))
	return m, nil
}

// BuildSequence is Build for the result of a frame computation.
func BuildSequence(samples []tubular.Vec, seq *rmf.Sequence, prof Profile, pal Palette) (*Mesh, error) {
	if seq == nil {
		return nil, fmt.Errorf("%w: no frames", ErrFrameMismatch)
	}
	return Build(samples, seq.Frames, prof, pal)
}

func (m *Mesh) addSegment(i int) {
	c, n := m.Sections[i], m.Sections[i+1]
	// triangles (c[a], n[a], n[b]) and (c[a], n[b], c[b]), flipped where
	// necessary to face outwards
	quad := func(f Face, a, b int, flip bool) {
		t1 := Triangle{A: c[a], B: n[a], C: n[b], Face: f, Segment: i}
		t2 := Triangle{A: c[a], B: n[b], C: c[b], Face: f, Segment: i}
		if flip {
			t1.B, t1.C = t1.C, t1.B
			t2.B, t2.C = t2.C, t2.B
		}
		m.Triangles = append(m.Triangles, t1, t2)
	}
	quad(Top, 0, 1, true)
	quad(Bottom, 3, 2, false)
	quad(Right, 1, 2, true)
	quad(Left, 3, 0, true)
}

// Segments returns the number of segments of a mesh.
func (m *Mesh) Segments() int {
	return len(m.Triangles) / TrianglesPerSegment
}

// Buffers returns flat vertex position and colour arrays, 3 components per
// vertex and 24 vertices per segment, ready for upload to a GPU. Colour
// components are scaled to [0,1].
func (m *Mesh) Buffers() (positions, colours []float32) {
	positions = make([]float32, 0, 9*len(m.Triangles))
	colours = make([]float32, 0, 9*len(m.Triangles))
	for _, t := range m.Triangles {
		c := m.Palette.Colour(t.Face)
		for _, v := range [3]tubular.Vec{t.A, t.B, t.C} {
			positions = append(positions, float32(v.X), float32(v.Y), float32(v.Z))
			colours = append(colours, float32(c.R)/255, float32(c.G)/255, float32(c.B)/255)
		}
	}
	return
}

// Model converts a mesh to an STL model, with face colours stored in the
// triangles' attribute bytes.
func (m *Mesh) Model(name string) *stl.Model {
	model := stl.NewModel(name)
	for _, t := range m.Triangles {
		model.AddTriangle(stl.Triangle{
			V1:   t.A,
			V2:   t.B,
			V3:   t.C,
			Attr: stl.ColourAttr(m.Palette.Colour(t.Face)),
		})
	}
	return model
}

// Footprint returns the region covered by a corridor when projected onto the
// XY plane. Each segment contributes the convex hull of its eight corners.
func (m *Mesh) Footprint() *polygon.Region {
	hulls := make([]*polygon.Polygon, 0, len(m.Sections))
	for i := 0; i+1 < len(m.Sections); i++ {
		corners := make([]tubular.Pair, 0, 8)
		for _, s := range [2][4]tubular.Vec{m.Sections[i], m.Sections[i+1]} {
			for _, v := range s {
				corners = append(corners, v.XY())
			}
		}
		hulls = append(hulls, polygon.Hull(corners))
	}
	return polygon.Union(hulls...)
}
