// Package stl reads and writes triangle meshes in STL format, ASCII as well
// as binary. Binary files may carry a colour per triangle in the attribute
// bytes, using the 15-bit RGB convention with a valid bit.
package stl

import (
	"fmt"
	"math"

	"github.com/npillmayer/tubular"
)

// Triangle is a facet of a model. Normal may be zero, in which case it is
// derived from the vertices' winding. Attr holds the attribute bytes of
// binary STL.
type Triangle struct {
	Normal     tubular.Vec
	V1, V2, V3 tubular.Vec
	Attr       uint16
}

// FacetNormal returns the unit normal of a triangle as given by its
// counter-clockwise winding.
func (t Triangle) FacetNormal() tubular.Vec {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Normalized()
}

// Area returns the area of a triangle.
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Length() / 2
}

// Model represents a complete STL model.
type Model struct {
	Name      string
	Triangles []Triangle
}

// NewModel creates a new STL model.
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model.
func (m *Model) AddTriangle(triangle Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model.
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min, Max tubular.Vec
}

// NewBoundingBox creates an empty bounding box, to be extended.
func NewBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: tubular.V(inf, inf, inf),
		Max: tubular.V(-inf, -inf, -inf),
	}
}

// Extend enlarges the box to include v.
func (b *BoundingBox) Extend(v tubular.Vec) {
	b.Min = tubular.V(math.Min(b.Min.X, v.X), math.Min(b.Min.Y, v.Y), math.Min(b.Min.Z, v.Z))
	b.Max = tubular.V(math.Max(b.Max.X, v.X), math.Max(b.Max.Y, v.Y), math.Max(b.Max.Z, v.Z))
}

// IsEmpty is a predicate: does the box contain no points?
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X
}

// Size returns the extent of the box along each axis.
func (b BoundingBox) Size() tubular.Vec {
	if b.IsEmpty() {
		return tubular.Zero
	}
	return b.Max.Sub(b.Min)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%v … %v]", b.Min, b.Max)
}

// BoundingBox calculates the bounding box of the entire model.
func (m *Model) BoundingBox() BoundingBox {
	bbox := NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the model.
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// --- Colours ---------------------------------------------------------------

// RGB is a 24-bit colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// validColour marks attribute bytes as carrying a colour.
const validColour = 1 << 15

// ColourAttr packs a colour into attribute bytes, 5 bits per channel,
// blue in the low bits.
func ColourAttr(c RGB) uint16 {
	return validColour | uint16(c.R>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.B>>3)
}

// AttrColour unpacks a colour from attribute bytes. It returns false if the
// valid bit is not set.
func AttrColour(attr uint16) (RGB, bool) {
	if attr&validColour == 0 {
		return RGB{}, false
	}
	expand := func(v uint16) uint8 {
		v &= 0x1f
		return uint8(v<<3 | v>>2)
	}
	return RGB{R: expand(attr >> 10), G: expand(attr >> 5), B: expand(attr)}, true
}
