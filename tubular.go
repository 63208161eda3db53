/*
Package tubular implements 3D points and vectors, affine transformations
and numeric helpers for sweeping profiles along space curves.

Sub-packages build on it: package rmf computes rotation-minimizing frames
along sampled curves, package corridor sweeps a rectangular profile along
these frames.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package tubular

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'tubular'
func tracer() tracing.Trace {
	return tracing.Select("tubular")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// === Vector Data Type ======================================================

// Vec is a point or a direction in 3D space. Points and vectors share
// one representation; whether a Vec denotes a location or a displacement
// is up to the client.
type Vec r3.Vec

// Zero is the null vector and the origin of world space.
var Zero = V(0, 0, 0)

// Unit vectors of world space.
var (
	XAxis = V(1, 0, 0)
	YAxis = V(0, 1, 0)
	ZAxis = V(0, 0, 1)
)

// V is a quick notation for constructing a vector from floats.
func V(x, y, z float64) Vec {
	return Vec{X: x, Y: y, Z: z}
}

// R3 returns v as a gonum vector.
func (v Vec) R3() r3.Vec {
	return r3.Vec(v)
}

// Pretty Stringer for vectors.
func (v Vec) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

// Add returns v + w.
func (v Vec) Add(w Vec) Vec {
	return Vec(r3.Add(r3.Vec(v), r3.Vec(w)))
}

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec {
	return Vec(r3.Sub(r3.Vec(v), r3.Vec(w)))
}

// Scaled returns v scaled by factor a.
func (v Vec) Scaled(a float64) Vec {
	return Vec(r3.Scale(a, r3.Vec(v)))
}

// Dot returns the dot product v·w.
func (v Vec) Dot(w Vec) float64 {
	return r3.Dot(r3.Vec(v), r3.Vec(w))
}

// Cross returns the cross product v × w.
func (v Vec) Cross(w Vec) Vec {
	return Vec(r3.Cross(r3.Vec(v), r3.Vec(w)))
}

// Length is the euclidean norm of v.
func (v Vec) Length() float64 {
	return r3.Norm(r3.Vec(v))
}

// Distance returns the distance between points v and w.
func (v Vec) Distance(w Vec) float64 {
	return v.Sub(w).Length()
}

// Normalized returns a unit vector in the direction of v.
// The zero vector is returned unchanged, never as NaN.
func (v Vec) Normalized() Vec {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return v.Scaled(1 / l)
}

// IsZero is a predicate: is |v| = 0 ?
func (v Vec) IsZero() bool {
	return Is0(v.Length())
}

// IsFinite is a predicate: are all coordinates of v neither NaN nor ±Inf ?
func (v Vec) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Equal compares two vectors coordinate-wise, up to ε.
func (v Vec) Equal(w Vec) bool {
	return Is0(v.X-w.X) && Is0(v.Y-w.Y) && Is0(v.Z-w.Z)
}

// Zap rounds coordinates which "mean" to be zero.
func (v Vec) Zap() Vec {
	return V(Zap(v.X), Zap(v.Y), Zap(v.Z))
}

// Angle returns the unsigned angle between v and w in radians.
// If one of them is the zero vector, Angle returns 0.
func (v Vec) Angle(w Vec) float64 {
	lv, lw := v.Length(), w.Length()
	if lv == 0 || lw == 0 {
		return 0
	}
	// atan2 of |v×w| and v·w is stable for nearly parallel vectors, where
	// acos loses all precision.
	return math.Atan2(v.Cross(w).Length(), v.Dot(w))
}

// === Pair Data Type ========================================================

// Pair is a 2D-point, used for planar projections.
type Pair complex128

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// C2P returns a Pair from a complex number.
func C2P(c complex128) Pair {
	if cmplx.IsNaN(c) || cmplx.IsInf(c) {
		tracer().Errorf("created pair for complex.NaN")
		return P(0, 0)
	}
	return P(real(c), imag(c))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// Equal compares two pairs.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// XY projects v onto the ground plane.
func (v Vec) XY() Pair {
	return P(v.X, v.Y)
}

// === Affine Transformations ================================================

// AT is an affine transform in 3D, a homogeneous 4x4 matrix flattened by rows.
type AT []float64

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	return make([]float64, 16)
}

func (m AT) get(row, col int) float64 {
	return m[row*4+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*4+col] = value
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	for i := 0; i < 4; i++ {
		m.set(i, i, 1.0)
	}
	return m
}

// Translation transform. Translate a point by v.
func Translation(v Vec) AT {
	m := Identity()
	m.set(0, 3, v.X)
	m.set(1, 3, v.Y)
	m.set(2, 3, v.Z)
	return m
}

// Rotation transform. Rotate a point counter-clockwise around axis, which
// need not be normalized. Argument theta is in radians.
//
// The matrix is the one of Rodrigues' rotation formula.
func Rotation(axis Vec, theta float64) AT {
	k := axis.Normalized()
	if k == Zero {
		tracer().Errorf("rotation around zero axis, using identity")
		return Identity()
	}
	c, s := math.Cos(theta), math.Sin(theta)
	t := 1 - c
	m := newAT()
	m.set(0, 0, c+k.X*k.X*t)
	m.set(0, 1, k.X*k.Y*t-k.Z*s)
	m.set(0, 2, k.X*k.Z*t+k.Y*s)
	m.set(1, 0, k.Y*k.X*t+k.Z*s)
	m.set(1, 1, c+k.Y*k.Y*t)
	m.set(1, 2, k.Y*k.Z*t-k.X*s)
	m.set(2, 0, k.Z*k.X*t-k.Y*s)
	m.set(2, 1, k.Z*k.Y*t+k.X*s)
	m.set(2, 2, c+k.Z*k.Z*t)
	m.set(3, 3, 1.0)
	return m
}

// Basis creates a transform from a local coordinate system into world
// space. Local unit vectors (1,0,0), (0,1,0), (0,0,1) map onto x, y and z,
// the local origin maps onto origin.
func Basis(x, y, z, origin Vec) AT {
	m := newAT()
	for row, c := range [3][4]float64{
		{x.X, y.X, z.X, origin.X},
		{x.Y, y.Y, z.Y, origin.Y},
		{x.Z, y.Z, z.Z, origin.Z},
	} {
		for col := 0; col < 4; col++ {
			m.set(row, col, c[col])
		}
	}
	m.set(3, 3, 1.0)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g|%g,%g,%g,%g|%g,%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8], m[9], m[10], m[11])
}

// Combine 2 affine transformation to a new one: first m, then n. Returns
// a new transformation without changing the argument(s).
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += n.get(row, k) * m.get(k, col)
			}
			o.set(row, col, sum)
		}
	}
	return o
}

func (m AT) multiply(x, y, z, w float64) Vec {
	return V(
		m.get(0, 0)*x+m.get(0, 1)*y+m.get(0, 2)*z+m.get(0, 3)*w,
		m.get(1, 0)*x+m.get(1, 1)*y+m.get(1, 2)*z+m.get(1, 3)*w,
		m.get(2, 0)*x+m.get(2, 1)*y+m.get(2, 2)*z+m.get(2, 3)*w,
	)
}

// Transform a 3D-point. The argument is unchanged and a new vector is returned.
func (m AT) Transform(v Vec) Vec {
	return m.multiply(v.X, v.Y, v.Z, 1)
}

// TransformDir transforms a direction, i.e. ignores translation.
func (m AT) TransformDir(v Vec) Vec {
	return m.multiply(v.X, v.Y, v.Z, 0)
}
