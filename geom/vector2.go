// Package geom provides the 2D vector, transform, and convex-shape
// primitives the collision and constraint pipeline is built on.
//
// Every concrete shape implements the single Shape interface, and the hot
// GJK/EPA inner loop only ever calls Support, never type-switches on
// concrete geometry. Each support query is a dynamic call through that
// interface; ShapeType tags the concrete kind.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector2 is a 2D vector. It is an alias for mgl64.Vec2 so the full
// mgl64 vector API (Add, Sub, Mul, Dot, Len, LenSqr, Normalize, ApproxEqual...)
// is available directly; the free functions below add the handful of
// 2D-specific operations mgl64 does not provide.
type Vector2 = mgl64.Vec2

// Cross returns the 2D (scalar) cross product a.x*b.y - a.y*b.x.
// Its sign gives the winding of (a, b): positive is counter-clockwise.
func Cross(a, b Vector2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// CrossVS returns the cross product of a vector and a scalar, v × s,
// used to apply an angular velocity s to a lever arm v.
func CrossVS(v Vector2, s float64) Vector2 {
	return Vector2{s * v.Y(), -s * v.X()}
}

// CrossSV returns the cross product of a scalar and a vector, s × v.
func CrossSV(s float64, v Vector2) Vector2 {
	return Vector2{-s * v.Y(), s * v.X()}
}

// Perp returns v rotated 90° counter-clockwise.
func Perp(v Vector2) Vector2 {
	return Vector2{-v.Y(), v.X()}
}

// RightPerp returns v rotated 90° clockwise.
func RightPerp(v Vector2) Vector2 {
	return Vector2{v.Y(), -v.X()}
}

// SafeNormalize normalizes v, returning the zero vector instead of NaN
// when v is (near) zero length. Domain degeneracies like this are
// handled silently per the error taxonomy: no contact is preferable to
// a NaN propagating through the solver.
func SafeNormalize(v Vector2) Vector2 {
	lenSqr := v.LenSqr()
	if lenSqr < 1e-18 {
		return Vector2{}
	}
	return v.Mul(1.0 / math.Sqrt(lenSqr))
}
