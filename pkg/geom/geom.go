// Package geom provides the 2D vector and transform primitives used by the
// scene and aperture packages.
//
// All coordinates follow the screen convention: x grows to the right, y grows
// downward, and positive rotation angles turn clockwise on screen. Angles at
// package boundaries are always degrees; radians appear only inside function
// bodies where the math library needs them.
package geom

import "math"

// Epsilon is the tolerance below which a length or determinant is treated as
// zero. Segment intersection and degeneracy checks in the aperture package
// rely on this exact value.
const Epsilon = 1e-10

// Vec is a 2D vector or point.
type Vec struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// V is shorthand for constructing a Vec.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Add returns v + w.
func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec { return Vec{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Neg returns v with both components negated.
func (v Vec) Neg() Vec { return Vec{-v.X, -v.Y} }

// Dot returns the dot product of v and w.
func (v Vec) Dot(w Vec) float64 { return v.X*w.X + v.Y*w.Y }

// Length returns the Euclidean length of v.
func (v Vec) Length() float64 { return math.Hypot(v.X, v.Y) }

// Unit returns v normalized to length 1. The zero vector is returned
// unchanged; callers that care must check Length first.
func (v Vec) Unit() Vec {
	l := v.Length()
	if l < Epsilon {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Perp returns v rotated 90 degrees, i.e. the perpendicular vector (-y, x).
// For a unit input the result is a unit vector.
func (v Vec) Perp() Vec { return Vec{-v.Y, v.X} }

// Rotate returns v rotated by the given angle in degrees about the origin,
// screen convention. Exact results are not guaranteed for the cardinal
// angles (90, 180, 270); callers compare with a tolerance.
func Rotate(v Vec, degrees float64) Vec {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Vec{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// ToGlobal maps a point in an element's local frame to world coordinates.
// The point is rotated about the local pivot by rotationDeg and then
// translated so that the pivot lands on position.
//
// ToGlobal is pure and total: any finite rotation, including 0/90/180/270
// and fractional degrees, yields a finite result. For local == pivot the
// result is exactly position.
func ToGlobal(local, pivot Vec, rotationDeg float64, position Vec) Vec {
	return Rotate(local.Sub(pivot), rotationDeg).Add(position)
}
