package geom

import "github.com/chewxy/math32"

// Vec represents a 2D displacement vector.
// Unlike Point which represents a position, Vec represents a direction and
// magnitude. This semantic distinction helps make code clearer when working
// with stroke geometry.
type Vec struct {
	X, Y float32
}

// V is a convenience function to create a Vec.
func V(x, y float32) Vec {
	return Vec{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec) Add(w Vec) Vec {
	return Vec{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec) Sub(w Vec) Vec {
	return Vec{X: v.X - w.X, Y: v.Y - w.Y}
}

// Scale returns the vector scaled by s.
func (v Vec) Scale(s float32) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Neg returns the negated vector.
func (v Vec) Neg() Vec {
	return Vec{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors.
func (v Vec) Dot(w Vec) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the 2D cross product (z-component of the 3D cross).
// Useful for determining the sign of the angle between vectors.
func (v Vec) Cross(w Vec) float32 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of the vector.
func (v Vec) Length() float32 {
	return math32.Hypot(v.X, v.Y)
}

// LengthSquared returns the squared length of the vector.
func (v Vec) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction.
// Returns the zero vector if the length is (near) zero.
func (v Vec) Normalize() Vec {
	length := v.Length()
	if length < 1e-10 {
		return Vec{}
	}
	return Vec{X: v.X / length, Y: v.Y / length}
}

// Perp returns the perpendicular vector (rotated 90 degrees
// counter-clockwise).
func (v Vec) Perp() Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// Angle returns the angle of the vector in radians.
func (v Vec) Angle() float32 {
	return math32.Atan2(v.Y, v.X)
}

// Rotate returns the vector rotated by angle radians counter-clockwise.
func (v Vec) Rotate(angle float32) Vec {
	sin, cos := math32.Sincos(angle)
	return Vec{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// ToPoint converts the vector to a point.
func (v Vec) ToPoint() Point {
	return Point(v)
}

// FromAngle returns the unit vector at the given angle in radians.
func FromAngle(angle float32) Vec {
	sin, cos := math32.Sincos(angle)
	return Vec{X: cos, Y: sin}
}
