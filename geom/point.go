// Package geom provides float32 2D points, vectors, and affine transforms
// for stroke geometry. All types are plain values; operations return new
// values and never mutate their receiver.
package geom

import "github.com/chewxy/math32"

// Point represents a 2D position. Whether the coordinates are world or
// screen units is determined by context; the camera package converts
// between the two.
type Point struct {
	X, Y float32
}

// Pt is a convenience function to create a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Vec returns the point as a displacement vector from the origin.
func (p Point) Vec() Vec {
	return Vec(p)
}

// Add returns the point displaced by v.
func (p Point) Add(v Vec) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vec {
	return Vec{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float32 {
	return p.Sub(q).Length()
}

// DistanceSquared returns the squared distance between two points.
func (p Point) DistanceSquared(q Point) float32 {
	return p.Sub(q).LengthSquared()
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q.
func (p Point) Lerp(q Point, t float32) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return p.Lerp(q, 0.5)
}

// ApproxEqual reports whether two points are within eps of each other
// on both axes.
func (p Point) ApproxEqual(q Point, eps float32) bool {
	return math32.Abs(p.X-q.X) <= eps && math32.Abs(p.Y-q.Y) <= eps
}
