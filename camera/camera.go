// Package camera implements the coordinate-conversion contract between
// world space, screen space, and physical units.
//
// A Camera holds the affine world-to-screen transform plus the physical
// properties of the display (pixels per inch, device pixel ratio). Every
// component that needs to move a position, vector, or scalar distance
// between coordinate spaces goes through a Camera; nothing else in the
// library does matrix algebra of its own.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/strokelab/ink/geom"
)

// CoordType identifies a coordinate space for position and vector
// conversion.
type CoordType int

const (
	// CoordWorld is the document coordinate space strokes are stored in.
	CoordWorld CoordType = iota
	// CoordScreen is the physical-pixel space input arrives in.
	CoordScreen
)

// DistanceUnit identifies a unit for scalar distance conversion.
type DistanceUnit int

const (
	// UnitWorld is a distance in world units.
	UnitWorld DistanceUnit = iota
	// UnitScreenPixels is a distance in physical screen pixels.
	UnitScreenPixels
	// UnitCentimeters is a physical on-screen distance.
	UnitCentimeters
	// UnitDP is a distance in device-independent pixels. Conversion
	// through dp rounds the intermediate pixel value, so dp conversions
	// do not round-trip; callers must not assume stability.
	UnitDP
)

const cmPerInch = 2.54

// Camera converts positions, vectors, and distances between coordinate
// spaces. The zero value is not usable; construct with New.
type Camera struct {
	worldToScreen geom.Matrix
	screenToWorld geom.Matrix
	ppi           float32 // physical screen pixels per inch
	dpScale       float32 // physical screen pixels per device-independent pixel
}

// Option configures a Camera during creation.
type Option func(*Camera)

// WithWorldToScreen sets the affine world-to-screen transform.
func WithWorldToScreen(m geom.Matrix) Option {
	return func(c *Camera) {
		c.worldToScreen = m
	}
}

// WithPPI sets the physical pixel density of the display.
func WithPPI(ppi float32) Option {
	return func(c *Camera) {
		if ppi > 0 {
			c.ppi = ppi
		}
	}
}

// WithDPScale sets the number of physical pixels per device-independent
// pixel (1 on standard displays, 2 or 3 on high-density ones).
func WithDPScale(scale float32) Option {
	return func(c *Camera) {
		if scale > 0 {
			c.dpScale = scale
		}
	}
}

// New creates a Camera. With no options it maps world units 1:1 onto
// screen pixels on a 96 ppi display.
func New(opts ...Option) *Camera {
	c := &Camera{
		worldToScreen: geom.Identity(),
		ppi:           96,
		dpScale:       1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.screenToWorld = c.worldToScreen.Invert()
	return c
}

// SetWorldToScreen replaces the world-to-screen transform, e.g. after a
// pan or zoom.
func (c *Camera) SetWorldToScreen(m geom.Matrix) {
	c.worldToScreen = m
	c.screenToWorld = m.Invert()
}

// WorldToScreen returns the current world-to-screen transform.
func (c *Camera) WorldToScreen() geom.Matrix {
	return c.worldToScreen
}

// PPI returns the physical pixel density of the display.
func (c *Camera) PPI() float32 {
	return c.ppi
}

// ConvertPosition converts a position between coordinate spaces.
func (c *Camera) ConvertPosition(p geom.Point, from, to CoordType) geom.Point {
	if from == to {
		return p
	}
	if from == CoordWorld {
		return c.worldToScreen.TransformPoint(p)
	}
	return c.screenToWorld.TransformPoint(p)
}

// ConvertVector converts a displacement vector between coordinate
// spaces. Translation does not apply to vectors.
func (c *Camera) ConvertVector(v geom.Vec, from, to CoordType) geom.Vec {
	if from == to {
		return v
	}
	if from == CoordWorld {
		return c.worldToScreen.TransformVec(v)
	}
	return c.screenToWorld.TransformVec(v)
}

// ConvertDistance converts a scalar distance between units. All
// conversions route through screen pixels; if either endpoint is dp the
// intermediate pixel value is rounded, which makes dp conversion lossy.
func (c *Camera) ConvertDistance(d float32, from, to DistanceUnit) float32 {
	if from == to {
		return d
	}
	px := c.toPixels(d, from)
	if from == UnitDP || to == UnitDP {
		px = math32.Round(px)
	}
	return c.fromPixels(px, to)
}

// ScaleFactor returns the number of screen pixels per world unit.
func (c *Camera) ScaleFactor() float32 {
	return c.worldToScreen.ScaleFactor()
}

func (c *Camera) toPixels(d float32, from DistanceUnit) float32 {
	switch from {
	case UnitWorld:
		return d * c.ScaleFactor()
	case UnitCentimeters:
		return d * c.ppi / cmPerInch
	case UnitDP:
		return d * c.dpScale
	default:
		return d
	}
}

func (c *Camera) fromPixels(px float32, to DistanceUnit) float32 {
	switch to {
	case UnitWorld:
		return px / c.ScaleFactor()
	case UnitCentimeters:
		return px * cmPerInch / c.ppi
	case UnitDP:
		return px / c.dpScale
	default:
		return px
	}
}
