// Package stroke extrudes modeled input points into renderable stroke
// outlines: two-sided borders with rounded turn fans and caps,
// incrementally simplified and partitioned into segments that can be
// re-tessellated at constant per-frame cost.
package stroke

import (
	"image/color"

	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/model"
)

// RGBA represents a vertex color with components in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Vertex is one generated outline point. Vertices are owned exclusively
// by the outline that created them.
type Vertex struct {
	// Pos is the vertex position in screen pixels.
	Pos geom.Point
	// World is the same position in world units.
	World geom.Point
	// Color is the stroke color at the vertex.
	Color RGBA
	// Time, Radius, and Pressure record the modeled point the vertex
	// was generated from.
	Time     float64
	Radius   float32
	Pressure float32
}

// MidPoint is one point of the outline's center trace, kept alongside
// the borders for simplification, splitting, and hit testing.
type MidPoint struct {
	Screen geom.Point
	World  geom.Point
	Tip    model.TipSizeScreen
	Time   float64
	Stylus model.StylusState
}
