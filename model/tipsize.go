package model

import (
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
)

// TipSizeWorld is the (major, minor) tip radius at a point, in world
// units. Radii are never negative.
type TipSizeWorld struct {
	Radius      float32
	RadiusMinor float32
}

// ToScreen converts the tip size to screen pixels through the camera.
func (t TipSizeWorld) ToScreen(cam *camera.Camera) TipSizeScreen {
	return TipSizeScreen{
		Radius:      cam.ConvertDistance(t.Radius, camera.UnitWorld, camera.UnitScreenPixels),
		RadiusMinor: cam.ConvertDistance(t.RadiusMinor, camera.UnitWorld, camera.UnitScreenPixels),
	}
}

// Lerp interpolates both radii.
func (t TipSizeWorld) Lerp(o TipSizeWorld, f float32) TipSizeWorld {
	return TipSizeWorld{
		Radius:      t.Radius + (o.Radius-t.Radius)*f,
		RadiusMinor: t.RadiusMinor + (o.RadiusMinor-t.RadiusMinor)*f,
	}
}

// TipSizeScreen is the (major, minor) tip radius in screen pixels.
type TipSizeScreen struct {
	Radius      float32
	RadiusMinor float32
}

// ToWorld converts the tip size to world units through the camera.
func (t TipSizeScreen) ToWorld(cam *camera.Camera) TipSizeWorld {
	return TipSizeWorld{
		Radius:      cam.ConvertDistance(t.Radius, camera.UnitScreenPixels, camera.UnitWorld),
		RadiusMinor: cam.ConvertDistance(t.RadiusMinor, camera.UnitScreenPixels, camera.UnitWorld),
	}
}

// ModeledInput is one physics-smoothed point. Values are immutable once
// emitted by the Modeler: a modeled point is never revised, and
// successive points have non-decreasing Time.
type ModeledInput struct {
	// Pos is the smoothed position in world units.
	Pos geom.Point
	// Time is seconds on the same clock as the raw samples.
	Time float64
	// Tip is the tip size at this point, in world units.
	Tip TipSizeWorld
	// Stylus is the attribute snapshot recorded near this point.
	Stylus StylusState
}
