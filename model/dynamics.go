package model

import (
	"github.com/chewxy/math32"

	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/input"
)

// Tuning constants for the discrete tip simulation. These are not per
// brush: they shape how the estimators react, not how the brush looks.
const (
	// minTickDT and maxTickDT bound the integrator timestep. The upper
	// bound keeps the explicit spring update stable when input stalls
	// and a huge gap arrives in one packet.
	minTickDT = 1e-4
	maxTickDT = 0.02

	// Speed estimate blend rates, per second. The fall rate is higher:
	// the tip slows down faster than it speeds up, which keeps stroke
	// starts fat and stroke ends tapered.
	speedRiseRate = 15
	speedFallRate = 40

	// radiusChangePerPixel limits how many pixels of radius change are
	// allowed per pixel of screen travel.
	radiusChangePerPixel = 0.25

	// Radius drag blend rates, per second, toward the rate-limited
	// target. Shrinking is faster than growing for the same reason as
	// the speed rates.
	radiusGrowRate   = 30
	radiusShrinkRate = 60

	// Gompertz curve shape for speed-based sizing. b sets how far the
	// flat foot of the curve extends, c how sharp the ramp is.
	gompertzB = 4
	gompertzC = 6
)

// TipDynamics advances a smoothed position and a variable tip radius,
// one raw-ish point at a time, through a damped mass-spring simulation.
//
// The struct is a plain value: copying it snapshots the simulation,
// which is how prediction runs the same dynamics without disturbing the
// real stroke.
type TipDynamics struct {
	params  brush.Params
	tracker *StylusTracker

	pos geom.Point // world, smoothed
	vel geom.Vec   // world units per second

	// speed is the smoothed drawing speed in cm/s with asymmetric
	// drag.
	speed float32

	lastTime     float64
	screenPos    geom.Point // pos converted at the last tick
	screenRadius float32
	ticked       bool // false until the first Tick after Reset
}

// NewTipDynamics creates a simulator reading stylus attributes from
// tracker. Call Reset before the first Tick.
func NewTipDynamics(params brush.Params, tracker *StylusTracker) TipDynamics {
	return TipDynamics{params: params, tracker: tracker}
}

// SetParams replaces the brush configuration. Takes effect on the next
// Tick.
func (d *TipDynamics) SetParams(params brush.Params) {
	d.params = params
}

// Reset reinitializes all state to the sample's position with zero
// velocity and size.
func (d *TipDynamics) Reset(s input.RawSample) {
	d.pos = s.WorldPos
	d.vel = geom.Vec{}
	d.speed = 0
	d.lastTime = s.Time
	d.screenPos = s.ScreenPos
	d.screenRadius = 0
	d.ticked = false
}

// Velocity returns the current smoothed velocity in world units per
// second.
func (d *TipDynamics) Velocity() geom.Vec {
	return d.vel
}

// Position returns the current smoothed position in world units.
func (d *TipDynamics) Position() geom.Point {
	return d.pos
}

// ModSpeedForStrokeEnd geometrically decays the speed estimate. Called
// repeatedly after a lift event to taper the stroke width.
func (d *TipDynamics) ModSpeedForStrokeEnd(mult float32) {
	d.speed *= mult
}

// Tick advances the simulation toward target and returns the modeled
// point at the new time.
func (d *TipDynamics) Tick(target geom.Point, t float64, cam *camera.Camera) ModeledInput {
	dt := float32(t - d.lastTime)
	if dt < minTickDT {
		dt = minTickDT
	} else if dt > maxTickDT {
		dt = maxTickDT
	}
	d.lastTime = t

	// Damped spring pulls the smoothed position toward the target.
	accel := target.Sub(d.pos).Scale(1 / d.params.Mass)
	d.vel = d.vel.Add(accel.Scale(dt)).Scale(1 / (1 + d.params.Drag*dt))
	d.pos = d.pos.Add(d.vel.Scale(dt))

	// Update the speed estimate from the screen distance actually
	// travelled since the previous tick.
	screenPos := cam.ConvertPosition(d.pos, camera.CoordWorld, camera.CoordScreen)
	distPx := screenPos.Distance(d.screenPos)
	distCm := cam.ConvertDistance(distPx, camera.UnitScreenPixels, camera.UnitCentimeters)
	instSpeed := distCm / dt
	rate := float32(speedRiseRate)
	if instSpeed < d.speed {
		rate = speedFallRate
	}
	d.speed += (instSpeed - d.speed) * blend(rate, dt)

	stylus := d.tracker.Query(d.pos)
	radiusPx := d.limitRadius(d.targetScreenRadius(cam, stylus), distPx, dt)

	minorPx := radiusPx * d.params.SizeRatio
	if d.params.Shape == brush.ShapeOrientation && stylus.KnownOrientation() {
		// Nib effect: the minor radius collapses when the stroke runs
		// along the barrel orientation.
		align := math32.Abs(math32.Cos(stylus.Orientation - d.vel.Angle()))
		minorPx = radiusPx * (d.params.SizeRatio + (1-d.params.SizeRatio)*align)
	}

	d.screenPos = screenPos
	d.screenRadius = radiusPx
	d.ticked = true

	return ModeledInput{
		Pos:    d.pos,
		Time:   t,
		Tip:    TipSizeScreen{Radius: radiusPx, RadiusMinor: minorPx}.ToWorld(cam),
		Stylus: stylus,
	}
}

// targetScreenRadius computes the unconstrained radius, in screen
// pixels, the configured shape behavior asks for.
func (d *TipDynamics) targetScreenRadius(cam *camera.Camera, stylus StylusState) float32 {
	basePx := cam.ConvertDistance(d.params.BaseRadius, camera.UnitWorld, camera.UnitScreenPixels)
	taper := d.params.TaperAmount

	scale := float32(1)
	switch d.params.Shape {
	case brush.ShapeSpeed:
		span := d.params.SpeedLimit - d.params.BaseSpeed
		if span > 0 {
			x := clamp01((d.speed - d.params.BaseSpeed) / span)
			scale = 1 - (1-taper)*gompertz(x)
		}
	case brush.ShapePressure:
		if stylus.KnownPressure() {
			scale = taper + (1-taper)*stylus.Pressure
		}
	case brush.ShapeTilt:
		if stylus.KnownTilt() {
			scale = taper + (1-taper)*clamp01(stylus.Tilt/(math32.Pi/2))
		}
	case brush.ShapeOrientation:
		// Major radius stays nominal; orientation shapes the minor
		// radius in Tick.
	}
	return basePx * scale
}

// limitRadius rate-limits how fast the screen radius may change per
// pixel of travel, then drags the radius toward the limited target.
func (d *TipDynamics) limitRadius(targetPx, distPx float32, dt float32) float32 {
	if !d.ticked {
		return targetPx
	}
	maxDelta := radiusChangePerPixel * (distPx + 1)
	limited := targetPx
	if limited > d.screenRadius+maxDelta {
		limited = d.screenRadius + maxDelta
	} else if limited < d.screenRadius-maxDelta {
		limited = d.screenRadius - maxDelta
	}
	rate := float32(radiusGrowRate)
	if limited < d.screenRadius {
		rate = radiusShrinkRate
	}
	return d.screenRadius + (limited-d.screenRadius)*blend(rate, dt)
}

// gompertz maps [0,1] onto a smooth sigmoid with a flat foot, used to
// blend speed into size without abrupt onset.
func gompertz(x float32) float32 {
	return math32.Exp(-gompertzB * math32.Exp(-gompertzC*x))
}

// blend converts a per-second rate into a per-tick interpolation
// factor.
func blend(rate, dt float32) float32 {
	return 1 - math32.Exp(-rate*dt)
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
