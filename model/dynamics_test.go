package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
)

func newTestDynamics(p brush.Params) (TipDynamics, *StylusTracker) {
	tracker := &StylusTracker{}
	d := NewTipDynamics(p, tracker)
	d.Reset(rawAt(0, 0, 0, 1))
	return d, tracker
}

func TestDynamicsTrailsTarget(t *testing.T) {
	cam := camera.New()
	d, _ := newTestDynamics(brush.DefaultParams())

	mi := d.Tick(geom.Pt(10, 0), 0.01, cam)

	// The smoothed position moves toward the target but lags it.
	assert.Greater(t, mi.Pos.X, float32(0))
	assert.Less(t, mi.Pos.X, float32(10))
	assert.InDelta(t, 0, mi.Pos.Y, 1e-5)
}

func TestDynamicsConvergesWhenHeld(t *testing.T) {
	cam := camera.New()
	d, _ := newTestDynamics(brush.DefaultParams())

	target := geom.Pt(20, -5)
	tm := 0.0
	for n := 0; n < 300; n++ {
		tm += 0.005
		d.Tick(target, tm, cam)
	}
	assert.InDelta(t, float64(target.X), float64(d.Position().X), 0.1)
	assert.InDelta(t, float64(target.Y), float64(d.Position().Y), 0.1)
}

func TestDynamicsFixedShapeKeepsRadius(t *testing.T) {
	cam := camera.New()
	p := brush.DefaultParams().WithShape(brush.ShapeFixed)
	d, _ := newTestDynamics(p)

	mi := d.Tick(geom.Pt(1, 0), 0.01, cam)
	assert.InDelta(t, float64(p.BaseRadius), float64(mi.Tip.Radius), 1e-4)

	mi = d.Tick(geom.Pt(50, 0), 0.02, cam)
	assert.InDelta(t, float64(p.BaseRadius), float64(mi.Tip.Radius), float64(p.BaseRadius)*0.3)
}

func TestDynamicsSpeedShapeNarrowsWhenFast(t *testing.T) {
	cam := camera.New()
	p := brush.DefaultParams().WithShape(brush.ShapeSpeed)

	slow, _ := newTestDynamics(p)
	tm := 0.0
	for i := 0; i < 50; i++ {
		tm += 0.01
		slow.Tick(geom.Pt(float32(i)*0.05, 0), tm, cam) // ~0.13 cm/s at 96 ppi
	}
	slowRadius := slow.Tick(geom.Pt(3, 0), tm+0.01, cam).Tip.Radius

	fast, _ := newTestDynamics(p)
	tm = 0.0
	for i := 0; i < 50; i++ {
		tm += 0.01
		fast.Tick(geom.Pt(float32(i)*12, 0), tm, cam) // ~30 cm/s at 96 ppi
	}
	fastRadius := fast.Tick(geom.Pt(640, 0), tm+0.01, cam).Tip.Radius

	assert.Less(t, fastRadius, slowRadius,
		"speed-based sizing must narrow the tip at speed")
}

func TestDynamicsPressureShape(t *testing.T) {
	cam := camera.New()
	p := brush.DefaultParams().WithShape(brush.ShapePressure)
	tracker := &StylusTracker{}
	d := NewTipDynamics(p, tracker)

	tracker.AddInput(rawAt(0, 0, 0, 0.2))
	tracker.AddInput(rawAt(10, 0, 0.1, 0.2))
	d.Reset(rawAt(0, 0, 0, 0.2))

	mi := d.Tick(geom.Pt(1, 0), 0.01, cam)
	wantScale := p.TaperAmount + (1-p.TaperAmount)*0.2
	assert.InDelta(t, float64(p.BaseRadius*wantScale), float64(mi.Tip.Radius), 1e-3)
	assert.InDelta(t, 0.2, mi.Stylus.Pressure, 1e-5)
}

func TestDynamicsRadiusRateLimited(t *testing.T) {
	cam := camera.New()
	p := brush.DefaultParams().WithShape(brush.ShapePressure)
	tracker := &StylusTracker{}
	d := NewTipDynamics(p, tracker)

	// Pressure jumps from near zero to full over a tiny travel
	// distance; the radius must not jump with it.
	tracker.AddInput(rawAt(0, 0, 0, 0.01))
	tracker.AddInput(rawAt(1, 0, 0.01, 0.01))
	d.Reset(rawAt(0, 0, 0, 0.01))
	first := d.Tick(geom.Pt(0.5, 0), 0.01, cam)

	tracker.AddInput(rawAt(1.2, 0, 0.02, 1))
	tracker.AddInput(rawAt(1.4, 0, 0.03, 1))
	second := d.Tick(geom.Pt(0.7, 0), 0.02, cam)

	// Far less than the unconstrained jump to full pressure radius.
	assert.Less(t, second.Tip.Radius-first.Tip.Radius, p.BaseRadius/4)
}

func TestDynamicsResetZeroesState(t *testing.T) {
	cam := camera.New()
	d, _ := newTestDynamics(brush.DefaultParams())
	d.Tick(geom.Pt(30, 30), 0.01, cam)
	require.NotEqual(t, geom.Vec{}, d.Velocity())

	d.Reset(rawAt(5, 5, 1, 1))
	assert.Equal(t, geom.Pt(5, 5), d.Position())
	assert.Equal(t, geom.Vec{}, d.Velocity())
}

func TestModSpeedForStrokeEndDecays(t *testing.T) {
	cam := camera.New()
	p := brush.DefaultParams().WithShape(brush.ShapeSpeed)
	d, _ := newTestDynamics(p)

	tm := 0.0
	for i := 0; i < 30; i++ {
		tm += 0.01
		d.Tick(geom.Pt(float32(i)*8, 0), tm, cam)
	}
	before := d.speed
	require.Greater(t, before, float32(0))

	d.ModSpeedForStrokeEnd(0.5)
	assert.InDelta(t, float64(before*0.5), float64(d.speed), 1e-5)
}

func TestGompertzShape(t *testing.T) {
	// Flat foot near zero, saturating near one.
	assert.Less(t, gompertz(0), float32(0.05))
	assert.Greater(t, gompertz(1), float32(0.95))
	assert.Less(t, gompertz(0.3), gompertz(0.7))
}
