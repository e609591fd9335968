// Package model turns validated raw input into modeled points: smoothed
// positions with a tip size and stylus attributes attached.
//
// The pipeline inside the package is wobble filter -> sampling gate ->
// interpolation -> tip dynamics, orchestrated by Modeler. Each stroke
// session owns its own Modeler; nothing here is shared between streams.
package model

import (
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/input"
)

// StylusState is a snapshot of pressure, tilt, and orientation. A
// negative field means the attribute is unknown for the device.
type StylusState struct {
	Pressure    float32
	Tilt        float32
	Orientation float32
}

// UnknownStylusState marks every attribute unknown.
func UnknownStylusState() StylusState {
	return StylusState{Pressure: -1, Tilt: -1, Orientation: -1}
}

// KnownPressure reports whether the snapshot carries a usable pressure.
func (s StylusState) KnownPressure() bool { return s.Pressure >= 0 }

// KnownTilt reports whether the snapshot carries a usable tilt.
func (s StylusState) KnownTilt() bool { return s.Tilt >= 0 }

// KnownOrientation reports whether the snapshot carries a usable
// orientation.
func (s StylusState) KnownOrientation() bool { return s.Orientation >= 0 }

// lerpAttr interpolates one attribute; unknown propagates.
func lerpAttr(a, b, t float32) float32 {
	if a < 0 || b < 0 {
		return -1
	}
	return a + (b-a)*t
}

// Lerp interpolates two snapshots. Any attribute unknown on either side
// is unknown in the result.
func (s StylusState) Lerp(o StylusState, t float32) StylusState {
	return StylusState{
		Pressure:    lerpAttr(s.Pressure, o.Pressure, t),
		Tilt:        lerpAttr(s.Tilt, o.Tilt, t),
		Orientation: lerpAttr(s.Orientation, o.Orientation, t),
	}
}

func stylusStateOf(s input.RawSample) StylusState {
	st := StylusState{Pressure: s.Pressure, Tilt: s.Tilt, Orientation: s.Orientation}
	if !s.HasPressure() {
		st.Pressure = -1
	}
	return st
}

type stylusSample struct {
	pos   geom.Point // world
	state StylusState
}

// StylusTracker answers "what were the stylus attributes near this
// point" for any query point, by nearest-segment lookup over the raw
// samples seen so far in the stroke.
//
// The modeled position trails the raw position, so the attributes that
// belong to a modeled point are the ones recorded near it on the raw
// path, not the ones on the latest packet.
type StylusTracker struct {
	samples []stylusSample
}

// Clear discards all recorded samples. Called at stroke start.
func (st *StylusTracker) Clear() {
	st.samples = st.samples[:0]
}

// AddInput records one raw sample's position and attributes.
func (st *StylusTracker) AddInput(s input.RawSample) {
	st.samples = append(st.samples, stylusSample{
		pos:   s.WorldPos,
		state: stylusStateOf(s),
	})
}

// Query returns the attributes interpolated at the projection of pos
// onto the nearest recorded path segment. With no recorded samples the
// result is entirely unknown.
func (st *StylusTracker) Query(pos geom.Point) StylusState {
	switch len(st.samples) {
	case 0:
		return UnknownStylusState()
	case 1:
		return st.samples[0].state
	}

	best := UnknownStylusState()
	bestDist := float32(0)
	first := true
	for i := 1; i < len(st.samples); i++ {
		a, b := st.samples[i-1], st.samples[i]
		t := projectParam(pos, a.pos, b.pos)
		closest := a.pos.Lerp(b.pos, t)
		d := pos.DistanceSquared(closest)
		if first || d < bestDist {
			first = false
			bestDist = d
			best = a.state.Lerp(b.state, t)
		}
	}
	return best
}

// projectParam returns the clamped parameter of the projection of p
// onto segment ab.
func projectParam(p, a, b geom.Point) float32 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq < 1e-12 {
		return 0
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
