package model

import (
	"fmt"

	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/input"
	"github.com/strokelab/ink/model/prediction"
)

const (
	// predictHorizon is how far into the future the predictor is asked
	// to fabricate points, in seconds. Roughly 1.5 frames at 60 Hz.
	predictHorizon = 0.025

	// strokeEndSpeedDecay is the geometric factor applied to the speed
	// estimate per taper step after an up event.
	strokeEndSpeedDecay = 0.7

	// maxTaperPoints caps the extra points generated after an up.
	maxTaperPoints = 16

	// taperDT is the synthetic timestep of taper points, in seconds.
	taperDT = 1.0 / 180

	// predictionSizeScale is the reduced tip-size factor the linear
	// fallback taper shrinks toward along the predicted path.
	predictionSizeScale = 0.5
)

// sessionState makes the modeler's call-order protocol explicit.
type sessionState int

const (
	stateUninitialized sessionState = iota
	stateReady                      // Reset called, no down yet
	stateActive                     // stroke in progress
	stateSealed                     // terminal up received
)

// Modeler turns one stream's raw samples into modeled points. It owns
// the wobble filter, the sampling gate, the tip dynamics, the stylus
// tracker, and the predictor for a single stroke session.
//
// Protocol: Reset, then AddInputToModel with a down sample first and a
// terminal up last, draining results with HasModelResult and
// PopNextModelResult in between. Violations panic; they are caller
// bugs, not runtime conditions.
type Modeler struct {
	cam       *camera.Camera
	params    brush.Params
	predictor prediction.Predictor

	tracker  StylusTracker
	dynamics TipDynamics
	wobble   wobbleFilter

	state  sessionState
	device input.DeviceType

	results []ModeledInput

	lastSent         input.RawSample
	lastCorrectedPos geom.Point
	justDown         bool

	lastModeled ModeledInput
	haveModeled bool
}

// NewModeler creates a modeler driving the given predictor. A nil
// predictor defaults to the Kalman implementation.
func NewModeler(p prediction.Predictor) *Modeler {
	if p == nil {
		p = prediction.NewKalmanPredictor()
	}
	return &Modeler{predictor: p}
}

// Reset prepares the modeler for a new stroke session.
func (m *Modeler) Reset(cam *camera.Camera, params brush.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	m.cam = cam
	m.params = params
	m.tracker.Clear()
	m.dynamics = NewTipDynamics(params, &m.tracker)
	m.wobble = newWobbleFilter(params.WobbleWindow, params.WobbleSlowSpeed, params.WobbleFastSpeed)
	m.state = stateReady
	m.results = m.results[:0]
	m.haveModeled = false
	m.justDown = false
	m.predictor.Reset(cam, predictHorizon, 1/params.MaxSampleHz)
	return nil
}

// SetParams swaps the brush configuration mid-session, e.g. when a
// pressure curve is recalibrated. The stroke keeps its accumulated
// dynamics state.
func (m *Modeler) SetParams(params brush.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	m.params = params
	m.dynamics.SetParams(params)
	return nil
}

// AddInputToModel feeds one validated raw sample. Samples must arrive
// in stream order: down first, then moves, then one terminal up.
func (m *Modeler) AddInputToModel(s input.RawSample) {
	switch m.state {
	case stateUninitialized:
		panic("model: AddInputToModel before Reset")
	case stateSealed:
		panic("model: AddInputToModel after stroke end")
	case stateReady:
		if !s.Flags.Has(input.FlagDown) {
			panic(fmt.Sprintf("model: first sample of stream %d is not a down", s.ID))
		}
	}

	switch {
	case s.Flags.Has(input.FlagDown):
		m.beginStroke(s)
	case s.Flags.Terminal():
		m.endStroke(s)
	default:
		m.addMove(s)
	}
}

func (m *Modeler) beginStroke(s input.RawSample) {
	m.state = stateActive
	m.device = s.Device
	m.wobble.reset()
	m.tracker.Clear()
	m.tracker.AddInput(s)
	m.dynamics.Reset(s)
	m.lastSent = s
	m.lastCorrectedPos = s.WorldPos
	m.justDown = true

	// The down itself is modeled so the stroke has geometry at the
	// exact contact point.
	m.push(m.dynamics.Tick(s.WorldPos, s.Time, m.cam))
	m.predictor.Update(s, true)
}

func (m *Modeler) addMove(s input.RawSample) {
	// Gate against the maximum sampling rate. Gated samples still feed
	// the predictor so it sees the device's true cadence.
	if s.Time-m.lastSent.Time < 1/m.params.MaxSampleHz {
		m.predictor.Update(s, false)
		return
	}

	// Moves are wobble-filtered; down and up samples never are.
	corrected := m.wobble.filter(s, m.cam)
	m.tracker.AddInput(s)
	m.interpolate(corrected, s.Time)

	m.lastSent = s
	m.lastCorrectedPos = corrected
	m.justDown = false
	m.predictor.Update(s, true)
}

func (m *Modeler) endStroke(s input.RawSample) {
	m.tracker.AddInput(s)
	m.interpolate(s.WorldPos, s.Time)
	m.taperToUp(s)
	m.predictor.Update(s, true)
	m.state = stateSealed
}

// interpolate advances the dynamics through 1..N sub-points between the
// last accepted position and target.
func (m *Modeler) interpolate(target geom.Point, t float64) {
	n := m.params.InterpolationPoints
	if m.justDown {
		// Right after a down there is no established trajectory worth
		// subdividing.
		n = 1
	}
	for i := 1; i <= n; i++ {
		f := float32(i) / float32(n)
		subT := m.lastSent.Time + (t-m.lastSent.Time)*float64(f)
		subP := m.lastCorrectedPos.Lerp(target, f)
		m.push(m.dynamics.Tick(subP, subT, m.cam))
	}
}

// taperToUp keeps emitting decaying points after the lift so the stroke
// narrows into its end instead of stopping at full width.
func (m *Modeler) taperToUp(s input.RawSample) {
	t := s.Time
	prevPos := m.dynamics.Position()
	prevDir := m.dynamics.Velocity()
	for i := 0; i < maxTaperPoints; i++ {
		m.dynamics.ModSpeedForStrokeEnd(strokeEndSpeedDecay)
		t += taperDT
		mi := m.dynamics.Tick(s.WorldPos, t, m.cam)

		step := mi.Pos.Sub(prevPos)
		if prevDir.LengthSquared() > 0 && step.Dot(prevDir) < 0 {
			// Trajectory reversed: the spring overshot the up point.
			break
		}
		m.push(mi)

		screen := m.cam.ConvertPosition(mi.Pos, camera.CoordWorld, camera.CoordScreen)
		if screen.Distance(s.ScreenPos) <= 1 {
			break
		}
		prevPos = mi.Pos
		prevDir = step
	}
}

// push appends one modeled point, enforcing non-decreasing time.
func (m *Modeler) push(mi ModeledInput) {
	if m.haveModeled && mi.Time < m.lastModeled.Time {
		mi.Time = m.lastModeled.Time
	}
	m.results = append(m.results, mi)
	m.lastModeled = mi
	m.haveModeled = true
}

// HasModelResult reports whether a modeled point is waiting.
func (m *Modeler) HasModelResult() bool {
	return len(m.results) > 0
}

// PopNextModelResult removes and returns the oldest modeled point.
// Popping with no result available is a protocol error and panics.
func (m *Modeler) PopNextModelResult() ModeledInput {
	if len(m.results) == 0 {
		panic("model: PopNextModelResult with no result available")
	}
	mi := m.results[0]
	m.results = m.results[1:]
	return mi
}

// PredictModelResults fabricates a provisional tail of modeled points
// along the predictor's future path without mutating the real model
// state. With no modeled history it returns nil; with history but no
// usable prediction it returns the last modeled point only.
func (m *Modeler) PredictModelResults() []ModeledInput {
	if !m.haveModeled {
		return nil
	}

	lastScreen := m.cam.ConvertPosition(m.lastModeled.Pos, camera.CoordWorld, camera.CoordScreen)
	velScreen := m.cam.ConvertVector(m.dynamics.Velocity(), camera.CoordWorld, camera.CoordScreen)
	pts := m.predictor.PredictedPoints(lastScreen, velScreen)
	if len(pts) == 0 {
		return []ModeledInput{m.lastModeled}
	}

	if !m.predictor.ExpectsModeling() {
		return m.taperedPrediction(pts)
	}

	// Clone the dynamics and decay its speed so the provisional tail
	// thins slightly; stylus trajectories are steadier than finger
	// ones, so non-touch input is decayed once and touch twice.
	dyn := m.dynamics
	dyn.ModSpeedForStrokeEnd(strokeEndSpeedDecay)
	if m.device.Touch() {
		dyn.ModSpeedForStrokeEnd(strokeEndSpeedDecay)
	}

	out := make([]ModeledInput, 0, len(pts))
	for _, pt := range pts {
		out = append(out, dyn.Tick(pt.WorldPos, pt.Time, m.cam))
	}
	return out
}

// taperedPrediction turns an already-shaped predicted path into modeled
// points by linearly shrinking the last modeled tip size along it.
func (m *Modeler) taperedPrediction(pts []input.RawSample) []ModeledInput {
	reduced := TipSizeWorld{
		Radius:      m.lastModeled.Tip.Radius * predictionSizeScale,
		RadiusMinor: m.lastModeled.Tip.RadiusMinor * predictionSizeScale,
	}
	out := make([]ModeledInput, 0, len(pts))
	for i, pt := range pts {
		var f float32
		if len(pts) > 1 {
			f = float32(i) / float32(len(pts)-1)
		}
		out = append(out, ModeledInput{
			Pos:    pt.WorldPos,
			Time:   pt.Time,
			Tip:    m.lastModeled.Tip.Lerp(reduced, f),
			Stylus: m.lastModeled.Stylus,
		})
	}
	return out
}
