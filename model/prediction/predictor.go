// Package prediction fabricates plausible future input samples to hide
// the latency between the last real packet and the frame that renders
// it.
//
// A Predictor is a strategy owned by the modeler. The Kalman
// implementation models screen-space kinematics and expects its output
// to be run through the full tip dynamics; the linear implementation
// only extrapolates, and tells the modeler to taper tip sizes itself.
package prediction

import (
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/input"
)

// Predictor produces likely future samples from a short history of raw
// samples.
type Predictor interface {
	// Reset prepares the predictor for a new stroke. predictInterval
	// is how far into the future to fabricate points;
	// minSampleInterval is the expected spacing of real samples, both
	// in seconds.
	Reset(cam *camera.Camera, predictInterval, minSampleInterval float64)

	// Update feeds one real sample. sentToModel reports whether the
	// modeler accepted the sample or gated it out; predictors may
	// weigh gated samples differently.
	Update(s input.RawSample, sentToModel bool)

	// ExpectsModeling reports whether predicted samples should be run
	// through tip dynamics (true) or be used as a pre-shaped path with
	// linearly tapered tip sizes (false).
	ExpectsModeling() bool

	// PredictedPoints returns future samples, oldest first. The result
	// always includes at least the last known point when one exists,
	// even when no real prediction is available; with no history at
	// all it returns nil.
	PredictedPoints(lastModeled geom.Point, velocity geom.Vec) []input.RawSample
}

// LinearPredictor extrapolates a straight line along the model's
// current velocity. It is the cheap fallback strategy: no state beyond
// the last sample, no stability requirements.
type LinearPredictor struct {
	cam             *camera.Camera
	predictInterval float64
	sampleInterval  float64
	last            input.RawSample
	haveLast        bool
}

// NewLinearPredictor creates a linear extrapolation predictor.
func NewLinearPredictor() *LinearPredictor {
	return &LinearPredictor{}
}

// Reset implements Predictor.
func (p *LinearPredictor) Reset(cam *camera.Camera, predictInterval, minSampleInterval float64) {
	p.cam = cam
	p.predictInterval = predictInterval
	p.sampleInterval = minSampleInterval
	p.haveLast = false
}

// Update implements Predictor.
func (p *LinearPredictor) Update(s input.RawSample, sentToModel bool) {
	p.last = s
	p.haveLast = true
}

// ExpectsModeling implements Predictor. Linear output is already
// smooth; running it through dynamics would double-smooth it.
func (p *LinearPredictor) ExpectsModeling() bool { return false }

// PredictedPoints implements Predictor. velocity is the model's screen
// velocity in pixels per second.
func (p *LinearPredictor) PredictedPoints(lastModeled geom.Point, velocity geom.Vec) []input.RawSample {
	if !p.haveLast {
		return nil
	}
	out := []input.RawSample{p.last}
	if p.sampleInterval <= 0 || p.predictInterval <= 0 {
		return out
	}

	steps := int(p.predictInterval / p.sampleInterval)
	if steps > maxPredictedPoints {
		steps = maxPredictedPoints
	}
	prev := p.last
	pos := lastModeled
	for i := 1; i <= steps; i++ {
		pos = pos.Add(velocity.Scale(float32(p.sampleInterval)))
		s := prev
		s.LastScreenPos = prev.ScreenPos
		s.LastWorldPos = prev.WorldPos
		s.LastTime = prev.Time
		s.ScreenPos = pos
		s.WorldPos = p.cam.ConvertPosition(pos, camera.CoordScreen, camera.CoordWorld)
		s.Time = prev.Time + p.sampleInterval
		out = append(out, s)
		prev = s
	}
	return out
}

// maxPredictedPoints caps the fabricated tail regardless of the
// configured horizon, keeping per-frame work bounded.
const maxPredictedPoints = 8
