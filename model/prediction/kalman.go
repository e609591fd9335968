package prediction

import (
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/input"
)

// Filter tuning. The process noise is a force-on-jerk model: white
// noise enters the state as jerk and integrates down into acceleration,
// velocity, and position over the unit step.
const (
	// kalmanProcessNoise is the variance of the jerk noise per step.
	kalmanProcessNoise = 0.01
	// kalmanMeasurementNoise is the variance of the position
	// measurement, in pixels squared.
	kalmanMeasurementNoise = 1.0
	// minStableUpdates is the number of measurements required before
	// the filter estimate is trusted for prediction.
	minStableUpdates = 4
)

// KalmanPredictor predicts future input with one independent four-state
// (position, velocity, acceleration, jerk) Kalman filter per screen
// axis. The state-transition matrix encodes constant-jerk kinematics
// over a unit time step; real elapsed time is tracked separately as a
// smoothed sample interval.
type KalmanPredictor struct {
	cam             *camera.Camera
	predictInterval float64
	sampleInterval  float64

	x, y axisFilter

	last     input.RawSample
	haveLast bool
	updates  int
	// avgDT is the smoothed spacing of real samples in seconds; it
	// maps the filter's unit step back onto wall time.
	avgDT float64
}

// NewKalmanPredictor creates a Kalman-filter predictor.
func NewKalmanPredictor() *KalmanPredictor {
	return &KalmanPredictor{}
}

// Reset implements Predictor.
func (p *KalmanPredictor) Reset(cam *camera.Camera, predictInterval, minSampleInterval float64) {
	p.cam = cam
	p.predictInterval = predictInterval
	p.sampleInterval = minSampleInterval
	p.x.reset()
	p.y.reset()
	p.haveLast = false
	p.updates = 0
	p.avgDT = minSampleInterval
}

// Update implements Predictor.
func (p *KalmanPredictor) Update(s input.RawSample, sentToModel bool) {
	if s.Flags.Has(input.FlagDown) {
		p.x.reset()
		p.y.reset()
		p.updates = 0
		p.avgDT = p.sampleInterval
	}
	if p.haveLast {
		if dt := s.Time - p.last.Time; dt > 0 {
			p.avgDT += (dt - p.avgDT) * 0.25
		}
	}
	p.x.update(float64(s.ScreenPos.X))
	p.y.update(float64(s.ScreenPos.Y))
	p.updates++
	p.last = s
	p.haveLast = true
}

// ExpectsModeling implements Predictor. Kalman output is raw-like and
// should be smoothed by the same dynamics as real input.
func (p *KalmanPredictor) ExpectsModeling() bool { return true }

// Stable reports whether enough history has accumulated for the
// estimate to be trusted. Before stability, prediction degrades to the
// last known point.
func (p *KalmanPredictor) Stable() bool {
	return p.updates >= minStableUpdates
}

// PredictedPoints implements Predictor. Future points are produced by
// repeatedly advancing the state-transition model from the current
// estimate.
func (p *KalmanPredictor) PredictedPoints(lastModeled geom.Point, velocity geom.Vec) []input.RawSample {
	if !p.haveLast {
		return nil
	}
	out := []input.RawSample{p.last}
	if !p.Stable() || p.avgDT <= 0 || p.predictInterval <= 0 {
		return out
	}

	steps := int(p.predictInterval/p.avgDT + 0.5)
	if steps > maxPredictedPoints {
		steps = maxPredictedPoints
	}
	sx := p.x.state
	sy := p.y.state
	prev := p.last
	for i := 1; i <= steps; i++ {
		sx = advance(sx)
		sy = advance(sy)
		pos := geom.Pt(float32(sx[0]), float32(sy[0]))

		s := prev
		s.Flags = s.Flags.Clear(input.FlagDown)
		s.LastScreenPos = prev.ScreenPos
		s.LastWorldPos = prev.WorldPos
		s.LastTime = prev.Time
		s.ScreenPos = pos
		s.WorldPos = p.cam.ConvertPosition(pos, camera.CoordScreen, camera.CoordWorld)
		s.Time = prev.Time + p.avgDT
		out = append(out, s)
		prev = s
	}
	return out
}

// kstate is one axis state: position, velocity, acceleration, jerk, in
// pixels per unit step.
type kstate [4]float64

// advance applies the constant-jerk transition over one unit step.
func advance(s kstate) kstate {
	return kstate{
		s[0] + s[1] + s[2]/2 + s[3]/6,
		s[1] + s[2] + s[3]/2,
		s[2] + s[3],
		s[3],
	}
}

// axisFilter is a four-state Kalman filter for one screen axis with a
// scalar position measurement.
type axisFilter struct {
	state kstate
	cov   [4][4]float64
	first bool
}

func (f *axisFilter) reset() {
	f.state = kstate{}
	f.cov = [4][4]float64{}
	for i := 0; i < 4; i++ {
		f.cov[i][i] = 1
	}
	f.first = true
}

// update runs one predict/correct cycle with measurement z.
func (f *axisFilter) update(z float64) {
	if f.first {
		// Anchor position on the first measurement instead of pulling
		// the whole state toward an arbitrary origin.
		f.state = kstate{z, 0, 0, 0}
		f.first = false
		return
	}

	// Predict: x = F x, P = F P Fᵀ + Q.
	f.state = advance(f.state)
	f.cov = addQ(mulFPFt(f.cov), kalmanProcessNoise)

	// Correct with H = [1 0 0 0].
	innov := z - f.state[0]
	s := f.cov[0][0] + kalmanMeasurementNoise
	var gain [4]float64
	for i := 0; i < 4; i++ {
		gain[i] = f.cov[i][0] / s
	}
	for i := 0; i < 4; i++ {
		f.state[i] += gain[i] * innov
	}
	// P = (I - K H) P — only the first column of H is non-zero.
	var next [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			next[i][j] = f.cov[i][j] - gain[i]*f.cov[0][j]
		}
	}
	f.cov = next
}

// fRow are the rows of the constant-jerk transition matrix F.
var fRow = [4][4]float64{
	{1, 1, 1.0 / 2, 1.0 / 6},
	{0, 1, 1, 1.0 / 2},
	{0, 0, 1, 1},
	{0, 0, 0, 1},
}

// mulFPFt computes F P Fᵀ.
func mulFPFt(p [4][4]float64) [4][4]float64 {
	var fp [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += fRow[i][k] * p[k][j]
			}
			fp[i][j] = sum
		}
	}
	var out [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += fp[i][k] * fRow[j][k]
			}
			out[i][j] = sum
		}
	}
	return out
}

// addQ adds the force-on-jerk process noise sigma * u uᵀ with
// u = [1/6, 1/2, 1, 1].
func addQ(p [4][4]float64, sigma float64) [4][4]float64 {
	u := [4]float64{1.0 / 6, 1.0 / 2, 1, 1}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			p[i][j] += sigma * u[i] * u[j]
		}
	}
	return p
}
