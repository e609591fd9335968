package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/input"
	"github.com/strokelab/ink/model/prediction"
)

func strokeSamples(points []geom.Point, dt float64) []input.RawSample {
	out := make([]input.RawSample, 0, len(points))
	for i, p := range points {
		s := input.RawSample{
			Device:    input.DeviceTouch,
			ID:        1,
			Flags:     input.FlagInContact,
			ScreenPos: p,
			WorldPos:  p,
			Time:      float64(i) * dt,
			Pressure:  1,
		}
		if i == 0 {
			s.Flags = s.Flags.Set(input.FlagDown)
			s.LastScreenPos = p
			s.LastWorldPos = p
			s.LastTime = s.Time
		} else {
			s.LastScreenPos = points[i-1]
			s.LastWorldPos = points[i-1]
			s.LastTime = float64(i-1) * dt
		}
		if i == len(points)-1 {
			s.Flags = s.Flags.Clear(input.FlagInContact).Set(input.FlagUp)
		}
		out = append(out, s)
	}
	return out
}

func drain(m *Modeler) []ModeledInput {
	var out []ModeledInput
	for m.HasModelResult() {
		out = append(out, m.PopNextModelResult())
	}
	return out
}

func newTestModeler(t *testing.T) *Modeler {
	t.Helper()
	m := NewModeler(prediction.NewKalmanPredictor())
	require.NoError(t, m.Reset(camera.New(), brush.DefaultParams()))
	return m
}

func TestModelerDownMoveUpTracksPath(t *testing.T) {
	m := newTestModeler(t)

	path := []geom.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 5}, {X: 30, Y: 10}, {X: 40, Y: 10},
	}
	samples := strokeSamples(path, 0.02)

	var modeled []ModeledInput
	for _, s := range samples {
		m.AddInputToModel(s)
		modeled = append(modeled, drain(m)...)
	}

	require.GreaterOrEqual(t, len(modeled), len(samples),
		"five raw samples must yield at least five modeled points")

	// Path distance of the modeled points roughly tracks the input
	// path within the smoothing lag.
	var rawDist, modDist float32
	for i := 1; i < len(path); i++ {
		rawDist += path[i].Distance(path[i-1])
	}
	for i := 1; i < len(modeled); i++ {
		modDist += modeled[i].Pos.Distance(modeled[i-1].Pos)
	}
	assert.InDelta(t, float64(rawDist), float64(modDist), float64(rawDist)*0.5)

	// The final modeled point lands near the up position.
	last := modeled[len(modeled)-1]
	assert.Less(t, last.Pos.Distance(path[len(path)-1]), float32(3))
}

func TestModelerTimeMonotonic(t *testing.T) {
	m := newTestModeler(t)

	path := []geom.Point{
		{X: 0, Y: 0}, {X: 5, Y: 1}, {X: 12, Y: 3}, {X: 20, Y: 8}, {X: 26, Y: 9}, {X: 30, Y: 9},
	}
	var modeled []ModeledInput
	for _, s := range strokeSamples(path, 0.015) {
		m.AddInputToModel(s)
		modeled = append(modeled, drain(m)...)
	}

	for i := 1; i < len(modeled); i++ {
		assert.GreaterOrEqual(t, modeled[i].Time, modeled[i-1].Time,
			"modeled times must be non-decreasing")
	}
}

func TestModelerGatesHighRateSamples(t *testing.T) {
	m := NewModeler(prediction.NewKalmanPredictor())
	p := brush.DefaultParams()
	p.MaxSampleHz = 50 // accept at most one sample per 20 ms
	require.NoError(t, m.Reset(camera.New(), p))

	// 1 kHz input: most moves must be gated away.
	var path []geom.Point
	for i := 0; i < 100; i++ {
		path = append(path, geom.Pt(float32(i), 0))
	}
	var modeled []ModeledInput
	for _, s := range strokeSamples(path, 0.001) {
		m.AddInputToModel(s)
		modeled = append(modeled, drain(m)...)
	}

	// 99 ms of input at 50 Hz ≈ 5 accepted moves (+ down, up, taper).
	assert.Less(t, len(modeled), 40)
}

func TestModelerDownUpTapStillEmits(t *testing.T) {
	m := newTestModeler(t)

	p := geom.Pt(5, 5)
	for _, s := range strokeSamples([]geom.Point{p, p}, 0.01) {
		m.AddInputToModel(s)
	}
	modeled := drain(m)
	require.NotEmpty(t, modeled)
	for _, mi := range modeled {
		assert.Less(t, mi.Pos.Distance(p), float32(1))
	}
}

func TestModelerPredictBeforeAnyInput(t *testing.T) {
	m := newTestModeler(t)

	assert.NotPanics(t, func() {
		pts := m.PredictModelResults()
		assert.Empty(t, pts)
	})
}

func TestModelerPredictionDoesNotMutateModel(t *testing.T) {
	m := newTestModeler(t)

	path := []geom.Point{
		{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 16, Y: 0}, {X: 24, Y: 0}, {X: 32, Y: 0}, {X: 40, Y: 0},
	}
	samples := strokeSamples(path, 0.01)
	for _, s := range samples[:len(samples)-1] {
		m.AddInputToModel(s)
	}
	drain(m)

	posBefore := m.dynamics.Position()
	velBefore := m.dynamics.Velocity()

	first := m.PredictModelResults()
	second := m.PredictModelResults()

	assert.Equal(t, posBefore, m.dynamics.Position())
	assert.Equal(t, velBefore, m.dynamics.Velocity())
	require.NotEmpty(t, first)
	require.Equal(t, len(first), len(second),
		"repeated prediction from unchanged state must agree")
	assert.Equal(t, first[len(first)-1].Pos, second[len(second)-1].Pos)
}

func TestModelerPredictionExtendsForward(t *testing.T) {
	m := newTestModeler(t)

	var path []geom.Point
	for i := 0; i < 12; i++ {
		path = append(path, geom.Pt(float32(i)*4, 0))
	}
	samples := strokeSamples(path, 0.01)
	for _, s := range samples[:len(samples)-1] {
		m.AddInputToModel(s)
	}
	drain(m)

	pts := m.PredictModelResults()
	require.NotEmpty(t, pts)
	// The predicted tail continues along +x from the modeled frontier.
	lastReal := m.dynamics.Position()
	assert.GreaterOrEqual(t, pts[len(pts)-1].Pos.X, lastReal.X)
}

func TestModelerLinearPredictorTapersSize(t *testing.T) {
	m := NewModeler(prediction.NewLinearPredictor())
	require.NoError(t, m.Reset(camera.New(), brush.DefaultParams()))

	var path []geom.Point
	for i := 0; i < 8; i++ {
		path = append(path, geom.Pt(float32(i)*5, 0))
	}
	samples := strokeSamples(path, 0.01)
	for _, s := range samples[:len(samples)-1] {
		m.AddInputToModel(s)
	}
	drain(m)

	pts := m.PredictModelResults()
	require.Greater(t, len(pts), 1)
	first := pts[0].Tip.Radius
	last := pts[len(pts)-1].Tip.Radius
	assert.Less(t, last, first, "fallback prediction tapers the tip size")
}

func TestModelerPanicsOnProtocolViolations(t *testing.T) {
	t.Run("add before reset", func(t *testing.T) {
		m := NewModeler(nil)
		assert.Panics(t, func() {
			m.AddInputToModel(rawAt(0, 0, 0, 1))
		})
	})

	t.Run("first sample not a down", func(t *testing.T) {
		m := newTestModeler(t)
		assert.Panics(t, func() {
			m.AddInputToModel(rawAt(0, 0, 0, 1))
		})
	})

	t.Run("pop with no result", func(t *testing.T) {
		m := newTestModeler(t)
		assert.Panics(t, func() {
			m.PopNextModelResult()
		})
	})

	t.Run("add after stroke end", func(t *testing.T) {
		m := newTestModeler(t)
		for _, s := range strokeSamples([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0.01) {
			m.AddInputToModel(s)
		}
		assert.Panics(t, func() {
			m.AddInputToModel(rawAt(2, 2, 1, 1))
		})
	})
}
