package model

import (
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/input"
)

type wobbleSample struct {
	time  float64
	pos   geom.Point // world
	speed float32    // cm/s
}

// wobbleFilter suppresses hand jitter with a time-windowed moving
// average of position and speed. Slow motion is pulled toward the
// average; fast motion passes through nearly raw, so deliberate quick
// strokes are not blunted.
type wobbleFilter struct {
	window    float64
	slowSpeed float32
	fastSpeed float32

	samples  []wobbleSample
	sumPos   geom.Vec
	sumSpeed float32
}

func newWobbleFilter(window float64, slow, fast float32) wobbleFilter {
	return wobbleFilter{window: window, slowSpeed: slow, fastSpeed: fast}
}

// reset drops all history. Called on every down event; the filter must
// never smear one stroke into the next.
func (w *wobbleFilter) reset() {
	w.samples = w.samples[:0]
	w.sumPos = geom.Vec{}
	w.sumSpeed = 0
}

// filter returns the corrected world position for a move sample.
// Down and up samples must not be passed through the filter.
func (w *wobbleFilter) filter(s input.RawSample, cam *camera.Camera) geom.Point {
	dt := s.DeltaTime()
	var speed float32
	if dt > 0 {
		distCm := cam.ConvertDistance(s.DeltaScreen().Length(),
			camera.UnitScreenPixels, camera.UnitCentimeters)
		speed = distCm / float32(dt)
	}

	w.push(wobbleSample{time: s.Time, pos: s.WorldPos, speed: speed})
	w.evict(s.Time - w.window)

	n := float32(len(w.samples))
	avgPos := w.sumPos.Scale(1 / n).ToPoint()
	avgSpeed := w.sumSpeed / n

	// Speed-normalized weight: 0 at slow (fully averaged), 1 at fast
	// (fully raw).
	t := float32(1)
	if span := w.fastSpeed - w.slowSpeed; span > 0 {
		t = clamp01((avgSpeed - w.slowSpeed) / span)
	}
	return avgPos.Lerp(s.WorldPos, t)
}

func (w *wobbleFilter) push(s wobbleSample) {
	w.samples = append(w.samples, s)
	w.sumPos = w.sumPos.Add(s.pos.Vec())
	w.sumSpeed += s.speed
}

func (w *wobbleFilter) evict(before float64) {
	i := 0
	for i < len(w.samples)-1 && w.samples[i].time < before {
		w.sumPos = w.sumPos.Sub(w.samples[i].pos.Vec())
		w.sumSpeed -= w.samples[i].speed
		i++
	}
	if i > 0 {
		w.samples = append(w.samples[:0], w.samples[i:]...)
	}
}
