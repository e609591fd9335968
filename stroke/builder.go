package stroke

import (
	"github.com/google/uuid"

	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/model"
)

const (
	// dotExpandScale dilates the radius of a tap stroke that gets
	// replaced by a single dot.
	dotExpandScale = 1.5
	// dotTravelFactor times MinScreenTravel is the total screen travel
	// below which a finished stroke counts as a tap.
	dotTravelFactor = 2
)

// Builder accumulates one stroke's worth of modeled input into
// outline segments. A growing segment is frozen once it reaches the
// brush's SplitThreshold and a new one is chained onto its trailing
// edge, so per-input cost stays bounded: frozen segments are
// tessellated once and never revisited.
//
// A Builder additionally maintains a throwaway prediction outline that
// is rebuilt from scratch on every ConstructPrediction call and
// discarded when real input arrives.
type Builder struct {
	id     uuid.UUID
	params brush.Params
	color  RGBA

	completed       []*Outline
	completedMeshes []*Mesh
	unstable        *Outline
	prediction      *Outline

	travel   float32
	finished bool
}

// NewBuilder creates a builder for one stroke. The params are
// validated once here; a Builder never revalidates them.
func NewBuilder(params brush.Params, color RGBA) (*Builder, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		id:         uuid.New(),
		params:     params,
		color:      color,
		unstable:   NewOutline(params, color),
		prediction: NewOutline(params, color),
	}, nil
}

// ID returns the stroke's unique identifier.
func (b *Builder) ID() uuid.UUID { return b.id }

// Finished reports whether the final input has been extruded.
func (b *Builder) Finished() bool { return b.finished }

// CompletedOutlines returns the frozen segments in stroke order. The
// slice and its outlines are owned by the builder.
func (b *Builder) CompletedOutlines() []*Outline { return b.completed }

// CompletedMeshes returns one tessellated mesh per frozen segment.
func (b *Builder) CompletedMeshes() []*Mesh { return b.completedMeshes }

// UnstableOutline returns the still-growing segment. Callers
// re-tessellate it each frame; it holds at most SplitThreshold points.
func (b *Builder) UnstableOutline() *Outline { return b.unstable }

// PredictionOutline returns the current prediction geometry, or an
// empty outline when no prediction is active.
func (b *Builder) PredictionOutline() *Outline { return b.prediction }

// ExtrudeModeledInput appends modeled points to the stroke. last marks
// the stroke's final batch: the closing point is extruded regardless
// of travel distance, tap strokes are expanded to dots when the brush
// asks for it, and the stroke is sealed. Calling ExtrudeModeledInput
// after last is a caller bug and panics.
func (b *Builder) ExtrudeModeledInput(cam *camera.Camera, points []model.ModeledInput, last bool) {
	if b.finished {
		panic("stroke: ExtrudeModeledInput on finished builder")
	}
	b.prediction.Clear()

	for i, p := range points {
		force := last && i == len(points)-1
		before := b.unstable.MidCount()
		prevMid := MidPoint{}
		if before > 0 {
			prevMid = b.unstable.LastMid()
		}
		if !b.unstable.Extrude(cam, p, force, true) {
			continue
		}
		if before > 0 {
			b.travel += b.unstable.LastMid().Screen.Distance(prevMid.Screen)
		}
		if b.unstable.MidCount() >= b.params.SplitThreshold && !last {
			b.freezeUnstable()
		}
	}

	if last {
		b.finish()
	}
}

// ConstructPrediction rebuilds the prediction outline from the given
// predicted points, chained onto the unstable segment's trailing edge.
// The previous prediction is always discarded first. Predictions on a
// finished or not-yet-started stroke are ignored.
func (b *Builder) ConstructPrediction(cam *camera.Camera, points []model.ModeledInput) {
	b.prediction.Clear()
	if b.finished || b.unstable.MidCount() == 0 || len(points) == 0 {
		return
	}
	b.prediction.SetStartCapToLineBack(b.unstable)
	for i, p := range points {
		b.prediction.Extrude(cam, p, i == len(points)-1, false)
	}
	b.prediction.BuildEndCap()
}

// freezeUnstable seals the growing segment, caches its mesh, and
// chains a fresh segment onto its trailing edge.
func (b *Builder) freezeUnstable() {
	b.unstable.BuildEndCap()
	mesh := &Mesh{}
	b.unstable.Tessellate(mesh)
	b.completed = append(b.completed, b.unstable)
	b.completedMeshes = append(b.completedMeshes, mesh)

	next := NewOutline(b.params, b.color)
	next.SetStartCapToLineBack(b.unstable)
	b.unstable = next
}

func (b *Builder) finish() {
	if b.params.ExpandSmallStrokes && len(b.completed) == 0 &&
		b.travel < b.params.MinScreenTravel*dotTravelFactor {
		b.unstable.rebuildAsDot(dotExpandScale)
	}
	b.unstable.BuildEndCap()
	mesh := &Mesh{}
	b.unstable.Tessellate(mesh)
	b.completed = append(b.completed, b.unstable)
	b.completedMeshes = append(b.completedMeshes, mesh)
	b.unstable = NewOutline(b.params, b.color)
	b.finished = true
}
