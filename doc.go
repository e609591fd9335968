// Package ink turns raw pointer and stylus input into renderable stroke
// geometry in real time, while the user is still drawing.
//
// # Overview
//
// The pipeline runs front to back:
//
//	input.Dispatcher -> model.Modeler -> stroke.Builder -> mesh geometry
//
// The dispatcher routes each raw sample to the consumer that has captured
// its stream. The modeler smooths the samples through a damped mass-spring
// simulation, fabricates a short predicted tail to hide input latency, and
// emits an append-only queue of modeled points. The stroke builder extrudes
// modeled points into a two-sided outline with turn fans and caps, freezing
// finished segments so the per-frame re-tessellation cost stays constant no
// matter how long the stroke grows.
//
// # Quick Start
//
//	cam := camera.New(camera.WithPPI(132))
//	m := model.NewModeler(prediction.NewKalmanPredictor())
//	m.Reset(cam, brush.DefaultParams())
//	b, _ := stroke.NewBuilder(brush.DefaultParams(), stroke.RGB(0, 0, 0))
//
//	for _, s := range samples {
//	    m.AddInputToModel(s)
//	    var pts []model.ModeledInput
//	    for m.HasModelResult() {
//	        pts = append(pts, m.PopNextModelResult())
//	    }
//	    b.ExtrudeModeledInput(cam, pts, s.Flags.Has(input.FlagUp))
//	    b.ConstructPrediction(cam, m.PredictModelResults())
//	}
//
// # Architecture
//
// The library is organized into:
//   - geom: float32 points, vectors, and affine transforms
//   - camera: coordinate and unit conversion between world, screen, cm, dp
//   - input: raw sample validation, correction, and capture-based dispatch
//   - brush: immutable per-stroke tip configuration and TOML presets
//   - model: tip dynamics, wobble filtering, and input modeling
//   - model/prediction: pluggable input predictors (Kalman provided)
//   - stroke: outline extrusion, simplification, and segment management
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left of the screen
//   - X increases right
//   - Y increases down
//   - Angles in radians, 0 is right, increases counter-clockwise
//
// # Concurrency
//
// Everything runs single-threaded inside the caller's frame: there are no
// background goroutines, and every entry point does a bounded amount of
// work per input event.
package ink

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
