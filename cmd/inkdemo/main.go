// Command inkdemo runs a synthetic stylus stroke through the full
// modeling pipeline and reports what comes out the other end.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/strokelab/ink"
	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/input"
	"github.com/strokelab/ink/model"
	"github.com/strokelab/ink/stroke"
)

func main() {
	var (
		presetFile = flag.String("presets", "", "TOML brush preset file")
		presetName = flag.String("brush", "", "preset name to use")
		points     = flag.Int("points", 120, "raw samples in the synthetic stroke")
		hz         = flag.Float64("hz", 120, "sample rate of the synthetic stroke")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		ink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	params, err := loadBrush(*presetFile, *presetName)
	if err != nil {
		log.Fatalf("load brush: %v", err)
	}

	cam := camera.New()
	modeler := model.NewModeler(nil)
	if err := modeler.Reset(cam, params); err != nil {
		log.Fatalf("reset modeler: %v", err)
	}
	builder, err := stroke.NewBuilder(params, stroke.RGB(0.1, 0.1, 0.8))
	if err != nil {
		log.Fatalf("new builder: %v", err)
	}

	modeled := 0
	for _, s := range sineStroke(*points, *hz) {
		modeler.AddInputToModel(s)

		var batch []model.ModeledInput
		for modeler.HasModelResult() {
			batch = append(batch, modeler.PopNextModelResult())
		}
		modeled += len(batch)
		if len(batch) > 0 {
			builder.ExtrudeModeledInput(cam, batch, s.Flags.Has(input.FlagUp))
		}
		if !s.Flags.Has(input.FlagUp) {
			builder.ConstructPrediction(cam, modeler.PredictModelResults())
		}
	}

	tris := 0
	for _, m := range builder.CompletedMeshes() {
		tris += m.TriangleCount()
	}
	log.Printf("stroke %s: %d raw samples, %d modeled points, %d segments, %d triangles",
		builder.ID(), *points, modeled, len(builder.CompletedOutlines()), tris)
}

func loadBrush(file, name string) (brush.Params, error) {
	if file == "" {
		return brush.DefaultParams(), nil
	}
	f, err := os.Open(file)
	if err != nil {
		return brush.Params{}, err
	}
	defer f.Close()

	presets, err := brush.LoadPresets(f)
	if err != nil {
		return brush.Params{}, err
	}
	if p, ok := presets[name]; ok {
		return p, nil
	}
	log.Printf("preset %q not found, using defaults", name)
	return brush.DefaultParams(), nil
}

// sineStroke synthesizes a left-to-right sine wave with pressure
// rising toward the middle of the stroke.
func sineStroke(n int, hz float64) []input.RawSample {
	dt := 1 / hz
	out := make([]input.RawSample, 0, n)
	var last input.RawSample
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		pos := geom.Pt(
			float32(20+400*float64(i)/float64(n-1)),
			float32(200+60*math.Sin(float64(i)*0.15)),
		)
		s := input.RawSample{
			Device:    input.DevicePen,
			ID:        1,
			Flags:     input.FlagInContact,
			ScreenPos: pos,
			WorldPos:  pos,
			Time:      t,
			Pressure:  float32(0.4 + 0.5*math.Sin(math.Pi*float64(i)/float64(n-1))),
		}
		switch i {
		case 0:
			s.Flags = s.Flags.Set(input.FlagDown)
			s.LastScreenPos = pos
			s.LastWorldPos = pos
			s.LastTime = t
		case n - 1:
			s.Flags = s.Flags.Clear(input.FlagInContact).Set(input.FlagUp)
			fallthrough
		default:
			s.LastScreenPos = last.ScreenPos
			s.LastWorldPos = last.WorldPos
			s.LastTime = last.Time
		}
		last = s
		out = append(out, s)
	}
	return out
}
