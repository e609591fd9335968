package brush

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// preset is the TOML shape of one named brush. Omitted fields fall
// back to DefaultParams.
type preset struct {
	Shape               *string  `toml:"shape"`
	Tip                 *string  `toml:"tip"`
	BaseRadius          *float32 `toml:"base_radius"`
	SizeRatio           *float32 `toml:"size_ratio"`
	SpeedLimit          *float32 `toml:"speed_limit"`
	BaseSpeed           *float32 `toml:"base_speed"`
	TaperAmount         *float32 `toml:"taper_amount"`
	Mass                *float32 `toml:"mass"`
	Drag                *float32 `toml:"drag"`
	MinTurnVertices     *int     `toml:"min_turn_vertices"`
	MaxTurnVertices     *int     `toml:"max_turn_vertices"`
	SplitThreshold      *int     `toml:"split_threshold"`
	MinScreenTravel     *float32 `toml:"min_screen_travel"`
	ExpandSmallStrokes  *bool    `toml:"expand_small_strokes"`
	InterpolationPoints *int     `toml:"interpolation_points"`
	MaxSampleHz         *float64 `toml:"max_sample_hz"`
	WobbleWindow        *float64 `toml:"wobble_window"`
	WobbleSlowSpeed     *float32 `toml:"wobble_slow_speed"`
	WobbleFastSpeed     *float32 `toml:"wobble_fast_speed"`
}

// LoadPresets decodes a TOML document of named brush presets into
// validated Params values. Each top-level table is one preset:
//
//	[marker]
//	shape = "fixed"
//	base_radius = 8.0
//
//	[calligraphy]
//	shape = "orientation"
//	tip = "chisel"
//	size_ratio = 0.3
//
// Fields not present in a preset keep their DefaultParams value.
func LoadPresets(r io.Reader) (map[string]Params, error) {
	var doc map[string]preset
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("brush: decoding presets: %w", err)
	}

	out := make(map[string]Params, len(doc))
	for name, pre := range doc {
		p, err := pre.apply(DefaultParams())
		if err != nil {
			return nil, fmt.Errorf("brush: preset %q: %w", name, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

func (pre preset) apply(p Params) (Params, error) {
	if pre.Shape != nil {
		b, ok := shapeNames[*pre.Shape]
		if !ok {
			return p, fmt.Errorf("unknown shape %q", *pre.Shape)
		}
		p.Shape = b
	}
	if pre.Tip != nil {
		t, ok := tipNames[*pre.Tip]
		if !ok {
			return p, fmt.Errorf("unknown tip %q", *pre.Tip)
		}
		p.Tip = t
	}
	if pre.BaseRadius != nil {
		p.BaseRadius = *pre.BaseRadius
	}
	if pre.SizeRatio != nil {
		p.SizeRatio = *pre.SizeRatio
	}
	if pre.SpeedLimit != nil {
		p.SpeedLimit = *pre.SpeedLimit
	}
	if pre.BaseSpeed != nil {
		p.BaseSpeed = *pre.BaseSpeed
	}
	if pre.TaperAmount != nil {
		p.TaperAmount = *pre.TaperAmount
	}
	if pre.Mass != nil {
		p.Mass = *pre.Mass
	}
	if pre.Drag != nil {
		p.Drag = *pre.Drag
	}
	if pre.MinTurnVertices != nil {
		p.MinTurnVertices = *pre.MinTurnVertices
	}
	if pre.MaxTurnVertices != nil {
		p.MaxTurnVertices = *pre.MaxTurnVertices
	}
	if pre.SplitThreshold != nil {
		p.SplitThreshold = *pre.SplitThreshold
	}
	if pre.MinScreenTravel != nil {
		p.MinScreenTravel = *pre.MinScreenTravel
	}
	if pre.ExpandSmallStrokes != nil {
		p.ExpandSmallStrokes = *pre.ExpandSmallStrokes
	}
	if pre.InterpolationPoints != nil {
		p.InterpolationPoints = *pre.InterpolationPoints
	}
	if pre.MaxSampleHz != nil {
		p.MaxSampleHz = *pre.MaxSampleHz
	}
	if pre.WobbleWindow != nil {
		p.WobbleWindow = *pre.WobbleWindow
	}
	if pre.WobbleSlowSpeed != nil {
		p.WobbleSlowSpeed = *pre.WobbleSlowSpeed
	}
	if pre.WobbleFastSpeed != nil {
		p.WobbleFastSpeed = *pre.WobbleFastSpeed
	}
	return p, nil
}
