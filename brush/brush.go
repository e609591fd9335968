// Package brush holds the immutable per-stroke tip configuration.
//
// A Params value is supplied once at stroke start and never mutated
// during the stroke; the With* methods return modified copies. Presets
// can be loaded from TOML with LoadPresets.
package brush

import "fmt"

// ShapeBehavior selects how the tip radius responds to input while
// drawing.
type ShapeBehavior int

const (
	// ShapeFixed keeps the radius constant.
	ShapeFixed ShapeBehavior = iota
	// ShapeSpeed widens or narrows the tip with drawing speed.
	ShapeSpeed
	// ShapePressure scales the tip by stylus pressure.
	ShapePressure
	// ShapeTilt scales the tip by stylus tilt.
	ShapeTilt
	// ShapeOrientation shapes the minor radius by stylus barrel
	// orientation, like a calligraphy nib.
	ShapeOrientation
)

var shapeNames = map[string]ShapeBehavior{
	"fixed":       ShapeFixed,
	"speed":       ShapeSpeed,
	"pressure":    ShapePressure,
	"tilt":        ShapeTilt,
	"orientation": ShapeOrientation,
}

// String returns the lowercase name used in preset files.
func (b ShapeBehavior) String() string {
	for name, v := range shapeNames {
		if v == b {
			return name
		}
	}
	return "unknown"
}

// TipType selects the cross-section geometry of the tip.
type TipType int

const (
	// TipRound is a circular tip.
	TipRound TipType = iota
	// TipChisel is a flattened tip whose minor radius follows
	// SizeRatio.
	TipChisel
)

var tipNames = map[string]TipType{
	"round":  TipRound,
	"chisel": TipChisel,
}

// String returns the lowercase name used in preset files.
func (t TipType) String() string {
	for name, v := range tipNames {
		if v == t {
			return name
		}
	}
	return "unknown"
}

// Params is the full per-stroke tip configuration. The zero value is
// not usable; start from DefaultParams.
type Params struct {
	// Shape selects the radius behavior.
	Shape ShapeBehavior
	// Tip selects the cross-section geometry.
	Tip TipType

	// BaseRadius is the nominal tip radius in world units.
	BaseRadius float32
	// SizeRatio is the minor/major radius ratio in (0, 1].
	SizeRatio float32

	// SpeedLimit is the drawing speed, in cm/s, at which speed-based
	// sizing saturates.
	SpeedLimit float32
	// BaseSpeed is subtracted from the observed speed, in cm/s, before
	// speed-based sizing applies.
	BaseSpeed float32
	// TaperAmount is the fraction of BaseRadius the tip may shrink to
	// at full speed, in [0, 1]. 0 means the tip can vanish entirely.
	TaperAmount float32

	// Mass and Drag tune the mass-spring position smoothing. Mass is
	// the spring mass under a unit spring constant (units s²): smaller
	// is snappier. Drag is the velocity damping rate in 1/s; near
	// 2/sqrt(Mass) the spring is critically damped and will not
	// overshoot.
	Mass float32
	Drag float32

	// MinTurnVertices and MaxTurnVertices bound the number of vertices
	// inserted in a rounded turn fan; the actual count is interpolated
	// by the current screen radius.
	MinTurnVertices int
	MaxTurnVertices int

	// SplitThreshold is the number of outline mid-points after which
	// the growing segment is frozen and a fresh one started.
	SplitThreshold int

	// MinScreenTravel is the minimum screen-pixel distance between
	// extruded points; closer points are coalesced.
	MinScreenTravel float32

	// ExpandSmallStrokes replaces a degenerate tap stroke with a
	// single dilated dot.
	ExpandSmallStrokes bool

	// InterpolationPoints is the number of modeled sub-points
	// generated per accepted raw sample.
	InterpolationPoints int

	// MaxSampleHz gates raw samples arriving faster than this rate.
	MaxSampleHz float64

	// WobbleWindow is the jitter-filter averaging window in seconds.
	WobbleWindow float64
	// WobbleSlowSpeed and WobbleFastSpeed, in cm/s, bound the blend
	// between the averaged and the raw position: at or below slow the
	// averaged position wins, at or above fast the raw one does.
	WobbleSlowSpeed float32
	WobbleFastSpeed float32
}

// DefaultParams returns a medium round pen with speed-based sizing.
func DefaultParams() Params {
	return Params{
		Shape:               ShapeSpeed,
		Tip:                 TipRound,
		BaseRadius:          4,
		SizeRatio:           1,
		SpeedLimit:          25,
		BaseSpeed:           0.5,
		TaperAmount:         0.25,
		Mass:                0.0005,
		Drag:                90,
		MinTurnVertices:     2,
		MaxTurnVertices:     12,
		SplitThreshold:      64,
		MinScreenTravel:     1.5,
		ExpandSmallStrokes:  true,
		InterpolationPoints: 4,
		MaxSampleHz:         120,
		WobbleWindow:        0.04,
		WobbleSlowSpeed:     1.5,
		WobbleFastSpeed:     6,
	}
}

// WithShape returns a copy of the Params with the given shape behavior.
func (p Params) WithShape(b ShapeBehavior) Params {
	p.Shape = b
	return p
}

// WithTip returns a copy of the Params with the given tip type.
func (p Params) WithTip(t TipType) Params {
	p.Tip = t
	return p
}

// WithBaseRadius returns a copy of the Params with the given radius in
// world units.
func (p Params) WithBaseRadius(r float32) Params {
	p.BaseRadius = r
	return p
}

// WithExpandSmallStrokes returns a copy of the Params with dot
// expansion enabled or disabled.
func (p Params) WithExpandSmallStrokes(on bool) Params {
	p.ExpandSmallStrokes = on
	return p
}

// WithSplitThreshold returns a copy of the Params with the given
// segment split threshold.
func (p Params) WithSplitThreshold(n int) Params {
	p.SplitThreshold = n
	return p
}

// Validate reports the first configuration error, or nil.
func (p Params) Validate() error {
	switch {
	case p.BaseRadius <= 0:
		return fmt.Errorf("brush: base radius must be positive, got %v", p.BaseRadius)
	case p.SizeRatio <= 0 || p.SizeRatio > 1:
		return fmt.Errorf("brush: size ratio must be in (0, 1], got %v", p.SizeRatio)
	case p.TaperAmount < 0 || p.TaperAmount > 1:
		return fmt.Errorf("brush: taper amount must be in [0, 1], got %v", p.TaperAmount)
	case p.Mass <= 0:
		return fmt.Errorf("brush: mass must be positive, got %v", p.Mass)
	case p.Drag < 0:
		return fmt.Errorf("brush: drag must not be negative, got %v", p.Drag)
	case p.MinTurnVertices < 1 || p.MaxTurnVertices < p.MinTurnVertices:
		return fmt.Errorf("brush: turn vertex range [%d, %d] is invalid",
			p.MinTurnVertices, p.MaxTurnVertices)
	case p.SplitThreshold < 2:
		return fmt.Errorf("brush: split threshold must be at least 2, got %d", p.SplitThreshold)
	case p.MinScreenTravel < 0:
		return fmt.Errorf("brush: min screen travel must not be negative, got %v", p.MinScreenTravel)
	case p.InterpolationPoints < 1:
		return fmt.Errorf("brush: interpolation points must be at least 1, got %d", p.InterpolationPoints)
	case p.MaxSampleHz <= 0:
		return fmt.Errorf("brush: max sample rate must be positive, got %v", p.MaxSampleHz)
	case p.WobbleWindow < 0:
		return fmt.Errorf("brush: wobble window must not be negative, got %v", p.WobbleWindow)
	case p.WobbleFastSpeed < p.WobbleSlowSpeed:
		return fmt.Errorf("brush: wobble speed range [%v, %v] is invalid",
			p.WobbleSlowSpeed, p.WobbleFastSpeed)
	}
	return nil
}
