package stroke

import (
	"github.com/chewxy/math32"

	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/model"
)

// tipModel isolates the per-tip-type geometry: how far the borders sit
// from the center line and what shape the caps take.
type tipModel interface {
	// halfWidth returns the border offset from the center line for a
	// stroke travelling along dir.
	halfWidth(dir geom.Vec, tip model.TipSizeScreen) float32

	// capPoints returns the cap arc from the border point at angle
	// start to the one at angle end (radians around center), exclusive
	// of both endpoints. segments controls roundness.
	capPoints(center geom.Point, radius float32, start, end float32, segments int) []geom.Point
}

func tipModelFor(t brush.TipType) tipModel {
	if t == brush.TipChisel {
		return chiselTip{}
	}
	return roundTip{}
}

// roundTip is a circular cross-section: full major radius across the
// track, semicircular caps.
type roundTip struct{}

func (roundTip) halfWidth(dir geom.Vec, tip model.TipSizeScreen) float32 {
	return tip.Radius
}

func (roundTip) capPoints(center geom.Point, radius float32, start, end float32, segments int) []geom.Point {
	if segments < 2 {
		segments = 2
	}
	pts := make([]geom.Point, 0, segments-1)
	for i := 1; i < segments; i++ {
		a := start + (end-start)*float32(i)/float32(segments)
		pts = append(pts, center.Add(geom.FromAngle(a).Scale(radius)))
	}
	return pts
}

// chiselTip is a flattened nib: the across-track width follows the
// minor radius and caps are squared off.
type chiselTip struct{}

func (chiselTip) halfWidth(dir geom.Vec, tip model.TipSizeScreen) float32 {
	return math32.Max(tip.RadiusMinor, hairlineHalfWidth)
}

func (chiselTip) capPoints(center geom.Point, radius float32, start, end float32, segments int) []geom.Point {
	// One corner point at the middle angle gives a flat end with a
	// slight chamfer.
	mid := start + (end-start)/2
	return []geom.Point{center.Add(geom.FromAngle(mid).Scale(radius))}
}

// hairlineHalfWidth keeps degenerate tips renderable.
const hairlineHalfWidth = 0.25
