package stroke

import (
	"github.com/chewxy/math32"

	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/model"
)

// turnRadiusRef is the screen radius, in pixels, at which a turn fan
// uses the full MaxTurnVertices count.
const turnRadiusRef = 20.0

type outlineState int

const (
	outlineEmpty outlineState = iota
	outlineAccumulating
	outlineCapped
)

// Outline incrementally extrudes modeled points into two border
// polylines plus start and end caps. An outline accumulates points
// until BuildEndCap seals it; extruding into a sealed outline is a
// caller bug and panics. Clear returns the outline to the empty state
// so it can be reused without reallocating.
type Outline struct {
	params brush.Params
	tip    tipModel
	color  RGBA

	state outlineState

	// left and right follow the stroke direction: left is the +90°
	// side of travel. Vertices on each side are ordered by time.
	left, right []Vertex
	mids        []MidPoint

	startCap, endCap []Vertex

	// cam is the camera of the most recent Extrude, used to place cap
	// vertices in world units.
	cam       *camera.Camera
	lastDir   geom.Vec
	hasDir    bool
	minRadius float32
	maxRadius float32
}

// NewOutline creates an empty outline for the given brush and color.
func NewOutline(params brush.Params, color RGBA) *Outline {
	return &Outline{
		params: params,
		tip:    tipModelFor(params.Tip),
		color:  color,
	}
}

// Clear resets the outline to empty, retaining its brush, color, and
// allocated storage.
func (o *Outline) Clear() {
	o.state = outlineEmpty
	o.left = o.left[:0]
	o.right = o.right[:0]
	o.mids = o.mids[:0]
	o.startCap = o.startCap[:0]
	o.endCap = o.endCap[:0]
	o.lastDir = geom.Vec{}
	o.hasDir = false
	o.minRadius = 0
	o.maxRadius = 0
}

// MidCount returns the number of accepted center-line points.
func (o *Outline) MidCount() int { return len(o.mids) }

// Mids returns the accepted center-line points. The slice is owned by
// the outline and valid until the next Extrude or Clear.
func (o *Outline) Mids() []MidPoint { return o.mids }

// LastMid returns the most recent center-line point. It panics on an
// empty outline.
func (o *Outline) LastMid() MidPoint {
	if len(o.mids) == 0 {
		panic("stroke: LastMid on empty outline")
	}
	return o.mids[len(o.mids)-1]
}

// Sealed reports whether BuildEndCap has been called.
func (o *Outline) Sealed() bool { return o.state == outlineCapped }

// MinScreenRadius and MaxScreenRadius return the extreme tip radii
// seen so far, in screen pixels.
func (o *Outline) MinScreenRadius() float32 { return o.minRadius }
func (o *Outline) MaxScreenRadius() float32 { return o.maxRadius }

// Extrude appends one modeled point to the outline. Points closer than
// MinScreenTravel to the previous one are rejected unless force is
// set; the return value reports whether the point was accepted. When
// simplify is set the trailing border window is re-simplified after
// the append. Extrude panics if the outline is sealed.
func (o *Outline) Extrude(cam *camera.Camera, mi model.ModeledInput, force, simplify bool) bool {
	if o.state == outlineCapped {
		panic("stroke: Extrude on sealed outline")
	}
	o.cam = cam

	mid := MidPoint{
		Screen: cam.ConvertPosition(mi.Pos, camera.CoordWorld, camera.CoordScreen),
		World:  mi.Pos,
		Tip:    mi.Tip.ToScreen(cam),
		Time:   mi.Time,
		Stylus: mi.Stylus,
	}

	if o.state == outlineEmpty {
		o.mids = append(o.mids, mid)
		o.minRadius = mid.Tip.Radius
		o.maxRadius = mid.Tip.Radius
		o.buildDotCap(mid)
		o.state = outlineAccumulating
		return true
	}

	prev := o.mids[len(o.mids)-1]
	delta := mid.Screen.Sub(prev.Screen)
	if delta.Length() < o.params.MinScreenTravel && !force {
		return false
	}

	dir := delta.Normalize()
	if dir == (geom.Vec{}) {
		if !o.hasDir {
			// Coincident with the dot origin; nothing to extrude.
			return false
		}
		dir = o.lastDir
	}

	if !o.hasDir {
		// First real segment: replace the provisional dot cap with a
		// back-facing start cap and open the borders at the origin.
		o.startCap = o.startCap[:0]
		o.buildStartCap(prev, dir)
		o.appendBorderPair(prev, dir)
	} else if turn := o.lastDir.Cross(dir); turn != 0 {
		o.buildTurnFan(prev, o.lastDir, dir, turn)
	}

	o.appendBorderPair(mid, dir)
	o.mids = append(o.mids, mid)
	o.lastDir = dir
	o.hasDir = true
	o.minRadius = math32.Min(o.minRadius, mid.Tip.Radius)
	o.maxRadius = math32.Max(o.maxRadius, mid.Tip.Radius)

	if simplify {
		o.left = simplifyTail(o.left, simplifyWindow, simplifyEpsilon)
		o.right = simplifyTail(o.right, simplifyWindow, simplifyEpsilon)
	}
	return true
}

// BuildEndCap seals the outline. A single-point outline keeps its full
// dot cap and gains no end cap. BuildEndCap on an empty outline is a
// no-op that still seals it.
func (o *Outline) BuildEndCap() {
	if o.state == outlineCapped {
		return
	}
	if o.hasDir {
		last := o.mids[len(o.mids)-1]
		hw := o.tip.halfWidth(o.lastDir, last.Tip)
		heading := o.lastDir.Angle()
		// Front cap sweeps from the right border through the heading
		// to the left border.
		for _, p := range o.tip.capPoints(last.Screen, hw, heading-halfPi, heading+halfPi, o.capSegments(hw)) {
			o.endCap = append(o.endCap, o.vertexAt(p, last))
		}
	}
	o.state = outlineCapped
}

// SetStartCapToLineBack seeds this outline from the trailing edge of
// other so the two tessellate without a visible seam. The receiver
// must be empty; other must have at least one point.
func (o *Outline) SetStartCapToLineBack(other *Outline) {
	if o.state != outlineEmpty {
		panic("stroke: SetStartCapToLineBack on non-empty outline")
	}
	if len(other.mids) == 0 {
		panic("stroke: SetStartCapToLineBack from empty outline")
	}
	last := other.mids[len(other.mids)-1]
	o.cam = other.cam
	o.mids = append(o.mids, last)
	o.minRadius = last.Tip.Radius
	o.maxRadius = last.Tip.Radius
	if other.hasDir {
		o.left = append(o.left, other.left[len(other.left)-1])
		o.right = append(o.right, other.right[len(other.right)-1])
		o.lastDir = other.lastDir
		o.hasDir = true
	} else {
		// Predecessor is still a dot; start from its cap as usual.
		o.buildDotCap(last)
	}
	o.state = outlineAccumulating
}

const halfPi = math32.Pi / 2

// capSegments scales cap roundness with the on-screen radius.
func (o *Outline) capSegments(radius float32) int {
	return o.fanCount(radius) + 1
}

// fanCount interpolates the turn-fan vertex budget by screen radius.
func (o *Outline) fanCount(radius float32) int {
	t := radius / turnRadiusRef
	if t > 1 {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	lo, hi := o.params.MinTurnVertices, o.params.MaxTurnVertices
	return lo + int(math32.Round(float32(hi-lo)*t))
}

func (o *Outline) vertexAt(p geom.Point, mid MidPoint) Vertex {
	world := mid.World
	if o.cam != nil {
		world = o.cam.ConvertPosition(p, camera.CoordScreen, camera.CoordWorld)
	}
	return Vertex{
		Pos:      p,
		World:    world,
		Color:    o.color,
		Time:     mid.Time,
		Radius:   mid.Tip.Radius,
		Pressure: mid.Stylus.Pressure,
	}
}

// rebuildAsDot discards the accumulated geometry and replaces it with
// a single dot at the first point, with both radii scaled.
func (o *Outline) rebuildAsDot(scale float32) {
	if len(o.mids) == 0 {
		return
	}
	mid := o.mids[0]
	mid.Tip.Radius *= scale
	mid.Tip.RadiusMinor *= scale
	o.Clear()
	o.mids = append(o.mids, mid)
	o.minRadius = mid.Tip.Radius
	o.maxRadius = mid.Tip.Radius
	o.buildDotCap(mid)
	o.state = outlineAccumulating
}

// buildDotCap emits a full-circle fan so a single-point outline still
// tessellates to a visible dot.
func (o *Outline) buildDotCap(mid MidPoint) {
	r := math32.Max(mid.Tip.Radius, hairlineHalfWidth)
	n := o.capSegments(r) * 2
	if n < 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		a := 2 * math32.Pi * float32(i) / float32(n)
		o.startCap = append(o.startCap, o.vertexAt(mid.Screen.Add(geom.FromAngle(a).Scale(r)), mid))
	}
}

// buildStartCap emits the back-facing arc from the left border around
// the rear to the right border.
func (o *Outline) buildStartCap(mid MidPoint, dir geom.Vec) {
	hw := o.tip.halfWidth(dir, mid.Tip)
	heading := dir.Angle()
	for _, p := range o.tip.capPoints(mid.Screen, hw, heading+halfPi, heading+3*halfPi, o.capSegments(hw)) {
		o.startCap = append(o.startCap, o.vertexAt(p, mid))
	}
}

// buildTurnFan rounds the outer side of a direction change at mid.
// turn is the cross product of the previous and new directions: a
// positive turn bends left, so the fan goes on the right border.
func (o *Outline) buildTurnFan(mid MidPoint, prevDir, dir geom.Vec, turn float32) {
	hw := o.tip.halfWidth(dir, mid.Tip)
	sweep := angleBetween(prevDir, dir)
	n := int(math32.Round(float32(o.fanCount(hw)) * math32.Abs(sweep) / math32.Pi))
	if n < 1 {
		return
	}
	var from, to float32
	if turn > 0 {
		from = prevDir.Angle() - halfPi
		to = from + sweep
	} else {
		from = prevDir.Angle() + halfPi
		to = from + sweep
	}
	for i := 1; i <= n; i++ {
		a := from + (to-from)*float32(i)/float32(n+1)
		v := o.vertexAt(mid.Screen.Add(geom.FromAngle(a).Scale(hw)), mid)
		if turn > 0 {
			o.right = append(o.right, v)
		} else {
			o.left = append(o.left, v)
		}
	}
}

// angleBetween returns the signed angle from a to b in (-pi, pi].
func angleBetween(a, b geom.Vec) float32 {
	return math32.Atan2(a.Cross(b), a.Dot(b))
}

// appendBorderPair emits the left and right border vertices of mid for
// a stroke travelling along dir.
func (o *Outline) appendBorderPair(mid MidPoint, dir geom.Vec) {
	hw := o.tip.halfWidth(dir, mid.Tip)
	if hw < hairlineHalfWidth {
		hw = hairlineHalfWidth
	}
	perp := dir.Perp()
	o.left = append(o.left, o.vertexAt(mid.Screen.Add(perp.Scale(hw)), mid))
	o.right = append(o.right, o.vertexAt(mid.Screen.Add(perp.Scale(-hw)), mid))
}
