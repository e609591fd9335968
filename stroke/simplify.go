package stroke

import "github.com/strokelab/ink/geom"

// Simplification runs over a bounded trailing window of border
// vertices rather than the whole outline, so the cost per extrusion is
// constant regardless of stroke length.
const (
	simplifyWindow  = 12
	simplifyEpsilon = 0.2 // screen pixels of allowed deviation
)

// simplifyTail collapses vertices in the last simplifyWindow entries of
// verts whose perpendicular deviation from the chord between the window
// endpoints is below epsilon. The window endpoints are always kept.
func simplifyTail(verts []Vertex, window int, epsilon float32) []Vertex {
	if len(verts) < 3 {
		return verts
	}
	start := len(verts) - window
	if start < 0 {
		start = 0
	}
	if len(verts)-start < 3 {
		return verts
	}

	a := verts[start].Pos
	b := verts[len(verts)-1].Pos

	kept := verts[:start+1]
	for i := start + 1; i < len(verts)-1; i++ {
		if perpDistance(verts[i].Pos, a, b) >= epsilon {
			kept = append(kept, verts[i])
		}
	}
	return append(kept, verts[len(verts)-1])
}

// perpDistance returns the perpendicular distance from p to the chord
// ab; for a degenerate chord it falls back to point distance.
func perpDistance(p, a, b geom.Point) float32 {
	ab := b.Sub(a)
	length := ab.Length()
	if length < 1e-6 {
		return p.Distance(a)
	}
	// Cross product magnitude over base length is the height.
	ap := p.Sub(a)
	d := ab.Cross(ap) / length
	if d < 0 {
		return -d
	}
	return d
}
