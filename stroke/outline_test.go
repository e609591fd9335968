package stroke

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strokelab/ink/brush"
	"github.com/strokelab/ink/camera"
	"github.com/strokelab/ink/geom"
	"github.com/strokelab/ink/model"
)

func modeledAt(x, y float32, t float64, radius float32) model.ModeledInput {
	return model.ModeledInput{
		Pos:  geom.Pt(x, y),
		Time: t,
		Tip:  model.TipSizeWorld{Radius: radius, RadiusMinor: radius / 2},
	}
}

func testOutline() *Outline {
	return NewOutline(brush.DefaultParams(), RGB(0, 0, 0))
}

func TestOutlineDot(t *testing.T) {
	cam := camera.New()
	o := testOutline()

	require.True(t, o.Extrude(cam, modeledAt(10, 10, 0, 3), false, false))
	assert.Equal(t, 1, o.MidCount())

	var m Mesh
	o.Tessellate(&m)
	assert.Greater(t, m.TriangleCount(), 2)
	for _, v := range m.Vertices {
		assert.InDelta(t, 10, v.Pos.X, 3.01)
		assert.InDelta(t, 10, v.Pos.Y, 3.01)
	}
}

func TestOutlineRejectsShortTravel(t *testing.T) {
	cam := camera.New()
	o := testOutline()

	require.True(t, o.Extrude(cam, modeledAt(0, 0, 0, 3), false, false))
	assert.False(t, o.Extrude(cam, modeledAt(0.5, 0, 0.01, 3), false, false))
	assert.Equal(t, 1, o.MidCount())

	// force overrides the travel threshold.
	assert.True(t, o.Extrude(cam, modeledAt(0.5, 0, 0.01, 3), true, false))
	assert.Equal(t, 2, o.MidCount())
}

func TestOutlineBordersStraddleCenter(t *testing.T) {
	cam := camera.New()
	o := testOutline()

	o.Extrude(cam, modeledAt(0, 0, 0, 2), false, false)
	o.Extrude(cam, modeledAt(20, 0, 0.01, 2), false, false)
	o.Extrude(cam, modeledAt(40, 0, 0.02, 2), false, false)

	require.GreaterOrEqual(t, len(o.left), 3)
	require.GreaterOrEqual(t, len(o.right), 3)
	for _, v := range o.left {
		assert.InDelta(t, 2, v.Pos.Y, 1e-4, "left border above center line")
	}
	for _, v := range o.right {
		assert.InDelta(t, -2, v.Pos.Y, 1e-4, "right border below center line")
	}
}

func TestOutlineTurnFanOnOuterSide(t *testing.T) {
	cam := camera.New()
	o := testOutline()

	// Right-angle turn to the left at (40, 0): the fan goes on the
	// right border.
	o.Extrude(cam, modeledAt(0, 0, 0, 4), false, false)
	o.Extrude(cam, modeledAt(40, 0, 0.01, 4), false, false)
	leftBefore, rightBefore := len(o.left), len(o.right)
	o.Extrude(cam, modeledAt(40, 40, 0.02, 4), false, false)

	assert.Equal(t, leftBefore+1, len(o.left))
	assert.Greater(t, len(o.right), rightBefore+1, "turn fan inserted on outer side")
}

func TestOutlineExtrudeAfterSealPanics(t *testing.T) {
	cam := camera.New()
	o := testOutline()

	o.Extrude(cam, modeledAt(0, 0, 0, 3), false, false)
	o.Extrude(cam, modeledAt(20, 0, 0.01, 3), false, false)
	o.BuildEndCap()
	require.True(t, o.Sealed())

	assert.Panics(t, func() {
		o.Extrude(cam, modeledAt(40, 0, 0.02, 3), false, false)
	})
}

func TestOutlineClearReopens(t *testing.T) {
	cam := camera.New()
	o := testOutline()

	o.Extrude(cam, modeledAt(0, 0, 0, 3), false, false)
	o.BuildEndCap()
	o.Clear()

	assert.Equal(t, 0, o.MidCount())
	assert.False(t, o.Sealed())
	assert.True(t, o.Extrude(cam, modeledAt(5, 5, 0, 3), false, false))
}

func TestOutlineSeamChaining(t *testing.T) {
	cam := camera.New()
	first := testOutline()
	first.Extrude(cam, modeledAt(0, 0, 0, 3), false, false)
	first.Extrude(cam, modeledAt(30, 0, 0.01, 3), false, false)
	first.BuildEndCap()

	next := testOutline()
	next.SetStartCapToLineBack(first)

	// The chained outline starts exactly where the first ended, border
	// vertices included, so tessellation leaves no gap.
	require.Equal(t, 1, next.MidCount())
	assert.Equal(t, first.LastMid().Screen, next.LastMid().Screen)
	require.Len(t, next.left, 1)
	require.Len(t, next.right, 1)
	assert.Equal(t, first.left[len(first.left)-1].Pos, next.left[0].Pos)
	assert.Equal(t, first.right[len(first.right)-1].Pos, next.right[0].Pos)

	assert.True(t, next.Extrude(cam, modeledAt(60, 0, 0.02, 3), false, false))
}

func TestOutlineRadiusTracking(t *testing.T) {
	cam := camera.New()
	o := testOutline()

	o.Extrude(cam, modeledAt(0, 0, 0, 2), false, false)
	o.Extrude(cam, modeledAt(20, 0, 0.01, 5), false, false)
	o.Extrude(cam, modeledAt(40, 0, 0.02, 1), false, false)

	assert.Equal(t, float32(1), o.MinScreenRadius())
	assert.Equal(t, float32(5), o.MaxScreenRadius())
}

func TestOutlineEndCapClosesFront(t *testing.T) {
	cam := camera.New()
	o := testOutline()

	o.Extrude(cam, modeledAt(0, 0, 0, 4), false, false)
	o.Extrude(cam, modeledAt(30, 0, 0.01, 4), false, false)
	o.BuildEndCap()

	require.NotEmpty(t, o.endCap)
	for _, v := range o.endCap {
		assert.Greater(t, v.Pos.X, float32(30), "end cap bulges past the last point")
	}
}

func TestSimplifyTailCollapsesCollinear(t *testing.T) {
	verts := make([]Vertex, 0, 10)
	for i := 0; i < 10; i++ {
		verts = append(verts, Vertex{Pos: geom.Pt(float32(i), 0), Time: float64(i)})
	}
	out := simplifyTail(verts, 8, 0.1)

	assert.Less(t, len(out), len(verts))
	assert.Equal(t, geom.Pt(0, 0), out[0].Pos)
	assert.Equal(t, geom.Pt(9, 0), out[len(out)-1].Pos)
}

func TestSimplifyTailKeepsCorners(t *testing.T) {
	verts := []Vertex{
		{Pos: geom.Pt(0, 0)},
		{Pos: geom.Pt(10, 0)},
		{Pos: geom.Pt(10, 10)},
		{Pos: geom.Pt(20, 10)},
	}
	out := simplifyTail(verts, 8, 0.1)
	assert.Len(t, out, 4, "corner vertices survive simplification")
}

func TestMeshIndicesInRange(t *testing.T) {
	cam := camera.New()
	o := testOutline()
	o.Extrude(cam, modeledAt(0, 0, 0, 3), false, false)
	o.Extrude(cam, modeledAt(25, 5, 0.01, 3), false, false)
	o.Extrude(cam, modeledAt(50, 0, 0.02, 4), false, false)
	o.BuildEndCap()

	var m Mesh
	o.Tessellate(&m)
	require.NotEmpty(t, m.Indices)
	assert.Zero(t, len(m.Indices)%3)
	for _, idx := range m.Indices {
		assert.Less(t, int(idx), len(m.Vertices))
	}
}
