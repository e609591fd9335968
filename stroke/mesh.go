package stroke

// Mesh is an indexed triangle list produced from one outline. The
// vertex and index slices are reused across Tessellate calls.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Clear empties the mesh, retaining storage.
func (m *Mesh) Clear() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

func (m *Mesh) push(v Vertex) uint32 {
	m.Vertices = append(m.Vertices, v)
	return uint32(len(m.Vertices) - 1)
}

func (m *Mesh) tri(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// Tessellate rebuilds m from the outline's current borders and caps.
// The outline does not need to be sealed; an unsealed outline simply
// tessellates without an end cap.
func (o *Outline) Tessellate(m *Mesh) {
	m.Clear()
	if len(o.mids) == 0 {
		return
	}

	if !o.hasDir {
		o.tessellateDot(m)
		return
	}

	// Borders first so cap fans can reference their end vertices.
	leftBase := uint32(len(m.Vertices))
	for _, v := range o.left {
		m.push(v)
	}
	rightBase := uint32(len(m.Vertices))
	for _, v := range o.right {
		m.push(v)
	}

	// Zigzag strip between the borders. The two sides can hold
	// different vertex counts after turn fans and simplification, so
	// advance whichever side's next vertex is earlier in time.
	i, j := 0, 0
	for i < len(o.left)-1 || j < len(o.right)-1 {
		advanceLeft := j >= len(o.right)-1 ||
			(i < len(o.left)-1 && o.left[i+1].Time <= o.right[j+1].Time)
		if advanceLeft {
			m.tri(leftBase+uint32(i), rightBase+uint32(j), leftBase+uint32(i+1))
			i++
		} else {
			m.tri(leftBase+uint32(i), rightBase+uint32(j), rightBase+uint32(j+1))
			j++
		}
	}

	first := o.mids[0]
	c0 := m.push(o.vertexAt(first.Screen, first))
	o.fanCap(m, c0, o.startCap, leftBase, rightBase)

	if len(o.endCap) > 0 {
		last := o.mids[len(o.mids)-1]
		cn := m.push(o.vertexAt(last.Screen, last))
		o.fanCap(m, cn,
			o.endCap,
			rightBase+uint32(len(o.right)-1),
			leftBase+uint32(len(o.left)-1))
	}
}

// fanCap emits a triangle fan from center across the cap arc, stitched
// to the border vertices at each end of the arc.
func (o *Outline) fanCap(m *Mesh, center uint32, arc []Vertex, fromBorder, toBorder uint32) {
	prev := fromBorder
	for _, v := range arc {
		idx := m.push(v)
		m.tri(center, prev, idx)
		prev = idx
	}
	m.tri(center, prev, toBorder)
}

// tessellateDot fans the full-circle dot cap around the single center
// point.
func (o *Outline) tessellateDot(m *Mesh) {
	mid := o.mids[0]
	center := m.push(o.vertexAt(mid.Screen, mid))
	base := uint32(len(m.Vertices))
	for _, v := range o.startCap {
		m.push(v)
	}
	n := uint32(len(o.startCap))
	for k := uint32(0); k < n; k++ {
		m.tri(center, base+k, base+(k+1)%n)
	}
}
