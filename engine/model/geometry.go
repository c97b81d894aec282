package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// Geometry holds the triangle data of one mesh primitive together with its bounding volumes.
type Geometry struct {
	// Positions are the vertex positions in node-local space.
	Positions [][3]float32

	// Normals are the per-vertex normals; same length as Positions once computed.
	Normals [][3]float32

	// TexCoords are the first UV set, or nil.
	TexCoords [][2]float32

	// Colors are per-vertex RGBA colors, or nil.
	Colors [][4]float32

	// Indices is the triangle list.
	Indices []uint32

	// BoundingBox is the tight local bounds of Positions.
	BoundingBox common.Box3

	// CullBox and CullRadius are conservative bounds used for frustum and shadow culling.
	// They default to BoundingBox and its circumscribed radius and may be enlarged so a
	// deforming mesh is never culled from a shadow map while still visible.
	CullBox    common.Box3
	CullRadius float32
}

// NewGeometry creates a geometry from positions and indices and computes its bounds.
// Sequential indices are generated when indices is empty.
//
// Parameters:
//   - positions: vertex positions
//   - indices: triangle indices, or nil
//
// Returns:
//   - *Geometry: the new geometry
func NewGeometry(positions [][3]float32, indices []uint32) *Geometry {
	if len(indices) == 0 {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	g := &Geometry{Positions: positions, Indices: indices}
	g.ComputeBoundingBox()
	return g
}

// HasVertexColors reports whether the geometry carries per-vertex colors.
func (g *Geometry) HasVertexColors() bool {
	return len(g.Colors) > 0
}

// ComputeBoundingBox recomputes BoundingBox from Positions and resets the cull bounds to match.
func (g *Geometry) ComputeBoundingBox() {
	box := common.EmptyBox()
	for _, p := range g.Positions {
		box = box.ExpandByPoint(p)
	}
	g.BoundingBox = box
	g.CullBox = box
	g.CullRadius = boxRadius(box)
}

// ComputeVertexNormals recomputes smooth vertex normals from the triangle list. Face normals are
// accumulated area-weighted onto each vertex and normalized; vertices with no usable faces get
// the up vector. A fresh slice is allocated so clones never share normal storage.
func (g *Geometry) ComputeVertexNormals() {
	n := len(g.Positions)
	accum := make([][3]float32, n)

	for i := 0; i+2 < len(g.Indices); i += 3 {
		i0, i1, i2 := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		p0, p1, p2 := g.Positions[i0], g.Positions[i1], g.Positions[i2]

		edge1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		edge2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}

		// length proportional to triangle area
		faceNormal := [3]float32{
			edge1[1]*edge2[2] - edge1[2]*edge2[1],
			edge1[2]*edge2[0] - edge1[0]*edge2[2],
			edge1[0]*edge2[1] - edge1[1]*edge2[0],
		}

		for _, idx := range [3]uint32{i0, i1, i2} {
			accum[idx][0] += faceNormal[0]
			accum[idx][1] += faceNormal[1]
			accum[idx][2] += faceNormal[2]
		}
	}

	for i := range n {
		length := float32(math.Sqrt(float64(accum[i][0]*accum[i][0] + accum[i][1]*accum[i][1] + accum[i][2]*accum[i][2])))
		if length < 1e-6 {
			accum[i] = [3]float32{0, 1, 0}
			continue
		}
		invLen := 1.0 / length
		accum[i] = [3]float32{accum[i][0] * invLen, accum[i][1] * invLen, accum[i][2] * invLen}
	}
	g.Normals = accum
}

// Clone copies the geometry. Vertex streams are shared because they are never written in place.
//
// Returns:
//   - *Geometry: the copy
func (g *Geometry) Clone() *Geometry {
	c := *g
	return &c
}

// boxRadius returns the radius of the sphere circumscribing box about its center.
func boxRadius(box common.Box3) float32 {
	s := box.Size()
	return float32(math.Sqrt(float64(s[0]*s[0]+s[1]*s[1]+s[2]*s[2]))) / 2
}
