package geometry

import (
	"fmt"
	"math"
)

// TriangleMesh is the dense-array mesh container the format codecs in
// package meshio read and write.
type TriangleMesh struct {
	// Geometry
	Vertices      [][3]float64 // Vertex coordinates [nvertices][3]
	VertexNormals [][3]float64 // Optional, [nvertices][3]
	VertexColors  [][3]float64 // Optional, RGB in [0,1], [nvertices][3]

	// Connectivity
	Triangles   [][3]int     // Triangle to vertex connectivity [ntriangles][3]
	TriangleUVs [][2]float64 // Optional, three UVs per triangle [3*ntriangles][2]
}

// NewTriangleMesh returns an empty mesh
func NewTriangleMesh() *TriangleMesh {
	return &TriangleMesh{}
}

func (m *TriangleMesh) HasVertices() bool { return len(m.Vertices) > 0 }

func (m *TriangleMesh) HasTriangles() bool {
	return m.HasVertices() && len(m.Triangles) > 0
}

func (m *TriangleMesh) HasVertexNormals() bool {
	return m.HasVertices() && len(m.VertexNormals) == len(m.Vertices)
}

func (m *TriangleMesh) HasVertexColors() bool {
	return m.HasVertices() && len(m.VertexColors) == len(m.Vertices)
}

func (m *TriangleMesh) HasTriangleUVs() bool {
	return m.HasTriangles() && len(m.TriangleUVs) == 3*len(m.Triangles)
}

func (m *TriangleMesh) IsEmpty() bool { return !m.HasVertices() }

// Clear drops all geometry and attributes
func (m *TriangleMesh) Clear() {
	m.Vertices = nil
	m.VertexNormals = nil
	m.VertexColors = nil
	m.Triangles = nil
	m.TriangleUVs = nil
}

// Validate checks that every triangle references an existing vertex
func (m *TriangleMesh) Validate() error {
	nv := len(m.Vertices)
	for k, tri := range m.Triangles {
		for _, v := range tri {
			if v < 0 || v >= nv {
				return fmt.Errorf("triangle %d: vertex index %d out of range [0,%d)", k, v, nv)
			}
		}
	}
	return nil
}

// ComputeTriangleNormal returns the unit normal and area of triangle k
func (m *TriangleMesh) ComputeTriangleNormal(k int) (normal [3]float64, area float64) {
	tri := m.Triangles[k]
	v0, v1, v2 := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]

	dx1, dy1, dz1 := v1[0]-v0[0], v1[1]-v0[1], v1[2]-v0[2]
	dx2, dy2, dz2 := v2[0]-v0[0], v2[1]-v0[1], v2[2]-v0[2]

	// Cross product
	cx := dy1*dz2 - dz1*dy2
	cy := dz1*dx2 - dx1*dz2
	cz := dx1*dy2 - dy1*dx2

	mag := math.Sqrt(cx*cx + cy*cy + cz*cz)
	area = 0.5 * mag
	if mag > 0 {
		normal = [3]float64{cx / mag, cy / mag, cz / mag}
	}
	return
}

// ComputeVertexNormals sets VertexNormals to the area weighted average of the
// adjacent triangle normals. Vertices without a triangle get a zero normal.
func (m *TriangleMesh) ComputeVertexNormals() *TriangleMesh {
	normals := make([][3]float64, len(m.Vertices))
	for k, tri := range m.Triangles {
		n, area := m.ComputeTriangleNormal(k)
		for _, v := range tri {
			for i := 0; i < 3; i++ {
				normals[v][i] += n[i] * area
			}
		}
	}
	for v := range normals {
		n := normals[v]
		mag := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if mag > 0 {
			normals[v] = [3]float64{n[0] / mag, n[1] / mag, n[2] / mag}
		}
	}
	m.VertexNormals = normals
	return m
}

// GetSurfaceArea sums the triangle areas
func (m *TriangleMesh) GetSurfaceArea() (area float64) {
	for k := range m.Triangles {
		_, a := m.ComputeTriangleNormal(k)
		area += a
	}
	return
}

// GetAxisAlignedBoundingBox returns the min and max vertex coordinates, zero
// for an empty mesh.
func (m *TriangleMesh) GetAxisAlignedBoundingBox() (bb [2][3]float64) {
	if !m.HasVertices() {
		return
	}
	bb[0], bb[1] = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			bb[0][i] = math.Min(bb[0][i], v[i])
			bb[1][i] = math.Max(bb[1][i], v[i])
		}
	}
	return
}

func (m *TriangleMesh) String() string {
	return fmt.Sprintf("TriangleMesh with %d points and %d triangles.",
		len(m.Vertices), len(m.Triangles))
}
