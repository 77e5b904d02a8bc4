package tgeometry

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Reserved attribute names
const (
	Positions  = "positions"   // vertex, n x 3
	Normals    = "normals"     // vertex, n x 3
	Colors     = "colors"      // vertex, n x 3
	Indices    = "indices"     // triangle, n x 3
	TextureUVs = "texture_uvs" // triangle, n x 6
)

// TensorMap holds named per-element attributes
type TensorMap map[string]Tensor

// Keys returns the attribute names in sorted order
func (tm TensorMap) Keys() []string {
	keys := make([]string, 0, len(tm))
	for k := range tm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TriangleMesh stores vertex and triangle attributes as tensors. Positions and
// indices are ordinary attributes under the reserved names above.
type TriangleMesh struct {
	vertexAttr   TensorMap
	triangleAttr TensorMap
}

func NewTriangleMesh() *TriangleMesh {
	return &TriangleMesh{
		vertexAttr:   make(TensorMap),
		triangleAttr: make(TensorMap),
	}
}

// NewTriangleMeshFrom creates a mesh from positions and indices
func NewTriangleMeshFrom(vertices, triangles Tensor) *TriangleMesh {
	m := NewTriangleMesh()
	m.SetVertices(vertices)
	m.SetTriangles(triangles)
	return m
}

func (m *TriangleMesh) init() {
	if m.vertexAttr == nil {
		m.vertexAttr = make(TensorMap)
	}
	if m.triangleAttr == nil {
		m.triangleAttr = make(TensorMap)
	}
}

func (m *TriangleMesh) GetVertexAttr(key string) Tensor {
	if t, ok := m.vertexAttr[key]; ok {
		return t
	}
	return Tensor{cols: defaultCols(key)}
}

func (m *TriangleMesh) GetTriangleAttr(key string) Tensor {
	if t, ok := m.triangleAttr[key]; ok {
		return t
	}
	return Tensor{cols: defaultCols(key)}
}

func (m *TriangleMesh) SetVertexAttr(key string, t Tensor) {
	m.init()
	m.vertexAttr[key] = t
}

func (m *TriangleMesh) SetTriangleAttr(key string, t Tensor) {
	m.init()
	m.triangleAttr[key] = t
}

func (m *TriangleMesh) RemoveVertexAttr(key string)   { delete(m.vertexAttr, key) }
func (m *TriangleMesh) RemoveTriangleAttr(key string) { delete(m.triangleAttr, key) }

func (m *TriangleMesh) GetVertexAttrs() TensorMap   { return m.vertexAttr }
func (m *TriangleMesh) GetTriangleAttrs() TensorMap { return m.triangleAttr }

// HasVertexAttr reports whether the attribute exists with at least one row
func (m *TriangleMesh) HasVertexAttr(key string) bool {
	t, ok := m.vertexAttr[key]
	return ok && t.GetLength() > 0
}

// HasTriangleAttr reports whether the attribute exists with at least one row
func (m *TriangleMesh) HasTriangleAttr(key string) bool {
	t, ok := m.triangleAttr[key]
	return ok && t.GetLength() > 0
}

func (m *TriangleMesh) GetVertices() Tensor      { return m.GetVertexAttr(Positions) }
func (m *TriangleMesh) GetVertexNormals() Tensor { return m.GetVertexAttr(Normals) }
func (m *TriangleMesh) GetVertexColors() Tensor  { return m.GetVertexAttr(Colors) }
func (m *TriangleMesh) GetTriangles() Tensor     { return m.GetTriangleAttr(Indices) }
func (m *TriangleMesh) GetTriangleUVs() Tensor   { return m.GetTriangleAttr(TextureUVs) }

func (m *TriangleMesh) SetVertices(t Tensor)      { m.SetVertexAttr(Positions, t) }
func (m *TriangleMesh) SetVertexNormals(t Tensor) { m.SetVertexAttr(Normals, t) }
func (m *TriangleMesh) SetVertexColors(t Tensor)  { m.SetVertexAttr(Colors, t) }
func (m *TriangleMesh) SetTriangles(t Tensor)     { m.SetTriangleAttr(Indices, t) }
func (m *TriangleMesh) SetTriangleUVs(t Tensor)   { m.SetTriangleAttr(TextureUVs, t) }

func (m *TriangleMesh) HasVertices() bool  { return m.HasVertexAttr(Positions) }
func (m *TriangleMesh) HasTriangles() bool { return m.HasTriangleAttr(Indices) }

// HasVertexNormals requires one normal per vertex
func (m *TriangleMesh) HasVertexNormals() bool {
	return m.HasVertices() && m.GetVertexNormals().GetLength() == m.GetVertices().GetLength()
}

// HasVertexColors requires one color per vertex
func (m *TriangleMesh) HasVertexColors() bool {
	return m.HasVertices() && m.GetVertexColors().GetLength() == m.GetVertices().GetLength()
}

// HasTriangleUVs requires one row of three UV pairs per triangle
func (m *TriangleMesh) HasTriangleUVs() bool {
	return m.HasTriangles() && m.GetTriangleUVs().GetLength() == m.GetTriangles().GetLength()
}

func (m *TriangleMesh) IsEmpty() bool { return !m.HasVertices() }

// Clear removes every attribute
func (m *TriangleMesh) Clear() *TriangleMesh {
	m.vertexAttr = make(TensorMap)
	m.triangleAttr = make(TensorMap)
	return m
}

// Clone returns a deep copy
func (m *TriangleMesh) Clone() *TriangleMesh {
	R := NewTriangleMesh()
	for k, t := range m.vertexAttr {
		R.vertexAttr[k] = t.Clone()
	}
	for k, t := range m.triangleAttr {
		R.triangleAttr[k] = t.Clone()
	}
	return R
}

// GetAxisAlignedBoundingBox returns min and max of the vertex positions
func (m *TriangleMesh) GetAxisAlignedBoundingBox() (bb [2][3]float64) {
	if !m.HasVertices() || m.GetVertices().Cols() != 3 {
		return
	}
	V := m.GetVertices()
	n := V.GetLength()
	col := make([]float64, n)
	for j := 0; j < 3; j++ {
		for i := 0; i < n; i++ {
			col[i] = V.M.At(i, j)
		}
		bb[0][j], bb[1][j] = floats.Min(col), floats.Max(col)
	}
	return
}

func (m *TriangleMesh) String() string {
	return fmt.Sprintf("TriangleMesh [%d vertices and %d triangles], vertex attributes %v, triangle attributes %v",
		m.GetVertices().GetLength(), m.GetTriangles().GetLength(),
		m.vertexAttr.Keys(), m.triangleAttr.Keys())
}

func defaultCols(key string) int {
	if key == TextureUVs {
		return 6
	}
	return 3
}
