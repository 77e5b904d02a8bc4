package tgeometry

import (
	"github.com/notargets/meshio/geometry"
)

// FromLegacyTriangleMesh copies a legacy mesh into tensor storage. Only
// attributes the legacy mesh reports as present are carried over.
func FromLegacyTriangleMesh(legacy *geometry.TriangleMesh) *TriangleMesh {
	m := NewTriangleMesh()
	if legacy == nil || !legacy.HasVertices() {
		return m
	}
	m.SetVertices(TensorFromVec3(legacy.Vertices))
	if legacy.HasVertexNormals() {
		m.SetVertexNormals(TensorFromVec3(legacy.VertexNormals))
	}
	if legacy.HasVertexColors() {
		m.SetVertexColors(TensorFromVec3(legacy.VertexColors))
	}
	if legacy.HasTriangles() {
		m.SetTriangles(TensorFromIndex3(legacy.Triangles))
	}
	if legacy.HasTriangleUVs() {
		m.SetTriangleUVs(TensorFromUVs(legacy.TriangleUVs))
	}
	return m
}

// ToLegacyTriangleMesh copies the reserved attributes into a new legacy mesh.
// Custom attributes have no legacy equivalent and are not carried, neither are
// reserved attributes with the wrong row width. Without usable positions the
// result is empty.
func (m *TriangleMesh) ToLegacyTriangleMesh() *geometry.TriangleMesh {
	legacy := geometry.NewTriangleMesh()
	if !m.HasVertices() || m.GetVertices().Cols() != 3 {
		return legacy
	}
	legacy.Vertices = m.GetVertices().ToVec3()
	if m.HasVertexNormals() && m.GetVertexNormals().Cols() == 3 {
		legacy.VertexNormals = m.GetVertexNormals().ToVec3()
	}
	if m.HasVertexColors() && m.GetVertexColors().Cols() == 3 {
		legacy.VertexColors = m.GetVertexColors().ToVec3()
	}
	if m.HasTriangles() && m.GetTriangles().Cols() == 3 {
		legacy.Triangles = m.GetTriangles().ToIndex3()
	}
	if m.HasTriangleUVs() && m.GetTriangleUVs().Cols() == 6 {
		legacy.TriangleUVs = m.GetTriangleUVs().ToUVs()
	}
	return legacy
}
