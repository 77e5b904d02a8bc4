package tgeometry

import (
	"github.com/james-bowman/sparse"
)

// EdgeStats counts the undirected edges of a mesh by how many triangles
// share them.
type EdgeStats struct {
	Edges            int `json:"edges"`
	BoundaryEdges    int `json:"boundary_edges"`     // Used by exactly one triangle
	NonManifoldEdges int `json:"non_manifold_edges"` // Used by more than two triangles
}

// EdgeStatistics builds the vertex-vertex incidence matrix, upper triangle
// only, where each entry counts the triangles using that edge.
func (m *TriangleMesh) EdgeStatistics() (stats EdgeStats) {
	if !m.HasVertices() || !m.HasTriangles() || m.GetTriangles().Cols() != 3 {
		return
	}
	Nv := m.GetVertices().GetLength()
	SpVToV := sparse.NewDOK(Nv, Nv)
	for _, tri := range m.GetTriangles().ToIndex3() {
		for n := 0; n < 3; n++ {
			i, j := tri[n], tri[(n+1)%3]
			if i > j {
				i, j = j, i
			}
			if i < 0 || j >= Nv {
				continue
			}
			SpVToV.Set(i, j, SpVToV.At(i, j)+1)
		}
	}
	SpVToV.ToCSR().DoNonZero(func(i, j int, v float64) {
		stats.Edges++
		switch {
		case v == 1:
			stats.BoundaryEdges++
		case v > 2:
			stats.NonManifoldEdges++
		}
	})
	return
}

// IsEdgeManifold reports whether no edge is shared by more than two triangles
func (m *TriangleMesh) IsEdgeManifold() bool {
	return m.EdgeStatistics().NonManifoldEdges == 0
}

// IsWatertight reports whether every edge is shared by exactly two triangles
func (m *TriangleMesh) IsWatertight() bool {
	stats := m.EdgeStatistics()
	return stats.Edges > 0 && stats.BoundaryEdges == 0 && stats.NonManifoldEdges == 0
}
