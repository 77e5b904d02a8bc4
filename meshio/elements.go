package meshio

// ElementType represents the element kinds found in the supported file formats
type ElementType int

const (
	Unknown ElementType = iota
	// 0D elements
	Point
	// 1D elements
	Line
	// 2D elements
	Triangle
	Quad
	Triangle6 // 6-node triangle (quadratic)
	Quad8     // 8-node quad (quadratic)
	Quad9     // 9-node quad
	// 3D elements
	Tet
	Hex
	Prism
	Pyramid
)

// String representation of element types
func (e ElementType) String() string {
	names := []string{
		"Unknown",
		"Point",
		"Line",
		"Triangle", "Quad", "Triangle6", "Quad8", "Quad9",
		"Tet", "Hex", "Prism", "Pyramid",
	}
	if int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Point:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad:
		return 4
	case Triangle6:
		return 6
	case Quad8:
		return 8
	case Quad9:
		return 9
	case Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	default:
		return 0
	}
}

// IsSurface reports whether the element contributes triangles to a surface mesh
func (e ElementType) IsSurface() bool {
	switch e {
	case Triangle, Quad, Triangle6, Quad8, Quad9:
		return true
	}
	return false
}

// GetCornerNodes returns the number of corner nodes, which come first in every
// supported format's node ordering.
func (e ElementType) GetCornerNodes() int {
	switch e {
	case Triangle, Triangle6:
		return 3
	case Quad, Quad8, Quad9:
		return 4
	default:
		return e.GetNumNodes()
	}
}

// Triangulate splits the corner nodes of a surface element into triangles
func (e ElementType) Triangulate(nodes []int) [][3]int {
	if !e.IsSurface() {
		return nil
	}
	return fanTriangulate(nodes[:e.GetCornerNodes()])
}

// fanTriangulate splits a convex polygon into triangles sharing its first vertex
func fanTriangulate(poly []int) (tris [][3]int) {
	for i := 1; i+1 < len(poly); i++ {
		tris = append(tris, [3]int{poly[0], poly[i], poly[i+1]})
	}
	return
}

// su2ElementTypeMap maps SU2/VTK element type identifiers to ElementType
var su2ElementTypeMap = map[int]ElementType{
	1:  Point,    // VTK_VERTEX
	3:  Line,     // VTK_LINE
	5:  Triangle, // VTK_TRIANGLE
	9:  Quad,     // VTK_QUAD
	10: Tet,      // VTK_TETRA
	12: Hex,      // VTK_HEXAHEDRON
	13: Prism,    // VTK_WEDGE
	14: Pyramid,  // VTK_PYRAMID
}

// gmshElementTypeMap maps Gmsh element type numbers to ElementType
var gmshElementTypeMap = map[int]ElementType{
	1:  Line,
	2:  Triangle,
	3:  Quad,
	4:  Tet,
	5:  Hex,
	6:  Prism,
	7:  Pyramid,
	9:  Triangle6,
	10: Quad9,
	15: Point,
	16: Quad8,
}

// gambitElementTypeMap maps Gambit NTYPE codes to ElementType
var gambitElementTypeMap = map[int]ElementType{
	1: Line,
	2: Quad,
	3: Triangle,
	4: Hex,
	5: Prism,
	6: Tet,
	7: Pyramid,
}
