package meshio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/meshio/geometry"
)

// readGmsh22 reads the nodes and surface elements of an ASCII Gmsh MSH 2.2
// file. Higher order surface elements contribute their corner nodes.
func readGmsh22(r io.Reader, mesh *geometry.TriangleMesh) error {
	var (
		ls        = newLineScanner(r, "")
		nodeIndex = make(map[int]int) // Gmsh node ID -> array index
		elements  [][]int             // corner node IDs
	)
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		var err error
		switch line {
		case "$MeshFormat":
			err = readMeshFormat22(ls)
		case "$Nodes":
			err = readNodes22(ls, mesh, nodeIndex)
		case "$Elements":
			elements, err = readElements22(ls)
		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				err = skipSection(ls, "$End"+line[1:])
			}
		}
		if err != nil {
			return err
		}
	}
	if err := ls.Err(); err != nil {
		return err
	}
	for _, elem := range elements {
		poly := make([]int, len(elem))
		for j, id := range elem {
			ind, ok := nodeIndex[id]
			if !ok {
				return fmt.Errorf("element references unknown node %d", id)
			}
			poly[j] = ind
		}
		mesh.Triangles = append(mesh.Triangles, fanTriangulate(poly)...)
	}
	return nil
}

func readMeshFormat22(ls *lineScanner) error {
	line, err := ls.MustNext("MeshFormat")
	if err != nil {
		return err
	}
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return ls.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2.") {
		return ls.Errorf("unsupported Gmsh version %s", parts[0])
	}
	if parts[1] != "0" {
		return ls.Errorf("binary Gmsh files are not supported")
	}
	return skipSection(ls, "$EndMeshFormat")
}

func readNodes22(ls *lineScanner, mesh *geometry.TriangleMesh, nodeIndex map[int]int) error {
	line, err := ls.MustNext("node count")
	if err != nil {
		return err
	}
	numNodes, err := strconv.Atoi(line)
	if err != nil {
		return ls.Errorf("invalid node count %q", line)
	}
	mesh.Vertices = make([][3]float64, numNodes)
	for i := 0; i < numNodes; i++ {
		if line, err = ls.MustNext("nodes"); err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return ls.Errorf("invalid node line %q", line)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return ls.Errorf("invalid node ID: %v", err)
		}
		coords, err := parseFloats(fields[1:4])
		if err != nil {
			return ls.Errorf("%v", err)
		}
		copy(mesh.Vertices[i][:], coords)
		nodeIndex[id] = i
	}
	return skipSection(ls, "$EndNodes")
}

func readElements22(ls *lineScanner) (elements [][]int, err error) {
	line, err := ls.MustNext("element count")
	if err != nil {
		return nil, err
	}
	numElems, err := strconv.Atoi(line)
	if err != nil {
		return nil, ls.Errorf("invalid element count %q", line)
	}
	for i := 0; i < numElems; i++ {
		if line, err = ls.MustNext("elements"); err != nil {
			return nil, err
		}
		// elm-number elm-type number-of-tags <tags> node-number-list
		ints, err := parseInts(strings.Fields(line))
		if err != nil || len(ints) < 3 {
			return nil, ls.Errorf("invalid element line %q", line)
		}
		etype, ok := gmshElementTypeMap[ints[1]]
		if !ok || !etype.IsSurface() {
			continue
		}
		offset := 3 + ints[2]
		if len(ints) < offset+etype.GetNumNodes() {
			return nil, ls.Errorf("element type %v expects %d nodes", etype, etype.GetNumNodes())
		}
		elements = append(elements, ints[offset:offset+etype.GetCornerNodes()])
	}
	return elements, skipSection(ls, "$EndElements")
}

// skipSection advances past the named end marker
func skipSection(ls *lineScanner, endMarker string) error {
	for {
		line, ok := ls.Next()
		if !ok {
			if err := ls.Err(); err != nil {
				return err
			}
			return fmt.Errorf("unexpected EOF looking for %s", endMarker)
		}
		if line == endMarker {
			return nil
		}
	}
}
