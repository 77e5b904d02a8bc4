package meshio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/meshio/geometry"
)

// readGambitNeutral reads the nodes and the triangle and quad cells of a
// Gambit neutral file. Volume cells, groups and boundary sets are skipped.
func readGambitNeutral(r io.Reader, mesh *geometry.TriangleMesh) error {
	var (
		ls           = newLineScanner(r, "")
		numnp, nelem int
		hasControl   bool
		nodeIndex    = make(map[int]int) // Gambit node ID -> array index
		cells        [][]int             // node IDs of surface cells, corners only
	)
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		switch {
		case strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM"):
			// Next line contains the actual values
			values, err := ls.MustNext("control info")
			if err != nil {
				return err
			}
			ints, err := parseInts(strings.Fields(values))
			if err != nil || len(ints) < 2 {
				return ls.Errorf("invalid control info %q", values)
			}
			numnp, nelem = ints[0], ints[1]
			hasControl = true

		case strings.HasPrefix(line, "NODAL COORDINATES"):
			if !hasControl {
				return ls.Errorf("NODAL COORDINATES before control info")
			}
			mesh.Vertices = make([][3]float64, 0, numnp)
			for i := 0; i < numnp; i++ {
				nodeLine, err := ls.MustNext("nodes")
				if err != nil {
					return err
				}
				fields := strings.Fields(nodeLine)
				if len(fields) < 3 {
					return ls.Errorf("invalid node line %q", nodeLine)
				}
				id, err := strconv.Atoi(fields[0])
				if err != nil {
					return ls.Errorf("invalid node ID: %v", err)
				}
				coords, err := parseFloats(fields[1:min(len(fields), 4)])
				if err != nil {
					return ls.Errorf("%v", err)
				}
				var v [3]float64
				copy(v[:], coords)
				nodeIndex[id] = len(mesh.Vertices)
				mesh.Vertices = append(mesh.Vertices, v)
			}

		case strings.HasPrefix(line, "ELEMENTS/CELLS"):
			if !hasControl {
				return ls.Errorf("ELEMENTS/CELLS before control info")
			}
			for i := 0; i < nelem; i++ {
				corners, err := readGambitCell(ls)
				if err != nil {
					return err
				}
				if corners != nil {
					cells = append(cells, corners)
				}
			}
		}
	}
	if err := ls.Err(); err != nil {
		return err
	}
	if !hasControl {
		return fmt.Errorf("missing NUMNP/NELEM control info")
	}
	for _, cell := range cells {
		poly := make([]int, len(cell))
		for j, id := range cell {
			ind, ok := nodeIndex[id]
			if !ok {
				return fmt.Errorf("cell references unknown node %d", id)
			}
			poly[j] = ind
		}
		mesh.Triangles = append(mesh.Triangles, fanTriangulate(poly)...)
	}
	return nil
}

// readGambitCell reads "NE NTYPE NDP N1 N2 ...", where the node list wraps
// onto continuation lines for cells with more than seven nodes. It returns the
// corner node IDs of surface cells and nil for anything else.
func readGambitCell(ls *lineScanner) ([]int, error) {
	line, err := ls.MustNext("cells")
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, ls.Errorf("invalid cell line %q", line)
	}
	head, err := parseInts(fields[:3])
	if err != nil {
		return nil, ls.Errorf("%v", err)
	}
	ntype, ndp := head[1], head[2]
	nodeFields := fields[3:]
	for len(nodeFields) < ndp {
		more, err := ls.MustNext("cell continuation")
		if err != nil {
			return nil, err
		}
		nodeFields = append(nodeFields, strings.Fields(more)...)
	}
	nodes, err := parseInts(nodeFields[:ndp])
	if err != nil {
		return nil, ls.Errorf("%v", err)
	}
	etype := gambitElementTypeMap[ntype]
	if !etype.IsSurface() {
		return nil, nil
	}
	// Higher order Gambit cells list mid-side nodes between the corners
	ncorner := etype.GetCornerNodes()
	switch ndp {
	case ncorner:
		return nodes, nil
	case 2 * ncorner, 2*ncorner + 1:
		corners := make([]int, ncorner)
		for j := range corners {
			corners[j] = nodes[2*j]
		}
		return corners, nil
	default:
		return nil, ls.Errorf("%v cell with %d nodes", etype, ndp)
	}
}
