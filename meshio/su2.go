package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/meshio/geometry"
)

// readSU2 reads an SU2 native mesh. In 2D the triangle and quad elements form
// the surface; in 3D the volume elements are skipped and the triangle and quad
// boundary markers are read instead.
func readSU2(r io.Reader, mesh *geometry.TriangleMesh) error {
	var (
		ls                 = newLineScanner(r, "%")
		ndime              int
		hasNDIME, hasNPOIN bool
		elements, markers  [][3]int
	)
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		var err error
		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			if ndime, err = keywordInt(line, "NDIME="); err != nil {
				return ls.Errorf("%v", err)
			}
			if ndime != 2 && ndime != 3 {
				return ls.Errorf("unsupported dimension: NDIME=%d", ndime)
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return ls.Errorf("NPOIN= before NDIME=")
			}
			hasNPOIN = true
			var npoin int
			if npoin, err = keywordInt(line, "NPOIN="); err != nil {
				return ls.Errorf("%v", err)
			}
			mesh.Vertices = make([][3]float64, npoin)
			for i := 0; i < npoin; i++ {
				if line, err = ls.MustNext("nodes"); err != nil {
					return err
				}
				fields := strings.Fields(line)
				if len(fields) < ndime {
					return ls.Errorf("invalid node line: expected at least %d coordinates", ndime)
				}
				coords, err := parseFloats(fields[:ndime])
				if err != nil {
					return ls.Errorf("%v", err)
				}
				// Node ID is implicit (0-based) based on order, a trailing ID is ignored
				copy(mesh.Vertices[i][:], coords)
			}

		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			if nelem, err = keywordInt(line, "NELEM="); err != nil {
				return ls.Errorf("%v", err)
			}
			for i := 0; i < nelem; i++ {
				if line, err = ls.MustNext("elements"); err != nil {
					return err
				}
				tris, err := su2ElementTriangles(line)
				if err != nil {
					return ls.Errorf("%v", err)
				}
				elements = append(elements, tris...)
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			if nmark, err = keywordInt(line, "NMARK="); err != nil {
				return ls.Errorf("%v", err)
			}
			for m := 0; m < nmark; m++ {
				if line, err = ls.MustNext("MARKER_TAG="); err != nil {
					return err
				}
				if !strings.HasPrefix(line, "MARKER_TAG=") {
					return ls.Errorf("expected MARKER_TAG=, got: %s", line)
				}
				if line, err = ls.MustNext("MARKER_ELEMS="); err != nil {
					return err
				}
				if !strings.HasPrefix(line, "MARKER_ELEMS=") {
					return ls.Errorf("expected MARKER_ELEMS=, got: %s", line)
				}
				var nMarkerElems int
				if nMarkerElems, err = keywordInt(line, "MARKER_ELEMS="); err != nil {
					return ls.Errorf("%v", err)
				}
				for j := 0; j < nMarkerElems; j++ {
					if line, err = ls.MustNext("marker elements"); err != nil {
						return err
					}
					tris, err := su2ElementTriangles(line)
					if err != nil {
						return ls.Errorf("%v", err)
					}
					markers = append(markers, tris...)
				}
			}
		}
	}
	if err := ls.Err(); err != nil {
		return err
	}
	if !hasNDIME {
		return fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return fmt.Errorf("missing required NPOIN= section")
	}
	if ndime == 2 {
		mesh.Triangles = elements
	} else {
		mesh.Triangles = markers
	}
	return nil
}

// su2ElementTriangles parses "type n1 n2 ... [id]" and triangulates surface
// elements; other element types yield nothing.
func su2ElementTriangles(line string) ([][3]int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("invalid element line %q", line)
	}
	su2Type, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid element type: %v", err)
	}
	etype, ok := su2ElementTypeMap[su2Type]
	if !ok {
		return nil, fmt.Errorf("unknown element type: %d", su2Type)
	}
	numNodes := etype.GetNumNodes()
	if len(fields) < numNodes+1 {
		return nil, fmt.Errorf("element type %v expects %d nodes, got %d fields",
			etype, numNodes, len(fields)-1)
	}
	if !etype.IsSurface() {
		return nil, nil
	}
	nodes, err := parseInts(fields[1 : numNodes+1])
	if err != nil {
		return nil, err
	}
	return etype.Triangulate(nodes), nil
}

// writeSU2 writes a 3D SU2 mesh whose triangles are stored both as elements
// and as a single "surface" marker, so readers of either convention see them.
func writeSU2(w io.Writer, mesh *geometry.TriangleMesh, _ WriteOptions) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%% Created by meshio\n%%\nNDIME= 3\n")
	fmt.Fprintf(bw, "NELEM= %d\n", len(mesh.Triangles))
	for k, tri := range mesh.Triangles {
		fmt.Fprintf(bw, "5 %d %d %d %d\n", tri[0], tri[1], tri[2], k)
	}
	fmt.Fprintf(bw, "NPOIN= %d\n", len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		fmt.Fprintf(bw, "%s %s %s %d\n", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]), i)
	}
	if len(mesh.Triangles) == 0 {
		fmt.Fprintf(bw, "NMARK= 0\n")
		return bw.Flush()
	}
	fmt.Fprintf(bw, "NMARK= 1\nMARKER_TAG= surface\nMARKER_ELEMS= %d\n", len(mesh.Triangles))
	for _, tri := range mesh.Triangles {
		fmt.Fprintf(bw, "5 %d %d %d\n", tri[0], tri[1], tri[2])
	}
	return bw.Flush()
}
