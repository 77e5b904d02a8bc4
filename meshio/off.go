package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/notargets/meshio/geometry"
)

// readOFF reads the Geomview Object File Format with optional C (color) and
// N (normal) header prefixes. Colors given as 0-255 integers are rescaled.
func readOFF(r io.Reader, mesh *geometry.TriangleMesh) error {
	ls := newLineScanner(r, "#")
	line, err := ls.MustNext("OFF header")
	if err != nil {
		return err
	}
	fields := strings.Fields(line)
	keyword := fields[0]
	if !strings.HasSuffix(keyword, "OFF") {
		return ls.Errorf("not an OFF file, header %q", keyword)
	}
	prefix := strings.TrimSuffix(keyword, "OFF")
	hasColor := strings.Contains(prefix, "C")
	hasNormal := strings.Contains(prefix, "N")
	if strings.ContainsAny(prefix, "ST4n") {
		return ls.Errorf("unsupported OFF variant %q", keyword)
	}

	// Counts may follow the keyword on the header line
	countFields := fields[1:]
	if len(countFields) == 0 {
		if line, err = ls.MustNext("OFF counts"); err != nil {
			return err
		}
		countFields = strings.Fields(line)
	}
	counts, err := parseInts(countFields)
	if err != nil || len(counts) < 2 {
		return ls.Errorf("invalid OFF counts %q", strings.Join(countFields, " "))
	}
	nv, nf := counts[0], counts[1]
	if nv < 0 || nf < 0 {
		return ls.Errorf("negative OFF counts")
	}

	need := 3
	if hasNormal {
		need += 3
	}
	if hasColor {
		need += 3
	}
	mesh.Vertices = make([][3]float64, nv)
	if hasNormal {
		mesh.VertexNormals = make([][3]float64, nv)
	}
	if hasColor {
		mesh.VertexColors = make([][3]float64, nv)
	}
	byteColors := false
	for i := 0; i < nv; i++ {
		if line, err = ls.MustNext("OFF vertices"); err != nil {
			return err
		}
		vals, err := parseFloats(strings.Fields(line))
		if err != nil || len(vals) < need {
			return ls.Errorf("invalid OFF vertex %q", line)
		}
		mesh.Vertices[i] = [3]float64{vals[0], vals[1], vals[2]}
		off := 3
		if hasNormal {
			mesh.VertexNormals[i] = [3]float64{vals[off], vals[off+1], vals[off+2]}
			off += 3
		}
		if hasColor {
			c := [3]float64{vals[off], vals[off+1], vals[off+2]}
			byteColors = byteColors || c[0] > 1 || c[1] > 1 || c[2] > 1
			mesh.VertexColors[i] = c
		}
	}
	if byteColors {
		for i := range mesh.VertexColors {
			for j := 0; j < 3; j++ {
				mesh.VertexColors[i][j] /= 255
			}
		}
	}

	for k := 0; k < nf; k++ {
		if line, err = ls.MustNext("OFF faces"); err != nil {
			return err
		}
		ints, err := parseFaceInts(strings.Fields(line))
		if err != nil {
			return ls.Errorf("invalid OFF face %q: %v", line, err)
		}
		mesh.Triangles = append(mesh.Triangles, fanTriangulate(ints)...)
	}
	return ls.Err()
}

// parseFaceInts reads "n v1 ... vn [color]" and returns the n vertex indices
func parseFaceInts(fields []string) ([]int, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty face")
	}
	head, err := parseInts(fields[:1])
	if err != nil {
		return nil, err
	}
	n := head[0]
	if n < 3 || len(fields) < n+1 {
		return nil, fmt.Errorf("face with %d vertices", n)
	}
	return parseInts(fields[1 : n+1])
}

func writeOFF(w io.Writer, mesh *geometry.TriangleMesh, opt WriteOptions) error {
	var (
		bw          = bufio.NewWriter(w)
		withColors  = opt.VertexColors && mesh.HasVertexColors()
		withNormals = opt.VertexNormals && mesh.HasVertexNormals()
		header      = "OFF"
	)
	if withNormals {
		header = "N" + header
	}
	if withColors {
		header = "C" + header
	}
	fmt.Fprintf(bw, "%s\n%d %d 0\n", header, len(mesh.Vertices), len(mesh.Triangles))
	for i, v := range mesh.Vertices {
		fmt.Fprintf(bw, "%s %s %s", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
		if withNormals {
			n := mesh.VertexNormals[i]
			fmt.Fprintf(bw, " %s %s %s", formatFloat(n[0]), formatFloat(n[1]), formatFloat(n[2]))
		}
		if withColors {
			c := mesh.VertexColors[i]
			fmt.Fprintf(bw, " %s %s %s", formatFloat(c[0]), formatFloat(c[1]), formatFloat(c[2]))
		}
		bw.WriteString("\n")
	}
	for _, tri := range mesh.Triangles {
		fmt.Fprintf(bw, "3 %d %d %d\n", tri[0], tri[1], tri[2])
	}
	return bw.Flush()
}
