package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/meshio/geometry"
)

// objCorner is one v/vt/vn reference of a face, 0-based, -1 when absent
type objCorner struct {
	v, vt, vn int
}

// readOBJ reads a Wavefront OBJ file. Polygons are fan triangulated. Normals
// are assigned to the vertex that references them and texture coordinates are
// kept per triangle corner; both are dropped unless every face provides them.
func readOBJ(r io.Reader, mesh *geometry.TriangleMesh) error {
	var (
		ls      = newLineScanner(r, "#")
		colors  [][3]float64
		normals [][3]float64
		uvs     [][2]float64
		corners []objCorner // three per triangle
	)
	allHaveVT, allHaveVN := true, true
	for {
		line, ok := ls.Next()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			vals, err := parseFloats(fields[1:])
			if err != nil || len(vals) < 3 {
				return ls.Errorf("invalid vertex %q", line)
			}
			mesh.Vertices = append(mesh.Vertices, [3]float64{vals[0], vals[1], vals[2]})
			// x y z r g b is a widely used color extension, x y z w is not a color
			if len(vals) >= 6 {
				colors = append(colors, [3]float64{vals[3], vals[4], vals[5]})
			}
		case "vn":
			vals, err := parseFloats(fields[1:])
			if err != nil || len(vals) < 3 {
				return ls.Errorf("invalid normal %q", line)
			}
			normals = append(normals, [3]float64{vals[0], vals[1], vals[2]})
		case "vt":
			vals, err := parseFloats(fields[1:])
			if err != nil || len(vals) < 2 {
				return ls.Errorf("invalid texture coordinate %q", line)
			}
			uvs = append(uvs, [2]float64{vals[0], vals[1]})
		case "f":
			if len(fields) < 4 {
				return ls.Errorf("face needs at least 3 vertices: %q", line)
			}
			poly := make([]objCorner, len(fields)-1)
			for i, tok := range fields[1:] {
				c, err := parseOBJCorner(tok, len(mesh.Vertices), len(uvs), len(normals))
				if err != nil {
					return ls.Errorf("%v", err)
				}
				allHaveVT = allHaveVT && c.vt >= 0
				allHaveVN = allHaveVN && c.vn >= 0
				poly[i] = c
			}
			for i := 1; i+1 < len(poly); i++ {
				corners = append(corners, poly[0], poly[i], poly[i+1])
				mesh.Triangles = append(mesh.Triangles,
					[3]int{poly[0].v, poly[i].v, poly[i+1].v})
			}
		default:
			// o, g, s, l, p, usemtl, mtllib and friends carry no triangle geometry
		}
	}
	if err := ls.Err(); err != nil {
		return err
	}

	if len(colors) == len(mesh.Vertices) {
		mesh.VertexColors = colors
	}
	if len(corners) > 0 && allHaveVN {
		mesh.VertexNormals = make([][3]float64, len(mesh.Vertices))
		for _, c := range corners {
			mesh.VertexNormals[c.v] = normals[c.vn]
		}
	}
	if len(corners) > 0 && allHaveVT {
		mesh.TriangleUVs = make([][2]float64, len(corners))
		for i, c := range corners {
			mesh.TriangleUVs[i] = uvs[c.vt]
		}
	}
	return nil
}

// parseOBJCorner parses v, v/vt, v//vn or v/vt/vn. Negative indices count back
// from the most recent element.
func parseOBJCorner(tok string, nv, nvt, nvn int) (c objCorner, err error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return c, fmt.Errorf("invalid face vertex %q", tok)
	}
	resolve := func(s string, n int) (int, error) {
		if s == "" {
			return -1, nil
		}
		ind, err := strconv.Atoi(s)
		if err != nil {
			return -1, fmt.Errorf("invalid face vertex %q", tok)
		}
		if ind < 0 {
			ind += n
		} else {
			ind--
		}
		if ind < 0 || ind >= n {
			return -1, fmt.Errorf("face index %s out of range in %q", s, tok)
		}
		return ind, nil
	}
	c.vt, c.vn = -1, -1
	if c.v, err = resolve(parts[0], nv); err != nil {
		return
	}
	if c.v < 0 {
		return c, fmt.Errorf("missing vertex index in %q", tok)
	}
	if len(parts) > 1 {
		if c.vt, err = resolve(parts[1], nvt); err != nil {
			return
		}
	}
	if len(parts) > 2 {
		if c.vn, err = resolve(parts[2], nvn); err != nil {
			return
		}
	}
	return
}

func writeOBJ(w io.Writer, mesh *geometry.TriangleMesh, opt WriteOptions) error {
	var (
		bw          = bufio.NewWriter(w)
		withColors  = opt.VertexColors && mesh.HasVertexColors()
		withNormals = opt.VertexNormals && mesh.HasVertexNormals()
		withUVs     = opt.TriangleUVs && mesh.HasTriangleUVs()
	)
	fmt.Fprintf(bw, "# Created by meshio\n# %d vertices, %d triangles\n",
		len(mesh.Vertices), len(mesh.Triangles))
	for i, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %s %s %s", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
		if withColors {
			c := mesh.VertexColors[i]
			fmt.Fprintf(bw, " %s %s %s", formatFloat(c[0]), formatFloat(c[1]), formatFloat(c[2]))
		}
		bw.WriteString("\n")
	}
	if withNormals {
		for _, n := range mesh.VertexNormals {
			fmt.Fprintf(bw, "vn %s %s %s\n", formatFloat(n[0]), formatFloat(n[1]), formatFloat(n[2]))
		}
	}
	if withUVs {
		for _, uv := range mesh.TriangleUVs {
			fmt.Fprintf(bw, "vt %s %s\n", formatFloat(uv[0]), formatFloat(uv[1]))
		}
	}
	for k, tri := range mesh.Triangles {
		bw.WriteString("f")
		for j, v := range tri {
			// vertex normals share the vertex numbering
			switch {
			case withUVs && withNormals:
				fmt.Fprintf(bw, " %d/%d/%d", v+1, 3*k+j+1, v+1)
			case withUVs:
				fmt.Fprintf(bw, " %d/%d", v+1, 3*k+j+1)
			case withNormals:
				fmt.Fprintf(bw, " %d//%d", v+1, v+1)
			default:
				fmt.Fprintf(bw, " %d", v+1)
			}
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}
