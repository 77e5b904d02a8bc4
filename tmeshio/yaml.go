package tmeshio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ghodss/yaml"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/notargets/meshio/tgeometry"
)

// YAMLExtensions are the extensions the default registry maps to the YAML codec
var YAMLExtensions = []string{"yaml", "yml"}

// yamlMesh is the on-disk layout: every attribute of both maps, each stored
// as its shape and row-major data.
type yamlMesh struct {
	VertexAttributes   map[string]yamlTensor `json:"vertex_attributes"`
	TriangleAttributes map[string]yamlTensor `json:"triangle_attributes"`
}

type yamlTensor struct {
	Shape [2]int    `json:"shape"`
	Data  []float64 `json:"data"`
}

// ReadTriangleMeshFromYAML replaces mesh with the content of a YAML mesh file.
// On failure mesh is left as it was.
func ReadTriangleMeshFromYAML(filename string, mesh *tgeometry.TriangleMesh, opt ReadOption) bool {
	result, err := readYAML(filename, opt.PrintProgress)
	if err != nil {
		zap.L().Warn("Read YAML TriangleMesh failed", zap.String("filename", filename), zap.Error(err))
		return false
	}
	if opt.EnablePostProcessing && result.HasTriangles() && !result.HasVertexNormals() {
		legacy := result.ToLegacyTriangleMesh().ComputeVertexNormals()
		result.SetVertexNormals(tgeometry.TensorFromVec3(legacy.VertexNormals))
	}
	*mesh = *result
	return true
}

// WriteTriangleMeshToYAML stores every attribute of mesh, custom ones
// included. Attribute selection flags apply to the reserved normals, colors
// and UVs; the file is always text.
func WriteTriangleMeshToYAML(filename string, mesh *tgeometry.TriangleMesh, opt WriteOption) bool {
	if err := writeYAML(filename, mesh, opt); err != nil {
		zap.L().Warn("Write YAML TriangleMesh failed", zap.String("filename", filename), zap.Error(err))
		return false
	}
	return true
}

func readYAML(filename string, printProgress bool) (*tgeometry.TriangleMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader = file
	if printProgress {
		size := int64(-1)
		if fi, serr := file.Stat(); serr == nil {
			size = fi.Size()
		}
		bar := progressbar.DefaultBytes(size, "Reading yaml")
		defer bar.Finish()
		pr := progressbar.NewReader(file, bar)
		reader = &pr
	}
	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var ym yamlMesh
	if err = yaml.Unmarshal(buf, &ym); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	mesh := tgeometry.NewTriangleMesh()
	for name, yt := range ym.VertexAttributes {
		t, err := yt.tensor()
		if err != nil {
			return nil, fmt.Errorf("vertex attribute %q: %w", name, err)
		}
		mesh.SetVertexAttr(name, t)
	}
	for name, yt := range ym.TriangleAttributes {
		t, err := yt.tensor()
		if err != nil {
			return nil, fmt.Errorf("triangle attribute %q: %w", name, err)
		}
		mesh.SetTriangleAttr(name, t)
	}
	if err = validate(mesh); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

func (yt yamlTensor) tensor() (tgeometry.Tensor, error) {
	rows, cols := yt.Shape[0], yt.Shape[1]
	if rows < 0 || cols <= 0 || rows > math.MaxInt/cols {
		return tgeometry.Tensor{}, fmt.Errorf("invalid shape %v", yt.Shape)
	}
	if len(yt.Data) != rows*cols {
		return tgeometry.Tensor{}, fmt.Errorf("shape %v needs %d values, found %d", yt.Shape, rows*cols, len(yt.Data))
	}
	if rows == 0 {
		return tgeometry.NewTensor(0, cols, nil), nil
	}
	return tgeometry.NewTensor(rows, cols, yt.Data), nil
}

// validate checks the shapes of the reserved attributes and the range of the
// triangle indices.
func validate(mesh *tgeometry.TriangleMesh) error {
	expect := []struct {
		t    tgeometry.Tensor
		name string
		cols int
	}{
		{mesh.GetVertexAttr(tgeometry.Positions), tgeometry.Positions, 3},
		{mesh.GetVertexAttr(tgeometry.Normals), tgeometry.Normals, 3},
		{mesh.GetVertexAttr(tgeometry.Colors), tgeometry.Colors, 3},
		{mesh.GetTriangleAttr(tgeometry.Indices), tgeometry.Indices, 3},
		{mesh.GetTriangleAttr(tgeometry.TextureUVs), tgeometry.TextureUVs, 6},
	}
	for _, e := range expect {
		if e.t.GetLength() > 0 && e.t.Cols() != e.cols {
			return fmt.Errorf("attribute %q has %d columns, expected %d", e.name, e.t.Cols(), e.cols)
		}
	}
	if !mesh.HasTriangles() {
		return nil
	}
	nv := float64(mesh.GetVertices().GetLength())
	for _, ind := range mesh.GetTriangles().Data() {
		if ind < 0 || ind >= nv || ind != float64(int(ind)) {
			return fmt.Errorf("invalid triangle index %v for %v vertices", ind, nv)
		}
	}
	return nil
}

func writeYAML(filename string, mesh *tgeometry.TriangleMesh, opt WriteOption) (err error) {
	skip := map[string]bool{
		tgeometry.Normals:    !opt.WriteVertexNormals,
		tgeometry.Colors:     !opt.WriteVertexColors,
		tgeometry.TextureUVs: !opt.WriteTriangleUVs,
	}
	ym := yamlMesh{
		VertexAttributes:   make(map[string]yamlTensor),
		TriangleAttributes: make(map[string]yamlTensor),
	}
	for name, t := range mesh.GetVertexAttrs() {
		if !skip[name] {
			ym.VertexAttributes[name] = newYAMLTensor(t)
		}
	}
	for name, t := range mesh.GetTriangleAttrs() {
		if !skip[name] {
			ym.TriangleAttributes[name] = newYAMLTensor(t)
		}
	}
	buf, err := yaml.Marshal(ym)
	if err != nil {
		return err
	}
	if opt.Compressed {
		zap.L().Debug("YAML output is never compressed", zap.String("filename", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	var writer io.Writer = file
	if opt.PrintProgress {
		bar := progressbar.DefaultBytes(int64(len(buf)), "Writing yaml")
		defer bar.Finish()
		writer = io.MultiWriter(file, bar)
	}
	_, err = io.Copy(writer, bytes.NewReader(buf))
	return err
}

func newYAMLTensor(t tgeometry.Tensor) yamlTensor {
	data := t.Data()
	if data == nil {
		data = []float64{}
	}
	return yamlTensor{Shape: [2]int{t.GetLength(), t.Cols()}, Data: data}
}
