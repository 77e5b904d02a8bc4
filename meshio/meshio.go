// Package meshio reads and writes geometry.TriangleMesh files. Formats are
// selected by file extension from a fixed table.
package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/notargets/meshio/geometry"
	"github.com/notargets/meshio/utils"
)

var (
	ErrUnknownExtension  = errors.New("unknown file extension")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// WriteOptions selects what a writer emits. ASCII and Compressed are requests,
// a format that cannot honor them writes its native encoding.
type WriteOptions struct {
	ASCII         bool
	Compressed    bool
	VertexNormals bool
	VertexColors  bool
	TriangleUVs   bool
}

type readFunc func(r io.Reader, mesh *geometry.TriangleMesh) error
type writeFunc func(w io.Writer, mesh *geometry.TriangleMesh, opt WriteOptions) error

var fileExtensionToReadFunction = map[string]readFunc{
	"obj": readOBJ,
	"off": readOFF,
	"su2": readSU2,
	"neu": readGambitNeutral,
	"msh": readGmsh22,
}

var fileExtensionToWriteFunction = map[string]writeFunc{
	"obj": writeOBJ,
	"off": writeOFF,
	"su2": writeSU2,
}

// SupportedReadExtensions lists the extensions Read accepts, sorted
func SupportedReadExtensions() []string { return sortedKeys(fileExtensionToReadFunction) }

// SupportedWriteExtensions lists the extensions Write accepts, sorted
func SupportedWriteExtensions() []string { return sortedKeys(fileExtensionToWriteFunction) }

// Read loads filename into mesh, replacing its content. On error the mesh is
// cleared.
func Read(filename string, mesh *geometry.TriangleMesh, enablePostProcessing, printProgress bool) (err error) {
	defer func() {
		if err != nil {
			mesh.Clear()
		}
	}()
	ext := utils.GetFileExtensionInLowerCase(filename)
	if ext == "" {
		return fmt.Errorf("read %s: %w", filename, ErrUnknownExtension)
	}
	read, ok := fileExtensionToReadFunction[ext]
	if !ok {
		return fmt.Errorf("read %s: .%s: %w", filename, ext, ErrUnsupportedFormat)
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var reader io.Reader = file
	if printProgress {
		size := int64(-1)
		if fi, serr := file.Stat(); serr == nil {
			size = fi.Size()
		}
		bar := progressbar.DefaultBytes(size, "Reading "+ext)
		defer bar.Finish()
		pr := progressbar.NewReader(file, bar)
		reader = &pr
	}

	result := geometry.NewTriangleMesh()
	if err = read(bufio.NewReader(reader), result); err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if err = result.Validate(); err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if utils.IsNan(result.Vertices) {
		return fmt.Errorf("read %s: NaN vertex coordinate", filename)
	}
	if enablePostProcessing && result.HasTriangles() && !result.HasVertexNormals() {
		result.ComputeVertexNormals()
	}
	*mesh = *result
	return nil
}

// Write stores mesh in filename using the format selected by its extension
func Write(filename string, mesh *geometry.TriangleMesh, opt WriteOptions, printProgress bool) (err error) {
	ext := utils.GetFileExtensionInLowerCase(filename)
	if ext == "" {
		return fmt.Errorf("write %s: %w", filename, ErrUnknownExtension)
	}
	write, ok := fileExtensionToWriteFunction[ext]
	if !ok {
		return fmt.Errorf("write %s: .%s: %w", filename, ext, ErrUnsupportedFormat)
	}
	if !opt.ASCII || opt.Compressed {
		zap.L().Debug("format only supports uncompressed ASCII output",
			zap.String("format", ext), zap.Bool("ascii", opt.ASCII), zap.Bool("compressed", opt.Compressed))
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

	buffered := bufio.NewWriter(file)
	var writer io.Writer = buffered
	if printProgress {
		bar := progressbar.DefaultBytes(-1, "Writing "+ext)
		defer bar.Finish()
		writer = io.MultiWriter(buffered, bar)
	}
	if err = write(writer, mesh, opt); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err = buffered.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// ReadTriangleMesh is the boolean form of Read, failures are logged at warn
// level.
func ReadTriangleMesh(filename string, mesh *geometry.TriangleMesh, enablePostProcessing, printProgress bool) bool {
	if err := Read(filename, mesh, enablePostProcessing, printProgress); err != nil {
		zap.L().Warn("Read geometry::TriangleMesh failed", zap.String("filename", filename), zap.Error(err))
		return false
	}
	zap.L().Debug("Read geometry::TriangleMesh",
		zap.Int("triangles", len(mesh.Triangles)), zap.Int("vertices", len(mesh.Vertices)))
	return true
}

// WriteTriangleMesh is the boolean form of Write, failures are logged at warn
// level.
func WriteTriangleMesh(filename string, mesh *geometry.TriangleMesh,
	writeASCII, compressed, writeVertexNormals, writeVertexColors, writeTriangleUVs, printProgress bool) bool {
	opt := WriteOptions{
		ASCII:         writeASCII,
		Compressed:    compressed,
		VertexNormals: writeVertexNormals,
		VertexColors:  writeVertexColors,
		TriangleUVs:   writeTriangleUVs,
	}
	if err := Write(filename, mesh, opt, printProgress); err != nil {
		zap.L().Warn("Write geometry::TriangleMesh failed", zap.String("filename", filename), zap.Error(err))
		return false
	}
	zap.L().Debug("Write geometry::TriangleMesh",
		zap.Int("triangles", len(mesh.Triangles)), zap.Int("vertices", len(mesh.Vertices)))
	return true
}

// IO adapts the package functions to an interface value
type IO struct{}

func (IO) ReadTriangleMesh(filename string, mesh *geometry.TriangleMesh, enablePostProcessing, printProgress bool) bool {
	return ReadTriangleMesh(filename, mesh, enablePostProcessing, printProgress)
}

func (IO) WriteTriangleMesh(filename string, mesh *geometry.TriangleMesh,
	writeASCII, compressed, writeVertexNormals, writeVertexColors, writeTriangleUVs, printProgress bool) bool {
	return WriteTriangleMesh(filename, mesh, writeASCII, compressed,
		writeVertexNormals, writeVertexColors, writeTriangleUVs, printProgress)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
