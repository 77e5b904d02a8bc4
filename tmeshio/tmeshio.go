// Package tmeshio reads and writes tgeometry.TriangleMesh files. A file's
// lowercase extension selects a registered codec; extensions without one are
// routed through the legacy geometry.TriangleMesh codec and converted.
package tmeshio

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/notargets/meshio/geometry"
	"github.com/notargets/meshio/meshio"
	"github.com/notargets/meshio/tgeometry"
	"github.com/notargets/meshio/utils"
)

// ReadOption controls a read. EnablePostProcessing lets the codec derive
// missing data such as vertex normals.
type ReadOption struct {
	EnablePostProcessing bool
	PrintProgress        bool
}

// WriteOption controls a write. The attribute flags select whether present
// normals, colors and triangle UVs are written; codecs that have a single
// encoding ignore WriteASCII and Compressed.
type WriteOption struct {
	WriteASCII         bool
	Compressed         bool
	WriteVertexNormals bool
	WriteVertexColors  bool
	WriteTriangleUVs   bool
	PrintProgress      bool
}

// DefaultWriteOption writes every present attribute, binary and uncompressed
func DefaultWriteOption() WriteOption {
	return WriteOption{
		WriteVertexNormals: true,
		WriteVertexColors:  true,
		WriteTriangleUVs:   true,
	}
}

// TriangleMeshReader reads a file into mesh and reports success
type TriangleMeshReader interface {
	ReadTriangleMesh(filename string, mesh *tgeometry.TriangleMesh, opt ReadOption) bool
}

// TriangleMeshWriter writes mesh to a file and reports success
type TriangleMeshWriter interface {
	WriteTriangleMesh(filename string, mesh *tgeometry.TriangleMesh, opt WriteOption) bool
}

// ReaderFunc adapts a function to TriangleMeshReader
type ReaderFunc func(filename string, mesh *tgeometry.TriangleMesh, opt ReadOption) bool

func (f ReaderFunc) ReadTriangleMesh(filename string, mesh *tgeometry.TriangleMesh, opt ReadOption) bool {
	return f(filename, mesh, opt)
}

// WriterFunc adapts a function to TriangleMeshWriter
type WriterFunc func(filename string, mesh *tgeometry.TriangleMesh, opt WriteOption) bool

func (f WriterFunc) WriteTriangleMesh(filename string, mesh *tgeometry.TriangleMesh, opt WriteOption) bool {
	return f(filename, mesh, opt)
}

// LegacyIO is the fallback codec for extensions with no registered handler.
// meshio.IO implements it.
type LegacyIO interface {
	ReadTriangleMesh(filename string, mesh *geometry.TriangleMesh, enablePostProcessing, printProgress bool) bool
	WriteTriangleMesh(filename string, mesh *geometry.TriangleMesh,
		writeASCII, compressed, writeVertexNormals, writeVertexColors, writeTriangleUVs, printProgress bool) bool
}

// Registry maps lowercase extensions to codecs. It is not modified after
// NewRegistry returns and may be shared between goroutines.
type Registry struct {
	readers map[string]TriangleMeshReader
	writers map[string]TriangleMeshWriter
	legacy  LegacyIO
	logger  *zap.Logger
}

type Option func(*Registry)

// WithReader registers r for each of the extensions, given with or without
// the leading dot in any case.
func WithReader(r TriangleMeshReader, extensions ...string) Option {
	return func(reg *Registry) {
		for _, ext := range extensions {
			reg.readers[normalizeExtension(ext)] = r
		}
	}
}

func WithWriter(w TriangleMeshWriter, extensions ...string) Option {
	return func(reg *Registry) {
		for _, ext := range extensions {
			reg.writers[normalizeExtension(ext)] = w
		}
	}
}

// WithLegacy replaces the fallback codec, meshio.IO by default
func WithLegacy(legacy LegacyIO) Option {
	return func(reg *Registry) { reg.legacy = legacy }
}

// WithLogger fixes the logger; without it the global zap logger at the time
// of each call is used.
func WithLogger(logger *zap.Logger) Option {
	return func(reg *Registry) { reg.logger = logger }
}

// NewRegistry builds a registry with no codecs and meshio.IO as fallback,
// then applies opts in order. A later option for the same extension wins.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		readers: make(map[string]TriangleMeshReader),
		writers: make(map[string]TriangleMeshWriter),
		legacy:  meshio.IO{},
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func (reg *Registry) log() *zap.Logger {
	if reg.logger != nil {
		return reg.logger
	}
	return zap.L()
}

// Readers returns the extensions with a registered reader, sorted
func (reg *Registry) Readers() []string {
	exts := make([]string, 0, len(reg.readers))
	for ext := range reg.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Writers returns the extensions with a registered writer, sorted
func (reg *Registry) Writers() []string {
	exts := make([]string, 0, len(reg.writers))
	for ext := range reg.writers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ReadTriangleMesh reads filename into mesh. Without a registered reader the
// legacy codec reads the file and mesh is replaced only when it succeeds. With
// one, the reader writes into mesh directly and whatever it leaves on failure
// is up to the codec.
func (reg *Registry) ReadTriangleMesh(filename string, mesh *tgeometry.TriangleMesh, opt ReadOption) bool {
	logger := reg.log()
	ext := utils.GetFileExtensionInLowerCase(filename)
	if ext == "" {
		logger.Warn("Read TriangleMesh failed: unknown file extension", zap.String("filename", filename))
		return false
	}
	reader, ok := reg.readers[ext]
	if !ok {
		legacy := geometry.NewTriangleMesh()
		if !reg.legacy.ReadTriangleMesh(filename, legacy, opt.EnablePostProcessing, opt.PrintProgress) {
			return false
		}
		*mesh = *tgeometry.FromLegacyTriangleMesh(legacy)
		return true
	}

	success := reader.ReadTriangleMesh(filename, mesh, opt)
	logger.Debug("Read TriangleMesh",
		zap.Int("triangles", mesh.GetTriangles().GetLength()),
		zap.Int("vertices", mesh.GetVertices().GetLength()))
	if mesh.HasVertices() && !mesh.HasTriangles() {
		logger.Warn("TriangleMesh appears to be a PointCloud (only contains vertices, but no triangles)",
			zap.String("filename", filename))
	}
	return success
}

// WriteTriangleMesh writes mesh to filename, converting to the legacy mesh
// when no writer is registered for the extension.
func (reg *Registry) WriteTriangleMesh(filename string, mesh *tgeometry.TriangleMesh, opt WriteOption) bool {
	logger := reg.log()
	ext := utils.GetFileExtensionInLowerCase(filename)
	if ext == "" {
		logger.Warn("Write TriangleMesh failed: unknown file extension", zap.String("filename", filename))
		return false
	}
	writer, ok := reg.writers[ext]
	if !ok {
		return reg.legacy.WriteTriangleMesh(filename, mesh.ToLegacyTriangleMesh(),
			opt.WriteASCII, opt.Compressed, opt.WriteVertexNormals, opt.WriteVertexColors,
			opt.WriteTriangleUVs, opt.PrintProgress)
	}

	success := writer.WriteTriangleMesh(filename, mesh, opt)
	logger.Debug("Write TriangleMesh",
		zap.Int("triangles", mesh.GetTriangles().GetLength()),
		zap.Int("vertices", mesh.GetVertices().GetLength()))
	return success
}

// CreateMeshFromFile returns a new mesh read from filename. It never returns
// nil; a failed read yields an empty mesh.
func (reg *Registry) CreateMeshFromFile(filename string, printProgress bool) *tgeometry.TriangleMesh {
	mesh := tgeometry.NewTriangleMesh()
	reg.ReadTriangleMesh(filename, mesh, ReadOption{PrintProgress: printProgress})
	return mesh
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry used by the package functions.
// It carries the native YAML codec; every other extension uses meshio.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(
			WithReader(ReaderFunc(ReadTriangleMeshFromYAML), YAMLExtensions...),
			WithWriter(WriterFunc(WriteTriangleMeshToYAML), YAMLExtensions...),
		)
	})
	return defaultRegistry
}

// ReadTriangleMesh reads through the Default registry
func ReadTriangleMesh(filename string, mesh *tgeometry.TriangleMesh, opt ReadOption) bool {
	return Default().ReadTriangleMesh(filename, mesh, opt)
}

// WriteTriangleMesh writes through the Default registry
func WriteTriangleMesh(filename string, mesh *tgeometry.TriangleMesh, opt WriteOption) bool {
	return Default().WriteTriangleMesh(filename, mesh, opt)
}

// CreateMeshFromFile reads through the Default registry, never returning nil
func CreateMeshFromFile(filename string, printProgress bool) *tgeometry.TriangleMesh {
	return Default().CreateMeshFromFile(filename, printProgress)
}
