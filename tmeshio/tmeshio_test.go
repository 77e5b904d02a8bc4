package tmeshio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/meshio/geometry"
	"github.com/notargets/meshio/tgeometry"
)

// mockLegacy records the calls made to the fallback codec
type mockLegacy struct {
	succeed    bool
	source     *geometry.TriangleMesh // copied into the target on read
	readCalls  int
	writeCalls int
	readFlags  []bool
	writeFlags []bool
	written    *geometry.TriangleMesh
}

func (m *mockLegacy) ReadTriangleMesh(filename string, mesh *geometry.TriangleMesh, enablePostProcessing, printProgress bool) bool {
	m.readCalls++
	m.readFlags = []bool{enablePostProcessing, printProgress}
	if m.source != nil {
		*mesh = *m.source
	}
	return m.succeed
}

func (m *mockLegacy) WriteTriangleMesh(filename string, mesh *geometry.TriangleMesh,
	writeASCII, compressed, writeVertexNormals, writeVertexColors, writeTriangleUVs, printProgress bool) bool {
	m.writeCalls++
	m.writeFlags = []bool{writeASCII, compressed, writeVertexNormals, writeVertexColors, writeTriangleUVs, printProgress}
	m.written = mesh
	return m.succeed
}

func newObserved() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func observeGlobal(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	logger, logs := newObserved()
	t.Cleanup(zap.ReplaceGlobals(logger))
	return logs
}

func legacyCube() *geometry.TriangleMesh {
	m := &geometry.TriangleMesh{
		Vertices: [][3]float64{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		Triangles: [][3]int{
			{0, 2, 1}, {0, 3, 2},
			{4, 5, 6}, {4, 6, 7},
			{0, 1, 5}, {0, 5, 4},
			{1, 2, 6}, {1, 6, 5},
			{2, 3, 7}, {2, 7, 6},
			{3, 0, 4}, {3, 4, 7},
		},
	}
	return m.ComputeVertexNormals()
}

func pointCloud() *tgeometry.TriangleMesh {
	m := tgeometry.NewTriangleMesh()
	m.SetVertices(tgeometry.TensorFromVec3([][3]float64{{0, 0, 0}, {1, 2, 3}}))
	return m
}

const cubeOBJ = `# unit cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 3 2
f 1 4 3
f 5 6 7
f 5 7 8
f 1 2 6
f 1 6 5
f 2 3 7
f 2 7 6
f 3 4 8
f 3 8 7
f 4 1 5
f 4 5 8
`

func TestDefaultWriteOption(t *testing.T) {
	assert.Equal(t, WriteOption{
		WriteVertexNormals: true,
		WriteVertexColors:  true,
		WriteTriangleUVs:   true,
	}, DefaultWriteOption())
}

func TestNoExtensionFailsWithoutIO(t *testing.T) {
	logger, logs := newObserved()
	legacy := &mockLegacy{succeed: true, source: legacyCube()}
	reader := ReaderFunc(func(string, *tgeometry.TriangleMesh, ReadOption) bool {
		t.Fatal("reader must not be called")
		return false
	})
	reg := NewRegistry(WithLegacy(legacy), WithLogger(logger), WithReader(reader, ""))

	mesh := pointCloud()
	assert.False(t, reg.ReadTriangleMesh("meshfile", mesh, ReadOption{}))
	assert.False(t, reg.WriteTriangleMesh("meshfile", mesh, DefaultWriteOption()))
	assert.False(t, reg.ReadTriangleMesh(filepath.Join("dir.d", "meshfile"), mesh, ReadOption{}))
	assert.Equal(t, 0, legacy.readCalls)
	assert.Equal(t, 0, legacy.writeCalls)
	assert.Equal(t, 2, mesh.GetVertices().GetLength())
	assert.NoFileExists(t, "meshfile")

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 3)
	assert.Equal(t, "meshfile", warnings[0].ContextMap()["filename"])
}

func TestReadFallbackConvertsLegacyMesh(t *testing.T) {
	logger, logs := newObserved()
	legacy := &mockLegacy{succeed: true, source: legacyCube()}
	reg := NewRegistry(WithLegacy(legacy), WithLogger(logger))

	mesh := pointCloud()
	require.True(t, reg.ReadTriangleMesh("model.xyz", mesh, ReadOption{EnablePostProcessing: true, PrintProgress: false}))
	assert.Equal(t, 1, legacy.readCalls)
	assert.Equal(t, []bool{true, false}, legacy.readFlags)

	assert.Equal(t, 8, mesh.GetVertices().GetLength())
	assert.Equal(t, 12, mesh.GetTriangles().GetLength())
	assert.True(t, mesh.HasVertexNormals())
	assert.False(t, mesh.HasVertexColors())
	assert.Equal(t, legacyCube().Triangles, mesh.GetTriangles().ToIndex3())
	assert.Equal(t, legacyCube().VertexNormals, mesh.GetVertexNormals().ToVec3())
	assert.Equal(t, 0, logs.Len(), "the fallback path leaves logging to the legacy codec")
}

func TestReadFallbackFailureLeavesTargetUntouched(t *testing.T) {
	legacy := &mockLegacy{succeed: false, source: legacyCube()}
	reg := NewRegistry(WithLegacy(legacy), WithLogger(zap.NewNop()))

	mesh := pointCloud()
	before := mesh.GetVertices().Clone()
	assert.False(t, reg.ReadTriangleMesh("model.obj", mesh, ReadOption{PrintProgress: true}))
	assert.Equal(t, []bool{false, true}, legacy.readFlags)
	assert.Equal(t, before.Data(), mesh.GetVertices().Data())
	assert.False(t, mesh.HasTriangles())
}

func TestWriteFallbackForwardsFlagsInOrder(t *testing.T) {
	legacy := &mockLegacy{succeed: true}
	reg := NewRegistry(WithLegacy(legacy), WithLogger(zap.NewNop()))
	mesh := tgeometry.FromLegacyTriangleMesh(legacyCube())

	opt := WriteOption{
		WriteASCII:         true,
		Compressed:         false,
		WriteVertexNormals: true,
		WriteVertexColors:  false,
		WriteTriangleUVs:   false,
		PrintProgress:      true,
	}
	assert.True(t, reg.WriteTriangleMesh("out.stl", mesh, opt))
	assert.Equal(t, []bool{true, false, true, false, false, true}, legacy.writeFlags)
	require.NotNil(t, legacy.written)
	assert.Equal(t, legacyCube().Vertices, legacy.written.Vertices)
	assert.Equal(t, legacyCube().Triangles, legacy.written.Triangles)
	assert.True(t, legacy.written.HasVertexNormals())

	legacy.succeed = false
	assert.False(t, reg.WriteTriangleMesh("out.stl", mesh, DefaultWriteOption()))
	assert.Equal(t, []bool{false, false, true, true, true, false}, legacy.writeFlags)
}

func TestPointCloudWarningOnlyOnRegisteredPath(t *testing.T) {
	const msg = "TriangleMesh appears to be a PointCloud (only contains vertices, but no triangles)"
	logger, logs := newObserved()
	reader := ReaderFunc(func(_ string, mesh *tgeometry.TriangleMesh, _ ReadOption) bool {
		*mesh = *pointCloud()
		return true
	})
	legacy := &mockLegacy{succeed: true, source: pointCloud().ToLegacyTriangleMesh()}
	reg := NewRegistry(WithLegacy(legacy), WithLogger(logger), WithReader(reader, "pcd"))

	mesh := tgeometry.NewTriangleMesh()
	require.True(t, reg.ReadTriangleMesh("cloud.pcd", mesh, ReadOption{}))
	assert.Equal(t, 1, logs.FilterMessage(msg).Len())
	counts := logs.FilterMessage("Read TriangleMesh").All()
	require.Len(t, counts, 1)
	assert.Equal(t, zapcore.DebugLevel, counts[0].Level)
	assert.Equal(t, int64(0), counts[0].ContextMap()["triangles"])
	assert.Equal(t, int64(2), counts[0].ContextMap()["vertices"])

	mesh = tgeometry.NewTriangleMesh()
	require.True(t, reg.ReadTriangleMesh("cloud.ply", mesh, ReadOption{}))
	assert.Equal(t, 2, mesh.GetVertices().GetLength())
	assert.Equal(t, 1, logs.FilterMessage(msg).Len(), "fallback path does not warn")
}

func TestRegisteredHandlersReturnTheirResult(t *testing.T) {
	logger, logs := newObserved()
	var gotOpt WriteOption
	writer := WriterFunc(func(_ string, _ *tgeometry.TriangleMesh, opt WriteOption) bool {
		gotOpt = opt
		return false
	})
	reader := ReaderFunc(func(string, *tgeometry.TriangleMesh, ReadOption) bool { return false })
	legacy := &mockLegacy{succeed: true}
	reg := NewRegistry(WithLegacy(legacy), WithLogger(logger), WithReader(reader, "abc"), WithWriter(writer, "abc"))

	mesh := tgeometry.FromLegacyTriangleMesh(legacyCube())
	assert.False(t, reg.ReadTriangleMesh("x.abc", tgeometry.NewTriangleMesh(), ReadOption{}))
	assert.False(t, reg.WriteTriangleMesh("x.abc", mesh, DefaultWriteOption()))
	assert.Equal(t, DefaultWriteOption(), gotOpt)
	assert.Equal(t, 0, legacy.readCalls+legacy.writeCalls)

	writes := logs.FilterMessage("Write TriangleMesh").All()
	require.Len(t, writes, 1)
	assert.Equal(t, int64(12), writes[0].ContextMap()["triangles"])
	assert.Equal(t, int64(8), writes[0].ContextMap()["vertices"])
}

func TestExtensionMatchingIsCaseInsensitive(t *testing.T) {
	var reads, writes int
	reader := ReaderFunc(func(_ string, mesh *tgeometry.TriangleMesh, _ ReadOption) bool {
		reads++
		*mesh = *tgeometry.FromLegacyTriangleMesh(legacyCube())
		return true
	})
	writer := WriterFunc(func(string, *tgeometry.TriangleMesh, WriteOption) bool {
		writes++
		return true
	})
	legacy := &mockLegacy{}
	reg := NewRegistry(WithLegacy(legacy), WithLogger(zap.NewNop()),
		WithReader(reader, ".OBJ"), WithWriter(writer, "Obj"))

	for _, name := range []string{"FILE.OBJ", "file.obj", "dir/File.Obj"} {
		assert.True(t, reg.ReadTriangleMesh(name, tgeometry.NewTriangleMesh(), ReadOption{}), name)
		assert.True(t, reg.WriteTriangleMesh(name, tgeometry.NewTriangleMesh(), DefaultWriteOption()), name)
	}
	assert.Equal(t, 3, reads)
	assert.Equal(t, 3, writes)
	assert.Equal(t, 0, legacy.readCalls+legacy.writeCalls)
	assert.Equal(t, []string{"obj"}, reg.Readers())
	assert.Equal(t, []string{"obj"}, reg.Writers())
}

func TestEmptyRegistryUsesLegacyCodec(t *testing.T) {
	observeGlobal(t)
	reg := NewRegistry()
	assert.Empty(t, reg.Readers())
	assert.Empty(t, reg.Writers())

	fn := filepath.Join(t.TempDir(), "cube.obj")
	require.NoError(t, os.WriteFile(fn, []byte(cubeOBJ), 0644))

	mesh := tgeometry.NewTriangleMesh()
	require.True(t, reg.ReadTriangleMesh(fn, mesh, ReadOption{}))
	assert.Equal(t, 8, mesh.GetVertices().GetLength())
	assert.Equal(t, 12, mesh.GetTriangles().GetLength())
	assert.False(t, mesh.HasVertexNormals())

	require.True(t, reg.ReadTriangleMesh(fn, mesh, ReadOption{EnablePostProcessing: true}))
	assert.True(t, mesh.HasVertexNormals())

	out := filepath.Join(t.TempDir(), "CUBE.OFF")
	require.True(t, reg.WriteTriangleMesh(out, mesh, DefaultWriteOption()))
	back := reg.CreateMeshFromFile(out, false)
	assert.Equal(t, mesh.GetVertices().Data(), back.GetVertices().Data())
	assert.Equal(t, mesh.GetTriangles().Data(), back.GetTriangles().Data())
	assert.True(t, back.HasVertexNormals())
}

func TestCreateMeshFromFileNeverNil(t *testing.T) {
	logs := observeGlobal(t)
	mesh := CreateMeshFromFile("nonexistent.obj", false)
	require.NotNil(t, mesh)
	assert.True(t, mesh.IsEmpty())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	mesh = CreateMeshFromFile("nonexistent", false)
	require.NotNil(t, mesh)
	assert.True(t, mesh.IsEmpty())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Equal(t, []string{"yaml", "yml"}, Default().Readers())
	assert.Equal(t, []string{"yaml", "yml"}, Default().Writers())
}

func TestPackageFunctionsFallBackForLegacyFormats(t *testing.T) {
	observeGlobal(t)
	dir := t.TempDir()
	fn := filepath.Join(dir, "cube.obj")
	require.NoError(t, os.WriteFile(fn, []byte(cubeOBJ), 0644))

	mesh := tgeometry.NewTriangleMesh()
	require.True(t, ReadTriangleMesh(fn, mesh, ReadOption{}))
	assert.Equal(t, 8, mesh.GetVertices().GetLength())
	assert.Equal(t, 12, mesh.GetTriangles().GetLength())

	out := filepath.Join(dir, "cube.su2")
	require.True(t, WriteTriangleMesh(out, mesh, DefaultWriteOption()))
	back := CreateMeshFromFile(out, false)
	assert.Equal(t, 12, back.GetTriangles().GetLength())
}

func TestWriteFallbackAcceptsDenseTensors(t *testing.T) {
	legacy := &mockLegacy{succeed: true}
	reg := NewRegistry(WithLegacy(legacy), WithLogger(zap.NewNop()))
	mesh := tgeometry.NewTriangleMeshFrom(
		tgeometry.Tensor{M: mat.NewDense(3, 3, []float64{0, 0, 0, 1, 0, 0, 0, 1, 0})},
		tgeometry.Tensor{M: mat.NewDense(1, 3, []float64{0, 1, 2})})

	var ok bool
	require.NotPanics(t, func() { ok = reg.WriteTriangleMesh("a.obj", mesh, DefaultWriteOption()) })
	assert.True(t, ok)
	require.NotNil(t, legacy.written)
	assert.Equal(t, [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, legacy.written.Vertices)
	assert.Equal(t, [][3]int{{0, 1, 2}}, legacy.written.Triangles)

	bad := tgeometry.NewTriangleMeshFrom(tgeometry.NewTensor(3, 2, nil), tgeometry.TensorFromIndex3([][3]int{{0, 1, 2}}))
	require.NotPanics(t, func() { reg.WriteTriangleMesh("b.obj", bad, DefaultWriteOption()) })
	assert.Empty(t, legacy.written.Vertices)
}
