package meshio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/notargets/meshio/geometry"
)

// Helper function to create temporary test files
func createTempMeshFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

// observeLogs swaps the global logger for an observer for the test duration
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func cubeMesh() *geometry.TriangleMesh {
	return &geometry.TriangleMesh{
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
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{"msh", "neu", "obj", "off", "su2"}, SupportedReadExtensions())
	assert.Equal(t, []string{"obj", "off", "su2"}, SupportedWriteExtensions())
}

func TestReadErrors(t *testing.T) {
	m := cubeMesh()
	err := Read("meshfile", m, false, false)
	assert.True(t, errors.Is(err, ErrUnknownExtension))
	assert.True(t, m.IsEmpty(), "failed read clears the mesh")

	err = Read("mesh.xyz", geometry.NewTriangleMesh(), false, false)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	err = Read(filepath.Join(t.TempDir(), "missing.obj"), geometry.NewTriangleMesh(), false, false)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	fn := createTempMeshFile(t, "bad.obj", "v 0 0 0\nf 1 2 3\n")
	m = cubeMesh()
	assert.Error(t, Read(fn, m, false, false))
	assert.True(t, m.IsEmpty())
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()
	err := Write(filepath.Join(dir, "meshfile"), cubeMesh(), WriteOptions{}, false)
	assert.True(t, errors.Is(err, ErrUnknownExtension))
	err = Write(filepath.Join(dir, "mesh.msh"), cubeMesh(), WriteOptions{}, false)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.NoFileExists(t, filepath.Join(dir, "mesh.msh"))
}

func TestReadPostProcessing(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "cube.off")
	require.NoError(t, Write(fn, cubeMesh(), WriteOptions{ASCII: true}, false))

	m := geometry.NewTriangleMesh()
	require.NoError(t, Read(fn, m, false, false))
	assert.False(t, m.HasVertexNormals())

	require.NoError(t, Read(fn, m, true, false))
	assert.True(t, m.HasVertexNormals())
}

func TestRoundTripAllWritableFormats(t *testing.T) {
	for _, ext := range SupportedWriteExtensions() {
		t.Run(ext, func(t *testing.T) {
			fn := filepath.Join(t.TempDir(), "cube."+ext)
			require.NoError(t, Write(fn, cubeMesh(), WriteOptions{ASCII: true}, false))
			m := geometry.NewTriangleMesh()
			require.NoError(t, Read(fn, m, false, false))
			assert.Equal(t, cubeMesh().Vertices, m.Vertices)
			assert.Equal(t, cubeMesh().Triangles, m.Triangles)
		})
	}
}

func TestUppercaseExtension(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "CUBE.OBJ")
	require.NoError(t, Write(fn, cubeMesh(), WriteOptions{ASCII: true}, false))
	m := geometry.NewTriangleMesh()
	require.NoError(t, Read(fn, m, false, false))
	assert.Len(t, m.Triangles, 12)
}

func TestProgressDoesNotChangeResult(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "cube.obj")
	require.NoError(t, Write(fn, cubeMesh(), WriteOptions{ASCII: true}, true))
	m := geometry.NewTriangleMesh()
	require.NoError(t, Read(fn, m, false, true))
	assert.Equal(t, cubeMesh().Triangles, m.Triangles)

	broken := filepath.Join(t.TempDir(), "broken.obj")
	require.NoError(t, os.WriteFile(broken, []byte("f 1 2 3\n"), 0644))
	m = geometry.NewTriangleMesh()
	assert.Error(t, Read(broken, m, false, true))
	assert.Empty(t, m.Vertices)
}

func TestBooleanEntryPoints(t *testing.T) {
	logs := observeLogs(t)
	dir := t.TempDir()
	fn := filepath.Join(dir, "cube.obj")

	assert.True(t, WriteTriangleMesh(fn, cubeMesh(), true, false, true, true, true, false))
	m := geometry.NewTriangleMesh()
	assert.True(t, ReadTriangleMesh(fn, m, false, false))
	assert.Len(t, m.Vertices, 8)
	assert.Len(t, m.Triangles, 12)
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	reads := logs.FilterMessage("Read geometry::TriangleMesh").All()
	require.Len(t, reads, 1)
	assert.Equal(t, int64(12), reads[0].ContextMap()["triangles"])

	assert.False(t, ReadTriangleMesh(filepath.Join(dir, "missing.obj"), m, false, false))
	assert.False(t, WriteTriangleMesh(filepath.Join(dir, "cube.xyz"), cubeMesh(), true, false, true, true, true, false))
	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	var legacy IO
	assert.True(t, legacy.ReadTriangleMesh(fn, m, false, false))
	assert.True(t, legacy.WriteTriangleMesh(filepath.Join(dir, "copy.off"), m, true, false, true, true, true, false))
}
