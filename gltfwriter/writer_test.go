package gltfwriter

import (
	"context"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svf2gltf/svf2gltf/imf"
	"github.com/svf2gltf/svf2gltf/internal/math32"
)

// fakeGeometry is a minimal imf.Geometry backed by literal slices.
type fakeGeometry struct {
	kind     imf.GeometryKind
	vertices []float32
	indices  []uint16
	min, max math32.Vector3
}

func (g *fakeGeometry) Kind() imf.GeometryKind         { return g.kind }
func (g *fakeGeometry) Indices() []uint16              { return g.indices }
func (g *fakeGeometry) Vertices() []float32             { return g.vertices }
func (g *fakeGeometry) Normals() ([]float32, bool)      { return nil, false }
func (g *fakeGeometry) UVs(int) ([]float32, bool)       { return nil, false }
func (g *fakeGeometry) Colors() ([]float32, bool)       { return nil, false }
func (g *fakeGeometry) Bounds() (math32.Vector3, math32.Vector3) { return g.min, g.max }

// fakeScene is a minimal, literal imf.Scene for exercising GltfWriter
// without going through svf/SvfToImfAdapter.
type fakeScene struct {
	nodes      []imf.Node
	geometries []imf.Geometry
	materials  []imf.Material
	images     map[string][]byte
	metadata   imf.Metadata
}

func (s *fakeScene) NodeCount() int                  { return len(s.nodes) }
func (s *fakeScene) GetNode(i int) imf.Node           { return s.nodes[i] }
func (s *fakeScene) GeometryCount() int               { return len(s.geometries) }
func (s *fakeScene) GetGeometry(i int) imf.Geometry   { return s.geometries[i] }
func (s *fakeScene) MaterialCount() int               { return len(s.materials) }
func (s *fakeScene) GetMaterial(i int) imf.Material   { return s.materials[i] }
func (s *fakeScene) GetMetadata() imf.Metadata        { return s.metadata }
func (s *fakeScene) GetImage(uri string) ([]byte, bool) {
	data, ok := s.images[uri]
	return data, ok
}

func triangleGeometry() *fakeGeometry {
	return &fakeGeometry{
		kind:     imf.GeometryMesh,
		vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		indices:  []uint16{0, 1, 2},
		min:      math32.NewVector3(0, 0, 0),
		max:      math32.NewVector3(1, 1, 0),
	}
}

func TestWriteDeduplicatesRepeatedGeometry(t *testing.T) {
	scene := &fakeScene{
		nodes: []imf.Node{
			{Kind: imf.NodeObject, DbID: 1, GeometryID: 0, MaterialID: -1},
			{Kind: imf.NodeObject, DbID: 2, GeometryID: 1, MaterialID: -1},
		},
		geometries: []imf.Geometry{triangleGeometry(), triangleGeometry()},
	}

	cfg := DefaultConfig()
	cfg.Reorient = false
	cfg.Deduplicate = true
	w := New(scene, cfg, t.TempDir())
	result, err := w.Write(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.MeshCount)
	// Both meshes reference the same vertex accessor (identical content).
	doc := w.Document()
	pos0 := doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION]
	pos1 := doc.Meshes[1].Primitives[0].Attributes[gltf.POSITION]
	assert.Equal(t, pos0, pos1)
	require.Len(t, doc.Accessors, 2) // one shared POSITION accessor and one shared index accessor
}

func TestWriteRespectsDbIDFilter(t *testing.T) {
	scene := &fakeScene{
		nodes: []imf.Node{
			{Kind: imf.NodeObject, DbID: 1, GeometryID: 0, MaterialID: -1},
			{Kind: imf.NodeObject, DbID: 2, GeometryID: 0, MaterialID: -1},
		},
		geometries: []imf.Geometry{triangleGeometry()},
	}

	cfg := DefaultConfig()
	cfg.Reorient = false
	cfg.FilterDbIDs = map[uint32]bool{1: true}
	w := New(scene, cfg, t.TempDir())
	result, err := w.Write(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedByFilter)
	// root node + one kept leaf node
	assert.Equal(t, 2, len(w.Document().Nodes))
}

func TestWriteMissingMeshEmitsEmptyNode(t *testing.T) {
	scene := &fakeScene{
		nodes: []imf.Node{
			{Kind: imf.NodeObject, DbID: 5, GeometryID: 0, MaterialID: -1},
		},
		geometries: []imf.Geometry{&fakeGeometry{kind: imf.GeometryEmpty}},
	}

	cfg := DefaultConfig()
	cfg.Reorient = false
	w := New(scene, cfg, t.TempDir())
	result, err := w.Write(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedMissing)
	assert.Equal(t, 0, result.MeshCount)
	assert.Equal(t, 2, len(w.Document().Nodes)) // root + the empty leaf
}

func TestWriteBufferRotatesAtMaxSize(t *testing.T) {
	scene := &fakeScene{
		nodes: []imf.Node{
			{Kind: imf.NodeObject, DbID: 1, GeometryID: 0, MaterialID: -1},
			{Kind: imf.NodeObject, DbID: 2, GeometryID: 1, MaterialID: -1},
		},
		geometries: []imf.Geometry{
			&fakeGeometry{kind: imf.GeometryMesh, vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 1}, indices: []uint16{0, 1, 2}},
			&fakeGeometry{kind: imf.GeometryMesh, vertices: []float32{2, 0, 0, 3, 0, 0, 2, 1, 1}, indices: []uint16{0, 1, 2}},
		},
	}

	cfg := DefaultConfig()
	cfg.Reorient = false
	cfg.Deduplicate = false
	cfg.MaxBufferSize = 16 // smaller than one geometry's own bytes, forces rotation before the second
	w := New(scene, cfg, t.TempDir())
	_, err := w.Write(context.Background())
	require.NoError(t, err)

	assert.Greater(t, len(w.Document().Buffers), 1)
}

func TestReorientMapsZUpToYUp(t *testing.T) {
	scene := &fakeScene{metadata: imf.Metadata{UpAxis: "Z"}}
	w := New(scene, DefaultConfig(), t.TempDir())
	_, err := w.Write(context.Background())
	require.NoError(t, err)

	root := w.Document().Nodes[0]
	assert.NotEqual(t, math32.Identity4(), math32.Matrix4(root.Matrix))
}
