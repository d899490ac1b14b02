// Package imf is the intermediate, codec-neutral scene model readers
// produce and writers consume. It declares a read-only interface so
// SvfToImfAdapter and GltfWriter never share a concrete struct,
// keeping the source format's decoding fully isolated from the
// output format's encoding.
package imf

import "github.com/svf2gltf/svf2gltf/internal/math32"

// NodeKind tags the IMF node union: Group, Object,
// Camera or Light.
type NodeKind int

const (
	NodeGroup NodeKind = iota
	NodeObject
	NodeCamera
	NodeLight
)

// Node is one entry in a Scene's flat node table. Only the fields
// relevant to Kind are meaningful. SvfToImfAdapter only ever produces
// NodeObject nodes, and GltfWriter only emits NodeObject nodes: Group,
// Camera and Light nodes are skipped.
type Node struct {
	Kind         NodeKind
	DbID         uint32
	Name         string
	Children     []int // valid for NodeGroup
	GeometryID   int    // valid for NodeObject
	MaterialID   int    // valid for NodeObject
	Transform    *Transform
	WorldBBoxMin math32.Vector3 // valid for NodeObject
	WorldBBoxMax math32.Vector3 // valid for NodeObject
}

// TransformKind tags IMF's transform union: an explicit matrix, or a
// decomposed translation/rotation/scale.
type TransformKind int

const (
	TransformMatrix TransformKind = iota
	TransformDecomposed
)

// Transform is column-major when Kind is TransformMatrix, or a TRS decomposition when TransformDecomposed. Decomposed
// components are nil when absent so the writer can tell "identity"
// apart from "not specified" and omit unchanged fields.
type Transform struct {
	Kind        TransformKind
	Matrix      math32.Matrix4
	Translation *math32.Vector3
	Rotation    *math32.Quaternion
	Scale       *math32.Vector3
}

// DecomposedTransform returns a Transform carrying only the non-nil
// TRS components given.
func DecomposedTransform(t *math32.Vector3, r *math32.Quaternion, s *math32.Vector3) *Transform {
	return &Transform{Kind: TransformDecomposed, Translation: t, Rotation: r, Scale: s}
}

// MatrixTransform returns a Transform carrying an explicit matrix.
func MatrixTransform(m math32.Matrix4) *Transform {
	return &Transform{Kind: TransformMatrix, Matrix: m}
}

// GeometryKind tags the IMF geometry union.
type GeometryKind int

const (
	GeometryMesh GeometryKind = iota
	GeometryLines
	GeometryPoints
	GeometryEmpty
)

// Geometry exposes lazy, non-copying accessors over one geometry's
// buffers. Views returned by Vertices/Normals/UVs/Colors/Indices are
// only valid for the duration of a single GltfWriter write
//.
type Geometry interface {
	Kind() GeometryKind
	Indices() []uint16
	Vertices() []float32 // (x,y,z) triples
	Normals() ([]float32, bool)
	UVs(channel int) ([]float32, bool)
	Colors() ([]float32, bool)
	Bounds() (min, max math32.Vector3)
}

// Material is IMF's single reified material shape: a physically based
// (metallic/roughness) material. Unknown source materials downgrade
// to an empty Material with Unknown set.
type Material struct {
	Diffuse       [4]float32
	Metallic      float32
	Roughness     float32 // default mapping; GltfWriter may rederive from Glossiness
	Glossiness    *float32
	Opacity       float32
	DiffuseMapURI string
	Unknown       bool
}

// Metadata carries the scene-level hints GltfWriter needs to derive
// its reorientation transform.
type Metadata struct {
	DistanceUnitScale float32
	UpAxis            string
	FrontAxis         string
}

// Scene provides indexed, read-only access to a translated asset:
// nodes, geometries, materials, images and scene metadata.
// Node/geometry/material ids are dense indices into their respective
// tables.
type Scene interface {
	NodeCount() int
	GetNode(i int) Node
	GeometryCount() int
	GetGeometry(i int) Geometry
	MaterialCount() int
	GetMaterial(i int) Material
	GetImage(uri string) ([]byte, bool)
	GetMetadata() Metadata
}
