// Package svf decodes a derivative's SVF asset bundle into an
// in-memory SVF scene: metadata, fragments, geometry metadata, mesh
// packs, materials and images.
package svf

import (
	"github.com/svf2gltf/svf2gltf/internal/math32"
	"github.com/svf2gltf/svf2gltf/pack"
)

// PrimitiveType is the renderable kind a GeometryMetadata entry and
// its resolved MeshEntity carry.
type PrimitiveType int

const (
	PrimitiveTriangles PrimitiveType = iota
	PrimitiveLines
	PrimitivePoints
)

// Metadata carries the world unit/axis hints SvfToImfAdapter and
// GltfWriter use to derive a reorientation transform.
type Metadata struct {
	DistanceUnitScale float32 // to meters
	UpAxis            string  // raw hint, e.g. "Z"
	FrontAxis         string  // raw hint, e.g. "Y"
	WorldBBoxMin      math32.Vector3
	WorldBBoxMax      math32.Vector3
}

// Fragment is one renderable instance: (dbId, geometryIndex,
// materialIndex, transform, bbox).
type Fragment struct {
	DbID          uint32
	GeometryIndex int
	MaterialIndex int
	Transform     Transform
	BBoxMin       math32.Vector3
	BBoxMax       math32.Vector3
}

// GeometryMetadata locates mesh bytes inside one of the mesh
// pack-files: (packId, entityIndex, primitiveType).
type GeometryMetadata struct {
	PackID        int
	EntityIndex   int
	PrimitiveType PrimitiveType
}

// MeshEntity is one parsed entity from a mesh pack: interleaved vertex
// buffer, optional normals, per-UV-channel buffers, optional
// per-vertex colors, a 16-bit index buffer and per-entity bounds.
// Lines and points entities leave Indices/Normals/UVs as applicable to
// their primitive type.
type MeshEntity struct {
	PrimitiveType PrimitiveType
	Vertices      []float32 // interleaved (x,y,z) triples
	Normals       []float32 // optional, (x,y,z) triples matching Vertices
	UVs           [][]float32 // per channel, (u,v) pairs matching vertex count
	Colors        []float32 // optional, (r,g,b) triples matching vertex count
	Indices       []uint16
	BBoxMin       math32.Vector3
	BBoxMax       math32.Vector3
}

// VertexCount returns the number of vertices in this entity.
func (m *MeshEntity) VertexCount() int {
	return len(m.Vertices) / 3
}

// MeshPack is the decoded form of one mesh pack-file: an ordered
// array of entities indexed by EntityIndex.
type MeshPack struct {
	Entities []MeshEntity
}

// MaterialKind tags the reified material definitions this repository
// understands. Anything else decodes to Unknown and is carried
// opaquely for logging, never emitted.
type MaterialKind int

const (
	MaterialSimplePhong MaterialKind = iota
	MaterialUnknown
)

// Material is a tagged material definition. For MaterialUnknown only
// RawType is meaningful; the writer downgrades it to an empty
// material and logs a warning.
type Material struct {
	Kind          MaterialKind
	RawType       string
	Diffuse       [4]float32 // r,g,b,a
	Opacity       float32
	Glossiness    *float32 // nil if the source material omits it
	DiffuseMapURI string   // empty if no diffuse texture reference
}

// ImageSet maps an asset URI to its raw bytes. Absent entries are
// filled with a placeholder matching the URI's file extension
//.
type ImageSet map[string][]byte

// Transform is SVF's sum type over the four transform encodings;
// it is exactly the shape pack.Transform decodes.
type Transform = pack.Transform

// SVF is the fully decoded in-memory form of one 3D viewable.
type SVF struct {
	Metadata         Metadata
	Fragments        []Fragment
	GeometryMetadata []GeometryMetadata
	MeshPacks        []MeshPack
	Materials        []Material
	Images           ImageSet
}
