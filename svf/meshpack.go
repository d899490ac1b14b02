package svf

import (
	"fmt"
	"strings"

	"github.com/svf2gltf/svf2gltf/internal/svferr"
	"github.com/svf2gltf/svf2gltf/pack"
)

const (
	meshFlagHasNormals = 1 << 0
	meshFlagHasColors  = 1 << 1
)

// parseMeshPack decodes one mesh pack-file into an ordered array of
// entities, dispatching on each entry's declared primitive type to
// produce mesh, line or point entities.
func parseMeshPack(raw []byte) (MeshPack, error) {
	r, err := pack.New(raw)
	if err != nil {
		return MeshPack{}, err
	}

	entities := make([]MeshEntity, r.EntryCount())
	for i := 0; i < r.EntryCount(); i++ {
		typ, err := r.SeekEntry(i)
		if err != nil {
			return MeshPack{}, err
		}

		primType := primitiveTypeFromEntryType(typ.Type)

		entity, err := parseMeshEntity(r, primType)
		if err != nil {
			return MeshPack{}, svferr.New(svferr.KindCorruptSVF, "meshpack", fmt.Errorf("entity %d: %w", i, err))
		}
		entities[i] = entity
	}

	return MeshPack{Entities: entities}, nil
}

func primitiveTypeFromEntryType(typeName string) PrimitiveType {
	switch {
	case strings.Contains(typeName, "Lines"):
		return PrimitiveLines
	case strings.Contains(typeName, "Points"):
		return PrimitivePoints
	default:
		return PrimitiveTriangles
	}
}

func parseMeshEntity(r *pack.Reader, primType PrimitiveType) (MeshEntity, error) {
	s := r.Stream()

	flags, err := s.U8()
	if err != nil {
		return MeshEntity{}, err
	}
	uvChannelCount, err := s.U8()
	if err != nil {
		return MeshEntity{}, err
	}
	vertexCount32, err := s.U32()
	if err != nil {
		return MeshEntity{}, err
	}
	vertexCount := int(vertexCount32)

	vertices, err := readFloats(s, vertexCount*3)
	if err != nil {
		return MeshEntity{}, fmt.Errorf("vertices: %w", err)
	}

	var normals []float32
	if flags&meshFlagHasNormals != 0 {
		normals, err = readFloats(s, vertexCount*3)
		if err != nil {
			return MeshEntity{}, fmt.Errorf("normals: %w", err)
		}
	}

	uvs := make([][]float32, uvChannelCount)
	for ch := range uvs {
		uvs[ch], err = readFloats(s, vertexCount*2)
		if err != nil {
			return MeshEntity{}, fmt.Errorf("uv channel %d: %w", ch, err)
		}
	}

	var colors []float32
	if flags&meshFlagHasColors != 0 {
		colors, err = readFloats(s, vertexCount*3)
		if err != nil {
			return MeshEntity{}, fmt.Errorf("colors: %w", err)
		}
	}

	var indices []uint16
	if primType != PrimitivePoints {
		indexCount32, err := s.U32()
		if err != nil {
			return MeshEntity{}, fmt.Errorf("indexCount: %w", err)
		}
		indices = make([]uint16, indexCount32)
		for i := range indices {
			indices[i], err = s.U16()
			if err != nil {
				return MeshEntity{}, fmt.Errorf("index %d: %w", i, err)
			}
		}
	}

	bboxMin, err := r.Vector3()
	if err != nil {
		return MeshEntity{}, fmt.Errorf("bbox min: %w", err)
	}
	bboxMax, err := r.Vector3()
	if err != nil {
		return MeshEntity{}, fmt.Errorf("bbox max: %w", err)
	}

	return MeshEntity{
		PrimitiveType: primType,
		Vertices:      vertices,
		Normals:       normals,
		UVs:           uvs,
		Colors:        colors,
		Indices:       indices,
		BBoxMin:       bboxMin,
		BBoxMax:       bboxMax,
	}, nil
}

func readFloats(s interface {
	F32() (float32, error)
}, n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := s.F32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
