package svf

import (
	"fmt"

	"github.com/svf2gltf/svf2gltf/internal/svferr"
	"github.com/svf2gltf/svf2gltf/pack"
)

// parseGeometryMetadata decodes one packfile entry per geomId, each
// mapping to (packId, entityIndex, primitiveType).
func parseGeometryMetadata(raw []byte) ([]GeometryMetadata, error) {
	r, err := pack.New(raw)
	if err != nil {
		return nil, err
	}

	result := make([]GeometryMetadata, r.EntryCount())
	for i := 0; i < r.EntryCount(); i++ {
		if _, err := r.SeekEntry(i); err != nil {
			return nil, err
		}

		packID, err := r.Stream().I32()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "geometryMetadata", fmt.Errorf("geom %d packId: %w", i, err))
		}
		entityIndex, err := r.Stream().I32()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "geometryMetadata", fmt.Errorf("geom %d entityIndex: %w", i, err))
		}
		primTag, err := r.Stream().U8()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "geometryMetadata", fmt.Errorf("geom %d primitiveType: %w", i, err))
		}

		primType, err := parsePrimitiveType(primTag)
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "geometryMetadata", fmt.Errorf("geom %d: %w", i, err))
		}

		result[i] = GeometryMetadata{
			PackID:        int(packID),
			EntityIndex:   int(entityIndex),
			PrimitiveType: primType,
		}
	}

	return result, nil
}

func parsePrimitiveType(tag uint8) (PrimitiveType, error) {
	switch tag {
	case 0:
		return PrimitiveTriangles, nil
	case 1:
		return PrimitiveLines, nil
	case 2:
		return PrimitivePoints, nil
	default:
		return 0, fmt.Errorf("unknown primitiveType tag %d", tag)
	}
}
