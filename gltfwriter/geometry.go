package gltfwriter

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/svf2gltf/svf2gltf/imf"
	"github.com/svf2gltf/svf2gltf/internal/svferr"
)

type meshKey struct {
	geometryID int
	materialID int
}

// meshIndex returns the glTF mesh index for (geometryID, materialID),
// building and caching the mesh's single primitive on first use.
// Geometry with no vertices is reported as svferr.KindMissingMesh so
// the caller can apply the missing-mesh policy.
func (w *GltfWriter) meshIndex(geometryID int, geom imf.Geometry, materialID int) (uint32, error) {
	key := meshKey{geometryID, materialID}
	if idx, ok := w.meshIndexByKey[key]; ok {
		return idx, nil
	}

	vertices := geom.Vertices()
	if len(vertices) == 0 {
		return 0, svferr.New(svferr.KindMissingMesh, "", fmt.Errorf("geometry %d has no vertices", geometryID))
	}

	prim := &gltf.Primitive{Mode: primitiveMode(geom.Kind()), Attributes: gltf.Attribute{}}

	posBytes := encodeVec3(vertices)
	bmin, bmax := geom.Bounds()
	posIdx, err := w.writeAccessor("pos", posBytes, gltf.ComponentFloat, gltf.AccessorVec3, len(vertices)/3, []float32{bmin.X, bmin.Y, bmin.Z}, []float32{bmax.X, bmax.Y, bmax.Z})
	if err != nil {
		return 0, err
	}
	prim.Attributes[gltf.POSITION] = posIdx

	if normals, ok := geom.Normals(); ok && len(normals) > 0 {
		nBytes := encodeVec3(normals)
		nIdx, err := w.writeAccessor("nrm", nBytes, gltf.ComponentFloat, gltf.AccessorVec3, len(normals)/3, nil, nil)
		if err != nil {
			return 0, err
		}
		prim.Attributes[gltf.NORMAL] = nIdx
	}

	if uvs, ok := geom.UVs(0); ok && len(uvs) > 0 && (!w.cfg.SkipUnusedUVs || w.materialHasTexture(materialID)) {
		uvBytes := encodeVec2FlipV(uvs)
		uvIdx, err := w.writeAccessor("uv0", uvBytes, gltf.ComponentFloat, gltf.AccessorVec2, len(uvs)/2, nil, nil)
		if err != nil {
			return 0, err
		}
		prim.Attributes[gltf.TEXCOORD_0] = uvIdx
	}

	if colors, ok := geom.Colors(); ok && len(colors) > 0 {
		cBytes := encodeVec3(colors)
		cIdx, err := w.writeAccessor("col", cBytes, gltf.ComponentFloat, gltf.AccessorVec3, len(colors)/3, nil, nil)
		if err != nil {
			return 0, err
		}
		prim.Attributes[gltf.COLOR_0] = cIdx
	}

	if indices := geom.Indices(); len(indices) > 0 {
		idxBytes := encodeUint16(indices)
		accIdx, err := w.writeAccessor("idx", idxBytes, gltf.ComponentUshort, gltf.AccessorScalar, len(indices), nil, nil)
		if err != nil {
			return 0, err
		}
		prim.Indices = &accIdx
	}

	if materialID >= 0 {
		matIdx, err := w.materialIndex(materialID)
		if err != nil {
			if svferr.Is(err, svferr.KindWriterIO) {
				return 0, err
			}
		} else {
			prim.Material = &matIdx
		}
	}

	mesh := &gltf.Mesh{Primitives: []*gltf.Primitive{prim}}
	w.doc.Meshes = append(w.doc.Meshes, mesh)
	idx := uint32(len(w.doc.Meshes) - 1)
	w.meshIndexByKey[key] = idx
	return idx, nil
}

// materialHasTexture reports whether materialID resolves to a
// material with a diffuse texture reference, used to decide whether
// SkipUnusedUVs should drop a geometry's UV accessor.
func (w *GltfWriter) materialHasTexture(materialID int) bool {
	if materialID < 0 || materialID >= w.scene.MaterialCount() {
		return false
	}
	return w.scene.GetMaterial(materialID).DiffuseMapURI != ""
}

func primitiveMode(kind imf.GeometryKind) gltf.PrimitiveMode {
	switch kind {
	case imf.GeometryLines:
		return gltf.PrimitiveLines
	case imf.GeometryPoints:
		return gltf.PrimitivePoints
	default:
		return gltf.PrimitiveTriangles
	}
}

func encodeVec3(values []float32) []byte {
	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

// encodeVec2FlipV packs (u,v) pairs little-endian, flipping v so SVF's
// bottom-left UV origin maps onto glTF's top-left convention.
func encodeVec2FlipV(values []float32) []byte {
	data := make([]byte, len(values)*4)
	for i := 0; i+1 < len(values); i += 2 {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(values[i]))
		binary.LittleEndian.PutUint32(data[(i+1)*4:], math.Float32bits(1-values[i+1]))
	}
	return data
}

func encodeUint16(values []uint16) []byte {
	data := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[i*2:], v)
	}
	return data
}
