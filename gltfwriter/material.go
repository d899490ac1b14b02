package gltfwriter

import (
	"fmt"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/svf2gltf/svf2gltf/imf"
)

// materialIndex returns the glTF material index for the IMF material
// at sourceID, building and caching it on first use.
func (w *GltfWriter) materialIndex(sourceID int) (uint32, error) {
	if idx, ok := w.materialIndexBySource[sourceID]; ok {
		return idx, nil
	}
	if sourceID < 0 || sourceID >= w.scene.MaterialCount() {
		return 0, fmt.Errorf("material index %d out of range [0,%d)", sourceID, w.scene.MaterialCount())
	}

	gm, err := w.buildGltfMaterial(w.scene.GetMaterial(sourceID))
	if err != nil {
		return 0, err
	}
	w.doc.Materials = append(w.doc.Materials, gm)
	idx := uint32(len(w.doc.Materials) - 1)
	w.materialIndexBySource[sourceID] = idx
	return idx, nil
}

func (w *GltfWriter) buildGltfMaterial(mat imf.Material) (*gltf.Material, error) {
	if mat.Unknown {
		log.WithField("rawType", "unknown").Warn("unsupported material downgraded to an empty material")
		return &gltf.Material{}, nil
	}

	roughness := mat.Roughness
	if mat.Glossiness != nil {
		roughness = w.cfg.roughnessFromGlossiness(*mat.Glossiness)
	}

	diffuse := mat.Diffuse
	gm := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &diffuse,
			MetallicFactor:  f32ptr(mat.Metallic),
			RoughnessFactor: f32ptr(roughness),
		},
	}
	if mat.Opacity < 1 {
		gm.AlphaMode = gltf.AlphaBlend
	}

	if mat.DiffuseMapURI != "" {
		texIdx, ok, err := w.textureIndex(mat.DiffuseMapURI)
		if err != nil {
			return nil, err
		}
		if ok {
			gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: texIdx}
		}
	}
	return gm, nil
}

// textureIndex resolves uri to an embedded glTF texture, reusing an
// existing one if uri was already embedded.
func (w *GltfWriter) textureIndex(uri string) (uint32, bool, error) {
	if idx, ok := w.textureIndexByURI[uri]; ok {
		return idx, true, nil
	}

	data, ok := w.scene.GetImage(uri)
	if !ok || len(data) == 0 {
		log.WithField("uri", uri).Warn("diffuse texture unavailable, material left untextured")
		return 0, false, nil
	}

	bv := &gltf.BufferView{}
	bufIdx, offset, err := w.appendBytes(data)
	if err != nil {
		return 0, false, err
	}
	bv.Buffer = bufIdx
	bv.ByteOffset = offset
	bv.ByteLength = uint32(len(data))
	w.doc.BufferViews = append(w.doc.BufferViews, bv)
	bvIdx := uint32(len(w.doc.BufferViews) - 1)

	img := &gltf.Image{MimeType: mimeTypeForURI(uri), BufferView: &bvIdx}
	w.doc.Images = append(w.doc.Images, img)
	imgIdx := uint32(len(w.doc.Images) - 1)

	sampler := &gltf.Sampler{WrapS: gltf.WrapRepeat, WrapT: gltf.WrapRepeat}
	w.doc.Samplers = append(w.doc.Samplers, sampler)
	samplerIdx := uint32(len(w.doc.Samplers) - 1)

	tex := &gltf.Texture{Source: &imgIdx, Sampler: &samplerIdx}
	w.doc.Textures = append(w.doc.Textures, tex)
	texIdx := uint32(len(w.doc.Textures) - 1)

	w.textureIndexByURI[uri] = texIdx
	return texIdx, true, nil
}

func mimeTypeForURI(uri string) string {
	switch {
	case strings.HasSuffix(uri, ".jpg"), strings.HasSuffix(uri, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(uri, ".bmp"):
		return "image/bmp"
	case strings.HasSuffix(uri, ".gif"):
		return "image/gif"
	default:
		return "image/png"
	}
}

func f32ptr(v float32) *float32 { return &v }
