package svf

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/svf2gltf/svf2gltf/internal/svferr"
)

type materialsJSON struct {
	Materials map[string]materialGroupJSON `json:"materials"`
}

type materialGroupJSON struct {
	UserAssets []string                     `json:"userassets"`
	Materials  map[string]materialAssetJSON `json:"materials"`
}

type colorValue struct {
	R, G, B, A float32
}

type materialAssetJSON struct {
	Definition string `json:"definition"`
	Properties struct {
		Colors map[string]struct {
			Values []colorValue `json:"values"`
		} `json:"colors"`
		Scalars map[string]struct {
			Values []float32 `json:"values"`
		} `json:"scalars"`
	} `json:"properties"`
	Textures map[string]struct {
		Connections []string `json:"connections"`
	} `json:"textures"`
}

// parseMaterials decodes the materials.json.gz asset. Group keys are
// the string-encoded material index SVF assigns; groups are visited
// in that numeric order so Material indices and the texture URIs
// queued for image loading are deterministic across runs.
//
// For each group, the root material is the one named by
// userassets[0]. A SimplePhong definition's diffuse color comes from
// properties.colors.generic_diffuse.values[0]; a missing diffuse
// value degrades to zero color with a warning, a missing opacity
// defaults to 1. Anything else decodes to MaterialUnknown, which the
// writer emits as an empty material.
func parseMaterials(raw []byte) ([]Material, []string, error) {
	var doc materialsJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, svferr.New(svferr.KindCorruptSVF, "materials", err)
	}

	keys := make([]string, 0, len(doc.Materials))
	for k := range doc.Materials {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	var materials []Material
	var textureURIs []string
	seenTextures := map[string]bool{}

	for _, key := range keys {
		group := doc.Materials[key]
		if len(group.UserAssets) == 0 {
			continue
		}
		root, ok := group.Materials[group.UserAssets[0]]
		if !ok {
			continue
		}

		mat := materialFromAsset(root)
		if mat.DiffuseMapURI != "" && !seenTextures[mat.DiffuseMapURI] {
			seenTextures[mat.DiffuseMapURI] = true
			textureURIs = append(textureURIs, mat.DiffuseMapURI)
		}
		materials = append(materials, mat)
	}

	return materials, textureURIs, nil
}

func materialFromAsset(asset materialAssetJSON) Material {
	if asset.Definition != "SimplePhong" {
		return Material{Kind: MaterialUnknown, RawType: asset.Definition, Opacity: 1}
	}

	mat := Material{Kind: MaterialSimplePhong, RawType: asset.Definition, Opacity: 1}

	if diffuse, ok := asset.Properties.Colors["generic_diffuse"]; ok && len(diffuse.Values) > 0 {
		v := diffuse.Values[0]
		mat.Diffuse = [4]float32{v.R, v.G, v.B, v.A}
	} else {
		log.Warn("material has no generic_diffuse color, using zero color")
	}

	if opacity, ok := asset.Properties.Scalars["generic_transparency"]; ok && len(opacity.Values) > 0 {
		mat.Opacity = 1 - opacity.Values[0]
	}

	if glossiness, ok := asset.Properties.Scalars["generic_glossiness"]; ok && len(glossiness.Values) > 0 {
		g := glossiness.Values[0]
		mat.Glossiness = &g
	}

	if diffuseTex, ok := asset.Textures["generic_diffuse"]; ok && len(diffuseTex.Connections) > 0 {
		mat.DiffuseMapURI = diffuseTex.Connections[0]
	}

	return mat
}
