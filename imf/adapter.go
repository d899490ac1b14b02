package imf

import (
	"github.com/svf2gltf/svf2gltf/internal/math32"
	"github.com/svf2gltf/svf2gltf/pack"
	"github.com/svf2gltf/svf2gltf/svf"
)

// SvfToImfAdapter wraps a decoded svf.SVF as a Scene: one flat
// NodeObject per fragment, dbid preserved, transform kind converted
// to the matching Transform variant.
type SvfToImfAdapter struct {
	src *svf.SVF
}

// NewSvfToImfAdapter returns a Scene backed by src. src is not
// copied; it must outlive the returned Scene.
func NewSvfToImfAdapter(src *svf.SVF) *SvfToImfAdapter {
	return &SvfToImfAdapter{src: src}
}

func (a *SvfToImfAdapter) NodeCount() int { return len(a.src.Fragments) }

func (a *SvfToImfAdapter) GetNode(i int) Node {
	f := a.src.Fragments[i]
	return Node{
		Kind:         NodeObject,
		DbID:         f.DbID,
		GeometryID:   f.GeometryIndex,
		MaterialID:   f.MaterialIndex,
		Transform:    convertTransform(f.Transform),
		WorldBBoxMin: f.BBoxMin,
		WorldBBoxMax: f.BBoxMax,
	}
}

func (a *SvfToImfAdapter) GeometryCount() int { return len(a.src.GeometryMetadata) }

func (a *SvfToImfAdapter) GetGeometry(i int) Geometry {
	gm := a.src.GeometryMetadata[i]
	entity := &a.src.MeshPacks[gm.PackID].Entities[gm.EntityIndex]
	return &svfGeometry{entity: entity}
}

func (a *SvfToImfAdapter) MaterialCount() int { return len(a.src.Materials) }

func (a *SvfToImfAdapter) GetMaterial(i int) Material {
	return convertMaterial(a.src.Materials[i])
}

func (a *SvfToImfAdapter) GetImage(uri string) ([]byte, bool) {
	data, ok := a.src.Images[uri]
	return data, ok
}

func (a *SvfToImfAdapter) GetMetadata() Metadata {
	m := a.src.Metadata
	return Metadata{
		DistanceUnitScale: m.DistanceUnitScale,
		UpAxis:            m.UpAxis,
		FrontAxis:         m.FrontAxis,
	}
}

// convertTransform maps one of SVF's four transform encodings onto
// IMF's two-way union. Translation-only, rotation-translation and
// uniform-scale all decompose cleanly into TRS; the general 3x3
// linear case (skew, non-uniform scale) cannot, so it is emitted as
// an explicit column-major matrix via ComposeLinearTranslation.
func convertTransform(t pack.Transform) *Transform {
	switch t.Kind {
	case pack.TransformTranslation:
		translation := t.Translation
		return DecomposedTransform(&translation, nil, nil)
	case pack.TransformRotationTranslation:
		translation, rotation := t.Translation, t.Rotation
		return DecomposedTransform(&translation, &rotation, nil)
	case pack.TransformUniformScale:
		translation, rotation := t.Translation, t.Rotation
		scale := math32.NewVector3(t.Scale, t.Scale, t.Scale)
		return DecomposedTransform(&translation, &rotation, &scale)
	case pack.TransformLinear:
		return MatrixTransform(math32.ComposeLinearTranslation(t.Linear, t.Translation))
	default:
		return nil
	}
}

// convertMaterial reifies an svf.Material into IMF's single PBR
// shape. Non-SimplePhong materials downgrade to an empty, Unknown
// material; SimplePhong's glossiness is carried through
// unconverted so GltfWriter's Config.RoughnessFromGlossiness hook can
// decide how to derive roughness.
func convertMaterial(m svf.Material) Material {
	if m.Kind != svf.MaterialSimplePhong {
		return Material{Opacity: 1, Roughness: 1, Unknown: true}
	}

	roughness := float32(1)
	if m.Glossiness != nil {
		roughness = clamp01(1 - *m.Glossiness)
	}

	return Material{
		Diffuse:       m.Diffuse,
		Metallic:      0,
		Roughness:     roughness,
		Glossiness:    m.Glossiness,
		Opacity:       m.Opacity,
		DiffuseMapURI: m.DiffuseMapURI,
	}
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// svfGeometry is a lazy, non-copying view over one MeshEntity.
type svfGeometry struct {
	entity *svf.MeshEntity
}

func (g *svfGeometry) Kind() GeometryKind {
	switch g.entity.PrimitiveType {
	case svf.PrimitiveLines:
		return GeometryLines
	case svf.PrimitivePoints:
		return GeometryPoints
	default:
		if len(g.entity.Vertices) == 0 {
			return GeometryEmpty
		}
		return GeometryMesh
	}
}

func (g *svfGeometry) Indices() []uint16   { return g.entity.Indices }
func (g *svfGeometry) Vertices() []float32 { return g.entity.Vertices }

func (g *svfGeometry) Normals() ([]float32, bool) {
	if len(g.entity.Normals) == 0 {
		return nil, false
	}
	return g.entity.Normals, true
}

func (g *svfGeometry) UVs(channel int) ([]float32, bool) {
	if channel < 0 || channel >= len(g.entity.UVs) || len(g.entity.UVs[channel]) == 0 {
		return nil, false
	}
	return g.entity.UVs[channel], true
}

func (g *svfGeometry) Colors() ([]float32, bool) {
	if len(g.entity.Colors) == 0 {
		return nil, false
	}
	return g.entity.Colors, true
}

func (g *svfGeometry) Bounds() (min, max math32.Vector3) {
	return g.entity.BBoxMin, g.entity.BBoxMax
}
