package imf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svf2gltf/svf2gltf/internal/math32"
	"github.com/svf2gltf/svf2gltf/pack"
	"github.com/svf2gltf/svf2gltf/svf"
)

func simpleSVF() *svf.SVF {
	glossiness := float32(0.5)
	return &svf.SVF{
		Metadata: svf.Metadata{DistanceUnitScale: 1, UpAxis: "Z", FrontAxis: "Y"},
		Fragments: []svf.Fragment{
			{
				DbID:          7,
				GeometryIndex: 0,
				MaterialIndex: 0,
				Transform: pack.Transform{
					Kind:        pack.TransformTranslation,
					Translation: math32.NewVector3(1, 2, 3),
					Scale:       1,
				},
			},
			{
				DbID:          8,
				GeometryIndex: 0,
				MaterialIndex: 0,
				Transform: pack.Transform{
					Kind:   pack.TransformLinear,
					Linear: math32.Matrix3{2, 0, 0, 0, 2, 0, 0, 0, 2},
				},
			},
		},
		GeometryMetadata: []svf.GeometryMetadata{
			{PackID: 0, EntityIndex: 0, PrimitiveType: svf.PrimitiveTriangles},
		},
		MeshPacks: []svf.MeshPack{
			{Entities: []svf.MeshEntity{{
				PrimitiveType: svf.PrimitiveTriangles,
				Vertices:      []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Indices:       []uint16{0, 1, 2},
			}}},
		},
		Materials: []svf.Material{
			{Kind: svf.MaterialSimplePhong, Diffuse: [4]float32{1, 0, 0, 1}, Opacity: 1, Glossiness: &glossiness},
		},
		Images: svf.ImageSet{},
	}
}

func TestAdapterNodeTransforms(t *testing.T) {
	scene := NewSvfToImfAdapter(simpleSVF())
	require.Equal(t, 2, scene.NodeCount())

	translated := scene.GetNode(0)
	assert.Equal(t, NodeObject, translated.Kind)
	assert.EqualValues(t, 7, translated.DbID)
	require.NotNil(t, translated.Transform)
	assert.Equal(t, TransformDecomposed, translated.Transform.Kind)
	require.NotNil(t, translated.Transform.Translation)
	assert.Equal(t, math32.NewVector3(1, 2, 3), *translated.Transform.Translation)
	assert.Nil(t, translated.Transform.Rotation)
	assert.Nil(t, translated.Transform.Scale)

	linear := scene.GetNode(1)
	require.NotNil(t, linear.Transform)
	assert.Equal(t, TransformMatrix, linear.Transform.Kind)
	assert.Equal(t, math32.Matrix4{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}, linear.Transform.Matrix)
}

func TestAdapterGeometryAndMaterial(t *testing.T) {
	scene := NewSvfToImfAdapter(simpleSVF())
	require.Equal(t, 1, scene.GeometryCount())

	geom := scene.GetGeometry(0)
	assert.Equal(t, GeometryMesh, geom.Kind())
	assert.Equal(t, []uint16{0, 1, 2}, geom.Indices())
	_, hasNormals := geom.Normals()
	assert.False(t, hasNormals)

	require.Equal(t, 1, scene.MaterialCount())
	mat := scene.GetMaterial(0)
	assert.False(t, mat.Unknown)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, mat.Diffuse)
	assert.InDelta(t, 0.5, mat.Roughness, 1e-6)
	require.NotNil(t, mat.Glossiness)
	assert.InDelta(t, 0.5, *mat.Glossiness, 1e-6)
}

func TestAdapterUnknownMaterialDowngrades(t *testing.T) {
	s := simpleSVF()
	s.Materials[0] = svf.Material{Kind: svf.MaterialUnknown, RawType: "SomethingElse"}
	scene := NewSvfToImfAdapter(s)

	mat := scene.GetMaterial(0)
	assert.True(t, mat.Unknown)
	assert.Equal(t, [4]float32{0, 0, 0, 0}, mat.Diffuse)
}
