package svf

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	assets map[string][]byte
}

func (f *fakeFetcher) Fetch(_ context.Context, uri string) ([]byte, error) {
	if data, ok := f.assets[uri]; ok {
		return data, nil
	}
	return nil, ErrAssetNotFound
}

func writeVarint(buf *bytes.Buffer, n uint64) {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if n == 0 {
			return
		}
	}
}

func writeVarintString(buf *bytes.Buffer, s string) {
	writeVarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

// buildFragmentsPack builds a one-fragment packfile whose entry body
// matches parseFragments' expected layout.
func buildFragmentsPack(t *testing.T, dbID uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	writeVarintString(&buf, "FragmentList")
	binary.Write(&buf, binary.LittleEndian, int32(1))

	entryOffset := uint32(buf.Len())
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // type index
	binary.Write(&buf, binary.LittleEndian, dbID)
	binary.Write(&buf, binary.LittleEndian, int32(0)) // geometryIndex
	binary.Write(&buf, binary.LittleEndian, int32(0)) // materialIndex
	buf.WriteByte(0)                                  // transform kind 0 (translation only)
	binary.Write(&buf, binary.LittleEndian, float64(0))
	binary.Write(&buf, binary.LittleEndian, float64(0))
	binary.Write(&buf, binary.LittleEndian, float64(0))
	binary.Write(&buf, binary.LittleEndian, float64(-1)) // bbox min
	binary.Write(&buf, binary.LittleEndian, float64(-1))
	binary.Write(&buf, binary.LittleEndian, float64(-1))
	binary.Write(&buf, binary.LittleEndian, float64(1)) // bbox max
	binary.Write(&buf, binary.LittleEndian, float64(1))
	binary.Write(&buf, binary.LittleEndian, float64(1))

	entriesOffset := uint32(buf.Len())
	writeVarint(&buf, 1)
	binary.Write(&buf, binary.LittleEndian, entryOffset)

	typesOffset := uint32(buf.Len())
	writeVarint(&buf, 1)
	writeVarintString(&buf, "Autodesk.CloudPlatform.Fragment")
	writeVarintString(&buf, "Fragment")
	writeVarint(&buf, 1)

	binary.Write(&buf, binary.LittleEndian, entriesOffset)
	binary.Write(&buf, binary.LittleEndian, typesOffset)
	return buf.Bytes()
}

func TestReadAssemblesSVF(t *testing.T) {
	metadataJSON, err := json.Marshal(map[string]any{
		"distanceUnit": map[string]any{"scaleToMeters": 1.0},
		"upAxis":       "Z",
		"frontAxis":    "Y",
	})
	require.NoError(t, err)

	materialsDoc := map[string]any{
		"materials": map[string]any{
			"0": map[string]any{
				"userassets": []string{"mat0"},
				"materials": map[string]any{
					"mat0": map[string]any{
						"definition": "SimplePhong",
						"properties": map[string]any{
							"colors": map[string]any{
								"generic_diffuse": map[string]any{
									"values": []map[string]any{{"R": 1, "G": 0, "B": 0, "A": 1}},
								},
							},
						},
						"textures": map[string]any{
							"generic_diffuse": map[string]any{"connections": []string{"tex.png"}},
						},
					},
				},
			},
		},
	}
	materialsJSONBytes, err := json.Marshal(materialsDoc)
	require.NoError(t, err)

	manifest := Manifest{
		Metadata:         "metadata.json",
		Fragments:        "fragments.pf",
		GeometryMetadata: "",
		Materials:        "materials.json",
		Images:           []string{},
	}
	manifestBytes, err := json.Marshal(manifest)
	require.NoError(t, err)

	fetcher := &fakeFetcher{assets: map[string][]byte{
		"manifest.json":  manifestBytes,
		"metadata.json":  metadataJSON,
		"fragments.pf":   buildFragmentsPack(t, 42),
		"materials.json": materialsJSONBytes,
	}}

	result, err := Read(context.Background(), fetcher, "manifest.json")
	require.NoError(t, err)

	assert.Equal(t, float32(1), result.Metadata.DistanceUnitScale)
	assert.Equal(t, "Z", result.Metadata.UpAxis)
	require.Len(t, result.Fragments, 1)
	assert.EqualValues(t, 42, result.Fragments[0].DbID)

	require.Len(t, result.Materials, 1)
	assert.Equal(t, MaterialSimplePhong, result.Materials[0].Kind)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, result.Materials[0].Diffuse)

	// tex.png wasn't fetchable, so it must have been substituted with
	// a placeholder rather than dropped.
	require.Contains(t, result.Images, "tex.png")
	assert.NotEmpty(t, result.Images["tex.png"])
}

func TestReadPropagatesTransportError(t *testing.T) {
	manifest := Manifest{Fragments: "fragments.pf"}
	manifestBytes, err := json.Marshal(manifest)
	require.NoError(t, err)

	fetcher := &fakeFetcher{assets: map[string][]byte{
		"manifest.json": manifestBytes,
		// fragments.pf deliberately absent -> ErrAssetNotFound
	}}

	_, err = Read(context.Background(), fetcher, "manifest.json")
	assert.Error(t, err)
}
