package svf

import (
	"encoding/json"
	"fmt"

	"github.com/svf2gltf/svf2gltf/internal/math32"
	"github.com/svf2gltf/svf2gltf/internal/svferr"
)

type metadataJSON struct {
	DistanceUnit struct {
		ScaleToMeters float32 `json:"scaleToMeters"`
	} `json:"distanceUnit"`
	UpAxis           string `json:"upAxis"`
	FrontAxis        string `json:"frontAxis"`
	WorldBoundingBox struct {
		Min [3]float32 `json:"min"`
		Max [3]float32 `json:"max"`
	} `json:"worldBoundingBox"`
}

// parseMetadata decodes the metadata JSON asset into Metadata.
// A missing distance-unit scale defaults to 1 (meters); missing axis
// hints leave the fields empty, which SvfToImfAdapter and GltfWriter
// treat as "assume Y-up unchanged".
func parseMetadata(raw []byte) (Metadata, error) {
	var m metadataJSON
	if err := json.Unmarshal(raw, &m); err != nil {
		return Metadata{}, svferr.New(svferr.KindCorruptSVF, "metadata", fmt.Errorf("decode metadata: %w", err))
	}

	scale := m.DistanceUnit.ScaleToMeters
	if scale == 0 {
		scale = 1
	}

	return Metadata{
		DistanceUnitScale: scale,
		UpAxis:            m.UpAxis,
		FrontAxis:          m.FrontAxis,
		WorldBBoxMin:      math32.NewVector3(m.WorldBoundingBox.Min[0], m.WorldBoundingBox.Min[1], m.WorldBoundingBox.Min[2]),
		WorldBBoxMax:      math32.NewVector3(m.WorldBoundingBox.Max[0], m.WorldBoundingBox.Max[1], m.WorldBoundingBox.Max[2]),
	}, nil
}
