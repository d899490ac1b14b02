package svf

import (
	"encoding/json"
	"fmt"

	"github.com/svf2gltf/svf2gltf/internal/svferr"
)

// Manifest lists the asset URIs one derivative's SVF bundle is made
// of. The full asset set is known statically from this document —
// SvfReader never discovers new assets mid-read except for texture
// URIs surfaced while decoding materials.
type Manifest struct {
	Metadata         string   `json:"metadata"`
	Fragments        string   `json:"fragments"`
	GeometryMetadata string   `json:"geometryMetadata"`
	MeshPacks        []string `json:"meshPacks"`
	Materials        string   `json:"materials"`
	Images           []string `json:"images"`
}

// ParseManifest decodes the top-level SVF manifest document.
func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, svferr.New(svferr.KindCorruptSVF, "manifest", fmt.Errorf("decode manifest: %w", err))
	}
	if m.Fragments == "" {
		return nil, svferr.New(svferr.KindCorruptSVF, "manifest", fmt.Errorf("manifest is missing fragments asset"))
	}
	return &m, nil
}
