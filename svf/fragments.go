package svf

import (
	"fmt"

	"github.com/svf2gltf/svf2gltf/internal/svferr"
	"github.com/svf2gltf/svf2gltf/pack"
)

// parseFragments decodes one packfile entry per fragment: dbId,
// geometry index, material index, transform and bbox.
func parseFragments(raw []byte) ([]Fragment, error) {
	r, err := pack.New(raw)
	if err != nil {
		return nil, err
	}

	fragments := make([]Fragment, r.EntryCount())
	for i := 0; i < r.EntryCount(); i++ {
		if _, err := r.SeekEntry(i); err != nil {
			return nil, err
		}

		dbID, err := r.Stream().U32()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "fragments", fmt.Errorf("fragment %d dbId: %w", i, err))
		}
		geomIndex, err := r.Stream().I32()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "fragments", fmt.Errorf("fragment %d geometryIndex: %w", i, err))
		}
		matIndex, err := r.Stream().I32()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "fragments", fmt.Errorf("fragment %d materialIndex: %w", i, err))
		}
		transform, err := r.Transform()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "fragments", fmt.Errorf("fragment %d transform: %w", i, err))
		}
		bboxMin, err := r.Vector3()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "fragments", fmt.Errorf("fragment %d bbox min: %w", i, err))
		}
		bboxMax, err := r.Vector3()
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptSVF, "fragments", fmt.Errorf("fragment %d bbox max: %w", i, err))
		}

		fragments[i] = Fragment{
			DbID:          dbID,
			GeometryIndex: int(geomIndex),
			MaterialIndex: int(matIndex),
			Transform:     transform,
			BBoxMin:       bboxMin,
			BBoxMax:       bboxMax,
		}
	}

	return fragments, nil
}
