package gltfwriter

// Config controls GltfWriter's translation policy.
type Config struct {
	// Deduplicate reuses accessors whose content hash already
	// appeared earlier in the write.
	Deduplicate bool

	// SkipUnusedUVs omits the TEXCOORD_0 accessor on geometries whose
	// resolved material has no texture reference. Only UV channel 0 is
	// ever written.
	SkipUnusedUVs bool

	// Center translates the root so the scene's combined world
	// bounding box is centered on the origin.
	Center bool

	// Reorient rotates the root so the source scene's up axis maps
	// onto glTF's Y-up, -Z-forward convention.
	Reorient bool

	// MaxBufferSize is the soft ceiling, in bytes, a single glTF
	// buffer is allowed to grow to before the writer rotates to a
	// new one. An accessor's bytes are never split across the
	// rotation boundary.
	MaxBufferSize int

	// FilterDbIDs, when non-nil, restricts output to fragments whose
	// DbID is a key with a true value.
	FilterDbIDs map[uint32]bool

	IgnoreMeshes bool
	IgnoreLines  bool
	IgnorePoints bool

	// RoughnessFromGlossiness derives a glTF roughness factor from an
	// SVF SimplePhong glossiness value. Defaults to
	// clamp(1-glossiness, 0, 1) when nil.
	RoughnessFromGlossiness func(glossiness float32) float32
}

// DefaultConfig returns the writer's default policy: deduplication
// off, reorientation on, no centering, no dbID filter, a 5MiB buffer
// ceiling.
func DefaultConfig() Config {
	return Config{
		Deduplicate:             false,
		Reorient:                true,
		MaxBufferSize:           5 << 20,
		RoughnessFromGlossiness: defaultRoughnessFromGlossiness,
	}
}

func defaultRoughnessFromGlossiness(glossiness float32) float32 {
	r := 1 - glossiness
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

func (c Config) roughnessFromGlossiness(glossiness float32) float32 {
	if c.RoughnessFromGlossiness != nil {
		return c.RoughnessFromGlossiness(glossiness)
	}
	return defaultRoughnessFromGlossiness(glossiness)
}
