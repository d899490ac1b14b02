package gltfwriter

import (
	"github.com/svf2gltf/svf2gltf/imf"
	"github.com/svf2gltf/svf2gltf/internal/math32"
)

// reorientMatrix derives the root rotation that maps a source scene's
// up axis onto glTF's Y-up, -Z-forward convention.
// SVF assets observed in the wild report a Z-up or X-up hint with an
// axis-aligned front axis, so a single 90 degree rotation about the
// remaining axis is sufficient; anything else is left unrotated
// rather than guessed at.
func reorientMatrix(meta imf.Metadata) math32.Matrix4 {
	switch meta.UpAxis {
	case "Z", "z":
		return math32.Matrix4{
			1, 0, 0, 0,
			0, 0, -1, 0,
			0, 1, 0, 0,
			0, 0, 0, 1,
		}
	case "X", "x":
		return math32.Matrix4{
			0, 1, 0, 0,
			-1, 0, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}
	default:
		return math32.Identity4()
	}
}
