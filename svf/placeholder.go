package svf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"sync"
)

// Placeholder image bytes for the four extensions SVF materials
// reference, keyed by lowercase file extension without the leading
// dot. placeholderImageFor is a pure function of extension → bytes:
// no lookup depends on mutable state, so the JPEG
// encode below is memoized once behind a sync.Once rather than
// guarded per-call, and the result is otherwise immutable.
var (
	placeholderJPEGOnce  sync.Once
	placeholderJPEGBytes []byte
)

// placeholderJPEG lazily encodes the 1x1 opaque black placeholder as
// a real baseline JPEG via the standard library's encoder. Hand
// authoring a minimal valid JPEG byte-for-byte is fragile across
// decoders, unlike PNG/BMP/GIF below, so this one format is produced
// through image/jpeg instead of being a literal.
func placeholderJPEG() []byte {
	placeholderJPEGOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, color.Black)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			panic("svf: failed to encode placeholder JPEG: " + err.Error())
		}
		placeholderJPEGBytes = buf.Bytes()
	})
	return placeholderJPEGBytes
}

func placeholderImagesFor(ext string) ([]byte, bool) {
	switch ext {
	case "png":
		return placeholderPNG, true
	case "jpg", "jpeg":
		return placeholderJPEG(), true
	case "bmp":
		return placeholderBMP, true
	case "gif":
		return placeholderGIF, true
	default:
		return nil, false
	}
}

// placeholderPNG is a minimal valid 1x1 opaque black PNG (69 bytes:
// signature, IHDR, a zlib-deflated single-pixel IDAT, IEND).
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53,
	0xde, 0x00, 0x00, 0x00, 0x0c, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x60, 0x60, 0x60, 0x00,
	0x00, 0x00, 0x04, 0x00, 0x01, 0xf6, 0x17, 0x38, 0x55, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e,
	0x44, 0xae, 0x42, 0x60, 0x82,
}

// placeholderBMP is a minimal valid 1x1 24bpp BGR bitmap: 14-byte
// file header, 40-byte BITMAPINFOHEADER, one black pixel padded to a
// 4-byte row.
var placeholderBMP = []byte{
	0x42, 0x4d, 0x3a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x36, 0x00, 0x00, 0x00, 0x28, 0x00,
	0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x18, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x13, 0x0b, 0x00, 0x00, 0x13, 0x0b, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// placeholderGIF is a minimal valid GIF89a 1x1 pixel image: a global
// color table of two colors, one image descriptor and one LZW block.
var placeholderGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0xff, 0xff, 0xff,
	0x00, 0x00, 0x00, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// placeholderImageFor returns a placeholder decodable image whose
// byte format matches uri's file extension, defaulting to PNG for an
// unrecognized or missing extension.
func placeholderImageFor(uri string) []byte {
	ext := ""
	if dot := strings.LastIndexByte(uri, '.'); dot >= 0 {
		ext = strings.ToLower(uri[dot+1:])
	}
	if img, ok := placeholderImagesFor(ext); ok {
		return img
	}
	return placeholderPNG
}
