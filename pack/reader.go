// Package pack decodes SVF's packfile envelope: an optionally
// gzip-wrapped, versioned, offset-indexed container used for
// fragments, geometry metadata and per-packfile mesh data.
package pack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/svf2gltf/svf2gltf/internal/bstream"
	"github.com/svf2gltf/svf2gltf/internal/math32"
	"github.com/svf2gltf/svf2gltf/internal/svferr"
)

// TypeEntry is one row of a packfile's types table: the (class, type,
// version) triple an entry's type-index resolves to.
type TypeEntry struct {
	Class   string
	Type    string
	Version int32
}

// Reader parses one packfile's envelope and exposes entry-by-index
// and typed primitive access.
type Reader struct {
	stream  *bstream.Stream
	header  TypeEntry
	entries []uint32
	types   []TypeEntry
}

const gzipMagic0, gzipMagic1 = 0x1f, 0x8b

// New decodes the packfile envelope in raw: gzip-unwrap if present,
// read the header, then the footer-pointed entries and types tables.
// Malformed input is reported as svferr.KindCorruptPackFile.
func New(raw []byte) (*Reader, error) {
	buf := raw
	if len(raw) >= 2 && raw[0] == gzipMagic0 && raw[1] == gzipMagic1 {
		inflated, err := inflate(raw)
		if err != nil {
			return nil, svferr.New(svferr.KindCorruptPackFile, "", fmt.Errorf("inflate: %w", err))
		}
		buf = inflated
	}

	if len(buf) < 8 {
		return nil, svferr.New(svferr.KindCorruptPackFile, "", fmt.Errorf("buffer too small for footer (%d bytes)", len(buf)))
	}

	entriesOffset := binary.LittleEndian.Uint32(buf[len(buf)-8:])
	typesOffset := binary.LittleEndian.Uint32(buf[len(buf)-4:])

	s := bstream.New(buf)

	header, err := readHeader(s)
	if err != nil {
		return nil, svferr.New(svferr.KindCorruptPackFile, "", fmt.Errorf("header: %w", err))
	}

	entries, err := readEntries(s, entriesOffset)
	if err != nil {
		return nil, svferr.New(svferr.KindCorruptPackFile, "", fmt.Errorf("entries table: %w", err))
	}

	types, err := readTypes(s, typesOffset)
	if err != nil {
		return nil, svferr.New(svferr.KindCorruptPackFile, "", fmt.Errorf("types table: %w", err))
	}

	return &Reader{stream: s, header: header, entries: entries, types: types}, nil
}

func inflate(raw []byte) ([]byte, error) {
	zr, err := kgzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func readHeader(s *bstream.Stream) (TypeEntry, error) {
	if err := s.Seek(0); err != nil {
		return TypeEntry{}, err
	}
	typ, err := s.VarintString()
	if err != nil {
		return TypeEntry{}, err
	}
	version, err := s.I32()
	if err != nil {
		return TypeEntry{}, err
	}
	return TypeEntry{Type: typ, Version: version}, nil
}

func readEntries(s *bstream.Stream, offset uint32) ([]uint32, error) {
	if err := s.Seek(int(offset)); err != nil {
		return nil, err
	}
	count, err := s.Varint()
	if err != nil {
		return nil, err
	}
	entries := make([]uint32, count)
	for i := range entries {
		v, err := s.U32()
		if err != nil {
			return nil, err
		}
		entries[i] = v
	}
	return entries, nil
}

func readTypes(s *bstream.Stream, offset uint32) ([]TypeEntry, error) {
	if err := s.Seek(int(offset)); err != nil {
		return nil, err
	}
	count, err := s.Varint()
	if err != nil {
		return nil, err
	}
	types := make([]TypeEntry, count)
	for i := range types {
		class, err := s.VarintString()
		if err != nil {
			return nil, err
		}
		typ, err := s.VarintString()
		if err != nil {
			return nil, err
		}
		version, err := s.Varint()
		if err != nil {
			return nil, err
		}
		types[i] = TypeEntry{Class: class, Type: typ, Version: int32(version)}
	}
	return types, nil
}

// EntryCount returns the number of entries in this packfile.
func (r *Reader) EntryCount() int {
	return len(r.entries)
}

// Header returns the packfile's top-level (type, version) header.
func (r *Reader) Header() TypeEntry {
	return r.header
}

// SeekEntry seeks to entry i, reads its u32 type index and returns the
// resolved type triple. The stream is left positioned immediately
// after the type index, ready for SeekEntry's caller to read the
// entry's own fields.
func (r *Reader) SeekEntry(i int) (TypeEntry, error) {
	if i < 0 || i >= len(r.entries) {
		return TypeEntry{}, svferr.New(svferr.KindCorruptPackFile, "", fmt.Errorf("entry index %d out of range [0,%d)", i, len(r.entries)))
	}
	if err := r.stream.Seek(int(r.entries[i])); err != nil {
		return TypeEntry{}, svferr.New(svferr.KindCorruptPackFile, "", err)
	}
	typeIndex, err := r.stream.U32()
	if err != nil {
		return TypeEntry{}, svferr.New(svferr.KindCorruptPackFile, "", err)
	}
	if int(typeIndex) >= len(r.types) {
		return TypeEntry{}, svferr.New(svferr.KindCorruptPackFile, "", fmt.Errorf("type index %d out of range [0,%d)", typeIndex, len(r.types)))
	}
	return r.types[typeIndex], nil
}

// Stream exposes the underlying cursor for entry-specific field reads
// following SeekEntry.
func (r *Reader) Stream() *bstream.Stream {
	return r.stream
}

// Vector3 reads three little-endian f64 components.
func (r *Reader) Vector3() (math32.Vector3, error) {
	x, err := r.stream.F64()
	if err != nil {
		return math32.Vector3{}, err
	}
	y, err := r.stream.F64()
	if err != nil {
		return math32.Vector3{}, err
	}
	z, err := r.stream.F64()
	if err != nil {
		return math32.Vector3{}, err
	}
	return math32.NewVector3(float32(x), float32(y), float32(z)), nil
}

// Quaternion reads four little-endian f32 components in xyzw order.
func (r *Reader) Quaternion() (math32.Quaternion, error) {
	var c [4]float32
	for i := range c {
		v, err := r.stream.F32()
		if err != nil {
			return math32.Quaternion{}, err
		}
		c[i] = v
	}
	return math32.NewQuaternion(c[0], c[1], c[2], c[3]), nil
}

// Matrix3x3 reads nine little-endian f32 components, row-major.
func (r *Reader) Matrix3x3() (math32.Matrix3, error) {
	var m math32.Matrix3
	for i := range m {
		v, err := r.stream.F32()
		if err != nil {
			return math32.Matrix3{}, err
		}
		m[i] = v
	}
	return m, nil
}

// TransformKind tags the four transform encodings a fragment's
// stored transform can use.
type TransformKind int

const (
	// TransformTranslation: translation only, identity rotation, unit scale.
	TransformTranslation TransformKind = iota
	// TransformRotationTranslation: rotation + translation, unit scale.
	TransformRotationTranslation
	// TransformUniformScale: uniform scale + rotation + translation.
	TransformUniformScale
	// TransformLinear: 3x3 linear part + translation.
	TransformLinear
)

// Transform is the decoded form of a packfile transform field.
type Transform struct {
	Kind        TransformKind
	Translation math32.Vector3
	Rotation    math32.Quaternion
	Scale       float32
	Linear      math32.Matrix3
}

// Transform reads a u8 kind tag followed by the kind-specific fields.
// An unrecognized kind is svferr.KindUnknownTransformKind.
func (r *Reader) Transform() (Transform, error) {
	kind, err := r.stream.U8()
	if err != nil {
		return Transform{}, err
	}

	switch kind {
	case 0:
		t, err := r.Vector3()
		if err != nil {
			return Transform{}, err
		}
		return Transform{Kind: TransformTranslation, Translation: t, Scale: 1}, nil
	case 1:
		rot, err := r.Quaternion()
		if err != nil {
			return Transform{}, err
		}
		t, err := r.Vector3()
		if err != nil {
			return Transform{}, err
		}
		return Transform{Kind: TransformRotationTranslation, Rotation: rot, Translation: t, Scale: 1}, nil
	case 2:
		s, err := r.stream.F32()
		if err != nil {
			return Transform{}, err
		}
		rot, err := r.Quaternion()
		if err != nil {
			return Transform{}, err
		}
		t, err := r.Vector3()
		if err != nil {
			return Transform{}, err
		}
		return Transform{Kind: TransformUniformScale, Scale: s, Rotation: rot, Translation: t}, nil
	case 3:
		linear, err := r.Matrix3x3()
		if err != nil {
			return Transform{}, err
		}
		t, err := r.Vector3()
		if err != nil {
			return Transform{}, err
		}
		return Transform{Kind: TransformLinear, Linear: linear, Translation: t, Scale: 1}, nil
	default:
		return Transform{}, svferr.New(svferr.KindUnknownTransformKind, "", fmt.Errorf("transform kind %d", kind))
	}
}
