// Package bstream implements a little-endian, read-only cursor over an
// immutable byte buffer. It backs PackFileReader's envelope parsing and
// its typed (vector/quaternion/matrix/transform) readers.
package bstream

import "encoding/binary"

// Stream is a cursor over buf. The zero value is not usable; use New.
// A Stream never mutates buf and is safe to share a buffer across
// multiple Streams positioned at different offsets.
type Stream struct {
	buf []byte
	pos int
}

// New returns a Stream positioned at the start of buf.
func New(buf []byte) *Stream {
	return &Stream{buf: buf}
}

// Len returns the total length of the underlying buffer.
func (s *Stream) Len() int {
	return len(s.buf)
}

// Tell returns the current absolute offset.
func (s *Stream) Tell() int {
	return s.pos
}

// Remaining returns the number of unread bytes.
func (s *Stream) Remaining() int {
	return len(s.buf) - s.pos
}

// Seek moves the cursor to an absolute offset in [0, len(buf)].
func (s *Stream) Seek(offset int) error {
	if offset < 0 || offset > len(s.buf) {
		return ErrBadOffset
	}
	s.pos = offset
	return nil
}

// Skip advances the cursor by n bytes.
func (s *Stream) Skip(n int) error {
	return s.Seek(s.pos + n)
}

func (s *Stream) need(n int) error {
	if s.pos+n > len(s.buf) {
		return ErrUnexpectedEOF
	}
	return nil
}

// U8 reads an unsigned 8-bit integer.
func (s *Stream) U8() (uint8, error) {
	if err := s.need(1); err != nil {
		return 0, err
	}
	v := s.buf[s.pos]
	s.pos++
	return v, nil
}

// I8 reads a signed 8-bit integer.
func (s *Stream) I8() (int8, error) {
	v, err := s.U8()
	return int8(v), err
}

// U16 reads a little-endian unsigned 16-bit integer.
func (s *Stream) U16() (uint16, error) {
	if err := s.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(s.buf[s.pos:])
	s.pos += 2
	return v, nil
}

// I16 reads a little-endian signed 16-bit integer.
func (s *Stream) I16() (int16, error) {
	v, err := s.U16()
	return int16(v), err
}

// U32 reads a little-endian unsigned 32-bit integer.
func (s *Stream) U32() (uint32, error) {
	if err := s.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(s.buf[s.pos:])
	s.pos += 4
	return v, nil
}

// I32 reads a little-endian signed 32-bit integer.
func (s *Stream) I32() (int32, error) {
	v, err := s.U32()
	return int32(v), err
}

// F32 reads a little-endian IEEE-754 32-bit float.
func (s *Stream) F32() (float32, error) {
	v, err := s.U32()
	if err != nil {
		return 0, err
	}
	return float32frombits(v), nil
}

// F64 reads a little-endian IEEE-754 64-bit float.
func (s *Stream) F64() (float64, error) {
	if err := s.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(s.buf[s.pos:])
	s.pos += 8
	return float64frombits(v), nil
}

// Varint reads a LEB128-encoded unsigned varint: 7 data bits per byte,
// MSB set means "continue".
func (s *Stream) Varint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := s.U8()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrUnexpectedEOF
		}
	}
}

// UTF8 reads n bytes and interprets them as a UTF-8 string.
func (s *Stream) UTF8(n int) (string, error) {
	if n < 0 {
		return "", ErrBadOffset
	}
	if err := s.need(n); err != nil {
		return "", err
	}
	v := string(s.buf[s.pos : s.pos+n])
	s.pos += n
	return v, nil
}

// VarintString reads a varint length prefix followed by that many
// UTF-8 bytes, the length-prefixed string shape used throughout the
// packfile envelope.
func (s *Stream) VarintString() (string, error) {
	n, err := s.Varint()
	if err != nil {
		return "", err
	}
	return s.UTF8(int(n))
}

// Bytes returns a view (not a copy) of the next n bytes, advancing the
// cursor. Callers must not mutate the returned slice.
func (s *Stream) Bytes(n int) ([]byte, error) {
	if err := s.need(n); err != nil {
		return nil, err
	}
	v := s.buf[s.pos : s.pos+n]
	s.pos += n
	return v, nil
}
