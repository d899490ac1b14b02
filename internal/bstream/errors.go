package bstream

import "errors"

// ErrUnexpectedEOF is returned when a read would go past the end of
// the underlying buffer.
var ErrUnexpectedEOF = errors.New("bstream: unexpected end of buffer")

// ErrBadOffset is returned when Seek is asked to move outside
// [0, len(buffer)].
var ErrBadOffset = errors.New("bstream: offset out of range")
