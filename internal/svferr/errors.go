// Package svferr defines the error taxonomy shared by pack, svf and
// gltfwriter: a small set of sentinel Kinds wrapped with
// the originating asset URI, so callers can classify failures with
// errors.Is/errors.As instead of string matching.
package svferr

import "fmt"

// Kind classifies a failure by disposition, not by Go type.
type Kind int

const (
	// KindCorruptPackFile: bad magic, footer or TOC. Fatal to the
	// asset that produced it.
	KindCorruptPackFile Kind = iota
	// KindUnexpectedEOF: a read ran past the end of a buffer.
	KindUnexpectedEOF
	// KindUnknownTransformKind: a transform tag outside {0,1,2,3}.
	KindUnknownTransformKind
	// KindMissingMesh: a fragment references an empty mesh entity.
	// Recovered locally by the writer.
	KindMissingMesh
	// KindMissingImage: an image URI failed to fetch. Recovered
	// locally with a placeholder.
	KindMissingImage
	// KindUnsupportedMaterial: a material definition isn't
	// SimplePhong. Recovered locally as an empty material.
	KindUnsupportedMaterial
	// KindTransportError: the external asset fetcher failed.
	// Propagated to the caller.
	KindTransportError
	// KindWriterIO: a buffer or manifest file write/close failed.
	// Fatal; all handles are closed before propagating.
	KindWriterIO
	// KindCorruptSVF: any other fatal decode error while assembling
	// the in-memory SVF (arithmetic overflow computing offsets,
	// unknown magic, ...).
	KindCorruptSVF
)

func (k Kind) String() string {
	switch k {
	case KindCorruptPackFile:
		return "CorruptPackFile"
	case KindUnexpectedEOF:
		return "UnexpectedEof"
	case KindUnknownTransformKind:
		return "UnknownTransformKind"
	case KindMissingMesh:
		return "MissingMesh"
	case KindMissingImage:
		return "MissingImage"
	case KindUnsupportedMaterial:
		return "UnsupportedMaterial"
	case KindTransportError:
		return "TransportError"
	case KindWriterIO:
		return "WriterIoError"
	case KindCorruptSVF:
		return "CorruptSvf"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying error with a Kind and the asset URI (or
// other identifier) it occurred against.
type Error struct {
	Kind  Kind
	Asset string
	Err   error
}

func (e *Error) Error() string {
	if e.Asset == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Kind, e.Asset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with the given Kind and asset identifier. Returns nil
// if err is nil.
func New(kind Kind, asset string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Asset: asset, Err: err}
}

// Is reports whether err, or any error it wraps, is an *Error of the
// given Kind, so callers can classify failures with svferr.Is(err,
// svferr.KindX).
func Is(err error, kind Kind) bool {
	var e *Error
	if as(err, &e) {
		return e.Kind == kind
	}
	return false
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
