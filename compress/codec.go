// Package compress provides the pluggable block codecs used to compress
// a section's byte stream when a GDX file is written with compression
// enabled.
//
// Classic GDX hard-codes a single bundled zlib codec and reports
// ErrZlibNotFound when that library is unavailable; this package keeps
// zlib as the default while opening the same seam to zstd and lz4,
// selectable via gdx.WithCompressionCodec.
package compress

import (
	"fmt"

	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
)

// Compressor compresses a single section's staged byte stream.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a single section's compressed byte stream.
// decompressedSize is the exact original length recorded alongside the
// compressed block; implementations may use it to
// pre-size their output buffer.
type Decompressor interface {
	Decompress(data []byte, decompressedSize int) ([]byte, error)
}

// Codec combines both directions. A GDX handle holds exactly one Codec
// for the lifetime of a write session: the compression
// choice is fixed at gdx.Create time, not per-symbol.
type Codec interface {
	Compressor
	Decompressor
	Type() format.CompressionType
}

// NewCodec is a factory function that creates a Codec for the given
// compression type.
func NewCodec(t format.CompressionType) (Codec, error) {
	switch t {
	case format.CompressionNone:
		return NoopCodec{}, nil
	case format.CompressionZlib:
		return NewZlibCodec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrBadDataFormat, t)
	}
}
