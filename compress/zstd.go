package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/gdxlib/gdx/format"
)

// zstdDecoderPool and zstdEncoderPool pool klauspost/compress/zstd
// encoders and decoders: the library is explicitly designed for reuse,
// operating without further allocation once warmed up.
var (
	zstdEncoderPool = sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
			if err != nil {
				panic(fmt.Sprintf("compress: failed to create zstd encoder: %v", err))
			}

			return enc
		},
	}
	zstdDecoderPool = sync.Pool{
		New: func() any {
			dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
			if err != nil {
				panic(fmt.Sprintf("compress: failed to create zstd decoder: %v", err))
			}

			return dec
		},
	}
)

// ZstdCodec wraps klauspost/compress/zstd, the pure-Go replacement for
// classic GDX's bundled zlib codec chosen when compression ratio matters
// more than CPU (archival symbols, cold storage).
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	enc, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func (ZstdCodec) Decompress(data []byte, decompressedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out := make([]byte, 0, decompressedSize)
	decoded, err := dec.DecodeAll(data, out)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decoded, nil
}

func (ZstdCodec) Type() format.CompressionType {
	return format.CompressionZstd
}
