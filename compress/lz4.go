package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/gdxlib/gdx/format"
)

// lz4CompressorPool pools lz4.Compressor instances; the compressor carries
// internal hash-table state that is expensive to reallocate per section.
var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// LZ4Codec wraps pierrec/lz4 block compression, favoring fast
// decompression over compression ratio for symbols read back often
// during a solve loop.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, lz4.ErrInvalidSourceShortBuffer
	}

	return dst[:n], nil
}

func (LZ4Codec) Decompress(data []byte, decompressedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, decompressedSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

func (LZ4Codec) Type() format.CompressionType {
	return format.CompressionLZ4
}
