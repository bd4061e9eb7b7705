package compress

import "github.com/gdxlib/gdx/format"

// NoopCodec performs no compression; it is selected when a GDX file is
// written with compression disabled.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

func (NoopCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (NoopCodec) Decompress(data []byte, decompressedSize int) ([]byte, error) {
	return data, nil
}

func (NoopCodec) Type() format.CompressionType {
	return format.CompressionNone
}
