package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
)

// ZlibCodec wraps klauspost/compress/zlib, matching classic GDX's bundled
// zlib compression. It is the default
// codec a GDX handle uses when opened with compression enabled and no
// explicit codec override.
type ZlibCodec struct {
	level int
}

var _ Codec = ZlibCodec{}

// NewZlibCodec creates a ZlibCodec at zlib's default compression level.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{level: zlib.DefaultCompression}
}

func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrZlibNotFound, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c ZlibCodec) Decompress(data []byte, decompressedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrZlibNotFound, err)
	}
	defer r.Close()

	out := bytes.NewBuffer(make([]byte, 0, decompressedSize))
	if _, err := io.Copy(out, r); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func (c ZlibCodec) Type() format.CompressionType {
	return format.CompressionZlib
}
