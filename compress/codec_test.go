package compress

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gdxlib/gdx/format"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"Noop": NoopCodec{},
		"Zlib": NewZlibCodec(),
		"Zstd": NewZstdCodec(),
		"LZ4":  NewLZ4Codec(),
	}
}

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		cType    format.CompressionType
		expected string
	}{
		{format.CompressionNone, "None"},
		{format.CompressionZlib, "Zlib"},
		{format.CompressionZstd, "Zstd"},
		{format.CompressionLZ4, "LZ4"},
		{format.CompressionType(0xFF), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.cType.String())
		})
	}
}

func TestNewCodec(t *testing.T) {
	for typ, want := range map[format.CompressionType]format.CompressionType{
		format.CompressionNone: format.CompressionNone,
		format.CompressionZlib: format.CompressionZlib,
		format.CompressionZstd: format.CompressionZstd,
		format.CompressionLZ4:  format.CompressionLZ4,
	} {
		codec, err := NewCodec(typ)
		require.NoError(t, err)
		require.Equal(t, want, codec.Type())
	}

	_, err := NewCodec(format.CompressionType(0xFF))
	require.Error(t, err)
}

func TestNoopCodec_RoundTrip(t *testing.T) {
	data := []byte("hello world")
	c := NoopCodec{}

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	decompressed, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func roundTripCases() []struct {
	name string
	data []byte
} {
	return []struct {
		name string
		data []byte
	}{
		{"small_text", []byte("Hello, World!")},
		{"repeated_pattern", bytes.Repeat([]byte("ABCD"), 100)},
		{"binary_data", []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0xFD, 0xFC}},
		{"single_byte", []byte{0x42}},
		{"medium_payload", bytes.Repeat([]byte("record 0001 key=5 value=3.14159"), 256)},
		{"highly_compressible", make([]byte, 1024*1024)},
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			for _, tc := range roundTripCases() {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)

					decompressed, err := codec.Decompress(compressed, len(tc.data))
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed, 0)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalid := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x01, 0x02, 0x03}

	for name, codec := range getAllCodecs() {
		if name == "Noop" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decompress(invalid, 64)
			require.Error(t, err)
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const goroutines = 20
	data := []byte("concurrent compression exercise with repeated content repeated content")

	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			done := make(chan error, goroutines)
			for range goroutines {
				go func() {
					compressed, err := codec.Compress(data)
					if err != nil {
						done <- err
						return
					}
					decompressed, err := codec.Decompress(compressed, len(data))
					if err != nil {
						done <- err
						return
					}
					if !bytes.Equal(data, decompressed) {
						done <- fmt.Errorf("round-trip mismatch")
						return
					}
					done <- nil
				}()
			}
			for range goroutines {
				require.NoError(t, <-done)
			}
		})
	}
}
