package format

// CompressionType identifies the block codec applied to a section's
// compressed byte stream. The on-disk compression flag in the file header is a
// single bit (compressed or not); CompressionType is a library-level
// extension point for which codec produced the bytes when that bit is set.
type CompressionType uint8

const (
	// CompressionNone bypasses compression entirely; written bytes are the
	// raw stream content.
	CompressionNone CompressionType = iota
	// CompressionZlib is the default codec, matching classic GDX's bundled
	// zlib-backed compression and its "ZLIB not found" error path.
	CompressionZlib
	// CompressionZstd trades a pure-Go decoder for a better ratio on
	// archival or cold-storage symbols.
	CompressionZstd
	// CompressionLZ4 favors decompression speed over ratio.
	CompressionLZ4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
