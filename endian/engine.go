// Package endian provides byte order utilities for the GDX stream layer.
//
// This package extends Go's standard encoding/binary package by combining
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine interface.
//
// GDX always writes little-endian on disk, regardless of host byte order
//; GetLittleEndianEngine is the only engine a writer uses.
// A reader never swaps bytes on a mismatched file — it rejects the file
// with a "bad data format" error (see ValidateFileOrder).
//
//	import "github.com/gdxlib/gdx/endian"
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint64(buf, value)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Create a byte slice pointing to the memory address of 'i'.
	// We only need the first byte.
	b := (*[2]byte)(unsafe.Pointer(&i))

	// Check the first byte at the lowest memory address
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ValidateFileOrder reports whether a probe value read as little-endian
// equals want. GDX writers always emit want in little-endian order; if got
// instead equals the byte-swapped form of want, the file was produced by a
// byte-order-swapped writer and must be rejected outright — GDX has no
// dynamic endian-swap read path.
func ValidateFileOrder(got, want uint32) bool {
	return got == want
}

// IsByteSwapped reports whether got is the byte-reversed form of want,
// which a caller can use to produce a more specific diagnostic than a bare
// "bad data format" before rejecting the file.
func IsByteSwapped(got, want uint32) bool {
	return got != want && bits.ReverseBytes32(got) == want
}
