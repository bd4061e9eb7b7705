// Package stream implements the buffered byte stream that backs a GDX
// file: fixed-size block I/O, little-endian scalar primitives,
// byte-order detection, optional transparent block compression, and a
// back-patch primitive for rewriting the header's reserved offset slots.
//
// Built around internal/pool's staging buffers and the endian package's
// engine, recombined into a single sequential file-backed writer/reader
// in place of a columnar blob layout.
package stream

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gdxlib/gdx/compress"
	"github.com/gdxlib/gdx/endian"
	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/internal/pool"
)

// blockSize sizes the underlying bufio reader/writer; GDX sections are
// read and written sequentially, so a modest fixed block amortizes
// syscalls without holding large memory per handle.
const blockSize = 1 << 16

// orderProbe is the four-byte pattern a writer stamps at the end of the
// header preamble (after the producer strings) so a reader can detect a byte-swapped file and reject it
// outright rather than attempt to transparently byte-swap it.
const orderProbe uint32 = 0x01020304

// Writer is a sequential, buffered, little-endian byte-stream writer
// over an *os.File, with an optional staging area for compressed
// blocks and a back-patch primitive for the header's offset slots.
type Writer struct {
	f   *os.File
	bw  *bufio.Writer
	pos int64

	codec    compress.Codec
	compress bool
	staging  *pool.ByteBuffer
	lastErr  error
}

// NewWriter wraps f for sequential little-endian writes. codec is used
// for any section written while compression is enabled via
// SetCompressing(true); codec may be compress.NoopCodec{} when the file
// is created without compression.
func NewWriter(f *os.File, codec compress.Codec) *Writer {
	return &Writer{
		f:     f,
		bw:    bufio.NewWriterSize(f, blockSize),
		codec: codec,
	}
}

// Pos returns the writer's current absolute position, counting bytes
// flushed to the buffer but not necessarily fsynced.
func (w *Writer) Pos() int64 { return w.pos }

// Seek repositions the writer at an absolute file offset, flushing any
// buffered bytes first. Used by append mode to resume writing at a
// file's stored next-write-position rather than at the
// start of an empty file.
func (w *Writer) Seek(offset int64) error {
	if err := w.bw.Flush(); err != nil {
		w.lastErr = err

		return err
	}
	if _, err := w.f.Seek(offset, io.SeekStart); err != nil {
		w.lastErr = err

		return err
	}
	w.bw.Reset(w.f)
	w.pos = offset

	return nil
}

// LastError returns the most recent I/O error recorded by the writer, if
// any.
func (w *Writer) LastError() error { return w.lastErr }

// SetCompressing toggles whether subsequent writes accumulate into the
// staging buffer for later compressed-block emission, or pass straight
// through. Turning compression off while bytes remain
// staged flushes them first.
func (w *Writer) SetCompressing(on bool) error {
	if w.compress && !on {
		if err := w.FlushBlock(); err != nil {
			return err
		}
	}
	w.compress = on
	if on && w.staging == nil {
		w.staging = pool.NewByteBuffer(pool.StageBufferDefaultSize)
	}

	return nil
}

// FlushBlock emits the staging buffer (if non-empty) as a compressed
// block: (uncompressed-length:u32, compressed-length:u32,
// compressed-bytes), and clears the staging buffer. It is a no-op when
// nothing is staged.
func (w *Writer) FlushBlock() error {
	if w.staging == nil || w.staging.Len() == 0 {
		return nil
	}

	raw := w.staging.Bytes()
	compressed, err := w.codec.Compress(raw)
	if err != nil {
		w.lastErr = err

		return err
	}

	if err := w.writeRaw32(uint32(len(raw))); err != nil {
		return err
	}
	if err := w.writeRaw32(uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := w.bw.Write(compressed); err != nil {
		w.lastErr = err

		return err
	}
	w.pos += 4 + 4 + int64(len(compressed))
	w.staging.Reset()

	return nil
}

func (w *Writer) writeRaw32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.bw.Write(buf[:])
	if err != nil {
		w.lastErr = err
	}

	return err
}

// write routes bytes either to the staging buffer (compression on) or
// straight to the underlying buffered writer, advancing pos only for
// the direct path (staged bytes advance pos when FlushBlock emits them).
func (w *Writer) write(p []byte) error {
	if w.compress {
		_, _ = w.staging.Write(p)

		return nil
	}
	if _, err := w.bw.Write(p); err != nil {
		w.lastErr = err

		return err
	}
	w.pos += int64(len(p))

	return nil
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	return w.write([]byte{b})
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)

	return w.write(buf[:])
}

// WriteI32 writes a little-endian int32.
func (w *Writer) WriteI32(v int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))

	return w.write(buf[:])
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)

	return w.write(buf[:])
}

// WriteI64 writes a little-endian int64.
func (w *Writer) WriteI64(v int64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))

	return w.write(buf[:])
}

// WriteF64 writes a little-endian IEEE-754 double.
func (w *Writer) WriteF64(v float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))

	return w.write(buf[:])
}

// WriteString writes a one-byte length prefix followed by s's bytes.
// len(s) must not exceed format.MaxShortStringLen.
func (w *Writer) WriteString(s string) error {
	if len(s) > 255 {
		return fmt.Errorf("%w: string length %d exceeds 255", errs.ErrBadDataFormat, len(s))
	}
	if err := w.WriteByte(byte(len(s))); err != nil {
		return err
	}

	return w.write([]byte(s))
}

// WritePChar writes a two-byte length prefix followed by s's bytes, for
// long strings such as macro bodies or explanatory text that may exceed
// 255 bytes.
func (w *Writer) WritePChar(s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("%w: pchar length %d exceeds 65535", errs.ErrBadDataFormat, len(s))
	}
	if err := w.WriteU16(uint16(len(s))); err != nil {
		return err
	}

	return w.write([]byte(s))
}

// WriteTag writes a section or header tag such as "_DATA_" verbatim,
// with no length prefix.
func (w *Writer) WriteTag(tag string) error {
	return w.write([]byte(tag))
}

// WriteRawBytes writes p verbatim, honoring the staging/compression path.
func (w *Writer) WriteRawBytes(p []byte) error {
	return w.write(p)
}

// WriteOrderProbe stamps the byte-order probe pattern used by readers to
// detect a byte-swapped file.
func (w *Writer) WriteOrderProbe() error {
	return w.WriteU32(orderProbe)
}

// BackPatchI64 bypasses the sequential write buffer to atomically
// overwrite a single 64-bit value at an absolute file offset. Used only
// to rewrite the header's reserved offset slots at close.
func (w *Writer) BackPatchI64(offset int64, v int64) error {
	if err := w.bw.Flush(); err != nil {
		w.lastErr = err

		return err
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	if _, err := w.f.WriteAt(buf[:], offset); err != nil {
		w.lastErr = err

		return err
	}

	return nil
}

// Flush flushes any buffered bytes to the underlying file, without
// emitting a compressed block (use FlushBlock for that).
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		w.lastErr = err

		return err
	}

	return nil
}

// Close flushes the writer and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	return w.f.Close()
}

// Reader is the read-side counterpart of Writer.
type Reader struct {
	f   *os.File
	br  *bufio.Reader
	pos int64

	codec      compress.Codec
	decompress bool
	block      []byte
	blockPos   int

	lastErr error
}

// NewReader wraps f for sequential little-endian reads, decompressing
// with codec whenever SetDecompressing(true) is active.
func NewReader(f *os.File, codec compress.Codec) *Reader {
	return &Reader{
		f:     f,
		br:    bufio.NewReaderSize(f, blockSize),
		codec: codec,
	}
}

func (r *Reader) LastError() error { return r.lastErr }

// SetDecompressing toggles whether reads come from a decompressed
// in-memory block or straight off the buffered reader.
// Turning decompression on discards any previously cached block.
func (r *Reader) SetDecompressing(on bool) {
	r.decompress = on
	r.block = nil
	r.blockPos = 0
}

// loadBlock reads one compressed block's framing and decompresses it
// into r.block, ready for sequential reads.
func (r *Reader) loadBlock() error {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r.br, lenBuf[:]); err != nil {
		r.lastErr = err

		return err
	}
	uncompressedLen := binary.LittleEndian.Uint32(lenBuf[0:4])
	compressedLen := binary.LittleEndian.Uint32(lenBuf[4:8])
	r.pos += 8

	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r.br, compressed); err != nil {
		r.lastErr = err

		return err
	}
	r.pos += int64(compressedLen)

	decoded, err := r.codec.Decompress(compressed, int(uncompressedLen))
	if err != nil {
		r.lastErr = err

		return err
	}
	r.block = decoded
	r.blockPos = 0

	return nil
}

// readN reads exactly n bytes, from the decompressed block when active
// or directly from the buffered reader otherwise.
func (r *Reader) readN(n int) ([]byte, error) {
	if r.decompress {
		if r.block == nil || r.blockPos >= len(r.block) {
			if err := r.loadBlock(); err != nil {
				return nil, err
			}
		}
		if r.blockPos+n > len(r.block) {
			return nil, io.ErrUnexpectedEOF
		}
		out := r.block[r.blockPos : r.blockPos+n]
		r.blockPos += n

		return out, nil
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		r.lastErr = err

		return nil, err
	}
	r.pos += int64(n)

	return buf, nil
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadI32() (int32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}

	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadI64() (int64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}

	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (r *Reader) ReadF64() (float64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadString reads a one-byte length prefix followed by that many bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	b, err := r.readN(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadPChar reads a two-byte length prefix followed by that many bytes.
func (r *Reader) ReadPChar() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := r.readN(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadTag reads a section tag of the given length and returns it
// unchecked; callers compare the returned string with the tag they
// expect and report their own marker error.
func (r *Reader) ReadTag(length int) (string, error) {
	b, err := r.readN(length)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadRawBytes reads exactly n bytes verbatim.
func (r *Reader) ReadRawBytes(n int) ([]byte, error) {
	return r.readN(n)
}

// CheckOrderProbe reads the order-probe pattern a writer stamped and
// reports whether the file's byte order matches this host's write
// convention. A swapped probe is treated as "bad data format"; GDX does
// not attempt to transparently swap a foreign-order file.
func (r *Reader) CheckOrderProbe() (ok bool, err error) {
	got, err := r.ReadU32()
	if err != nil {
		return false, err
	}
	if endian.IsByteSwapped(got, orderProbe) {
		return false, nil
	}

	return endian.ValidateFileOrder(got, orderProbe), nil
}

// Seek discards any buffered/cached state and repositions absolute reads
// at offset.
func (r *Reader) Seek(offset int64) error {
	if _, err := r.f.Seek(offset, io.SeekStart); err != nil {
		r.lastErr = err

		return err
	}
	r.br.Reset(r.f)
	r.pos = offset
	r.block = nil
	r.blockPos = 0

	return nil
}

func (r *Reader) Pos() int64 { return r.pos }

func (r *Reader) Close() error {
	return r.f.Close()
}
