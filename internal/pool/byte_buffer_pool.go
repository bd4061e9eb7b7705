// Package pool provides pooled, growable byte buffers used by the stream
// layer's compression staging area.
package pool

import (
	"io"
	"sync"
)

// Default and maximum retained sizes for the compression staging buffer.
// GDX compresses one block per symbol record stream or ancillary section,
// so these are sized for a typical symbol's data rather than a whole file.
const (
	StageBufferDefaultSize  = 1024 * 16  // 16KiB
	StageBufferMaxThreshold = 1024 * 512 // 512KiB
)

// ByteBuffer is a reusable, growable byte slice wrapper.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, retaining the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures the buffer can hold requiredBytes more bytes without
// reallocating.
//
//   - For small buffers (<4x default), grow by StageBufferDefaultSize to
//     minimize reallocations.
//   - For larger buffers, grow by 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := StageBufferDefaultSize
	if cap(bb.B) > 4*StageBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer, growing it as needed. Implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteTo writes the contents of the buffer to w. Implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)

	return int64(n), err
}

// ByteBufferPool pools ByteBuffers to minimize allocations across
// successive symbol/section compression passes on the same handle.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default size, discarding buffers grown past maxThreshold
// instead of retaining them.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns a ByteBuffer to the pool for reuse, discarding it if it has
// grown past the pool's max threshold.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var stagePool = NewByteBufferPool(StageBufferDefaultSize, StageBufferMaxThreshold)

// GetStageBuffer retrieves a ByteBuffer from the default compression
// staging pool.
func GetStageBuffer() *ByteBuffer {
	return stagePool.Get()
}

// PutStageBuffer returns a ByteBuffer to the default compression staging
// pool.
func PutStageBuffer(bb *ByteBuffer) {
	stagePool.Put(bb)
}
