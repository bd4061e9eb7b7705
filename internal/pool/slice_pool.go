package pool

import "sync"

// Slice pools for efficient reuse of typed slices during record
// encode/decode: one key tuple ([]int32) and one
// value tuple ([]float64) are needed per record processed, and these are
// the hottest allocation in the read/write path.
var (
	keySlicePool = sync.Pool{
		New: func() any { return &[]int32{} },
	}
	valueSlicePool = sync.Pool{
		New: func() any { return &[]float64{} },
	}
)

// GetKeySlice retrieves and resizes an int32 key-tuple slice from the pool.
//
// The returned slice has length exactly size. The caller must call the
// returned cleanup function (typically via defer) to return it to the pool.
func GetKeySlice(size int) ([]int32, func()) {
	ptr, _ := keySlicePool.Get().(*[]int32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { keySlicePool.Put(ptr) }
}

// GetValueSlice retrieves and resizes a float64 value-tuple slice from the
// pool.
//
// The returned slice has length exactly size. The caller must call the
// returned cleanup function (typically via defer) to return it to the pool.
func GetValueSlice(size int) ([]float64, func()) {
	ptr, _ := valueSlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { valueSlicePool.Put(ptr) }
}
