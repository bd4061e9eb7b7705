// Package tuplestore implements the per-symbol sparse tuple store: a flat
// collection of (key[dim], values[size]) records that the writer buffers
// before emitting a symbol's record stream, and that the reader uses to
// re-sort remapped records when filtered/mapped reads change record order.
package tuplestore

import (
	"github.com/gdxlib/gdx/internal/collision"
	"github.com/gdxlib/gdx/internal/pool"
)

// Store holds the records for one symbol. Keys and values are stored as
// two flat, parallel slices indexed by record position rather than as a
// slice of per-record structs, so Add, Search, and Sort touch only the
// bytes that matter instead of chasing pointers.
type Store struct {
	dim     int // key tuple width
	valSize int // value tuple width

	keyData []int32
	valData []float64
	count   int

	isSorted  bool
	lastIndex int

	tracker *collision.KeyTracker
}

// New creates an empty store for records with the given key dimension and
// value-tuple size (format.DataType.ValueCount()).
func New(dim, valSize int) *Store {
	return &Store{
		dim:       dim,
		valSize:   valSize,
		isSorted:  true,
		lastIndex: -1,
		tracker:   collision.NewKeyTracker(),
	}
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	return s.count
}

// Dim returns the key tuple width.
func (s *Store) Dim() int {
	return s.dim
}

func (s *Store) keysAt(n int) []int32 {
	return s.keyData[n*s.dim : (n+1)*s.dim]
}

func (s *Store) valuesAt(n int) []float64 {
	return s.valData[n*s.valSize : (n+1)*s.valSize]
}

func compare(a, b []int32) int {
	for d := 0; d < len(a); d++ {
		if diff := a[d] - b[d]; diff != 0 {
			return int(diff)
		}
	}

	return 0
}

func (s *Store) compareWithRecord(keys []int32, n int) int {
	return compare(keys, s.keysAt(n))
}

// insertAt shifts records at and after n one slot to the right and writes
// keys/values into the opened slot. It always invalidates the sorted
// flag, matching InsertRecord's unconditional FIsSorted = false.
func (s *Store) insertAt(n int, keys []int32, values []float64) {
	count := s.count

	if s.dim > 0 {
		s.keyData = append(s.keyData, make([]int32, s.dim)...)
		copy(s.keyData[(n+1)*s.dim:(count+1)*s.dim], s.keyData[n*s.dim:count*s.dim])
		copy(s.keyData[n*s.dim:(n+1)*s.dim], keys)
	}
	if s.valSize > 0 {
		s.valData = append(s.valData, make([]float64, s.valSize)...)
		copy(s.valData[(n+1)*s.valSize:(count+1)*s.valSize], s.valData[n*s.valSize:count*s.valSize])
		copy(s.valData[n*s.valSize:(n+1)*s.valSize], values)
	}

	s.count++
	s.isSorted = false
}

// Add appends a record unconditionally in O(1) amortized time.
func (s *Store) Add(keys []int32, values []float64) {
	s.insertAt(s.count, keys, values)
	s.tracker.Mark(collision.HashKeys(keys))
}

// Search looks for keys among the stored records with a binary search,
// accelerated by a one-entry cache of the last search's landing index:
// a run of monotonically increasing insertions lands in the cache slot
// (or just past it) on every call, making each search O(1) instead of
// O(log n).
func (s *Store) Search(keys []int32) (found bool, pos int) {
	return s.search(keys, true)
}

func (s *Store) search(keys []int32, checkEquality bool) (found bool, pos int) {
	h := s.count - 1
	if h < 0 {
		s.lastIndex = 0
		return false, 0
	}

	l := 0
	s.lastIndex++
	if s.lastIndex >= 0 && s.lastIndex <= h {
		c := s.compareWithRecord(keys, s.lastIndex)
		if c == 0 {
			return checkEquality, s.lastIndex
		}
		if c < 0 {
			h = s.lastIndex - 1
		} else {
			l = s.lastIndex + 1
		}
	} else if s.lastIndex == h+1 && s.compareWithRecord(keys, h) > 0 {
		return false, s.lastIndex
	}

	for l <= h {
		i := (l + h) >> 1
		c := s.compareWithRecord(keys, i)
		if c > 0 {
			l = i + 1
		} else if c < 0 {
			h = i - 1
		} else {
			l = i
			found = checkEquality
			break
		}
	}

	s.lastIndex = l
	return found, l
}

// AddUnique inserts keys/values in sorted position and returns true, or
// returns false without modifying the store if an equal key is already
// present. A key hash tracker lets the common case — a key whose hash has
// never been seen — skip the exact-equality branch of the landing search,
// since an unseen hash cannot belong to an existing entry; the binary
// search still runs to find the insertion point.
func (s *Store) AddUnique(keys []int32, values []float64) bool {
	hash := collision.HashKeys(keys)

	checkEquality := s.tracker.MaybeDuplicate(hash)
	found, pos := s.search(keys, checkEquality)
	if found {
		return false
	}

	s.insertAt(pos, keys, values)
	s.tracker.Mark(hash)

	return true
}

func (s *Store) exchange(i, j int) {
	if i == j {
		return
	}

	ki, kj := s.keysAt(i), s.keysAt(j)
	for d := 0; d < s.dim; d++ {
		ki[d], kj[d] = kj[d], ki[d]
	}

	vi, vj := s.valuesAt(i), s.valuesAt(j)
	for d := 0; d < s.valSize; d++ {
		vi[d], vj[d] = vj[d], vi[d]
	}
}

// quickSort is the adaptive, iterative-on-the-larger-partition quicksort:
// a middle-element pivot (re-snapshotted each pass since records move
// under it), a Hoare partition, then a recursive
// call on the smaller side and a loop continuation on the larger one
// instead of a second recursive call.
func (s *Store) quickSort(l, r int) {
	i := l
	for i < r {
		j := r
		p := (l + r) >> 1
		pivot := append([]int32(nil), s.keysAt(p)...)

		for {
			for compare(s.keysAt(i), pivot) < 0 {
				i++
			}
			for compare(s.keysAt(j), pivot) > 0 {
				j--
			}
			if i < j {
				s.exchange(i, j)
				i++
				j--
			} else if i == j {
				i++
				j--
			}
			if i > j {
				break
			}
		}

		if j-l > r-i {
			if i < r {
				s.quickSort(i, r)
			}
			i = l
			r = j
		} else {
			if l < j {
				s.quickSort(l, j)
			}
			l = i
		}
	}
}

// Sort orders the stored records by key. It first rescans for whether any
// adjacent pair is out of order, so an already-sorted store (the common
// case for append-only writers) costs one linear pass instead of a full
// quicksort.
func (s *Store) Sort() {
	if s.isSorted {
		return
	}

	needed := false
	for i := 0; i < s.count-1; i++ {
		if compare(s.keysAt(i), s.keysAt(i+1)) > 0 {
			needed = true
			break
		}
	}
	if needed {
		s.quickSort(0, s.count-1)
	}

	s.isSorted = true
	s.lastIndex = -1
}

// Get returns pooled copies of the key and value tuples at record n. The
// caller must call release (typically via defer) once done with them.
func (s *Store) Get(n int) (keys []int32, values []float64, release func()) {
	keys, relK := pool.GetKeySlice(s.dim)
	values, relV := pool.GetValueSlice(s.valSize)

	copy(keys, s.keysAt(n))
	copy(values, s.valuesAt(n))

	return keys, values, func() { relK(); relV() }
}

// Iterate walks the records in their current order, calling fn with a
// pooled key/value pair for each one. Iteration stops early if fn returns
// false.
func (s *Store) Iterate(fn func(keys []int32, values []float64) bool) {
	keys, relK := pool.GetKeySlice(s.dim)
	defer relK()
	values, relV := pool.GetValueSlice(s.valSize)
	defer relV()

	for i := 0; i < s.count; i++ {
		copy(keys, s.keysAt(i))
		copy(values, s.valuesAt(i))
		if !fn(keys, values) {
			break
		}
	}
}

// Clear empties the store, retaining its backing arrays for reuse.
func (s *Store) Clear() {
	s.keyData = s.keyData[:0]
	s.valData = s.valData[:0]
	s.count = 0
	s.isSorted = true
	s.lastIndex = -1
	s.tracker.Reset()
}

// MemoryUsed reports the approximate number of bytes retained by the
// store's backing arrays.
func (s *Store) MemoryUsed() int64 {
	const int32Size, float64Size = 4, 8

	return int64(cap(s.keyData))*int32Size + int64(cap(s.valData))*float64Size
}
