// Package strhash implements the append-only, hash-accelerated string pool
// used by the UEL table and the set-text pool.
//
// It is grounded directly on the original GDX source's
// gdlib::strhash::TXStrHashList (original_source/gdlib/strhash.h): the
// same case-insensitive hash formula (211*acc+upper(ch)), the same
// escalating hash-table-size sequence, and the same singly-linked bucket
// chaining — but indices into a contiguous slice instead of raw pointers.
package strhash

import "strings"

// Escalating hash table sizes and the entry count that triggers a rehash
// to the next size, taken verbatim from gdlib/strhash.h.
var tableSizes = []struct {
	size      int
	rehashCnt int
}{
	{97, 150},
	{9973, 10_000},
	{99_991, 100_000},
	{999_979, 1_500_000},
	{9_999_991, 15_000_000},
	{99_999_989, 1<<31 - 1},
}

type bucket struct {
	str   string
	next  int // 1-based index into buckets; 0 = end of chain
	strNr int // 0-based position, assigned at insertion
}

// Pool is an append-only string store with case-insensitive (or, via
// NewCaseSensitivePool, case-sensitive) hashed lookup. The zero value is
// not ready to use; construct with New or NewCaseSensitivePool.
type Pool struct {
	buckets       []bucket
	hashTable     []int // 1-based bucket index; 0 = empty slot
	hashTableSize int
	rehashCnt     int
	caseSensitive bool
	oneBased      bool

	sorted  bool
	sortMap []int
}

// New creates a case-insensitive string pool. When oneBased is true,
// Store/Add/IndexOf return 1-based indices (as the UEL table requires);
// when false, indices are 0-based (as the set-text pool requires, with
// slot 0 reserved for the empty string by the caller).
func New(oneBased bool) *Pool {
	return &Pool{oneBased: oneBased}
}

// NewCaseSensitivePool creates a case-sensitive variant, grounded on
// gdlib::strhash::TXCSStrHashList.
func NewCaseSensitivePool(oneBased bool) *Pool {
	return &Pool{oneBased: oneBased, caseSensitive: true}
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}

	return b
}

// hash computes the bucket-chain hash of s against the current table
// size, folding to a non-negative 31-bit value before the modulo, exactly
// as TXStrHashList::Hash does.
func (p *Pool) hash(s string) int {
	acc := 0
	if p.caseSensitive {
		for i := 0; i < len(s); i++ {
			acc = 211*acc + int(s[i])
		}
	} else {
		for i := 0; i < len(s); i++ {
			acc = 211*acc + int(upper(s[i]))
		}
	}
	acc &= 0x7FFFFFFF

	return acc % p.hashTableSize
}

func (p *Pool) equal(a, b string) bool {
	if p.caseSensitive {
		return a == b
	}

	return strings.EqualFold(a, b)
}

// resetHashTable picks the hash table size bracket for the given entry
// count and allocates a fresh, empty table.
func (p *Pool) resetHashTable(count int) {
	bracket := tableSizes[0]
	for _, ts := range tableSizes {
		bracket = ts
		if count < ts.rehashCnt {
			break
		}
	}
	p.hashTableSize = bracket.size
	p.rehashCnt = bracket.rehashCnt
	p.hashTable = make([]int, p.hashTableSize)
}

// hashAll rebuilds the hash table from scratch over all buckets, used
// after the rehash threshold for the current table size is exceeded.
func (p *Pool) hashAll() {
	p.resetHashTable(len(p.buckets))
	for i := range p.buckets {
		p.buckets[i].next = 0
		hv := p.hash(p.buckets[i].str)
		p.buckets[i].next = p.hashTable[hv]
		p.hashTable[hv] = i + 1
	}
}

func (p *Pool) toExternal(i int) int {
	if p.oneBased {
		return i + 1
	}

	return i
}

func (p *Pool) toInternal(i int) int {
	if p.oneBased {
		return i - 1
	}

	return i
}

// Store unconditionally appends s, returning its new index. Used when
// on-disk order is authoritative (loading) and duplicate detection is not
// required.
func (p *Pool) Store(s string) int {
	if p.hashTable == nil {
		p.resetHashTable(0)
	}
	idx := len(p.buckets)
	p.buckets = append(p.buckets, bucket{str: s, strNr: idx})
	hv := p.hash(s)
	p.buckets[idx].next = p.hashTable[hv]
	p.hashTable[hv] = idx + 1
	p.invalidateSort()

	return p.toExternal(idx)
}

// Add returns the index of an existing entry equal to s (case-insensitive
// unless the pool is case-sensitive), or appends a new one.
func (p *Pool) Add(s string) int {
	if p.hashTable == nil {
		p.resetHashTable(0)
	}
	if len(p.buckets) >= p.rehashCnt {
		p.hashAll()
	}

	hv := p.hash(s)
	for bi := p.hashTable[hv]; bi != 0; bi = p.buckets[bi-1].next {
		if p.equal(p.buckets[bi-1].str, s) {
			return p.toExternal(bi - 1)
		}
	}

	idx := len(p.buckets)
	p.buckets = append(p.buckets, bucket{str: s, strNr: idx, next: p.hashTable[hv]})
	p.hashTable[hv] = idx + 1
	p.invalidateSort()

	return p.toExternal(idx)
}

// IndexOf returns the index of s, or -1 if not present.
func (p *Pool) IndexOf(s string) int {
	if p.hashTable == nil {
		return -1
	}

	hv := p.hash(s)
	for bi := p.hashTable[hv]; bi != 0; bi = p.buckets[bi-1].next {
		if p.equal(p.buckets[bi-1].str, s) {
			return p.toExternal(bi - 1)
		}
	}

	return -1
}

// Rename replaces the string stored at index i, re-hashing it into its
// new bucket chain.
func (p *Pool) Rename(i int, s string) {
	idx := p.toInternal(i)
	p.buckets[idx].str = s
	p.invalidateSort()
	p.hashAll()
}

// Get returns the string at index i.
func (p *Pool) Get(i int) string {
	return p.buckets[p.toInternal(i)].str
}

// Count returns the number of entries stored.
func (p *Pool) Count() int {
	return len(p.buckets)
}

func (p *Pool) invalidateSort() {
	p.sorted = false
	p.sortMap = nil
}

// Sort returns a permutation of internal (0-based) positions in
// case-sensitivity-respecting lexicographic string order. The underlying
// storage is never reordered; callers index Get/IndexOf results through
// the returned permutation when they need sorted iteration order.
func (p *Pool) Sort() []int {
	if p.sorted && p.sortMap != nil {
		return p.sortMap
	}

	perm := make([]int, len(p.buckets))
	for i := range perm {
		perm[i] = i
	}
	less := func(a, b int) bool {
		if p.caseSensitive {
			return p.buckets[a].str < p.buckets[b].str
		}

		return strings.ToUpper(p.buckets[a].str) < strings.ToUpper(p.buckets[b].str)
	}
	quickSortPerm(perm, less)

	p.sortMap = perm
	p.sorted = true

	return perm
}

// quickSortPerm sorts perm in place using an adaptive quicksort: middle-
// element pivot, smaller partition recursed first, larger iterated — the
// same shape as tuplestore's sort and the original
// TXStrHashList::QuickSort.
func quickSortPerm(perm []int, less func(a, b int) bool) {
	var qsort func(l, r int)
	qsort = func(l, r int) {
		for l < r {
			i, j := l, r
			p := perm[(l+r)/2]
			for i <= j {
				for less(perm[i], p) {
					i++
				}
				for less(p, perm[j]) {
					j--
				}
				if i <= j {
					perm[i], perm[j] = perm[j], perm[i]
					i++
					j--
				}
			}
			if j-l > r-i {
				if i < r {
					qsort(i, r)
				}
				r = j
			} else {
				if l < j {
					qsort(l, j)
				}
				l = i
			}
		}
	}
	qsort(0, len(perm)-1)
}
