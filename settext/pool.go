// Package settext implements the GDX set-text pool: an append-only,
// 0-based string store whose slot 0 is reserved for the empty string.
// It reuses the case-insensitive string pool's hashing and
// bucket-chaining machinery with exact-match semantics, since set-text
// entries are arbitrary explanatory strings rather than identifiers.
package settext

import "github.com/gdxlib/gdx/internal/strhash"

// Pool is the set-text pool for one GDX handle.
type Pool struct {
	strings *strhash.Pool
}

// New creates a set-text pool with slot 0 pre-allocated to the empty
// string.
func New() *Pool {
	p := &Pool{strings: strhash.NewCaseSensitivePool(false)}
	p.strings.Add("")

	return p
}

// Add returns the index of an existing entry equal to s, or appends a
// new one.
func (p *Pool) Add(s string) int {
	return p.strings.Add(s)
}

// Get returns the string at the given 0-based index.
func (p *Pool) Get(i int) string {
	return p.strings.Get(i)
}

// Count returns the number of entries, including the reserved empty
// string at slot 0.
func (p *Pool) Count() int {
	return p.strings.Count()
}
