// Package collision provides a fast pre-check for duplicate-key detection
// in the sparse tuple store.
//
// KeyTracker lets add_unique skip the exact equality check at the
// binary-search landing point whenever the key's hash has never been seen
// before, since an unseen hash cannot be an existing entry. It never
// replaces the binary-search comparison itself — when the hash has been
// seen, the caller still must confirm equality exactly, because two
// distinct key tuples can (rarely) share a hash.
package collision

import "github.com/cespare/xxhash/v2"

// KeyTracker tracks the hashes of key tuples already inserted into a
// tuple store, to accelerate add_unique's duplicate check.
type KeyTracker struct {
	seen map[uint64]struct{}
}

// NewKeyTracker creates an empty tracker.
func NewKeyTracker() *KeyTracker {
	return &KeyTracker{seen: make(map[uint64]struct{})}
}

// HashKeys computes a fast, non-cryptographic hash of a record's key
// tuple for use with KeyTracker. Two equal key tuples always hash
// equally; two unequal key tuples hash equally only by rare collision.
func HashKeys(keys []int32) uint64 {
	var buf [8]byte
	h := xxhash.New()
	for _, k := range keys {
		buf[0] = byte(k)
		buf[1] = byte(k >> 8)
		buf[2] = byte(k >> 16)
		buf[3] = byte(k >> 24)
		_, _ = h.Write(buf[:4])
	}

	return h.Sum64()
}

// MaybeDuplicate reports whether hash has been seen before. When it
// returns false, the caller may skip the exact-equality check: an unseen
// hash cannot belong to an existing entry.
func (t *KeyTracker) MaybeDuplicate(hash uint64) bool {
	_, ok := t.seen[hash]

	return ok
}

// Mark records that hash now belongs to a stored entry.
func (t *KeyTracker) Mark(hash uint64) {
	t.seen[hash] = struct{}{}
}

// Reset clears all tracked hashes, retaining the map's capacity.
func (t *KeyTracker) Reset() {
	for k := range t.seen {
		delete(t.seen, k)
	}
}

// Count returns the number of distinct hashes tracked.
func (t *KeyTracker) Count() int {
	return len(t.seen)
}
