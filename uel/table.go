// Package uel implements the GDX unique-element table: a two-way
// mapping between UEL strings and two integer namespaces, internal
// (file order, dense from 1) and user (a caller-controlled remap),
// composing a case-insensitive string pool with a reverse integer map.
package uel

import (
	"github.com/gdxlib/gdx/internal/intmap"
	"github.com/gdxlib/gdx/internal/strhash"
)

// MapStatus classifies the current relationship between a table's
// internal and user index spaces, computed lazily by a single pass over
// the user-map slice and cached until the next mutation.
type MapStatus uint8

const (
	StatusUnknown MapStatus = iota
	StatusUnsorted
	StatusSorted
	StatusSortGrow
	StatusSortFull
)

// unmapped is the sentinel user-map value for a UEL that has not yet
// been assigned a user index.
const unmapped = -1

// Table is the UEL table: internal index (1-based, dense, append-only)
// to string, plus a per-entry user-map integer and its reverse index.
type Table struct {
	strings *strhash.Pool
	userMap []int32
	reverse *intmap.Map // user value -> internal index

	nextUser int32
	status   MapStatus
	dirty    bool
}

// New creates an empty UEL table.
func New() *Table {
	return &Table{
		strings: strhash.New(true),
		reverse: intmap.New(1024),
		status:  StatusUnknown,
	}
}

// Count returns the number of UELs registered.
func (t *Table) Count() int {
	return t.strings.Count()
}

// String returns the UEL string at the given 1-based internal index.
func (t *Table) String(internal int) string {
	return t.strings.Get(internal)
}

// IndexOf returns the internal index of s, or -1 if unregistered.
func (t *Table) IndexOf(s string) int {
	return t.strings.IndexOf(s)
}

// Add registers s (or returns its existing internal index if already
// present) and returns the internal index.
func (t *Table) Add(s string) int {
	before := t.strings.Count()
	idx := t.strings.Add(s)
	if t.strings.Count() != before {
		t.userMap = append(t.userMap, unmapped)
		t.dirty = true
	}

	return idx
}

// AddWithUserMap registers s with an explicit user-map value, reserving
// userValue if it is free. It returns -1 if s is already mapped to a
// different user value than userValue (conflict), matching
// add_with_user_map's contract.
func (t *Table) AddWithUserMap(s string, userValue int32) int {
	before := t.strings.Count()
	internal := t.strings.Add(s)
	isNew := t.strings.Count() != before
	if isNew {
		t.userMap = append(t.userMap, unmapped)
	}

	existing := t.userMap[internal-1]
	if existing != unmapped && existing != userValue {
		return -1
	}
	if owner := t.reverse.Get(int(userValue)); owner != intmap.Unset && owner != int32(internal) {
		return -1
	}

	t.userMap[internal-1] = userValue
	t.reverse.Set(int(userValue), int32(internal))
	if userValue >= t.nextUser {
		t.nextUser = userValue + 1
	}
	t.dirty = true

	return internal
}

// NewUserUEL assigns the next free user-map value to internal if it is
// not already mapped, and returns the assigned user value.
func (t *Table) NewUserUEL(internal int) int32 {
	if existing := t.userMap[internal-1]; existing != unmapped {
		return existing
	}

	for t.reverse.Get(int(t.nextUser)) != intmap.Unset {
		t.nextUser++
	}
	userValue := t.nextUser
	t.nextUser++

	t.userMap[internal-1] = userValue
	t.reverse.Set(int(userValue), int32(internal))
	t.dirty = true

	return userValue
}

// UserToInternal maps a user-map value back to its internal index, or
// -1 if unmapped.
func (t *Table) UserToInternal(userValue int32) int {
	v := t.reverse.Get(int(userValue))
	if v == intmap.Unset {
		return -1
	}

	return int(v)
}

// InternalToUser returns the user-map value for internal, or -1 if it
// has not been assigned one.
func (t *Table) InternalToUser(internal int) int32 {
	if internal < 1 || internal > len(t.userMap) {
		return unmapped
	}

	return t.userMap[internal-1]
}

// MapStatus classifies the user map, computing it lazily and caching
// the result until the next mutation.
func (t *Table) MapStatus() MapStatus {
	if !t.dirty && t.status != StatusUnknown {
		return t.status
	}

	n := len(t.userMap)
	sorted := true
	full := true
	growing := true
	anyMapped := false
	sawGap := false
	prev := int32(unmapped)

	for i, u := range t.userMap {
		if u == unmapped {
			full = false
			sawGap = true

			continue
		}
		anyMapped = true
		if int(u) != i+1 {
			full = false
		}
		if prev != unmapped && u < prev {
			sorted = false
		}
		if sawGap || u != int32(i+1) {
			growing = false
		}
		prev = u
	}

	switch {
	case !anyMapped:
		t.status = StatusUnknown
	case full:
		t.status = StatusSortFull
	case growing:
		// Mapped prefix is exactly 1..k in internal order: this table
		// will reach sort_full once the remaining internals are mapped.
		t.status = StatusSortGrow
	case sorted && n > 0:
		t.status = StatusSorted
	default:
		t.status = StatusUnsorted
	}
	t.dirty = false

	return t.status
}

// Sort returns the stable permutation of internal indices ordered by
// their string value, delegating to the underlying string pool.
func (t *Table) Sort() []int {
	return t.strings.Sort()
}
