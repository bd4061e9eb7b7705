// Package acronym implements the GDX acronym table: an append-only list
// of named integer codes that appear in record data scaled by
// format.AcronymScale.
package acronym

import (
	"strconv"

	"github.com/gdxlib/gdx/errs"
)

// Entry is one registered acronym.
type Entry struct {
	Name    string
	Text    string
	Code    int
	ReadMap int  // original on-disk code an auto-generated entry was created for; 0 for declared entries
	AutoGen bool // true if this entry was auto-generated during a read rather than declared by the client
}

// Table is the append-only acronym list for one GDX handle.
type Table struct {
	entries []Entry
	byName  map[string]int // case-sensitive name -> index into entries
	byCode  map[int]int

	// NextAutoAcronym controls read-time auto-generation of unregistered
	// acronym codes: 0 disables it (the original code is preserved
	// unresolved); a positive value is the next code to assign to a
	// newly discovered acronym.
	NextAutoAcronym int
}

// New creates an empty acronym table.
func New() *Table {
	return &Table{
		byName: make(map[string]int),
		byCode: make(map[int]int),
	}
}

// Add declares an acronym by name with an explicit code. It fails if
// name is already registered with a different code, or code is already
// used by a different name.
func (t *Table) Add(name, text string, code int) (int, error) {
	if idx, ok := t.byName[name]; ok {
		if t.entries[idx].Code != code {
			return -1, errs.ErrAcroDupeMap
		}

		return idx, nil
	}
	if idx, ok := t.byCode[code]; ok && t.entries[idx].Name != name {
		return -1, errs.ErrAcroDupeMap
	}

	idx := len(t.entries)
	t.entries = append(t.entries, Entry{Name: name, Text: text, Code: code})
	t.byName[name] = idx
	t.byCode[code] = idx

	return idx, nil
}

// Count returns the number of registered acronyms.
func (t *Table) Count() int {
	return len(t.entries)
}

// Get returns the entry at the given 0-based index.
func (t *Table) Get(i int) (Entry, bool) {
	if i < 0 || i >= len(t.entries) {
		return Entry{}, false
	}

	return t.entries[i], true
}

// ByName looks up an entry by its declared name.
func (t *Table) ByName(name string) (Entry, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}

	return t.entries[idx], true
}

// ByCode looks up an entry by its integer code, whether declared by the
// client or auto-generated during a read.
func (t *Table) ByCode(code int) (Entry, bool) {
	idx, ok := t.byCode[code]
	if !ok {
		return Entry{}, false
	}

	return t.entries[idx], true
}

// Resolve is called when the reader encounters an acronym value whose
// code was not registered by the client. When NextAutoAcronym is
// positive, it auto-generates a new entry named after the code and
// returns the assigned code; otherwise it returns the original code
// unresolved.
func (t *Table) Resolve(code int) int {
	if _, ok := t.byCode[code]; ok {
		return code
	}
	if t.NextAutoAcronym <= 0 {
		return code
	}

	assigned := t.NextAutoAcronym
	t.NextAutoAcronym++

	idx := len(t.entries)
	name := autoName(code)
	t.entries = append(t.entries, Entry{
		Name:    name,
		Code:    assigned,
		ReadMap: code,
		AutoGen: true,
	})
	t.byName[name] = idx
	t.byCode[assigned] = idx

	return assigned
}

func autoName(code int) string {
	return "acronym_" + strconv.Itoa(code)
}
