package gdx

import "github.com/gdxlib/gdx/format"

// DataType identifies the kind of symbol a GDX entry represents.
type DataType = format.DataType

// Re-exported data-type constants, spelled the way callers of the
// public API refer to them.
const (
	Set       = format.Set
	Parameter = format.Parameter
	Variable  = format.Variable
	Equation  = format.Equation
	Alias     = format.Alias
)

// Record is one sparse tuple of a symbol's data: one internal UEL index
// per dimension, plus up to five values. Sets and
// parameters use Values[0] only; variables and equations use all five.
type Record struct {
	Keys   []int32
	Values [5]float64
}

// SymbolInfo describes one registered symbol, as reported by File.Symbol
// and friends.
type SymbolInfo struct {
	Name            string
	Dim             int
	DataType        DataType
	UserInfo        int32
	RecordCount     int32
	ErrorCount      int32
	ExplanatoryText string
	HasSetText      bool
	Compressed      bool

	// AliasTarget is the 1-based symbol index this symbol aliases, or 0
	// if DataType != Alias.
	AliasTarget int32
}

// symbolError is one entry in a symbol's capped error list. Dimensions holds the offending key for each
// dimension, negated as the original format does to flag which
// dimension(s) were involved.
type symbolError struct {
	Dimensions []int32
	Kind       error
}

// symbolEntry is the engine's full internal bookkeeping for one
// registered symbol: the public SymbolInfo plus everything needed to
// reopen its record stream for reading or to validate further writes.
type symbolEntry struct {
	SymbolInfo

	RecordPos     int64
	MinElem       []int32
	MaxElem       []int32
	DomainSymbols []int32 // per-dimension referencing symbol index (1-based), 0 = none
	DomainStrings []int32 // per-dimension index into the domain-strings pool, 0 = none
	Comments      []string

	// ownBitmap marks which internal UEL indices this symbol's own
	// elements cover. Only populated for dimension-1 Sets, where it
	// serves as the write bitmap for any other symbol that names this
	// one as a domain.
	ownBitmap *bitset

	errorList []symbolError
}

// valueCount returns how many of Record.Values are meaningful for this
// symbol's data type.
func (e *symbolEntry) valueCount() int {
	return e.DataType.ValueCount()
}

// addSymbolError appends an error to the symbol's error list, capped at
// format.MaxErrorListLen entries: once full, every further error is
// dropped and not added to ErrorCount.
func (e *symbolEntry) addSymbolError(dims []int32, kind error) {
	if len(e.errorList) >= format.MaxErrorListLen {
		return
	}

	cp := make([]int32, len(dims))
	copy(cp, dims)
	e.errorList = append(e.errorList, symbolError{Dimensions: cp, Kind: kind})
	e.ErrorCount++
}
