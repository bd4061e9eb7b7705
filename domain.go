package gdx

import "github.com/gdxlib/gdx/errs"

// bitset is a growable set of non-negative internal UEL indices, used
// both for a symbol's per-dimension write bitmap and
// for registered read filters. It is implemented directly on 64-bit
// words with the standard library only.
type bitset struct {
	words []uint64
}

func newBitset() *bitset { return &bitset{} }

func (b *bitset) ensure(i int) {
	w := i/64 + 1
	for len(b.words) < w {
		b.words = append(b.words, 0)
	}
}

func (b *bitset) Set(i int) {
	b.ensure(i)
	b.words[i/64] |= 1 << uint(i%64)
}

func (b *bitset) Test(i int) bool {
	if i < 0 || i/64 >= len(b.words) {
		return false
	}

	return b.words[i/64]&(1<<uint(i%64)) != 0
}

// filter is a registered read-side filter: a numbered
// bitmap of admissible user UEL values, plus a lazily-probed "sorted"
// flag. Mapped reads do not consult the flag: DataReadMapStart always
// buffers and sorts the resolved records.
type filter struct {
	number      int
	maxUserUEL  int32
	bits        *bitset
	sortedKnown bool
	sorted      bool
}

func newFilter(number int) *filter {
	return &filter{number: number, bits: newBitset()}
}

// isSorted lazily probes whether the filter's enabled user UELs are in
// increasing order.
func (f *filter) isSorted() bool {
	if f.sortedKnown {
		return f.sorted
	}

	last := int32(-1)
	sorted := true
	for v := int32(0); v <= f.maxUserUEL; v++ {
		if !f.bits.Test(int(v)) {
			continue
		}
		if v < last {
			sorted = false

			break
		}
		last = v
	}
	f.sorted = sorted
	f.sortedKnown = true

	return sorted
}

// RegisterFilterStart begins bulk definition of filter number.
func (f *File) RegisterFilterStart(number int) error {
	if err := f.requireMode("register_filter_start", modeReadInit); err != nil {
		return err
	}
	if number <= 0 {
		f.setError(errs.ErrBadFilterNr)

		return errs.ErrBadFilterNr
	}

	f.filters[number] = newFilter(number)
	f.mode = modeRegisterFilter
	f.curFilter = number

	return nil
}

// RegisterFilterMap admits userUEL into the filter under construction.
func (f *File) RegisterFilterMap(userUEL int32) error {
	if err := f.requireMode("register_filter_map", modeRegisterFilter); err != nil {
		return err
	}

	flt := f.filters[f.curFilter]
	flt.bits.Set(int(userUEL))
	if userUEL > flt.maxUserUEL {
		flt.maxUserUEL = userUEL
	}
	flt.sortedKnown = false

	return nil
}

// RegisterFilterDone ends bulk definition of the current filter.
func (f *File) RegisterFilterDone() error {
	if err := f.requireMode("register_filter_done", modeRegisterFilter); err != nil {
		return err
	}

	f.mode = modeReadInit
	f.curFilter = 0

	return nil
}

// ReadAction selects how a read-side dimension's internal UEL index is
// turned into the value reported to the caller.
type ReadAction struct {
	kind      readActionKind
	filterNum int
}

type readActionKind uint8

const (
	actionUnmapped readActionKind = iota
	actionExpand
	actionStrict
	actionFilter
)

// Unmapped passes the internal UEL index through unchanged.
func Unmapped() ReadAction { return ReadAction{kind: actionUnmapped} }

// Expand maps internal to user index, registering a new user UEL if
// the internal index has none yet.
func Expand() ReadAction { return ReadAction{kind: actionExpand} }

// Strict maps internal to user index; a missing mapping is added to
// the symbol's error list rather than synthesized.
func Strict() ReadAction { return ReadAction{kind: actionStrict} }

// Filter consults the bitmap of the previously registered filter
// number; a miss is added to the symbol's error list.
func Filter(number int) ReadAction { return ReadAction{kind: actionFilter, filterNum: number} }

// applyReadAction resolves one dimension's internal UEL index to the
// value reported through Record.Keys, per the chosen ReadAction.
func (f *File) applyReadAction(act ReadAction, internal int32) (int32, error) {
	switch act.kind {
	case actionUnmapped:
		return internal, nil
	case actionExpand:
		user := f.uelTable.InternalToUser(int(internal))
		if user < 0 {
			user = f.uelTable.NewUserUEL(int(internal))
		}

		return user, nil
	case actionStrict:
		user := f.uelTable.InternalToUser(int(internal))
		if user < 0 {
			return 0, errs.ErrUndefUEL
		}

		return user, nil
	case actionFilter:
		flt, ok := f.filters[act.filterNum]
		if !ok {
			return 0, errs.ErrBadFilterIndex
		}
		user := f.uelTable.InternalToUser(int(internal))
		if user < 0 || !flt.bits.Test(int(user)) {
			return 0, errs.ErrFilterUnmapped
		}

		return user, nil
	default:
		return internal, nil
	}
}

// SymbolErrorCount returns the number of entries recorded in a symbol's
// capped error list.
func (f *File) SymbolErrorCount(symIdx int32) (int32, error) {
	if symIdx < 1 || int(symIdx) > len(f.symbols) {
		return 0, errs.ErrBadSymbolIndex
	}

	return f.symbols[symIdx-1].ErrorCount, nil
}

// SymbolErrorRecord returns the i-th error list entry (0-based) for a
// symbol: the offending key for each dimension (negated, as the
// original format flags them) and the error kind.
func (f *File) SymbolErrorRecord(symIdx int32, i int) ([]int32, error, error) {
	if symIdx < 1 || int(symIdx) > len(f.symbols) {
		return nil, nil, errs.ErrBadSymbolIndex
	}
	se := f.symbols[symIdx-1]
	if i < 0 || i >= len(se.errorList) {
		return nil, nil, errs.ErrBadSymbolIndex
	}

	return se.errorList[i].Dimensions, se.errorList[i].Kind, nil
}
