package gdx

import (
	"math"
	"strings"

	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
	"github.com/gdxlib/gdx/section"
	"github.com/gdxlib/gdx/tuplestore"
)

// symbolCursor groups the ephemeral state of one in-progress symbol
// write or read, released when its *Done call returns.
type symbolCursor struct {
	symIdx int32
	entry  *symbolEntry
	dim    int

	minElem   []int32
	maxElem   []int32
	wrBitmaps []*bitset // per-dimension; nil entry = unrestricted

	rw     *section.RecordWriter
	buffer *tuplestore.Store // non-nil for map/str writes, buffered until Done

	rr          *section.RecordReader
	readActions []ReadAction
	readPos     int // next unread index into buffer, for map/str-buffered reads

	// slice* hold the per-dimension observed-UEL mapping built by
	// DataReadSliceStart's first pass and
	// the fixed-value strings of the most recent DataReadSlice call.
	sliceLocalToInternal [][]int32
	sliceFixed           []string

	domainSet bool
}

func (f *File) beginSymbolWrite(name string, dim int, dataType DataType, userInfo int32, explanatoryText string) (*symbolCursor, error) {
	if len(name) == 0 || len(name) > format.MaxSymbolNameLen {
		f.setError(errs.ErrBadDataType)

		return nil, errs.ErrBadDataType
	}
	if dim < 0 || dim > format.MaxDimension {
		f.setError(errs.ErrBadDimension)

		return nil, errs.ErrBadDimension
	}
	key := strings.ToUpper(name)
	if _, exists := f.symByName[key]; exists {
		f.setError(errs.ErrDuplicateSymbol)

		return nil, errs.ErrDuplicateSymbol
	}

	se := &symbolEntry{
		SymbolInfo: SymbolInfo{
			Name:            name,
			Dim:             dim,
			DataType:        dataType,
			UserInfo:        userInfo,
			ExplanatoryText: sanitizeExplanatoryText(explanatoryText),
		},
	}
	f.symbols = append(f.symbols, se)
	symIdx := int32(len(f.symbols))
	f.symByName[key] = symIdx

	return &symbolCursor{symIdx: symIdx, entry: se, dim: dim}, nil
}

// DataWriteRawStart declares a new symbol and begins raw (internal-
// index) record writing. Raw writes require strictly sorted, non-
// duplicate keys and are emitted to disk immediately, record by record
//; the stream header is written now with the record
// count set to -1 ("unknown, streamed") since the final count isn't
// known until DataWriteDone — see DESIGN.md for why no sentinel support
// is needed in the section package itself.
func (f *File) DataWriteRawStart(name string, dim int, dataType DataType, userInfo int32, explanatoryText string) error {
	if err := f.requireMode("data_write_raw_start", modeWriteInit); err != nil {
		return err
	}

	cur, err := f.beginSymbolWrite(name, dim, dataType, userInfo, explanatoryText)
	if err != nil {
		return err
	}

	cur.minElem = make([]int32, dim)
	cur.maxElem = make([]int32, dim)
	for d := range cur.maxElem {
		cur.maxElem[d] = math.MaxInt32
	}
	cur.wrBitmaps = make([]*bitset, dim)

	cur.entry.RecordPos = f.writer.Pos()
	if err := section.WriteRecordStreamHeader(f.writer, dim, -1, cur.minElem, cur.maxElem); err != nil {
		return err
	}
	cur.rw = section.NewRecordWriter(f.writer, dim, cur.minElem, cur.maxElem, f.specialValues, f.onAcronymWritten)

	f.cur = cur
	f.mode = modeWriteDomRaw

	return nil
}

// DataWriteMapStart declares a new symbol and begins mapped (user-UEL)
// record writing. Records are buffered in any order and sorted/deduped
// at DataWriteDone.
func (f *File) DataWriteMapStart(name string, dim int, dataType DataType, userInfo int32, explanatoryText string) error {
	if err := f.requireMode("data_write_map_start", modeWriteInit); err != nil {
		return err
	}

	cur, err := f.beginSymbolWrite(name, dim, dataType, userInfo, explanatoryText)
	if err != nil {
		return err
	}
	cur.wrBitmaps = make([]*bitset, dim)
	cur.buffer = tuplestore.New(dim, dataType.ValueCount())

	f.cur = cur
	f.mode = modeWriteDomMap

	return nil
}

// DataWriteStrStart declares a new symbol and begins string-keyed
// record writing: each key string is added to the UEL table if not
// already present. Like map writes, records are buffered until
// DataWriteDone.
func (f *File) DataWriteStrStart(name string, dim int, dataType DataType, userInfo int32, explanatoryText string) error {
	if err := f.requireMode("data_write_str_start", modeWriteInit); err != nil {
		return err
	}

	cur, err := f.beginSymbolWrite(name, dim, dataType, userInfo, explanatoryText)
	if err != nil {
		return err
	}
	cur.wrBitmaps = make([]*bitset, dim)
	cur.buffer = tuplestore.New(dim, dataType.ValueCount())

	f.cur = cur
	f.mode = modeWriteDomStr

	return nil
}

// onAcronymWritten registers code as a known acronym if it hasn't been
// declared already: a value scaled by format.AcronymScale may carry a
// code the caller never declared in the acronym table,
// in which case the original format silently adds a blank entry for it
//. This is distinct from Table.Resolve, which is the
// read-side remapping gated by NextAutoAcronym.
func (f *File) onAcronymWritten(code int) {
	if _, ok := f.acro.ByCode(code); !ok {
		_, _ = f.acro.Add("", "", code)
	}
}

// SetDomain attaches a strict, symbol-referencing domain to the symbol
// whose write was just started: domainIDs[d] is either "*" (no
// restriction) or the name of a dimension-1 Set (or an alias resolving
// to one). Once set, every subsequent write is checked against the
// referenced Set's own element bitmap.
func (f *File) SetDomain(domainIDs []string) error {
	if err := f.requireMode("symbol_set_domain", modeWriteDomRaw, modeWriteDomMap, modeWriteDomStr); err != nil {
		return err
	}

	cur := f.cur
	if len(domainIDs) != cur.dim {
		f.setError(errs.ErrBadDimension)

		return errs.ErrBadDimension
	}

	domSyms := make([]int32, cur.dim)
	for d, id := range domainIDs {
		if id == "" || id == "*" {
			continue
		}

		idx := f.Symbol(id)
		if idx == 0 {
			f.setError(errs.ErrUnknownDomain)

			return errs.ErrUnknownDomain
		}

		target, se, err := f.resolveAliasChain(idx)
		if err != nil {
			f.setError(err)

			return err
		}
		domSyms[d] = idx
		if target == 0 {
			continue // alias of the universe: no bitmap restriction
		}
		if cur.dim != 1 || se != cur.entry {
			cur.wrBitmaps[d] = se.ownBitmap
		}
	}
	cur.entry.DomainSymbols = domSyms
	cur.domainSet = true

	switch f.mode {
	case modeWriteDomRaw:
		f.mode = modeWriteRawData
	case modeWriteDomMap:
		f.mode = modeWriteMapData
	case modeWriteDomStr:
		f.mode = modeWriteStrData
	}

	return nil
}

// resolveAliasChain follows at most maxAliasHops alias links starting
// at idx and returns the underlying Set symbol (target index 0 means
// "alias of the universe", carrying no bitmap).
const maxAliasHops = 8

func (f *File) resolveAliasChain(idx int32) (int32, *symbolEntry, error) {
	se := f.symbols[idx-1]
	for hops := 0; se.DataType == format.Alias; hops++ {
		if hops >= maxAliasHops {
			return 0, nil, errs.ErrAliasSetExpected
		}
		if se.AliasTarget == 0 {
			return 0, nil, nil
		}
		idx = se.AliasTarget
		se = f.symbols[idx-1]
	}
	if se.DataType != format.Set {
		return 0, nil, errs.ErrAliasSetExpected
	}

	return idx, se, nil
}

// SetDomainStrings attaches relaxed (free-form, unchecked) domain text
// to the symbol whose write was just started.
// Unlike SetDomain this performs no domain checking.
func (f *File) SetDomainStrings(domainIDs []string) error {
	if err := f.requireMode("symbol_set_domain_x",
		modeWriteDomRaw, modeWriteDomMap, modeWriteDomStr,
		modeWriteRawData, modeWriteMapData, modeWriteStrData); err != nil {
		return err
	}

	cur := f.cur
	if len(domainIDs) != cur.dim {
		f.setError(errs.ErrBadDimension)

		return errs.ErrBadDimension
	}

	refs := make([]int32, cur.dim)
	for d, id := range domainIDs {
		if id == "" || id == "*" {
			continue
		}
		refs[d] = f.internDomainString(id)
	}
	cur.entry.DomainStrings = refs

	return nil
}

func (f *File) internDomainString(s string) int32 {
	if idx, ok := f.domainStringIdx[s]; ok {
		return idx
	}
	f.domainStrings = append(f.domainStrings, s)
	idx := int32(len(f.domainStrings))
	f.domainStringIdx[s] = idx

	return idx
}

// DataWriteRaw writes one record using internal UEL indices directly.
func (f *File) DataWriteRaw(keys []int32, values []float64) error {
	if err := f.requireMode("data_write_raw", modeWriteDomRaw, modeWriteRawData); err != nil {
		return err
	}
	f.mode = modeWriteRawData

	return f.writeRecordNow(keys, values)
}

// DataWriteMap writes one record using user-mapped UEL indices,
// buffering it for DataWriteDone.
func (f *File) DataWriteMap(keys []int32, values []float64) error {
	if err := f.requireMode("data_write_map", modeWriteDomMap, modeWriteMapData); err != nil {
		return err
	}
	f.mode = modeWriteMapData

	cur := f.cur
	internalKeys := make([]int32, cur.dim)
	for d, k := range keys {
		internal := f.uelTable.UserToInternal(int(k))
		if internal < 0 {
			f.setError(errs.ErrBadUELString)

			return errs.ErrBadUELString
		}
		internalKeys[d] = int32(internal)
	}
	cur.buffer.AddUnique(internalKeys, values)

	return nil
}

// DataWriteStr writes one record using string UEL names, adding any
// name not already present to the UEL table, and
// buffering it for DataWriteDone.
func (f *File) DataWriteStr(keys []string, values []float64) error {
	if err := f.requireMode("data_write_str", modeWriteDomStr, modeWriteStrData); err != nil {
		return err
	}
	f.mode = modeWriteStrData

	cur := f.cur
	internalKeys := make([]int32, cur.dim)
	for d, s := range keys {
		trimmed := strings.TrimRight(s, " ")
		internal := f.uelTable.IndexOf(trimmed)
		if internal < 0 {
			internal = f.uelTable.Add(trimmed)
		}
		internalKeys[d] = int32(internal)
	}
	cur.buffer.AddUnique(internalKeys, values)

	return nil
}

// writeRecordNow applies the domain bitmap check and then the key/value
// codec to one record, used both by raw's immediate path and by
// DataWriteDone's replay of buffered map/str records.
func (f *File) writeRecordNow(keys []int32, values []float64) error {
	cur := f.cur

	for d, bm := range cur.wrBitmaps {
		if bm != nil && !bm.Test(int(keys[d])) {
			dims := make([]int32, cur.dim)
			copy(dims, keys)
			dims[d] = -keys[d]
			cur.entry.addSymbolError(dims, errs.ErrDomainViolation)
			f.setError(errs.ErrDomainViolation)

			return errs.ErrDomainViolation
		}
	}

	if err := cur.rw.WriteRecord(keys, values); err != nil {
		cur.entry.addSymbolError(keys, err)
		f.setError(err)

		return err
	}

	cur.entry.RecordCount++
	if cur.entry.DataType == format.Set && cur.dim == 1 {
		if cur.entry.ownBitmap == nil {
			cur.entry.ownBitmap = newBitset()
		}
		cur.entry.ownBitmap.Set(int(keys[0]))
	}

	return nil
}

// DataWriteDone finalizes the symbol started by the most recent
// DataWrite{Raw,Map,Str}Start: buffered (map/str) records are replayed
// in sorted order through the same domain-checked codec path raw
// writes use directly, a default record is synthesized for a
// zero-record scalar, and the stream terminator is
// written.
func (f *File) DataWriteDone() error {
	if err := f.requireMode("data_write_done",
		modeWriteDomRaw, modeWriteRawData,
		modeWriteDomMap, modeWriteMapData,
		modeWriteDomStr, modeWriteStrData); err != nil {
		return err
	}

	cur := f.cur
	if cur.buffer != nil {
		if err := f.flushBufferedWrites(cur); err != nil {
			return err
		}
	}

	if cur.dim == 0 && cur.entry.RecordCount == 0 {
		values := make([]float64, cur.entry.valueCount())
		if err := f.writeRecordNow(nil, values); err != nil {
			return err
		}
	}

	if err := cur.rw.WriteEndOfStream(); err != nil {
		return err
	}

	f.mode = modeWriteInit
	f.cur = nil

	return nil
}

// flushBufferedWrites writes the stream header (now that the exact
// sorted/deduped count and per-dimension bounds are known) and replays
// every buffered record through the domain-checked write path.
func (f *File) flushBufferedWrites(cur *symbolCursor) error {
	cur.minElem = make([]int32, cur.dim)
	cur.maxElem = make([]int32, cur.dim)
	for d := 0; d < cur.dim; d++ {
		cur.maxElem[d] = 0
	}

	cur.buffer.Iterate(func(keys []int32, values []float64) bool {
		for d, k := range keys {
			if k < cur.minElem[d] {
				cur.minElem[d] = k
			}
			if k > cur.maxElem[d] {
				cur.maxElem[d] = k
			}
		}

		return true
	})

	cur.entry.RecordPos = f.writer.Pos()
	if err := section.WriteRecordStreamHeader(f.writer, cur.dim, int32(cur.buffer.Count()), cur.minElem, cur.maxElem); err != nil {
		return err
	}
	cur.rw = section.NewRecordWriter(f.writer, cur.dim, cur.minElem, cur.maxElem, f.specialValues, f.onAcronymWritten)

	cur.buffer.Iterate(func(keys []int32, values []float64) bool {
		// A domain violation is recorded per-record (writeRecordNow adds
		// it to the symbol's error list) but does not abort the replay;
		// a buffered store never produces duplicate or out-of-order keys
		// since AddUnique already sorted and deduped them on the way in.
		_ = f.writeRecordNow(keys, values)

		return true
	})

	return nil
}
