package gdx

import (
	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
	"github.com/gdxlib/gdx/section"
	"github.com/gdxlib/gdx/tuplestore"
)

// resolveReadTarget follows at most maxAliasHops alias links starting at
// symIdx and returns the underlying symbol whose record stream actually
// holds data. An alias of the universe has no
// record stream of its own and is not supported by this reader.
func (f *File) resolveReadTarget(symIdx int32) (int32, *symbolEntry, error) {
	if symIdx < 1 || int(symIdx) > len(f.symbols) {
		return 0, nil, errs.ErrBadSymbolIndex
	}

	se := f.symbols[symIdx-1]
	for hops := 0; se.DataType == format.Alias; hops++ {
		if hops >= maxAliasHops {
			return 0, nil, errs.ErrAliasSetExpected
		}
		if se.AliasTarget == 0 {
			return 0, nil, errs.ErrAliasSetExpected
		}
		symIdx = se.AliasTarget
		se = f.symbols[symIdx-1]
	}

	return symIdx, se, nil
}

// beginSymbolRead repositions the reader at the target symbol's record
// stream and reads its preamble. The header's own record count is not
// used — the authoritative count is the symbol table's, already held in
// se.RecordCount (see DESIGN.md).
func (f *File) beginSymbolRead(symIdx int32) (*symbolCursor, error) {
	targetIdx, se, err := f.resolveReadTarget(symIdx)
	if err != nil {
		f.setError(err)

		return nil, err
	}

	if err := f.reader.Seek(se.RecordPos); err != nil {
		return nil, err
	}
	dim, _, minElem, maxElem, err := section.ReadRecordStreamHeader(f.reader)
	if err != nil {
		return nil, err
	}
	if dim != se.Dim {
		f.setError(errs.ErrBadDimension)

		return nil, errs.ErrBadDimension
	}

	return &symbolCursor{symIdx: targetIdx, entry: se, dim: dim, minElem: minElem, maxElem: maxElem}, nil
}

// DataReadRawStart begins raw (internal-index) record reading of
// symIdx, returning the symbol's declared record count.
func (f *File) DataReadRawStart(symIdx int32) (int32, error) {
	if err := f.requireMode("data_read_raw_start", modeReadInit); err != nil {
		return 0, err
	}

	cur, err := f.beginSymbolRead(symIdx)
	if err != nil {
		return 0, err
	}
	cur.rr = section.NewRecordReader(f.reader, cur.dim, cur.minElem, cur.maxElem, f.specialValues, f.acro.Resolve)

	f.cur = cur
	f.mode = modeReadRaw

	return cur.entry.RecordCount, nil
}

// DataReadRaw reads the next record using internal UEL indices. end is
// true once the stream is exhausted, mirroring DataWriteRawStart's
// comment on why the header's record count is never trusted for loop
// termination: every read walks to the 0xFF terminator instead.
func (f *File) DataReadRaw() (keys []int32, values []float64, end bool, err error) {
	if err := f.requireMode("data_read_raw", modeReadRaw); err != nil {
		return nil, nil, false, err
	}

	cur := f.cur
	keys = make([]int32, cur.dim)
	values = make([]float64, cur.entry.valueCount())
	end, err = cur.rr.ReadRecord(keys, values)
	if err != nil {
		f.setError(err)

		return nil, nil, false, err
	}

	return keys, values, end, nil
}

// DataReadStrStart begins string-keyed record reading of symIdx.
func (f *File) DataReadStrStart(symIdx int32) (int32, error) {
	if err := f.requireMode("data_read_str_start", modeReadInit); err != nil {
		return 0, err
	}

	cur, err := f.beginSymbolRead(symIdx)
	if err != nil {
		return 0, err
	}
	cur.rr = section.NewRecordReader(f.reader, cur.dim, cur.minElem, cur.maxElem, f.specialValues, f.acro.Resolve)

	f.cur = cur
	f.mode = modeReadStr

	return cur.entry.RecordCount, nil
}

// DataReadStr reads the next record, converting each internal UEL index
// to its string directly off the stream in disk order.
func (f *File) DataReadStr() (keys []string, values []float64, end bool, err error) {
	if err := f.requireMode("data_read_str", modeReadStr); err != nil {
		return nil, nil, false, err
	}

	cur := f.cur
	rawKeys := make([]int32, cur.dim)
	values = make([]float64, cur.entry.valueCount())
	end, err = cur.rr.ReadRecord(rawKeys, values)
	if err != nil {
		f.setError(err)

		return nil, nil, false, err
	}
	if end {
		return nil, nil, true, nil
	}

	keys = make([]string, cur.dim)
	for d, k := range rawKeys {
		keys[d] = f.uelTable.String(int(k))
	}

	return keys, values, false, nil
}

// DataReadMapStart begins mapped record reading of symIdx: actions[d]
// selects how dimension d's internal UEL index is resolved. Unlike the original's sorted-filter fast path, every mapped
// read is buffered and sorted on the resolved keys up front, trading
// the original's optional in-place streaming optimization for a single
// simpler, always-correct code path (see DESIGN.md).
func (f *File) DataReadMapStart(symIdx int32, actions []ReadAction) (int32, error) {
	if err := f.requireMode("data_read_map_start", modeReadInit); err != nil {
		return 0, err
	}

	cur, err := f.beginSymbolRead(symIdx)
	if err != nil {
		return 0, err
	}
	if len(actions) != cur.dim {
		f.setError(errs.ErrBadDimension)

		return 0, errs.ErrBadDimension
	}
	cur.readActions = actions

	rr := section.NewRecordReader(f.reader, cur.dim, cur.minElem, cur.maxElem, f.specialValues, f.acro.Resolve)
	cur.buffer = tuplestore.New(cur.dim, cur.entry.valueCount())

	rawKeys := make([]int32, cur.dim)
	rawValues := make([]float64, cur.entry.valueCount())
	for {
		end, err := rr.ReadRecord(rawKeys, rawValues)
		if err != nil {
			f.setError(err)

			return 0, err
		}
		if end {
			break
		}

		mapped := make([]int32, cur.dim)
		admitted := true
		for d, k := range rawKeys {
			v, err := f.applyReadAction(actions[d], k)
			if err != nil {
				dims := make([]int32, cur.dim)
				copy(dims, rawKeys)
				dims[d] = -rawKeys[d]
				cur.entry.addSymbolError(dims, err)
				admitted = false

				break
			}
			mapped[d] = v
		}
		if !admitted {
			continue
		}

		valsCopy := make([]float64, len(rawValues))
		copy(valsCopy, rawValues)
		cur.buffer.AddUnique(mapped, valsCopy)
	}

	f.cur = cur
	f.mode = modeReadMap

	return int32(cur.buffer.Count()), nil
}

// DataReadMap reads the next record from the sorted, resolved buffer
// built by DataReadMapStart.
func (f *File) DataReadMap() (keys []int32, values []float64, end bool, err error) {
	if err := f.requireMode("data_read_map", modeReadMap); err != nil {
		return nil, nil, false, err
	}

	cur := f.cur
	if cur.readPos >= cur.buffer.Count() {
		return nil, nil, true, nil
	}

	k, v, release := cur.buffer.Get(cur.readPos)
	keys = append([]int32(nil), k...)
	values = append([]float64(nil), v...)
	release()
	cur.readPos++

	return keys, values, false, nil
}

// DataReadDone ends the read session started by the most recent
// DataRead{Raw,Map,Str}Start.
func (f *File) DataReadDone() error {
	if err := f.requireMode("data_read_done",
		modeReadRaw, modeReadMap, modeReadMapR, modeReadStr, modeReadSlice); err != nil {
		return err
	}

	f.cur = nil
	f.mode = modeReadInit

	return nil
}
