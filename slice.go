package gdx

import (
	"sort"

	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/section"
)

// SliceRecord is one record returned by DataReadSlice: Keys holds the
// contiguous 0-based local index of each free (unfixed) dimension, in
// dimension order, matching the mapping DataSliceUELS inverts back to
// UEL strings.
type SliceRecord struct {
	Keys   []int32
	Values []float64
}

// DataReadSliceStart begins a slice read of symIdx: a first pass over
// the whole record stream that computes, per dimension, the set of
// internal UEL indices actually in use, numbered 0..N-1 in ascending
// order. It returns the per-dimension
// count N.
func (f *File) DataReadSliceStart(symIdx int32) ([]int32, error) {
	if err := f.requireMode("data_read_slice_start", modeReadInit); err != nil {
		return nil, err
	}

	cur, err := f.beginSymbolRead(symIdx)
	if err != nil {
		return nil, err
	}

	observed := make([]map[int32]bool, cur.dim)
	for d := range observed {
		observed[d] = make(map[int32]bool)
	}

	rr := section.NewRecordReader(f.reader, cur.dim, cur.minElem, cur.maxElem, f.specialValues, f.acro.Resolve)
	keys := make([]int32, cur.dim)
	values := make([]float64, cur.entry.valueCount())
	for {
		end, err := rr.ReadRecord(keys, values)
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		for d, k := range keys {
			observed[d][k] = true
		}
	}

	elemCounts := make([]int32, cur.dim)
	cur.sliceLocalToInternal = make([][]int32, cur.dim)
	for d := range observed {
		internals := make([]int32, 0, len(observed[d]))
		for k := range observed[d] {
			internals = append(internals, k)
		}
		sort.Slice(internals, func(i, j int) bool { return internals[i] < internals[j] })
		cur.sliceLocalToInternal[d] = internals
		elemCounts[d] = int32(len(internals))
	}

	f.cur = cur
	f.mode = modeReadSlice

	return elemCounts, nil
}

// DataReadSlice returns every record matching fixed: fixed[d] == "" is a
// free dimension, reported via its contiguous local index; any other
// value fixes that dimension to the given UEL. May be called more than
// once with different fixed values.
func (f *File) DataReadSlice(fixed []string) ([]SliceRecord, error) {
	if err := f.requireMode("data_read_slice", modeReadSlice); err != nil {
		return nil, err
	}

	cur := f.cur
	if len(fixed) != cur.dim {
		f.setError(errs.ErrBadDimension)

		return nil, errs.ErrBadDimension
	}

	fixedInternal := make([]int32, cur.dim)
	isFree := make([]bool, cur.dim)
	for d, s := range fixed {
		if s == "" {
			isFree[d] = true

			continue
		}
		internal := f.uelTable.IndexOf(s)
		if internal < 0 {
			f.setError(errs.ErrUndefUEL)

			return nil, errs.ErrUndefUEL
		}
		fixedInternal[d] = int32(internal)
	}
	cur.sliceFixed = append([]string(nil), fixed...)

	if err := f.reader.Seek(cur.entry.RecordPos); err != nil {
		return nil, err
	}
	if _, _, _, _, err := section.ReadRecordStreamHeader(f.reader); err != nil {
		return nil, err
	}
	rr := section.NewRecordReader(f.reader, cur.dim, cur.minElem, cur.maxElem, f.specialValues, f.acro.Resolve)

	var out []SliceRecord
	keys := make([]int32, cur.dim)
	values := make([]float64, cur.entry.valueCount())
	for {
		end, err := rr.ReadRecord(keys, values)
		if err != nil {
			return nil, err
		}
		if end {
			break
		}

		match := true
		localKeys := make([]int32, 0, cur.dim)
		for d, k := range keys {
			if !isFree[d] {
				if k != fixedInternal[d] {
					match = false

					break
				}

				continue
			}
			localKeys = append(localKeys, localIndexOf(cur.sliceLocalToInternal[d], k))
		}
		if !match {
			continue
		}

		valsCopy := make([]float64, len(values))
		copy(valsCopy, values)
		out = append(out, SliceRecord{Keys: localKeys, Values: valsCopy})
	}

	return out, nil
}

func localIndexOf(internals []int32, v int32) int32 {
	i := sort.Search(len(internals), func(i int) bool { return internals[i] >= v })
	if i < len(internals) && internals[i] == v {
		return int32(i)
	}

	return -1
}

// DataSliceUELS maps a slice record's local indices (from SliceRecord.
// Keys, matching the fixed/free layout of the most recent DataReadSlice
// call) back to UEL strings, one per dimension.
func (f *File) DataSliceUELS(localKeys []int32) ([]string, error) {
	if err := f.requireMode("data_slice_uels", modeReadSlice); err != nil {
		return nil, err
	}
	cur := f.cur
	if cur.sliceFixed == nil {
		f.setError(errs.ErrBadMode)

		return nil, errs.ErrBadMode
	}

	out := make([]string, len(cur.sliceFixed))
	free := 0
	for d, s := range cur.sliceFixed {
		if s != "" {
			out[d] = s

			continue
		}
		internal := cur.sliceLocalToInternal[d][localKeys[free]]
		out[d] = f.uelTable.String(int(internal))
		free++
	}

	return out, nil
}
