package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gdxlib/gdx/compress"
	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
	"github.com/gdxlib/gdx/stream"
)

func TestRecordRoundTripCompactDelta(t *testing.T) {
	f := tempFile(t)
	w := stream.NewWriter(f, compress.NoopCodec{})

	dim := 2
	minElem := []int32{0, 0}
	maxElem := []int32{9, 9}
	sv := format.DefaultSpecialValues()

	rw := NewRecordWriter(w, dim, minElem, maxElem, sv, nil)
	records := [][2]int32{{0, 0}, {0, 1}, {0, 2}}
	for _, k := range records {
		require.NoError(t, rw.WriteRecord([]int32{k[0], k[1]}, []float64{1.5}))
	}
	require.NoError(t, rw.WriteEndOfStream())
	require.NoError(t, w.Close())

	r := stream.NewReader(reopen(t, f), compress.NoopCodec{})
	rr := NewRecordReader(r, dim, minElem, maxElem, sv, nil)
	for _, want := range records {
		keys := make([]int32, dim)
		values := make([]float64, 1)
		end, err := rr.ReadRecord(keys, values)
		require.NoError(t, err)
		require.False(t, end)
		require.Equal(t, []int32{want[0], want[1]}, keys)
		require.Equal(t, []float64{1.5}, values)
	}
	keys := make([]int32, dim)
	values := make([]float64, 1)
	end, err := rr.ReadRecord(keys, values)
	require.NoError(t, err)
	require.True(t, end)
}

func TestRecordRoundTripGeneralPathFirstDimensionChange(t *testing.T) {
	f := tempFile(t)
	w := stream.NewWriter(f, compress.NoopCodec{})

	dim := 2
	minElem := []int32{0, 0}
	maxElem := []int32{9, 9}
	sv := format.DefaultSpecialValues()

	rw := NewRecordWriter(w, dim, minElem, maxElem, sv, nil)
	records := [][2]int32{{0, 0}, {1, 0}, {2, 3}}
	for _, k := range records {
		require.NoError(t, rw.WriteRecord([]int32{k[0], k[1]}, []float64{7}))
	}
	require.NoError(t, rw.WriteEndOfStream())
	require.NoError(t, w.Close())

	r := stream.NewReader(reopen(t, f), compress.NoopCodec{})
	rr := NewRecordReader(r, dim, minElem, maxElem, sv, nil)
	for _, want := range records {
		keys := make([]int32, dim)
		values := make([]float64, 1)
		end, err := rr.ReadRecord(keys, values)
		require.NoError(t, err)
		require.False(t, end)
		require.Equal(t, []int32{want[0], want[1]}, keys)
	}
}

func TestRecordWideKeyWidths(t *testing.T) {
	f := tempFile(t)
	w := stream.NewWriter(f, compress.NoopCodec{})

	dim := 2
	minElem := []int32{0, 0}
	maxElem := []int32{300, 70000}
	sv := format.DefaultSpecialValues()

	rw := NewRecordWriter(w, dim, minElem, maxElem, sv, nil)
	records := [][2]int32{{0, 0}, {1, 65536}, {300, 70000}}
	for _, k := range records {
		require.NoError(t, rw.WriteRecord([]int32{k[0], k[1]}, []float64{0}))
	}
	require.NoError(t, rw.WriteEndOfStream())
	require.NoError(t, w.Close())

	r := stream.NewReader(reopen(t, f), compress.NoopCodec{})
	rr := NewRecordReader(r, dim, minElem, maxElem, sv, nil)
	for _, want := range records {
		keys := make([]int32, dim)
		values := make([]float64, 1)
		end, err := rr.ReadRecord(keys, values)
		require.NoError(t, err)
		require.False(t, end)
		require.Equal(t, []int32{want[0], want[1]}, keys)
	}
}

func TestRecordSpecialValuesRoundTrip(t *testing.T) {
	f := tempFile(t)
	w := stream.NewWriter(f, compress.NoopCodec{})

	sv := format.DefaultSpecialValues()

	rw := NewRecordWriter(w, 0, nil, nil, sv, nil)
	want := []float64{format.SVUndef, format.SVNA, format.SVPosInf, format.SVNegInf, format.SVEps, 3.14}
	for _, v := range want {
		require.NoError(t, rw.WriteRecord(nil, []float64{v}))
	}
	require.NoError(t, rw.WriteEndOfStream())
	require.NoError(t, w.Close())

	r := stream.NewReader(reopen(t, f), compress.NoopCodec{})
	rr := NewRecordReader(r, 0, nil, nil, sv, nil)
	for _, wantVal := range want {
		values := make([]float64, 1)
		end, err := rr.ReadRecord(nil, values)
		require.NoError(t, err)
		require.False(t, end)
		require.Equal(t, wantVal, values[0])
	}
}

func TestRecordAcronymDetectionAndResolution(t *testing.T) {
	f := tempFile(t)
	w := stream.NewWriter(f, compress.NoopCodec{})

	sv := format.DefaultSpecialValues()
	var detectedCodes []int
	rw := NewRecordWriter(w, 0, nil, nil, sv, func(code int) { detectedCodes = append(detectedCodes, code) })
	require.NoError(t, rw.WriteRecord(nil, []float64{9 * format.AcronymScale}))
	require.NoError(t, rw.WriteEndOfStream())
	require.NoError(t, w.Close())

	require.Equal(t, []int{9}, detectedCodes)

	var resolvedCodes []int
	r := stream.NewReader(reopen(t, f), compress.NoopCodec{})
	rr := NewRecordReader(r, 0, nil, nil, sv, func(code int) int {
		resolvedCodes = append(resolvedCodes, code)
		return code
	})
	values := make([]float64, 1)
	end, err := rr.ReadRecord(nil, values)
	require.NoError(t, err)
	require.False(t, end)
	require.Equal(t, 9*format.AcronymScale, values[0])
	require.Equal(t, []int{9}, resolvedCodes)
}

func TestRecordDuplicateKeyRejected(t *testing.T) {
	f := tempFile(t)
	w := stream.NewWriter(f, compress.NoopCodec{})

	dim := 1
	minElem := []int32{0}
	maxElem := []int32{9}
	sv := format.DefaultSpecialValues()

	rw := NewRecordWriter(w, dim, minElem, maxElem, sv, nil)
	require.NoError(t, rw.WriteRecord([]int32{0}, []float64{1}))
	err := rw.WriteRecord([]int32{0}, []float64{2})
	require.ErrorIs(t, err, errs.ErrDataDuplicate)
}

func TestRecordOutOfOrderRejected(t *testing.T) {
	f := tempFile(t)
	w := stream.NewWriter(f, compress.NoopCodec{})

	dim := 1
	minElem := []int32{0}
	maxElem := []int32{9}
	sv := format.DefaultSpecialValues()

	rw := NewRecordWriter(w, dim, minElem, maxElem, sv, nil)
	require.NoError(t, rw.WriteRecord([]int32{5}, []float64{1}))
	err := rw.WriteRecord([]int32{2}, []float64{2})
	require.ErrorIs(t, err, errs.ErrRawNotSorted)
}

func TestRecordStreamHeaderRoundTrip(t *testing.T) {
	f := tempFile(t)
	w := stream.NewWriter(f, compress.NoopCodec{})

	minElem := []int32{0, 1}
	maxElem := []int32{4, 5}
	require.NoError(t, WriteRecordStreamHeader(w, 2, 3, minElem, maxElem))
	require.NoError(t, w.Close())

	r := stream.NewReader(reopen(t, f), compress.NoopCodec{})
	dim, count, gotMin, gotMax, err := ReadRecordStreamHeader(r)
	require.NoError(t, err)
	require.Equal(t, 2, dim)
	require.Equal(t, int32(3), count)
	require.Equal(t, minElem, gotMin)
	require.Equal(t, maxElem, gotMax)
}
