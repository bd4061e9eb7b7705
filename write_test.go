package gdx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gdxlib/gdx/errs"
)

func TestDataWriteRawRejectsUnsortedKeys(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	require.NoError(t, f.DataWriteRawStart("i", 1, Set, 0, "set i"))
	require.NoError(t, f.SetDomain([]string{"*"}))
	require.NoError(t, f.DataWriteRaw([]int32{2}, []float64{0}))
	err = f.DataWriteRaw([]int32{1}, []float64{0})
	require.Error(t, err)
}

func TestDataWriteStartRequiresWriteInit(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)
	require.NoError(t, f.DataWriteRawStart("i", 1, Set, 0, "set i"))

	// A second *Start call while one symbol write is already open is
	// illegal: the handle is in write_dom_raw, not write_init.
	err = f.DataWriteRawStart("j", 1, Set, 0, "set j")
	require.ErrorIs(t, err, errs.ErrBadMode)
}

func TestDataWriteDuplicateSymbolName(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	require.NoError(t, f.DataWriteRawStart("i", 1, Set, 0, "set i"))
	require.NoError(t, f.SetDomain([]string{"*"}))
	require.NoError(t, f.DataWriteRaw([]int32{1}, []float64{0}))
	require.NoError(t, f.DataWriteDone())

	err = f.DataWriteRawStart("I", 1, Set, 0, "duplicate, case-insensitive")
	require.ErrorIs(t, err, errs.ErrDuplicateSymbol)
}

func TestDataWriteBadDimension(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	_, err = f.beginSymbolWrite("i", -1, Set, 0, "")
	require.ErrorIs(t, err, errs.ErrBadDimension)
}

func TestScalarZeroRecordDefaultRecordSynthesized(t *testing.T) {
	path := tempGDXPath(t)
	f, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, f.DataWriteRawStart("scalar", 0, Parameter, 0, "a scalar"))
	require.NoError(t, f.SetDomain(nil))
	require.NoError(t, f.DataWriteDone())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	count, err := r.DataReadRawStart(1)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	_, values, end, err := r.DataReadRaw()
	require.NoError(t, err)
	require.False(t, end)
	require.Equal(t, []float64{0}, values)

	_, _, end, err = r.DataReadRaw()
	require.NoError(t, err)
	require.True(t, end)
	require.NoError(t, r.DataReadDone())
	require.NoError(t, r.Close())
}

func TestDataWriteMapBuffersAndSorts(t *testing.T) {
	path := tempGDXPath(t)
	f, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, f.UELRegisterMapStart())
	require.NoError(t, f.UELRegisterMap(1, "one"))
	require.NoError(t, f.UELRegisterMap(2, "two"))
	require.NoError(t, f.UELRegisterMap(3, "three"))
	require.NoError(t, f.UELRegisterDone())

	require.NoError(t, f.DataWriteMapStart("p", 1, Parameter, 0, "p"))
	require.NoError(t, f.SetDomain([]string{"*"}))
	require.NoError(t, f.DataWriteMap([]int32{3}, []float64{30}))
	require.NoError(t, f.DataWriteMap([]int32{1}, []float64{10}))
	require.NoError(t, f.DataWriteMap([]int32{2}, []float64{20}))
	require.NoError(t, f.DataWriteDone())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	count, err := r.DataReadRawStart(1)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	var gotKeys []int32
	for {
		keys, _, end, err := r.DataReadRaw()
		require.NoError(t, err)
		if end {
			break
		}
		gotKeys = append(gotKeys, keys[0])
	}
	require.Equal(t, []int32{1, 2, 3}, gotKeys)
	require.NoError(t, r.DataReadDone())
	require.NoError(t, r.Close())
}

func TestDataWriteStrAddsNewUELs(t *testing.T) {
	path := tempGDXPath(t)
	f, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, f.DataWriteStrStart("j", 1, Set, 0, "set j"))
	require.NoError(t, f.SetDomain([]string{"*"}))
	require.NoError(t, f.DataWriteStr([]string{"beta"}, []float64{0}))
	require.NoError(t, f.DataWriteStr([]string{"alpha"}, []float64{0}))
	require.NoError(t, f.DataWriteDone())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	_, err = r.DataReadStrStart(1)
	require.NoError(t, err)

	var got []string
	for {
		keys, _, end, err := r.DataReadStr()
		require.NoError(t, err)
		if end {
			break
		}
		got = append(got, keys[0])
	}
	// DataWriteStr sorts buffered records by internal UEL index, assigned
	// in order of first appearance: "beta" is registered before "alpha"
	// and so keeps the lower index, appearing first on disk.
	require.Equal(t, []string{"beta", "alpha"}, got)
	require.NoError(t, r.DataReadDone())
	require.NoError(t, r.Close())
}

func TestSetDomainViolation(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	require.NoError(t, f.DataWriteRawStart("i", 1, Set, 0, "set i"))
	require.NoError(t, f.SetDomain([]string{"*"}))
	require.NoError(t, f.DataWriteRaw([]int32{1}, []float64{0}))
	require.NoError(t, f.DataWriteRaw([]int32{2}, []float64{0}))
	require.NoError(t, f.DataWriteDone())

	require.NoError(t, f.DataWriteRawStart("p", 1, Parameter, 0, "p over i"))
	require.NoError(t, f.SetDomain([]string{"i"}))
	err = f.DataWriteRaw([]int32{5}, []float64{1})
	require.ErrorIs(t, err, errs.ErrDomainViolation)

	count, err := f.SymbolErrorCount(2)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestSetDomainUnknownSymbol(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	require.NoError(t, f.DataWriteRawStart("p", 1, Parameter, 0, "p"))
	err = f.SetDomain([]string{"nosuchset"})
	require.ErrorIs(t, err, errs.ErrUnknownDomain)
}
