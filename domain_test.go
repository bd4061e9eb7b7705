package gdx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gdxlib/gdx/errs"
)

func TestBitsetSetTestGrows(t *testing.T) {
	b := newBitset()
	require.False(t, b.Test(100))
	b.Set(100)
	require.True(t, b.Test(100))
	require.False(t, b.Test(99))
	require.False(t, b.Test(-1))
}

func TestFilterIsSortedLazilyProbed(t *testing.T) {
	path := tempGDXPath(t)
	f, err := Create(path)
	require.NoError(t, err)
	writeSimpleSet(t, f, "i", []string{"a", "b", "c"})
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, r.RegisterFilterStart(1))
	require.NoError(t, r.RegisterFilterMap(1))
	require.NoError(t, r.RegisterFilterMap(2))
	require.NoError(t, r.RegisterFilterDone())

	flt := r.filters[1]
	require.True(t, flt.isSorted())
}

func TestRegisterFilterRequiresPositiveNumber(t *testing.T) {
	path := tempGDXPath(t)
	f, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)

	err = r.RegisterFilterStart(0)
	require.ErrorIs(t, err, errs.ErrBadFilterNr)
	require.NoError(t, r.Close())
}

func TestSymbolErrorCountAndRecord(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	require.NoError(t, f.DataWriteRawStart("i", 1, Set, 0, "set i"))
	require.NoError(t, f.SetDomain([]string{"*"}))
	require.NoError(t, f.DataWriteRaw([]int32{1}, []float64{0}))
	require.NoError(t, f.DataWriteDone())

	require.NoError(t, f.DataWriteRawStart("p", 1, Parameter, 0, "p over i"))
	require.NoError(t, f.SetDomain([]string{"i"}))
	require.Error(t, f.DataWriteRaw([]int32{9}, []float64{1}))

	count, err := f.SymbolErrorCount(2)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	dims, kind, err := f.SymbolErrorRecord(2, 0)
	require.NoError(t, err)
	require.ErrorIs(t, kind, errs.ErrDomainViolation)
	require.Equal(t, []int32{-9}, dims)

	_, _, err = f.SymbolErrorRecord(2, 5)
	require.ErrorIs(t, err, errs.ErrBadSymbolIndex)
}
